package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/service"
	"github.com/fsdevblog/remit-ledger/internal/transport/api/testutils"
	"github.com/golang/mock/gomock"
)

func (s *HandlersTestSuite) TestRegister() {
	s.mockUserService.EXPECT().
		Register(gomock.Any(), service.RegisterUserArgs{Username: "alice", Password: "secret1"}).
		Return(&domain.User{ID: currentUserID, Username: "alice"}, "jwt-token", nil).Times(1)
	s.mockUserService.EXPECT().
		Register(gomock.Any(), service.RegisterUserArgs{Username: "bob", Password: "secret1"}).
		Return(nil, "", domain.ErrDuplicateKey).Times(1)

	cases := []struct {
		name       string
		body       []byte
		token      string
		wantStatus int
	}{
		{
			name:       "all ok",
			body:       []byte(`{"login":"alice","password":"secret1"}`),
			wantStatus: http.StatusOK,
		}, {
			name:       "duplicate login",
			body:       []byte(`{"login":"bob","password":"secret1"}`),
			wantStatus: http.StatusConflict,
		}, {
			name: "login over bytes limit",
			body: []byte(fmt.Sprintf(`{"login":"%s","password":"secret1"}`,
				testutils.OverBytesUnderRunes(20))),
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "short password",
			body:       []byte(`{"login":"alice","password":"123"}`),
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "malformed json",
			body:       []byte(`{"login":`),
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "already authorized",
			body:       []byte(`{"login":"alice","password":"secret1"}`),
			token:      s.userToken,
			wantStatus: http.StatusUnauthorized,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			status, _ := s.do(requestCase{
				method: http.MethodPost,
				url:    RouteGroup + RegisterRoute,
				body:   bytes.NewReader(t.body),
				token:  t.token,
			})
			s.Equal(t.wantStatus, status)
		})
	}
}

func (s *HandlersTestSuite) TestLogin() {
	s.mockUserService.EXPECT().
		Login(gomock.Any(), service.LoginUserArgs{Username: "alice", Password: "secret1"}).
		Return(&domain.User{ID: currentUserID, Username: "alice", IsAdmin: true}, "jwt-token", nil).Times(1)
	s.mockUserService.EXPECT().
		Login(gomock.Any(), service.LoginUserArgs{Username: "alice", Password: "wrong-pass"}).
		Return(nil, "", domain.ErrPasswordMissMatch).Times(1)
	s.mockUserService.EXPECT().
		Login(gomock.Any(), service.LoginUserArgs{Username: "ghost", Password: "secret1"}).
		Return(nil, "", domain.ErrRecordNotFound).Times(1)

	s.Run("all ok", func() {
		res, err := testutils.MakeRequest(testutils.RequestArgs{
			Router: s.router,
			Method: http.MethodPost,
			URL:    RouteGroup + LoginRoute,
			Body:   bytes.NewReader([]byte(`{"login":"alice","password":"secret1"}`)),
		}, testutils.WithHeader("Content-Type", "application/json"))
		s.Require().NoError(err)
		defer func() {
			s.Require().NoError(res.Body.Close())
		}()
		s.Equal(http.StatusOK, res.StatusCode)
		s.Equal("Bearer jwt-token", res.Header.Get("Authorization"))
	})

	cases := []struct {
		name       string
		body       []byte
		wantStatus int
	}{
		{
			name:       "wrong password",
			body:       []byte(`{"login":"alice","password":"wrong-pass"}`),
			wantStatus: http.StatusUnauthorized,
		}, {
			name:       "unknown user",
			body:       []byte(`{"login":"ghost","password":"secret1"}`),
			wantStatus: http.StatusUnauthorized,
		}, {
			name:       "empty body",
			body:       []byte(``),
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			status, _ := s.do(requestCase{
				method: http.MethodPost,
				url:    RouteGroup + LoginRoute,
				body:   bytes.NewReader(t.body),
			})
			s.Equal(t.wantStatus, status)
		})
	}
}
