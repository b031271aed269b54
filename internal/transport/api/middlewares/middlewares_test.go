package middlewares

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fsdevblog/remit-ledger/internal/service/tokens"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"
)

type MiddlewaresTestSuite struct {
	suite.Suite
	secret []byte
}

func TestMiddlewaresSuite(t *testing.T) {
	suite.Run(t, new(MiddlewaresTestSuite))
}

func (s *MiddlewaresTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	s.secret = []byte("middleware secret")
}

func (s *MiddlewaresTestSuite) serve(r *gin.Engine, method, url, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, nil)
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func (s *MiddlewaresTestSuite) token(id int64, isAdmin bool, secret []byte) string {
	token, err := tokens.GenerateUserJWT(id, isAdmin, time.Hour, secret)
	s.Require().NoError(err)
	return token
}

func (s *MiddlewaresTestSuite) TestAuth() {
	r := gin.New()
	r.GET("/me", AuthRequired(s.secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetInt64(CurrentUserIDKey), "admin": c.GetBool(CurrentUserAdminKey)})
	})
	r.GET("/admin", AuthRequired(s.secret), AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.POST("/login", NonAuthRequired(s.secret), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	cases := []struct {
		name       string
		method     string
		url        string
		token      string
		wantStatus int
	}{
		{"valid token", http.MethodGet, "/me", s.token(7, false, s.secret), http.StatusOK},
		{"no token", http.MethodGet, "/me", "", http.StatusUnauthorized},
		{"foreign signature", http.MethodGet, "/me", s.token(7, false, []byte("other")), http.StatusUnauthorized},
		{"admin", http.MethodGet, "/admin", s.token(1, true, s.secret), http.StatusNoContent},
		{"not admin", http.MethodGet, "/admin", s.token(7, false, s.secret), http.StatusForbidden},
		{"anonymous login", http.MethodPost, "/login", "", http.StatusOK},
		{"login with stale token", http.MethodPost, "/login", s.token(7, false, []byte("other")), http.StatusOK},
		{"login when authorized", http.MethodPost, "/login", s.token(7, false, s.secret), http.StatusUnauthorized},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			rec := s.serve(r, t.method, t.url, t.token)
			s.Equal(t.wantStatus, rec.Code)
		})
	}

	rec := s.serve(r, http.MethodGet, "/me", s.token(7, true, s.secret))
	s.JSONEq(`{"id":7,"admin":true}`, rec.Body.String())
}

func (s *MiddlewaresTestSuite) TestErrors() {
	r := gin.New()
	r.Use(Errors())
	r.GET("/public", func(c *gin.Context) {
		_ = c.AbortWithError(http.StatusPaymentRequired, errors.New("insufficient funds")).SetType(gin.ErrorTypePublic)
	})
	r.GET("/private", func(c *gin.Context) {
		_ = c.AbortWithError(http.StatusInternalServerError, errors.New("pq: relation does not exist")).
			SetType(gin.ErrorTypePrivate)
	})
	r.GET("/rendered", func(c *gin.Context) {
		_ = c.Error(errors.New("only for logs"))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	})

	rec := s.serve(r, http.MethodGet, "/public", "")
	s.Equal(http.StatusPaymentRequired, rec.Code)
	s.JSONEq(`{"error":"insufficient funds"}`, rec.Body.String())

	rec = s.serve(r, http.MethodGet, "/private", "")
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.JSONEq(`{"error":"internal server error"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Accept", "text/plain")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	s.Equal("insufficient funds", rec.Body.String())

	rec = s.serve(r, http.MethodGet, "/rendered", "")
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.JSONEq(`{"error":"invalid credentials"}`, rec.Body.String())
}

func (s *MiddlewaresTestSuite) TestLogger() {
	l, hook := test.NewNullLogger()
	r := gin.New()
	r.Use(Logger(l))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusUnprocessableEntity) })
	r.GET("/fail", func(c *gin.Context) {
		_ = c.AbortWithError(http.StatusInternalServerError, errors.New("db down"))
	})

	for url, want := range map[string]logrus.Level{
		"/ok":   logrus.InfoLevel,
		"/bad":  logrus.WarnLevel,
		"/fail": logrus.ErrorLevel,
	} {
		hook.Reset()
		s.serve(r, http.MethodGet, url, "")
		s.Require().Len(hook.Entries, 1, url)
		s.Equal(want, hook.LastEntry().Level, url)
		s.Equal(url, hook.LastEntry().Data["path"])
		if url == "/fail" {
			s.Contains(hook.LastEntry().Data["errors"], "db down")
		}
	}
}

func (s *MiddlewaresTestSuite) TestRateLimiter() {
	rl := NewRateLimiter(0.001, 2)
	r := gin.New()
	r.POST("/send", AuthRequired(s.secret), rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	alice := s.token(1, false, s.secret)
	bob := s.token(2, false, s.secret)

	s.Equal(http.StatusOK, s.serve(r, http.MethodPost, "/send", alice).Code)
	s.Equal(http.StatusOK, s.serve(r, http.MethodPost, "/send", alice).Code)
	rec := s.serve(r, http.MethodPost, "/send", alice)
	s.Equal(http.StatusTooManyRequests, rec.Code)
	s.Equal("1", rec.Header().Get("Retry-After"))

	s.Equal(http.StatusOK, s.serve(r, http.MethodPost, "/send", bob).Code)

	s.Zero(rl.Cleanup(time.Hour))
	rl.mu.Lock()
	rl.limiters["user:1"].lastSeen = time.Now().Add(-2 * time.Hour)
	rl.mu.Unlock()
	s.Equal(1, rl.Cleanup(time.Hour))

	// после очистки лимит для пользователя начинается заново.
	s.Equal(http.StatusOK, s.serve(r, http.MethodPost, "/send", alice).Code)
}
