package service

import (
	"context"
	"testing"
	"time"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/remit-ledger/internal/service/mocks"
	"github.com/fsdevblog/remit-ledger/internal/service/tokens"
	"github.com/fsdevblog/remit-ledger/pkg/uow"
	uowmocks "github.com/fsdevblog/remit-ledger/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUOW      *uowmocks.MockUOW
	mockTX       *uowmocks.MockTX
	mockUserRepo *mocks.MockUserRepository
	mockPsswd    *mocks.MockPasswordHasher
	jwtSecret    []byte
	logHook      *test.Hook
	userService  *UserService
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(mockCtrl)
	s.mockPsswd = mocks.NewMockPasswordHasher(mockCtrl)
	s.mockTX = uowmocks.NewMockTX(mockCtrl)

	s.jwtSecret = []byte("secret")

	// Мок получения репозитория из uow. Выполняется в инициализации сервиса.
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()

	var logger *logrus.Logger
	logger, s.logHook = test.NewNullLogger()

	userService, servErr := NewUserService(s.mockUOW, s.jwtSecret, s.mockPsswd, logger)
	s.Require().NoError(servErr)
	s.userService = userService
}

func (s *UserServiceTestSuite) TestLogin() {
	savedUserUsername := "test"
	// аргументы вызовов для кейсов ниже.
	argsOk := LoginUserArgs{
		Username: savedUserUsername,
		Password: "<PASSWORD>",
	}
	argsWrongUsername := LoginUserArgs{
		Username: "wrong",
		Password: "<PASSWORD>",
	}
	argsWrongPass := LoginUserArgs{
		Username: savedUserUsername,
		Password: "wrong pass",
	}

	validHashPassword := "hash ok"

	savedUser := domain.User{
		ID:                1,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
		Username:          savedUserUsername,
		EncryptedPassword: validHashPassword,
		IsAdmin:           true,
	}

	// Мок для сравнения пароля.
	s.mockPsswd.EXPECT().ComparePassword(argsOk.Password, validHashPassword).Return(true)
	s.mockPsswd.EXPECT().ComparePassword(argsWrongUsername.Password, validHashPassword).Times(0)
	s.mockPsswd.EXPECT().ComparePassword(argsWrongPass.Password, validHashPassword).Return(false)

	// Мок репозитория.
	s.mockUserRepo.EXPECT().
		FindUserByUsername(gomock.Any(), savedUserUsername).
		Return(&savedUser, nil).Times(2)

	s.mockUserRepo.EXPECT().
		FindUserByUsername(gomock.Any(), argsWrongUsername.Username).
		Return(nil, domain.ErrRecordNotFound)

	cases := []struct {
		name               string
		args               LoginUserArgs
		wantErr            error
		wantHashedPassword string
	}{
		{name: "ok", args: argsOk, wantErr: nil, wantHashedPassword: validHashPassword},
		{name: "wrong username", args: argsWrongUsername, wantErr: domain.ErrRecordNotFound},
		{name: "wrong password", args: argsWrongPass, wantErr: domain.ErrPasswordMissMatch},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			user, tokenStr, err := s.userService.Login(s.T().Context(), t.args)
			s.Require().ErrorIs(err, t.wantErr)

			if t.wantErr == nil {
				s.Equal(t.wantHashedPassword, user.EncryptedPassword)
				s.NotEmpty(tokenStr)

				claims, tokenErr := tokens.ValidateUserJWT(tokenStr, s.jwtSecret)
				s.Require().NoError(tokenErr)
				s.Equal(savedUser.ID, claims.ID)
				s.True(claims.IsAdmin)
			}
		})
	}
}

func (s *UserServiceTestSuite) TestRegister() {
	argsOk := RegisterUserArgs{
		Username: "validUser",
		Password: "<PASSWORD>",
	}
	argsDuplicateUsername := RegisterUserArgs{
		Username: "duplicateUser",
		Password: "<PASSWORD>",
	}

	validHashedPassword := "hashedPassword"

	createdUser := domain.User{
		ID:                1,
		Username:          argsOk.Username,
		EncryptedPassword: validHashedPassword,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	// Мок транзакции uow.
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).MinTimes(1)

	// Мок хеширования пароля.
	s.mockPsswd.EXPECT().HashPassword(argsOk.Password).Return(validHashedPassword, nil).Times(2)

	// Мок репозитория.
	s.mockUserRepo.EXPECT().
		CreateUser(gomock.Any(), gomock.Eq(repoargs.CreateUser{
			Username: argsOk.Username,
			Password: validHashedPassword,
		})).
		Return(&createdUser, nil)

	s.mockUserRepo.EXPECT().
		CreateUser(gomock.Any(), gomock.Eq(repoargs.CreateUser{
			Username: argsDuplicateUsername.Username,
			Password: validHashedPassword,
		})).
		Return(nil, domain.ErrDuplicateKey)

	// Мок uow.
	s.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		}).AnyTimes()

	cases := []struct {
		name      string
		args      RegisterUserArgs
		wantErr   error
		wantUser  *domain.User
		wantToken bool
	}{
		{
			name:      "ok",
			args:      argsOk,
			wantUser:  &createdUser,
			wantToken: true,
		},
		{
			name:    "duplicate username",
			args:    argsDuplicateUsername,
			wantErr: domain.ErrDuplicateKey,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			user, tokenStr, err := s.userService.Register(s.T().Context(), t.args)

			s.Require().ErrorIs(err, t.wantErr)
			s.Equal(t.wantUser, user)

			if t.wantToken {
				s.Require().NotEmpty(tokenStr)

				claims, tokenErr := tokens.ValidateUserJWT(tokenStr, s.jwtSecret)
				s.Require().NoError(tokenErr)
				s.Equal(user.ID, claims.ID)
				s.False(claims.IsAdmin)
			} else {
				s.Empty(tokenStr)
			}
		})
	}
}

func (s *UserServiceTestSuite) TestEnsureAdmin() {
	existing := domain.User{ID: 7, Username: "root", IsAdmin: true}

	s.Run("existing user is kept", func() {
		s.mockUserRepo.EXPECT().FindUserByUsername(gomock.Any(), "root").Return(&existing, nil)
		s.mockPsswd.EXPECT().HashPassword(gomock.Any()).Times(0)

		user, err := s.userService.EnsureAdmin(s.T().Context(), "root", "pass")
		s.Require().NoError(err)
		s.Equal(&existing, user)
	})

	s.Run("regular user with admin name", func() {
		s.logHook.Reset()
		regular := domain.User{ID: 8, Username: "boss"}
		s.mockUserRepo.EXPECT().FindUserByUsername(gomock.Any(), "boss").Return(&regular, nil)

		user, err := s.userService.EnsureAdmin(s.T().Context(), "boss", "pass")
		s.Require().NoError(err)
		s.False(user.IsAdmin)
		s.Require().NotNil(s.logHook.LastEntry())
		s.Equal(logrus.WarnLevel, s.logHook.LastEntry().Level)
	})

	s.Run("created", func() {
		created := domain.User{ID: 9, Username: "admin", EncryptedPassword: "hashed", IsAdmin: true}
		s.mockUserRepo.EXPECT().FindUserByUsername(gomock.Any(), "admin").Return(nil, domain.ErrRecordNotFound)
		s.mockPsswd.EXPECT().HashPassword("pass").Return("hashed", nil)
		s.mockUserRepo.EXPECT().
			CreateUser(gomock.Any(), repoargs.CreateUser{Username: "admin", Password: "hashed", IsAdmin: true}).
			Return(&created, nil)

		user, err := s.userService.EnsureAdmin(s.T().Context(), "admin", "pass")
		s.Require().NoError(err)
		s.Equal(&created, user)
	})

	s.Run("storage error", func() {
		s.mockUserRepo.EXPECT().FindUserByUsername(gomock.Any(), "broken").Return(nil, domain.ErrUnknown)

		_, err := s.userService.EnsureAdmin(s.T().Context(), "broken", "pass")
		s.Require().ErrorIs(err, domain.ErrUnknown)
	})
}
