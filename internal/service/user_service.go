package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/remit-ledger/internal/service/tokens"
	"github.com/fsdevblog/remit-ledger/pkg/uow"
	"github.com/sirupsen/logrus"
)

const JWTTokenExpire = 1 * time.Hour

type UserService struct {
	uow            uow.UOW
	userRepo       UserRepository
	psswd          PasswordHasher
	jwtTokenSecret []byte
	l              *logrus.Entry
}

func NewUserService(u uow.UOW, jwtTokenSecret []byte, psswd PasswordHasher, l *logrus.Logger) (*UserService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr //nolint:wrapcheck
	}
	if l == nil {
		l = logrus.New()
	}
	return &UserService{
		uow:            u,
		userRepo:       userRepo,
		psswd:          psswd,
		jwtTokenSecret: jwtTokenSecret,
		l:              l.WithField("component", "user_service"),
	}, nil
}

type RegisterUserArgs struct {
	Username string
	Password string
}

// Register создает юзера в базе данных. После успешного создания генерирует jwt token. Возвращает 3 значения:
// созданный юзер, токен и ошибку.
func (s *UserService) Register(ctx context.Context, args RegisterUserArgs) (*domain.User, string, error) {
	password, hashErr := s.psswd.HashPassword(args.Password)
	if hashErr != nil {
		return nil, "", fmt.Errorf("registering user: %w", hashErr)
	}
	var user *domain.User
	var token string
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		var userErr, tokenErr error
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		user, userErr = userRepo.CreateUser(c, repoargs.CreateUser{
			Username: args.Username,
			Password: password,
		})
		if userErr != nil {
			return userErr //nolint:wrapcheck
		}

		token, tokenErr = tokens.GenerateUserJWT(user.ID, user.IsAdmin, JWTTokenExpire, s.jwtTokenSecret)
		if tokenErr != nil {
			return tokenErr //nolint:wrapcheck
		}
		return nil
	})

	if txErr != nil {
		return nil, "", fmt.Errorf("registering user: %w", txErr)
	}
	return user, token, nil
}

type LoginUserArgs struct {
	Username string
	Password string
}

// Login ищет юзера по имени и сверяет пароль. Возвращает domain.ErrRecordNotFound, если юзера нет,
// и domain.ErrPasswordMissMatch при неверном пароле.
func (s *UserService) Login(ctx context.Context, args LoginUserArgs) (*domain.User, string, error) {
	user, userErr := s.userRepo.FindUserByUsername(ctx, args.Username)
	if userErr != nil {
		return nil, "", fmt.Errorf("login user: %w", userErr)
	}
	if !s.psswd.ComparePassword(args.Password, user.EncryptedPassword) {
		return nil, "", fmt.Errorf("login user: %w", domain.ErrPasswordMissMatch)
	}
	token, tokenErr := tokens.GenerateUserJWT(user.ID, user.IsAdmin, JWTTokenExpire, s.jwtTokenSecret)
	if tokenErr != nil {
		return nil, "", fmt.Errorf("login user: %w", tokenErr)
	}
	return user, token, nil
}

// EnsureAdmin создает администратора с заданными логином и паролем, если юзера с таким именем еще нет.
// Существующего юзера не трогает.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) (*domain.User, error) {
	existing, findErr := s.userRepo.FindUserByUsername(ctx, username)
	if findErr == nil {
		if !existing.IsAdmin {
			s.l.WithField("username", username).Warn("admin username is taken by a regular user")
		}
		return existing, nil
	}
	if !errors.Is(findErr, domain.ErrRecordNotFound) {
		return nil, fmt.Errorf("ensuring admin: %w", findErr)
	}

	hashed, hashErr := s.psswd.HashPassword(password)
	if hashErr != nil {
		return nil, fmt.Errorf("ensuring admin: %w", hashErr)
	}
	user, createErr := s.userRepo.CreateUser(ctx, repoargs.CreateUser{
		Username: username,
		Password: hashed,
		IsAdmin:  true,
	})
	if createErr != nil {
		return nil, fmt.Errorf("ensuring admin: %w", createErr)
	}
	s.l.WithField("username", username).Info("admin user created")
	return user, nil
}
