package service

import (
	"context"
	"errors"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/repository/memrepo"
	"github.com/fsdevblog/remit-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/remit-ledger/internal/service/psswd"
	"github.com/fsdevblog/remit-ledger/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

var errInjected = errors.New("injected failure")

// ledgerSuite общее окружение тестов сервисов поверх memrepo.
type ledgerSuite struct {
	suite.Suite
	uow      *memrepo.UnitOfWork
	services *AppServices
	logHook  *test.Hook
	clock    time.Time
}

func (s *ledgerSuite) SetupTest() {
	s.uow = memrepo.New()
	s.clock = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.uow.SetClock(func() time.Time { return s.clock })

	var logger *logrus.Logger
	logger, s.logHook = test.NewNullLogger()

	services, err := Factory(s.uow, FactoryArgs{
		JWTSecret: []byte("secret"),
		Hasher:    psswd.New(bcrypt.MinCost),
		Logger:    logger,
	})
	s.Require().NoError(err)
	s.services = services
	s.services.TransferService.now = func() time.Time { return s.clock }
}

func (s *ledgerSuite) advance(d time.Duration) {
	s.clock = s.clock.Add(d)
}

func (s *ledgerSuite) createUser() int64 {
	repo, err := uow.GetRepositoryAs[UserRepository](s.uow, uow.RepositoryName(repoargs.UserRepoName))
	s.Require().NoError(err)
	user, err := repo.CreateUser(context.Background(), repoargs.CreateUser{
		Username: gofakeit.Username() + gofakeit.DigitN(6),
		Password: gofakeit.Password(true, true, true, false, false, 12),
	})
	s.Require().NoError(err)
	return user.ID
}

func (s *ledgerSuite) deposit(userID int64, currency string, amount string) {
	_, err := s.services.LedgerService.Deposit(context.Background(), AdjustBalanceArgs{
		UserID:   userID,
		Currency: currency,
		Amount:   decimal.RequireFromString(amount),
	})
	s.Require().NoError(err)
}

func (s *ledgerSuite) balance(userID int64, currency string) decimal.Decimal {
	balances, err := s.services.LedgerService.GetBalances(context.Background(), userID)
	s.Require().NoError(err)
	for _, b := range balances {
		if b.Currency == currency {
			return b.Amount
		}
	}
	return decimal.Zero
}

func (s *ledgerSuite) pool(ownerID int64, currency string) decimal.Decimal {
	pools, err := s.services.PoolService.List(context.Background(), &ownerID)
	s.Require().NoError(err)
	for _, p := range pools {
		if p.Currency == currency {
			return p.Amount
		}
	}
	return decimal.Zero
}

func (s *ledgerSuite) entries() []domain.LedgerEntry {
	repo, err := uow.GetRepositoryAs[*memrepo.LedgerEntryRepository](
		s.uow, uow.RepositoryName(repoargs.LedgerEntryRepoName),
	)
	s.Require().NoError(err)
	return repo.All()
}

func (s *ledgerSuite) addTier(args repoargs.CreateTier) {
	_, err := s.services.CommissionService.CreateTier(context.Background(), args)
	s.Require().NoError(err)
}

// assertDecimal сравнивает суммы без учета экспоненты.
func (s *ledgerSuite) assertDecimal(want string, got decimal.Decimal, msgAndArgs ...any) {
	s.True(decimal.RequireFromString(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func nullDec(v string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(v))
}

// failingPools пул комиссий, который отказывает на зачислении.
type failingPools struct {
	PoolRepository
}

func (f *failingPools) Credit(context.Context, int64, string, decimal.Decimal) (decimal.Decimal, error) {
	return decimal.Zero, errInjected
}

// flakyTransfers репозиторий переводов, первые failures вызовов Create которого завершаются конфликтом.
type flakyTransfers struct {
	TransferRepository
	failures *int
}

func (f *flakyTransfers) Create(ctx context.Context, args repoargs.CreateTransfer) (*domain.Transfer, error) {
	if *f.failures > 0 {
		*f.failures--
		return nil, domain.ErrConcurrentModification
	}
	return f.TransferRepository.Create(ctx, args)
}
