package pgrepo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/remit-ledger/pkg/uow"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	_ "github.com/golang-migrate/migrate/v4/source/file"       //nolint:revive
)

// PostgresTestSuite проверяет репозитории на живой базе. Запускается только при заданной TEST_DATABASE_DSN.
type PostgresTestSuite struct {
	suite.Suite
	pool *pgxpool.Pool
	uow  *uow.UnitOfWork
}

func TestPostgresSuite(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN is not set")
	}
	suite.Run(t, &PostgresTestSuite{})
}

func (s *PostgresTestSuite) SetupSuite() {
	_, thisFile, _, _ := runtime.Caller(0)
	migrationsDir := filepath.Join(filepath.Dir(thisFile), "..", "..", "db", "migrations")

	pool, err := Connect(s.T().Context(), ConnectArgs{
		DSN:           os.Getenv("TEST_DATABASE_DSN"),
		MigrationsDir: migrationsDir,
		MaxAttempts:   1,
	}, logrus.New())
	s.Require().NoError(err)
	s.pool = pool

	s.uow = uow.NewUnitOfWork(pool)
	s.Require().NoError(s.uow.Register(uow.RepositoryName(repoargs.BalanceRepoName), func(db uow.DBTX) uow.Repository {
		return NewBalanceRepository(db)
	}))
}

func (s *PostgresTestSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresTestSuite) SetupTest() {
	_, err := s.pool.Exec(s.T().Context(), `TRUNCATE commission_pool_entries, commission_pools, ledger_entries,
		transfers, commission_tiers, balances, users RESTART IDENTITY CASCADE`)
	s.Require().NoError(err)
}

func (s *PostgresTestSuite) createUser() *domain.User {
	user, err := NewUserRepository(s.pool).CreateUser(s.T().Context(), repoargs.CreateUser{
		Username: gofakeit.Username(),
		Password: gofakeit.Password(true, true, true, false, false, 12),
	})
	s.Require().NoError(err)
	return user
}

func (s *PostgresTestSuite) TestBalance_CreditDebit() {
	user := s.createUser()
	repo := NewBalanceRepository(s.pool)
	ctx := s.T().Context()

	balance, err := repo.Credit(ctx, user.ID, "LYD", decimal.NewFromInt(100))
	s.Require().NoError(err)
	s.True(balance.Equal(decimal.NewFromInt(100)))

	balance, err = repo.Debit(ctx, user.ID, "LYD", decimal.NewFromInt(30))
	s.Require().NoError(err)
	s.True(balance.Equal(decimal.NewFromInt(70)))

	_, err = repo.Debit(ctx, user.ID, "LYD", decimal.NewFromInt(71))
	s.Require().ErrorIs(err, domain.ErrInsufficientFunds)

	_, err = repo.Debit(ctx, user.ID, "USD", decimal.NewFromInt(1))
	s.Require().ErrorIs(err, domain.ErrInsufficientFunds)
}

// TestBalance_ConcurrentDebits два одновременных списания по 60 с баланса 100: ровно одно проходит.
func (s *PostgresTestSuite) TestBalance_ConcurrentDebits() {
	user := s.createUser()
	_, err := NewBalanceRepository(s.pool).Credit(s.T().Context(), user.ID, "LYD", decimal.NewFromInt(100))
	s.Require().NoError(err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.uow.Do(context.Background(), func(ctx context.Context, tx uow.TX) error {
				repo, repoErr := uow.GetAs[*BalanceRepository](tx, uow.RepositoryName(repoargs.BalanceRepoName))
				if repoErr != nil {
					return repoErr
				}
				_, debitErr := repo.Debit(ctx, user.ID, "LYD", decimal.NewFromInt(60))
				return debitErr
			})
		}(i)
	}
	wg.Wait()

	var failed int
	for _, e := range errs {
		if e != nil {
			s.Require().ErrorIs(e, domain.ErrInsufficientFunds)
			failed++
		}
	}
	s.Equal(1, failed)

	balances, err := NewBalanceRepository(s.pool).GetByUserID(s.T().Context(), user.ID)
	s.Require().NoError(err)
	s.Require().Len(balances, 1)
	s.True(balances[0].Amount.Equal(decimal.NewFromInt(40)))
}

func (s *PostgresTestSuite) TestLedgerEntries_AppendOnly() {
	user := s.createUser()
	repo := NewLedgerEntryRepository(s.pool)

	entry, err := repo.Create(s.T().Context(), repoargs.CreateLedgerEntry{
		UserID:         user.ID,
		Reference:      uuid.New(),
		EntryType:      domain.EntryTypeDeposit,
		Direction:      domain.DirectionCredit,
		Currency:       "LYD",
		Amount:         decimal.NewFromInt(10),
		RunningBalance: decimal.NewFromInt(10),
		Status:         domain.TransferStatusCompleted,
	})
	s.Require().NoError(err)

	_, err = s.pool.Exec(s.T().Context(), `UPDATE ledger_entries SET amount = 1 WHERE id = $1`, entry.ID)
	s.Require().Error(err)
}

func (s *PostgresTestSuite) TestTransfer_ClaimCodeUnique() {
	user := s.createUser()
	repo := NewTransferRepository(s.pool)
	code := "12345678"
	args := repoargs.CreateTransfer{
		Reference:        uuid.New(),
		Kind:             domain.TransferKindCity,
		SenderID:         user.ID,
		Currency:         "LYD",
		Amount:           decimal.NewFromInt(100),
		TotalDebit:       decimal.NewFromInt(101),
		SystemCommission: decimal.NewFromInt(1),
		ClaimCode:        &code,
		Status:           domain.TransferStatusPending,
		CommissionSource: domain.CommissionSourceDefault,
	}
	created, err := repo.Create(s.T().Context(), args)
	s.Require().NoError(err)
	s.Equal(domain.TransferStatusPending, created.Status)

	args.Reference = uuid.New()
	_, err = repo.Create(s.T().Context(), args)
	s.Require().ErrorIs(err, domain.ErrDuplicateKey)

	found, err := repo.FindByClaimCodeForUpdate(s.T().Context(), code)
	s.Require().NoError(err)
	s.Equal(created.Reference, found.Reference)

	_, err = repo.FindByClaimCodeForUpdate(s.T().Context(), "00000000")
	s.Require().True(errors.Is(err, domain.ErrRecordNotFound))
}

func (s *PostgresTestSuite) TestTransfer_GetByUserIDLimit() {
	sender, receiver := s.createUser(), s.createUser()
	repo := NewTransferRepository(s.pool)
	for range 3 {
		_, err := repo.Create(s.T().Context(), repoargs.CreateTransfer{
			Reference:        uuid.New(),
			Kind:             domain.TransferKindInternal,
			SenderID:         sender.ID,
			ReceiverID:       &receiver.ID,
			Currency:         "LYD",
			Amount:           decimal.NewFromInt(10),
			TotalDebit:       decimal.NewFromInt(10),
			Status:           domain.TransferStatusCompleted,
			CommissionSource: domain.CommissionSourceDefault,
		})
		s.Require().NoError(err)
	}

	all, err := repo.GetByUserID(s.T().Context(), sender.ID, 0)
	s.Require().NoError(err)
	s.Len(all, 3)

	limited, err := repo.GetByUserID(s.T().Context(), receiver.ID, 2)
	s.Require().NoError(err)
	s.Len(limited, 2)
}
