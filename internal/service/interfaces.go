package service

import (
	"context"
	"time"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/repository/repoargs"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePassword(password string, hashedPassword string) bool
}

type UserRepository interface {
	CreateUser(ctx context.Context, user repoargs.CreateUser) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	FindUserByID(ctx context.Context, id int64) (*domain.User, error)
}

type BalanceRepository interface {
	Credit(ctx context.Context, userID int64, currency string, amount decimal.Decimal) (decimal.Decimal, error)
	Debit(ctx context.Context, userID int64, currency string, amount decimal.Decimal) (decimal.Decimal, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Balance, error)
}

type TransferRepository interface {
	Create(ctx context.Context, args repoargs.CreateTransfer) (*domain.Transfer, error)
	FindByReference(ctx context.Context, reference uuid.UUID) (*domain.Transfer, error)
	FindByReferenceForUpdate(ctx context.Context, reference uuid.UUID) (*domain.Transfer, error)
	FindByClaimCodeForUpdate(ctx context.Context, code string) (*domain.Transfer, error)
	UpdateStatus(ctx context.Context, args repoargs.UpdateTransferStatus) (*domain.Transfer, error)
	// GetByUserID и GetExpiredPending при нулевом limit возвращают все подходящие переводы.
	GetByUserID(ctx context.Context, userID int64, limit uint) ([]domain.Transfer, error)
	GetExpiredPending(ctx context.Context, now time.Time, limit uint) ([]domain.Transfer, error)
}

type TierRepository interface {
	FindCandidates(
		ctx context.Context,
		kind domain.TransferKind,
		currency string,
		amount decimal.Decimal,
	) ([]domain.CommissionTier, error)
	Create(ctx context.Context, args repoargs.CreateTier) (*domain.CommissionTier, error)
	List(ctx context.Context) ([]domain.CommissionTier, error)
	Delete(ctx context.Context, id int64) error
}

type LedgerEntryRepository interface {
	Create(ctx context.Context, args repoargs.CreateLedgerEntry) (*domain.LedgerEntry, error)
	SumBefore(ctx context.Context, userID int64, currency string, before time.Time) (decimal.Decimal, error)
	GetByPeriod(ctx context.Context, userID int64, currency string, from, to time.Time) ([]domain.LedgerEntry, error)
}

type PoolRepository interface {
	Credit(ctx context.Context, ownerID int64, currency string, amount decimal.Decimal) (decimal.Decimal, error)
	Debit(ctx context.Context, ownerID int64, currency string, amount decimal.Decimal) (decimal.Decimal, error)
	CreateEntry(ctx context.Context, args repoargs.CreatePoolEntry) (*domain.CommissionPoolEntry, error)
	List(ctx context.Context, ownerID *int64) ([]domain.CommissionPool, error)
}

// TransferObserver получает события жизненного цикла переводов. Реализуется слоем метрик.
type TransferObserver interface {
	TransferFinished(kind domain.TransferKind, status domain.TransferStatusType)
	CommissionResolved(kind domain.TransferKind, source domain.CommissionSourceType)
	ConflictRetried(operation string)
}
