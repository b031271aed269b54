package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/remit-ledger/internal/commission"
	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/remit-ledger/internal/service"
	"github.com/google/uuid"
)

// UserServicer интерфейс исключительно для моков.
type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, string, error)
	Login(ctx context.Context, args service.LoginUserArgs) (*domain.User, string, error)
}

type TransferServicer interface {
	Send(ctx context.Context, args service.SendTransferArgs) (*domain.Transfer, error)
	Claim(ctx context.Context, args service.ClaimTransferArgs) (*domain.Transfer, error)
	Cancel(ctx context.Context, args service.CancelTransferArgs) (*domain.Transfer, error)
	Fail(ctx context.Context, reference uuid.UUID, reason string) (*domain.Transfer, error)
	Reverse(ctx context.Context, reference uuid.UUID, reason string) (*domain.Transfer, error)
	Get(ctx context.Context, reference uuid.UUID, actorID int64, isAdmin bool) (*domain.Transfer, error)
	GetByUserID(ctx context.Context, userID int64, limit uint) ([]domain.Transfer, error)
}

type LedgerServicer interface {
	Deposit(ctx context.Context, args service.AdjustBalanceArgs) (*domain.LedgerEntry, error)
	Withdraw(ctx context.Context, args service.AdjustBalanceArgs) (*domain.LedgerEntry, error)
	GetBalances(ctx context.Context, userID int64) ([]domain.Balance, error)
}

type StatementServicer interface {
	Build(ctx context.Context, args service.StatementArgs) (*service.Statement, error)
}

type CommissionServicer interface {
	Quote(ctx context.Context, q commission.Query) (*service.Quote, error)
	CreateTier(ctx context.Context, args repoargs.CreateTier) (*domain.CommissionTier, error)
	ListTiers(ctx context.Context) ([]domain.CommissionTier, error)
	DeleteTier(ctx context.Context, id int64) error
}

type PoolServicer interface {
	List(ctx context.Context, ownerID *int64) ([]domain.CommissionPool, error)
	Withdraw(ctx context.Context, args service.PoolWithdrawArgs) (*domain.CommissionPool, error)
}
