package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/remit-ledger/pkg/uow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// userPosting одна проводка по балансу пользователя.
type userPosting struct {
	UserID         int64
	Currency       string
	Amount         decimal.Decimal
	Commission     decimal.Decimal
	Direction      domain.DirectionType
	EntryType      domain.EntryType
	Reference      uuid.UUID
	TransferID     *int64
	CounterpartyID *int64
	Status         domain.TransferStatusType
}

// postUser изменяет баланс и пишет ровно одну запись журнала с остатком после изменения.
// Обе операции выполняются в транзакции tx, поэтому журнал не может разойтись с балансом.
func postUser(ctx context.Context, tx uow.TX, p userPosting) (*domain.LedgerEntry, error) {
	balances, err := uow.GetAs[BalanceRepository](tx, uow.RepositoryName(repoargs.BalanceRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	entries, err := uow.GetAs[LedgerEntryRepository](tx, uow.RepositoryName(repoargs.LedgerEntryRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	var running decimal.Decimal
	switch p.Direction {
	case domain.DirectionDebit:
		running, err = balances.Debit(ctx, p.UserID, p.Currency, p.Amount)
	case domain.DirectionCredit:
		running, err = balances.Credit(ctx, p.UserID, p.Currency, p.Amount)
	default:
		return nil, fmt.Errorf("posting to user %d: unknown direction `%s`", p.UserID, p.Direction)
	}
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return entries.Create(ctx, repoargs.CreateLedgerEntry{ //nolint:wrapcheck
		UserID:         p.UserID,
		TransferID:     p.TransferID,
		Reference:      p.Reference,
		EntryType:      p.EntryType,
		Direction:      p.Direction,
		Currency:       p.Currency,
		Amount:         p.Amount,
		Commission:     p.Commission,
		CounterpartyID: p.CounterpartyID,
		RunningBalance: running,
		Status:         p.Status,
	})
}

type poolPosting struct {
	OwnerID    int64
	Currency   string
	Amount     decimal.Decimal
	Direction  domain.DirectionType
	Reference  uuid.UUID
	TransferID *int64
}

// postPool изменяет пул комиссий и пишет запись пула. Нулевые суммы пропускаются.
func postPool(ctx context.Context, tx uow.TX, p poolPosting) error {
	if !p.Amount.IsPositive() {
		return nil
	}
	pools, err := uow.GetAs[PoolRepository](tx, uow.RepositoryName(repoargs.PoolRepoName))
	if err != nil {
		return err //nolint:wrapcheck
	}

	switch p.Direction {
	case domain.DirectionDebit:
		_, err = pools.Debit(ctx, p.OwnerID, p.Currency, p.Amount)
	case domain.DirectionCredit:
		_, err = pools.Credit(ctx, p.OwnerID, p.Currency, p.Amount)
	default:
		return fmt.Errorf("posting to pool %d: unknown direction `%s`", p.OwnerID, p.Direction)
	}
	if err != nil {
		return err //nolint:wrapcheck
	}

	_, err = pools.CreateEntry(ctx, repoargs.CreatePoolEntry{
		OwnerID:    p.OwnerID,
		Currency:   p.Currency,
		Direction:  p.Direction,
		Amount:     p.Amount,
		TransferID: p.TransferID,
		Reference:  p.Reference,
	})
	return err //nolint:wrapcheck
}
