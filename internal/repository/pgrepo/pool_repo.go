package pgrepo

import (
	"context"
	"errors"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/remit-ledger/pkg/uow"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PoolRepository пулы комиссий. Владелец domain.SystemPoolOwnerID системный пул, остальные пулы офисов.
type PoolRepository struct {
	db uow.DBTX
}

func NewPoolRepository(db uow.DBTX) *PoolRepository {
	return &PoolRepository{db: db}
}

func (p *PoolRepository) Credit(
	ctx context.Context,
	ownerID int64,
	currency string,
	amount decimal.Decimal,
) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := p.db.QueryRow(ctx, `
		INSERT INTO commission_pools (owner_id, currency, amount) VALUES ($1, $2, $3)
		ON CONFLICT (owner_id, currency)
		DO UPDATE SET amount = commission_pools.amount + EXCLUDED.amount, updated_at = now()
		RETURNING amount`,
		ownerID, currency, amount,
	).Scan(&balance)
	if err != nil {
		return decimal.Zero, convertErr(err, "crediting pool %d %s %s", ownerID, amount, currency)
	}
	return balance, nil
}

// Debit списывает из пула по тем же правилам, что и BalanceRepository.Debit.
func (p *PoolRepository) Debit(
	ctx context.Context,
	ownerID int64,
	currency string,
	amount decimal.Decimal,
) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := p.db.QueryRow(ctx, `
		UPDATE commission_pools SET amount = amount - $3, updated_at = now()
		WHERE owner_id = $1 AND currency = $2 AND amount >= $3
		RETURNING amount`,
		ownerID, currency, amount,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrInsufficientFunds
		}
		return decimal.Zero, convertErr(err, "debiting pool %d %s %s", ownerID, amount, currency)
	}
	return balance, nil
}

func (p *PoolRepository) CreateEntry(
	ctx context.Context,
	args repoargs.CreatePoolEntry,
) (*domain.CommissionPoolEntry, error) {
	var (
		entry     domain.CommissionPoolEntry
		direction string
	)
	err := p.db.QueryRow(ctx, `
		INSERT INTO commission_pool_entries (owner_id, currency, direction, amount, transfer_id, reference)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, owner_id, currency, direction, amount, transfer_id, reference, created_at`,
		args.OwnerID,
		args.Currency,
		string(args.Direction),
		args.Amount,
		args.TransferID,
		args.Reference,
	).Scan(
		&entry.ID,
		&entry.OwnerID,
		&entry.Currency,
		&direction,
		&entry.Amount,
		&entry.TransferID,
		&entry.Reference,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, convertErr(err, "creating pool entry for owner %d", args.OwnerID)
	}
	entry.Direction = domain.DirectionType(direction)
	return &entry, nil
}

// List возвращает пулы владельца ownerID или все пулы, если ownerID nil.
func (p *PoolRepository) List(ctx context.Context, ownerID *int64) ([]domain.CommissionPool, error) {
	rows, err := p.db.Query(ctx, `
		SELECT owner_id, currency, amount, updated_at FROM commission_pools
		WHERE $1::BIGINT IS NULL OR owner_id = $1
		ORDER BY owner_id, currency`, ownerID)
	if err != nil {
		return nil, convertErr(err, "listing commission pools")
	}
	pools, collectErr := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CommissionPool, error) {
		var pool domain.CommissionPool
		scanErr := row.Scan(&pool.OwnerID, &pool.Currency, &pool.Amount, &pool.UpdatedAt)
		return pool, scanErr //nolint:wrapcheck
	})
	if collectErr != nil {
		return nil, convertErr(collectErr, "scanning commission pools")
	}
	return pools, nil
}
