package pgrepo

import (
	"context"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/remit-ledger/pkg/uow"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const tierColumns = `id, kind, origin, destination, currency, min_amount, max_amount, commission, per_mille, created_at`

type TierRepository struct {
	db uow.DBTX
}

func NewTierRepository(db uow.DBTX) *TierRepository {
	return &TierRepository{db: db}
}

// FindCandidates возвращает тарифы вида kind в валюте currency, диапазон которых включает amount.
// Фильтрация по городам и выбор победителя выполняются в commission.Select.
func (t *TierRepository) FindCandidates(
	ctx context.Context,
	kind domain.TransferKind,
	currency string,
	amount decimal.Decimal,
) ([]domain.CommissionTier, error) {
	rows, err := t.db.Query(ctx, `
		SELECT `+tierColumns+` FROM commission_tiers
		WHERE kind = $1 AND currency = $2 AND min_amount <= $3 AND (max_amount IS NULL OR max_amount >= $3)
		ORDER BY id`, string(kind), currency, amount)
	if err != nil {
		return nil, convertErr(err, "finding %s tiers for %s %s", kind, amount, currency)
	}
	tiers, collectErr := collectTiers(rows)
	if collectErr != nil {
		return nil, convertErr(collectErr, "scanning %s tiers", kind)
	}
	return tiers, nil
}

func (t *TierRepository) Create(ctx context.Context, args repoargs.CreateTier) (*domain.CommissionTier, error) {
	row := t.db.QueryRow(ctx, `
		INSERT INTO commission_tiers (kind, origin, destination, currency, min_amount, max_amount, commission, per_mille)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+tierColumns,
		string(args.Kind),
		args.Origin,
		args.Destination,
		args.Currency,
		args.MinAmount,
		args.MaxAmount,
		args.Commission,
		args.PerMille,
	)
	tier, err := scanTier(row)
	if err != nil {
		return nil, convertErr(err, "creating %s tier", args.Kind)
	}
	return tier, nil
}

func (t *TierRepository) List(ctx context.Context) ([]domain.CommissionTier, error) {
	rows, err := t.db.Query(ctx, `SELECT `+tierColumns+` FROM commission_tiers ORDER BY kind, currency, min_amount, id`)
	if err != nil {
		return nil, convertErr(err, "listing tiers")
	}
	tiers, collectErr := collectTiers(rows)
	if collectErr != nil {
		return nil, convertErr(collectErr, "scanning tiers")
	}
	return tiers, nil
}

func (t *TierRepository) Delete(ctx context.Context, id int64) error {
	tag, err := t.db.Exec(ctx, `DELETE FROM commission_tiers WHERE id = $1`, id)
	if err != nil {
		return convertErr(err, "deleting tier %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "deleting tier %d", id)
	}
	return nil
}

func collectTiers(rows pgx.Rows) ([]domain.CommissionTier, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CommissionTier, error) { //nolint:wrapcheck
		tier, err := scanTier(row)
		if err != nil {
			return domain.CommissionTier{}, err
		}
		return *tier, nil
	})
}

func scanTier(row pgx.Row) (*domain.CommissionTier, error) {
	var (
		tier domain.CommissionTier
		kind string
	)
	if err := row.Scan(
		&tier.ID,
		&kind,
		&tier.Origin,
		&tier.Destination,
		&tier.Currency,
		&tier.MinAmount,
		&tier.MaxAmount,
		&tier.Commission,
		&tier.PerMille,
		&tier.CreatedAt,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	tier.Kind = domain.TransferKind(kind)
	return &tier, nil
}
