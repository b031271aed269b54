package pgrepo

import (
	"context"
	"errors"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/pkg/uow"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type BalanceRepository struct {
	db uow.DBTX
}

func NewBalanceRepository(db uow.DBTX) *BalanceRepository {
	return &BalanceRepository{db: db}
}

// Credit увеличивает баланс пользователя в валюте currency, создавая строку при первом зачислении.
// Возвращает баланс после зачисления.
func (b *BalanceRepository) Credit(
	ctx context.Context,
	userID int64,
	currency string,
	amount decimal.Decimal,
) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := b.db.QueryRow(ctx, `
		INSERT INTO balances (user_id, currency, amount) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, currency)
		DO UPDATE SET amount = balances.amount + EXCLUDED.amount, updated_at = now()
		RETURNING amount`,
		userID, currency, amount,
	).Scan(&balance)
	if err != nil {
		return decimal.Zero, convertErr(err, "crediting user %d %s %s", userID, amount, currency)
	}
	return balance, nil
}

// Debit списывает amount одним условным UPDATE. Блокировка строки сериализует конкурентные списания,
// проигравший перепроверяет условие на закоммиченной строке. Если средств недостаточно (или строки нет),
// возвращается domain.ErrInsufficientFunds.
func (b *BalanceRepository) Debit(
	ctx context.Context,
	userID int64,
	currency string,
	amount decimal.Decimal,
) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := b.db.QueryRow(ctx, `
		UPDATE balances SET amount = amount - $3, updated_at = now()
		WHERE user_id = $1 AND currency = $2 AND amount >= $3
		RETURNING amount`,
		userID, currency, amount,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrInsufficientFunds
		}
		return decimal.Zero, convertErr(err, "debiting user %d %s %s", userID, amount, currency)
	}
	return balance, nil
}

// GetByUserID возвращает балансы пользователя во всех валютах, отсортированные по коду валюты.
func (b *BalanceRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Balance, error) {
	rows, err := b.db.Query(ctx, `
		SELECT user_id, currency, amount, created_at, updated_at
		FROM balances WHERE user_id = $1 ORDER BY currency`, userID)
	if err != nil {
		return nil, convertErr(err, "getting balances by userID %d", userID)
	}
	balances, collectErr := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Balance, error) {
		var bl domain.Balance
		scanErr := row.Scan(&bl.UserID, &bl.Currency, &bl.Amount, &bl.CreatedAt, &bl.UpdatedAt)
		return bl, scanErr //nolint:wrapcheck
	})
	if collectErr != nil {
		return nil, convertErr(collectErr, "scanning balances of userID %d", userID)
	}
	return balances, nil
}
