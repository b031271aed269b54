package pgrepo

import (
	"context"
	"time"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/remit-ledger/pkg/uow"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const ledgerEntryColumns = `id, user_id, transfer_id, reference, entry_type, direction, currency, amount, commission,
	counterparty_id, running_balance, status, created_at`

// LedgerEntryRepository журнал операций. Записи только добавляются, UPDATE/DELETE запрещены триггером.
type LedgerEntryRepository struct {
	db uow.DBTX
}

func NewLedgerEntryRepository(db uow.DBTX) *LedgerEntryRepository {
	return &LedgerEntryRepository{db: db}
}

func (l *LedgerEntryRepository) Create(
	ctx context.Context,
	args repoargs.CreateLedgerEntry,
) (*domain.LedgerEntry, error) {
	row := l.db.QueryRow(ctx, `
		INSERT INTO ledger_entries (user_id, transfer_id, reference, entry_type, direction, currency, amount,
			commission, counterparty_id, running_balance, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+ledgerEntryColumns,
		args.UserID,
		args.TransferID,
		args.Reference,
		string(args.EntryType),
		string(args.Direction),
		args.Currency,
		args.Amount,
		args.Commission,
		args.CounterpartyID,
		args.RunningBalance,
		string(args.Status),
	)
	entry, err := scanLedgerEntry(row)
	if err != nil {
		return nil, convertErr(err, "creating %s ledger entry for user %d", args.EntryType, args.UserID)
	}
	return entry, nil
}

// SumBefore возвращает сумму записей со знаком (кредит плюс, дебет минус) строго до момента before.
func (l *LedgerEntryRepository) SumBefore(
	ctx context.Context,
	userID int64,
	currency string,
	before time.Time,
) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := l.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN direction = 'credit' THEN amount ELSE -amount END), 0)
		FROM ledger_entries
		WHERE user_id = $1 AND currency = $2 AND created_at < $3`,
		userID, currency, before,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, convertErr(err, "summing ledger entries of user %d before %s", userID, before)
	}
	return sum, nil
}

// GetByPeriod возвращает записи за полуинтервал [from, to) в порядке (created_at, id).
func (l *LedgerEntryRepository) GetByPeriod(
	ctx context.Context,
	userID int64,
	currency string,
	from, to time.Time,
) ([]domain.LedgerEntry, error) {
	rows, err := l.db.Query(ctx, `
		SELECT `+ledgerEntryColumns+` FROM ledger_entries
		WHERE user_id = $1 AND currency = $2 AND created_at >= $3 AND created_at < $4
		ORDER BY created_at, id`,
		userID, currency, from, to,
	)
	if err != nil {
		return nil, convertErr(err, "getting ledger entries of user %d", userID)
	}
	entries, collectErr := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.LedgerEntry, error) {
		entry, scanErr := scanLedgerEntry(row)
		if scanErr != nil {
			return domain.LedgerEntry{}, scanErr
		}
		return *entry, nil
	})
	if collectErr != nil {
		return nil, convertErr(collectErr, "scanning ledger entries of user %d", userID)
	}
	return entries, nil
}

func scanLedgerEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var (
		entry     domain.LedgerEntry
		entryType string
		direction string
		status    string
	)
	if err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.TransferID,
		&entry.Reference,
		&entryType,
		&direction,
		&entry.Currency,
		&entry.Amount,
		&entry.Commission,
		&entry.CounterpartyID,
		&entry.RunningBalance,
		&status,
		&entry.CreatedAt,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	entry.EntryType = domain.EntryType(entryType)
	entry.Direction = domain.DirectionType(direction)
	entry.Status = domain.TransferStatusType(status)
	return &entry, nil
}
