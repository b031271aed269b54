package pgrepo

import (
	"context"
	"time"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/remit-ledger/pkg/uow"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const transferColumns = `id, reference, kind, sender_id, receiver_id, claimed_by, currency, amount,
	system_commission, recipient_commission, total_debit, origin, destination, claim_code, status,
	commission_source, tier_id, failure_reason, expires_at, created_at, updated_at, completed_at, cancelled_at`

type TransferRepository struct {
	db uow.DBTX
}

func NewTransferRepository(db uow.DBTX) *TransferRepository {
	return &TransferRepository{db: db}
}

func (t *TransferRepository) Create(ctx context.Context, args repoargs.CreateTransfer) (*domain.Transfer, error) {
	row := t.db.QueryRow(ctx, `
		INSERT INTO transfers (reference, kind, sender_id, receiver_id, currency, amount, system_commission,
			recipient_commission, total_debit, origin, destination, claim_code, status, commission_source, tier_id,
			expires_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING `+transferColumns,
		args.Reference,
		string(args.Kind),
		args.SenderID,
		args.ReceiverID,
		args.Currency,
		args.Amount,
		args.SystemCommission,
		args.RecipientCommission,
		args.TotalDebit,
		args.Origin,
		args.Destination,
		args.ClaimCode,
		string(args.Status),
		string(args.CommissionSource),
		args.TierID,
		args.ExpiresAt,
		args.CompletedAt,
	)
	transfer, err := scanTransfer(row)
	if err != nil {
		return nil, convertErr(err, "creating %s transfer `%s`", args.Kind, args.Reference)
	}
	return transfer, nil
}

func (t *TransferRepository) FindByReference(ctx context.Context, reference uuid.UUID) (*domain.Transfer, error) {
	row := t.db.QueryRow(ctx, `SELECT `+transferColumns+` FROM transfers WHERE reference = $1`, reference)
	transfer, err := scanTransfer(row)
	if err != nil {
		return nil, convertErr(err, "finding transfer `%s`", reference)
	}
	return transfer, nil
}

// FindByReferenceForUpdate как FindByReference, но блокирует строку перевода до конца транзакции.
func (t *TransferRepository) FindByReferenceForUpdate(
	ctx context.Context,
	reference uuid.UUID,
) (*domain.Transfer, error) {
	row := t.db.QueryRow(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE reference = $1 FOR UPDATE`, reference)
	transfer, err := scanTransfer(row)
	if err != nil {
		return nil, convertErr(err, "locking transfer `%s`", reference)
	}
	return transfer, nil
}

// FindByClaimCodeForUpdate находит перевод по коду получения и блокирует строку до конца транзакции.
// Второй конкурентный claim ждет блокировку и видит уже обновленный статус.
func (t *TransferRepository) FindByClaimCodeForUpdate(ctx context.Context, code string) (*domain.Transfer, error) {
	row := t.db.QueryRow(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE claim_code = $1 FOR UPDATE`, code)
	transfer, err := scanTransfer(row)
	if err != nil {
		// сам код в лог не попадает.
		return nil, convertErr(err, "locking transfer by claim code")
	}
	return transfer, nil
}

func (t *TransferRepository) UpdateStatus(
	ctx context.Context,
	args repoargs.UpdateTransferStatus,
) (*domain.Transfer, error) {
	row := t.db.QueryRow(ctx, `
		UPDATE transfers SET
			status = $2,
			claimed_by = COALESCE($3, claimed_by),
			failure_reason = COALESCE($4, failure_reason),
			completed_at = COALESCE($5, completed_at),
			cancelled_at = COALESCE($6, cancelled_at),
			updated_at = now()
		WHERE id = $1
		RETURNING `+transferColumns,
		args.ID,
		string(args.Status),
		args.ClaimedBy,
		args.FailureReason,
		args.CompletedAt,
		args.CancelledAt,
	)
	transfer, err := scanTransfer(row)
	if err != nil {
		return nil, convertErr(err, "updating transfer %d status to %s", args.ID, args.Status)
	}
	return transfer, nil
}

// GetByUserID возвращает переводы, где пользователь отправитель, получатель или выдавший офис,
// отсортированные по дате создания по убыванию. Нулевой limit означает все переводы.
func (t *TransferRepository) GetByUserID(ctx context.Context, userID int64, limit uint) ([]domain.Transfer, error) {
	rows, err := t.db.Query(ctx, `
		SELECT `+transferColumns+` FROM transfers
		WHERE sender_id = $1 OR receiver_id = $1 OR claimed_by = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, userID, limitArg(limit))
	if err != nil {
		return nil, convertErr(err, "getting transfers by userID %d", userID)
	}
	transfers, collectErr := collectTransfers(rows)
	if collectErr != nil {
		return nil, convertErr(collectErr, "scanning transfers of userID %d", userID)
	}
	return transfers, nil
}

// GetExpiredPending возвращает ожидающие переводы, срок получения которых истек к моменту now.
// Нулевой limit означает все такие переводы.
func (t *TransferRepository) GetExpiredPending(
	ctx context.Context,
	now time.Time,
	limit uint,
) ([]domain.Transfer, error) {
	rows, err := t.db.Query(ctx, `
		SELECT `+transferColumns+` FROM transfers
		WHERE status = 'pending' AND expires_at <= $1
		ORDER BY expires_at
		LIMIT $2`, now, limitArg(limit))
	if err != nil {
		return nil, convertErr(err, "getting expired pending transfers")
	}
	transfers, collectErr := collectTransfers(rows)
	if collectErr != nil {
		return nil, convertErr(collectErr, "scanning expired pending transfers")
	}
	return transfers, nil
}

// limitArg параметр для LIMIT: нулевой limit превращается в LIMIT NULL, то есть выборку без ограничения.
func limitArg(limit uint) *int64 {
	if limit == 0 {
		return nil
	}
	v := int64(limit) //nolint:gosec
	return &v
}

func collectTransfers(rows pgx.Rows) ([]domain.Transfer, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Transfer, error) { //nolint:wrapcheck
		transfer, err := scanTransfer(row)
		if err != nil {
			return domain.Transfer{}, err
		}
		return *transfer, nil
	})
}

func scanTransfer(row pgx.Row) (*domain.Transfer, error) {
	var (
		tr               domain.Transfer
		kind             string
		status           string
		commissionSource string
	)
	if err := row.Scan(
		&tr.ID,
		&tr.Reference,
		&kind,
		&tr.SenderID,
		&tr.ReceiverID,
		&tr.ClaimedBy,
		&tr.Currency,
		&tr.Amount,
		&tr.SystemCommission,
		&tr.RecipientCommission,
		&tr.TotalDebit,
		&tr.Origin,
		&tr.Destination,
		&tr.ClaimCode,
		&status,
		&commissionSource,
		&tr.TierID,
		&tr.FailureReason,
		&tr.ExpiresAt,
		&tr.CreatedAt,
		&tr.UpdatedAt,
		&tr.CompletedAt,
		&tr.CancelledAt,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	tr.Kind = domain.TransferKind(kind)
	tr.Status = domain.TransferStatusType(status)
	tr.CommissionSource = domain.CommissionSourceType(commissionSource)
	return &tr, nil
}
