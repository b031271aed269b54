package repoargs

import (
	"time"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateTransfer struct {
	Reference           uuid.UUID
	Kind                domain.TransferKind
	SenderID            int64
	ReceiverID          *int64
	Currency            string
	Amount              decimal.Decimal
	SystemCommission    decimal.Decimal
	RecipientCommission decimal.Decimal
	TotalDebit          decimal.Decimal
	Origin              *string
	Destination         *string
	ClaimCode           *string
	Status              domain.TransferStatusType
	CommissionSource    domain.CommissionSourceType
	TierID              *int64
	ExpiresAt           *time.Time
	CompletedAt         *time.Time
}

// UpdateTransferStatus смена статуса перевода. Пустые указатели не меняют соответствующие колонки.
type UpdateTransferStatus struct {
	ID            int64
	Status        domain.TransferStatusType
	ClaimedBy     *int64
	FailureReason *string
	CompletedAt   *time.Time
	CancelledAt   *time.Time
}
