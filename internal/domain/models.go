package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID                int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Username          string
	EncryptedPassword string
	IsAdmin           bool
}

// Balance остаток пользователя в одной валюте.
type Balance struct {
	UserID    int64
	Currency  string
	Amount    decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Transfer struct {
	ID                  int64
	Reference           uuid.UUID
	Kind                TransferKind
	SenderID            int64
	ReceiverID          *int64
	ClaimedBy           *int64
	Currency            string
	Amount              decimal.Decimal
	SystemCommission    decimal.Decimal
	RecipientCommission decimal.Decimal
	TotalDebit          decimal.Decimal
	Origin              *string
	Destination         *string
	ClaimCode           *string
	Status              TransferStatusType
	CommissionSource    CommissionSourceType
	TierID              *int64
	FailureReason       *string
	ExpiresAt           *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
	CompletedAt         *time.Time
	CancelledAt         *time.Time
}

// Commission общая сумма комиссии, удержанной с отправителя.
func (t *Transfer) Commission() decimal.Decimal {
	return t.SystemCommission.Add(t.RecipientCommission)
}

// CommissionTier тариф комиссии. Пустые Origin/Destination работают как подстановочный знак.
// Ровно одно из полей Commission или PerMille заполнено.
type CommissionTier struct {
	ID          int64
	Kind        TransferKind
	Origin      *string
	Destination *string
	Currency    string
	MinAmount   decimal.Decimal
	MaxAmount   decimal.NullDecimal
	Commission  decimal.NullDecimal
	PerMille    decimal.NullDecimal
	CreatedAt   time.Time
}

// LedgerEntry неизменяемая запись журнала операций. Одна запись на одно изменение баланса.
type LedgerEntry struct {
	ID             int64
	UserID         int64
	TransferID     *int64
	Reference      uuid.UUID
	EntryType      EntryType
	Direction      DirectionType
	Currency       string
	Amount         decimal.Decimal
	Commission     decimal.Decimal
	CounterpartyID *int64
	RunningBalance decimal.Decimal
	Status         TransferStatusType
	CreatedAt      time.Time
}

// Signed возвращает сумму записи со знаком: кредит положительный, дебет отрицательный.
func (e *LedgerEntry) Signed() decimal.Decimal {
	if e.Direction == DirectionDebit {
		return e.Amount.Neg()
	}
	return e.Amount
}

type CommissionPool struct {
	OwnerID   int64
	Currency  string
	Amount    decimal.Decimal
	UpdatedAt time.Time
}

type CommissionPoolEntry struct {
	ID         int64
	OwnerID    int64
	Currency   string
	Direction  DirectionType
	Amount     decimal.Decimal
	TransferID *int64
	Reference  uuid.UUID
	CreatedAt  time.Time
}
