package repoargs

import (
	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateLedgerEntry struct {
	UserID         int64
	TransferID     *int64
	Reference      uuid.UUID
	EntryType      domain.EntryType
	Direction      domain.DirectionType
	Currency       string
	Amount         decimal.Decimal
	Commission     decimal.Decimal
	CounterpartyID *int64
	RunningBalance decimal.Decimal
	Status         domain.TransferStatusType
}

type CreatePoolEntry struct {
	OwnerID    int64
	Currency   string
	Direction  domain.DirectionType
	Amount     decimal.Decimal
	TransferID *int64
	Reference  uuid.UUID
}
