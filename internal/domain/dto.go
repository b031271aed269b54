package domain

type DirectionType string

const (
	DirectionDebit  DirectionType = "debit"
	DirectionCredit DirectionType = "credit"
)

// TransferKind вид перевода. Определяет набор тарифов комиссии и наличие шага заморозки.
type TransferKind string

const (
	TransferKindInternal      TransferKind = "internal"
	TransferKindCity          TransferKind = "city"
	TransferKindInternational TransferKind = "international"
)

// TransferKinds все поддерживаемые виды переводов.
var TransferKinds = []TransferKind{ //nolint:gochecknoglobals
	TransferKindInternal,
	TransferKindCity,
	TransferKindInternational,
}

func (k TransferKind) IsValid() bool {
	switch k {
	case TransferKindInternal, TransferKindCity, TransferKindInternational:
		return true
	default:
		return false
	}
}

// RequiresClaim возвращает true для видов перевода, которые замораживают средства до предъявления кода получения.
func (k TransferKind) RequiresClaim() bool {
	return k == TransferKindCity || k == TransferKindInternational
}

type TransferStatusType string

const (
	TransferStatusPending   TransferStatusType = "pending"
	TransferStatusCompleted TransferStatusType = "completed"
	TransferStatusFailed    TransferStatusType = "failed"
	TransferStatusCancelled TransferStatusType = "cancelled"
	TransferStatusReversed  TransferStatusType = "reversed"
)

type EntryType string

const (
	EntryTypeDeposit         EntryType = "deposit"
	EntryTypeWithdrawal      EntryType = "withdrawal"
	EntryTypeTransferSend    EntryType = "transfer_send"
	EntryTypeTransferReceive EntryType = "transfer_receive"
	EntryTypeTransferClaim   EntryType = "transfer_claim"
	EntryTypeRefund          EntryType = "refund"
	EntryTypeReversal        EntryType = "reversal"
)

type CommissionSourceType string

const (
	CommissionSourceTier    CommissionSourceType = "tier"
	CommissionSourceDefault CommissionSourceType = "default"
)

// SystemPoolOwnerID владелец системного пула комиссий.
const SystemPoolOwnerID int64 = 0

// Причины освобождения замороженных средств.
const (
	ReleaseReasonExpired   = "expired"
	ReleaseReasonCancelled = "cancelled by sender"
)
