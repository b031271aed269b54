package repoargs

import (
	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateTier struct {
	Kind        domain.TransferKind
	Origin      *string
	Destination *string
	Currency    string
	MinAmount   decimal.Decimal
	MaxAmount   decimal.NullDecimal
	Commission  decimal.NullDecimal
	PerMille    decimal.NullDecimal
}
