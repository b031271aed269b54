package commission

import (
	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

// Rule правила по умолчанию для вида перевода.
type Rule struct {
	// DefaultPercent процент комиссии, если ни один тариф не подошел.
	DefaultPercent decimal.Decimal
	// RecipientShare доля комиссии (0..1), зачисляемая в пул офиса получателя.
	RecipientShare decimal.Decimal
}

type Policy map[domain.TransferKind]Rule

// DefaultPolicy internal 1%, city 1.5%, international 2%. Половина комиссии city/international уходит
// офису, выдающему перевод.
func DefaultPolicy() Policy {
	half := decimal.NewFromFloat(0.5) //nolint:mnd
	return Policy{
		domain.TransferKindInternal: {
			DefaultPercent: decimal.NewFromInt(1),
			RecipientShare: decimal.Zero,
		},
		domain.TransferKindCity: {
			DefaultPercent: decimal.NewFromFloat(1.5), //nolint:mnd
			RecipientShare: half,
		},
		domain.TransferKindInternational: {
			DefaultPercent: decimal.NewFromInt(2), //nolint:mnd
			RecipientShare: half,
		},
	}
}

// Merge возвращает политику, где правила из override перекрывают правила p.
func (p Policy) Merge(override Policy) Policy {
	res := make(Policy, len(p)+len(override))
	for k, v := range p {
		res[k] = v
	}
	for k, v := range override {
		res[k] = v
	}
	return res
}
