package commission

import (
	"context"
	"fmt"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

var percentBase = decimal.NewFromInt(100) //nolint:gochecknoglobals

// TierSource источник тарифов. Реализуется репозиторием тарифов.
type TierSource interface {
	FindCandidates(
		ctx context.Context,
		kind domain.TransferKind,
		currency string,
		amount decimal.Decimal,
	) ([]domain.CommissionTier, error)
}

// Result итог расчета комиссии. Total = System + Recipient.
type Result struct {
	Total     decimal.Decimal
	System    decimal.Decimal
	Recipient decimal.Decimal
	Source    domain.CommissionSourceType
	TierID    *int64
}

type Resolver struct {
	policy Policy
}

func NewResolver(policy Policy) *Resolver {
	return &Resolver{policy: DefaultPolicy().Merge(policy)}
}

// Resolve подбирает тариф через src и рассчитывает комиссию с разбивкой на системную и офисную части.
// Если тариф не найден, используется процент по умолчанию для вида перевода.
func (r *Resolver) Resolve(ctx context.Context, src TierSource, q Query) (*Result, error) {
	if !q.Kind.IsValid() {
		return nil, fmt.Errorf("resolving commission: unknown transfer kind `%s`", q.Kind)
	}
	tiers, err := src.FindCandidates(ctx, q.Kind, q.Currency, q.Amount)
	if err != nil {
		return nil, fmt.Errorf("resolving commission: %w", err)
	}
	tier, selectErr := Select(tiers, q)
	if selectErr != nil {
		return nil, fmt.Errorf("resolving commission: %w", selectErr)
	}

	rule := r.policy[q.Kind]
	res := Result{Source: domain.CommissionSourceDefault}
	if tier != nil {
		res.Total = Compute(*tier, q.Amount)
		res.Source = domain.CommissionSourceTier
		res.TierID = &tier.ID
	} else {
		res.Total = q.Amount.Mul(rule.DefaultPercent).Div(percentBase).Round(2) //nolint:mnd
	}

	res.Recipient = res.Total.Mul(rule.RecipientShare).Round(2) //nolint:mnd
	res.System = res.Total.Sub(res.Recipient)
	return &res, nil
}
