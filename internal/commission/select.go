// Package commission подбирает тариф комиссии для перевода и рассчитывает комиссию.
package commission

import (
	"sort"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	specificityOriginDestination = 3
	specificityOrigin            = 2
	specificityDestination       = 1
	specificityWildcard          = 0
)

var perMilleBase = decimal.NewFromInt(1000) //nolint:gochecknoglobals

// Query параметры перевода, по которым подбирается тариф.
type Query struct {
	Kind        domain.TransferKind
	Currency    string
	Origin      *string
	Destination *string
	Amount      decimal.Decimal
}

// Select выбирает из tiers единственный тариф, подходящий под q. Возвращает nil, nil если подходящих тарифов нет.
//
// Правила выбора:
//  1. Тариф подходит, если совпадают вид и валюта, а сумма лежит в [min, max] включительно (пустой max без границы).
//  2. Заполненные origin/destination тарифа должны совпасть с запросом, пустые подходят под любое значение.
//  3. Побеждает наибольшая специфичность: origin+destination, затем только origin, затем только destination.
//  4. При равной специфичности тариф с конечным max важнее открытого, затем более узкий диапазон,
//     затем больший min.
//  5. Если после этого лидеров больше одного, возвращается *domain.AmbiguousTierError.
func Select(tiers []domain.CommissionTier, q Query) (*domain.CommissionTier, error) {
	candidates := make([]domain.CommissionTier, 0, len(tiers))
	for _, tier := range tiers {
		if matches(tier, q) {
			candidates = append(candidates, tier)
		}
	}
	if len(candidates) == 0 {
		return nil, nil //nolint:nilnil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return compare(candidates[i], candidates[j]) < 0
	})

	best := candidates[0]
	ambiguous := []int64{best.ID}
	for _, tier := range candidates[1:] {
		if compare(best, tier) != 0 {
			break
		}
		ambiguous = append(ambiguous, tier.ID)
	}
	if len(ambiguous) > 1 {
		return nil, domain.NewAmbiguousTierError(ambiguous)
	}
	return &best, nil
}

// Compute рассчитывает комиссию тарифа для суммы amount с округлением до 2 знаков.
func Compute(tier domain.CommissionTier, amount decimal.Decimal) decimal.Decimal {
	if tier.Commission.Valid {
		return tier.Commission.Decimal.Round(2) //nolint:mnd
	}
	return amount.Mul(tier.PerMille.Decimal).Div(perMilleBase).Round(2) //nolint:mnd
}

func matches(tier domain.CommissionTier, q Query) bool {
	if tier.Kind != q.Kind || tier.Currency != q.Currency {
		return false
	}
	if q.Amount.LessThan(tier.MinAmount) {
		return false
	}
	if tier.MaxAmount.Valid && q.Amount.GreaterThan(tier.MaxAmount.Decimal) {
		return false
	}
	return cityMatches(tier.Origin, q.Origin) && cityMatches(tier.Destination, q.Destination)
}

func cityMatches(tierCity, queryCity *string) bool {
	if tierCity == nil {
		return true
	}
	return queryCity != nil && *tierCity == *queryCity
}

func specificity(tier domain.CommissionTier) int {
	switch {
	case tier.Origin != nil && tier.Destination != nil:
		return specificityOriginDestination
	case tier.Origin != nil:
		return specificityOrigin
	case tier.Destination != nil:
		return specificityDestination
	default:
		return specificityWildcard
	}
}

// compare возвращает отрицательное число, если a предпочтительнее b, положительное если наоборот и 0
// если тарифы неразличимы.
func compare(a, b domain.CommissionTier) int {
	if sa, sb := specificity(a), specificity(b); sa != sb {
		return sb - sa
	}
	if a.MaxAmount.Valid != b.MaxAmount.Valid {
		if a.MaxAmount.Valid {
			return -1
		}
		return 1
	}
	if a.MaxAmount.Valid {
		if c := a.MaxAmount.Decimal.Sub(a.MinAmount).Cmp(b.MaxAmount.Decimal.Sub(b.MinAmount)); c != 0 {
			return c
		}
	}
	return b.MinAmount.Cmp(a.MinAmount)
}
