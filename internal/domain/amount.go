package domain

import "github.com/shopspring/decimal"

// MaxAmount верхняя граница одной суммы операции. Денежные колонки хранят NUMERIC(20,4), запас в один
// разряд оставлен под комиссию и накопленные остатки.
var MaxAmount = decimal.New(1, 15) //nolint:gochecknoglobals,mnd

// ValidAmount сумма положительна и не превышает MaxAmount.
func ValidAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.LessThanOrEqual(MaxAmount)
}
