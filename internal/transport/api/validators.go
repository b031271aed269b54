package api

import (
	"fmt"
	"strconv"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// moneyMaxScale денежные суммы принимаются с точностью до сотых.
const moneyMaxScale = 2

// validateMaxBytes в отличии от тэга max который проверяет длину рун, - проверят длину байт в поле.
func validateMaxBytes(fl validator.FieldLevel) bool {
	param := fl.Param() // получаем значение из тега
	maxBytes, err := strconv.Atoi(param)
	if err != nil {
		return false
	}

	// нужно убедится что значение поля - строка.
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	return len([]byte(str)) <= maxBytes
}

// validateMoney строка с положительной суммой не точнее сотых и не больше domain.MaxAmount.
func validateMoney(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	amount, err := decimal.NewFromString(str)
	if err != nil {
		return false
	}
	return domain.ValidAmount(amount) && amount.Exponent() >= -moneyMaxScale
}

// validateDecimal строка с неотрицательным десятичным числом.
func validateDecimal(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	value, err := decimal.NewFromString(str)
	if err != nil {
		return false
	}
	return !value.IsNegative()
}

func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("validator registration: unexpected engine %T", binding.Validator.Engine())
	}
	for tag, fn := range map[string]validator.Func{
		"max_bytes": validateMaxBytes,
		"money":     validateMoney,
		"decimal":   validateDecimal,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("validator registration: %w", err)
		}
	}
	return nil
}
