package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// getUserIDFromContext берет из контекста gin ID текущего юзера. ID устанавливается в
// middlewares.AuthRequired. В случае, если значения в контексте нет или ошибка утверждения типа -
// вернется 0.
func getUserIDFromContext(c *gin.Context) int64 {
	userIDStr, exist := c.Get(middlewares.CurrentUserIDKey)
	if !exist {
		return 0
	}
	userID, ok := userIDStr.(int64)
	if !ok {
		return 0
	}
	return userID
}

func isAdminFromContext(c *gin.Context) bool {
	return c.GetBool(middlewares.CurrentUserAdminKey)
}

// bindJSON разбирает тело запроса. Ошибки валидации отдаются как 422 со списком полей, прочие как 400.
func bindJSON(c *gin.Context, params any) bool {
	if bindErr := c.ShouldBindJSON(params); bindErr != nil {
		abortWithBindError(c, bindErr)
		return false
	}
	return true
}

func bindQuery(c *gin.Context, params any) bool {
	if bindErr := c.ShouldBindQuery(params); bindErr != nil {
		abortWithBindError(c, bindErr)
		return false
	}
	return true
}

func abortWithBindError(c *gin.Context, bindErr error) {
	var valErrs validator.ValidationErrors
	if errors.As(bindErr, &valErrs) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": valErrs.Error()})
		return
	}
	_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
}

func parseReference(c *gin.Context) (uuid.UUID, bool) {
	reference, err := uuid.Parse(c.Param("reference"))
	if err != nil {
		_ = c.AbortWithError(http.StatusNotFound, errors.New("transfer not found")).SetType(gin.ErrorTypePublic)
		return uuid.Nil, false
	}
	return reference, true
}

// parseAmount строки уже прошли валидацию тегом money или decimal.
func parseAmount(str string) decimal.Decimal {
	amount, _ := decimal.NewFromString(str)
	return amount
}

func parseOptionalAmount(str *string) decimal.NullDecimal {
	if str == nil || *str == "" {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(parseAmount(*str))
}

// abortWithServiceError переводит ошибку сервиса в http статус. Клиент видит текст доменной ошибки,
// полная цепочка уходит в лог как приватная ошибка.
func abortWithServiceError(c *gin.Context, err error) {
	var ambiguous *domain.AmbiguousTierError
	status, public := http.StatusInternalServerError, error(nil)

	switch {
	case errors.As(err, &ambiguous):
		status, public = http.StatusConflict,
			errors.New("commission tiers are ambiguous for this transfer, contact the administrator")
	case errors.Is(err, domain.ErrInsufficientFunds):
		status, public = http.StatusPaymentRequired, domain.ErrInsufficientFunds
	case errors.Is(err, domain.ErrInvalidClaimCode):
		status, public = http.StatusUnprocessableEntity, domain.ErrInvalidClaimCode
	case errors.Is(err, domain.ErrSameAccount):
		status, public = http.StatusUnprocessableEntity, domain.ErrSameAccount
	case errors.Is(err, domain.ErrInvalidAmount):
		status, public = http.StatusUnprocessableEntity, domain.ErrInvalidAmount
	case errors.Is(err, domain.ErrInvalidTier):
		status, public = http.StatusUnprocessableEntity, err
	case errors.Is(err, domain.ErrConcurrentModification):
		status, public = http.StatusConflict, domain.ErrConcurrentModification
	case errors.Is(err, domain.ErrInvalidTransition):
		status, public = http.StatusConflict, err
	case errors.Is(err, domain.ErrDuplicateKey):
		status, public = http.StatusConflict, domain.ErrDuplicateKey
	case errors.Is(err, domain.ErrRecordNotFound):
		status, public = http.StatusNotFound, domain.ErrRecordNotFound
	case errors.Is(err, domain.ErrForbidden):
		status, public = http.StatusForbidden, domain.ErrForbidden
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if public == nil {
		_ = c.AbortWithError(status, err).SetType(gin.ErrorTypePrivate)
		return
	}
	_ = c.AbortWithError(status, public).SetType(gin.ErrorTypePublic)
	if public != err { //nolint:errorlint
		_ = c.Error(err).SetType(gin.ErrorTypePrivate)
	}
}
