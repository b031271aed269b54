package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fsdevblog/remit-ledger/internal/commission"
	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/repository/repoargs"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CommissionHandler struct {
	commissionSvs CommissionServicer
}

func NewCommissionHandler(commissionSvs CommissionServicer) *CommissionHandler {
	return &CommissionHandler{commissionSvs: commissionSvs}
}

type QuoteParams struct {
	Kind        string  `binding:"required,oneof=internal city international" form:"kind"`
	Currency    string  `binding:"required,iso4217"                            form:"currency"`
	Amount      string  `binding:"required,money"                              form:"amount"`
	Origin      *string `binding:"omitempty,min=1,max=64"                      form:"origin"`
	Destination *string `binding:"omitempty,min=1,max=64"                      form:"destination"`
}

type QuoteResponse struct {
	Amount              decimal.Decimal             `json:"amount"`
	Commission          decimal.Decimal             `json:"commission"`
	SystemCommission    decimal.Decimal             `json:"system_commission"`
	RecipientCommission decimal.Decimal             `json:"recipient_commission"`
	TotalDebit          decimal.Decimal             `json:"total_debit"`
	Source              domain.CommissionSourceType `json:"source"`
	TierID              *int64                      `json:"tier_id,omitempty"`
}

// Quote GET RouteGroup + QuoteRoute. Расчет комиссии без проведения перевода.
func (h *CommissionHandler) Quote(c *gin.Context) {
	var params QuoteParams
	if !bindQuery(c, &params) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	quote, err := h.commissionSvs.Quote(reqCtx, commission.Query{
		Kind:        domain.TransferKind(params.Kind),
		Currency:    params.Currency,
		Origin:      params.Origin,
		Destination: params.Destination,
		Amount:      parseAmount(params.Amount),
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, QuoteResponse{
		Amount:              quote.Amount,
		Commission:          quote.Total,
		SystemCommission:    quote.System,
		RecipientCommission: quote.Recipient,
		TotalDebit:          quote.TotalDebit,
		Source:              quote.Source,
		TierID:              quote.TierID,
	})
}

type TierResponse struct {
	ID          int64               `json:"id"`
	Kind        domain.TransferKind `json:"kind"`
	Origin      *string             `json:"origin,omitempty"`
	Destination *string             `json:"destination,omitempty"`
	Currency    string              `json:"currency"`
	MinAmount   decimal.Decimal     `json:"min_amount"`
	MaxAmount   decimal.NullDecimal `json:"max_amount"`
	Commission  decimal.NullDecimal `json:"commission"`
	PerMille    decimal.NullDecimal `json:"per_mille"`
	CreatedAt   time.Time           `json:"created_at"`
}

func newTierResponse(t *domain.CommissionTier) TierResponse {
	return TierResponse{
		ID:          t.ID,
		Kind:        t.Kind,
		Origin:      t.Origin,
		Destination: t.Destination,
		Currency:    t.Currency,
		MinAmount:   t.MinAmount,
		MaxAmount:   t.MaxAmount,
		Commission:  t.Commission,
		PerMille:    t.PerMille,
		CreatedAt:   t.CreatedAt,
	}
}

// ListTiers GET RouteGroup + AdminGroup + TiersRoute.
func (h *CommissionHandler) ListTiers(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	tiers, err := h.commissionSvs.ListTiers(reqCtx)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	response := make([]TierResponse, len(tiers))
	for i := range tiers {
		response[i] = newTierResponse(&tiers[i])
	}
	c.JSON(http.StatusOK, response)
}

// CreateTierParams суммы передаются строками, чтобы не терять точность на float.
type CreateTierParams struct {
	Kind        string  `binding:"required,oneof=internal city international" json:"kind"`
	Origin      *string `binding:"omitempty,min=1,max=64"                      json:"origin"`
	Destination *string `binding:"omitempty,min=1,max=64"                      json:"destination"`
	Currency    string  `binding:"required,iso4217"                            json:"currency"`
	MinAmount   string  `binding:"required,decimal"                            json:"min_amount"`
	MaxAmount   *string `binding:"omitempty,decimal"                           json:"max_amount"`
	Commission  *string `binding:"omitempty,decimal"                           json:"commission"`
	PerMille    *string `binding:"omitempty,decimal"                           json:"per_mille"`
}

// CreateTier POST RouteGroup + AdminGroup + TiersRoute.
func (h *CommissionHandler) CreateTier(c *gin.Context) {
	var params CreateTierParams
	if !bindJSON(c, &params) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	tier, err := h.commissionSvs.CreateTier(reqCtx, repoargs.CreateTier{
		Kind:        domain.TransferKind(params.Kind),
		Origin:      params.Origin,
		Destination: params.Destination,
		Currency:    params.Currency,
		MinAmount:   parseAmount(params.MinAmount),
		MaxAmount:   parseOptionalAmount(params.MaxAmount),
		Commission:  parseOptionalAmount(params.Commission),
		PerMille:    parseOptionalAmount(params.PerMille),
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newTierResponse(tier))
}

// DeleteTier DELETE RouteGroup + AdminGroup + TierRoute.
func (h *CommissionHandler) DeleteTier(c *gin.Context) {
	id, parseErr := strconv.ParseInt(c.Param("id"), 10, 64)
	if parseErr != nil || id <= 0 {
		_ = c.AbortWithError(http.StatusNotFound, errors.New("tier not found")).SetType(gin.ErrorTypePublic)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.commissionSvs.DeleteTier(reqCtx, id); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
