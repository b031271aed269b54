package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// defaultStatementPeriod период выписки, если from не задан.
const defaultStatementPeriod = 30 * 24 * time.Hour

type BalanceHandler struct {
	ledgerSvs    LedgerServicer
	statementSvs StatementServicer
}

func NewBalanceHandler(ledgerSvs LedgerServicer, statementSvs StatementServicer) *BalanceHandler {
	return &BalanceHandler{
		ledgerSvs:    ledgerSvs,
		statementSvs: statementSvs,
	}
}

type BalanceResponse struct {
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Index GET RouteGroup + BalanceRoute. Остатки текущего юзера во всех валютах.
func (b *BalanceHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	balances, err := b.ledgerSvs.GetBalances(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	response := make([]BalanceResponse, len(balances))
	for i, balance := range balances {
		response[i] = BalanceResponse{
			Currency:  balance.Currency,
			Amount:    balance.Amount,
			UpdatedAt: balance.UpdatedAt,
		}
	}
	c.JSON(http.StatusOK, response)
}

type StatementParams struct {
	Currency string    `binding:"required,iso4217" form:"currency"`
	From     time.Time `form:"from"                time_format:"2006-01-02T15:04:05Z07:00"`
	To       time.Time `form:"to"                  time_format:"2006-01-02T15:04:05Z07:00"`
}

type StatementLineResponse struct {
	ID             int64            `json:"id"`
	CreatedAt      time.Time        `json:"created_at"`
	EntryType      domain.EntryType `json:"type"`
	Direction      string           `json:"direction"`
	Amount         decimal.Decimal  `json:"amount"`
	Commission     decimal.Decimal  `json:"commission"`
	Reference      uuid.UUID        `json:"reference"`
	CounterpartyID *int64           `json:"counterparty_id,omitempty"`
	Status         string           `json:"status"`
	RunningBalance decimal.Decimal  `json:"running_balance"`
	Replayed       decimal.Decimal  `json:"replayed_balance"`
	Consistent     bool             `json:"consistent"`
}

type StatementResponse struct {
	Currency   string                  `json:"currency"`
	From       time.Time               `json:"from"`
	To         time.Time               `json:"to"`
	Opening    decimal.Decimal         `json:"opening_balance"`
	Closing    decimal.Decimal         `json:"closing_balance"`
	Credits    decimal.Decimal         `json:"total_credits"`
	Debits     decimal.Decimal         `json:"total_debits"`
	Consistent bool                    `json:"consistent"`
	Lines      []StatementLineResponse `json:"lines"`
}

// Statement GET RouteGroup + StatementRoute. Выписка по валюте за период [from, to).
func (b *BalanceHandler) Statement(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params StatementParams
	if !bindQuery(c, &params) {
		return
	}
	if params.To.IsZero() {
		params.To = time.Now()
	}
	if params.From.IsZero() {
		params.From = params.To.Add(-defaultStatementPeriod)
	}
	if !params.To.After(params.From) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "`to` must be after `from`"})
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	st, err := b.statementSvs.Build(reqCtx, service.StatementArgs{
		UserID:   currentUserID,
		Currency: params.Currency,
		From:     params.From,
		To:       params.To,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	response := StatementResponse{
		Currency:   st.Currency,
		From:       st.From,
		To:         st.To,
		Opening:    st.Opening,
		Closing:    st.Closing,
		Credits:    st.Credits,
		Debits:     st.Debits,
		Consistent: st.Consistent,
		Lines:      make([]StatementLineResponse, len(st.Lines)),
	}
	for i, line := range st.Lines {
		response.Lines[i] = StatementLineResponse{
			ID:             line.ID,
			CreatedAt:      line.CreatedAt,
			EntryType:      line.EntryType,
			Direction:      string(line.Direction),
			Amount:         line.Amount,
			Commission:     line.LedgerEntry.Commission,
			Reference:      line.Reference,
			CounterpartyID: line.CounterpartyID,
			Status:         string(line.Status),
			RunningBalance: line.RunningBalance,
			Replayed:       line.Replayed,
			Consistent:     line.Consistent,
		}
	}
	c.JSON(http.StatusOK, response)
}
