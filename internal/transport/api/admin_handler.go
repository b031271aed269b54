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

// AdminHandler операции, доступные только администратору.
type AdminHandler struct {
	ledgerSvs   LedgerServicer
	transferSvs TransferServicer
	poolSvs     PoolServicer
}

func NewAdminHandler(ledgerSvs LedgerServicer, transferSvs TransferServicer, poolSvs PoolServicer) *AdminHandler {
	return &AdminHandler{
		ledgerSvs:   ledgerSvs,
		transferSvs: transferSvs,
		poolSvs:     poolSvs,
	}
}

type AdjustBalanceParams struct {
	UserID   int64  `binding:"required,min=1"   json:"user_id"`
	Currency string `binding:"required,iso4217" json:"currency"`
	Amount   string `binding:"required,money"   json:"amount"`
}

type LedgerEntryResponse struct {
	ID             int64                     `json:"id"`
	UserID         int64                     `json:"user_id"`
	Reference      uuid.UUID                 `json:"reference"`
	EntryType      domain.EntryType          `json:"type"`
	Direction      domain.DirectionType      `json:"direction"`
	Currency       string                    `json:"currency"`
	Amount         decimal.Decimal           `json:"amount"`
	RunningBalance decimal.Decimal           `json:"running_balance"`
	Status         domain.TransferStatusType `json:"status"`
	CreatedAt      time.Time                 `json:"created_at"`
}

func newLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:             e.ID,
		UserID:         e.UserID,
		Reference:      e.Reference,
		EntryType:      e.EntryType,
		Direction:      e.Direction,
		Currency:       e.Currency,
		Amount:         e.Amount,
		RunningBalance: e.RunningBalance,
		Status:         e.Status,
		CreatedAt:      e.CreatedAt,
	}
}

// Deposit POST RouteGroup + AdminGroup + DepositsRoute. Пополнение баланса пользователя.
func (h *AdminHandler) Deposit(c *gin.Context) {
	h.adjust(c, h.ledgerSvs.Deposit)
}

// Withdraw POST RouteGroup + AdminGroup + WithdrawalsRoute. Вывод средств пользователя.
func (h *AdminHandler) Withdraw(c *gin.Context) {
	h.adjust(c, h.ledgerSvs.Withdraw)
}

func (h *AdminHandler) adjust(
	c *gin.Context,
	fn func(context.Context, service.AdjustBalanceArgs) (*domain.LedgerEntry, error),
) {
	var params AdjustBalanceParams
	if !bindJSON(c, &params) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	entry, err := fn(reqCtx, service.AdjustBalanceArgs{
		UserID:   params.UserID,
		Currency: params.Currency,
		Amount:   parseAmount(params.Amount),
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newLedgerEntryResponse(entry))
}

type TransferReasonParams struct {
	Reason string `binding:"omitempty,max=255" json:"reason"`
}

// CancelTransfer POST RouteGroup + AdminGroup + AdminCancelRoute.
func (h *AdminHandler) CancelTransfer(c *gin.Context) {
	h.release(c, func(ctx context.Context, ref uuid.UUID, reason string) (*domain.Transfer, error) {
		return h.transferSvs.Cancel(ctx, service.CancelTransferArgs{ //nolint:wrapcheck
			Reference: ref,
			ActorID:   getUserIDFromContext(c),
			IsAdmin:   true,
			Reason:    reason,
		})
	})
}

// FailTransfer POST RouteGroup + AdminGroup + AdminFailRoute.
func (h *AdminHandler) FailTransfer(c *gin.Context) {
	h.release(c, h.transferSvs.Fail)
}

// ReverseTransfer POST RouteGroup + AdminGroup + AdminReverseRoute.
func (h *AdminHandler) ReverseTransfer(c *gin.Context) {
	h.release(c, h.transferSvs.Reverse)
}

func (h *AdminHandler) release(
	c *gin.Context,
	fn func(context.Context, uuid.UUID, string) (*domain.Transfer, error),
) {
	reference, ok := parseReference(c)
	if !ok {
		return
	}
	var params TransferReasonParams
	if c.Request.ContentLength > 0 && !bindJSON(c, &params) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transfer, err := fn(reqCtx, reference, params.Reason)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTransferResponse(transfer, getUserIDFromContext(c)))
}

type PoolsParams struct {
	OwnerID *int64 `binding:"omitempty,min=0" form:"owner"`
}

type PoolResponse struct {
	OwnerID   int64           `json:"owner_id"`
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func newPoolResponse(p *domain.CommissionPool) PoolResponse {
	return PoolResponse{
		OwnerID:   p.OwnerID,
		Currency:  p.Currency,
		Amount:    p.Amount,
		UpdatedAt: p.UpdatedAt,
	}
}

// Pools GET RouteGroup + AdminGroup + PoolsRoute. Пулы комиссий, owner=0 системный пул.
func (h *AdminHandler) Pools(c *gin.Context) {
	var params PoolsParams
	if !bindQuery(c, &params) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	pools, err := h.poolSvs.List(reqCtx, params.OwnerID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	response := make([]PoolResponse, len(pools))
	for i := range pools {
		response[i] = newPoolResponse(&pools[i])
	}
	c.JSON(http.StatusOK, response)
}

type PoolWithdrawParams struct {
	OwnerID  *int64 `binding:"required,min=0"   json:"owner_id"`
	Currency string `binding:"required,iso4217" json:"currency"`
	Amount   string `binding:"required,money"   json:"amount"`
}

// WithdrawPool POST RouteGroup + AdminGroup + PoolWithdrawRoute.
func (h *AdminHandler) WithdrawPool(c *gin.Context) {
	var params PoolWithdrawParams
	if !bindJSON(c, &params) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	pool, err := h.poolSvs.Withdraw(reqCtx, service.PoolWithdrawArgs{
		OwnerID:  *params.OwnerID,
		Currency: params.Currency,
		Amount:   parseAmount(params.Amount),
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPoolResponse(pool))
}
