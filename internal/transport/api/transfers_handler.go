package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultTransfersLimit = 50
	maxTransfersLimit     = 500
)

type TransfersHandler struct {
	transferSvs TransferServicer
}

func NewTransfersHandler(transferSvs TransferServicer) *TransfersHandler {
	return &TransfersHandler{transferSvs: transferSvs}
}

type TransferResponse struct {
	Reference           uuid.UUID                   `json:"reference"`
	Kind                domain.TransferKind         `json:"kind"`
	Status              domain.TransferStatusType   `json:"status"`
	SenderID            int64                       `json:"sender_id"`
	ReceiverID          *int64                      `json:"receiver_id,omitempty"`
	ClaimedBy           *int64                      `json:"claimed_by,omitempty"`
	Currency            string                      `json:"currency"`
	Amount              decimal.Decimal             `json:"amount"`
	Commission          decimal.Decimal             `json:"commission"`
	SystemCommission    decimal.Decimal             `json:"system_commission"`
	RecipientCommission decimal.Decimal             `json:"recipient_commission"`
	TotalDebit          decimal.Decimal             `json:"total_debit"`
	CommissionSource    domain.CommissionSourceType `json:"commission_source"`
	Origin              *string                     `json:"origin,omitempty"`
	Destination         *string                     `json:"destination,omitempty"`
	ClaimCode           *string                     `json:"claim_code,omitempty"`
	FailureReason       *string                     `json:"failure_reason,omitempty"`
	ExpiresAt           *time.Time                  `json:"expires_at,omitempty"`
	CreatedAt           time.Time                   `json:"created_at"`
	CompletedAt         *time.Time                  `json:"completed_at,omitempty"`
	CancelledAt         *time.Time                  `json:"cancelled_at,omitempty"`
}

// newTransferResponse код получения видит только отправитель.
func newTransferResponse(t *domain.Transfer, viewerID int64) TransferResponse {
	resp := TransferResponse{
		Reference:           t.Reference,
		Kind:                t.Kind,
		Status:              t.Status,
		SenderID:            t.SenderID,
		ReceiverID:          t.ReceiverID,
		ClaimedBy:           t.ClaimedBy,
		Currency:            t.Currency,
		Amount:              t.Amount,
		Commission:          t.Commission(),
		SystemCommission:    t.SystemCommission,
		RecipientCommission: t.RecipientCommission,
		TotalDebit:          t.TotalDebit,
		CommissionSource:    t.CommissionSource,
		Origin:              t.Origin,
		Destination:         t.Destination,
		FailureReason:       t.FailureReason,
		ExpiresAt:           t.ExpiresAt,
		CreatedAt:           t.CreatedAt,
		CompletedAt:         t.CompletedAt,
		CancelledAt:         t.CancelledAt,
	}
	if t.SenderID == viewerID {
		resp.ClaimCode = t.ClaimCode
	}
	return resp
}

func parseKind(c *gin.Context) (domain.TransferKind, bool) {
	kind := domain.TransferKind(c.Param("kind"))
	if !kind.IsValid() {
		_ = c.AbortWithError(http.StatusNotFound, errors.New("unknown transfer kind")).SetType(gin.ErrorTypePublic)
		return "", false
	}
	return kind, true
}

type TransfersIndexParams struct {
	Limit uint `binding:"omitempty,min=1" form:"limit"`
}

// Index GET RouteGroup + TransfersRoute. Переводы, где текущий юзер отправитель, получатель или предъявитель кода.
func (h *TransfersHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params TransfersIndexParams
	if !bindQuery(c, &params) {
		return
	}
	limit := params.Limit
	if limit == 0 {
		limit = defaultTransfersLimit
	}
	limit = min(limit, maxTransfersLimit)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transfers, err := h.transferSvs.GetByUserID(reqCtx, currentUserID, limit)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	if len(transfers) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	response := make([]TransferResponse, len(transfers))
	for i := range transfers {
		response[i] = newTransferResponse(&transfers[i], currentUserID)
	}
	c.JSON(http.StatusOK, response)
}

// Show GET RouteGroup + TransferRoute.
func (h *TransfersHandler) Show(c *gin.Context) {
	reference, ok := parseReference(c)
	if !ok {
		return
	}
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transfer, err := h.transferSvs.Get(reqCtx, reference, currentUserID, isAdminFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTransferResponse(transfer, currentUserID))
}

type SendTransferParams struct {
	ReceiverID  *int64  `binding:"omitempty,min=1"        json:"receiver_id"`
	Currency    string  `binding:"required,iso4217"       json:"currency"`
	Amount      string  `binding:"required,money"         json:"amount"`
	Origin      *string `binding:"omitempty,min=1,max=64" json:"origin"`
	Destination *string `binding:"omitempty,min=1,max=64" json:"destination"`
}

// Send POST RouteGroup + SendRoute. Создает перевод вида :kind от имени текущего юзера.
// Городской и международный переводы отвечают 202 и содержат код получения.
func (h *TransfersHandler) Send(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}
	var params SendTransferParams
	if !bindJSON(c, &params) {
		return
	}
	if kind == domain.TransferKindInternal && params.ReceiverID == nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "receiver_id is required"})
		return
	}
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transfer, err := h.transferSvs.Send(reqCtx, service.SendTransferArgs{
		SenderID:    currentUserID,
		Kind:        kind,
		ReceiverID:  params.ReceiverID,
		Currency:    params.Currency,
		Amount:      parseAmount(params.Amount),
		Origin:      params.Origin,
		Destination: params.Destination,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	status := http.StatusOK
	if transfer.Status == domain.TransferStatusPending {
		status = http.StatusAccepted
	}
	c.JSON(status, newTransferResponse(transfer, currentUserID))
}

type ClaimTransferParams struct {
	Code string `binding:"required,numeric,len=8" json:"code"`
}

// Claim POST RouteGroup + ClaimRoute. Получение замороженного перевода по коду.
func (h *TransfersHandler) Claim(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}
	var params ClaimTransferParams
	if !bindJSON(c, &params) {
		return
	}
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transfer, err := h.transferSvs.Claim(reqCtx, service.ClaimTransferArgs{
		ClaimantID: currentUserID,
		Kind:       kind,
		Code:       params.Code,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTransferResponse(transfer, currentUserID))
}

// Cancel DELETE RouteGroup + TransferRoute. Отправитель отменяет свой ожидающий перевод.
func (h *TransfersHandler) Cancel(c *gin.Context) {
	reference, ok := parseReference(c)
	if !ok {
		return
	}
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transfer, err := h.transferSvs.Cancel(reqCtx, service.CancelTransferArgs{
		Reference: reference,
		ActorID:   currentUserID,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTransferResponse(transfer, currentUserID))
}
