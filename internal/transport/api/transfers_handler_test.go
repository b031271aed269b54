package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/service"
	"github.com/fsdevblog/remit-ledger/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func pendingTransfer(senderID int64) *domain.Transfer {
	code := "12345678"
	expires := time.Now().Add(time.Hour)
	return &domain.Transfer{
		ID:                  10,
		Reference:           uuid.New(),
		Kind:                domain.TransferKindCity,
		SenderID:            senderID,
		Currency:            "KGS",
		Amount:              decimal.NewFromInt(500),
		SystemCommission:    decimal.RequireFromString("2.5"),
		RecipientCommission: decimal.RequireFromString("2.5"),
		TotalDebit:          decimal.NewFromInt(505),
		ClaimCode:           &code,
		Status:              domain.TransferStatusPending,
		CommissionSource:    domain.CommissionSourceTier,
		ExpiresAt:           &expires,
		CreatedAt:           time.Now(),
	}
}

func (s *HandlersTestSuite) TestSend() {
	receiverID := anotherUserID
	internal := &domain.Transfer{
		Reference:  uuid.New(),
		Kind:       domain.TransferKindInternal,
		SenderID:   currentUserID,
		ReceiverID: &receiverID,
		Currency:   "KGS",
		Amount:     decimal.NewFromInt(1000),
		TotalDebit: decimal.NewFromInt(1005),
		Status:     domain.TransferStatusCompleted,
	}

	s.mockTransferService.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args service.SendTransferArgs) (*domain.Transfer, error) {
			s.Equal(currentUserID, args.SenderID)
			switch {
			case args.Kind == domain.TransferKindCity:
				return pendingTransfer(args.SenderID), nil
			case args.Amount.Equal(decimal.NewFromInt(999999)):
				return nil, fmt.Errorf("sending transfer: %w", domain.ErrInsufficientFunds)
			case args.Kind == domain.TransferKindInternal:
				s.Require().NotNil(args.ReceiverID)
				s.Equal(receiverID, *args.ReceiverID)
				s.True(args.Amount.Equal(decimal.NewFromInt(1000)))
				return internal, nil
			default:
				return nil, domain.NewAmbiguousTierError([]int64{1, 2})
			}
		}).Times(4)

	cases := []struct {
		name       string
		kind       string
		body       gin.H
		token      string
		wantStatus int
	}{
		{
			name:       "internal ok",
			kind:       "internal",
			body:       gin.H{"receiver_id": receiverID, "currency": "KGS", "amount": "1000"},
			token:      s.userToken,
			wantStatus: http.StatusOK,
		}, {
			name:       "city pending",
			kind:       "city",
			body:       gin.H{"currency": "KGS", "amount": "500", "destination": "Osh"},
			token:      s.userToken,
			wantStatus: http.StatusAccepted,
		}, {
			name:       "insufficient funds",
			kind:       "internal",
			body:       gin.H{"receiver_id": receiverID, "currency": "KGS", "amount": "999999"},
			token:      s.userToken,
			wantStatus: http.StatusPaymentRequired,
		}, {
			name:       "ambiguous tiers",
			kind:       "international",
			body:       gin.H{"currency": "USD", "amount": "10"},
			token:      s.userToken,
			wantStatus: http.StatusConflict,
		}, {
			name:       "internal without receiver",
			kind:       "internal",
			body:       gin.H{"currency": "KGS", "amount": "10"},
			token:      s.userToken,
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "too precise amount",
			kind:       "internal",
			body:       gin.H{"receiver_id": receiverID, "currency": "KGS", "amount": "10.001"},
			token:      s.userToken,
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "amount above limit",
			kind:       "city",
			body:       gin.H{"currency": "KGS", "amount": "100000000000000000000", "destination": "Osh"},
			token:      s.userToken,
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "negative amount",
			kind:       "city",
			body:       gin.H{"currency": "KGS", "amount": "-10"},
			token:      s.userToken,
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "unknown currency",
			kind:       "city",
			body:       gin.H{"currency": "XYZ1", "amount": "10"},
			token:      s.userToken,
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "unknown kind",
			kind:       "crypto",
			body:       gin.H{"currency": "KGS", "amount": "10"},
			token:      s.userToken,
			wantStatus: http.StatusNotFound,
		}, {
			name:       "not authorized",
			kind:       "internal",
			body:       gin.H{"receiver_id": receiverID, "currency": "KGS", "amount": "1000"},
			wantStatus: http.StatusUnauthorized,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			status, _ := s.do(requestCase{
				method: http.MethodPost,
				url:    RouteGroup + "/transfers/" + t.kind,
				body:   testutils.JSONBody(t.body),
				token:  t.token,
			})
			s.Equal(t.wantStatus, status)
		})
	}
}

func (s *HandlersTestSuite) TestSendPendingShowsClaimCodeToSender() {
	s.mockTransferService.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		Return(pendingTransfer(currentUserID), nil).Times(1)

	status, body := s.do(requestCase{
		method: http.MethodPost,
		url:    RouteGroup + "/transfers/city",
		body:   testutils.JSONBody(gin.H{"currency": "KGS", "amount": "500"}),
		token:  s.userToken,
	})
	s.Require().Equal(http.StatusAccepted, status)

	var resp TransferResponse
	s.decode(body, &resp)
	s.Require().NotNil(resp.ClaimCode)
	s.Equal("12345678", *resp.ClaimCode)
	s.Equal(domain.TransferStatusPending, resp.Status)
	s.True(resp.Commission.Equal(decimal.NewFromInt(5)))
}

func (s *HandlersTestSuite) TestClaim() {
	claimed := pendingTransfer(anotherUserID)
	claimed.Status = domain.TransferStatusCompleted
	claimed.ClaimedBy = &[]int64{currentUserID}[0]

	s.mockTransferService.EXPECT().
		Claim(gomock.Any(), service.ClaimTransferArgs{
			ClaimantID: currentUserID,
			Kind:       domain.TransferKindCity,
			Code:       "12345678",
		}).
		Return(claimed, nil).Times(1)
	s.mockTransferService.EXPECT().
		Claim(gomock.Any(), service.ClaimTransferArgs{
			ClaimantID: currentUserID,
			Kind:       domain.TransferKindInternational,
			Code:       "12345678",
		}).
		Return(nil, domain.ErrInvalidClaimCode).Times(1)

	cases := []struct {
		name       string
		kind       string
		code       string
		wantStatus int
	}{
		{name: "all ok", kind: "city", code: "12345678", wantStatus: http.StatusOK},
		{name: "wrong kind for code", kind: "international", code: "12345678", wantStatus: http.StatusUnprocessableEntity},
		{name: "short code", kind: "city", code: "1234", wantStatus: http.StatusUnprocessableEntity},
		{name: "not numeric", kind: "city", code: "abcdefgh", wantStatus: http.StatusUnprocessableEntity},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			status, body := s.do(requestCase{
				method: http.MethodPost,
				url:    RouteGroup + "/transfers/" + t.kind + "/claim",
				body:   testutils.JSONBody(gin.H{"code": t.code}),
				token:  s.userToken,
			})
			s.Equal(t.wantStatus, status)
			if status == http.StatusOK {
				var resp TransferResponse
				s.decode(body, &resp)
				// код получения виден только отправителю.
				s.Nil(resp.ClaimCode)
			}
		})
	}
}

func (s *HandlersTestSuite) TestShow() {
	transfer := pendingTransfer(currentUserID)
	forbiddenRef := uuid.New()
	s.mockTransferService.EXPECT().
		Get(gomock.Any(), transfer.Reference, currentUserID, false).
		Return(transfer, nil).Times(1)
	s.mockTransferService.EXPECT().
		Get(gomock.Any(), forbiddenRef, currentUserID, false).
		Return(nil, domain.ErrForbidden).Times(1)
	s.mockTransferService.EXPECT().
		Get(gomock.Any(), transfer.Reference, adminUserID, true).
		Return(transfer, nil).Times(1)

	cases := []struct {
		name         string
		ref          string
		token        string
		wantStatus   int
		wantClaimKey bool
	}{
		{name: "sender", ref: transfer.Reference.String(), token: s.userToken, wantStatus: http.StatusOK, wantClaimKey: true},
		{name: "admin", ref: transfer.Reference.String(), token: s.adminToken, wantStatus: http.StatusOK},
		{name: "stranger", ref: forbiddenRef.String(), token: s.userToken, wantStatus: http.StatusForbidden},
		{name: "malformed reference", ref: "not-uuid", token: s.userToken, wantStatus: http.StatusNotFound},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			status, body := s.do(requestCase{
				method: http.MethodGet,
				url:    RouteGroup + "/transfers/" + t.ref,
				token:  t.token,
			})
			s.Equal(t.wantStatus, status)
			if status == http.StatusOK {
				var resp TransferResponse
				s.decode(body, &resp)
				s.Equal(t.wantClaimKey, resp.ClaimCode != nil)
			}
		})
	}
}

func (s *HandlersTestSuite) TestIndex() {
	s.mockTransferService.EXPECT().
		GetByUserID(gomock.Any(), currentUserID, uint(defaultTransfersLimit)).
		Return([]domain.Transfer{*pendingTransfer(currentUserID)}, nil).Times(1)
	s.mockTransferService.EXPECT().
		GetByUserID(gomock.Any(), anotherUserID, uint(maxTransfersLimit)).
		Return([]domain.Transfer{}, nil).Times(1)

	status, body := s.do(requestCase{
		method: http.MethodGet,
		url:    RouteGroup + TransfersRoute,
		token:  s.userToken,
	})
	s.Require().Equal(http.StatusOK, status)
	var resp []TransferResponse
	s.decode(body, &resp)
	s.Len(resp, 1)

	status, _ = s.do(requestCase{
		method: http.MethodGet,
		url:    RouteGroup + TransfersRoute + "?limit=100000",
		token:  s.anotherToken,
	})
	s.Equal(http.StatusNoContent, status)
}

func (s *HandlersTestSuite) TestCancel() {
	transfer := pendingTransfer(currentUserID)
	cancelled := *transfer
	cancelled.Status = domain.TransferStatusCancelled

	s.mockTransferService.EXPECT().
		Cancel(gomock.Any(), service.CancelTransferArgs{Reference: transfer.Reference, ActorID: currentUserID}).
		Return(&cancelled, nil).Times(1)
	s.mockTransferService.EXPECT().
		Cancel(gomock.Any(), service.CancelTransferArgs{Reference: transfer.Reference, ActorID: anotherUserID}).
		Return(nil, domain.ErrForbidden).Times(1)

	status, _ := s.do(requestCase{
		method: http.MethodDelete,
		url:    RouteGroup + "/transfers/" + transfer.Reference.String(),
		token:  s.userToken,
	})
	s.Equal(http.StatusOK, status)

	status, _ = s.do(requestCase{
		method: http.MethodDelete,
		url:    RouteGroup + "/transfers/" + transfer.Reference.String(),
		token:  s.anotherToken,
	})
	s.Equal(http.StatusForbidden, status)
}
