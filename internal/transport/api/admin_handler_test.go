package api

import (
	"context"
	"net/http"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/service"
	"github.com/fsdevblog/remit-ledger/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (s *HandlersTestSuite) TestDepositAndWithdraw() {
	s.mockLedgerService.EXPECT().
		Deposit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args service.AdjustBalanceArgs) (*domain.LedgerEntry, error) {
			s.Equal(currentUserID, args.UserID)
			return &domain.LedgerEntry{
				UserID:         args.UserID,
				Reference:      uuid.New(),
				EntryType:      domain.EntryTypeDeposit,
				Direction:      domain.DirectionCredit,
				Currency:       args.Currency,
				Amount:         args.Amount,
				RunningBalance: args.Amount,
				Status:         domain.TransferStatusCompleted,
			}, nil
		}).Times(1)
	s.mockLedgerService.EXPECT().
		Withdraw(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrInsufficientFunds).Times(1)
	s.mockLedgerService.EXPECT().
		Deposit(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrRecordNotFound).Times(1)

	cases := []struct {
		name       string
		route      string
		body       gin.H
		token      string
		wantStatus int
	}{
		{
			name:       "deposit",
			route:      DepositsRoute,
			body:       gin.H{"user_id": currentUserID, "currency": "KGS", "amount": "10000.50"},
			token:      s.adminToken,
			wantStatus: http.StatusCreated,
		}, {
			name:       "withdraw over balance",
			route:      WithdrawalsRoute,
			body:       gin.H{"user_id": currentUserID, "currency": "KGS", "amount": "10"},
			token:      s.adminToken,
			wantStatus: http.StatusPaymentRequired,
		}, {
			name:       "deposit to unknown user",
			route:      DepositsRoute,
			body:       gin.H{"user_id": 999, "currency": "KGS", "amount": "10"},
			token:      s.adminToken,
			wantStatus: http.StatusNotFound,
		}, {
			name:       "zero amount",
			route:      DepositsRoute,
			body:       gin.H{"user_id": currentUserID, "currency": "KGS", "amount": "0"},
			token:      s.adminToken,
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "not admin",
			route:      DepositsRoute,
			body:       gin.H{"user_id": currentUserID, "currency": "KGS", "amount": "10"},
			token:      s.userToken,
			wantStatus: http.StatusForbidden,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			status, _ := s.do(requestCase{
				method: http.MethodPost,
				url:    RouteGroup + AdminGroup + t.route,
				body:   testutils.JSONBody(t.body),
				token:  t.token,
			})
			s.Equal(t.wantStatus, status)
		})
	}
}

func (s *HandlersTestSuite) TestAdminTransferActions() {
	ref := uuid.New()
	result := pendingTransfer(currentUserID)
	result.Reference = ref

	s.mockTransferService.EXPECT().
		Cancel(gomock.Any(), service.CancelTransferArgs{
			Reference: ref,
			ActorID:   adminUserID,
			IsAdmin:   true,
			Reason:    "fraud check",
		}).
		Return(result, nil).Times(1)
	s.mockTransferService.EXPECT().Fail(gomock.Any(), ref, "").Return(result, nil).Times(1)
	s.mockTransferService.EXPECT().
		Reverse(gomock.Any(), ref, "chargeback").
		Return(nil, &domain.TransitionError{From: domain.TransferStatusPending, To: domain.TransferStatusReversed}).
		Times(1)

	cases := []struct {
		name       string
		action     string
		body       gin.H
		wantStatus int
	}{
		{name: "cancel", action: "cancel", body: gin.H{"reason": "fraud check"}, wantStatus: http.StatusOK},
		{name: "fail without reason", action: "fail", wantStatus: http.StatusOK},
		{name: "reverse pending", action: "reverse", body: gin.H{"reason": "chargeback"}, wantStatus: http.StatusConflict},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			rc := requestCase{
				method: http.MethodPost,
				url:    RouteGroup + AdminGroup + "/transfers/" + ref.String() + "/" + t.action,
				token:  s.adminToken,
			}
			if t.body != nil {
				rc.body = testutils.JSONBody(t.body)
			}
			status, _ := s.do(rc)
			s.Equal(t.wantStatus, status)
		})
	}
}

func (s *HandlersTestSuite) TestPools() {
	systemOwner := domain.SystemPoolOwnerID
	s.mockPoolService.EXPECT().
		List(gomock.Any(), &systemOwner).
		Return([]domain.CommissionPool{{OwnerID: 0, Currency: "KGS", Amount: decimal.NewFromInt(5)}}, nil).Times(1)
	s.mockPoolService.EXPECT().
		List(gomock.Any(), nil).
		Return([]domain.CommissionPool{}, nil).Times(1)
	s.mockPoolService.EXPECT().
		Withdraw(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args service.PoolWithdrawArgs) (*domain.CommissionPool, error) {
			s.Equal(domain.SystemPoolOwnerID, args.OwnerID)
			return &domain.CommissionPool{OwnerID: args.OwnerID, Currency: args.Currency, Amount: decimal.NewFromInt(2)}, nil
		}).Times(1)

	status, body := s.do(requestCase{
		method: http.MethodGet,
		url:    RouteGroup + AdminGroup + PoolsRoute + "?owner=0",
		token:  s.adminToken,
	})
	s.Require().Equal(http.StatusOK, status)
	var pools []PoolResponse
	s.decode(body, &pools)
	s.Len(pools, 1)

	status, _ = s.do(requestCase{
		method: http.MethodGet,
		url:    RouteGroup + AdminGroup + PoolsRoute,
		token:  s.adminToken,
	})
	s.Equal(http.StatusOK, status)

	status, body = s.do(requestCase{
		method: http.MethodPost,
		url:    RouteGroup + AdminGroup + PoolWithdrawRoute,
		body:   testutils.JSONBody(gin.H{"owner_id": 0, "currency": "KGS", "amount": "3"}),
		token:  s.adminToken,
	})
	s.Require().Equal(http.StatusOK, status)
	var pool PoolResponse
	s.decode(body, &pool)
	s.True(pool.Amount.Equal(decimal.NewFromInt(2)))

	status, _ = s.do(requestCase{
		method: http.MethodPost,
		url:    RouteGroup + AdminGroup + PoolWithdrawRoute,
		body:   testutils.JSONBody(gin.H{"currency": "KGS", "amount": "3"}),
		token:  s.adminToken,
	})
	s.Equal(http.StatusUnprocessableEntity, status)
}
