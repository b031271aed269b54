package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fsdevblog/remit-ledger/internal/commission"
	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/remit-ledger/internal/service"
	"github.com/fsdevblog/remit-ledger/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
)

func (s *HandlersTestSuite) TestQuote() {
	tierID := int64(3)
	s.mockCommissionService.EXPECT().
		Quote(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q commission.Query) (*service.Quote, error) {
			s.Equal(domain.TransferKindCity, q.Kind)
			s.Require().NotNil(q.Destination)
			s.Equal("Osh", *q.Destination)
			return &service.Quote{
				Result: commission.Result{
					Total:     decimal.NewFromInt(5),
					System:    decimal.RequireFromString("2.5"),
					Recipient: decimal.RequireFromString("2.5"),
					Source:    domain.CommissionSourceTier,
					TierID:    &tierID,
				},
				Amount:     q.Amount,
				TotalDebit: q.Amount.Add(decimal.NewFromInt(5)),
			}, nil
		}).Times(1)

	status, body := s.do(requestCase{
		method: http.MethodGet,
		url:    RouteGroup + QuoteRoute + "?kind=city&currency=KGS&amount=500&destination=Osh",
		token:  s.userToken,
	})
	s.Require().Equal(http.StatusOK, status)
	var resp QuoteResponse
	s.decode(body, &resp)
	s.True(resp.TotalDebit.Equal(decimal.NewFromInt(505)))
	s.Equal(domain.CommissionSourceTier, resp.Source)
	s.Require().NotNil(resp.TierID)
	s.Equal(tierID, *resp.TierID)

	status, _ = s.do(requestCase{
		method: http.MethodGet,
		url:    RouteGroup + QuoteRoute + "?kind=barter&currency=KGS&amount=500",
		token:  s.userToken,
	})
	s.Equal(http.StatusUnprocessableEntity, status)
}

func (s *HandlersTestSuite) TestCreateTier() {
	s.mockCommissionService.EXPECT().
		CreateTier(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateTier) (*domain.CommissionTier, error) {
			if args.Commission.Valid && args.PerMille.Valid {
				return nil, fmt.Errorf("%w: both commission and per_mille are set", domain.ErrInvalidTier)
			}
			s.True(args.MinAmount.Equal(decimal.NewFromInt(1000)))
			s.False(args.MaxAmount.Valid)
			return &domain.CommissionTier{
				ID:        7,
				Kind:      args.Kind,
				Currency:  args.Currency,
				MinAmount: args.MinAmount,
				MaxAmount: args.MaxAmount,
				PerMille:  args.PerMille,
			}, nil
		}).Times(2)

	cases := []struct {
		name       string
		body       gin.H
		token      string
		wantStatus int
	}{
		{
			name:       "all ok",
			body:       gin.H{"kind": "internal", "currency": "KGS", "min_amount": "1000", "per_mille": "10"},
			token:      s.adminToken,
			wantStatus: http.StatusCreated,
		}, {
			name: "both rates",
			body: gin.H{
				"kind": "internal", "currency": "KGS", "min_amount": "1000",
				"per_mille": "10", "commission": "5",
			},
			token:      s.adminToken,
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "negative min",
			body:       gin.H{"kind": "internal", "currency": "KGS", "min_amount": "-1", "commission": "5"},
			token:      s.adminToken,
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "not admin",
			body:       gin.H{"kind": "internal", "currency": "KGS", "min_amount": "1000", "per_mille": "10"},
			token:      s.userToken,
			wantStatus: http.StatusForbidden,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			status, _ := s.do(requestCase{
				method: http.MethodPost,
				url:    RouteGroup + AdminGroup + TiersRoute,
				body:   testutils.JSONBody(t.body),
				token:  t.token,
			})
			s.Equal(t.wantStatus, status)
		})
	}
}

func (s *HandlersTestSuite) TestListAndDeleteTiers() {
	s.mockCommissionService.EXPECT().
		ListTiers(gomock.Any()).
		Return([]domain.CommissionTier{{ID: 1, Kind: domain.TransferKindCity, Currency: "KGS"}}, nil).Times(1)
	s.mockCommissionService.EXPECT().DeleteTier(gomock.Any(), int64(1)).Return(nil).Times(1)
	s.mockCommissionService.EXPECT().DeleteTier(gomock.Any(), int64(2)).Return(domain.ErrRecordNotFound).Times(1)

	status, body := s.do(requestCase{
		method: http.MethodGet,
		url:    RouteGroup + AdminGroup + TiersRoute,
		token:  s.adminToken,
	})
	s.Require().Equal(http.StatusOK, status)
	var resp []TierResponse
	s.decode(body, &resp)
	s.Len(resp, 1)

	for id, want := range map[string]int{
		"1":   http.StatusNoContent,
		"2":   http.StatusNotFound,
		"abc": http.StatusNotFound,
	} {
		status, _ = s.do(requestCase{
			method: http.MethodDelete,
			url:    RouteGroup + AdminGroup + "/tiers/" + id,
			token:  s.adminToken,
		})
		s.Equal(want, status, id)
	}
}
