package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/service"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
)

func (s *HandlersTestSuite) TestBalanceIndex() {
	s.mockLedgerService.EXPECT().
		GetBalances(gomock.Any(), currentUserID).
		Return([]domain.Balance{
			{UserID: currentUserID, Currency: "KGS", Amount: decimal.RequireFromString("6470")},
			{UserID: currentUserID, Currency: "USD", Amount: decimal.RequireFromString("12.5")},
		}, nil).Times(1)

	status, body := s.do(requestCase{
		method: http.MethodGet,
		url:    RouteGroup + BalanceRoute,
		token:  s.userToken,
	})
	s.Require().Equal(http.StatusOK, status)

	var resp []BalanceResponse
	s.decode(body, &resp)
	s.Require().Len(resp, 2)
	s.Equal("KGS", resp[0].Currency)
	s.True(resp[0].Amount.Equal(decimal.NewFromInt(6470)))

	status, _ = s.do(requestCase{method: http.MethodGet, url: RouteGroup + BalanceRoute})
	s.Equal(http.StatusUnauthorized, status)
}

func (s *HandlersTestSuite) TestStatement() {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	s.mockStatementService.EXPECT().
		Build(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args service.StatementArgs) (*service.Statement, error) {
			s.Equal(currentUserID, args.UserID)
			s.Equal("KGS", args.Currency)
			s.True(args.To.After(args.From))
			return &service.Statement{
				UserID:     args.UserID,
				Currency:   args.Currency,
				From:       args.From,
				To:         args.To,
				Opening:    decimal.NewFromInt(100),
				Closing:    decimal.RequireFromString("129.8"),
				Credits:    decimal.NewFromInt(50),
				Debits:     decimal.RequireFromString("20.2"),
				Consistent: true,
				Lines: []service.StatementLine{{
					LedgerEntry: domain.LedgerEntry{
						ID:             1,
						EntryType:      domain.EntryTypeDeposit,
						Direction:      domain.DirectionCredit,
						Currency:       "KGS",
						Amount:         decimal.NewFromInt(50),
						RunningBalance: decimal.NewFromInt(150),
						Status:         domain.TransferStatusCompleted,
					},
					Replayed:   decimal.NewFromInt(150),
					Consistent: true,
				}},
			}, nil
		}).Times(2)

	cases := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{
			name:       "explicit period",
			query:      "?currency=KGS&from=" + from.Format(time.RFC3339) + "&to=" + to.Format(time.RFC3339),
			wantStatus: http.StatusOK,
		}, {
			name:       "default period",
			query:      "?currency=KGS",
			wantStatus: http.StatusOK,
		}, {
			name:       "missing currency",
			query:      "",
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "reversed period",
			query:      "?currency=KGS&from=" + to.Format(time.RFC3339) + "&to=" + from.Format(time.RFC3339),
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "malformed time",
			query:      "?currency=KGS&from=yesterday",
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			status, body := s.do(requestCase{
				method: http.MethodGet,
				url:    RouteGroup + StatementRoute + t.query,
				token:  s.userToken,
			})
			s.Equal(t.wantStatus, status)
			if status == http.StatusOK {
				var resp StatementResponse
				s.decode(body, &resp)
				s.True(resp.Consistent)
				s.True(resp.Closing.Equal(decimal.RequireFromString("129.8")))
				s.Len(resp.Lines, 1)
			}
		})
	}
}
