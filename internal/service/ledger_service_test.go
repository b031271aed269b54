package service

import (
	"testing"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	ledgerSuite
}

func TestLedgerServiceSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

func (s *LedgerServiceTestSuite) TestDepositWithdraw() {
	user := s.createUser()

	entry, err := s.services.LedgerService.Deposit(s.T().Context(), AdjustBalanceArgs{
		UserID:   user,
		Currency: "USD",
		Amount:   decimal.NewFromInt(100),
	})
	s.Require().NoError(err)
	s.Equal(domain.EntryTypeDeposit, entry.EntryType)
	s.Equal(domain.DirectionCredit, entry.Direction)
	s.assertDecimal("100", entry.RunningBalance)

	entry, err = s.services.LedgerService.Withdraw(s.T().Context(), AdjustBalanceArgs{
		UserID:   user,
		Currency: "USD",
		Amount:   decimal.NewFromInt(30),
	})
	s.Require().NoError(err)
	s.Equal(domain.EntryTypeWithdrawal, entry.EntryType)
	s.assertDecimal("70", entry.RunningBalance)

	s.deposit(user, "EUR", "5")
	balances, err := s.services.LedgerService.GetBalances(s.T().Context(), user)
	s.Require().NoError(err)
	s.Require().Len(balances, 2)
	s.Equal("EUR", balances[0].Currency)
	s.Equal("USD", balances[1].Currency)
}

func (s *LedgerServiceTestSuite) TestRejections() {
	user := s.createUser()
	s.deposit(user, "USD", "10")

	cases := []struct {
		name    string
		args    AdjustBalanceArgs
		deposit bool
		wantErr error
	}{
		{
			name:    "zero amount",
			args:    AdjustBalanceArgs{UserID: user, Currency: "USD", Amount: decimal.Zero},
			deposit: true,
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "unknown user",
			args:    AdjustBalanceArgs{UserID: 404, Currency: "USD", Amount: decimal.NewFromInt(1)},
			deposit: true,
			wantErr: domain.ErrRecordNotFound,
		},
		{
			name:    "overdraft",
			args:    AdjustBalanceArgs{UserID: user, Currency: "USD", Amount: decimal.NewFromInt(11)},
			wantErr: domain.ErrInsufficientFunds,
		},
		{
			name:    "no balance in currency",
			args:    AdjustBalanceArgs{UserID: user, Currency: "GBP", Amount: decimal.NewFromInt(1)},
			wantErr: domain.ErrInsufficientFunds,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			var err error
			if t.deposit {
				_, err = s.services.LedgerService.Deposit(s.T().Context(), t.args)
			} else {
				_, err = s.services.LedgerService.Withdraw(s.T().Context(), t.args)
			}
			s.Require().ErrorIs(err, t.wantErr)
		})
	}
	s.assertDecimal("10", s.balance(user, "USD"))
}
