package service

import (
	"testing"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PoolServiceTestSuite struct {
	ledgerSuite
}

func TestPoolServiceSuite(t *testing.T) {
	suite.Run(t, new(PoolServiceTestSuite))
}

func (s *PoolServiceTestSuite) TestWithdraw() {
	sender, receiver := s.createUser(), s.createUser()
	s.deposit(sender, "USD", "1000")
	_, err := s.services.TransferService.Send(s.T().Context(), SendTransferArgs{
		SenderID:   sender,
		Kind:       domain.TransferKindInternal,
		ReceiverID: &receiver,
		Currency:   "USD",
		Amount:     decimal.NewFromInt(500),
	})
	s.Require().NoError(err)
	s.assertDecimal("5", s.pool(domain.SystemPoolOwnerID, "USD"))

	pool, err := s.services.PoolService.Withdraw(s.T().Context(), PoolWithdrawArgs{
		OwnerID:  domain.SystemPoolOwnerID,
		Currency: "USD",
		Amount:   decimal.NewFromInt(3),
	})
	s.Require().NoError(err)
	s.assertDecimal("2", pool.Amount)

	_, err = s.services.PoolService.Withdraw(s.T().Context(), PoolWithdrawArgs{
		OwnerID:  domain.SystemPoolOwnerID,
		Currency: "USD",
		Amount:   decimal.NewFromInt(3),
	})
	s.Require().ErrorIs(err, domain.ErrInsufficientFunds)

	_, err = s.services.PoolService.Withdraw(s.T().Context(), PoolWithdrawArgs{
		OwnerID:  domain.SystemPoolOwnerID,
		Currency: "USD",
		Amount:   decimal.Zero,
	})
	s.Require().ErrorIs(err, domain.ErrInvalidAmount)

	pools, err := s.services.PoolService.List(s.T().Context(), nil)
	s.Require().NoError(err)
	s.Require().Len(pools, 1)
	s.assertDecimal("2", pools[0].Amount)
}
