package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/remit-ledger/pkg/uow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PoolService пулы комиссий: системный (владелец domain.SystemPoolOwnerID) и пулы офисов.
type PoolService struct {
	uow      uow.UOW
	poolRepo PoolRepository
	l        *logrus.Entry
}

func NewPoolService(u uow.UOW, l *logrus.Logger) (*PoolService, error) {
	poolRepo, err := uow.GetRepositoryAs[PoolRepository](u, uow.RepositoryName(repoargs.PoolRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if l == nil {
		l = logrus.New()
	}
	return &PoolService{
		uow:      u,
		poolRepo: poolRepo,
		l:        l.WithField("component", "pool_service"),
	}, nil
}

// List возвращает пулы владельца ownerID или все пулы, если ownerID == nil.
func (s *PoolService) List(ctx context.Context, ownerID *int64) ([]domain.CommissionPool, error) {
	pools, err := s.poolRepo.List(ctx, ownerID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return pools, nil
}

type PoolWithdrawArgs struct {
	OwnerID  int64
	Currency string
	Amount   decimal.Decimal
}

// Withdraw выводит накопленную комиссию из пула.
func (s *PoolService) Withdraw(ctx context.Context, args PoolWithdrawArgs) (*domain.CommissionPool, error) {
	if !domain.ValidAmount(args.Amount) {
		return nil, fmt.Errorf("withdrawing from pool: %w", domain.ErrInvalidAmount)
	}

	reference := uuid.New()
	err := retryTx(ctx, 0, isConflict, func(_ int) error {
		return s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
			return postPool(c, tx, poolPosting{
				OwnerID:   args.OwnerID,
				Currency:  args.Currency,
				Amount:    args.Amount,
				Direction: domain.DirectionDebit,
				Reference: reference,
			})
		})
	})
	if err != nil {
		return nil, fmt.Errorf("withdrawing from pool %d: %w", args.OwnerID, err)
	}

	pools, err := s.poolRepo.List(ctx, &args.OwnerID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	for i := range pools {
		if pools[i].Currency == args.Currency {
			s.l.WithFields(logrus.Fields{
				"ownerID":  args.OwnerID,
				"currency": args.Currency,
				"amount":   args.Amount.String(),
			}).Info("pool withdrawn")
			return &pools[i], nil
		}
	}
	return nil, fmt.Errorf("pool %d/%s: %w", args.OwnerID, args.Currency, domain.ErrRecordNotFound)
}
