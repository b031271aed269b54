package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/remit-ledger/pkg/uow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type LedgerService struct {
	uow         uow.UOW
	balanceRepo BalanceRepository
	l           *logrus.Entry
	maxAttempts int
}

func NewLedgerService(u uow.UOW, l *logrus.Logger) (*LedgerService, error) {
	balanceRepo, err := uow.GetRepositoryAs[BalanceRepository](u, uow.RepositoryName(repoargs.BalanceRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if l == nil {
		l = logrus.New()
	}
	return &LedgerService{
		uow:         u,
		balanceRepo: balanceRepo,
		l:           l.WithField("component", "ledger_service"),
	}, nil
}

type AdjustBalanceArgs struct {
	UserID   int64
	Currency string
	Amount   decimal.Decimal
}

// Deposit пополняет баланс пользователя. Каждое пополнение получает собственный reference.
func (s *LedgerService) Deposit(ctx context.Context, args AdjustBalanceArgs) (*domain.LedgerEntry, error) {
	entry, err := s.adjust(ctx, args, domain.DirectionCredit, domain.EntryTypeDeposit)
	if err != nil {
		return nil, fmt.Errorf("depositing: %w", err)
	}
	return entry, nil
}

// Withdraw списывает средства с баланса пользователя. При нехватке средств возвращает domain.ErrInsufficientFunds.
func (s *LedgerService) Withdraw(ctx context.Context, args AdjustBalanceArgs) (*domain.LedgerEntry, error) {
	entry, err := s.adjust(ctx, args, domain.DirectionDebit, domain.EntryTypeWithdrawal)
	if err != nil {
		return nil, fmt.Errorf("withdrawing: %w", err)
	}
	return entry, nil
}

func (s *LedgerService) adjust(
	ctx context.Context,
	args AdjustBalanceArgs,
	direction domain.DirectionType,
	entryType domain.EntryType,
) (*domain.LedgerEntry, error) {
	if !domain.ValidAmount(args.Amount) {
		return nil, domain.ErrInvalidAmount
	}
	if strings.TrimSpace(args.Currency) == "" {
		return nil, errors.New("currency is required")
	}

	reference := uuid.New()
	var entry *domain.LedgerEntry
	err := retryTx(ctx, s.maxAttempts, isConflict, func(_ int) error {
		return s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
			users, err := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
			if err != nil {
				return err //nolint:wrapcheck
			}
			if _, err = users.FindUserByID(c, args.UserID); err != nil {
				return err //nolint:wrapcheck
			}
			entry, err = postUser(c, tx, userPosting{
				UserID:    args.UserID,
				Currency:  args.Currency,
				Amount:    args.Amount,
				Direction: direction,
				EntryType: entryType,
				Reference: reference,
				Status:    domain.TransferStatusCompleted,
			})
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	s.l.WithFields(logrus.Fields{
		"userID":    args.UserID,
		"currency":  args.Currency,
		"entryType": entryType,
		"amount":    args.Amount.String(),
	}).Info("balance adjusted")
	return entry, nil
}

// GetBalances возвращает остатки пользователя во всех валютах.
func (s *LedgerService) GetBalances(ctx context.Context, userID int64) ([]domain.Balance, error) {
	balances, err := s.balanceRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return balances, nil
}
