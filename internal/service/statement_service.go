package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/remit-ledger/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type StatementService struct {
	entryRepo LedgerEntryRepository
	l         *logrus.Entry
}

func NewStatementService(u uow.UOW, l *logrus.Logger) (*StatementService, error) {
	entryRepo, err := uow.GetRepositoryAs[LedgerEntryRepository](u, uow.RepositoryName(repoargs.LedgerEntryRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if l == nil {
		l = logrus.New()
	}
	return &StatementService{
		entryRepo: entryRepo,
		l:         l.WithField("component", "statement_service"),
	}, nil
}

type StatementArgs struct {
	UserID   int64
	Currency string
	From     time.Time
	To       time.Time
}

type StatementLine struct {
	domain.LedgerEntry
	// Replayed остаток, полученный последовательным применением записей к начальному остатку.
	Replayed   decimal.Decimal
	Consistent bool
}

type Statement struct {
	UserID   int64
	Currency string
	From     time.Time
	To       time.Time
	Opening  decimal.Decimal
	Closing  decimal.Decimal
	Credits  decimal.Decimal
	Debits   decimal.Decimal
	Lines    []StatementLine
	// Consistent false, если сохраненный RunningBalance хотя бы одной записи разошелся с пересчитанным.
	Consistent bool
}

// Build строит выписку за период [From, To). Начальный остаток считается суммой всех записей до From,
// остатки по строкам пересчитываются заново и сверяются с сохраненными в записях.
func (s *StatementService) Build(ctx context.Context, args StatementArgs) (*Statement, error) {
	if !args.To.After(args.From) {
		return nil, errors.New("building statement: period end must be after start")
	}
	opening, err := s.entryRepo.SumBefore(ctx, args.UserID, args.Currency, args.From)
	if err != nil {
		return nil, fmt.Errorf("building statement: %w", err)
	}
	entries, err := s.entryRepo.GetByPeriod(ctx, args.UserID, args.Currency, args.From, args.To)
	if err != nil {
		return nil, fmt.Errorf("building statement: %w", err)
	}

	st := Statement{
		UserID:     args.UserID,
		Currency:   args.Currency,
		From:       args.From,
		To:         args.To,
		Opening:    opening,
		Lines:      make([]StatementLine, 0, len(entries)),
		Consistent: true,
	}
	running := opening
	for _, entry := range entries {
		running = running.Add(entry.Signed())
		if entry.Direction == domain.DirectionDebit {
			st.Debits = st.Debits.Add(entry.Amount)
		} else {
			st.Credits = st.Credits.Add(entry.Amount)
		}
		line := StatementLine{
			LedgerEntry: entry,
			Replayed:    running,
			Consistent:  entry.RunningBalance.Equal(running),
		}
		if !line.Consistent {
			st.Consistent = false
			s.l.WithFields(logrus.Fields{
				"entryID":  entry.ID,
				"userID":   entry.UserID,
				"stored":   entry.RunningBalance.String(),
				"replayed": running.String(),
			}).Warn("running balance diverges from replay")
		}
		st.Lines = append(st.Lines, line)
	}
	st.Closing = running
	return &st, nil
}
