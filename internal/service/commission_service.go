package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/fsdevblog/remit-ledger/internal/commission"
	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/remit-ledger/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type CommissionService struct {
	uow      uow.UOW
	tierRepo TierRepository
	resolver *commission.Resolver
	l        *logrus.Entry
}

func NewCommissionService(u uow.UOW, resolver *commission.Resolver, l *logrus.Logger) (*CommissionService, error) {
	tierRepo, err := uow.GetRepositoryAs[TierRepository](u, uow.RepositoryName(repoargs.TierRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if resolver == nil {
		resolver = commission.NewResolver(nil)
	}
	if l == nil {
		l = logrus.New()
	}
	return &CommissionService{
		uow:      u,
		tierRepo: tierRepo,
		resolver: resolver,
		l:        l.WithField("component", "commission_service"),
	}, nil
}

// Quote комиссия для предполагаемого перевода. Ничего не меняет.
type Quote struct {
	commission.Result
	Amount     decimal.Decimal
	TotalDebit decimal.Decimal
}

func (s *CommissionService) Quote(ctx context.Context, q commission.Query) (*Quote, error) {
	if !domain.ValidAmount(q.Amount) {
		return nil, fmt.Errorf("quoting commission: %w", domain.ErrInvalidAmount)
	}
	res, err := s.resolver.Resolve(ctx, s.tierRepo, q)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &Quote{
		Result:     *res,
		Amount:     q.Amount,
		TotalDebit: q.Amount.Add(res.Total),
	}, nil
}

// ValidateTier проверяет тариф до записи в хранилище. Все нарушения оборачивают domain.ErrInvalidTier.
func ValidateTier(args repoargs.CreateTier) error {
	switch {
	case !args.Kind.IsValid():
		return fmt.Errorf("unknown transfer kind `%s`: %w", args.Kind, domain.ErrInvalidTier)
	case strings.TrimSpace(args.Currency) == "":
		return fmt.Errorf("currency is required: %w", domain.ErrInvalidTier)
	case args.MinAmount.IsNegative():
		return fmt.Errorf("min amount is negative: %w", domain.ErrInvalidTier)
	case args.MaxAmount.Valid && args.MaxAmount.Decimal.LessThan(args.MinAmount):
		return fmt.Errorf("max amount is less than min amount: %w", domain.ErrInvalidTier)
	case args.Commission.Valid == args.PerMille.Valid:
		return fmt.Errorf("exactly one of commission or per mille must be set: %w", domain.ErrInvalidTier)
	case args.Commission.Valid && args.Commission.Decimal.IsNegative():
		return fmt.Errorf("commission is negative: %w", domain.ErrInvalidTier)
	case args.PerMille.Valid && args.PerMille.Decimal.IsNegative():
		return fmt.Errorf("per mille is negative: %w", domain.ErrInvalidTier)
	}
	return nil
}

// CreateTier создает тариф. Тариф, неотличимый при выборе от уже существующего (те же вид, валюта, города
// и границы суммы), отклоняется с domain.ErrInvalidTier.
func (s *CommissionService) CreateTier(ctx context.Context, args repoargs.CreateTier) (*domain.CommissionTier, error) {
	if err := ValidateTier(args); err != nil {
		return nil, fmt.Errorf("creating tier: %w", err)
	}
	var tier *domain.CommissionTier
	err := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		tiers, err := uow.GetAs[TierRepository](tx, uow.RepositoryName(repoargs.TierRepoName))
		if err != nil {
			return err //nolint:wrapcheck
		}
		existing, err := tiers.List(c)
		if err != nil {
			return err //nolint:wrapcheck
		}
		if err = checkOverlap(existing, args); err != nil {
			return err
		}
		tier, err = tiers.Create(c, args)
		return err //nolint:wrapcheck
	})
	if err != nil {
		return nil, fmt.Errorf("creating tier: %w", err)
	}
	s.l.WithFields(logrus.Fields{"tierID": tier.ID, "kind": tier.Kind}).Info("commission tier created")
	return tier, nil
}

// checkOverlap ошибка, если args совпадает по области действия с одним из existing.
func checkOverlap(existing []domain.CommissionTier, args repoargs.CreateTier) error {
	for _, tier := range existing {
		if sameScope(tierArgs(tier), args) {
			return fmt.Errorf("tier duplicates scope of tier %d: %w", tier.ID, domain.ErrInvalidTier)
		}
	}
	return nil
}

// sameScope тарифы подходят под одни и те же переводы с одинаковым приоритетом.
func sameScope(a, b repoargs.CreateTier) bool {
	return a.Kind == b.Kind &&
		a.Currency == b.Currency &&
		equalPtr(a.Origin, b.Origin) &&
		equalPtr(a.Destination, b.Destination) &&
		a.MinAmount.Equal(b.MinAmount) &&
		a.MaxAmount.Valid == b.MaxAmount.Valid &&
		(!a.MaxAmount.Valid || a.MaxAmount.Decimal.Equal(b.MaxAmount.Decimal))
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func tierArgs(t domain.CommissionTier) repoargs.CreateTier {
	return repoargs.CreateTier{
		Kind:        t.Kind,
		Origin:      t.Origin,
		Destination: t.Destination,
		Currency:    t.Currency,
		MinAmount:   t.MinAmount,
		MaxAmount:   t.MaxAmount,
		Commission:  t.Commission,
		PerMille:    t.PerMille,
	}
}

func (s *CommissionService) ListTiers(ctx context.Context) ([]domain.CommissionTier, error) {
	tiers, err := s.tierRepo.List(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return tiers, nil
}

func (s *CommissionService) DeleteTier(ctx context.Context, id int64) error {
	if err := s.tierRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting tier %d: %w", id, err)
	}
	s.l.WithField("tierID", id).Info("commission tier deleted")
	return nil
}

// SeedTiers заполняет таблицу тарифов из конфигурации, только если она пуста. Возвращает число созданных тарифов.
func (s *CommissionService) SeedTiers(ctx context.Context, seeds []repoargs.CreateTier) (int, error) {
	if len(seeds) == 0 {
		return 0, nil
	}
	for i, seed := range seeds {
		if err := ValidateTier(seed); err != nil {
			return 0, fmt.Errorf("seeding tiers: seed #%d: %w", i, err)
		}
		for j := range i {
			if sameScope(seeds[j], seed) {
				return 0, fmt.Errorf("seeding tiers: seed #%d duplicates seed #%d: %w", i, j, domain.ErrInvalidTier)
			}
		}
	}

	var created int
	err := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		tiers, err := uow.GetAs[TierRepository](tx, uow.RepositoryName(repoargs.TierRepoName))
		if err != nil {
			return err //nolint:wrapcheck
		}
		existing, err := tiers.List(c)
		if err != nil {
			return err //nolint:wrapcheck
		}
		if len(existing) > 0 {
			return nil
		}
		for _, seed := range seeds {
			if _, err = tiers.Create(c, seed); err != nil {
				return err //nolint:wrapcheck
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seeding tiers: %w", err)
	}
	if created > 0 {
		s.l.WithField("count", created).Info("commission tiers seeded")
	}
	return created, nil
}
