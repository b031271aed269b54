package memrepo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/repository/repoargs"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func notFound(format string, args ...any) error {
	return fmt.Errorf("[memrepo/%s] %w", fmt.Sprintf(format, args...), domain.ErrRecordNotFound)
}

func duplicate(format string, args ...any) error {
	return fmt.Errorf("[memrepo/%s] %w", fmt.Sprintf(format, args...), domain.ErrDuplicateKey)
}

type UserRepository struct {
	h *holder
	g guard
}

func (r *UserRepository) CreateUser(_ context.Context, args repoargs.CreateUser) (*domain.User, error) {
	defer r.g.lock()()
	s := r.h.s
	for _, user := range s.users {
		if user.Username == args.Username {
			return nil, duplicate("creating user `%s`", args.Username)
		}
	}
	now := s.now()
	user := domain.User{
		ID:                s.nextID(),
		CreatedAt:         now,
		UpdatedAt:         now,
		Username:          args.Username,
		EncryptedPassword: args.Password,
		IsAdmin:           args.IsAdmin,
	}
	s.users[user.ID] = user
	return &user, nil
}

func (r *UserRepository) FindUserByUsername(_ context.Context, username string) (*domain.User, error) {
	defer r.g.lock()()
	for _, user := range r.h.s.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, notFound("finding user by username `%s`", username)
}

func (r *UserRepository) FindUserByID(_ context.Context, id int64) (*domain.User, error) {
	defer r.g.lock()()
	user, ok := r.h.s.users[id]
	if !ok {
		return nil, notFound("finding user by id %d", id)
	}
	return &user, nil
}

type BalanceRepository struct {
	h *holder
	g guard
}

func (r *BalanceRepository) Credit(
	_ context.Context,
	userID int64,
	currency string,
	amount decimal.Decimal,
) (decimal.Decimal, error) {
	defer r.g.lock()()
	s := r.h.s
	key := balanceKey{ownerID: userID, currency: currency}
	now := s.now()
	balance, ok := s.balances[key]
	if !ok {
		balance = domain.Balance{UserID: userID, Currency: currency, CreatedAt: now}
	}
	balance.Amount = balance.Amount.Add(amount)
	balance.UpdatedAt = now
	s.balances[key] = balance
	return balance.Amount, nil
}

func (r *BalanceRepository) Debit(
	_ context.Context,
	userID int64,
	currency string,
	amount decimal.Decimal,
) (decimal.Decimal, error) {
	defer r.g.lock()()
	s := r.h.s
	key := balanceKey{ownerID: userID, currency: currency}
	balance, ok := s.balances[key]
	if !ok || balance.Amount.LessThan(amount) {
		return decimal.Zero, domain.ErrInsufficientFunds
	}
	balance.Amount = balance.Amount.Sub(amount)
	balance.UpdatedAt = s.now()
	s.balances[key] = balance
	return balance.Amount, nil
}

func (r *BalanceRepository) GetByUserID(_ context.Context, userID int64) ([]domain.Balance, error) {
	defer r.g.lock()()
	var balances []domain.Balance
	for key, balance := range r.h.s.balances {
		if key.ownerID == userID {
			balances = append(balances, balance)
		}
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i].Currency < balances[j].Currency })
	return balances, nil
}

type TransferRepository struct {
	h *holder
	g guard
}

func (r *TransferRepository) Create(_ context.Context, args repoargs.CreateTransfer) (*domain.Transfer, error) {
	defer r.g.lock()()
	s := r.h.s
	for _, tr := range s.transfers {
		if tr.Reference == args.Reference {
			return nil, duplicate("creating transfer `%s`", args.Reference)
		}
		if args.ClaimCode != nil && tr.ClaimCode != nil && *tr.ClaimCode == *args.ClaimCode {
			return nil, duplicate("creating transfer with existing claim code")
		}
	}
	now := s.now()
	tr := domain.Transfer{
		ID:                  s.nextID(),
		Reference:           args.Reference,
		Kind:                args.Kind,
		SenderID:            args.SenderID,
		ReceiverID:          args.ReceiverID,
		Currency:            args.Currency,
		Amount:              args.Amount,
		SystemCommission:    args.SystemCommission,
		RecipientCommission: args.RecipientCommission,
		TotalDebit:          args.TotalDebit,
		Origin:              args.Origin,
		Destination:         args.Destination,
		ClaimCode:           args.ClaimCode,
		Status:              args.Status,
		CommissionSource:    args.CommissionSource,
		TierID:              args.TierID,
		ExpiresAt:           args.ExpiresAt,
		CreatedAt:           now,
		UpdatedAt:           now,
		CompletedAt:         args.CompletedAt,
	}
	s.transfers[tr.ID] = tr
	return &tr, nil
}

func (r *TransferRepository) FindByReference(_ context.Context, reference uuid.UUID) (*domain.Transfer, error) {
	defer r.g.lock()()
	return r.findBy(func(tr domain.Transfer) bool { return tr.Reference == reference }, "finding transfer `%s`", reference)
}

func (r *TransferRepository) FindByReferenceForUpdate(ctx context.Context, reference uuid.UUID) (*domain.Transfer, error) {
	return r.FindByReference(ctx, reference)
}

func (r *TransferRepository) FindByClaimCodeForUpdate(_ context.Context, code string) (*domain.Transfer, error) {
	defer r.g.lock()()
	return r.findBy(func(tr domain.Transfer) bool {
		return tr.ClaimCode != nil && *tr.ClaimCode == code
	}, "locking transfer by claim code")
}

func (r *TransferRepository) findBy(match func(domain.Transfer) bool, format string, args ...any) (*domain.Transfer, error) {
	for _, tr := range r.h.s.transfers {
		if match(tr) {
			return &tr, nil
		}
	}
	return nil, notFound(format, args...)
}

func (r *TransferRepository) UpdateStatus(
	_ context.Context,
	args repoargs.UpdateTransferStatus,
) (*domain.Transfer, error) {
	defer r.g.lock()()
	s := r.h.s
	tr, ok := s.transfers[args.ID]
	if !ok {
		return nil, notFound("updating transfer %d status to %s", args.ID, args.Status)
	}
	tr.Status = args.Status
	if args.ClaimedBy != nil {
		tr.ClaimedBy = args.ClaimedBy
	}
	if args.FailureReason != nil {
		tr.FailureReason = args.FailureReason
	}
	if args.CompletedAt != nil {
		tr.CompletedAt = args.CompletedAt
	}
	if args.CancelledAt != nil {
		tr.CancelledAt = args.CancelledAt
	}
	tr.UpdatedAt = s.now()
	s.transfers[tr.ID] = tr
	return &tr, nil
}

func (r *TransferRepository) GetByUserID(_ context.Context, userID int64, limit uint) ([]domain.Transfer, error) {
	defer r.g.lock()()
	involved := func(id *int64) bool { return id != nil && *id == userID }
	var res []domain.Transfer
	for _, tr := range r.h.s.transfers {
		if tr.SenderID == userID || involved(tr.ReceiverID) || involved(tr.ClaimedBy) {
			res = append(res, tr)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID > res[j].ID })
	return truncate(res, limit), nil
}

func (r *TransferRepository) GetExpiredPending(_ context.Context, now time.Time, limit uint) ([]domain.Transfer, error) {
	defer r.g.lock()()
	var res []domain.Transfer
	for _, tr := range r.h.s.transfers {
		if tr.Status == domain.TransferStatusPending && tr.ExpiresAt != nil && !tr.ExpiresAt.After(now) {
			res = append(res, tr)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ExpiresAt.Before(*res[j].ExpiresAt) })
	return truncate(res, limit), nil
}

// truncate нулевой limit оставляет все элементы, как LIMIT NULL в pgrepo.
func truncate[T any](items []T, limit uint) []T {
	if limit > 0 && uint(len(items)) > limit {
		return items[:limit]
	}
	return items
}

type TierRepository struct {
	h *holder
	g guard
}

func (r *TierRepository) FindCandidates(
	_ context.Context,
	kind domain.TransferKind,
	currency string,
	amount decimal.Decimal,
) ([]domain.CommissionTier, error) {
	defer r.g.lock()()
	var res []domain.CommissionTier
	for _, tier := range r.h.s.tiers {
		if tier.Kind != kind || tier.Currency != currency || amount.LessThan(tier.MinAmount) {
			continue
		}
		if tier.MaxAmount.Valid && amount.GreaterThan(tier.MaxAmount.Decimal) {
			continue
		}
		res = append(res, tier)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (r *TierRepository) Create(_ context.Context, args repoargs.CreateTier) (*domain.CommissionTier, error) {
	defer r.g.lock()()
	s := r.h.s
	tier := domain.CommissionTier{
		ID:          s.nextID(),
		Kind:        args.Kind,
		Origin:      args.Origin,
		Destination: args.Destination,
		Currency:    args.Currency,
		MinAmount:   args.MinAmount,
		MaxAmount:   args.MaxAmount,
		Commission:  args.Commission,
		PerMille:    args.PerMille,
		CreatedAt:   s.now(),
	}
	s.tiers[tier.ID] = tier
	return &tier, nil
}

func (r *TierRepository) List(_ context.Context) ([]domain.CommissionTier, error) {
	defer r.g.lock()()
	res := make([]domain.CommissionTier, 0, len(r.h.s.tiers))
	for _, tier := range r.h.s.tiers {
		res = append(res, tier)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (r *TierRepository) Delete(_ context.Context, id int64) error {
	defer r.g.lock()()
	if _, ok := r.h.s.tiers[id]; !ok {
		return notFound("deleting tier %d", id)
	}
	delete(r.h.s.tiers, id)
	return nil
}

type LedgerEntryRepository struct {
	h *holder
	g guard
}

func (r *LedgerEntryRepository) Create(
	_ context.Context,
	args repoargs.CreateLedgerEntry,
) (*domain.LedgerEntry, error) {
	defer r.g.lock()()
	s := r.h.s
	entry := domain.LedgerEntry{
		ID:             s.nextID(),
		UserID:         args.UserID,
		TransferID:     args.TransferID,
		Reference:      args.Reference,
		EntryType:      args.EntryType,
		Direction:      args.Direction,
		Currency:       args.Currency,
		Amount:         args.Amount,
		Commission:     args.Commission,
		CounterpartyID: args.CounterpartyID,
		RunningBalance: args.RunningBalance,
		Status:         args.Status,
		CreatedAt:      s.now(),
	}
	s.entries = append(s.entries, entry)
	return &entry, nil
}

func (r *LedgerEntryRepository) SumBefore(
	_ context.Context,
	userID int64,
	currency string,
	before time.Time,
) (decimal.Decimal, error) {
	defer r.g.lock()()
	sum := decimal.Zero
	for _, entry := range r.h.s.entries {
		if entry.UserID == userID && entry.Currency == currency && entry.CreatedAt.Before(before) {
			sum = sum.Add(entry.Signed())
		}
	}
	return sum, nil
}

func (r *LedgerEntryRepository) GetByPeriod(
	_ context.Context,
	userID int64,
	currency string,
	from, to time.Time,
) ([]domain.LedgerEntry, error) {
	defer r.g.lock()()
	var res []domain.LedgerEntry
	for _, entry := range r.h.s.entries {
		if entry.UserID != userID || entry.Currency != currency {
			continue
		}
		if entry.CreatedAt.Before(from) || !entry.CreatedAt.Before(to) {
			continue
		}
		res = append(res, entry)
	}
	return res, nil
}

// All возвращает копию всего журнала. Нужна для проверок сохранения сумм в тестах.
func (r *LedgerEntryRepository) All() []domain.LedgerEntry {
	defer r.g.lock()()
	return append([]domain.LedgerEntry(nil), r.h.s.entries...)
}

type PoolRepository struct {
	h *holder
	g guard
}

func (r *PoolRepository) Credit(
	_ context.Context,
	ownerID int64,
	currency string,
	amount decimal.Decimal,
) (decimal.Decimal, error) {
	defer r.g.lock()()
	s := r.h.s
	key := balanceKey{ownerID: ownerID, currency: currency}
	pool, ok := s.pools[key]
	if !ok {
		pool = domain.CommissionPool{OwnerID: ownerID, Currency: currency}
	}
	pool.Amount = pool.Amount.Add(amount)
	pool.UpdatedAt = s.now()
	s.pools[key] = pool
	return pool.Amount, nil
}

func (r *PoolRepository) Debit(
	_ context.Context,
	ownerID int64,
	currency string,
	amount decimal.Decimal,
) (decimal.Decimal, error) {
	defer r.g.lock()()
	s := r.h.s
	key := balanceKey{ownerID: ownerID, currency: currency}
	pool, ok := s.pools[key]
	if !ok || pool.Amount.LessThan(amount) {
		return decimal.Zero, domain.ErrInsufficientFunds
	}
	pool.Amount = pool.Amount.Sub(amount)
	pool.UpdatedAt = s.now()
	s.pools[key] = pool
	return pool.Amount, nil
}

func (r *PoolRepository) CreateEntry(
	_ context.Context,
	args repoargs.CreatePoolEntry,
) (*domain.CommissionPoolEntry, error) {
	defer r.g.lock()()
	s := r.h.s
	entry := domain.CommissionPoolEntry{
		ID:         s.nextID(),
		OwnerID:    args.OwnerID,
		Currency:   args.Currency,
		Direction:  args.Direction,
		Amount:     args.Amount,
		TransferID: args.TransferID,
		Reference:  args.Reference,
		CreatedAt:  s.now(),
	}
	s.poolEntries = append(s.poolEntries, entry)
	return &entry, nil
}

func (r *PoolRepository) List(_ context.Context, ownerID *int64) ([]domain.CommissionPool, error) {
	defer r.g.lock()()
	var res []domain.CommissionPool
	for key, pool := range r.h.s.pools {
		if ownerID == nil || key.ownerID == *ownerID {
			res = append(res, pool)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].OwnerID != res[j].OwnerID {
			return res[i].OwnerID < res[j].OwnerID
		}
		return res[i].Currency < res[j].Currency
	})
	return res, nil
}
