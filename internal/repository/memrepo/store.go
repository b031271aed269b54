// Package memrepo хранилище в памяти с той же семантикой, что и pgrepo. Используется в тестах сервисов
// и в режиме запуска без базы данных.
package memrepo

import (
	"sync"
	"time"

	"github.com/fsdevblog/remit-ledger/internal/domain"
)

type balanceKey struct {
	ownerID  int64
	currency string
}

// store данные всех репозиториев. Копируется целиком при старте транзакции, откат восстанавливает копию.
type store struct {
	users       map[int64]domain.User
	balances    map[balanceKey]domain.Balance
	transfers   map[int64]domain.Transfer
	tiers       map[int64]domain.CommissionTier
	entries     []domain.LedgerEntry
	pools       map[balanceKey]domain.CommissionPool
	poolEntries []domain.CommissionPoolEntry

	lastID   int64
	lastTime time.Time
	clock    func() time.Time
}

func newStore() *store {
	return &store{
		users:     make(map[int64]domain.User),
		balances:  make(map[balanceKey]domain.Balance),
		transfers: make(map[int64]domain.Transfer),
		tiers:     make(map[int64]domain.CommissionTier),
		pools:     make(map[balanceKey]domain.CommissionPool),
		clock:     time.Now,
	}
}

func (s *store) clone() *store {
	c := &store{
		users:       make(map[int64]domain.User, len(s.users)),
		balances:    make(map[balanceKey]domain.Balance, len(s.balances)),
		transfers:   make(map[int64]domain.Transfer, len(s.transfers)),
		tiers:       make(map[int64]domain.CommissionTier, len(s.tiers)),
		entries:     append([]domain.LedgerEntry(nil), s.entries...),
		pools:       make(map[balanceKey]domain.CommissionPool, len(s.pools)),
		poolEntries: append([]domain.CommissionPoolEntry(nil), s.poolEntries...),
		lastID:      s.lastID,
		lastTime:    s.lastTime,
		clock:       s.clock,
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.balances {
		c.balances[k] = v
	}
	for k, v := range s.transfers {
		c.transfers[k] = v
	}
	for k, v := range s.tiers {
		c.tiers[k] = v
	}
	for k, v := range s.pools {
		c.pools[k] = v
	}
	return c
}

func (s *store) nextID() int64 {
	s.lastID++
	return s.lastID
}

// now строго возрастающее время, чтобы порядок записей журнала совпадал с порядком вставки.
func (s *store) now() time.Time {
	t := s.clock()
	if !t.After(s.lastTime) {
		t = s.lastTime.Add(time.Microsecond)
	}
	s.lastTime = t
	return t
}

// guard сериализует доступ к store вне транзакции. Внутри транзакции блокировка уже захвачена в Do.
type guard struct {
	mu *sync.Mutex
}

func (g guard) lock() func() {
	if g.mu == nil {
		return func() {}
	}
	g.mu.Lock()
	return g.mu.Unlock
}
