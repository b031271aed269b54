package memrepo

import (
	"context"
	"sync"
	"time"

	"github.com/fsdevblog/remit-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/remit-ledger/pkg/uow"
)

type repoBuilder func(h *holder, g guard) uow.Repository

// holder указатель на актуальный store. Откат транзакции подменяет store копией, снятой в начале.
type holder struct {
	s *store
}

// UnitOfWork реализация uow.UOW поверх памяти. Транзакции выполняются строго последовательно.
type UnitOfWork struct {
	mu         sync.Mutex
	data       *holder
	builders   map[uow.RepositoryName]repoBuilder
	decorators map[uow.RepositoryName]func(uow.Repository) uow.Repository
}

func New() *UnitOfWork {
	u := &UnitOfWork{
		data:       &holder{s: newStore()},
		decorators: make(map[uow.RepositoryName]func(uow.Repository) uow.Repository),
	}
	u.builders = map[uow.RepositoryName]repoBuilder{
		uow.RepositoryName(repoargs.UserRepoName): func(h *holder, g guard) uow.Repository {
			return &UserRepository{h: h, g: g}
		},
		uow.RepositoryName(repoargs.BalanceRepoName): func(h *holder, g guard) uow.Repository {
			return &BalanceRepository{h: h, g: g}
		},
		uow.RepositoryName(repoargs.TransferRepoName): func(h *holder, g guard) uow.Repository {
			return &TransferRepository{h: h, g: g}
		},
		uow.RepositoryName(repoargs.TierRepoName): func(h *holder, g guard) uow.Repository {
			return &TierRepository{h: h, g: g}
		},
		uow.RepositoryName(repoargs.LedgerEntryRepoName): func(h *holder, g guard) uow.Repository {
			return &LedgerEntryRepository{h: h, g: g}
		},
		uow.RepositoryName(repoargs.PoolRepoName): func(h *holder, g guard) uow.Repository {
			return &PoolRepository{h: h, g: g}
		},
	}
	return u
}

// SetClock подменяет источник времени для created_at записей.
func (u *UnitOfWork) SetClock(clock func() time.Time) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.data.s.clock = clock
}

// Register добавляет репозиторий, построенный фабрикой без соединения с базой.
func (u *UnitOfWork) Register(name uow.RepositoryName, factory uow.RepositoryFactory) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.builders[name]; ok {
		return uow.ErrRepositoryAlreadyRegistered
	}
	u.builders[name] = func(_ *holder, _ guard) uow.Repository {
		return factory(nil)
	}
	return nil
}

// Decorate оборачивает репозиторий name внутри транзакций. Применяется в тестах для внедрения сбоев.
func (u *UnitOfWork) Decorate(name uow.RepositoryName, fn func(uow.Repository) uow.Repository) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.decorators[name] = fn
}

// Do выполняет fn под глобальной блокировкой. При ошибке все изменения fn отменяются.
func (u *UnitOfWork) Do(ctx context.Context, fn func(context.Context, uow.TX) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	snapshot := u.data.s.clone()
	tx := &transaction{
		u:     u,
		built: make(map[uow.RepositoryName]uow.Repository),
	}
	if err := fn(ctx, tx); err != nil {
		u.data.s = snapshot
		return err
	}
	return nil
}

func (u *UnitOfWork) GetRepository(name uow.RepositoryName) (uow.Repository, error) {
	builder, ok := u.builders[name]
	if !ok {
		return nil, uow.ErrRepositoryNotRegistered
	}
	return builder(u.data, guard{mu: &u.mu}), nil
}

type transaction struct {
	u     *UnitOfWork
	built map[uow.RepositoryName]uow.Repository
}

func (t *transaction) Get(name uow.RepositoryName) (uow.Repository, error) {
	if repo, ok := t.built[name]; ok {
		return repo, nil
	}
	builder, ok := t.u.builders[name]
	if !ok {
		return nil, uow.ErrRepositoryNotRegistered
	}
	repo := builder(t.u.data, guard{})
	if decorate, decorated := t.u.decorators[name]; decorated {
		repo = decorate(repo)
	}
	t.built[name] = repo
	return repo, nil
}
