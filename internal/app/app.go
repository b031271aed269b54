package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsdevblog/remit-ledger/internal/config"
	"github.com/fsdevblog/remit-ledger/internal/metrics"
	"github.com/fsdevblog/remit-ledger/internal/repository/memrepo"
	"github.com/fsdevblog/remit-ledger/internal/repository/pgrepo"
	"github.com/fsdevblog/remit-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/remit-ledger/internal/service"
	"github.com/fsdevblog/remit-ledger/internal/service/psswd"
	"github.com/fsdevblog/remit-ledger/internal/transport/api"
	"github.com/fsdevblog/remit-ledger/internal/transport/api/middlewares"
	"github.com/fsdevblog/remit-ledger/internal/transport/expiry"
	"github.com/fsdevblog/remit-ledger/pkg/uow"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	// driver for migration applying postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// driver to get migrations from files (*.sql in our case).
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive
)

const (
	bootstrapTimeout       = 10 * time.Second
	shutdownTimeout        = 10 * time.Second
	rateLimiterIdle        = 10 * time.Minute
	rateLimiterCleanupSpec = "@every 5m"
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.Infof("Starting app with config: %s", a.Config)

	policy, policyErr := config.LoadPolicy(a.Config.PolicyFile)
	if policyErr != nil {
		return fmt.Errorf("app run: %w", policyErr)
	}

	unitOfWork, closeStorage, uowErr := a.initStorage(notifyCtx)
	if uowErr != nil {
		return fmt.Errorf("app run: %w", uowErr)
	}
	defer closeStorage()

	appMetrics := metrics.New()

	services, sErr := service.Factory(unitOfWork, service.FactoryArgs{
		JWTSecret:  []byte(a.Config.JWTSecret),
		Hasher:     psswd.New(a.Config.BcryptCost),
		Policy:     policy.Rules,
		Observer:   appMetrics,
		PendingTTL: a.Config.PendingTTL,
		Logger:     a.Logger,
	})
	if sErr != nil {
		return fmt.Errorf("app run: %w", sErr)
	}

	if bootErr := a.bootstrap(notifyCtx, services, policy); bootErr != nil {
		return fmt.Errorf("app run: %w", bootErr)
	}

	rateLimiter := middlewares.NewRateLimiter(a.Config.RateLimit, a.Config.RateBurst)

	router, routerErr := api.New(api.RouterArgs{
		Logger:            a.Logger,
		Metrics:           appMetrics,
		RateLimiter:       rateLimiter,
		UserService:       services.UserService,
		TransferService:   services.TransferService,
		LedgerService:     services.LedgerService,
		StatementService:  services.StatementService,
		CommissionService: services.CommissionService,
		PoolService:       services.PoolService,
		JWTSecretKey:      []byte(a.Config.JWTSecret),
	})
	if routerErr != nil {
		return fmt.Errorf("app run: %w", routerErr)
	}

	processor := expiry.New(services.TransferService, a.Logger).
		SetLimitPerIteration(a.Config.ExpiryBatch).
		SetWorkers(a.Config.ExpiryWorkers).
		SetObserver(appMetrics)

	scheduler := expiry.NewScheduler(a.Logger)
	if err := scheduler.Add("expiry", a.Config.ExpirySchedule, processor.Job(notifyCtx)); err != nil {
		return fmt.Errorf("app run: %w", err)
	}
	if err := scheduler.Add("rate_limiter_cleanup", rateLimiterCleanupSpec, func() {
		if removed := rateLimiter.Cleanup(rateLimiterIdle); removed > 0 {
			a.Logger.WithField("removed", removed).Debug("rate limiters cleaned up")
		}
	}); err != nil {
		return fmt.Errorf("app run: %w", err)
	}

	schedulerDone := make(chan struct{})
	go func() {
		scheduler.Run(notifyCtx)
		close(schedulerDone)
	}()

	srv := &http.Server{
		Addr:              a.Config.RunAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second, //nolint:mnd
	}

	errChan := make(chan error, 1)
	go func() {
		if runErr := srv.ListenAndServe(); runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
			errChan <- runErr
		}
	}()

	var runErr error
	select {
	case <-notifyCtx.Done():
		runErr = notifyCtx.Err()
	case err := <-errChan:
		runErr = err
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.Logger.WithError(err).Error("http server shutdown")
	}
	<-schedulerDone

	return runErr
}

// bootstrap создает администратора и загружает начальные тарифы, если таблица тарифов пуста.
func (a *App) bootstrap(ctx context.Context, services *service.AppServices, policy *config.Policy) error {
	bootCtx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
	defer cancel()

	if a.Config.AdminLogin != "" {
		if _, err := services.UserService.EnsureAdmin(bootCtx, a.Config.AdminLogin, a.Config.AdminPasswd); err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
	}

	if len(policy.Seed) > 0 {
		seeded, err := services.CommissionService.SeedTiers(bootCtx, policy.Seed)
		if err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
		a.Logger.WithField("tiers", seeded).Info("commission tiers seeded")
	}
	return nil
}

// initStorage возвращает единицу работы и функцию освобождения ресурсов хранилища.
func (a *App) initStorage(ctx context.Context) (uow.UOW, func(), error) {
	if a.Config.Storage == config.StorageMemory {
		a.Logger.Warn("in-memory storage is used, data will be lost on restart")
		return memrepo.New(), func() {}, nil
	}

	conn, connErr := pgrepo.Connect(ctx, pgrepo.ConnectArgs{
		DSN:           a.Config.DatabaseDSN,
		MigrationsDir: a.Config.MigrationsDir,
		MaxConns:      a.Config.DBMaxConns,
	}, a.Logger)
	if connErr != nil {
		return nil, nil, fmt.Errorf("init storage: %w", connErr)
	}

	unitOfWork, uowErr := initUOW(conn)
	if uowErr != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("init storage: %w", uowErr)
	}
	return unitOfWork, conn.Close, nil
}

func initUOW(conn *pgxpool.Pool) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn, uow.WithIsolation(pgx.ReadCommitted))

	factories := map[repoargs.RepositoryName]uow.RepositoryFactory{
		repoargs.UserRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewUserRepository(dbtx)
		},
		repoargs.BalanceRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewBalanceRepository(dbtx)
		},
		repoargs.TransferRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewTransferRepository(dbtx)
		},
		repoargs.TierRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewTierRepository(dbtx)
		},
		repoargs.LedgerEntryRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewLedgerEntryRepository(dbtx)
		},
		repoargs.PoolRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewPoolRepository(dbtx)
		},
	}
	for name, factory := range factories {
		if regErr := unitOfWork.Register(uow.RepositoryName(name), factory); regErr != nil {
			return nil, fmt.Errorf("init UOW: %s", regErr.Error())
		}
	}
	return unitOfWork, nil
}
