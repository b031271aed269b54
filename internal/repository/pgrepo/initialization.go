package pgrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const (
	defaultConnectAttempts uint = 30
	defaultRetryInterval        = 3 * time.Second
)

type ConnectArgs struct {
	DSN           string
	MigrationsDir string
	// MaxConns размер пула соединений, 0 оставляет значение pgxpool по умолчанию.
	MaxConns      int32
	MaxAttempts   uint
	RetryInterval time.Duration
}

// Connect открывает пул соединений, повторяя попытки пока база не станет доступна, и применяет миграции.
func Connect(ctx context.Context, args ConnectArgs, l *logrus.Logger) (*pgxpool.Pool, error) {
	maxAttempts := args.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = defaultConnectAttempts
	}
	retryInterval := args.RetryInterval
	if retryInterval == 0 {
		retryInterval = defaultRetryInterval
	}

	var (
		pool    *pgxpool.Pool
		connErr error
	)
	for attempt := uint(1); ; attempt++ {
		pool, connErr = newPostgresConnection(ctx, args.DSN, args.MaxConns)
		if connErr == nil {
			break
		}
		if attempt >= maxAttempts {
			return nil, fmt.Errorf("init postgres connection after %d attempts: %w", maxAttempts, connErr)
		}
		l.WithError(connErr).
			WithField("CurrentAttempt", fmt.Sprintf("#%d / %d", attempt, maxAttempts)).
			Warnf("init postgres connection error, retrying in %.f seconds", retryInterval.Seconds())

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("init postgres connection: %w", ctx.Err())
		case <-time.After(retryInterval):
		}
	}

	if err := postgresMigrate(args.MigrationsDir, args.DSN); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func newPostgresConnection(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	poolConfig, confErr := pgxpool.ParseConfig(dsn)
	if confErr != nil {
		return nil, fmt.Errorf("parse postgres config: %s", confErr.Error())
	}
	if maxConns > 0 {
		poolConfig.MaxConns = maxConns
	}
	pool, poolErr := pgxpool.NewWithConfig(ctx, poolConfig)
	if poolErr != nil {
		return nil, fmt.Errorf("failed to create pool: %s", poolErr.Error())
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %s", pingErr.Error())
	}

	return pool, nil
}

func postgresMigrate(dir string, dsn string) error {
	m, mErr := migrate.New("file://"+dir, dsn)
	if mErr != nil {
		return fmt.Errorf("failed to create migrate instance: %w", mErr)
	}
	defer func() {
		_, _ = m.Close()
	}()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
