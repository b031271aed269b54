package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	RunAddress    string `env:"RUN_ADDRESS"`
	DatabaseDSN   string `env:"DATABASE_URI"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`
	// Storage postgres или memory. memory годится только для локального запуска, данные не переживают рестарт.
	Storage     string `env:"STORAGE"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS"`
	JWTSecret   string `env:"JWT_SECRET"`
	BcryptCost  int    `env:"BCRYPT_COST"`
	PolicyFile  string `env:"COMMISSION_POLICY_FILE"`
	AdminLogin  string `env:"ADMIN_USERNAME"`
	AdminPasswd string `env:"ADMIN_PASSWORD"`

	PendingTTL     time.Duration `env:"PENDING_TTL"`
	ExpirySchedule string        `env:"EXPIRY_SCHEDULE"`
	ExpiryBatch    uint          `env:"EXPIRY_BATCH"`
	ExpiryWorkers  uint          `env:"EXPIRY_WORKERS"`

	RateLimit float64 `env:"RATE_LIMIT"`
	RateBurst int     `env:"RATE_BURST"`
}

// String не раскрывает секреты при логировании конфига.
func (c Config) String() string {
	masked := c
	masked.DatabaseDSN = mask(c.DatabaseDSN)
	masked.JWTSecret = mask(c.JWTSecret)
	masked.AdminPasswd = mask(c.AdminPasswd)
	type plain Config
	return fmt.Sprintf("%+v", plain(masked))
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}

// LoadConfig собирает конфиг из флагов командной строки и переменных окружения. Переменные окружения
// приоритетнее флагов. Если в рабочей директории есть файл .env, его значения попадают в окружение
// (уже установленные переменные не перезаписываются).
func LoadConfig(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var envConfig Config
	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	flagsConfig, flagsErr := loadFlags(args)
	if flagsErr != nil {
		return nil, flagsErr
	}

	conf := mergeConfig(&envConfig, flagsConfig)
	if err := conf.validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func MustLoadConfig(args []string) *Config {
	config, err := LoadConfig(args)
	if err != nil {
		panic(err)
	}
	return config
}

func (c *Config) validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.DatabaseDSN == "" {
			return errors.New("database DSN is not set")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown storage `%s`", c.Storage)
	}
	if c.JWTSecret == "" {
		return errors.New("jwt secret is not set")
	}
	if c.PendingTTL <= 0 {
		return errors.New("pending ttl must be positive")
	}
	if (c.AdminLogin == "") != (c.AdminPasswd == "") {
		return errors.New("admin username and password must be set together")
	}
	return nil
}

//nolint:mnd
func loadFlags(args []string) (*Config, error) {
	var flagConfig Config
	flagSet := flag.NewFlagSet("ledger", flag.ContinueOnError)

	flagSet.StringVar(&flagConfig.RunAddress, "a", "localhost:8080", "Run address in format host:port")
	flagSet.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	flagSet.StringVar(&flagConfig.MigrationsDir, "m", "internal/db/migrations", "Database migrations directory")
	flagSet.StringVar(&flagConfig.Storage, "storage", StoragePostgres, "Storage backend: postgres or memory")
	var maxConns int
	flagSet.IntVar(&maxConns, "db-max-conns", 10, "Max database connections")
	flagSet.StringVar(&flagConfig.JWTSecret, "jwt-secret", "", "Secret for signing user tokens")
	flagSet.IntVar(&flagConfig.BcryptCost, "bcrypt-cost", 10, "bcrypt cost for user passwords")
	flagSet.StringVar(&flagConfig.PolicyFile, "policy", "", "Commission policy YAML file")
	flagSet.StringVar(&flagConfig.AdminLogin, "admin-username", "", "Bootstrap administrator login")
	flagSet.StringVar(&flagConfig.AdminPasswd, "admin-password", "", "Bootstrap administrator password")
	flagSet.DurationVar(&flagConfig.PendingTTL, "pending-ttl", 30*24*time.Hour, "Time to claim a pending transfer")
	flagSet.StringVar(&flagConfig.ExpirySchedule, "expiry-schedule", "@every 1m", "Cron spec of the expiry job")
	flagSet.UintVar(&flagConfig.ExpiryBatch, "expiry-batch", 100, "Expired transfers per expiry run")
	flagSet.UintVar(&flagConfig.ExpiryWorkers, "expiry-workers", 4, "Expiry workers")
	flagSet.Float64Var(&flagConfig.RateLimit, "rate-limit", 2, "Transfer requests per second per user")
	flagSet.IntVar(&flagConfig.RateBurst, "rate-burst", 5, "Transfer requests burst per user")

	if err := flagSet.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	flagConfig.DBMaxConns = int32(maxConns) //nolint:gosec
	return &flagConfig, nil
}

func mergeConfig(envConfig, flagsConfig *Config) *Config {
	return &Config{
		RunAddress:     defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress),
		DatabaseDSN:    defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN),
		MigrationsDir:  defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir),
		Storage:        defaultIfBlank(envConfig.Storage, flagsConfig.Storage),
		DBMaxConns:     defaultIfBlank(envConfig.DBMaxConns, flagsConfig.DBMaxConns),
		JWTSecret:      defaultIfBlank(envConfig.JWTSecret, flagsConfig.JWTSecret),
		BcryptCost:     defaultIfBlank(envConfig.BcryptCost, flagsConfig.BcryptCost),
		PolicyFile:     defaultIfBlank(envConfig.PolicyFile, flagsConfig.PolicyFile),
		AdminLogin:     defaultIfBlank(envConfig.AdminLogin, flagsConfig.AdminLogin),
		AdminPasswd:    defaultIfBlank(envConfig.AdminPasswd, flagsConfig.AdminPasswd),
		PendingTTL:     defaultIfBlank(envConfig.PendingTTL, flagsConfig.PendingTTL),
		ExpirySchedule: defaultIfBlank(envConfig.ExpirySchedule, flagsConfig.ExpirySchedule),
		ExpiryBatch:    defaultIfBlank(envConfig.ExpiryBatch, flagsConfig.ExpiryBatch),
		ExpiryWorkers:  defaultIfBlank(envConfig.ExpiryWorkers, flagsConfig.ExpiryWorkers),
		RateLimit:      defaultIfBlank(envConfig.RateLimit, flagsConfig.RateLimit),
		RateBurst:      defaultIfBlank(envConfig.RateBurst, flagsConfig.RateBurst),
	}
}

func defaultIfBlank[T comparable](value T, defaultValue T) T {
	var zero T
	if value == zero {
		return defaultValue
	}
	return value
}
