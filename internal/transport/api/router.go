package api

import (
	"fmt"
	"time"

	"github.com/fsdevblog/remit-ledger/internal/metrics"
	"github.com/fsdevblog/remit-ledger/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup     = "/api"
	RegisterRoute  = "/user/register"
	LoginRoute     = "/user/login"
	BalanceRoute   = "/balance"
	StatementRoute = "/statement"
	TransfersRoute = "/transfers"
	SendRoute      = "/transfers/:kind"
	ClaimRoute     = "/transfers/:kind/claim"
	TransferRoute  = "/transfers/:reference"
	QuoteRoute     = "/commission/quote"

	AdminGroup        = "/admin"
	DepositsRoute     = "/deposits"
	WithdrawalsRoute  = "/withdrawals"
	AdminCancelRoute  = "/transfers/:reference/cancel"
	AdminFailRoute    = "/transfers/:reference/fail"
	AdminReverseRoute = "/transfers/:reference/reverse"
	TiersRoute        = "/tiers"
	TierRoute         = "/tiers/:id"
	PoolsRoute        = "/pools"
	PoolWithdrawRoute = "/pools/withdraw"

	MetricsRoute = "/metrics"
)

const (
	defaultRateLimitPerSec = 2
	defaultRateLimitBurst  = 5
)

type RouterArgs struct {
	Logger            *logrus.Logger
	Metrics           *metrics.Metrics
	RateLimiter       *middlewares.RateLimiter
	UserService       UserServicer
	TransferService   TransferServicer
	LedgerService     LedgerServicer
	StatementService  StatementServicer
	CommissionService CommissionServicer
	PoolService       PoolServicer
	JWTSecretKey      []byte
}

func New(args RouterArgs) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	if args.Metrics != nil {
		r.Use(args.Metrics.Middleware())
		r.GET(MetricsRoute, gin.WrapH(args.Metrics.Handler()))
	}
	r.Use(middlewares.Errors())

	rateLimiter := args.RateLimiter
	if rateLimiter == nil {
		rateLimiter = middlewares.NewRateLimiter(defaultRateLimitPerSec, defaultRateLimitBurst)
	}

	authHandler := NewAuthHandler(args.UserService)
	balanceHandler := NewBalanceHandler(args.LedgerService, args.StatementService)
	transfersHandler := NewTransfersHandler(args.TransferService)
	commissionHandler := NewCommissionHandler(args.CommissionService)
	adminHandler := NewAdminHandler(args.LedgerService, args.TransferService, args.PoolService)

	api := r.Group(RouteGroup)

	api.POST(RegisterRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Register)
	api.POST(LoginRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Login)

	api.Use(middlewares.AuthRequired(args.JWTSecretKey))
	// ниже все роуты группы требуют авторизованного пользователя.
	api.GET(BalanceRoute, balanceHandler.Index)
	api.GET(StatementRoute, balanceHandler.Statement)

	api.GET(TransfersRoute, transfersHandler.Index)
	api.GET(TransferRoute, transfersHandler.Show)
	api.POST(SendRoute, rateLimiter.Handler(), transfersHandler.Send)
	api.POST(ClaimRoute, rateLimiter.Handler(), transfersHandler.Claim)
	api.DELETE(TransferRoute, rateLimiter.Handler(), transfersHandler.Cancel)

	api.GET(QuoteRoute, commissionHandler.Quote)

	admin := api.Group(AdminGroup, middlewares.AdminRequired())
	admin.POST(DepositsRoute, adminHandler.Deposit)
	admin.POST(WithdrawalsRoute, adminHandler.Withdraw)
	admin.POST(AdminCancelRoute, adminHandler.CancelTransfer)
	admin.POST(AdminFailRoute, adminHandler.FailTransfer)
	admin.POST(AdminReverseRoute, adminHandler.ReverseTransfer)
	admin.GET(TiersRoute, commissionHandler.ListTiers)
	admin.POST(TiersRoute, commissionHandler.CreateTier)
	admin.DELETE(TierRoute, commissionHandler.DeleteTier)
	admin.GET(PoolsRoute, adminHandler.Pools)
	admin.POST(PoolWithdrawRoute, adminHandler.WithdrawPool)
	return r, nil
}
