package service

import (
	"fmt"
	"time"

	"github.com/fsdevblog/remit-ledger/internal/commission"
	"github.com/fsdevblog/remit-ledger/pkg/uow"
	"github.com/sirupsen/logrus"
)

type AppServices struct {
	UserService       *UserService
	TransferService   *TransferService
	LedgerService     *LedgerService
	CommissionService *CommissionService
	StatementService  *StatementService
	PoolService       *PoolService
}

type FactoryArgs struct {
	JWTSecret  []byte
	Hasher     PasswordHasher
	Policy     commission.Policy
	Observer   TransferObserver
	PendingTTL time.Duration
	Logger     *logrus.Logger
}

func Factory(unitOfWork uow.UOW, args FactoryArgs) (*AppServices, error) {
	resolver := commission.NewResolver(args.Policy)

	userService, userServiceErr := NewUserService(unitOfWork, args.JWTSecret, args.Hasher, args.Logger)
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %w", userServiceErr)
	}

	transferService, transferServiceErr := NewTransferService(unitOfWork, TransferServiceArgs{
		Resolver:   resolver,
		Observer:   args.Observer,
		Logger:     args.Logger,
		PendingTTL: args.PendingTTL,
	})
	if transferServiceErr != nil {
		return nil, fmt.Errorf("service factory: %w", transferServiceErr)
	}

	ledgerService, ledgerServiceErr := NewLedgerService(unitOfWork, args.Logger)
	if ledgerServiceErr != nil {
		return nil, fmt.Errorf("service factory: %w", ledgerServiceErr)
	}

	commissionService, commissionServiceErr := NewCommissionService(unitOfWork, resolver, args.Logger)
	if commissionServiceErr != nil {
		return nil, fmt.Errorf("service factory: %w", commissionServiceErr)
	}

	statementService, statementServiceErr := NewStatementService(unitOfWork, args.Logger)
	if statementServiceErr != nil {
		return nil, fmt.Errorf("service factory: %w", statementServiceErr)
	}

	poolService, poolServiceErr := NewPoolService(unitOfWork, args.Logger)
	if poolServiceErr != nil {
		return nil, fmt.Errorf("service factory: %w", poolServiceErr)
	}

	return &AppServices{
		UserService:       userService,
		TransferService:   transferService,
		LedgerService:     ledgerService,
		CommissionService: commissionService,
		StatementService:  statementService,
		PoolService:       poolService,
	}, nil
}
