package expiry

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/google/uuid"
)

type Servicer interface {
	ExpiredPending(ctx context.Context, limit uint) ([]domain.Transfer, error)
	Expire(ctx context.Context, reference uuid.UUID) (*domain.Transfer, error)
}

// Observer получает итог обработки каждого перевода. Реализуется пакетом metrics.
type Observer interface {
	ExpiryProcessed(success bool)
}
