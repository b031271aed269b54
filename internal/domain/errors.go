package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrPasswordMissMatch = errors.New("password mismatch")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrUnknown           = errors.New("unknown error")

	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrInvalidClaimCode       = errors.New("invalid claim code")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrInvalidTransition      = errors.New("invalid transfer status transition")
	ErrSameAccount            = errors.New("sender and receiver are the same")
	ErrInvalidAmount          = errors.New("amount must be positive and not exceed the limit")
	ErrInvalidTier            = errors.New("invalid commission tier")
	ErrForbidden              = errors.New("forbidden")
)

// AmbiguousTierError несколько тарифов одинаковой специфичности подходят под перевод и не различимы по диапазону.
// Это ошибка конфигурации тарифов, выбирать один из них молча нельзя.
type AmbiguousTierError struct {
	TierIDs []int64
}

func NewAmbiguousTierError(ids []int64) error {
	return &AmbiguousTierError{TierIDs: ids}
}

func (e *AmbiguousTierError) Error() string {
	return fmt.Sprintf("commission tier resolution is ambiguous between tiers %v", e.TierIDs)
}

// TransitionError недопустимый переход статуса перевода.
type TransitionError struct {
	From TransferStatusType
	To   TransferStatusType
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transfer status transition %s -> %s is not allowed", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
