package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/pkg/uow"
)

const (
	defaultMaxAttempts    = 5
	defaultRetryBaseDelay = 15 * time.Millisecond
)

// jitter возвращает число, рассыпавшееся относительно value на случайный процент в пределах
// [1-minPercent, 1+maxPercent].
// Например, если minPercent=0.15, maxPercent=0.15, получим диапазон [0.85*value, 1.15*value].
//
// minPercent и maxPercent должны быть >= 0 (0.1 = 10%). Если указано иное, значение выставится в 0.15.
func jitter(value, minPercent, maxPercent float64) float64 {
	if minPercent < 0 || maxPercent < 0 {
		minPercent = 0.15
		maxPercent = 0.15
	}
	factor := 1 - minPercent + rand.Float64()*(minPercent+maxPercent) // nolint:gosec
	return value * factor
}

// isConflict ошибка, после которой единицу работы можно повторить целиком.
func isConflict(err error) bool {
	return errors.Is(err, domain.ErrConcurrentModification) || errors.Is(err, uow.ErrTxConflict)
}

// retryTx выполняет fn до maxAttempts раз, пока retryable(err) истинно. Пауза между попытками растет линейно
// с разбросом ±25%. Последняя ошибка конфликта приводится к domain.ErrConcurrentModification.
func retryTx(
	ctx context.Context,
	maxAttempts int,
	retryable func(error) bool,
	fn func(attempt int) error,
) error {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn(attempt)
		if err == nil || !retryable(err) {
			return err
		}
		if attempt == maxAttempts {
			break
		}
		delay := time.Duration(jitter(float64(defaultRetryBaseDelay)*float64(attempt), 0.25, 0.25)) //nolint:mnd
		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(delay):
		}
	}
	if isConflict(err) && !errors.Is(err, domain.ErrConcurrentModification) {
		return errors.Join(domain.ErrConcurrentModification, err)
	}
	return err
}
