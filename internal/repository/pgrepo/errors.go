package pgrepo

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	foreignKeyViolationCode  = "23503"
	uniqueViolationCode      = "23505"
	checkViolationCode       = "23514"
	numericOverflowCode      = "22003"
	serializationFailureCode = "40001"
	deadlockDetectedCode     = "40P01"
)

var nonNegativeConstraints = map[string]struct{}{ //nolint:gochecknoglobals
	"balances_amount_check":         {},
	"commission_pools_amount_check": {},
}

// convertErr преобразует ошибку к стандартному виду для слоя репозитория.
// Добавляет форматированное сообщение контекста, тип бизнес-ошибки и оригинальное сообщение.
// Особенности:
//   - Для ошибок отсутствия данных (pgx.ErrNoRows) возвращает ErrRecordNotFound из domain.
//   - Дубликаты ключей (uniqueViolationCode) возвращаются как ErrDuplicateKey из domain.
//   - Ссылка на несуществующего пользователя или перевод (foreignKeyViolationCode) возвращается как ErrRecordNotFound.
//   - Нарушение CHECK ограничения неотрицательного остатка балансов и пулов возвращается как ErrInsufficientFunds.
//     Обычно до этого не доходит, списание идет условным UPDATE. Прочие CHECK ограничения остаются ErrUnknown.
//   - Переполнение числовой колонки (numericOverflowCode) возвращается как ErrInvalidAmount.
//   - Конфликт сериализации и дедлок возвращаются как ErrConcurrentModification из domain,
//     такую операцию вызывающий код может повторить целиком.
//   - Все остальные ошибки возвращаются как ErrUnknown с оригинальным сообщением.
func convertErr(err error, format string, formatArgs ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, formatArgs...)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("[repository/%s] %w", msg, domain.ErrRecordNotFound)
	}

	var pgErr *pgconn.PgError
	errType := domain.ErrUnknown

	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			errType = domain.ErrDuplicateKey
		case foreignKeyViolationCode:
			errType = domain.ErrRecordNotFound
		case checkViolationCode:
			if _, ok := nonNegativeConstraints[pgErr.ConstraintName]; ok {
				errType = domain.ErrInsufficientFunds
			}
		case numericOverflowCode:
			errType = domain.ErrInvalidAmount
		case serializationFailureCode, deadlockDetectedCode:
			errType = domain.ErrConcurrentModification
		}
	}

	return fmt.Errorf("[repository/%s] %w: %s", msg, errType, err.Error())
}
