package uow

import "errors"

var (
	ErrRepositoryNotRegistered     = errors.New("[uow] repository not registered")
	ErrRepositoryAlreadyRegistered = errors.New("[uow] repository already registered")
	ErrInvalidRepositoryType       = errors.New("[uow] invalid repository type")
	// ErrTxConflict транзакция отклонена базой из-за конфликта сериализации или взаимной блокировки.
	// Такую транзакцию можно безопасно повторить целиком.
	ErrTxConflict = errors.New("[uow] transaction conflict")
)
