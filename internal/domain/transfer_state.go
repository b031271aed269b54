package domain

// transitions допустимые переходы статусов перевода.
// completed -> reversed выполняется только администратором.
var transitions = map[TransferStatusType][]TransferStatusType{ //nolint:gochecknoglobals
	TransferStatusPending: {
		TransferStatusCompleted,
		TransferStatusCancelled,
		TransferStatusFailed,
	},
	TransferStatusCompleted: {
		TransferStatusReversed,
	},
}

// CanTransition сообщает, разрешен ли переход from -> to.
func CanTransition(from, to TransferStatusType) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition возвращает *TransitionError (совместимую с ErrInvalidTransition), если переход запрещен.
func (t *Transfer) Transition(to TransferStatusType) error {
	if !CanTransition(t.Status, to) {
		return &TransitionError{From: t.Status, To: to}
	}
	return nil
}

// IsFinal финальный статус, из которого нет обычных переходов.
func (s TransferStatusType) IsFinal() bool {
	return len(transitions[s]) == 0
}
