package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name string
		from TransferStatusType
		to   TransferStatusType
		want bool
	}{
		{name: "pending to completed", from: TransferStatusPending, to: TransferStatusCompleted, want: true},
		{name: "pending to cancelled", from: TransferStatusPending, to: TransferStatusCancelled, want: true},
		{name: "pending to failed", from: TransferStatusPending, to: TransferStatusFailed, want: true},
		{name: "completed to reversed", from: TransferStatusCompleted, to: TransferStatusReversed, want: true},
		{name: "completed to cancelled", from: TransferStatusCompleted, to: TransferStatusCancelled},
		{name: "completed to completed", from: TransferStatusCompleted, to: TransferStatusCompleted},
		{name: "cancelled to completed", from: TransferStatusCancelled, to: TransferStatusCompleted},
		{name: "reversed to completed", from: TransferStatusReversed, to: TransferStatusCompleted},
		{name: "pending to reversed", from: TransferStatusPending, to: TransferStatusReversed},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTransfer_Transition(t *testing.T) {
	transfer := Transfer{Status: TransferStatusCancelled}

	err := transfer.Transition(TransferStatusCompleted)
	require.ErrorIs(t, err, ErrInvalidTransition)

	var trErr *TransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, TransferStatusCancelled, trErr.From)
	assert.Equal(t, TransferStatusCompleted, trErr.To)

	transfer.Status = TransferStatusPending
	require.NoError(t, transfer.Transition(TransferStatusCompleted))
}

func TestTransferStatus_IsFinal(t *testing.T) {
	assert.False(t, TransferStatusPending.IsFinal())
	assert.False(t, TransferStatusCompleted.IsFinal())
	assert.True(t, TransferStatusCancelled.IsFinal())
	assert.True(t, TransferStatusFailed.IsFinal())
	assert.True(t, TransferStatusReversed.IsFinal())
}
