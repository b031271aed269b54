package psswd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHash(t *testing.T) {
	h := New(bcrypt.MinCost)

	hash, err := h.HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, h.ComparePassword("s3cret-pass", hash))
	assert.False(t, h.ComparePassword("wrong", hash))
}
