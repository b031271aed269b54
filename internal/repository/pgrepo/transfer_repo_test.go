package pgrepo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitArg(t *testing.T) {
	assert.Nil(t, limitArg(0))

	limit := limitArg(50)
	require.NotNil(t, limit)
	assert.Equal(t, int64(50), *limit)
}
