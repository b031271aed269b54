package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("development", func(t *testing.T) {
		t.Setenv("GIN_MODE", "debug")
		t.Setenv("LOG_LEVEL", "")
		l := New(new(bytes.Buffer))
		assert.Equal(t, logrus.DebugLevel, l.GetLevel())
		assert.IsType(t, &logrus.TextFormatter{}, l.Formatter)
	})

	t.Run("release writes json", func(t *testing.T) {
		t.Setenv("GIN_MODE", "release")
		t.Setenv("LOG_LEVEL", "")
		buf := new(bytes.Buffer)
		l := New(buf)
		assert.Equal(t, logrus.InfoLevel, l.GetLevel())

		l.WithField("amount", decimal.RequireFromString("0.10")).Info("posted")
		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "posted", line["message"])
		assert.Equal(t, "0.1", line["amount"])
	})

	t.Run("level override", func(t *testing.T) {
		t.Setenv("GIN_MODE", "release")
		t.Setenv("LOG_LEVEL", "warn")
		assert.Equal(t, logrus.WarnLevel, New(new(bytes.Buffer)).GetLevel())
	})
}
