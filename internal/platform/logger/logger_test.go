package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedactsSensitiveKeys(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := NewFromCore(core)

	log.Info("starting", "telegram_token", "123:abc", "REDIS_PASSWORD", "hunter2", "addr", ":8080")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, redacted, fields["telegram_token"])
	assert.Equal(t, redacted, fields["REDIS_PASSWORD"])
	assert.Equal(t, ":8080", fields["addr"])
}

func TestWithKeepsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := NewFromCore(core).With("component", "scheduler")

	log.Warn("slow job", "job", "reminders")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "slow job", entry.Message)
	assert.Equal(t, "scheduler", entry.ContextMap()["component"])
	assert.Equal(t, "reminders", entry.ContextMap()["job"])
}

func TestOddKeyValuesArePassedThrough(t *testing.T) {
	out := sanitizeKVs([]interface{}{"a", 1, "dangling"})
	assert.Equal(t, []interface{}{"a", 1, "dangling"}, out)
}

func TestNew(t *testing.T) {
	for _, mode := range []string{"dev", "production"} {
		log, err := New(mode)
		require.NoError(t, err)
		log.Debug("hello")
	}
}
