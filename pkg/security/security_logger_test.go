package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j***@example.com", MaskEmail("jane@example.com"))
	assert.Equal(t, "***@x.io", MaskEmail("j@x.io"))
	assert.Equal(t, "***", MaskEmail("no-at-sign"))
}

func TestLoginFailedIsMasked(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewSecurityLogger(zap.New(core), "jobboard", "test")

	sl.LogLoginFailed(context.Background(), "jane@example.com", "10.0.0.1", "curl", "req-1", "invalid_credentials")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(t, "j***@example.com", fields["subject_value"])
	assert.Equal(t, "req-1", fields["request_id"])
}

func TestStatusChangeHashesIdentifiers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewSecurityLogger(zap.New(core), "jobboard", "test")

	sl.LogAccountStatusChanged(context.Background(), "admin-1", "acct-9", "suspended")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, HashValue("acct-9"), fields["subject_value"])
	assert.NotContains(t, fields, "acct-9")
}

func TestTrackerWithoutRedisNeverBlocks(t *testing.T) {
	lt := NewLoginTracker(nil, LoginTrackerConfig{MaxAttempts: 1}, nil)
	ctx := context.Background()

	blocked, err := lt.RecordFailure(ctx, "a@b.c", "")
	require.NoError(t, err)
	assert.False(t, blocked)

	blocked, err = lt.IsBlocked(ctx, "a@b.c")
	require.NoError(t, err)
	assert.False(t, blocked)
	assert.NoError(t, lt.Clear(ctx, "a@b.c"))
}

func TestSeverityDrivesLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewSecurityLogger(zap.New(core), "jobboard", "test")

	sl.LogLoginBlocked(context.Background(), "jane@example.com", "10.0.0.1", "curl", "req-2")
	sl.LogLoginSuccess(context.Background(), "acct-1", "10.0.0.1", "req-3")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
	assert.Equal(t, "HIGH", logs.All()[0].ContextMap()["severity"])
	assert.Equal(t, zapcore.InfoLevel, logs.All()[1].Level)
	assert.Equal(t, SeverityMedium, SeverityOf(EventType("unknown")))
}
