package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVs(t *testing.T) {
	got := sanitizeKVs([]interface{}{
		"profile_id", "abc",
		"api_key", "sk-live",
		"Email", "a@b.c",
		"access_token", "t0k",
		"total_tokens", 812,
		"latest", uint64(4),
		"dangling",
	})

	assert.Equal(t, []interface{}{
		"profile_id", "abc",
		"api_key", "[REDACTED]",
		"Email", "[REDACTED]",
		"access_token", "[REDACTED]",
		"total_tokens", 812,
		"latest", uint64(4),
		"dangling",
	}, got)
}

func TestNopDoesNotPanic(t *testing.T) {
	l := Nop().With("component", "test")
	l.Info("hello", "stage", "prose")
	l.Sync()
}
