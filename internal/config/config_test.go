package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_NAME", "arena.db")
	t.Setenv("ARENA_API_URL", "http://arena.test")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("SLACK_CHANNEL_ID", "C123")
	t.Setenv("GCP_PROJECT", "test-project")
	t.Setenv("ARENA_TIMEZONE", "UTC")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("SESSION_TTL", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, time.UTC, cfg.Location)
}

func TestLoad_SessionTTLWithoutRedis(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("SESSION_TTL", "45m")

	cfg := Load()
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 45*time.Minute, cfg.Session.TTL)
}
