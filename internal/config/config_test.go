package config_test

import (
	"testing"
	"time"

	"bargainhub/backend/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("BARGAIN_MAX_DISCOUNT", "")
	t.Setenv("BARGAIN_MAX_TURNS", "")
	t.Setenv("BARGAIN_SESSION_TTL_HOURS", "")

	cfg := config.Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, config.DefaultMaxDiscount, cfg.MaxDiscount)
	assert.Equal(t, config.DefaultMaxTurns, cfg.MaxTurns)
	assert.Equal(t, config.DefaultSessionTTL, cfg.SessionTTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BARGAIN_MAX_DISCOUNT", "0.10")
	t.Setenv("BARGAIN_MAX_TURNS", "3")
	t.Setenv("BARGAIN_SESSION_TTL_HOURS", "48")
	t.Setenv("PORT", "9090")

	cfg := config.Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.InDelta(t, 0.10, cfg.MaxDiscount, 1e-9)
	assert.Equal(t, 3, cfg.MaxTurns)
	assert.Equal(t, 48*time.Hour, cfg.SessionTTL)
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("BARGAIN_MAX_DISCOUNT", "not-a-number")
	t.Setenv("BARGAIN_MAX_TURNS", "lots")

	cfg := config.Load()

	assert.Equal(t, config.DefaultMaxDiscount, cfg.MaxDiscount)
	assert.Equal(t, config.DefaultMaxTurns, cfg.MaxTurns)
}

func TestDSN(t *testing.T) {
	t.Setenv("DB_HOST", "dbhost")
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_PASSWORD", "p")
	t.Setenv("DB_NAME", "n")
	t.Setenv("DB_PORT", "5433")

	cfg := config.Load()
	assert.Equal(t, "host=dbhost user=u password=p dbname=n port=5433 sslmode=disable", cfg.DSN())
}
