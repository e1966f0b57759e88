package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, TokenExpiryUnitWeeks, cfg.TokenExpiryUnit)
	assert.Equal(t, 52, cfg.TokenExpiryAmount)
	assert.Equal(t, 60*time.Minute, cfg.ReservationExpiry)
	assert.False(t, cfg.AutoApprove)
	assert.False(t, cfg.AlwaysVerifyKey)
	assert.Equal(t, "basic", cfg.ProviderKind)
	assert.Equal(t, "gatekeeper", cfg.BootstrapWalletName)
}

func TestTokenExpiryDuration(t *testing.T) {
	tests := []struct {
		unit   string
		amount int
		want   time.Duration
	}{
		{TokenExpiryUnitMinutes, 30, 30 * time.Minute},
		{TokenExpiryUnitHours, 12, 12 * time.Hour},
		{TokenExpiryUnitDays, 3, 72 * time.Hour},
		{TokenExpiryUnitWeeks, 2, 14 * 24 * time.Hour},
		{"fortnights", 1, 7 * 24 * time.Hour}, // unknown unit falls back to weeks
	}
	for _, tt := range tests {
		cfg := &Config{TokenExpiryUnit: tt.unit, TokenExpiryAmount: tt.amount}
		assert.Equal(t, tt.want, cfg.TokenExpiryDuration(), "unit %q", tt.unit)
	}
}

func TestParseEnv_Overlay(t *testing.T) {
	t.Setenv("TG_SECRET_KEY", "env-secret")
	t.Setenv("TG_RESERVATION_EXPIRY_MINUTES", "15")
	t.Setenv("TG_AUTO_APPROVE", "true")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "env-secret", cfg.SecretKey)
	assert.Equal(t, 15*time.Minute, cfg.ReservationExpiry)
	assert.True(t, cfg.AutoApprove)
}

func TestParseJson_Overlay(t *testing.T) {
	payload := map[string]any{
		"secret_key":          "json-secret",
		"token_expiry_unit":   "hours",
		"token_expiry_amount": 8,
		"reservation_expiry":  "45m",
		"auto_approve":        true,
	}
	b, err := json.Marshal(payload)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, b, 0o600))

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "json-secret", cfg.SecretKey)
	assert.Equal(t, "hours", cfg.TokenExpiryUnit)
	assert.Equal(t, 8, cfg.TokenExpiryAmount)
	assert.Equal(t, 45*time.Minute, cfg.ReservationExpiry)
	assert.True(t, cfg.AutoApprove)
	// untouched fields keep their defaults
	assert.Equal(t, "gatekeeper", cfg.BootstrapWalletName)
}

func TestParseFlags_Overrides(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server", "-s", "flag-secret", "-r", "5", "-u", "days", "-t", "7"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "flag-secret", cfg.SecretKey)
	assert.Equal(t, 5*time.Minute, cfg.ReservationExpiry)
	assert.Equal(t, "days", cfg.TokenExpiryUnit)
	assert.Equal(t, 7, cfg.TokenExpiryAmount)
}
