package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/questline")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, int64(100), cfg.StartingCoins)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"UTC", "America/New_York", "Europe/Madrid"}, cfg.DailyResetTimezones)
	assert.False(t, cfg.AdminBotEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/questline")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DAILY_RESET_TIMEZONES", "Asia/Tokyo, Europe/Berlin")
	t.Setenv("ADMIN_TELEGRAM_IDS", "1,2")
	t.Setenv("COMPLETE_RATE_WINDOW", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"Asia/Tokyo", "Europe/Berlin"}, cfg.DailyResetTimezones)
	assert.Equal(t, []int64{1, 2}, cfg.AdminTelegramIDs)
	assert.Equal(t, 30*time.Second, cfg.CompleteRateWindow)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"ok", func(c *Config) {}, ""},
		{"bad timezone", func(c *Config) { c.DailyResetTimezones = []string{"Nowhere/City"} }, "Nowhere/City"},
		{"no timezones", func(c *Config) { c.DailyResetTimezones = nil }, "DAILY_RESET_TIMEZONES is empty"},
		{"negative coins", func(c *Config) { c.StartingCoins = -1 }, "STARTING_COINS"},
		{"bot without token", func(c *Config) { c.AdminBotEnabled = true }, "ADMIN_BOT_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				DatabaseURL:         "postgres://x",
				JWTSecret:           "s",
				StartingCoins:       100,
				DailyResetTimezones: []string{"UTC"},
			}
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
