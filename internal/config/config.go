package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"questline/internal/clock"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppPort    string `envconfig:"APP_PORT" default:"8080"`
	AppEnv     string `envconfig:"APP_ENV" default:"development"`
	AppVersion string `envconfig:"APP_VERSION" default:"dev"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	LogJSON    bool   `envconfig:"LOG_JSON" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"20"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	// Redis is optional; rate limiting fails open without it.
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	APIRateLimit       int           `envconfig:"API_RATE_LIMIT" default:"120"`
	APIRateWindow      time.Duration `envconfig:"API_RATE_WINDOW" default:"1m"`
	AuthRateLimit      int           `envconfig:"AUTH_RATE_LIMIT" default:"10"`
	AuthRateWindow     time.Duration `envconfig:"AUTH_RATE_WINDOW" default:"1m"`
	CompleteRateLimit  int           `envconfig:"COMPLETE_RATE_LIMIT" default:"30"`
	CompleteRateWindow time.Duration `envconfig:"COMPLETE_RATE_WINDOW" default:"1m"`

	DailyResetTimezones []string `envconfig:"DAILY_RESET_TIMEZONES" default:"UTC,America/New_York,Europe/Madrid"`
	StartingCoins       int64    `envconfig:"STARTING_COINS" default:"100"`

	AllowedOrigin string `envconfig:"ALLOWED_ORIGIN"`
	AdminAPIKey   string `envconfig:"ADMIN_API_KEY"`

	AdminBotEnabled  bool    `envconfig:"ADMIN_BOT_ENABLED" default:"false"`
	AdminBotToken    string  `envconfig:"ADMIN_BOT_TOKEN"`
	AdminTelegramIDs []int64 `envconfig:"ADMIN_TELEGRAM_IDS"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	for i, tz := range cfg.DailyResetTimezones {
		cfg.DailyResetTimezones[i] = strings.TrimSpace(tz)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}
	if c.StartingCoins < 0 {
		errs = append(errs, errors.New("STARTING_COINS must not be negative"))
	}
	if len(c.DailyResetTimezones) == 0 {
		errs = append(errs, errors.New("DAILY_RESET_TIMEZONES is empty"))
	}
	for _, tz := range c.DailyResetTimezones {
		if _, err := clock.Location(tz); err != nil {
			errs = append(errs, fmt.Errorf("DAILY_RESET_TIMEZONES: %q: %w", tz, err))
		}
	}
	if c.AdminBotEnabled && c.AdminBotToken == "" {
		errs = append(errs, errors.New("ADMIN_BOT_TOKEN is required when ADMIN_BOT_ENABLED=true"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
