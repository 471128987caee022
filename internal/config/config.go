package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

const upstreamURLFormat = "https://v6.exchangerate-api.com/v6/%s/latest/%s"

// Config holds all server configuration loaded from environment variables.
type Config struct {
	HTTPPort              string
	ExchangeRateAPIKey    string
	BaseCurrency          string
	RatesSourceURL        string
	UpdateInterval        time.Duration
	RatesTimeout          time.Duration
	RatesRetryMax         int
	RatesRetryBaseDelay   time.Duration
	DatabaseURL           string
	RateLimit             string
	CORSAllowedOrigins    []string
	CurrencyCatalog       string
	ExcludedCurrencies    string
	PriorityCurrencies    string
	GoogleSpreadsheetID   string
	GoogleCredentialsJSON string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	cfg := Config{
		HTTPPort:              envOrDefault("PORT", "5000"),
		ExchangeRateAPIKey:    envOrDefault("EXCHANGE_RATE_API_KEY", ""),
		BaseCurrency:          envOrDefault("BASE_CURRENCY", "USD"),
		RatesSourceURL:        envOrDefault("RATES_SOURCE_URL", ""),
		UpdateInterval:        envOrDefaultDuration("UPDATE_INTERVAL", 2*time.Hour),
		RatesTimeout:          envOrDefaultDuration("RATES_TIMEOUT", 20*time.Second),
		RatesRetryMax:         envOrDefaultInt("RATES_RETRY_MAX", 0),
		RatesRetryBaseDelay:   envOrDefaultDuration("RATES_RETRY_BASE_DELAY", 2*time.Second),
		DatabaseURL:           envOrDefault("DATABASE_URL", ""),
		RateLimit:             envOrDefault("RATE_LIMIT", "120-M"),
		CORSAllowedOrigins:    splitOrigins(envOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		CurrencyCatalog:       envOrDefault("CURRENCY_CATALOG", ""),
		ExcludedCurrencies:    envOrDefault("EXCLUDED_CURRENCIES", ""),
		PriorityCurrencies:    envOrDefault("PRIORITY_CURRENCIES", ""),
		GoogleSpreadsheetID:   envOrDefault("GOOGLE_SPREADSHEET_ID", ""),
		GoogleCredentialsJSON: envOrDefault("GOOGLE_CREDENTIALS_JSON", ""),
	}
	if cfg.RatesSourceURL == "" && cfg.ExchangeRateAPIKey == "" {
		slog.Warn("required env var not set", "key", "EXCHANGE_RATE_API_KEY", "alternative", "RATES_SOURCE_URL")
	}
	if cfg.UpdateInterval <= 0 {
		slog.Warn("non-positive UPDATE_INTERVAL, using default", "value", cfg.UpdateInterval)
		cfg.UpdateInterval = 2 * time.Hour
	}
	return cfg
}

// splitOrigins parses a comma-separated origin list. "-" yields no origins, which disables CORS.
func splitOrigins(s string) []string {
	if strings.TrimSpace(s) == "-" {
		return nil
	}
	return lo.Compact(lo.Map(strings.Split(s, ","), func(o string, _ int) string {
		return strings.TrimRight(strings.TrimSpace(o), "/")
	}))
}

// UpstreamURL is RATES_SOURCE_URL when set, otherwise the exchangerate-api.com latest-rates
// URL for the API key and base currency.
func (c Config) UpstreamURL() string {
	if c.RatesSourceURL != "" {
		return c.RatesSourceURL
	}
	return fmt.Sprintf(upstreamURLFormat, c.ExchangeRateAPIKey, c.BaseCurrency)
}

// SheetsEnabled reports whether Google Sheets publishing is configured.
func (c Config) SheetsEnabled() bool {
	return c.GoogleSpreadsheetID != "" && c.GoogleCredentialsJSON != ""
}

// LoadDotEnv loads variables from the given files (default ".env"). Missing files are
// ignored and variables already present in the environment are not overridden.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
		slog.Debug("loaded env file", "path", p)
	}
	return nil
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}
