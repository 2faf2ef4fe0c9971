package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"

	"ratecalc/internal/core"
)

type Config struct {
	// HTTP Server
	Port               string   `env:"PORT" envDefault:"8081"`
	LogLevel           string   `env:"LOG_LEVEL" envDefault:"info"`
	RateLimitPerMinute int      `env:"RATE_LIMIT_PER_MINUTE" envDefault:"120"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	TrustedProxies     []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// Catalog source
	CatalogBackend     string        `env:"CATALOG_BACKEND" envDefault:"memory"`
	CatalogSeedFile    string        `env:"CATALOG_SEED_FILE"`
	CatalogLoadTimeout time.Duration `env:"CATALOG_LOAD_TIMEOUT" envDefault:"30s"`

	// Database
	SQLiteDBPath string `env:"SQLITE_DB_PATH" envDefault:"./data/ratecalc.db"`

	// Google Sheets
	GoogleSpreadsheetID      string `env:"GOOGLE_SPREADSHEET_ID"`
	GoogleRatesSheetName     string `env:"GOOGLE_RATES_SHEET_NAME" envDefault:"Rates"`
	GoogleServiceAccountJSON string `env:"GOOGLE_SERVICE_ACCOUNT_JSON"`
	GoogleServiceAccountFile string `env:"GOOGLE_SERVICE_ACCOUNT_FILE"`

	// Rate card for composite items, in dollars
	StackNoteValue  string `env:"STACK_NOTE_VALUE" envDefault:"650"`
	RollOfCashValue string `env:"ROLL_OF_CASH_VALUE" envDefault:"575"`
	LooseNoteValue  string `env:"LOOSE_NOTE_VALUE" envDefault:"90"`

	// Quote cache
	QuoteCacheSize int           `env:"QUOTE_CACHE_SIZE" envDefault:"256"`
	QuoteCacheTTL  time.Duration `env:"QUOTE_CACHE_TTL" envDefault:"10m"`
}

// Load reads the configuration from the environment, applying defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// DenominationValues converts the configured rate card to money values.
func (c *Config) DenominationValues() (core.DenominationValues, error) {
	stack, err := core.ParseDecimalToCents(c.StackNoteValue)
	if err != nil {
		return core.DenominationValues{}, fmt.Errorf("STACK_NOTE_VALUE %q: %w", c.StackNoteValue, err)
	}
	roll, err := core.ParseDecimalToCents(c.RollOfCashValue)
	if err != nil {
		return core.DenominationValues{}, fmt.Errorf("ROLL_OF_CASH_VALUE %q: %w", c.RollOfCashValue, err)
	}
	loose, err := core.ParseDecimalToCents(c.LooseNoteValue)
	if err != nil {
		return core.DenominationValues{}, fmt.Errorf("LOOSE_NOTE_VALUE %q: %w", c.LooseNoteValue, err)
	}
	return core.DenominationValues{
		Stack: core.Money{Cents: stack},
		Roll:  core.Money{Cents: roll},
		Loose: core.Money{Cents: loose},
	}, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate log level
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	// Validate catalog backend
	validBackends := []string{"memory", "sqlite", "sheets"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.CatalogBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid catalog backend '%s': must be one of %v", c.CatalogBackend, validBackends))
	}

	// Seed file is optional, but when given it must exist
	if (c.CatalogBackend == "memory" || c.CatalogBackend == "sqlite") && c.CatalogSeedFile != "" {
		if _, err := os.Stat(c.CatalogSeedFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("catalog seed file does not exist: %s", c.CatalogSeedFile))
		}
	}

	// Validate SQLite configuration if backend is sqlite
	if c.CatalogBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			// Check if directory exists or can be created
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate Google Sheets configuration if backend is sheets
	if c.CatalogBackend == "sheets" {
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
		if c.GoogleRatesSheetName == "" {
			errors = append(errors, "Google rates sheet name is required when using sheets backend")
		}

		hasFile := c.GoogleServiceAccountFile != ""
		hasJSON := c.GoogleServiceAccountJSON != ""
		if !hasFile && !hasJSON {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON must be provided for sheets backend")
		}
		if hasFile {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	// Validate rate card
	if _, err := c.DenominationValues(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid denomination value: %v", err))
	}

	// Extra proxies are added to the private ranges trusted by default
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(strings.TrimSpace(cidr)); err != nil {
			errors = append(errors, fmt.Sprintf("invalid trusted proxy '%s': must be a CIDR such as 203.0.113.0/24", cidr))
		}
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}

	if c.QuoteCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid quote cache size %d: must be at least 1", c.QuoteCacheSize))
	}
	if c.QuoteCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid quote cache TTL %v: must be at least 1 second", c.QuoteCacheTTL))
	}

	if c.CatalogLoadTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid catalog load timeout %v: must be at least 1 second", c.CatalogLoadTimeout))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}
