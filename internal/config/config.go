package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config application configuration
type Config struct {
	// Notion record store
	NotionToken      string `env:"NOTION_TOKEN,required"`
	NotionDatabaseID string `env:"NOTION_DATABASE_ID,required"`

	// IMAP intake
	IMAPHost        string        `env:"IMAP_HOST"` // host:port, resolved from IMAP_USER when empty
	IMAPUser        string        `env:"IMAP_USER,required"`
	IMAPPass        string        `env:"IMAP_PASS,required"`
	IMAPFolder      string        `env:"IMAP_FOLDER" envDefault:"INBOX"`
	IMAPSinceDays   int           `env:"IMAP_SINCE_DAYS" envDefault:"30"`
	IMAPDialTimeout time.Duration `env:"IMAP_DIAL_TIMEOUT" envDefault:"30s"`

	// Relevance filter tuning. These extend the built-in lists so bulk-mail
	// senders and noise phrases can be adjusted without a rebuild.
	ExtraSenderDenyList []string `env:"SENDER_DENY_LIST" envSeparator:","`
	ExtraNoisePhrases   []string `env:"NOISE_PHRASES" envSeparator:","`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // "json" or "text"
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.IMAPSinceDays < 1 {
		return nil, fmt.Errorf("IMAP_SINCE_DAYS must be at least 1, got %d", cfg.IMAPSinceDays)
	}

	return cfg, nil
}
