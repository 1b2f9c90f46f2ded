package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the top-level hisab.yaml configuration.
type Config struct {
	Shop   ShopConfig   `yaml:"shop"`
	Fiscal FiscalConfig `yaml:"fiscal"`
	Cash   CashConfig   `yaml:"cash"`
	Git    GitConfig    `yaml:"git"`
}

// ShopConfig identifies the shop.
type ShopConfig struct {
	Name      string `yaml:"name"`
	GSTNumber string `yaml:"gst_number,omitempty"`
	Currency  string `yaml:"currency"`
	Timezone  string `yaml:"timezone"`
}

// FiscalConfig defines the fiscal year boundaries.
type FiscalConfig struct {
	YearStart string `yaml:"year_start"` // "MM-DD" format, e.g. "04-01"
}

// CashConfig seeds the cash book.
type CashConfig struct {
	OpeningBalance string `yaml:"opening_balance"`
}

// OpeningCash parses the configured opening cash balance. An empty value
// means zero.
func (c *Config) OpeningCash() (decimal.Decimal, error) {
	if c.Cash.OpeningBalance == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(c.Cash.OpeningBalance)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing opening balance %q: %w", c.Cash.OpeningBalance, err)
	}
	return d, nil
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a hisab.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new shop. The
// fiscal year starts April 1, matching the Indian financial year.
func Default(shopName string) *Config {
	return &Config{
		Shop: ShopConfig{
			Name:     shopName,
			Currency: "INR",
			Timezone: "Asia/Kolkata",
		},
		Fiscal: FiscalConfig{
			YearStart: "04-01",
		},
		Cash: CashConfig{
			OpeningBalance: "0",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Hisab",
			AuthorEmail: "books@hisab.dev",
		},
	}
}
