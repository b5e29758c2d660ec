package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/recount-dev/recount/internal/matcher"
	"github.com/recount-dev/recount/internal/statement"
)

// Config represents the top-level recount.yaml configuration.
type Config struct {
	Currency  string          `yaml:"currency"`
	Matching  MatchingConfig  `yaml:"matching"`
	Statement StatementConfig `yaml:"statement"`
	Accounts  []Account       `yaml:"accounts,omitempty"`
}

// MatchingConfig controls the matcher.
type MatchingConfig struct {
	// ToleranceDays is a pointer so an explicit `tolerance_days: 0` in the
	// file is distinguishable from the key being absent.
	ToleranceDays *int `yaml:"tolerance_days"`
	ExactDates    bool `yaml:"exact_dates"`
}

// Tolerance returns the configured tolerance in days, or the matcher
// default when the key is absent.
func (m MatchingConfig) Tolerance() int {
	if m.ToleranceDays == nil {
		return matcher.DefaultToleranceDays
	}
	return *m.ToleranceDays
}

// StatementConfig controls statement CSV parsing.
type StatementConfig struct {
	// DateFormats are Go reference-time layouts tried in order.
	DateFormats []string `yaml:"date_formats"`
	// Rules is the path to the categorization rules file, relative to the
	// project root.
	Rules string `yaml:"rules"`
}

// Account maps a bank account to its ledger export file.
type Account struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	LastFour string `yaml:"last_four,omitempty"`
}

// Load reads a recount.yaml file from disk.
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

// Default returns a Config with sensible defaults for a new project.
func Default(currency string) *Config {
	tolerance := matcher.DefaultToleranceDays
	return &Config{
		Currency: currency,
		Matching: MatchingConfig{
			ToleranceDays: &tolerance,
		},
		Statement: StatementConfig{
			DateFormats: append([]string(nil), statement.DefaultDateFormats...),
			Rules:       "rules/categorization-rules.yaml",
		},
	}
}

// FindAccount looks up an account by ID.
func (c *Config) FindAccount(accountID string) (Account, bool) {
	for _, a := range c.Accounts {
		if a.ID == accountID {
			return a, true
		}
	}
	return Account{}, false
}
