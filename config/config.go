// Package config loads the service configuration from YAML with
// environment overrides for secrets.
package config

import (
	"flag"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables carrying secrets. Secrets never live in the YAML
// file.
const (
	EnvDatabaseDSN      = "SOLWATCH_DB_DSN"
	EnvWalletPassphrase = "SOLWATCH_WALLET_PASSPHRASE"
	EnvTelegramToken    = "SOLWATCH_TELEGRAM_TOKEN"
)

// Duration decodes YAML values like "30s" or "15m" into a time.Duration.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return errors.Wrapf(err, "parse duration %q", value.Value)
	}
	*d = Duration(parsed)
	return nil
}

// Std converts back to the standard library type.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the full service configuration.
type Config struct {
	// AggregatorURL is the base URL of the swap quote/execution API.
	AggregatorURL string `yaml:"aggregator_url"`

	// WalletAddress is the taker address; WalletKeyFile holds the
	// encrypted signing secret produced by the wallet package.
	WalletAddress string `yaml:"wallet_address"`
	WalletKeyFile string `yaml:"wallet_key_file"`

	// CandleSource selects the market-data provider: binance or bybit.
	// WatchSymbols are scanned for entry signals on every ScanInterval.
	CandleSource string   `yaml:"candle_source"`
	WatchSymbols []string `yaml:"watch_symbols"`
	ScanInterval Duration `yaml:"scan_interval"`

	// MonitorInterval is the pause between monitor cycles; PlanInterval
	// spaces plan evaluations inside a cycle.
	MonitorInterval Duration `yaml:"monitor_interval"`
	PlanInterval    Duration `yaml:"plan_interval"`

	LedgerDir    string `yaml:"ledger_dir"`
	SnapshotsDir string `yaml:"snapshots_dir"`

	// MetricsAddr exposes prometheus metrics when non-empty.
	MetricsAddr string `yaml:"metrics_addr"`

	// TelegramChatID enables telegram notifications together with the
	// token env variable.
	TelegramChatID int64 `yaml:"telegram_chat_id"`

	// Secrets resolved from the environment.
	DatabaseDSN      string `yaml:"-"`
	WalletPassphrase string `yaml:"-"`
	TelegramToken    string `yaml:"-"`
}

// Get parses flags, loads the YAML file and applies defaults.
func Get() (*Config, error) {
	path := flag.String("config", "config.yaml", "path to yaml config")
	flag.Parse()
	return Load(*path)
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}

	cfg.DatabaseDSN = os.Getenv(EnvDatabaseDSN)
	cfg.WalletPassphrase = os.Getenv(EnvWalletPassphrase)
	cfg.TelegramToken = os.Getenv(EnvTelegramToken)

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.CandleSource == "" {
		c.CandleSource = "binance"
	}
	if c.MonitorInterval <= 0 {
		c.MonitorInterval = Duration(time.Minute)
	}
	if c.PlanInterval <= 0 {
		c.PlanInterval = Duration(500 * time.Millisecond)
	}
	if c.ScanInterval <= 0 {
		c.ScanInterval = Duration(15 * time.Minute)
	}
	if c.LedgerDir == "" {
		c.LedgerDir = "./wal/trades"
	}
	if c.SnapshotsDir == "" {
		c.SnapshotsDir = "./wal/prices"
	}
}

func (c *Config) validate() error {
	if c.AggregatorURL == "" {
		return errors.New("aggregator_url is required")
	}
	if c.WalletAddress == "" {
		return errors.New("wallet_address is required")
	}
	if c.WalletKeyFile == "" {
		return errors.New("wallet_key_file is required")
	}
	if c.DatabaseDSN == "" {
		return errors.Errorf("%s env is required", EnvDatabaseDSN)
	}
	if c.WalletPassphrase == "" {
		return errors.Errorf("%s env is required", EnvWalletPassphrase)
	}
	if c.CandleSource != "binance" && c.CandleSource != "bybit" {
		return errors.Errorf("unsupported candle_source %q", c.CandleSource)
	}
	return nil
}
