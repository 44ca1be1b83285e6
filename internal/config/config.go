package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

type Config struct {
	Store       string `yaml:"store"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresURL string `yaml:"postgres_url"`

	HTTPAddr string `yaml:"http_addr"`

	InvoiceTopic string `yaml:"invoice_topic"`
	RetryTopic   string `yaml:"retry_topic"`

	ConsumerInterval Duration `yaml:"consumer_interval"`
	RetryInterval    Duration `yaml:"retry_interval"`
	PollWait         Duration `yaml:"poll_wait"`
	ChargeTimeout    Duration `yaml:"charge_timeout"`
	Visibility       Duration `yaml:"visibility"`

	BatchSize int `yaml:"batch_size"`

	// Simulated provider knobs, used when no real gateway is wired.
	ProviderSuccessRate int `yaml:"provider_success_rate"`
	ProviderNetworkRate int `yaml:"provider_network_rate"`

	Verbose bool `yaml:"verbose"`
}

func Default() Config {
	return Config{
		Store:               StoreMemory,
		SQLitePath:          "billing.db",
		HTTPAddr:            ":8080",
		InvoiceTopic:        "invoice",
		RetryTopic:          "retry",
		ConsumerInterval:    Duration(15 * time.Second),
		RetryInterval:       Duration(2 * time.Minute),
		PollWait:            Duration(time.Second),
		ChargeTimeout:       Duration(10 * time.Second),
		Visibility:          Duration(5 * time.Minute),
		BatchSize:           100,
		ProviderSuccessRate: 70,
		ProviderNetworkRate: 5,
	}
}

// Load reads the YAML config at path, applying defaults for anything
// unset. A missing file is not an error; the defaults run as-is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", path, err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreSQLite, StorePostgres:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}

	if c.Store == StorePostgres && c.PostgresURL == "" {
		return errors.New("postgres store requires postgres_url")
	}

	if c.BatchSize <= 0 {
		return errors.New("batch_size must be positive")
	}

	return nil
}

// Duration parses "15s"-style YAML values.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
