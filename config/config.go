package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults match the daemon's stock deployment.
const (
	DefaultWalletHost     = "http://127.0.0.1:2345"
	DefaultExplorerURL    = "https://explorer.api.sero.cash/block/count"
	DefaultNativeCurrency = "SERO"
	DefaultPageSize       = 10

	DefaultAccountRefreshInterval = 1 * time.Second
	DefaultTxRefreshInterval      = 10 * time.Second
	DefaultBlockRefreshInterval   = 10 * time.Second
	DefaultRequestTimeout         = 15 * time.Second
)

type Config struct {
	WalletHost     string
	ExplorerURL    string
	NativeCurrency string
	PageSize       int

	AccountRefreshInterval time.Duration
	TxRefreshInterval      time.Duration
	BlockRefreshInterval   time.Duration
	RequestTimeout         time.Duration
}

// duration lets intervals be written as "5s" or "500ms" in YAML.
type duration time.Duration

func (d *duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", node.Value, err)
	}
	*d = duration(parsed)
	return nil
}

func (d duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

type configTmp struct {
	WalletHost     string `yaml:"wallet_host"`
	ExplorerURL    string `yaml:"explorer_url"`
	NativeCurrency string `yaml:"native_currency"`
	PageSize       int    `yaml:"page_size"`

	AccountRefreshInterval duration `yaml:"account_refresh_interval"`
	TxRefreshInterval      duration `yaml:"tx_refresh_interval"`
	BlockRefreshInterval   duration `yaml:"block_refresh_interval"`
	RequestTimeout         duration `yaml:"request_timeout"`
}

// Get loads configuration from the --config YAML file when given, otherwise
// from CLI flags. The second return is true when --setup was requested, so
// main can hand off to the wizard.
func Get() (Config, bool, error) {
	configPath := flag.String("config", "", "path to yaml config")
	setup := flag.Bool("setup", false, "run the interactive configuration wizard")
	host := flag.String("wallethost", DefaultWalletHost, "wallet daemon base URL")
	explorer := flag.String("explorerurl", DefaultExplorerURL, "block explorer count endpoint")
	currency := flag.String("currency", DefaultNativeCurrency, "native currency symbol")
	pageSize := flag.Int("pagesize", DefaultPageSize, "transaction page size")
	accountInterval := flag.Duration("accountinterval", DefaultAccountRefreshInterval, "account refresh interval")
	txInterval := flag.Duration("txinterval", DefaultTxRefreshInterval, "transaction refresh interval")
	blockInterval := flag.Duration("blockinterval", DefaultBlockRefreshInterval, "block height refresh interval")
	timeout := flag.Duration("timeout", DefaultRequestTimeout, "backend request timeout")
	flag.Parse()

	if *setup {
		return Config{}, true, nil
	}

	if *configPath != "" {
		cfg, err := getYaml(*configPath)
		return cfg, false, err
	}

	cfg := Config{
		WalletHost:             *host,
		ExplorerURL:            *explorer,
		NativeCurrency:         *currency,
		PageSize:               *pageSize,
		AccountRefreshInterval: *accountInterval,
		TxRefreshInterval:      *txInterval,
		BlockRefreshInterval:   *blockInterval,
		RequestTimeout:         *timeout,
	}
	return cfg, false, cfg.validate()
}

func getYaml(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var tmp configTmp
	if err := yaml.Unmarshal(data, &tmp); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg := Config{
		WalletHost:             tmp.WalletHost,
		ExplorerURL:            tmp.ExplorerURL,
		NativeCurrency:         tmp.NativeCurrency,
		PageSize:               tmp.PageSize,
		AccountRefreshInterval: time.Duration(tmp.AccountRefreshInterval),
		TxRefreshInterval:      time.Duration(tmp.TxRefreshInterval),
		BlockRefreshInterval:   time.Duration(tmp.BlockRefreshInterval),
		RequestTimeout:         time.Duration(tmp.RequestTimeout),
	}
	cfg.applyDefaults()
	return cfg, cfg.validate()
}

func (c *Config) applyDefaults() {
	if c.WalletHost == "" {
		c.WalletHost = DefaultWalletHost
	}
	if c.ExplorerURL == "" {
		c.ExplorerURL = DefaultExplorerURL
	}
	if c.NativeCurrency == "" {
		c.NativeCurrency = DefaultNativeCurrency
	}
	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}
	if c.AccountRefreshInterval == 0 {
		c.AccountRefreshInterval = DefaultAccountRefreshInterval
	}
	if c.TxRefreshInterval == 0 {
		c.TxRefreshInterval = DefaultTxRefreshInterval
	}
	if c.BlockRefreshInterval == 0 {
		c.BlockRefreshInterval = DefaultBlockRefreshInterval
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
}

func (c Config) validate() error {
	if c.PageSize < 1 {
		return fmt.Errorf("page size must be at least 1, got %d", c.PageSize)
	}
	for name, d := range map[string]time.Duration{
		"account_refresh_interval": c.AccountRefreshInterval,
		"tx_refresh_interval":      c.TxRefreshInterval,
		"block_refresh_interval":   c.BlockRefreshInterval,
		"request_timeout":          c.RequestTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	return nil
}

// Write saves the configuration as YAML; the setup wizard uses this.
func (c Config) Write(path string) error {
	tmp := configTmp{
		WalletHost:             c.WalletHost,
		ExplorerURL:            c.ExplorerURL,
		NativeCurrency:         c.NativeCurrency,
		PageSize:               c.PageSize,
		AccountRefreshInterval: duration(c.AccountRefreshInterval),
		TxRefreshInterval:      duration(c.TxRefreshInterval),
		BlockRefreshInterval:   duration(c.BlockRefreshInterval),
		RequestTimeout:         duration(c.RequestTimeout),
	}
	data, err := yaml.Marshal(tmp)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
