// Package config loads application configuration from file, environment
// variables and defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"solana-token-scan/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logging   logging.Config  `mapstructure:"logging"`
	Market    MarketConfig    `mapstructure:"market"`
	Indexer   RPCConfig       `mapstructure:"indexer"`
	Ledger    RPCConfig       `mapstructure:"ledger"`
	Holders   HoldersConfig   `mapstructure:"holders"`
	Analyzer  AnalyzerConfig  `mapstructure:"analyzer"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// MarketConfig covers the market data provider.
type MarketConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// RPCConfig covers one JSON-RPC endpoint. APIKey, when set, is appended
// to the endpoint as an api-key query parameter.
type RPCConfig struct {
	Endpoint       string        `mapstructure:"endpoint"`
	APIKey         string        `mapstructure:"api_key"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
}

// HoldersConfig parameterises the holder distribution fallback chain.
type HoldersConfig struct {
	SolscanBaseURL string        `mapstructure:"solscan_base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// AnalyzerConfig governs the fan-out behaviour.
type AnalyzerConfig struct {
	SourceTimeout time.Duration `mapstructure:"source_timeout"`
}

// TelegramConfig captures the chat front end.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	Debug    bool   `mapstructure:"debug"`
}

// TelemetryConfig controls the metrics and health HTTP listener.
type TelemetryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TOKENSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "tokenscan")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("market.base_url", "https://api.dexscreener.com")
	v.SetDefault("market.request_timeout", "10s")
	v.SetDefault("market.user_agent", "tokenscan/1.0")

	// Secrets need an explicit default: viper only unmarshals env-bound
	// keys it already knows about, and these never appear in config files.
	v.SetDefault("indexer.endpoint", "https://mainnet.helius-rpc.com")
	v.SetDefault("indexer.api_key", "")
	v.SetDefault("indexer.request_timeout", "15s")
	v.SetDefault("indexer.max_retries", 2)

	v.SetDefault("ledger.endpoint", "https://api.mainnet-beta.solana.com")
	v.SetDefault("ledger.api_key", "")
	v.SetDefault("ledger.request_timeout", "15s")
	v.SetDefault("ledger.max_retries", 2)

	v.SetDefault("holders.solscan_base_url", "https://api.solscan.io")
	v.SetDefault("holders.request_timeout", "10s")

	v.SetDefault("analyzer.source_timeout", "12s")

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.debug", false)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.listen", ":9090")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Market.BaseURL == "" {
		return fmt.Errorf("market.base_url must be set")
	}
	if c.Indexer.Endpoint == "" {
		return fmt.Errorf("indexer.endpoint must be set")
	}
	if c.Ledger.Endpoint == "" {
		return fmt.Errorf("ledger.endpoint must be set")
	}
	if c.Analyzer.SourceTimeout <= 0 {
		return fmt.Errorf("analyzer.source_timeout must be greater than zero")
	}
	return nil
}

// ResolvedEndpoint returns the RPC endpoint with the API key attached.
func (r RPCConfig) ResolvedEndpoint() string {
	if r.APIKey == "" {
		return r.Endpoint
	}
	sep := "?"
	if strings.Contains(r.Endpoint, "?") {
		sep = "&"
	}
	return r.Endpoint + sep + "api-key=" + r.APIKey
}
