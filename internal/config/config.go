// Package config loads the process-wide configuration: provider
// credentials, proxy routing, fetch tuning, and server/log settings.
// It is read once at startup and passed into constructors; fetch logic
// never reads ambient state.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Provider ProviderConfig `yaml:"provider" mapstructure:"provider"`
	Proxy    ProxyConfig    `yaml:"proxy" mapstructure:"proxy"`
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// ProviderConfig holds scraping-API provider settings. Name selects the
// provider family ("scraperapi" or "scrapingbee"); empty disables the
// provider tier unless a request supplies its own credentials.
type ProviderConfig struct {
	Name               string `yaml:"name" mapstructure:"name"`
	Key                string `yaml:"key" mapstructure:"key"`
	Render             bool   `yaml:"render" mapstructure:"render"`
	PremiumProxy       bool   `yaml:"premium_proxy" mapstructure:"premium_proxy"`
	ScraperAPIBaseURL  string `yaml:"scraperapi_base_url" mapstructure:"scraperapi_base_url"`
	ScrapingBeeBaseURL string `yaml:"scrapingbee_base_url" mapstructure:"scrapingbee_base_url"`
}

// ProxyConfig holds the optional forward-proxy escalation target.
type ProxyConfig struct {
	URL string `yaml:"url" mapstructure:"url"`
}

// FetchConfig tunes the direct/proxy fetch tiers.
type FetchConfig struct {
	MaxAttempts int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	TimeoutMS   int     `yaml:"timeout_ms" mapstructure:"timeout_ms"`
	HostRate    float64 `yaml:"host_rate" mapstructure:"host_rate"`
	HostBurst   int     `yaml:"host_burst" mapstructure:"host_burst"`
}

// Timeout returns the per-attempt timeout as a duration.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutMS) * time.Millisecond
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SCRAPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("provider.name", "")
	v.SetDefault("provider.render", false)
	v.SetDefault("provider.premium_proxy", false)
	v.SetDefault("provider.scraperapi_base_url", "https://api.scraperapi.com")
	v.SetDefault("provider.scrapingbee_base_url", "https://app.scrapingbee.com/api/v1")
	v.SetDefault("fetch.max_attempts", 3)
	v.SetDefault("fetch.timeout_ms", 10000)
	v.SetDefault("fetch.host_rate", 2.0)
	v.SetDefault("fetch.host_burst", 4)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
