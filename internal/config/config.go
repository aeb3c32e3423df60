// Package config handles configuration loading for FinSense.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "FINSENSE"

// Classifier backends.
const (
	ProviderHuggingFace = "huggingface"
	ProviderOllama      = "ollama"
	ProviderLexicon     = "lexicon"
)

// Hugging Face inference tasks.
const (
	TaskTextClassification = "text-classification"
	TaskZeroShot           = "zero-shot"
)

// Config represents the complete application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     yaml:"server"`
	Classifier ClassifierConfig `mapstructure:"classifier" yaml:"classifier"`
	Stock      StockConfig      `mapstructure:"stock"      yaml:"stock"`
	News       NewsConfig       `mapstructure:"news"       yaml:"news"`
	Logging    LoggingConfig    `mapstructure:"logging"    yaml:"logging"`
	Tracing    TracingConfig    `mapstructure:"tracing"    yaml:"tracing"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host              string   `mapstructure:"host"                yaml:"host"`
	Port              int      `mapstructure:"port"                yaml:"port"`
	CORSOrigins       []string `mapstructure:"cors_origins"        yaml:"cors_origins"`
	RequestTimeoutSec int      `mapstructure:"request_timeout_sec" yaml:"request_timeout_sec"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RequestTimeout returns the per-request deadline.
func (s ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSec) * time.Second
}

// ClassifierConfig selects and configures the sentiment model backend.
type ClassifierConfig struct {
	Provider       string `mapstructure:"provider"        yaml:"provider"` // "huggingface", "ollama", "lexicon"
	HuggingFaceURL string `mapstructure:"huggingface_url" yaml:"huggingface_url"`
	Model          string `mapstructure:"model"           yaml:"model"`
	Task           string `mapstructure:"task"            yaml:"task"` // "text-classification" or "zero-shot"
	HFToken        string `mapstructure:"hf_token"        yaml:"hf_token" json:"-"`
	OllamaURL      string `mapstructure:"ollama_url"      yaml:"ollama_url"`
	OllamaModel    string `mapstructure:"ollama_model"    yaml:"ollama_model"`
	MaxInputChars  int    `mapstructure:"max_input_chars" yaml:"max_input_chars"`
	TimeoutSec     int    `mapstructure:"timeout_sec"     yaml:"timeout_sec"`
}

// Timeout returns the HTTP timeout for one classifier call.
func (c ClassifierConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// StockConfig holds Yahoo Finance client settings.
type StockConfig struct {
	Enabled       bool    `mapstructure:"enabled"        yaml:"enabled"`
	BaseURL       string  `mapstructure:"base_url"       yaml:"base_url"`
	DefaultPeriod string  `mapstructure:"default_period" yaml:"default_period"`
	CacheTTLSec   int     `mapstructure:"cache_ttl_sec"  yaml:"cache_ttl_sec"`
	RateLimit     float64 `mapstructure:"rate_limit"     yaml:"rate_limit"` // requests per second
}

// CacheTTL returns the response cache lifetime.
func (s StockConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSec) * time.Second
}

// NewsConfig holds the headline feed settings.
type NewsConfig struct {
	FeedURL string `mapstructure:"feed_url" yaml:"feed_url"` // %s is replaced with the symbol
	Limit   int    `mapstructure:"limit"    yaml:"limit"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// TracingConfig toggles OpenTelemetry span export.
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.finsense/config.yaml (home directory)
//  3. /etc/finsense/config.yaml (system)
//
// Environment variables override config file values.
// Format: FINSENSE_<SECTION>_<KEY>, e.g., FINSENSE_CLASSIFIER_HF_TOKEN
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".finsense"))
	v.AddConfigPath("/etc/finsense")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return decode(v)
}

// Default returns the built-in configuration with environment overrides
// applied but no config file.
func Default() *Config {
	cfg, err := decode(newViper())
	if err != nil {
		panic(err) // defaults always decode
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Override sensitive values from environment
	overrideFromEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Classifier.Provider {
	case ProviderHuggingFace, ProviderOllama, ProviderLexicon:
	default:
		return fmt.Errorf("config: unknown classifier provider %q", c.Classifier.Provider)
	}
	switch c.Classifier.Task {
	case TaskTextClassification, TaskZeroShot:
	default:
		return fmt.Errorf("config: unknown classifier task %q", c.Classifier.Task)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	if c.Classifier.MaxInputChars <= 0 {
		return fmt.Errorf("config: max_input_chars must be positive")
	}
	if c.News.Limit <= 0 {
		return fmt.Errorf("config: news limit must be positive")
	}
	return nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.request_timeout_sec", 120)

	// Classifier defaults
	v.SetDefault("classifier.provider", ProviderHuggingFace)
	v.SetDefault("classifier.huggingface_url", "https://api-inference.huggingface.co/models")
	v.SetDefault("classifier.model", "ProsusAI/finbert")
	v.SetDefault("classifier.task", TaskTextClassification)
	v.SetDefault("classifier.hf_token", "")
	v.SetDefault("classifier.ollama_url", "http://localhost:11434")
	v.SetDefault("classifier.ollama_model", "qwen2.5:7b")
	v.SetDefault("classifier.max_input_chars", 512)
	v.SetDefault("classifier.timeout_sec", 30)

	// Stock defaults
	v.SetDefault("stock.enabled", true)
	v.SetDefault("stock.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("stock.default_period", "1mo")
	v.SetDefault("stock.cache_ttl_sec", 300) // 5 minutes
	v.SetDefault("stock.rate_limit", 5)

	// News defaults
	v.SetDefault("news.feed_url", "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US")
	v.SetDefault("news.limit", 10)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("tracing.enabled", false)
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("FINSENSE_CLASSIFIER_HF_TOKEN"); key != "" {
		cfg.Classifier.HFToken = key
	}
	// huggingface-cli convention
	if cfg.Classifier.HFToken == "" {
		cfg.Classifier.HFToken = os.Getenv("HF_TOKEN")
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
