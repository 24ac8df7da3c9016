// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. GRANT_SERVER_PORT.
const EnvPrefix = "GRANT"

// Config is the application configuration. Values come from defaults, an
// optional YAML or JSON file, and GRANT_* environment variables, in that order
// of increasing precedence.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Engine   EngineConfig   `mapstructure:"engine"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	RateLimit      float64       `mapstructure:"rate_limit"` // requests per second per client, 0 disables
	RateBurst      int           `mapstructure:"rate_burst"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
}

// DatabaseConfig configures the PostgreSQL store. An empty URL disables it.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig configures the report cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// LLMConfig configures section auto-completion. An empty APIKey disables it.
type LLMConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Tier        string        `mapstructure:"tier"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// EngineConfig tunes the scoring engine.
type EngineConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			RateLimit:    10,
			RateBurst:    20,
		},
		Log:    LogConfig{Level: "info", Format: "json"},
		Redis:  RedisConfig{CacheTTL: 10 * time.Minute},
		LLM:    LLMConfig{Tier: "standard", Temperature: 0.4, MaxTokens: 1024, Timeout: 30 * time.Second},
		Engine: EngineConfig{Concurrency: 4},
	}
}

// Load reads configuration. path may be empty, in which case only defaults
// and the environment are used.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api key env: %w", err)
	}
	if err := v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind database env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("server.rate_burst", d.Server.RateBurst)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("database.url", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cache_ttl", d.Redis.CacheTTL)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.tier", d.LLM.Tier)
	v.SetDefault("llm.temperature", d.LLM.Temperature)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("engine.concurrency", d.Engine.Concurrency)
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("config error: 'server.port' must be between 1 and 65535"))
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		errs = append(errs, fmt.Errorf("config error: 'server.rate_limit' and 'server.rate_burst' must be non-negative"))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("config error: unknown 'log.level' %q", c.Log.Level))
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		errs = append(errs, fmt.Errorf("config error: 'log.format' must be json or console"))
	}
	if c.Redis.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("config error: 'redis.cache_ttl' must be non-negative"))
	}
	switch c.LLM.Tier {
	case "lite", "standard", "advanced":
	default:
		errs = append(errs, fmt.Errorf("config error: unknown 'llm.tier' %q", c.LLM.Tier))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, fmt.Errorf("config error: 'llm.temperature' must be within [0, 2]"))
	}
	if c.LLM.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("config error: 'llm.max_tokens' must be non-negative"))
	}
	if c.Engine.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("config error: 'engine.concurrency' must be at least 1"))
	}

	return errors.Join(errs...)
}

// MergeWithDefaults returns a copy of c with empty fields filled from defaults.
// CLI commands use it to let explicitly passed flags win over the loaded file.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Server.Port == 0 {
		result.Server.Port = defaults.Server.Port
	}
	if result.Log.Level == "" {
		result.Log.Level = defaults.Log.Level
	}
	if result.Log.Format == "" {
		result.Log.Format = defaults.Log.Format
	}
	if result.Database.URL == "" {
		result.Database.URL = defaults.Database.URL
	}
	if result.Redis.Addr == "" {
		result.Redis.Addr = defaults.Redis.Addr
		result.Redis.Password = defaults.Redis.Password
		result.Redis.DB = defaults.Redis.DB
	}
	if result.Redis.CacheTTL == 0 {
		result.Redis.CacheTTL = defaults.Redis.CacheTTL
	}
	if result.LLM.APIKey == "" {
		result.LLM.APIKey = defaults.LLM.APIKey
	}
	if result.LLM.Tier == "" {
		result.LLM.Tier = defaults.LLM.Tier
	}
	if result.LLM.Temperature == 0 {
		result.LLM.Temperature = defaults.LLM.Temperature
	}
	if result.LLM.MaxTokens == 0 {
		result.LLM.MaxTokens = defaults.LLM.MaxTokens
	}
	if result.LLM.Timeout == 0 {
		result.LLM.Timeout = defaults.LLM.Timeout
	}
	if result.Engine.Concurrency == 0 {
		result.Engine.Concurrency = defaults.Engine.Concurrency
	}
	if result.Server.ReadTimeout == 0 {
		result.Server.ReadTimeout = defaults.Server.ReadTimeout
	}
	if result.Server.WriteTimeout == 0 {
		result.Server.WriteTimeout = defaults.Server.WriteTimeout
	}
	if result.Server.RateLimit == 0 {
		result.Server.RateLimit = defaults.Server.RateLimit
		result.Server.RateBurst = defaults.Server.RateBurst
	}
	if len(result.Server.AllowedOrigins) == 0 {
		result.Server.AllowedOrigins = defaults.Server.AllowedOrigins
	}

	return result
}
