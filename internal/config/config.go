package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	Maps    MapsConfig    `mapstructure:"maps"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Session SessionConfig `mapstructure:"session"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Port            int    `mapstructure:"port"`
	Mode            string `mapstructure:"mode"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// StoreConfig selects the durable per-key storage used for planner state.
type StoreConfig struct {
	Driver      string `mapstructure:"driver"` // postgres | valkey | memory
	PostgresURL string `mapstructure:"postgres_url"`
	ValkeyAddr  string `mapstructure:"valkey_addr"`
	KeyPrefix   string `mapstructure:"key_prefix"`

	// IdleTTL is how long an unused session stays loaded in memory.
	IdleTTL time.Duration `mapstructure:"idle_ttl"`
}

type MapsConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	Timeout         time.Duration `mapstructure:"timeout"`
	GeocodeCacheTTL time.Duration `mapstructure:"geocode_cache_ttl"`
	Region          string        `mapstructure:"region"`
}

type LLMConfig struct {
	Provider      string        `mapstructure:"provider"` // openai | gemini
	OpenAIKey     string        `mapstructure:"openai_key"`
	OpenAIModel   string        `mapstructure:"openai_model"`
	GeminiKey     string        `mapstructure:"gemini_key"`
	GeminiModel   string        `mapstructure:"gemini_model"`
	Temperature   float32       `mapstructure:"temperature"`
	MaxConcurrent int64         `mapstructure:"max_concurrent"`
	Timeout       time.Duration `mapstructure:"timeout"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
}

type SessionConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | console
}

// Load reads configuration from an optional .env file, an optional config.yaml
// and ITINERA_* environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	_ = godotenv.Load() // OK if missing

	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("server.shutdown_timeout", 10)
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.postgres_url", "")
	v.SetDefault("store.valkey_addr", "localhost:6379")
	v.SetDefault("store.key_prefix", "itinera")
	v.SetDefault("store.idle_ttl", 2*time.Hour)
	v.SetDefault("maps.api_key", "")
	v.SetDefault("maps.timeout", 10*time.Second)
	v.SetDefault("maps.geocode_cache_ttl", 24*time.Hour)
	v.SetDefault("maps.region", "")
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.openai_key", "")
	v.SetDefault("llm.openai_model", "gpt-3.5-turbo")
	v.SetDefault("llm.gemini_key", "")
	v.SetDefault("llm.gemini_model", "gemini-1.5-flash")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_concurrent", 5)
	v.SetDefault("llm.timeout", 45*time.Second)
	v.SetDefault("llm.cache_ttl", 30*time.Minute)
	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", 30*24*time.Hour)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// ITINERA_STORE_DRIVER -> store.driver
	v.SetEnvPrefix("ITINERA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
// Provider credentials are not required here: missing keys surface as errors
// on the endpoints that need them.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}

	switch c.Server.Mode {
	case "", "debug", "release", "test":
	default:
		errs = append(errs, fmt.Sprintf("server.mode must be debug, release or test, got %q", c.Server.Mode))
	}

	switch strings.ToLower(c.Store.Driver) {
	case "postgres":
		if c.Store.PostgresURL == "" {
			errs = append(errs, "store.postgres_url is required for the postgres driver")
		}
	case "valkey":
		if c.Store.ValkeyAddr == "" {
			errs = append(errs, "store.valkey_addr is required for the valkey driver")
		}
	case "memory":
	default:
		errs = append(errs, fmt.Sprintf("store.driver must be postgres, valkey or memory, got %q", c.Store.Driver))
	}

	switch strings.ToLower(c.LLM.Provider) {
	case "openai", "gemini":
	default:
		errs = append(errs, fmt.Sprintf("llm.provider must be openai or gemini, got %q", c.LLM.Provider))
	}
	if c.LLM.MaxConcurrent <= 0 {
		errs = append(errs, "llm.max_concurrent must be positive")
	}

	if len(c.Session.Secret) < 16 {
		errs = append(errs, "session.secret must be at least 16 characters")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
