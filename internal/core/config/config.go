package config

import (
	"fmt"
	"time"

	"github.com/vietddude/storefront/internal/infra/cache"
)

// Duration parses "5s"/"2m" style YAML values into a time.Duration.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server  ServerConfig      `yaml:"server"`
	API     APIConfig         `yaml:"api"`
	Redis   cache.RedisConfig `yaml:"redis"`
	Cache   CacheConfig       `yaml:"cache"`
	Auth    AuthConfig        `yaml:"auth"`
	Logging LoggingConfig     `yaml:"logging"`
}

// ServerConfig holds health/metrics server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// APIConfig holds remote order-service settings.
type APIConfig struct {
	BaseURL string   `yaml:"base_url"`
	Timeout Duration `yaml:"timeout"`
}

// CacheConfig holds data cache tuning.
type CacheConfig struct {
	StaleTime       Duration `yaml:"stale_time"`       // snapshot freshness window
	RefreshInterval Duration `yaml:"refresh_interval"` // background refresher tick
}

// AuthConfig holds credential storage settings.
type AuthConfig struct {
	TokenFile string `yaml:"token_file"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}
