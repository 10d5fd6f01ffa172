package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("api.base_url is required")
	}

	// Set defaults if necessary
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = Duration(10 * time.Second)
	}
	if cfg.Cache.StaleTime == 0 {
		cfg.Cache.StaleTime = Duration(5 * time.Minute)
	}
	if cfg.Cache.RefreshInterval == 0 {
		cfg.Cache.RefreshInterval = Duration(30 * time.Second)
	}
	if cfg.Auth.TokenFile == "" {
		cfg.Auth.TokenFile = ".storefront/token"
	}

	return &cfg, nil
}
