package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override file values,
// e.g. MILLENNIUM_MILLENNIUM_PASSWORD.
const EnvPrefix = "MILLENNIUM"

// Load loads the configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".millennium"))
		}

		// Check /etc
		v.AddConfigPath("/etc/millennium/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Millennium defaults; empty keys are registered so env overrides apply
	v.SetDefault("millennium.host", "")
	v.SetDefault("millennium.username", "")
	v.SetDefault("millennium.password", "")
	v.SetDefault("millennium.tls", false)
	v.SetDefault("millennium.timeout", 30)
	v.SetDefault("millennium.insecure_skip_verify", false)

	// Output defaults
	v.SetDefault("output.format", "table")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 28)

	// Filter defaults
	v.SetDefault("filter.presets", map[string]string{})
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Millennium.Host == "" {
		return fmt.Errorf("millennium.host is required")
	}
	if strings.Contains(cfg.Millennium.Host, "://") {
		return fmt.Errorf("millennium.host must not include a scheme, use millennium.tls instead")
	}

	if cfg.Millennium.Username == "" {
		return fmt.Errorf("millennium.username is required")
	}

	if cfg.Millennium.Timeout < 0 {
		return fmt.Errorf("invalid millennium.timeout: %d (must not be negative)", cfg.Millennium.Timeout)
	}

	// Validate output format
	validOutputs := map[string]bool{
		"table": true,
		"json":  true,
	}
	if !validOutputs[cfg.Output.Format] {
		return fmt.Errorf("invalid output format: %s", cfg.Output.Format)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

// RequestTimeout returns the configured timeout. Zero means the client default.
func (c MillenniumConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}
