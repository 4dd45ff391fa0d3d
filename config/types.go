package config

// Config represents the complete configuration structure
type Config struct {
	Millennium MillenniumConfig `mapstructure:"millennium"`
	Output     OutputConfig     `mapstructure:"output"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Filter     FilterConfig     `mapstructure:"filter"`
}

// MillenniumConfig holds Millennium API connection details
type MillenniumConfig struct {
	Host               string `mapstructure:"host"`
	Username           string `mapstructure:"username"`
	Password           string `mapstructure:"password"`
	TLS                bool   `mapstructure:"tls"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify"`
	// Timeout is the per-request timeout in seconds
	Timeout int `mapstructure:"timeout"`
}

// OutputConfig controls how command results are printed
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
	// File enables rotated file output in addition to stderr
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// FilterConfig contains named record filter expressions
type FilterConfig struct {
	Presets map[string]string `mapstructure:"presets"`
}
