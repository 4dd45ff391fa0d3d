package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Millennium: MillenniumConfig{
			Host:     "erp.local:6017",
			Username: "admin",
			Timeout:  30,
		},
		Output:  OutputConfig{Format: "table"},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			modify: func(*Config) {},
		},
		{
			name:    "missing host",
			modify:  func(c *Config) { c.Millennium.Host = "" },
			wantErr: "millennium.host is required",
		},
		{
			name:    "host with scheme",
			modify:  func(c *Config) { c.Millennium.Host = "https://erp.local" },
			wantErr: "must not include a scheme",
		},
		{
			name:    "missing username",
			modify:  func(c *Config) { c.Millennium.Username = "" },
			wantErr: "millennium.username is required",
		},
		{
			name:    "negative timeout",
			modify:  func(c *Config) { c.Millennium.Timeout = -1 },
			wantErr: "invalid millennium.timeout",
		},
		{
			name:    "invalid output format",
			modify:  func(c *Config) { c.Output.Format = "xml" },
			wantErr: "invalid output format",
		},
		{
			name:    "invalid logging level",
			modify:  func(c *Config) { c.Logging.Level = "trace" },
			wantErr: "invalid logging level",
		},
		{
			name:    "invalid logging format",
			modify:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid logging format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `millennium:
  host: erp.local:6017
  username: admin
  password: secret
  tls: true
filter:
  presets:
    ativos: 'ativo == true'
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "erp.local:6017", cfg.Millennium.Host)
	assert.Equal(t, "admin", cfg.Millennium.Username)
	assert.Equal(t, "secret", cfg.Millennium.Password)
	assert.True(t, cfg.Millennium.TLS)
	assert.Equal(t, 30, cfg.Millennium.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Millennium.RequestTimeout())
	assert.Equal(t, "table", cfg.Output.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "ativo == true", cfg.Filter.Presets["ativos"])
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("millennium:\n  host: erp.local\n  username: admin\n"), 0o600))

	logFile := filepath.Join(dir, "millennium.log")
	t.Setenv("MILLENNIUM_MILLENNIUM_PASSWORD", "from-env")
	t.Setenv("MILLENNIUM_LOGGING_FILE", logFile)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Millennium.Password)
	assert.Equal(t, logFile, cfg.Logging.File)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config")
}
