package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	home := t.TempDir()

	cfg, err := Load(home)
	require.NoError(t, err)

	def := DefaultConfig()
	require.Equal(t, home, cfg.Home)
	require.Equal(t, def.ChainID, cfg.ChainID)
	require.Equal(t, def.Admin, cfg.Admin)
	require.Equal(t, def.API.Address, cfg.API.Address)
	require.Equal(t, 30*time.Second, cfg.API.ReadTimeout)
	require.Equal(t, filepath.Join(home, "data"), cfg.DataDir())
}

func TestWriteThenLoad(t *testing.T) {
	home := t.TempDir()

	cfg := DefaultConfig()
	cfg.Admin = "treasury"
	cfg.DBBackend = BackendMemDB
	cfg.API.WriteTimeout = 5 * time.Second
	cfg.API.RateLimitBurst = 7

	path, err := Write(home, cfg)
	require.NoError(t, err)
	require.Equal(t, FilePath(home), path)

	_, err = Write(home, cfg)
	require.Error(t, err, "existing config must not be overwritten")

	loaded, err := Load(home)
	require.NoError(t, err)
	require.Equal(t, "treasury", loaded.Admin)
	require.Equal(t, BackendMemDB, loaded.DBBackend)
	require.Equal(t, 5*time.Second, loaded.API.WriteTimeout)
	require.Equal(t, 7, loaded.API.RateLimitBurst)
}

func TestEnvironmentOverrides(t *testing.T) {
	home := t.TempDir()
	_, err := Write(home, DefaultConfig())
	require.NoError(t, err)

	t.Setenv("INCENTIVES_API_ADDRESS", "127.0.0.1:9999")
	t.Setenv("INCENTIVES_ORACLE", "feeder")

	cfg, err := Load(home)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9999", cfg.API.Address)
	require.Equal(t, "feeder", cfg.Oracle)
}

func TestDotEnvFile(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, ".env"), []byte("INCENTIVES_CHAIN_ID=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("INCENTIVES_CHAIN_ID") })

	cfg, err := Load(home)
	require.NoError(t, err)
	require.Equal(t, "from-dotenv", cfg.ChainID)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"empty chain id", func(c *Config) { c.ChainID = "" }, true},
		{"unknown backend", func(c *Config) { c.DBBackend = "rocksdb" }, true},
		{"empty admin", func(c *Config) { c.Admin = "" }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"api without address", func(c *Config) { c.API.Address = "" }, true},
		{"disabled api without address", func(c *Config) { c.API.Enable = false; c.API.Address = "" }, false},
		{"negative rate", func(c *Config) { c.API.RateLimitPerSecond = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
