package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. INCENTIVES_API_ADDRESS
	EnvPrefix = "INCENTIVES"

	configDir  = "config"
	configName = "config"
	configType = "toml"
	envFile    = ".env"
)

// Supported database backends
const (
	BackendGoLevelDB = "goleveldb"
	BackendMemDB     = "memdb"
)

// Config is the daemon configuration
type Config struct {
	Home      string    `mapstructure:"-" toml:"-"`
	ChainID   string    `mapstructure:"chain_id" toml:"chain_id"`
	DBBackend string    `mapstructure:"db_backend" toml:"db_backend"`
	Admin     string    `mapstructure:"admin" toml:"admin"`
	Oracle    string    `mapstructure:"oracle" toml:"oracle"`
	LogLevel  string    `mapstructure:"log_level" toml:"log_level"`
	LogFormat string    `mapstructure:"log_format" toml:"log_format"`
	// CheckInvariants re-verifies the ledger invariants after every commit
	CheckInvariants bool      `mapstructure:"check_invariants" toml:"check_invariants"`
	API             APIConfig `mapstructure:"api" toml:"api"`
}

// APIConfig configures the REST and websocket server
type APIConfig struct {
	Enable             bool          `mapstructure:"enable" toml:"enable"`
	Address            string        `mapstructure:"address" toml:"address"`
	EnableWebsocket    bool          `mapstructure:"enable_websocket" toml:"enable_websocket"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout" toml:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout" toml:"write_timeout"`
	RateLimitPerSecond int           `mapstructure:"rate_limit_per_second" toml:"rate_limit_per_second"`
	RateLimitBurst     int           `mapstructure:"rate_limit_burst" toml:"rate_limit_burst"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		ChainID:         "incentives-1",
		DBBackend:       BackendGoLevelDB,
		Admin:           "admin",
		Oracle:          "oracle",
		LogLevel:        "info",
		LogFormat:       "json",
		CheckInvariants: true,
		API: APIConfig{
			Enable:             true,
			Address:            "0.0.0.0:8080",
			EnableWebsocket:    true,
			ReadTimeout:        30 * time.Second,
			WriteTimeout:       30 * time.Second,
			RateLimitPerSecond: 20,
			RateLimitBurst:     40,
		},
	}
}

// FilePath returns the location of config.toml under home
func FilePath(home string) string {
	return filepath.Join(home, configDir, configName+"."+configType)
}

// DataDir returns the database directory under home
func (c *Config) DataDir() string {
	return filepath.Join(c.Home, "data")
}

// Load reads <home>/config/config.toml, applies environment overrides and
// validates the result. A missing config file leaves the defaults in place.
// Variables in <home>/.env are exported before overrides are read.
func Load(home string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(home, envFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(filepath.Join(home, configDir))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Home = home

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so that AutomaticEnv can override keys
// absent from the file
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("chain_id", cfg.ChainID)
	v.SetDefault("db_backend", cfg.DBBackend)
	v.SetDefault("admin", cfg.Admin)
	v.SetDefault("oracle", cfg.Oracle)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_format", cfg.LogFormat)
	v.SetDefault("check_invariants", cfg.CheckInvariants)
	v.SetDefault("api.enable", cfg.API.Enable)
	v.SetDefault("api.address", cfg.API.Address)
	v.SetDefault("api.enable_websocket", cfg.API.EnableWebsocket)
	v.SetDefault("api.read_timeout", cfg.API.ReadTimeout)
	v.SetDefault("api.write_timeout", cfg.API.WriteTimeout)
	v.SetDefault("api.rate_limit_per_second", cfg.API.RateLimitPerSecond)
	v.SetDefault("api.rate_limit_burst", cfg.API.RateLimitBurst)
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.ChainID == "" {
		return errors.New("chain_id cannot be empty")
	}
	switch c.DBBackend {
	case BackendGoLevelDB, BackendMemDB:
	default:
		return fmt.Errorf("unsupported db_backend %q", c.DBBackend)
	}
	if c.Admin == "" {
		return errors.New("admin cannot be empty")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	switch c.LogFormat {
	case "json", "plain":
	default:
		return fmt.Errorf("unsupported log_format %q", c.LogFormat)
	}
	if c.API.Enable && c.API.Address == "" {
		return errors.New("api.address cannot be empty when the API is enabled")
	}
	if c.API.RateLimitPerSecond < 0 || c.API.RateLimitBurst < 0 {
		return errors.New("api rate limits cannot be negative")
	}
	return nil
}

// Write encodes cfg as TOML at <home>/config/config.toml, refusing to
// overwrite an existing file
func Write(home string, cfg *Config) (string, error) {
	path := FilePath(home)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	return path, nil
}
