package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/loamhq/userdir/internal/store"
)

// Config holds all configuration for the server
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Seed    SeedConfig    `mapstructure:"seed"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// StorageConfig holds storage configuration (URI-based)
type StorageConfig struct {
	URI     string        `mapstructure:"uri"`     // Storage URI (e.g., mem://, file://./data/users.json)
	Token   string        `mapstructure:"token"`   // Opaque token for storage authentication
	Latency time.Duration `mapstructure:"latency"` // Artificial per-operation delay (0 disables)
}

// SeedConfig holds starter-account configuration
type SeedConfig struct {
	File string `mapstructure:"file"` // users.yaml with starter accounts; empty = built-in seed
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	Type  string `mapstructure:"type"`  // none | basic
	Realm string `mapstructure:"realm"` // realm advertised in the Basic challenge
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug | info | warn | error
	Format string `mapstructure:"format"` // json | text
}

// NewViper creates a new viper instance with defaults and environment binding
func NewViper() *viper.Viper {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("storage.uri", "mem://")
	v.SetDefault("storage.token", "")
	v.SetDefault("storage.latency", time.Duration(0))
	v.SetDefault("seed.file", "")
	v.SetDefault("auth.type", "basic")
	v.SetDefault("auth.realm", "userdir")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Bind environment variables with USERDIR_ prefix
	v.SetEnvPrefix("USERDIR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load loads configuration from an optional config file, environment
// variables and defaults
func Load(configFile string) (*Config, error) {
	v := NewViper()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	if _, err := store.ParseStorageURI(c.Storage.URI); err != nil {
		return fmt.Errorf("invalid storage URI: %w", err)
	}

	if c.Storage.Latency < 0 {
		return fmt.Errorf("storage.latency must not be negative")
	}

	if c.Auth.Type != "none" && c.Auth.Type != "basic" {
		return fmt.Errorf("auth.type must be 'none' or 'basic'")
	}

	if c.Auth.Type == "basic" && c.Auth.Realm == "" {
		return fmt.Errorf("auth.realm must not be empty for basic auth")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be debug, info, warn, or error")
	}

	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("logging.format must be json or text")
	}

	return nil
}

// GetParsedStorageURI returns the parsed storage URI
func (c *Config) GetParsedStorageURI() (*store.StorageURI, error) {
	return store.ParseStorageURI(c.Storage.URI)
}

// MaskToken returns a masked version of the storage token for logging
func (c *Config) MaskToken() string {
	if c.Storage.Token == "" {
		return ""
	}
	return "***"
}
