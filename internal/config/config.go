// ABOUTME: Configuration loading and parsing for cortex-api
// ABOUTME: Supports YAML files with environment variable expansion and validation

package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultTokenTTLMinutes is the token lifetime when auth.token_ttl_minutes is not set.
const DefaultTokenTTLMinutes = 60

// Config represents the complete cortex-api configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds server address configuration. TrustedOrigins lists
// the browser origins allowed by CORS; empty means every origin.
type ServerConfig struct {
	HTTPAddr       string   `yaml:"http_addr"`
	TrustedOrigins []string `yaml:"trusted_origins"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds authentication configuration.
// EncryptionKey is the base64-encoded AES key (16, 24, or 32 bytes decoded)
// used for at-rest encryption of stored credentials.
type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret"`
	EncryptionKey   string `yaml:"encryption_key"`
	TokenAlgorithm  string `yaml:"token_algorithm"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TokenTTL returns the configured token lifetime, falling back to the
// 60 minute default when unset.
func (a AuthConfig) TokenTTL() time.Duration {
	minutes := a.TokenTTLMinutes
	if minutes <= 0 {
		minutes = DefaultTokenTTLMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// Algorithm returns the configured signing algorithm, defaulting to HS256.
func (a AuthConfig) Algorithm() string {
	if a.TokenAlgorithm == "" {
		return "HS256"
	}
	return a.TokenAlgorithm
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// validAlgorithms are the HMAC signing algorithms the token service supports.
var validAlgorithms = map[string]bool{
	"HS256": true,
	"HS384": true,
	"HS512": true,
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret is required and must be at least 32 characters")
	}

	if c.Auth.EncryptionKey == "" {
		return fmt.Errorf("auth.encryption_key is required")
	}
	key, err := base64.StdEncoding.DecodeString(c.Auth.EncryptionKey)
	if err != nil {
		return fmt.Errorf("auth.encryption_key is not valid base64: %w", err)
	}
	switch len(key) {
	case 16, 24, 32:
	default:
		return fmt.Errorf("auth.encryption_key must decode to 16, 24, or 32 bytes, got %d", len(key))
	}

	if !validAlgorithms[c.Auth.Algorithm()] {
		return fmt.Errorf("auth.token_algorithm %q is not supported (HS256, HS384, HS512)", c.Auth.TokenAlgorithm)
	}

	if c.Auth.TokenTTLMinutes < 0 {
		return fmt.Errorf("auth.token_ttl_minutes must not be negative")
	}

	return nil
}
