package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the pay-stub fetcher
type Config struct {
	// Portal session settings
	ADP ADPConfig `yaml:"adp" json:"adp"`

	// Statement listing settings
	Fetch FetchConfig `yaml:"fetch" json:"fetch"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ADPConfig holds portal-session configuration. The portal endpoints
// themselves are fixed constants in pkg/adp and deliberately not
// configurable here.
type ADPConfig struct {
	CredentialsFile string        `yaml:"credentials_file" json:"credentials_file"`
	Locale          string        `yaml:"locale" json:"locale"`
	UserAgent       string        `yaml:"user_agent" json:"user_agent"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout"`
}

// FetchConfig holds statement-listing configuration
type FetchConfig struct {
	Limit       int    `yaml:"limit" json:"limit"`
	Adjustments string `yaml:"adjustments" json:"adjustments"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	Directory string `yaml:"directory" json:"directory"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		ADP: ADPConfig{
			CredentialsFile: "./.adp-pass",
			Locale:          "en_US",
			UserAgent:       "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			Timeout:         0, // no timeout; the portal call blocks until it answers
		},
		Fetch: FetchConfig{
			Limit:       30,
			Adjustments: "yes",
		},
		Output: OutputConfig{
			Directory: ".",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if credsFile := os.Getenv("ADPFETCH_CREDENTIALS_FILE"); credsFile != "" {
		c.ADP.CredentialsFile = credsFile
	}
	if locale := os.Getenv("ADPFETCH_LOCALE"); locale != "" {
		c.ADP.Locale = locale
	}
	if userAgent := os.Getenv("ADPFETCH_USER_AGENT"); userAgent != "" {
		c.ADP.UserAgent = userAgent
	}

	if limit := os.Getenv("ADPFETCH_LIMIT"); limit != "" {
		var val int
		fmt.Sscanf(limit, "%d", &val)
		if val > 0 {
			c.Fetch.Limit = val
		}
	}
	if adjustments := os.Getenv("ADPFETCH_ADJUSTMENTS"); adjustments != "" {
		c.Fetch.Adjustments = adjustments
	}

	if outputDir := os.Getenv("ADPFETCH_OUTPUT_DIR"); outputDir != "" {
		c.Output.Directory = outputDir
	}

	if logLevel := os.Getenv("ADPFETCH_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	// Check in order of precedence
	locations := []string{
		".adpfetch.yaml",
		".adpfetch.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "adpfetch", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "adpfetch", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".adpfetch.yaml"),
		filepath.Join(os.Getenv("HOME"), ".adpfetch.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.ADP.CredentialsFile == "" {
		errs = append(errs, errors.New("credentials file path is required"))
	}
	if c.ADP.Locale == "" {
		errs = append(errs, errors.New("locale is required"))
	}
	if c.ADP.Timeout < 0 {
		errs = append(errs, errors.New("timeout cannot be negative"))
	}

	if c.Fetch.Limit <= 0 {
		errs = append(errs, errors.New("limit must be positive"))
	}
	if c.Fetch.Adjustments == "" {
		errs = append(errs, errors.New("adjustments flag is required"))
	}

	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if credsFile, ok := flags["creds"].(string); ok && credsFile != "" {
		c.ADP.CredentialsFile = credsFile
	}
	if locale, ok := flags["locale"].(string); ok && locale != "" {
		c.ADP.Locale = locale
	}
	if timeout, ok := flags["timeout"].(time.Duration); ok && timeout > 0 {
		c.ADP.Timeout = timeout
	}
	if limit, ok := flags["limit"].(int); ok && limit > 0 {
		c.Fetch.Limit = limit
	}
	if adjustments, ok := flags["adjustments"].(string); ok && adjustments != "" {
		c.Fetch.Adjustments = adjustments
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.Directory = outputDir
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".env"))
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".adpfetch.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
