package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"fjacquet/miamala/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. MIAMALA_LOG_LEVEL.
const EnvPrefix = "MIAMALA"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter      string `mapstructure:"delimiter" yaml:"delimiter"`
		IncludeHeaders bool   `mapstructure:"include_headers" yaml:"include_headers"`
	} `mapstructure:"csv" yaml:"csv"`

	Aggregate struct {
		// ChronologicalBalances compares message timestamps as times instead
		// of as DD/MM/YYYY strings when picking the latest balance.
		ChronologicalBalances bool  `mapstructure:"chronological_balances" yaml:"chronological_balances"`
		ManualAdjustment      int64 `mapstructure:"manual_adjustment" yaml:"manual_adjustment"`
	} `mapstructure:"aggregate" yaml:"aggregate"`

	Input struct {
		MaxLineBytes int `mapstructure:"max_line_bytes" yaml:"max_line_bytes"`
	} `mapstructure:"input" yaml:"input"`
}

// DelimiterRune returns the CSV delimiter as a rune.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.CSV.Delimiter)
	return r
}

// LoadConfig loads the configuration. A non-empty configFile is read
// instead of searching config.yaml in $HOME/.miamala, .miamala and the
// working directory; unlike the search, an explicit file must exist.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.miamala")
		v.AddConfigPath(".miamala")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.include_headers", true)

	v.SetDefault("aggregate.chronological_balances", false)
	v.SetDefault("aggregate.manual_adjustment", 0)

	v.SetDefault("input.max_line_bytes", 64*1024)
}

// Validate checks the configuration values. Callers that change a loaded
// configuration, for instance from command-line flags, validate it again.
func (c *Config) Validate() error {
	if err := validateConfig(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if utf8.RuneCountInString(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %q", config.CSV.Delimiter)
	}
	if d := config.DelimiterRune(); d == '"' || d == '\r' || d == '\n' || d == utf8.RuneError {
		return fmt.Errorf("CSV delimiter %q is not allowed", config.CSV.Delimiter)
	}

	if config.Aggregate.ManualAdjustment < 0 {
		return fmt.Errorf("aggregate.manual_adjustment must not be negative, got: %d", config.Aggregate.ManualAdjustment)
	}

	if config.Input.MaxLineBytes <= 0 {
		return fmt.Errorf("input.max_line_bytes must be positive, got: %d", config.Input.MaxLineBytes)
	}

	return nil
}

// ConfigureLoggingFromConfig builds the application logger.
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(strings.ToLower(config.Log.Level), strings.ToLower(config.Log.Format))
}
