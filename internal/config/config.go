package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/vilaca/treehouse-badges/internal/domain"
)

// EnvPrefix prefixes every environment override, e.g. TREEHOUSE_LOG_LEVEL.
const EnvPrefix = "TREEHOUSE"

// FileEnv names the environment variable holding an optional YAML config path.
const FileEnv = EnvPrefix + "_CONFIG"

// Config holds application configuration.
// Every field has a default, so running without any configuration works.
type Config struct {
	Profile ProfileConfig `mapstructure:"profile" yaml:"profile"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// ProfileConfig configures the remote profile endpoint and report contents.
type ProfileConfig struct {
	// URLTemplate must contain {username}
	URLTemplate   string `mapstructure:"url_template" yaml:"url_template"`
	Category      string `mapstructure:"category" yaml:"category"`
	MissingPoints string `mapstructure:"missing_points" yaml:"missing_points"`
	UserAgent     string `mapstructure:"user_agent" yaml:"user_agent"`
}

// LogConfig configures diagnostic logging on stderr.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig configures the optional Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile" yaml:"textfile"`
}

// Load reads configuration from defaults, the optional YAML file named by
// TREEHOUSE_CONFIG, and TREEHOUSE_* environment variables, in that order.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("profile.url_template", domain.DefaultProfileURLTemplate)
	v.SetDefault("profile.category", domain.DefaultPointsCategory)
	v.SetDefault("profile.missing_points", string(domain.MissingPointsError))
	v.SetDefault("profile.user_agent", "treehouse-badges")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("metrics.textfile", "")

	if path := os.Getenv(FileEnv); path != "" {
		settings, err := readFile(path)
		if err != nil {
			return nil, err
		}
		if err := v.MergeConfigMap(settings); err != nil {
			return nil, fmt.Errorf("failed to merge config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// readFile decodes a YAML config file, rejecting unknown keys.
func readFile(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var strict Config
	if err := dec.Decode(&strict); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	settings := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return settings, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if !strings.Contains(c.Profile.URLTemplate, domain.UsernamePlaceholder) {
		return fmt.Errorf("profile.url_template must contain %s", domain.UsernamePlaceholder)
	}
	if strings.TrimSpace(c.Profile.Category) == "" {
		return errors.New("profile.category must not be empty")
	}
	if !c.MissingPointsPolicy().Valid() {
		return fmt.Errorf("profile.missing_points must be %q or %q, got %q",
			domain.MissingPointsError, domain.MissingPointsZero, c.Profile.MissingPoints)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be 'text' or 'json', got %q", c.Log.Format)
	}

	return nil
}

// MissingPointsPolicy returns the configured policy for absent point categories.
func (c *Config) MissingPointsPolicy() domain.MissingPointsPolicy {
	return domain.MissingPointsPolicy(strings.ToLower(c.Profile.MissingPoints))
}

// HasMetricsTextfile returns true if metrics should be exported after a run.
func (c *Config) HasMetricsTextfile() bool {
	return c.Metrics.Textfile != ""
}
