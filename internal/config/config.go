// Package config loads benchtree settings from flags, environment, and an
// optional config file through viper.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/mwiater/benchtree/internal/gotool"
	"github.com/mwiater/benchtree/internal/grouping"
)

// Config holds the application's configuration.
type Config struct {
	Workspace           string                          `mapstructure:"workspace" json:"workspace"`
	Grouping            string                          `mapstructure:"grouping" json:"grouping"`
	OutputDir           string                          `mapstructure:"output_dir" json:"output_dir"`
	ActiveConfiguration string                          `mapstructure:"configuration" json:"configuration"`
	Configurations      map[string]gotool.Configuration `mapstructure:"configurations" json:"configurations"`
	Editor              string                          `mapstructure:"editor" json:"editor"`
	LogFile             string                          `mapstructure:"log_file" json:"log_file"`
	LogLevel            string                          `mapstructure:"log_level" json:"log_level"`
	Watch               bool                            `mapstructure:"watch" json:"watch"`
	WatchDebounce       time.Duration                   `mapstructure:"watch_debounce" json:"watch_debounce"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("workspace", ".")
	v.SetDefault("grouping", grouping.Default)
	v.SetDefault("output_dir", ".benchtree/bin")
	v.SetDefault("configuration", "release")
	v.SetDefault("configurations", map[string]any{
		"release": map[string]any{"gcflags": ""},
		"debug":   map[string]any{"gcflags": "all=-N -l"},
	})
	v.SetDefault("editor", "")
	v.SetDefault("log_file", "benchtree.log")
	v.SetDefault("log_level", "info")
	v.SetDefault("watch", false)
	v.SetDefault("watch_debounce", 300*time.Millisecond)
}

// New returns a viper instance with defaults, BENCHTREE_ environment
// overrides, and the config file at path if it is non-empty. Without a
// path, benchtree.json/yaml/toml in the working directory is used when
// present.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("benchtree")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("benchtree")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("could not read config file: %w", err)
		}
	}
	return v, nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if _, err := grouping.Resolve(c.Grouping); err != nil {
		return err
	}
	if _, ok := c.Configurations[c.ActiveConfiguration]; !ok {
		return fmt.Errorf("configuration %q is not defined in configurations", c.ActiveConfiguration)
	}
	if c.Workspace == "" {
		return errors.New("workspace must not be empty")
	}
	return nil
}
