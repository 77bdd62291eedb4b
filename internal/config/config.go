// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Draft storage backends understood by kv.Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendNATS   = "nats"
	BackendMemory = "memory"
)

// Config holds all configuration values for enrollr.
type Config struct {
	DataDir      string `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
	LogFile      string `mapstructure:"log_file" yaml:"log_file"`
	DraftBackend string `mapstructure:"draft_backend" yaml:"draft_backend"`

	API1 string `mapstructure:"api1" yaml:"api1"` // departments + basicInfo service
	API2 string `mapstructure:"api2" yaml:"api2"` // locations + details service

	Debounce      time.Duration `mapstructure:"debounce" yaml:"debounce"`
	BlurGrace     time.Duration `mapstructure:"blur_grace" yaml:"blur_grace"`
	MinChars      int           `mapstructure:"min_chars" yaml:"min_chars"`
	DefaultLimit  int           `mapstructure:"default_limit" yaml:"default_limit"`
	AutosaveQuiet time.Duration `mapstructure:"autosave_quiet" yaml:"autosave_quiet"`
	SubmitLatency time.Duration `mapstructure:"submit_latency" yaml:"submit_latency"`
	NavigateDelay time.Duration `mapstructure:"navigate_delay" yaml:"navigate_delay"`
}

var defaults = map[string]any{
	"data_dir":       ".enrollr",
	"log_level":      "info",
	"log_file":       "",
	"draft_backend":  BackendFile,
	"api1":           "http://localhost:4001",
	"api2":           "http://localhost:4002",
	"debounce":       250 * time.Millisecond,
	"blur_grace":     120 * time.Millisecond,
	"min_chars":      1,
	"default_limit":  10,
	"autosave_quiet": 2 * time.Second,
	"submit_latency": 3 * time.Second,
	"navigate_delay": 350 * time.Millisecond,
}

// flagKeys maps persistent CLI flag names onto config keys.
var flagKeys = map[string]string{
	"data-dir":      "data_dir",
	"draft-backend": "draft_backend",
	"api1":          "api1",
	"api2":          "api2",
	"log-level":     "log_level",
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults.
// flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("enrollr")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("ENROLLR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key := range defaults {
		if err := v.BindEnv(key, "ENROLLR_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding %s flag: %w", name, err)
			}
		}
	}

	if globalPath := GlobalPath(); fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	if projectPath := ProjectPath(); fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the wizard cannot run with.
func (c *Config) Validate() error {
	switch c.DraftBackend {
	case BackendFile, BackendSQLite, BackendNATS, BackendMemory:
	default:
		return fmt.Errorf("unknown draft backend %q (want file, sqlite, nats or memory)", c.DraftBackend)
	}
	if c.API1 == "" || c.API2 == "" {
		return fmt.Errorf("api1 and api2 must be set")
	}
	if c.MinChars < 1 {
		return fmt.Errorf("min_chars must be >= 1")
	}
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default_limit must be >= 1")
	}
	if c.Debounce < 0 || c.AutosaveQuiet < 0 || c.SubmitLatency < 0 || c.BlurGrace < 0 || c.NavigateDelay < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	return nil
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/enrollr/enrollr.yml or $XDG_CONFIG_HOME/enrollr/enrollr.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "enrollr", "enrollr.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "enrollr", "enrollr.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "enrollr.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
