// Package config provides configuration management for ueb using Viper.
package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/thoreinstein/ueb/internal/backup"
	"github.com/thoreinstein/ueb/internal/errors"
	"github.com/thoreinstein/ueb/internal/paths"
	"github.com/thoreinstein/ueb/internal/rules"
)

// Keys read from the config file and UEB_* environment variables.
const (
	KeyVersion        = "version"
	KeyIncludeSaved   = "include_saved"
	KeyIncludeBuild   = "include_build"
	KeyExcludeEngine  = "exclude_engine"
	KeySizeSummary    = "size_summary"
	KeyExcludes       = "excludes"
	KeyIgnoreFile     = "ignore_file"
	KeyMtimeTolerance = "mtime_tolerance"
)

// EnvPrefix is the prefix for environment overrides, e.g. UEB_INCLUDE_SAVED.
const EnvPrefix = "UEB"

// Config represents the top-level configuration structure.
type Config struct {
	Version        int           `mapstructure:"version" yaml:"version"`
	IncludeSaved   bool          `mapstructure:"include_saved" yaml:"include_saved"`
	IncludeBuild   bool          `mapstructure:"include_build" yaml:"include_build"`
	ExcludeEngine  bool          `mapstructure:"exclude_engine" yaml:"exclude_engine"`
	SizeSummary    bool          `mapstructure:"size_summary" yaml:"size_summary"`
	Excludes       []string      `mapstructure:"excludes" yaml:"excludes"`
	IgnoreFile     string        `mapstructure:"ignore_file" yaml:"ignore_file"`
	MtimeTolerance time.Duration `mapstructure:"mtime_tolerance" yaml:"mtime_tolerance"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Version:        1,
		IgnoreFile:     rules.DefaultIgnoreFile,
		MtimeTolerance: time.Second,
	}
}

// Init registers defaults, search paths and environment handling on v.
// Without dirs, config.yaml is searched in the working directory and then
// in the user config directory.
func Init(v *viper.Viper, dirs ...string) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if len(dirs) == 0 {
		dirs = []string{".", paths.ConfigDir()}
	}
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	d := Default()
	v.SetDefault(KeyVersion, d.Version)
	v.SetDefault(KeyIncludeSaved, d.IncludeSaved)
	v.SetDefault(KeyIncludeBuild, d.IncludeBuild)
	v.SetDefault(KeyExcludeEngine, d.ExcludeEngine)
	v.SetDefault(KeySizeSummary, d.SizeSummary)
	v.SetDefault(KeyExcludes, []string{})
	v.SetDefault(KeyIgnoreFile, d.IgnoreFile)
	v.SetDefault(KeyMtimeTolerance, d.MtimeTolerance)
}

// Load reads the configuration into a fresh Viper instance.
// If path is provided, it reads from that specific file and a missing file
// is an error. If path is empty, the default locations are searched and a
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	Init(v)
	return LoadFrom(v, path)
}

// LoadFrom reads configuration using an already initialized Viper, so
// callers can bind flags before loading.
func LoadFrom(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// Implicit load without a file: defaults apply.
		case errors.As(err, &notFound), isNotExist(err):
			return nil, errors.Wrapf(errors.ErrNotFound, "config file %s", path)
		default:
			return nil, errors.Mark(errors.Wrap(err, "reading config file"), errors.ErrInvalidConfig)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "unmarshaling config"), errors.ErrInvalidConfig)
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Mark(errors.Wrap(errors.Join(errs...), "validating config"), errors.ErrInvalidConfig)
	}

	return &cfg, nil
}

// Used returns the config file Viper read, or "" when defaults applied.
func Used(v *viper.Viper) string {
	return v.ConfigFileUsed()
}

// RuleOptions maps the config onto the built-in rule toggles.
func (c *Config) RuleOptions() rules.Options {
	return rules.Options{
		IncludeSaved:  c.IncludeSaved,
		IncludeBuild:  c.IncludeBuild,
		ExcludeEngine: c.ExcludeEngine,
		IgnoreFile:    c.IgnoreFile,
	}
}

// Apply copies the config onto run options. Flags are applied afterwards
// by the caller and win over config values.
func (c *Config) Apply(opts *backup.Options) {
	opts.Rules = c.RuleOptions()
	opts.SizeSummary = c.SizeSummary
	opts.Excludes = append(opts.Excludes, c.Excludes...)
	opts.Tolerance = c.MtimeTolerance
}
