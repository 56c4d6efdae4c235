// Package config loads whtopo settings from a TOML file.
//
// Every field has a default, so a missing file is not an error and a file
// only needs the keys it overrides:
//
//	[layout.flow]
//	feeder_pattern = "^(61|V)"
//
//	[server]
//	addr = ":9090"
//
// Unknown keys and out-of-range values are rejected with
// errors.ErrCodeInvalidConfig.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/whtopo/pkg/align"
	"github.com/matzehuels/whtopo/pkg/errors"
	"github.com/matzehuels/whtopo/pkg/layout"
)

const appName = "whtopo"

// Config is the complete application configuration.
type Config struct {
	Layout layout.Config `toml:"layout"`
	Align  align.Options `toml:"align"`
	Editor EditorConfig  `toml:"editor"`
	Server ServerConfig  `toml:"server"`
	Cache  CacheConfig   `toml:"cache"`
}

// EditorConfig tunes editing sessions.
type EditorConfig struct {
	// HistoryLimit caps undo snapshots; 0 keeps all of them.
	HistoryLimit int `toml:"history_limit" validate:"gte=0"`
	// DefaultLayout is used when no strategy is named.
	DefaultLayout string `toml:"default_layout" validate:"required"`
}

// ServerConfig configures the layout service.
type ServerConfig struct {
	Addr         string        `toml:"addr" validate:"required"`
	ReadTimeout  time.Duration `toml:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `toml:"write_timeout" validate:"gte=0"`
	// MaxBodyBytes limits request payloads.
	MaxBodyBytes int64 `toml:"max_body_bytes" validate:"gt=0"`
}

// CacheConfig configures the layout cache.
type CacheConfig struct {
	Enabled bool `toml:"enabled"`
	// Dir defaults to $XDG_CACHE_HOME/whtopo.
	Dir string        `toml:"dir"`
	TTL time.Duration `toml:"ttl" validate:"gte=0"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Layout: layout.DefaultConfig(),
		Align:  align.DefaultOptions(),
		Editor: EditorConfig{DefaultLayout: layout.Smart},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			MaxBodyBytes: 8 << 20,
		},
		Cache: CacheConfig{Enabled: true, TTL: 24 * time.Hour},
	}
}

// Dir returns the configuration directory, $XDG_CONFIG_HOME/whtopo.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName)
}

// DefaultPath returns the config file consulted when none is given.
func DefaultPath() string { return filepath.Join(Dir(), "config.toml") }

// CacheDir returns the configured cache directory or
// $XDG_CACHE_HOME/whtopo.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// Load reads the file at path over the defaults. An empty path means
// DefaultPath, which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	switch {
	case os.IsNotExist(err) && !explicit:
		return cfg, nil
	case os.IsNotExist(err):
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	case err != nil:
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults and validates the result.
func Parse(data string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %s", undecoded[0])
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("regexp", func(fl validator.FieldLevel) bool {
		_, err := regexp.Compile(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks field ranges and that the default layout is registered.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config")
	}
	if _, err := layout.Get(c.Editor.DefaultLayout, c.Layout); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "editor.default_layout")
	}
	return nil
}

// Encode renders c as TOML, for `config show` style output.
func (c *Config) Encode() (string, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return b.String(), nil
}
