// Package config loads mcviz settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/mcviz/config.toml (or
// ~/.config/mcviz/config.toml). Every key is optional:
//
//	label_size = 12.0
//	engine = "dot"
//	width = 0.0
//	height = 0.0
//	glyphs = "/path/to/glyphs.toml"
//	strict = false
//
//	[cache]
//	enabled = true
//	dir = ""
//	redis = "redis://localhost:6379/0"
//	mongo = ""
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
//	max_body_bytes = 4194304
//	read_timeout = "30s"
//
// Command-line flags override file values.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	mcerrors "github.com/matzehuels/mcviz/pkg/errors"
	"github.com/matzehuels/mcviz/pkg/layout"
	"github.com/matzehuels/mcviz/pkg/painter"
)

const appName = "mcviz"

// Config holds mcviz settings.
type Config struct {
	// LabelSize is the glyph and label font size in layout units.
	LabelSize float64 `toml:"label_size"`
	// Engine is the Graphviz layout engine used for DOT input.
	Engine string `toml:"engine"`
	// Width and Height request a canvas size. Zero leaves it to the layout.
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	// Glyphs is an optional user catalog layered over the embedded one.
	Glyphs string `toml:"glyphs"`
	// Strict rejects unknown line types.
	Strict bool `toml:"strict"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig controls layout and artifact caching.
type CacheConfig struct {
	Enabled bool `toml:"enabled"`
	// Dir overrides the file cache location.
	Dir string `toml:"dir"`
	// Redis selects a shared Redis cache.
	Redis string `toml:"redis"`
	// Mongo selects a shared MongoDB cache (mongodb://host/database).
	Mongo string   `toml:"mongo"`
	TTL   Duration `toml:"ttl"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
	ReadTimeout  Duration `toml:"read_timeout"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		LabelSize: painter.DefaultLabelSize,
		Engine:    layout.DefaultEngine,
		Cache:     CacheConfig{Enabled: true, TTL: Duration{24 * time.Hour}},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 4 << 20,
			ReadTimeout:  Duration{30 * time.Second},
		},
	}
}

// Dir returns the mcviz config directory.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName)
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// CacheDir returns the default file cache directory
// ($XDG_CACHE_HOME/mcviz or ~/.cache/mcviz).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads the config file at path on top of the defaults. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, mcerrors.Wrap(mcerrors.ErrCodeInvalidConfig, err, "read config")
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, mcerrors.Wrap(mcerrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, mcerrors.New(mcerrors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.LabelSize <= 0 {
		return mcerrors.New(mcerrors.ErrCodeInvalidConfig, "label_size must be positive, got %v", c.LabelSize)
	}
	if err := layout.ValidateEngine(c.Engine); err != nil {
		return mcerrors.Wrap(mcerrors.ErrCodeInvalidConfig, err, "engine")
	}
	if c.Width < 0 || c.Height < 0 {
		return mcerrors.New(mcerrors.ErrCodeInvalidConfig, "width and height must not be negative")
	}
	if (c.Width == 0) != (c.Height == 0) {
		return mcerrors.New(mcerrors.ErrCodeInvalidConfig, "width and height must be set together")
	}
	if c.Cache.Redis != "" && c.Cache.Mongo != "" {
		return mcerrors.New(mcerrors.ErrCodeInvalidConfig, "cache: set either redis or mongo, not both")
	}
	if c.Cache.TTL.Duration < 0 {
		return mcerrors.New(mcerrors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return mcerrors.New(mcerrors.ErrCodeInvalidConfig, "server max_body_bytes must be positive")
	}
	return nil
}

// Save writes cfg to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
