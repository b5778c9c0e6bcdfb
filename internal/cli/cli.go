// Package cli implements the mcviz command-line interface.
//
// # Commands
//
//   - paint: paint a layout (JSON) or a DOT graph as SVG or DOT
//   - layout: lay out a DOT graph with Graphviz and print the layout JSON
//   - glyphs: list the particle glyph catalog
//   - serve: run the HTTP painting service
//   - cache: manage the layout and artifact cache
//   - config: write or locate the configuration file
//
// All commands support --verbose (-v) for debug-level logging and --config
// to select a configuration file. The logger travels in the command context.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mcviz/pkg/buildinfo"
	"github.com/matzehuels/mcviz/pkg/cache"
	"github.com/matzehuels/mcviz/pkg/config"
	"github.com/matzehuels/mcviz/pkg/glyph"
	"github.com/matzehuels/mcviz/pkg/pipeline"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
	stdin      io.Reader
	stdout     io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "mcviz",
		Short:        "mcviz paints particle-physics event graphs",
		Long:         `mcviz turns laid-out event graphs into SVG documents decorated with particle glyphs, or passes them through as DOT.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(log.WithContext(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.stdout)
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")

	root.AddCommand(c.paintCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.glyphsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())

	return root
}

// loadConfig reads the config file once per process.
func (c *CLI) loadConfig() error {
	if c.cfg != nil {
		return nil
	}
	path := c.configFile()
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded config", "path", path)
	c.cfg = cfg
	return nil
}

// settings returns the loaded configuration, or the defaults before loading.
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		return config.Default()
	}
	return c.cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// newCache picks the cache backend from the config: redis or mongo when a
// URL is configured, else the file cache.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.settings().Cache
	if noCache || !cfg.Enabled {
		return cache.NewNullCache(), nil
	}
	switch {
	case cfg.Redis != "":
		return cache.NewRedisCache(ctx, cfg.Redis)
	case cfg.Mongo != "":
		return cache.NewMongoCache(ctx, cfg.Mongo)
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the configured cache directory or the XDG default.
func (c *CLI) cacheDir() (string, error) {
	if dir := c.settings().Cache.Dir; dir != "" {
		return dir, nil
	}
	return config.CacheDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions maps the config onto pipeline options. Flags override the
// result afterwards.
func (c *CLI) pipelineOptions() (pipeline.Options, error) {
	cfg := c.settings()
	opts := pipeline.Options{
		Engine:    cfg.Engine,
		Width:     cfg.Width,
		Height:    cfg.Height,
		LabelSize: cfg.LabelSize,
		Strict:    cfg.Strict,
		TTL:       cfg.Cache.TTL.Duration,
		Logger:    c.Logger,
	}
	if cfg.Glyphs != "" {
		cat, id, err := loadCatalog(cfg.Glyphs)
		if err != nil {
			return opts, err
		}
		opts.Catalog, opts.CatalogID = cat, id
	}
	return opts, nil
}

// loadCatalog layers a user catalog over the embedded one. The returned id
// is the hash of the catalog file, so cached artifacts follow its content.
func loadCatalog(path string) (glyph.Catalog, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	user, err := glyph.Parse(data)
	if err != nil {
		return nil, "", err
	}
	return glyph.NewResolver(glyph.Merge(user, glyph.Default())), cache.Hash(data), nil
}
