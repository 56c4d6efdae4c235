// Package cli implements the whtopo command-line interface.
package cli

import (
	"io"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/whtopo/pkg/buildinfo"
	"github.com/matzehuels/whtopo/pkg/cache"
	"github.com/matzehuels/whtopo/pkg/config"
	wio "github.com/matzehuels/whtopo/pkg/io"
	"github.com/matzehuels/whtopo/pkg/observability"
	"github.com/matzehuels/whtopo/pkg/store"
)

const appName = "whtopo"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config *config.Config

	configPath string
}

// New creates a CLI that logs to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "whtopo edits, lays out and converts warehouse conveyor topologies",
		Long: `whtopo works with warehouse conveyor topologies: directed graphs of stations
(scanners, ejects, feeds, pick zones) joined by conveyor segments.

It imports topology JSON and Graphviz DOT, arranges graphs with hierarchical,
horizontal, smart, grid, radial and flow layouts, replays editing scripts
with undo/redo, renders node-link diagrams and serves the same operations
over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if c.configPath != "" {
		c.Logger.Debug("loaded config", "path", c.configPath)
	}

	hooks := observability.NewLogHooks(c.Logger)
	observability.SetLayoutHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
	return nil
}

// newLayouts returns the layout cache, or an uncached one when disabled.
func (c *CLI) newLayouts(noCache bool) *cache.Layouts {
	if noCache || !c.Config.Cache.Enabled {
		return cache.NewLayouts(cache.NewNullCache(), 0)
	}
	fc, err := c.fileCache()
	if err != nil {
		c.Logger.Warn("cache unavailable", "err", err)
		return cache.NewLayouts(cache.NewNullCache(), 0)
	}
	return cache.NewLayouts(fc, c.Config.Cache.TTL)
}

func (c *CLI) fileCache() (*cache.FileCache, error) {
	dir, err := c.Config.CacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewFileCache(dir)
}

func out(cmd *cobra.Command) printer { return printer{w: cmd.OutOrStdout()} }

// ioOptions numbers imported nodes and edges sequentially, so importing the
// same file twice yields the same IDs (and the same layout cache keys).
func (c *CLI) ioOptions() wio.Options {
	n := 0
	return wio.Options{
		Layout: &c.Config.Layout,
		Logger: c.Logger,
		NewID: func() string {
			n++
			return "n" + strconv.Itoa(n)
		},
	}
}

func (c *CLI) newStore() *store.Store {
	return store.New(
		store.WithLogger(c.Logger),
		store.WithLayoutConfig(c.Config.Layout),
		store.WithAlignOptions(c.Config.Align),
		store.WithHistoryLimit(c.Config.Editor.HistoryLimit),
		store.WithHooks(observability.NewLogHooks(c.Logger)),
	)
}
