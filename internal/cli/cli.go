package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/racktower/pkg/buildinfo"
	"github.com/matzehuels/racktower/pkg/cache"
	"github.com/matzehuels/racktower/pkg/planner"
	"github.com/matzehuels/racktower/pkg/state"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "racktower"

	// defaultListen is the address `serve` binds when none is configured.
	defaultListen = "127.0.0.1:7420"
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

	out    io.Writer
	in     io.Reader
	config *viper.Viper

	cfgFile string
	yes     bool
}

// New creates a CLI that prints to out and logs to w.
func New(out, w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    out,
		in:     os.Stdin,
		config: viper.New(),
	}
}

// SetInput replaces the reader confirmation prompts read from.
func (c *CLI) SetInput(r io.Reader) { c.in = r }

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Racktower plans equipment layouts for server racks",
		Long:         `Racktower is a rack elevation planner: size a rack, drop modules into half-U or whole-U slots, and export or render the result.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			registerHooks(c.Logger)
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out)
	c.bindFlags(root)

	root.AddCommand(c.initCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.resizeCommand())
	root.AddCommand(c.widthCommand())
	root.AddCommand(c.clearCommand())
	root.AddCommand(c.placeCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.moduleCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.stateCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Planner Factory
// =============================================================================

// openStore opens the configured state file.
func (c *CLI) openStore() (*state.FileStore, error) {
	s, err := c.settings()
	if err != nil {
		return nil, err
	}
	return state.NewFileStore(s.StatePath)
}

// openPlanner loads the configured layout. Unreadable state is reported and
// replaced by a fresh rack in memory; the file is only rewritten by the
// next change.
func (c *CLI) openPlanner(ctx context.Context) (*planner.Planner, error) {
	s, err := c.settings()
	if err != nil {
		return nil, err
	}
	store, err := c.openStore()
	if err != nil {
		return nil, err
	}
	p, err := planner.Open(ctx, store, c.plannerOptions(s))
	if err != nil {
		return nil, err
	}
	switch {
	case p.FellBack():
		c.printWarning("Saved layout at %s could not be read; starting from an empty %dU rack", store.Path(), s.Height)
	case p.Recovered():
		c.printWarning("Saved layout at %s had broken entries; the rest was kept", store.Path())
		for _, d := range p.Discarded() {
			c.printDetail("dropped %s: %v", d.ID, d.Reason)
		}
	}
	return p, nil
}

func (c *CLI) plannerOptions(s settings) planner.Options {
	return planner.Options{
		DefaultHeight: s.Height,
		Width:         s.Width,
		Resolution:    s.Resolution,
		Logger:        c.Logger,
	}
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the render cache directory (~/.cache/racktower/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns ~/.config/racktower/.
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
