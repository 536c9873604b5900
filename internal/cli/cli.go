// Package cli implements the modstack command-line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/modstack/pkg/buildinfo"
	"github.com/matzehuels/modstack/pkg/deps"
	"github.com/matzehuels/modstack/pkg/modset"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "modstack"

	// envManifest overrides the default manifest path.
	envManifest = "MODSTACK_MANIFEST"

	// defaultManifest is used when neither --manifest nor MODSTACK_MANIFEST is set.
	defaultManifest = "modstack.toml"
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

	manifest string
	out      io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Modstack resolves mod dependencies into a load order",
		Long:         `Modstack reads the installed mods of a game from a manifest, resolves their declared dependencies, and prints the order in which they have to be loaded.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.manifest, "manifest", "m", manifestDefault(),
		"mod set manifest (.toml, .yaml); defaults to $"+envManifest)

	// Register all subcommands
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.orderCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.modsCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Mod Set Loading
// =============================================================================

// manifestDefault returns the manifest path used when --manifest is not given.
func manifestDefault() string {
	if p := os.Getenv(envManifest); p != "" {
		return p
	}
	return defaultManifest
}

// loadSet reads the manifest selected by --manifest.
func (c *CLI) loadSet(ctx context.Context) (*modset.Set, error) {
	logger := loggerFromContext(ctx)
	set, err := modset.Load(c.manifest)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded manifest", "path", c.manifest, "game", set.Game(), "mods", set.Len())
	return set, nil
}

// newResolver creates a resolver over set that logs through the context logger.
func newResolver(ctx context.Context, set *modset.Set) *deps.Resolver {
	return deps.NewResolver(set, set, deps.Options{Logger: loggerFromContext(ctx)})
}

// lookupMods resolves user-supplied names, or returns every mod when names
// is empty.
func lookupMods(set *modset.Set, names []string) ([]*deps.Mod, error) {
	if len(names) == 0 {
		return set.Mods(), nil
	}
	mods := make([]*deps.Mod, 0, len(names))
	for _, name := range names {
		m, err := set.Lookup(name)
		if err != nil {
			return nil, err
		}
		mods = append(mods, m)
	}
	return mods, nil
}
