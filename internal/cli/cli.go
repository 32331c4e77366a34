package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tilewindow/internal/config"
	"github.com/matzehuels/tilewindow/pkg/buildinfo"
	"github.com/matzehuels/tilewindow/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "tilewindow"
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
	Config config.Config

	verbose bool
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The configuration is reloaded before every command.
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
		Short: "Tilewindow replays virtualized tile layouts",
		Long: `Tilewindow is a virtualizing layout engine for scrolling collections of
tiles. It places items in masonry columns or a variable-span grid, realizes
only the items near the viewport and recycles the rest.

The CLI replays scenario files (scrolls, resizes and collection edits) and
reports what the engine placed, realized and recycled after every step.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// completionCommand prints a shell completion script for the command tree.
func (c *CLI) completionCommand() *cobra.Command {
	shells := map[string]func(*cobra.Command, io.Writer) error{
		"bash": func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
		"zsh":  func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
		"fish": func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
		"powershell": func(root *cobra.Command, w io.Writer) error {
			return root.GenPowerShellCompletionWithDesc(w)
		},
	}
	names := slices.Sorted(maps.Keys(shells))

	return &cobra.Command{
		Use:   "completion <shell>",
		Short: "Print a shell completion script",
		Long: fmt.Sprintf(`Print a completion script for one of: %s.

Load it for the current session, for example:

  source <(%[2]s completion bash)
  %[2]s completion fish | source

or write it to your shell's completion directory.`, strings.Join(names, ", "), appName),
		DisableFlagsInUseLine: true,
		ValidArgs:             names,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return shells[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ttl, err := c.Config.Cache.TTLDuration()
	if err != nil {
		return nil, err
	}
	store, err := c.Config.Cache.Open(ctx, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(store, nil, c.Logger)
	runner.TTL = ttl
	return runner, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// poolSize maps a configured pool size, where zero means no pooling, to
// pipeline options, where zero means the default.
func poolSize(n int) int {
	if n == 0 {
		return pipeline.PoolDisabled
	}
	return n
}

// engineOptions returns pipeline options seeded from the engine config.
func (c *CLI) engineOptions() pipeline.Options {
	return pipeline.Options{
		MaxPoolSize: poolSize(c.Config.Engine.MaxPoolSize),
		Tolerance:   c.Config.Engine.Tolerance,
		Estimate:    c.Config.Engine.Estimate,
		Logger:      c.Logger,
	}
}
