package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tilewindow/pkg/scenario"
)

// browseCommand creates the browse command for scrolling a scenario interactively.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [scenario]",
		Short: "Scroll through a scenario with a live engine",
		Long: `Scroll through a scenario with a live engine.

The browse command loads the scenario's policy, viewport and items into a
terminal view and lets you scroll, resize the viewport width, append items
and remove the first item. Each key press runs a layout pass; the status
line shows the realized range, the realization window and the pool levels.

The scenario's steps are not replayed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0])
		},
	}
}

// runBrowse starts the TUI on a fresh host for the scenario at input.
func (c *CLI) runBrowse(ctx context.Context, input string) error {
	s, err := scenario.Load(input)
	if err != nil {
		return err
	}

	// The engine logger stays quiet while the alternate screen is active.
	opts := c.engineOptions()
	opts.Logger = nil
	opts.SetDefaults()

	host, err := scenario.NewHost(s, opts.EngineOptions()...)
	if err != nil {
		return err
	}
	defer host.Close()

	scenarioLogger(ctx, s.Name).Debug("browse", "items", host.Items.Len(), "policy", s.Policy.Kind)

	p := tea.NewProgram(NewBrowseModel(s.Name, host), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("browse: %w", err)
	}
	return nil
}
