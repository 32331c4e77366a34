package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tilewindow/pkg/pipeline"
	"github.com/matzehuels/tilewindow/pkg/scenario"
)

// layoutFlags holds the layout command's flags.
type layoutFlags struct {
	output      string
	jsonOut     bool
	noCache     bool
	refresh     bool
	maxPoolSize int
	tolerance   float64
	estimate    float64
}

// layoutCommand creates the layout command for replaying a scenario.
func (c *CLI) layoutCommand() *cobra.Command {
	var f layoutFlags

	cmd := &cobra.Command{
		Use:   "layout [scenario]",
		Short: "Replay a scenario and report the engine state after each step",
		Long: `Replay a scenario and report the engine state after each step.

A scenario file (TOML, or JSON with a .json extension) describes the policy,
the viewport, the items and a list of steps: scroll, resize, append, insert,
remove, replace, move and reset. The layout command runs a measure and
arrange pass after each step and prints which items are realized, the
realization window, the extent and the recycle pool levels.

Results are cached by scenario content and engine options.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.engineOptions()
			if cmd.Flags().Changed("max-pool-size") {
				opts.MaxPoolSize = poolSize(f.maxPoolSize)
			}
			if cmd.Flags().Changed("tolerance") {
				opts.Tolerance = f.tolerance
			}
			if cmd.Flags().Changed("estimate") {
				opts.Estimate = f.estimate
			}
			return c.runLayout(cmd.Context(), cmd.OutOrStdout(), args[0], opts, f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the full result as JSON to this file")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "print the result as JSON instead of a table")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute and overwrite the cached result")
	cmd.Flags().IntVar(&f.maxPoolSize, "max-pool-size", pipeline.DefaultMaxPoolSize, "idle containers kept per kind (0 disables recycling)")
	cmd.Flags().Float64Var(&f.tolerance, "tolerance", pipeline.DefaultTolerance, "width change that keeps the layout cache")
	cmd.Flags().Float64Var(&f.estimate, "estimate", pipeline.DefaultEstimate, "initial per-item extent estimate")

	return cmd
}

// runLayout loads the scenario, replays it and writes the output.
func (c *CLI) runLayout(ctx context.Context, w io.Writer, input string, opts pipeline.Options, f layoutFlags) error {
	s, err := scenario.Load(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Scenario = s
	opts.Refresh = f.refresh

	rlog := newReplayLog(scenarioLogger(ctx, s.Name))
	var sp *spinner
	if !f.jsonOut {
		sp = startSpinner(ctx, os.Stderr, replayLabel(s))
	}
	res, err := runner.Execute(ctx, opts)
	sp.Stop()
	if err != nil {
		if !f.jsonOut {
			printError("Replay failed")
		}
		return fmt.Errorf("replay %s: %w", input, err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	rlog.steps(res.Snapshots)
	rlog.done(res)

	if f.output != "" {
		if err := writeResultFile(res, f.output); err != nil {
			return err
		}
	}

	if f.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintln(w, renderSnapshots(res.Snapshots))
	printSuccess("Replayed %s (%s)", StyleHighlight.Render(res.Name), res.Policy)
	if f.output != "" {
		printFile(f.output)
	}
	printStats(res.Stats.Steps, res.Stats.Items, res.Stats.PeakRealized, res.CacheHit)
	printNewline()
	printNextStep("Browse", appName+" browse "+input)
	return nil
}

// writeResultFile writes res as indented JSON.
func writeResultFile(res *pipeline.Result, path string) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// Snapshot Table
// =============================================================================

// renderSnapshots formats one table row per snapshot.
func renderSnapshots(snaps []scenario.Snapshot) string {
	rows := make([][]string, 0, len(snaps))
	for _, s := range snaps {
		rows = append(rows, []string{
			strconv.Itoa(s.Step),
			s.Label,
			strconv.Itoa(s.Items),
			fmt.Sprintf("%.0f..%.0f", s.Window.Top, s.Window.Bottom),
			fmt.Sprintf("%.0f", s.Extent.Height),
			realizedRange(s.Realized),
			poolLevels(s.Pool),
			fmt.Sprintf("%d/%d", s.Churn.Created, s.Churn.Reused),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Step", "Event", "Items", "Window", "Extent", "Realized", "Pool", "New/Reused").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case col == 1:
				return cellStyle.Foreground(colorCyan)
			case col == 5:
				return cellStyle.Foreground(colorWhite)
			default:
				return cellStyle.Foreground(colorGray)
			}
		})
	return t.Render()
}

// realizedRange summarizes realized indices as "count [first..last]".
func realizedRange(rs []scenario.Realized) string {
	if len(rs) == 0 {
		return "0"
	}
	lo, hi := rs[0].Index, rs[0].Index
	for _, r := range rs[1:] {
		lo = min(lo, r.Index)
		hi = max(hi, r.Index)
	}
	return fmt.Sprintf("%d [%d..%d]", len(rs), lo, hi)
}

// poolLevels formats pool levels as "kind:count" pairs.
func poolLevels(levels []scenario.PoolLevel) string {
	if len(levels) == 0 {
		return "-"
	}
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = fmt.Sprintf("%d:%d", l.Kind, l.Count)
	}
	return strings.Join(parts, " ")
}
