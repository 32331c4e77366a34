// Package cli implements the tilewindow command-line interface.
//
// The commands replay layout scenarios, browse a scenario in the terminal
// with a live engine, serve the replay API over HTTP and manage the
// snapshot cache and the configuration file:
//   - layout: Replay a scenario and print one snapshot per step
//   - browse: Scroll through a scenario with a live engine
//   - serve: Run the HTTP API
//   - cache: Manage the snapshot cache
//   - config: Write or print the configuration file
//
// # Logging
//
// The command logger travels in the command context. --verbose (-v) adds a
// debug line per replayed step with the realized count, the realization
// window and the pool levels.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tilewindow/pkg/pipeline"
	"github.com/matzehuels/tilewindow/pkg/scenario"
)

// newLogger returns the command logger. Timestamps are "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// replayLog reports one replay: a debug line per step and an info summary.
type replayLog struct {
	logger *log.Logger
	start  time.Time
}

func newReplayLog(l *log.Logger) *replayLog {
	return &replayLog{logger: l, start: time.Now()}
}

// steps logs what the engine held after each step.
func (r *replayLog) steps(snaps []scenario.Snapshot) {
	for _, s := range snaps {
		r.logger.Debug("step",
			"n", s.Step,
			"event", s.Label,
			"items", s.Items,
			"realized", len(s.Realized),
			"window", fmt.Sprintf("%.0f..%.0f", s.Window.Top, s.Window.Bottom),
			"pool", poolLevels(s.Pool),
		)
	}
}

// done logs the summary with the time since the replay started.
func (r *replayLog) done(res *pipeline.Result) {
	source := "replay"
	if res.CacheHit {
		source = "cache"
	}
	r.logger.Info("replayed",
		"steps", res.Stats.Steps,
		"peak", res.Stats.PeakRealized,
		"source", source,
		"elapsed", time.Since(r.start).Round(time.Millisecond),
	)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// scenarioLogger returns the command logger tagged with the scenario name.
// Without a logger in ctx it discards.
func scenarioLogger(ctx context.Context, name string) *log.Logger {
	l, ok := ctx.Value(loggerKey{}).(*log.Logger)
	if !ok {
		l = log.NewWithOptions(io.Discard, log.Options{})
	}
	return l.With("scenario", name)
}
