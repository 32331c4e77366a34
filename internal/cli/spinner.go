package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/tilewindow/pkg/scenario"
)

const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a label and the elapsed time on one terminal line until
// it is stopped or its context ends. A nil spinner is a no-op.
type spinner struct {
	label string
	out   io.Writer
	start time.Time
	stop  chan struct{}
	done  chan struct{}
	once  sync.Once

	// width is the widest line drawn; only the animation goroutine touches it.
	width int
}

// startSpinner starts animating label on out.
func startSpinner(ctx context.Context, out io.Writer, label string) *spinner {
	sp := &spinner{
		label: label,
		out:   out,
		start: time.Now(),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go sp.run(ctx)
	return sp
}

// replayLabel describes a replay in progress.
func replayLabel(s *scenario.Scenario) string {
	steps := "steps"
	if len(s.Steps) == 1 {
		steps = "step"
	}
	return fmt.Sprintf("Replaying %s (%d %s)", s.Name, len(s.Steps), steps)
}

func (sp *spinner) run(ctx context.Context) {
	defer close(sp.done)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			sp.clear()
			return
		case <-sp.stop:
			sp.clear()
			return
		case <-ticker.C:
			sp.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

func (sp *spinner) draw(frame string) {
	elapsed := time.Since(sp.start).Truncate(100 * time.Millisecond)
	line := fmt.Sprintf("%s %s %s", styleIconSpinner.Render(frame), StyleDim.Render(sp.label), StyleDim.Render(elapsed.String()))
	sp.width = max(sp.width, lipgloss.Width(line))
	fmt.Fprintf(sp.out, "\r%s", line)
}

func (sp *spinner) clear() {
	if sp.width > 0 {
		fmt.Fprintf(sp.out, "\r%s\r", strings.Repeat(" ", sp.width))
	}
}

// Stop ends the animation and waits for the line to be cleared.
func (sp *spinner) Stop() {
	if sp == nil {
		return
	}
	sp.once.Do(func() { close(sp.stop) })
	<-sp.done
}
