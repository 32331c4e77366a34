package panel

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/tilewindow/pkg/placement"
	"github.com/matzehuels/tilewindow/pkg/realize"
)

// DefaultTolerance is the largest measured height change that still counts
// as stable on the fast path.
const DefaultTolerance = 0.5

// HintFunc returns the span hint attached to an item index.
type HintFunc func(index int) placement.Hint

// Option configures an Engine.
type Option func(*config)

type config struct {
	managerOpts []realize.Option
	logger      *log.Logger
	invalidate  func()
	hints       HintFunc
	tolerance   float64
	estimate    float64
}

// WithMaxPoolSize bounds each per-kind recycle stack.
func WithMaxPoolSize(n int) Option {
	return func(c *config) { c.managerOpts = append(c.managerOpts, realize.WithMaxPoolSize(n)) }
}

// WithAnchors sets the scroll-anchor registry.
func WithAnchors(a realize.AnchorRegistry) Option {
	return func(c *config) { c.managerOpts = append(c.managerOpts, realize.WithAnchors(a)) }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
			c.managerOpts = append(c.managerOpts, realize.WithLogger(l))
		}
	}
}

// WithInvalidator sets the callback asking the host for a new layout pass.
// It is called once per transition from clean to dirty.
func WithInvalidator(fn func()) Option {
	return func(c *config) { c.invalidate = fn }
}

// WithHints attaches span hints to items.
func WithHints(fn HintFunc) Option {
	return func(c *config) { c.hints = fn }
}

// WithTolerance sets the fast-path height tolerance.
func WithTolerance(t float64) Option {
	return func(c *config) {
		if t >= 0 {
			c.tolerance = t
		}
	}
}

// WithEstimate sets the predicted item height used before anything has been
// measured.
func WithEstimate(h float64) Option {
	return func(c *config) { c.estimate = h }
}
