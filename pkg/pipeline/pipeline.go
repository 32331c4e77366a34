// Package pipeline replays layout scenarios for tilewindow.
//
// This package wraps [scenario.Replay] with the concerns shared by the CLI
// and the HTTP server: option defaults and validation, result caching keyed
// by scenario content, logging and observability hooks. By centralizing
// this logic, both entry points produce byte-identical results for the same
// scenario and options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	s, err := scenario.Load("feed.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Execute(ctx, pipeline.Options{Scenario: s})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	last := result.Snapshots[len(result.Snapshots)-1]
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tilewindow/pkg/cache"
	"github.com/matzehuels/tilewindow/pkg/errors"
	"github.com/matzehuels/tilewindow/pkg/layoutcache"
	"github.com/matzehuels/tilewindow/pkg/panel"
	"github.com/matzehuels/tilewindow/pkg/realize"
	"github.com/matzehuels/tilewindow/pkg/scenario"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxPoolSize bounds each per-kind recycle stack.
	DefaultMaxPoolSize = realize.DefaultMaxPoolSize

	// PoolDisabled as MaxPoolSize keeps no idle containers.
	PoolDisabled = -1

	// DefaultTolerance is the fast-path height tolerance.
	DefaultTolerance = panel.DefaultTolerance

	// DefaultEstimate is the predicted height of unmeasured items.
	DefaultEstimate = layoutcache.DefaultEstimate
)

// =============================================================================
// Options - Replay Configuration
// =============================================================================

// Options contains all configuration for one replay.
// This struct supports JSON serialization for API requests.
type Options struct {
	Scenario *scenario.Scenario `json:"scenario"`

	// Engine options. A zero MaxPoolSize selects DefaultMaxPoolSize;
	// PoolDisabled turns recycling off.
	MaxPoolSize int     `json:"max_pool_size,omitempty"`
	Tolerance   float64 `json:"tolerance,omitempty"`
	Estimate    float64 `json:"estimate,omitempty"`

	// Refresh skips the cache lookup but still stores the new result.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a replay.
type Result struct {
	// Name is the scenario name.
	Name string `json:"name"`

	// Policy is the placement policy kind.
	Policy string `json:"policy"`

	// ScenarioHash is the content hash of the normalized scenario.
	ScenarioHash string `json:"scenario_hash"`

	// Snapshots holds one entry per step, the initial layout first.
	Snapshots []scenario.Snapshot `json:"snapshots"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`

	// CacheHit reports whether the snapshots came from the cache.
	CacheHit bool `json:"cache_hit"`
}

// Final returns the last snapshot.
func (r *Result) Final() scenario.Snapshot {
	if len(r.Snapshots) == 0 {
		return scenario.Snapshot{}
	}
	return r.Snapshots[len(r.Snapshots)-1]
}

// Stats contains replay statistics.
type Stats struct {
	Steps        int           `json:"steps"`
	Items        int           `json:"items"`
	PeakRealized int           `json:"peak_realized"`
	Duration     time.Duration `json:"duration"`
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Scenario == nil {
		return errors.New(errors.ErrCodeInvalidInput, "scenario is required")
	}
	o.SetDefaults()
	if o.MaxPoolSize < PoolDisabled {
		return errors.New(errors.ErrCodeInvalidConfig, "max_pool_size must be %d (disabled) or more", PoolDisabled)
	}
	if err := errors.ValidateDimension("tolerance", o.Tolerance); err != nil {
		return err
	}
	if err := errors.ValidatePositive("estimate", o.Estimate); err != nil {
		return err
	}
	o.Scenario.SetDefaults()
	if err := o.Scenario.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills zero engine options.
func (o *Options) SetDefaults() {
	if o.MaxPoolSize == 0 {
		o.MaxPoolSize = DefaultMaxPoolSize
	}
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.Estimate == 0 {
		o.Estimate = DefaultEstimate
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// EngineOptions returns the panel options for this configuration.
func (o *Options) EngineOptions() []panel.Option {
	return []panel.Option{
		panel.WithMaxPoolSize(max(o.MaxPoolSize, 0)),
		panel.WithTolerance(o.Tolerance),
		panel.WithEstimate(o.Estimate),
		panel.WithLogger(o.Logger),
	}
}

// SnapshotKeyOpts returns cache key options for the replay.
func (o *Options) SnapshotKeyOpts() cache.SnapshotKeyOpts {
	return cache.SnapshotKeyOpts{
		MaxPoolSize: o.MaxPoolSize,
		Tolerance:   o.Tolerance,
		Estimate:    o.Estimate,
	}
}

// ScenarioHash hashes the normalized scenario.
func (o *Options) ScenarioHash() (string, error) {
	data, err := json.Marshal(o.Scenario)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode scenario")
	}
	return cache.Hash(data), nil
}
