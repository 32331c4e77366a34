package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tilewindow/pkg/cache"
	"github.com/matzehuels/tilewindow/pkg/errors"
	"github.com/matzehuels/tilewindow/pkg/observability"
	"github.com/matzehuels/tilewindow/pkg/scenario"
)

// Key types reported to cache hooks.
const (
	keySnapshot = "snapshot"
	keyResult   = "result"
)

// Runner encapsulates scenario replay with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options; every
// replay builds its own engine.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of cached replays. Zero means no expiry.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLSnapshot,
	}
}

// Execute replays the scenario, serving the result from the cache when an
// identical replay was stored before.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hash, err := opts.ScenarioHash()
	if err != nil {
		return nil, err
	}
	key := r.Keyer.SnapshotKey(hash, opts.SnapshotKeyOpts())

	if !opts.Refresh {
		if res, ok := r.lookup(ctx, key); ok {
			r.Logger.Debug("replay served from cache", "scenario", res.Name, "hash", hash[:12])
			return res, nil
		}
	}

	s := opts.Scenario
	hooks := observability.Pipeline()
	hooks.OnReplayStart(ctx, s.Policy.Kind, s.Items.Count+len(s.Items.List), len(s.Steps))

	start := time.Now()
	snaps, err := scenario.Replay(ctx, s, opts.EngineOptions()...)
	elapsed := time.Since(start)
	hooks.OnReplayComplete(ctx, s.Policy.Kind, elapsed, err)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", s.Name, err)
	}

	res := &Result{
		Name:         s.Name,
		Policy:       s.Policy.Kind,
		ScenarioHash: hash,
		Snapshots:    snaps,
		Stats:        summarize(snaps, elapsed),
	}
	r.Logger.Info("replayed scenario",
		"scenario", res.Name,
		"steps", res.Stats.Steps,
		"items", res.Stats.Items,
		"peak_realized", res.Stats.PeakRealized,
		"duration", elapsed)

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keySnapshot, len(data))
		}
	}
	return res, nil
}

// Store saves res under a public ID.
func (r *Runner) Store(ctx context.Context, id string, res *Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode result")
	}
	key := r.Keyer.ResultKey(id)
	if err := r.Cache.Set(ctx, key, data, cache.TTLResult); err != nil {
		return errors.Wrap(errors.ErrCodeBackend, err, "store result %s", id)
	}
	observability.Cache().OnCacheSet(ctx, keyResult, len(data))
	return nil
}

// Load returns the result stored under id.
func (r *Runner) Load(ctx context.Context, id string) (*Result, error) {
	data, hit, err := r.Cache.Get(ctx, r.Keyer.ResultKey(id))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackend, err, "load result %s", id)
	}
	if !hit {
		return nil, errors.New(errors.ErrCodeSnapshotNotFound, "no result with id %s", id)
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode result %s", id)
	}
	return &res, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// lookup returns a cached result. Backend and decode failures count as
// misses.
func (r *Runner) lookup(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keySnapshot)
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		_ = r.Cache.Delete(ctx, key)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keySnapshot)
	res.CacheHit = true
	return &res, true
}

func summarize(snaps []scenario.Snapshot, elapsed time.Duration) Stats {
	st := Stats{Duration: elapsed}
	if len(snaps) == 0 {
		return st
	}
	st.Steps = len(snaps) - 1
	st.Items = snaps[len(snaps)-1].Items
	for _, s := range snaps {
		st.PeakRealized = max(st.PeakRealized, len(s.Realized))
	}
	return st
}
