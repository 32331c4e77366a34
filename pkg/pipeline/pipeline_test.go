package pipeline

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/tilewindow/pkg/cache"
	"github.com/matzehuels/tilewindow/pkg/errors"
	"github.com/matzehuels/tilewindow/pkg/observability"
	"github.com/matzehuels/tilewindow/pkg/scenario"
)

func feedScenario() *scenario.Scenario {
	return &scenario.Scenario{
		Name:     "feed",
		Policy:   scenario.PolicySpec{Kind: scenario.PolicyMasonry, ColumnWidth: 150},
		Viewport: scenario.Viewport{Width: 600, Height: 400},
		Items:    scenario.ItemsSpec{Count: 300, Seed: 11},
		Steps: []scenario.Step{
			{Op: scenario.OpScroll, Y: 3000},
			{Op: scenario.OpAppend, Count: 20},
		},
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Scenario: feedScenario()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}
	if opts.MaxPoolSize != DefaultMaxPoolSize {
		t.Errorf("MaxPoolSize should be %d, got %d", DefaultMaxPoolSize, opts.MaxPoolSize)
	}
	if opts.Tolerance != DefaultTolerance {
		t.Errorf("Tolerance should be %v, got %v", DefaultTolerance, opts.Tolerance)
	}
	if opts.Estimate != DefaultEstimate {
		t.Errorf("Estimate should be %v, got %v", DefaultEstimate, opts.Estimate)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing scenario", Options{}, errors.ErrCodeInvalidInput},
		{"negative pool", Options{Scenario: feedScenario(), MaxPoolSize: -2}, errors.ErrCodeInvalidConfig},
		{"negative tolerance", Options{Scenario: feedScenario(), Tolerance: -2}, errors.ErrCodeInvalidInput},
		{"bad policy", Options{Scenario: &scenario.Scenario{Policy: scenario.PolicySpec{Kind: "flow"}}}, errors.ErrCodeInvalidPolicy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %v", err, tt.code)
			}
		})
	}
}

func TestPoolDisabled(t *testing.T) {
	opts := Options{Scenario: feedScenario(), MaxPoolSize: PoolDisabled}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("PoolDisabled should validate: %v", err)
	}
	if opts.MaxPoolSize != PoolDisabled {
		t.Errorf("MaxPoolSize = %d, want PoolDisabled kept", opts.MaxPoolSize)
	}

	r := NewRunner(nil, nil, nil)
	defer r.Close()
	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for _, snap := range res.Snapshots {
		for _, level := range snap.Pool {
			if level.Count != 0 {
				t.Errorf("step %d: kind %d pooled %d containers with recycling off", snap.Step, level.Kind, level.Count)
			}
		}
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Scenario: feedScenario()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	first, _ := opts.ScenarioHash()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	second, _ := opts.ScenarioHash()
	if first != second {
		t.Error("ScenarioHash changed between validations")
	}
}

func TestSnapshotKeyOpts(t *testing.T) {
	a := Options{Scenario: feedScenario(), MaxPoolSize: 4}
	b := Options{Scenario: feedScenario(), MaxPoolSize: 8}
	_ = a.ValidateAndSetDefaults()
	_ = b.ValidateAndSetDefaults()

	k := cache.NewDefaultKeyer()
	ha, _ := a.ScenarioHash()
	hb, _ := b.ScenarioHash()
	if ha != hb {
		t.Fatal("equal scenarios should hash equally")
	}
	if k.SnapshotKey(ha, a.SnapshotKeyOpts()) == k.SnapshotKey(hb, b.SnapshotKeyOpts()) {
		t.Error("different pool sizes should produce different keys")
	}
}

func TestRunnerCaches(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	first, err := r.Execute(ctx, Options{Scenario: feedScenario()})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheHit {
		t.Error("first run should miss")
	}
	if first.Stats.Steps != 2 || first.Stats.Items != 320 {
		t.Errorf("stats = %+v, want 2 steps over 320 items", first.Stats)
	}
	if first.Stats.PeakRealized == 0 {
		t.Error("peak realized should be positive")
	}

	second, err := r.Execute(ctx, Options{Scenario: feedScenario()})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !second.CacheHit {
		t.Error("second run should hit")
	}
	if !reflect.DeepEqual(first.Snapshots, second.Snapshots) {
		t.Error("cached snapshots differ from the replayed ones")
	}

	third, _ := r.Execute(ctx, Options{Scenario: feedScenario(), Refresh: true})
	if third.CacheHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestRunnerReplayError(t *testing.T) {
	s := feedScenario()
	s.Steps = append(s.Steps, scenario.Step{Op: scenario.OpRemove, Index: 5000})
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Scenario: s})
	if !errors.Is(err, errors.ErrCodeInvalidScenario) {
		t.Errorf("error = %v, want INVALID_SCENARIO", err)
	}
}

func TestRunnerStoreLoad(t *testing.T) {
	ctx := context.Background()
	fc, _ := cache.NewFileCache(t.TempDir())
	r := NewRunner(fc, nil, nil)

	res, err := r.Execute(ctx, Options{Scenario: feedScenario()})
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Store(ctx, "abc", res); err != nil {
		t.Fatalf("Store: %v", err)
	}
	got, err := r.Load(ctx, "abc")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != "feed" || len(got.Snapshots) != len(res.Snapshots) {
		t.Errorf("Load() = %s with %d snapshots", got.Name, len(got.Snapshots))
	}
	if _, err := r.Load(ctx, "missing"); !errors.Is(err, errors.ErrCodeSnapshotNotFound) {
		t.Errorf("Load(missing) = %v, want SNAPSHOT_NOT_FOUND", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu       sync.Mutex
	started  int
	finished int
}

func (h *recordingHooks) OnReplayStart(context.Context, string, int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started++
}

func (h *recordingHooks) OnReplayComplete(context.Context, string, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.finished++
}

func TestRunnerHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	fc, _ := cache.NewFileCache(t.TempDir())
	r := NewRunner(fc, nil, nil)
	for range 2 {
		if _, err := r.Execute(context.Background(), Options{Scenario: feedScenario()}); err != nil {
			t.Fatal(err)
		}
	}
	if hooks.started != 1 || hooks.finished != 1 {
		t.Errorf("hooks saw %d starts, %d completions; want one replay", hooks.started, hooks.finished)
	}
}
