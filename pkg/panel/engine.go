package panel

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tilewindow/pkg/geom"
	"github.com/matzehuels/tilewindow/pkg/layoutcache"
	"github.com/matzehuels/tilewindow/pkg/observability"
	"github.com/matzehuels/tilewindow/pkg/placement"
	"github.com/matzehuels/tilewindow/pkg/realize"
	"github.com/matzehuels/tilewindow/pkg/viewport"
)

// Stats counts passes by kind since the engine was created.
type Stats struct {
	Passes        int `json:"passes"`
	Full          int `json:"full"`
	Fast          int `json:"fast"`
	Append        int `json:"append"`
	Fallback      int `json:"fallback"`
	Invalidations int `json:"invalidations"`
}

// Engine is one virtualizing panel instance. It exclusively owns its
// placement state, layout cache, viewport window and containers.
type Engine struct {
	items   realize.ItemSource
	policy  placement.Policy
	cache   *layoutcache.Cache
	window  viewport.Window
	manager *realize.Manager

	hints      HintFunc
	logger     *log.Logger
	invalidate func()
	tolerance  float64

	dirty     bool
	extent    geom.Size
	lastFinal geom.Size
	stats     Stats
}

// New returns an engine laying out items with policy and realizing them
// through gen.
func New(items realize.ItemSource, gen realize.Generator, policy placement.Policy, opts ...Option) *Engine {
	cfg := config{tolerance: DefaultTolerance}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.hints == nil {
		cfg.hints = func(int) placement.Hint { return placement.DefaultHint }
	}
	return &Engine{
		items:      items,
		policy:     policy,
		cache:      layoutcache.New(cfg.estimate),
		manager:    realize.NewManager(items, gen, cfg.managerOpts...),
		hints:      cfg.hints,
		logger:     cfg.logger,
		invalidate: cfg.invalidate,
		tolerance:  cfg.tolerance,
		dirty:      true,
	}
}

// Measure runs one layout pass for the available size and returns the
// content extent.
func (e *Engine) Measure(available geom.Size) geom.Size {
	start := time.Now()
	e.dirty = false

	if !e.window.Reported() {
		fallback := e.lastFinal.Height
		if fallback <= 0 {
			fallback = available.Height
		}
		e.window.SetFallback(fallback)
	}

	width := available.Width
	count := e.items.Len()

	kind := observability.PassFull
	switch {
	case e.cache.Valid(width, count):
		kind = observability.PassFast
		if !e.reuse(count) {
			kind = observability.PassFallback
			e.recompute(available, count)
		}
	case e.cache.Appendable(width, count):
		kind = observability.PassAppend
		if !e.reuse(e.cache.ItemCount()) {
			kind = observability.PassFallback
			e.recompute(available, count)
		} else {
			e.extend(count)
		}
	default:
		e.recompute(available, count)
	}

	e.cache.Commit(width, count)
	e.extent = e.policy.Extent()
	e.count(kind)

	elapsed := time.Since(start)
	e.logger.Debug("layout pass",
		"kind", kind,
		"items", count,
		"realized", e.manager.Len(),
		"duration", elapsed)
	observability.Layout().OnPass(kind, count, e.manager.Len(), elapsed)

	return e.extent
}

// Arrange applies the computed rectangles to the realized containers.
func (e *Engine) Arrange(final geom.Size) geom.Size {
	e.lastFinal = final
	for _, i := range e.manager.Realized() {
		c, _ := e.manager.Container(i)
		if r, ok := e.cache.Bounds(i); ok {
			c.Arrange(r)
		}
	}
	return final
}

// OnItemsChanged handles a structural change notification. Appends at the
// end keep everything; other changes recycle all containers and drop the
// layout cache immediately.
func (e *Engine) OnItemsChanged(action Action, start int) {
	if action == ActionAdd && start >= e.cache.ItemCount() {
		e.markDirty()
		return
	}
	e.manager.RecycleAll()
	e.cache.Invalidate()
	e.stats.Invalidations++
	e.logger.Debug("layout cache invalidated", "action", action, "start", start)
	observability.Layout().OnInvalidate(action.String(), start)
	e.markDirty()
}

// OnEffectiveViewportChanged records the visible rectangle. A new pass is
// requested only when the realization window moved.
func (e *Engine) OnEffectiveViewportChanged(visible geom.Rect) {
	if e.window.Update(visible) {
		e.markDirty()
	}
}

// Close releases every container, including pooled ones.
func (e *Engine) Close() { e.manager.Close() }

// Dirty reports whether a layout pass is pending.
func (e *Engine) Dirty() bool { return e.dirty }

// Extent returns the content extent of the last pass.
func (e *Engine) Extent() geom.Size { return e.extent }

// Bounds returns the rectangle of index computed by the last pass.
func (e *Engine) Bounds(index int) (geom.Rect, bool) {
	if index >= e.cache.ItemCount() || !e.cache.IsValid() {
		return geom.Rect{}, false
	}
	return e.cache.Bounds(index)
}

// Window returns the realization window bounds.
func (e *Engine) Window() (top, bottom float64) {
	return e.window.Top(), e.window.Bottom()
}

// Visible returns the visible rectangle, or the fallback region before a
// viewport was reported.
func (e *Engine) Visible() geom.Rect { return e.window.Visible() }

// Manager exposes the realization manager.
func (e *Engine) Manager() *realize.Manager { return e.manager }

// Estimate returns the predicted height of an unmeasured item.
func (e *Engine) Estimate() float64 { return e.cache.Estimate() }

// Stats returns the pass counters.
func (e *Engine) Stats() Stats { return e.stats }

// reuse walks the first n cached rectangles, realizing window items and
// recycling the rest. It returns false when a realized item's measured
// height drifted from its cached height.
func (e *Engine) reuse(n int) bool {
	for i := 0; i < n; i++ {
		r, _ := e.cache.Bounds(i)
		if !e.window.Contains(r) {
			e.manager.Recycle(i)
			continue
		}
		c := e.manager.GetOrCreate(i)
		if c == nil {
			continue
		}
		h := e.measure(c, r)
		if e.policy.SizesToContent() && math.Abs(h-r.Height) > e.tolerance {
			e.logger.Debug("measured height drifted",
				"index", i,
				"cached", r.Height,
				"measured", h)
			return false
		}
	}
	return true
}

// recompute resets the policy and places every index.
func (e *Engine) recompute(available geom.Size, count int) {
	e.policy.Reset(available)
	e.cache.Resize(count)
	e.cache.BeginSampling()
	for i := 0; i < count; i++ {
		e.place(i)
	}
	e.cache.EndSampling()
	for _, i := range e.manager.Realized() {
		if i >= count {
			e.manager.Recycle(i)
		}
	}
}

// extend places the indices after the cached ones, continuing the policy
// state of the previous pass.
func (e *Engine) extend(count int) {
	from := e.cache.ItemCount()
	e.cache.Resize(count)
	e.cache.BeginSampling()
	for i := from; i < count; i++ {
		e.place(i)
	}
	e.cache.EndSampling()
}

// place positions one item. Content-sized items predicted to fall in the
// realization window are realized and measured; the rest use the estimate.
func (e *Engine) place(i int) {
	slot := e.policy.Slot(e.hints(i))
	height := slot.Height

	if e.policy.SizesToContent() {
		guess := slot
		guess.Height = e.cache.Estimate()
		height = guess.Height
		if e.window.Contains(guess) {
			if c := e.manager.GetOrCreate(i); c != nil {
				height = e.measure(c, slot)
				e.cache.Observe(height)
			}
		}
	}

	r := e.policy.Commit(slot, height)
	e.cache.Set(i, r)

	if !e.window.Contains(r) {
		e.manager.Recycle(i)
		return
	}
	if c := e.manager.GetOrCreate(i); c != nil && !e.policy.SizesToContent() {
		e.measure(c, r)
	}
}

// measure returns the container's desired height for the slot. Content
// sized policies measure with unbounded height; fixed tiles get their size.
func (e *Engine) measure(c *realize.Container, slot geom.Rect) float64 {
	if e.policy.SizesToContent() {
		return c.Measure(geom.Size{Width: slot.Width, Height: math.Inf(1)}).Height
	}
	return c.Measure(slot.Size()).Height
}

func (e *Engine) markDirty() {
	if e.dirty {
		return
	}
	e.dirty = true
	if e.invalidate != nil {
		e.invalidate()
	}
}

func (e *Engine) count(kind string) {
	e.stats.Passes++
	switch kind {
	case observability.PassFull:
		e.stats.Full++
	case observability.PassFast:
		e.stats.Fast++
	case observability.PassAppend:
		e.stats.Append++
	case observability.PassFallback:
		e.stats.Fallback++
	}
}
