// Package viewport tracks the visible region of a scrolling panel and the
// buffered realization window derived from it.
//
// The realization window is the visible region expanded by twice its own
// extent above and below (clamped at zero). Items intersecting it get a
// materialized container; everything else is left virtual. The multiplier is
// fixed: it trades a few extra off-screen containers for fewer create and
// recycle events while scrolling quickly.
package viewport

import "github.com/matzehuels/tilewindow/pkg/geom"

// BufferRatio is the number of visible extents added on each side of the
// visible region.
const BufferRatio = 2.0

// DefaultExtent is used when neither a viewport nor a panel size is known.
const DefaultExtent = 600.0

// Window holds the visible rectangle and the realization window derived
// from it. The zero value has no viewport and falls back to DefaultExtent.
type Window struct {
	visible  geom.Rect
	reported bool
	fallback float64

	top    float64
	bottom float64
}

// Update stores a newly reported viewport and reports whether the
// realization window moved.
func (w *Window) Update(visible geom.Rect) bool {
	if w.reported && w.visible == visible {
		return false
	}
	first := !w.reported
	w.visible = visible
	w.reported = true
	top, bottom := w.top, w.bottom
	w.derive()
	return first || top != w.top || bottom != w.bottom
}

// SetFallback records the panel's last known extent, used until a viewport
// is reported.
func (w *Window) SetFallback(extent float64) {
	if extent > 0 && !geom.IsInfinite(extent) {
		w.fallback = extent
	}
	if !w.reported {
		w.derive()
	}
}

// Reported reports whether a real viewport has been seen.
func (w *Window) Reported() bool { return w.reported }

// Visible returns the visible rectangle, substituting the fallback extent
// when no viewport has been reported.
func (w *Window) Visible() geom.Rect {
	if w.reported {
		return w.visible
	}
	return geom.Rect{Height: w.fallbackExtent()}
}

// Top returns the upper edge of the realization window.
func (w *Window) Top() float64 {
	w.ensure()
	return w.top
}

// Bottom returns the lower edge of the realization window.
func (w *Window) Bottom() float64 {
	w.ensure()
	return w.bottom
}

// Contains reports whether r intersects the realization window. Both
// boundaries are inclusive.
func (w *Window) Contains(r geom.Rect) bool {
	w.ensure()
	return r.Bottom() >= w.top && r.Y <= w.bottom
}

func (w *Window) ensure() {
	if !w.reported && w.bottom == 0 {
		w.derive()
	}
}

func (w *Window) derive() {
	v := w.Visible()
	extent := max(v.Height, 0)
	w.top = max(v.Y-BufferRatio*extent, 0)
	w.bottom = v.Y + extent + BufferRatio*extent
}

func (w *Window) fallbackExtent() float64 {
	if w.fallback > 0 {
		return w.fallback
	}
	return DefaultExtent
}
