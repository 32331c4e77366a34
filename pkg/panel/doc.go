// Package panel runs virtualized layout passes over an ordered item
// collection.
//
// # Overview
//
// An [Engine] ties together a placement policy, the layout cache, the
// viewport window and the realization manager. The host drives it the way a
// UI framework drives a panel:
//
//	e := panel.New(items, generator, &placement.Masonry{ColumnWidth: 200})
//	e.OnEffectiveViewportChanged(geom.Rect{Y: scrollY, Width: w, Height: h})
//	size := e.Measure(geom.Size{Width: w, Height: math.Inf(1)})
//	e.Arrange(size)
//
// # Passes
//
// Every Measure runs exactly one pass, chosen from the layout cache:
//
//   - Fast: width and item count are unchanged. Cached rectangles are reused;
//     items inside the realization window are realized and, for masonry,
//     re-measured. A measured height that drifted beyond the tolerance
//     abandons the fast path for a full recompute.
//   - Append: only new trailing items exist. Existing rectangles stay put and
//     the policy continues from where the last pass stopped.
//   - Full: the policy is reset and replayed over every index. Items outside
//     the window are sized from the running mean of measured heights.
//
// Items that leave the window are recycled in the same pass.
//
// # Structural Changes
//
// [Engine.OnItemsChanged] classifies a change. An Add at or after the end of
// the cached items is append-only and keeps every realized container. Any
// other change recycles all containers and invalidates the cache before
// returning, since every rectangle after the change point may have moved.
//
// The engine is single-threaded: all methods must be called from the host's
// UI goroutine.
package panel
