// Package pkg provides the core libraries for Tilewindow, a virtualizing
// layout engine for scrolling tile collections.
//
// # Overview
//
// A virtualizing panel lays out a potentially huge collection but only
// keeps UI containers alive for the items near the viewport. The pkg
// directory is organized into three main areas:
//
//  1. Layout - placement policies, the realization window and the layout cache
//  2. Realization - container generation, recycling and the index↔container map
//  3. Orchestration - scenario replay, result caching and observability
//
// # Architecture
//
// One layout pass flows through the packages like this:
//
//	viewport change / collection change
//	         ↓
//	    [viewport] package (realization window with a 2× buffer)
//	         ↓
//	    [layoutcache] package (fast, append or full pass)
//	         ↓
//	    [placement] package (masonry columns or span grid)
//	         ↓
//	    [realize] package (get or create, recycle, pool)
//	         ↓
//	    arranged containers
//
// [panel] ties these together behind the Measure/Arrange contract a UI
// toolkit calls.
//
// # Quick Start
//
//	items := heights{50, 100, 75, 50}
//	e := panel.New(items, generator, &placement.Masonry{ColumnWidth: 100})
//
//	e.OnEffectiveViewportChanged(geom.Rect{Width: 300, Height: 400})
//	extent := e.Measure(geom.Size{Width: 300, Height: math.Inf(1)})
//	e.Arrange(extent)
//
//	for _, i := range e.Visible() {
//	    r, _ := e.Bounds(i)
//	    fmt.Println(i, r)
//	}
//
// # Main Packages
//
// ## Layout
//
// [geom] - Points, sizes, rectangles and the Element measure/arrange contract.
//
// [placement] - Placement policies. Masonry stacks items into the shortest
// column; SpanGrid places items spanning several cells first-fit on an
// occupancy grid.
//
// [viewport] - The realization window: the visible range extended by two
// viewport heights below and above.
//
// [layoutcache] - Cached item bounds. A pass is fast when nothing changed,
// append when items were only added at the end, and full otherwise.
//
// ## Realization
//
// [realize] - The realization manager. Keeps a bijection between item
// indices and containers and recycles containers through a bounded
// per-kind LIFO pool.
//
// [panel] - The virtualizing panel engine.
//
// ## Orchestration
//
// [scenario] - Scenario files, a toolkit-free host and step replay.
//
// [pipeline] - Replay with result caching, shared by CLI and API.
//
// [cache] - Byte caches: file, Redis, MongoDB and null backends.
//
// [observability] - Hooks for layout passes, realization, replays, cache
// access and HTTP requests.
//
// [errors] - Error codes and input validation.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/panel/...              # Specific package
//	go test -run Example                 # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/tilewindow/pkg/geom
// [placement]: https://pkg.go.dev/github.com/matzehuels/tilewindow/pkg/placement
// [viewport]: https://pkg.go.dev/github.com/matzehuels/tilewindow/pkg/viewport
// [layoutcache]: https://pkg.go.dev/github.com/matzehuels/tilewindow/pkg/layoutcache
// [realize]: https://pkg.go.dev/github.com/matzehuels/tilewindow/pkg/realize
// [panel]: https://pkg.go.dev/github.com/matzehuels/tilewindow/pkg/panel
// [scenario]: https://pkg.go.dev/github.com/matzehuels/tilewindow/pkg/scenario
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/tilewindow/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/tilewindow/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/tilewindow/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/tilewindow/pkg/errors
package pkg
