// Package scenario drives a layout engine without a UI toolkit.
//
// A [Scenario] describes a panel: its placement policy, the initial
// viewport, the item collection (explicit or generated from a seed) and a
// list of steps such as scrolling, resizing and collection edits. A [Host]
// owns the items, a generator producing fixed-height tiles and a recording
// anchor registry, and feeds every step to a [panel.Engine] the way a real
// toolkit would: notify, then measure and arrange.
//
// [Replay] runs a scenario to completion and returns one [Snapshot] per
// step. Identical scenarios always produce identical snapshots apart from
// container IDs.
//
// Scenarios are written in TOML or JSON:
//
//	name = "feed"
//
//	[policy]
//	kind = "masonry"
//	column_width = 200
//
//	[viewport]
//	width = 640
//	height = 480
//
//	[items]
//	count = 500
//	seed = 7
//	min_height = 80
//	max_height = 320
//
//	[[steps]]
//	op = "scroll"
//	y = 4000
package scenario
