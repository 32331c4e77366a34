// Package placement decides where each item of a virtualized collection goes.
//
// # Overview
//
// Two interchangeable policies are provided, both driven item by item in
// index order through the [Policy] interface:
//
//   - [Masonry]: a staggered column layout. Each item drops into whichever
//     column currently has the least accumulated height, ties going to the
//     lowest column index. Item heights come from measurement (or an estimate
//     for items the viewer cannot see).
//
//   - [SpanGrid]: a tile grid where items may cover several rows and
//     columns. Placement is first-fit: rows are scanned top-down and columns
//     left-to-right from the first row that still has a free cell, and the
//     first top-left cell whose whole span is free wins. Gaps are accepted
//     when spans do not tile a row evenly; there is no backfill pass.
//
// # Placing Items
//
// A policy is reset once per layout pass and then fed items in order. Slot
// reserves the next position and Commit finalizes it with the item's height:
//
//	p := &placement.Masonry{ColumnWidth: 100}
//	p.Reset(geom.Size{Width: 300})
//	slot := p.Slot(placement.DefaultHint)
//	rect := p.Commit(slot, 50)
//
// The raw state behind the policies, [ColumnHeights] and [OccupancyGrid],
// keeps its buffers across passes so steady-state layout does not allocate.
package placement
