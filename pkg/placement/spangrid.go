package placement

import (
	"math"

	"github.com/matzehuels/tilewindow/pkg/geom"
)

// SpanGrid is the variable-span tile policy. Items cover ColumnSpan ×
// RowSpan tiles and are packed first-fit.
type SpanGrid struct {
	// Columns is the fixed column count. Zero or less derives the count from
	// the available width.
	Columns int

	// TileSize is the edge length of one square cell.
	TileSize float64

	// Spacing is the gap between cells in both directions.
	Spacing float64

	grid    OccupancyGrid
	tile    float64
	spacing float64
	row     int
	col     int
	span    Hint
}

// Reset starts a pass for the available width.
func (s *SpanGrid) Reset(available geom.Size) {
	s.tile = max(s.TileSize, 0)
	s.spacing = max(s.Spacing, 0)
	columns := s.Columns
	if columns <= 0 {
		columns = 1
		if w := available.Width; !geom.IsInfinite(w) && s.tile+s.spacing > 0 {
			columns = max(int(math.Floor((w+s.spacing)/(s.tile+s.spacing))), 1)
		}
	}
	s.grid.Reset(columns)
	s.row, s.col, s.span = 0, 0, DefaultHint
}

// ColumnCount returns the column count of the current pass.
func (s *SpanGrid) ColumnCount() int { return s.grid.Columns() }

// Grid exposes the occupancy state of the current pass.
func (s *SpanGrid) Grid() *OccupancyGrid { return &s.grid }

// Slot finds the first free block for the clamped hint and returns its
// rectangle.
func (s *SpanGrid) Slot(hint Hint) geom.Rect {
	s.span = hint.Clamp(s.grid.Columns())
	s.row, s.col = s.grid.Find(s.span.RowSpan, s.span.ColumnSpan)
	step := s.tile + s.spacing
	return geom.Rect{
		X:      float64(s.col) * step,
		Y:      float64(s.row) * step,
		Width:  s.extent(s.span.ColumnSpan),
		Height: s.extent(s.span.RowSpan),
	}
}

// Commit marks the reserved block occupied. Tile sizes are fixed, so the
// measured height is ignored.
func (s *SpanGrid) Commit(slot geom.Rect, _ float64) geom.Rect {
	s.grid.Mark(s.row, s.col, s.span.RowSpan, s.span.ColumnSpan)
	return slot
}

// Extent returns the full grid width and the height of the rows in use.
func (s *SpanGrid) Extent() geom.Size {
	return geom.Size{
		Width:  s.extent(s.grid.Columns()),
		Height: s.extent(s.grid.Rows()),
	}
}

// SizesToContent is false: tiles have a fixed size.
func (s *SpanGrid) SizesToContent() bool { return false }

func (s *SpanGrid) extent(cells int) float64 {
	if cells <= 0 {
		return 0
	}
	return float64(cells)*s.tile + float64(cells-1)*s.spacing
}
