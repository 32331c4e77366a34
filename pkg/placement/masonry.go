package placement

import (
	"math"

	"github.com/matzehuels/tilewindow/pkg/geom"
)

// Masonry is the staggered column policy. Every item goes into the column
// with the smallest accumulated height.
type Masonry struct {
	// ColumnWidth is the desired column width. The actual width stretches so
	// that the columns and spacing fill the available width exactly.
	ColumnWidth float64

	// ColumnSpacing is the horizontal gap between columns.
	ColumnSpacing float64

	// RowSpacing is the vertical gap between items in a column.
	RowSpacing float64

	heights     ColumnHeights
	columnWidth float64
	spacing     float64
	rowSpacing  float64
	pending     int
	committed   int
}

// ColumnCount returns floor((available+spacing)/(desired+spacing)), at
// least 1.
func ColumnCount(available, desired, spacing float64) int {
	if desired+spacing <= 0 {
		return 1
	}
	n := int(math.Floor((available + spacing) / (desired + spacing)))
	return max(n, 1)
}

// Reset starts a pass for the available width.
func (m *Masonry) Reset(available geom.Size) {
	m.spacing = max(m.ColumnSpacing, 0)
	m.rowSpacing = max(m.RowSpacing, 0)
	width := available.Width
	desired := m.ColumnWidth

	var columns int
	switch {
	case geom.IsInfinite(width):
		columns = 1
		m.columnWidth = max(desired, 0)
	default:
		width = max(width, 0)
		if desired <= 0 {
			desired = width
		}
		columns = ColumnCount(width, desired, m.spacing)
		m.columnWidth = max((width-float64(columns-1)*m.spacing)/float64(columns), 0)
	}

	m.heights.Reset(columns)
	m.pending = 0
	m.committed = 0
}

// Columns returns the column count of the current pass.
func (m *Masonry) Columns() int { return m.heights.Len() }

// ActualColumnWidth returns the stretched column width of the current pass.
func (m *Masonry) ActualColumnWidth() float64 { return m.columnWidth }

// Slot reserves the shortest column and returns its rectangle with zero
// height.
func (m *Masonry) Slot(Hint) geom.Rect {
	col, y := m.heights.Shortest()
	m.pending = col
	return geom.Rect{
		X:     float64(col) * (m.columnWidth + m.spacing),
		Y:     y,
		Width: m.columnWidth,
	}
}

// Commit places the reserved slot with the given height and advances its
// column.
func (m *Masonry) Commit(slot geom.Rect, height float64) geom.Rect {
	height = max(height, 0)
	m.heights.Advance(m.pending, height, m.rowSpacing)
	m.committed++
	slot.Height = height
	return slot
}

// Extent returns the available width actually used and the tallest column
// minus the trailing row spacing.
func (m *Masonry) Extent() geom.Size {
	n := m.heights.Len()
	if n == 0 {
		return geom.Size{}
	}
	w := float64(n)*m.columnWidth + float64(n-1)*m.spacing
	if m.committed == 0 {
		return geom.Size{Width: w}
	}
	return geom.Size{Width: w, Height: max(m.heights.Max()-m.rowSpacing, 0)}
}

// SizesToContent is true: masonry heights come from the items.
func (m *Masonry) SizesToContent() bool { return true }
