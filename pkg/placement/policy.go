package placement

import "github.com/matzehuels/tilewindow/pkg/geom"

// Hint carries the per-item span configuration read by the grid policy.
// Masonry ignores it.
type Hint struct {
	ColumnSpan int `json:"col_span,omitempty" toml:"col_span"`
	RowSpan    int `json:"row_span,omitempty" toml:"row_span"`
}

// DefaultHint is a single-cell item.
var DefaultHint = Hint{ColumnSpan: 1, RowSpan: 1}

// Clamp returns h with both spans at least 1 and the column span no wider
// than columns.
func (h Hint) Clamp(columns int) Hint {
	if columns < 1 {
		columns = 1
	}
	h.ColumnSpan = min(max(h.ColumnSpan, 1), columns)
	h.RowSpan = max(h.RowSpan, 1)
	return h
}

// Policy places items one at a time in index order.
//
// Reset starts a pass for the given available size. Slot reserves the
// position of the next item and returns its rectangle; policies that size
// items from content return a zero height. Commit finalizes the reserved
// slot with the item's height and returns the final rectangle. Extent
// reports the space used by everything committed so far.
type Policy interface {
	Reset(available geom.Size)
	Slot(hint Hint) geom.Rect
	Commit(slot geom.Rect, height float64) geom.Rect
	Extent() geom.Size

	// SizesToContent reports whether item heights come from measurement.
	SizesToContent() bool
}

var (
	_ Policy = (*Masonry)(nil)
	_ Policy = (*SpanGrid)(nil)
)
