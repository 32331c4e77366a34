package placement

// ColumnHeights tracks the next free y coordinate of every masonry column.
type ColumnHeights struct {
	next []float64
}

// Reset zeroes the state for the given number of columns (at least one),
// reusing the existing buffer when it is large enough.
func (c *ColumnHeights) Reset(columns int) {
	if columns < 1 {
		columns = 1
	}
	if cap(c.next) < columns {
		c.next = make([]float64, columns)
		return
	}
	c.next = c.next[:columns]
	clear(c.next)
}

// Len returns the number of columns.
func (c *ColumnHeights) Len() int { return len(c.next) }

// At returns the next free y of col.
func (c *ColumnHeights) At(col int) float64 { return c.next[col] }

// Shortest returns the column with the smallest next y. Ties go to the
// lowest column index.
func (c *ColumnHeights) Shortest() (int, float64) {
	best := 0
	for i := 1; i < len(c.next); i++ {
		if c.next[i] < c.next[best] {
			best = i
		}
	}
	return best, c.next[best]
}

// Advance moves col down by height plus the row spacing.
func (c *ColumnHeights) Advance(col int, height, rowSpacing float64) {
	c.next[col] += height + rowSpacing
}

// Max returns the largest next y over all columns.
func (c *ColumnHeights) Max() float64 {
	var m float64
	for _, y := range c.next {
		m = max(m, y)
	}
	return m
}
