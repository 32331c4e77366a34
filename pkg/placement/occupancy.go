package placement

// OccupancyGrid is a rows × columns occupancy bitmap stored flat, with a
// per-row count of occupied cells and a cursor at the first row that is not
// full. Rows grow on demand; buffers keep their capacity across Reset.
type OccupancyGrid struct {
	columns   int
	cells     []bool
	counts    []int
	firstFree int
	used      int
}

// Reset clears the grid for the given column count (at least one).
func (g *OccupancyGrid) Reset(columns int) {
	if columns < 1 {
		columns = 1
	}
	g.columns = columns
	g.cells = g.cells[:0]
	g.counts = g.counts[:0]
	g.firstFree = 0
	g.used = 0
}

// Columns returns the grid width in cells.
func (g *OccupancyGrid) Columns() int { return g.columns }

// Rows returns the number of rows that contain at least one occupied cell
// or lie above one.
func (g *OccupancyGrid) Rows() int { return g.used }

// FirstFreeRow returns the smallest row index that is not fully occupied.
func (g *OccupancyGrid) FirstFreeRow() int { return g.firstFree }

// Occupied reports whether the cell at (row, col) is taken.
func (g *OccupancyGrid) Occupied(row, col int) bool {
	if row >= len(g.counts) || col < 0 || col >= g.columns {
		return false
	}
	return g.cells[row*g.columns+col]
}

// Fits reports whether the rowSpan × colSpan block with its top-left corner
// at (row, col) is entirely free and inside the grid width.
func (g *OccupancyGrid) Fits(row, col, rowSpan, colSpan int) bool {
	if col < 0 || col+colSpan > g.columns {
		return false
	}
	for r := row; r < row+rowSpan && r < len(g.counts); r++ {
		if g.counts[r] == 0 {
			continue
		}
		base := r * g.columns
		for c := col; c < col+colSpan; c++ {
			if g.cells[base+c] {
				return false
			}
		}
	}
	return true
}

// Find returns the first top-left cell, scanning rows from FirstFreeRow and
// columns left to right, where a rowSpan × colSpan block fits. Spans are
// clamped to at least one and colSpan to the grid width.
func (g *OccupancyGrid) Find(rowSpan, colSpan int) (row, col int) {
	rowSpan = max(rowSpan, 1)
	colSpan = min(max(colSpan, 1), g.columns)
	for row = g.firstFree; ; row++ {
		for col = 0; col+colSpan <= g.columns; col++ {
			if g.Fits(row, col, rowSpan, colSpan) {
				return row, col
			}
		}
	}
}

// Mark occupies the block at (row, col) and advances FirstFreeRow past any
// rows that became full.
func (g *OccupancyGrid) Mark(row, col, rowSpan, colSpan int) {
	g.grow(row + rowSpan)
	for r := row; r < row+rowSpan; r++ {
		base := r * g.columns
		for c := col; c < col+colSpan; c++ {
			if !g.cells[base+c] {
				g.cells[base+c] = true
				g.counts[r]++
			}
		}
	}
	g.used = max(g.used, row+rowSpan)
	for g.firstFree < len(g.counts) && g.counts[g.firstFree] == g.columns {
		g.firstFree++
	}
}

// grow extends the grid to at least rows rows, doubling capacity and
// zeroing the newly exposed region.
func (g *OccupancyGrid) grow(rows int) {
	if rows <= len(g.counts) {
		return
	}
	oldRows := len(g.counts)
	need := rows * g.columns
	if cap(g.cells) < need {
		cells := make([]bool, len(g.cells), max(need, 2*cap(g.cells)))
		copy(cells, g.cells)
		g.cells = cells
	}
	if cap(g.counts) < rows {
		counts := make([]int, len(g.counts), max(rows, 2*cap(g.counts)))
		copy(counts, g.counts)
		g.counts = counts
	}
	g.cells = g.cells[:need]
	g.counts = g.counts[:rows]
	clear(g.cells[oldRows*g.columns:])
	clear(g.counts[oldRows:])
}
