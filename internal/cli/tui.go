package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/tilewindow/pkg/scenario"
)

// Browser styles
var (
	browseFrameStyle  = lipgloss.NewStyle().Foreground(colorGray)
	browseStatusStyle = lipgloss.NewStyle().Foreground(colorDim)
	browseValueStyle  = lipgloss.NewStyle().Foreground(colorCyan)
)

const (
	// browseChrome is the number of terminal rows used by title, help and status.
	browseChrome = 5
	// appendBatch is the number of items added by the append key.
	appendBatch = 20
)

// =============================================================================
// BrowseModel - Interactive scrolling over a live engine
// =============================================================================

// BrowseModel is the bubbletea model for the browse command. It owns a
// scenario host and redraws the realized tiles that intersect the viewport
// after every key press.
type BrowseModel struct {
	Host *scenario.Host
	Name string

	// Cols and Rows are the terminal cells available for the canvas.
	Cols int
	Rows int

	// Err is the last error from a collection edit.
	Err error
}

// NewBrowseModel creates a browse model and runs the initial layout.
func NewBrowseModel(name string, h *scenario.Host) BrowseModel {
	h.Layout()
	return BrowseModel{Host: h, Name: name, Cols: 80, Rows: 24 - browseChrome}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	vp := m.Host.Viewport()
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.scrollTo(vp.Y - vp.Height/10)
		case "down", "j":
			m.scrollTo(vp.Y + vp.Height/10)
		case "pgup", "b":
			m.scrollTo(vp.Y - vp.Height)
		case "pgdown", " ":
			m.scrollTo(vp.Y + vp.Height)
		case "home", "g":
			m.scrollTo(0)
		case "end", "G":
			m.scrollTo(m.maxScroll())
		case "[":
			m.Host.Resize(max(vp.Width*0.9, 1), vp.Height)
		case "]":
			m.Host.Resize(vp.Width*1.1, vp.Height)
		case "a":
			m.Err = m.Host.Apply(scenario.Step{Op: scenario.OpAppend, Count: appendBatch})
		case "x":
			if m.Host.Items.Len() > 0 {
				m.Err = m.Host.Apply(scenario.Step{Op: scenario.OpRemove, Index: 0, Count: 1})
			}
		}
	case tea.WindowSizeMsg:
		m.Cols = max(msg.Width, 10)
		m.Rows = max(msg.Height-browseChrome, 3)
	}
	m.Host.Layout()
	return m, nil
}

// scrollTo moves the viewport within the scrollable range.
func (m BrowseModel) scrollTo(y float64) {
	m.Host.ScrollTo(min(max(y, 0), m.maxScroll()))
	m.Host.Layout()
}

// maxScroll is the largest viewport offset that still shows content.
func (m BrowseModel) maxScroll() float64 {
	extent := m.Host.Engine.Extent()
	return max(extent.Height-m.Host.Viewport().Height, 0)
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Browse " + m.Name))
	b.WriteString("\n")
	b.WriteString(browseStatusStyle.Render("↑/↓ scroll  pgup/pgdn page  g/G ends  [/] width  a append  x remove  q quit"))
	b.WriteString("\n")

	snap := m.Host.Snapshot(0, "")
	b.WriteString(browseFrameStyle.Render(drawTiles(snap, m.Cols, m.Rows)))
	b.WriteString("\n")
	b.WriteString(m.status(snap))
	if m.Err != nil {
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render(m.Err.Error()))
	}
	return b.String()
}

// status renders the one-line engine summary.
func (m BrowseModel) status(s scenario.Snapshot) string {
	field := func(label, value string) string {
		return browseStatusStyle.Render(label+" ") + browseValueStyle.Render(value)
	}
	parts := []string{
		field("y", fmt.Sprintf("%.0f/%.0f", s.Viewport.Y, s.Extent.Height)),
		field("width", fmt.Sprintf("%.0f", s.Viewport.Width)),
		field("items", strconv.Itoa(s.Items)),
		field("realized", realizedRange(s.Realized)),
		field("window", fmt.Sprintf("%.0f..%.0f", s.Window.Top, s.Window.Bottom)),
		field("pool", poolLevels(s.Pool)),
	}
	return strings.Join(parts, browseStatusStyle.Render(" · "))
}

// =============================================================================
// Canvas
// =============================================================================

// drawTiles rasterizes the realized rectangles that intersect the viewport
// onto a cols×rows character grid. Each tile is drawn as a box labelled
// with its item index.
func drawTiles(s scenario.Snapshot, cols, rows int) string {
	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", cols))
	}
	vp := s.Viewport
	if vp.Width <= 0 || vp.Height <= 0 {
		return joinGrid(grid)
	}
	sx := vp.Width / float64(cols)
	sy := vp.Height / float64(rows)

	for _, r := range s.Realized {
		if !r.Rect.Intersects(vp) {
			continue
		}
		x0 := int(r.Rect.X / sx)
		x1 := int((r.Rect.X+r.Rect.Width)/sx) - 1
		y0 := int((r.Rect.Y - vp.Y) / sy)
		y1 := int((r.Rect.Y+r.Rect.Height-vp.Y)/sy) - 1
		drawBox(grid, x0, y0, max(x1, x0), max(y1, y0), strconv.Itoa(r.Index))
	}
	return joinGrid(grid)
}

// drawBox draws a box with corners (x0,y0) and (x1,y1), clipped to grid.
func drawBox(grid [][]rune, x0, y0, x1, y1 int, label string) {
	set := func(x, y int, ch rune) {
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) {
			grid[y][x] = ch
		}
	}
	for x := x0; x <= x1; x++ {
		set(x, y0, '─')
		set(x, y1, '─')
	}
	for y := y0; y <= y1; y++ {
		set(x0, y, '│')
		set(x1, y, '│')
	}
	set(x0, y0, '┌')
	set(x1, y0, '┐')
	set(x0, y1, '└')
	set(x1, y1, '┘')

	if x1-x0-1 < len(label) || y1-y0 < 2 {
		return
	}
	for i, ch := range label {
		set(x0+1+i, y0+1, ch)
	}
}

func joinGrid(grid [][]rune) string {
	lines := make([]string, len(grid))
	for i, row := range grid {
		lines[i] = string(row)
	}
	return strings.Join(lines, "\n")
}
