package panel

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/tilewindow/pkg/geom"
	"github.com/matzehuels/tilewindow/pkg/placement"
	"github.com/matzehuels/tilewindow/pkg/realize"
)

var unbounded = math.Inf(1)

func newMasonry(items *cards, columnWidth float64, opts ...Option) *Engine {
	return New(items, &boxGenerator{}, &placement.Masonry{ColumnWidth: columnWidth}, opts...)
}

func TestMasonryPlacement(t *testing.T) {
	e := newMasonry(newCards(50, 100, 75, 50), 100)
	e.OnEffectiveViewportChanged(geom.Rect{Width: 300, Height: 1000})
	size := e.Measure(geom.Size{Width: 300, Height: unbounded})

	want := []geom.Rect{
		{X: 0, Y: 0, Width: 100, Height: 50},
		{X: 100, Y: 0, Width: 100, Height: 100},
		{X: 200, Y: 0, Width: 100, Height: 75},
		{X: 0, Y: 50, Width: 100, Height: 50},
	}
	for i, w := range want {
		got, ok := e.Bounds(i)
		if !ok || got != w {
			t.Errorf("Bounds(%d) = %+v, want %+v", i, got, w)
		}
	}
	if size.Height != 100 {
		t.Errorf("extent height = %v, want 100", size.Height)
	}
	if e.Manager().Len() != 4 {
		t.Errorf("realized = %d, want 4", e.Manager().Len())
	}
}

func TestMasonryColumnSpacingThroughEngine(t *testing.T) {
	items := newCards(10, 10)
	e := New(items, &boxGenerator{}, &placement.Masonry{ColumnWidth: 100, ColumnSpacing: 10})
	e.Measure(geom.Size{Width: 210, Height: unbounded})

	r, _ := e.Bounds(1)
	if r.X != 110 || r.Width != 100 {
		t.Errorf("second item = %+v, want x=110 width=100", r)
	}
}

func TestSpanGridFirstFitThroughEngine(t *testing.T) {
	items := newCards(0, 0, 0)
	items.items[2].(*card).span = placement.Hint{ColumnSpan: 2, RowSpan: 1}
	e := New(items, &boxGenerator{}, &placement.SpanGrid{Columns: 3, TileSize: 100},
		WithHints(items.hint))
	e.Measure(geom.Size{Width: 300, Height: unbounded})

	r, _ := e.Bounds(2)
	if r != (geom.Rect{X: 0, Y: 100, Width: 200, Height: 100}) {
		t.Errorf("2-span item = %+v, want row 1 column 0", r)
	}
	if got := e.Extent(); got.Height != 200 || got.Width != 300 {
		t.Errorf("Extent() = %+v, want 300x200", got)
	}
}

func TestRealizationFollowsViewport(t *testing.T) {
	gen := &boxGenerator{}
	e := New(uniformCards(1000, 100), gen, &placement.Masonry{ColumnWidth: 100})

	e.OnEffectiveViewportChanged(geom.Rect{Y: 0, Width: 100, Height: 100})
	e.Measure(geom.Size{Width: 100, Height: unbounded})
	if got := e.Manager().Realized(); !equalInts(got, []int{0, 1, 2, 3}) {
		t.Fatalf("realized = %v, want [0 1 2 3]", got)
	}
	if got := e.Extent().Height; got != 100000 {
		t.Errorf("extent = %v, want 100000", got)
	}

	e.OnEffectiveViewportChanged(geom.Rect{Y: 1000, Width: 100, Height: 100})
	e.Measure(geom.Size{Width: 100, Height: unbounded})
	want := []int{7, 8, 9, 10, 11, 12, 13}
	if got := e.Manager().Realized(); !equalInts(got, want) {
		t.Fatalf("realized = %v, want %v", got, want)
	}
	if s := e.Stats(); s.Fast != 1 || s.Full != 1 {
		t.Errorf("stats = %+v, want one full and one fast pass", s)
	}
	if s := e.Manager().Stats(); s.Created != 7 || s.Reused != 4 {
		t.Errorf("manager stats = %+v, want 7 created, 4 reused", s)
	}
	if !e.Manager().Consistent() {
		t.Error("index/container maps diverged")
	}
}

func TestDriftFallsBackToFullPass(t *testing.T) {
	items := uniformCards(200, 50)
	for i := 20; i < 200; i++ {
		items.items[i].(*card).height = 200
	}
	e := newMasonry(items, 100)
	e.OnEffectiveViewportChanged(geom.Rect{Width: 100, Height: 100})
	e.Measure(geom.Size{Width: 100, Height: unbounded})

	// Items past the window were sized from the 50px estimate.
	if r, _ := e.Bounds(100); r.Height != 50 {
		t.Fatalf("off-window item height = %v, want estimate 50", r.Height)
	}

	e.OnEffectiveViewportChanged(geom.Rect{Y: 5000, Width: 100, Height: 100})
	e.Measure(geom.Size{Width: 100, Height: unbounded})

	if s := e.Stats(); s.Fallback != 1 {
		t.Fatalf("stats = %+v, want one fallback", s)
	}
	for _, i := range e.Manager().Realized() {
		r, _ := e.Bounds(i)
		c, _ := e.Manager().Container(i)
		if r.Height != c.Element.(*box).height {
			t.Errorf("realized item %d cached height %v, measured %v", i, r.Height, c.Element.(*box).height)
		}
	}
}

func TestDisruptiveChangesRecycleEverything(t *testing.T) {
	actions := []struct {
		action Action
		start  int
	}{
		{ActionRemove, 3},
		{ActionReplace, 0},
		{ActionMove, 5},
		{ActionReset, 0},
		{ActionAdd, 2},
	}
	for _, tt := range actions {
		t.Run(tt.action.String(), func(t *testing.T) {
			e := newMasonry(uniformCards(50, 40), 100)
			e.Measure(geom.Size{Width: 300, Height: 600})
			if e.Manager().Len() == 0 {
				t.Fatal("nothing realized before the change")
			}

			e.OnItemsChanged(tt.action, tt.start)
			if got := e.Manager().Len(); got != 0 {
				t.Errorf("%d containers still realized after %v", got, tt.action)
			}
			if _, ok := e.Bounds(0); ok {
				t.Error("cache should be invalid after a disruptive change")
			}
			if !e.Dirty() {
				t.Error("engine should be dirty")
			}

			e.Measure(geom.Size{Width: 300, Height: 600})
			if s := e.Stats(); s.Full != 2 {
				t.Errorf("stats = %+v, want a second full pass", s)
			}
		})
	}
}

func TestAppendKeepsRealizedContainers(t *testing.T) {
	items := uniformCards(10, 60)
	e := newMasonry(items, 100)
	e.OnEffectiveViewportChanged(geom.Rect{Width: 200, Height: 400})
	e.Measure(geom.Size{Width: 200, Height: unbounded})

	before := map[int]*realize.Container{}
	rects := map[int]geom.Rect{}
	for _, i := range e.Manager().Realized() {
		before[i], _ = e.Manager().Container(i)
		rects[i], _ = e.Bounds(i)
	}
	recycled := e.Manager().Stats().Recycled

	for i := 0; i < 5; i++ {
		items.add(&card{height: 60})
	}
	e.OnItemsChanged(ActionAdd, 10)
	e.Measure(geom.Size{Width: 200, Height: unbounded})

	for i, c := range before {
		got, ok := e.Manager().Container(i)
		if !ok || got != c {
			t.Errorf("index %d lost its container", i)
		}
		if r, _ := e.Bounds(i); r != rects[i] {
			t.Errorf("index %d moved from %+v to %+v", i, rects[i], r)
		}
	}
	if got := e.Manager().Stats().Recycled; got != recycled {
		t.Errorf("recycled = %d, want %d", got, recycled)
	}
	if s := e.Stats(); s.Append != 1 {
		t.Errorf("stats = %+v, want one append pass", s)
	}
	if r, ok := e.Bounds(14); !ok || r.Y != 420 {
		t.Errorf("Bounds(14) = %+v, want y=420", r)
	}
}

func TestViewportChangesRequestOnePass(t *testing.T) {
	calls := 0
	e := newMasonry(uniformCards(100, 50), 100, WithInvalidator(func() { calls++ }))
	e.Measure(geom.Size{Width: 100, Height: 500})

	e.OnEffectiveViewportChanged(geom.Rect{Y: 10, Width: 100, Height: 500})
	e.OnEffectiveViewportChanged(geom.Rect{Y: 20, Width: 100, Height: 500})
	e.OnItemsChanged(ActionAdd, 100)
	if calls != 1 {
		t.Errorf("invalidator called %d times, want 1", calls)
	}

	e.Measure(geom.Size{Width: 100, Height: 500})
	e.OnEffectiveViewportChanged(geom.Rect{Y: 20, Width: 100, Height: 500})
	if calls != 1 || e.Dirty() {
		t.Error("an unchanged viewport should not request a pass")
	}
}

func TestArrangeAppliesBounds(t *testing.T) {
	e := newMasonry(newCards(30, 40), 50)
	e.Measure(geom.Size{Width: 100, Height: 200})
	e.Arrange(geom.Size{Width: 100, Height: 200})

	for _, i := range e.Manager().Realized() {
		c, _ := e.Manager().Container(i)
		want, _ := e.Bounds(i)
		if got := c.Element.(*box).arranged; got != want {
			t.Errorf("item %d arranged at %+v, want %+v", i, got, want)
		}
		if c.Rect() != want {
			t.Errorf("container %d rect %+v, want %+v", i, c.Rect(), want)
		}
	}
}

func TestFallbackViewport(t *testing.T) {
	e := newMasonry(uniformCards(100, 100), 100)
	e.Measure(geom.Size{Width: 100, Height: 100})
	// No viewport: the available height stands in, giving a 0..300 window.
	if got := e.Manager().Len(); got != 4 {
		t.Errorf("realized = %d, want 4", got)
	}

	e2 := newMasonry(uniformCards(100, 100), 100)
	e2.Measure(geom.Size{Width: 100, Height: unbounded})
	if _, bottom := e2.Window(); bottom != 1800 {
		t.Errorf("window bottom = %v, want default 1800", bottom)
	}
}

type selfDrawn struct {
	box
}

func TestOwnItemsAreHiddenNotPooled(t *testing.T) {
	items := &cards{}
	for i := 0; i < 40; i++ {
		items.add(&selfDrawn{box: box{height: 100}})
	}
	e := New(items, &boxGenerator{}, &placement.Masonry{ColumnWidth: 100})
	e.OnEffectiveViewportChanged(geom.Rect{Width: 100, Height: 100})
	e.Measure(geom.Size{Width: 100, Height: unbounded})
	first, _ := e.Manager().Container(0)

	e.OnEffectiveViewportChanged(geom.Rect{Y: 2000, Width: 100, Height: 100})
	e.Measure(geom.Size{Width: 100, Height: unbounded})

	if first.Visible() {
		t.Error("own container scrolled out should be hidden")
	}
	if e.Manager().Pool().Total() != 0 {
		t.Error("own containers must not enter the pool")
	}
}

func TestBijectionAcrossPasses(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	items := &cards{}
	for i := 0; i < 300; i++ {
		items.add(&card{height: float64(20 + rng.IntN(200))})
	}
	e := newMasonry(items, 80, WithMaxPoolSize(8))

	for step := 0; step < 200; step++ {
		switch rng.IntN(6) {
		case 0:
			n := items.Len()
			items.add(&card{height: float64(20 + rng.IntN(200))})
			e.OnItemsChanged(ActionAdd, n)
		case 1:
			if items.Len() > 1 {
				i := rng.IntN(items.Len())
				items.items = append(items.items[:i], items.items[i+1:]...)
				e.OnItemsChanged(ActionRemove, i)
			}
		default:
			top := float64(rng.IntN(20000))
			e.OnEffectiveViewportChanged(geom.Rect{Y: top, Width: 400, Height: 300})
		}
		e.Measure(geom.Size{Width: 400, Height: unbounded})
		e.Arrange(e.Extent())

		m := e.Manager()
		if !m.Consistent() {
			t.Fatalf("maps diverged at step %d", step)
		}
		if m.Pool().Len(1) > 8 {
			t.Fatalf("pool exceeded bound at step %d", step)
		}
		for _, i := range m.Realized() {
			r, ok := e.Bounds(i)
			if !ok {
				t.Fatalf("realized index %d has no bounds at step %d", i, step)
			}
			top, bottom := e.Window()
			if r.Bottom() < top || r.Y > bottom {
				t.Fatalf("realized index %d at %+v outside window [%v,%v] at step %d", i, r, top, bottom, step)
			}
		}
	}
}

func TestParseAction(t *testing.T) {
	for _, a := range []Action{ActionAdd, ActionRemove, ActionReplace, ActionMove, ActionReset} {
		got, err := ParseAction(a.String())
		if err != nil || got != a {
			t.Errorf("ParseAction(%q) = %v, %v", a.String(), got, err)
		}
	}
	if _, err := ParseAction("shuffle"); err == nil {
		t.Error("ParseAction should reject unknown names")
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
