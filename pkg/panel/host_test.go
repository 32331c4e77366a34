package panel

import (
	"github.com/matzehuels/tilewindow/pkg/geom"
	"github.com/matzehuels/tilewindow/pkg/placement"
	"github.com/matzehuels/tilewindow/pkg/realize"
)

// card is a test item with a fixed content height.
type card struct {
	height float64
	span   placement.Hint
}

// box is the generated element for a card.
type box struct {
	height   float64
	arranged geom.Rect
}

func (b *box) Measure(available geom.Size) geom.Size {
	return geom.Size{Width: available.Width, Height: b.height}
}

func (b *box) Arrange(r geom.Rect) { b.arranged = r }

type cards struct {
	items []any
}

func newCards(heights ...float64) *cards {
	c := &cards{}
	for _, h := range heights {
		c.items = append(c.items, &card{height: h})
	}
	return c
}

func uniformCards(n int, h float64) *cards {
	c := &cards{items: make([]any, n)}
	for i := range c.items {
		c.items[i] = &card{height: h}
	}
	return c
}

func (c *cards) Len() int         { return len(c.items) }
func (c *cards) At(i int) any     { return c.items[i] }
func (c *cards) add(items ...any) { c.items = append(c.items, items...) }

func (c *cards) hint(i int) placement.Hint {
	if cd, ok := c.items[i].(*card); ok && cd.span != (placement.Hint{}) {
		return cd.span
	}
	return placement.DefaultHint
}

type boxGenerator struct {
	created int
}

func (g *boxGenerator) NeedsContainer(item any, _ int) (bool, realize.Kind) {
	if _, ok := item.(geom.Element); ok {
		return false, realize.KindNone
	}
	return true, 1
}

func (g *boxGenerator) CreateContainer(any, int, realize.Kind) geom.Element {
	g.created++
	return &box{}
}

func (g *boxGenerator) PrepareContainer(c *realize.Container, item any, _ int) {
	c.Element.(*box).height = item.(*card).height
}

func (g *boxGenerator) ClearContainer(c *realize.Container) {
	c.Element.(*box).height = 0
}
