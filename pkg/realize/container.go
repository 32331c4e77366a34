package realize

import (
	"github.com/google/uuid"

	"github.com/matzehuels/tilewindow/pkg/geom"
)

// Kind tags containers that can stand in for each other. Containers are
// only reused for items that ask for the same kind.
type Kind int

// KindNone marks containers that are never pooled.
const KindNone Kind = 0

// Variant tells generated wrappers apart from items that are their own
// container.
type Variant uint8

const (
	// Generated containers were built by the Generator and wrap an item.
	Generated Variant = iota
	// Own containers are the item itself.
	Own
)

func (v Variant) String() string {
	if v == Own {
		return "own"
	}
	return "generated"
}

// Container is the realized on-screen object for one item index.
type Container struct {
	ID      uuid.UUID
	Kind    Kind
	Variant Variant
	Element geom.Element

	// Item is the bound item, nil while the container is unbound.
	Item any

	index   int
	visible bool
	rect    geom.Rect
}

func newContainer(kind Kind, variant Variant, el geom.Element) *Container {
	return &Container{ID: uuid.New(), Kind: kind, Variant: variant, Element: el, index: -1}
}

// Index returns the bound index, or -1 when unbound.
func (c *Container) Index() int { return c.index }

// Bound reports whether the container currently represents an index.
func (c *Container) Bound() bool { return c.index >= 0 }

// Visible reports whether the container is shown.
func (c *Container) Visible() bool { return c.visible }

// Rect returns the rectangle of the last Arrange.
func (c *Container) Rect() geom.Rect { return c.rect }

// Measure measures the element for the available size.
func (c *Container) Measure(available geom.Size) geom.Size {
	if c.Element == nil {
		return geom.Size{}
	}
	return c.Element.Measure(available)
}

// Arrange places the element and records the rectangle.
func (c *Container) Arrange(r geom.Rect) {
	c.rect = r
	if c.Element != nil {
		c.Element.Arrange(r)
	}
}

func (c *Container) bind(item any, index int) {
	c.Item = item
	c.index = index
	c.visible = true
}

func (c *Container) unbind() {
	c.Item = nil
	c.index = -1
	c.visible = false
}

// ItemSource is the ordered item collection seen by the engine.
type ItemSource interface {
	Len() int
	At(index int) any
}

// Generator builds and binds containers on behalf of the host.
type Generator interface {
	// NeedsContainer reports whether item needs a generated wrapper and of
	// which kind. Items that need none must implement geom.Element.
	NeedsContainer(item any, index int) (bool, Kind)
	CreateContainer(item any, index int, kind Kind) geom.Element
	PrepareContainer(c *Container, item any, index int)
	ClearContainer(c *Container)
}

// Destroyer is implemented by generators that release resources when a
// container is destroyed.
type Destroyer interface {
	DestroyContainer(c *Container)
}

// AnchorRegistry receives containers that may serve as scroll anchors.
type AnchorRegistry interface {
	RegisterAnchorCandidate(c *Container)
	UnregisterAnchorCandidate(c *Container)
}

// NopAnchors ignores anchor registration.
type NopAnchors struct{}

func (NopAnchors) RegisterAnchorCandidate(*Container)   {}
func (NopAnchors) UnregisterAnchorCandidate(*Container) {}
