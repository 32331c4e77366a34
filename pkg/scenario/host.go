package scenario

import (
	"math"

	"github.com/matzehuels/tilewindow/pkg/errors"
	"github.com/matzehuels/tilewindow/pkg/geom"
	"github.com/matzehuels/tilewindow/pkg/panel"
	"github.com/matzehuels/tilewindow/pkg/realize"
)

// Tile is the element generated for non-own items: a box whose desired
// height is its item's height.
type Tile struct {
	Height float64
	Rect   geom.Rect
}

// Measure returns the tile height at the available width.
func (t *Tile) Measure(available geom.Size) geom.Size {
	return geom.Size{Width: available.Width, Height: t.Height}
}

// Arrange records the final rectangle.
func (t *Tile) Arrange(r geom.Rect) { t.Rect = r }

// Generator builds Tiles for items. It counts lifecycle calls so replays
// can report them.
type Generator struct {
	Created   int
	Prepared  int
	Cleared   int
	Destroyed int
}

// NeedsContainer wraps every item except own ones.
func (g *Generator) NeedsContainer(item any, _ int) (bool, realize.Kind) {
	it := item.(*Item)
	if it.Own {
		return false, realize.KindNone
	}
	return true, realize.Kind(it.Kind)
}

// CreateContainer returns a fresh tile.
func (g *Generator) CreateContainer(any, int, realize.Kind) geom.Element {
	g.Created++
	return &Tile{}
}

// PrepareContainer copies the item height into the tile.
func (g *Generator) PrepareContainer(c *realize.Container, item any, _ int) {
	g.Prepared++
	c.Element.(*Tile).Height = item.(*Item).Height
}

// ClearContainer resets the tile.
func (g *Generator) ClearContainer(c *realize.Container) {
	g.Cleared++
	if t, ok := c.Element.(*Tile); ok {
		*t = Tile{}
	}
}

// DestroyContainer counts containers released for good.
func (g *Generator) DestroyContainer(*realize.Container) {
	g.Destroyed++
}

// Anchors records the current scroll-anchor candidates.
type Anchors struct {
	set map[*realize.Container]struct{}
}

// NewAnchors returns an empty registry.
func NewAnchors() *Anchors {
	return &Anchors{set: make(map[*realize.Container]struct{})}
}

// RegisterAnchorCandidate adds c.
func (a *Anchors) RegisterAnchorCandidate(c *realize.Container) { a.set[c] = struct{}{} }

// UnregisterAnchorCandidate removes c.
func (a *Anchors) UnregisterAnchorCandidate(c *realize.Container) { delete(a.set, c) }

// Len returns the number of registered candidates.
func (a *Anchors) Len() int { return len(a.set) }

// Has reports whether c is registered.
func (a *Anchors) Has(c *realize.Container) bool {
	_, ok := a.set[c]
	return ok
}

// Host plays the role of a UI toolkit for one engine: it owns the items
// and the viewport, forwards change notifications and runs layout passes.
type Host struct {
	Items     *Items
	Engine    *panel.Engine
	Generator *Generator
	Anchors   *Anchors

	viewport geom.Rect
	synth    *synth
}

// NewHost builds the items and an engine for s. Engine options are applied
// after the host's own, so callers can override the anchors or hints.
func NewHost(s *Scenario, opts ...panel.Option) (*Host, error) {
	policy, err := s.Policy.Build()
	if err != nil {
		return nil, err
	}

	h := &Host{
		Items:     &Items{},
		Generator: &Generator{},
		Anchors:   NewAnchors(),
		synth:     newSynth(s.Items),
		viewport: geom.Rect{
			Y:      s.Viewport.Y,
			Width:  s.Viewport.Width,
			Height: s.Viewport.Height,
		},
	}
	h.Items.Reset(append(clone(s.Items.List), h.synth.next(s.Items.Count)...))

	base := []panel.Option{
		panel.WithAnchors(h.Anchors),
		panel.WithHints(h.Items.Hint),
	}
	h.Engine = panel.New(h.Items, h.Generator, policy, append(base, opts...)...)
	h.Engine.OnEffectiveViewportChanged(h.viewport)
	return h, nil
}

// Viewport returns the current visible rectangle.
func (h *Host) Viewport() geom.Rect { return h.viewport }

// Layout runs a measure and arrange pass if one is pending. It reports
// whether a pass ran.
func (h *Host) Layout() bool {
	if !h.Engine.Dirty() {
		return false
	}
	extent := h.Engine.Measure(geom.Size{Width: h.viewport.Width, Height: math.Inf(1)})
	h.Engine.Arrange(geom.Size{Width: h.viewport.Width, Height: extent.Height})
	return true
}

// ScrollTo moves the viewport to y, clamped at zero.
func (h *Host) ScrollTo(y float64) {
	h.viewport.Y = max(y, 0)
	h.Engine.OnEffectiveViewportChanged(h.viewport)
}

// Resize changes the viewport size.
func (h *Host) Resize(width, height float64) {
	h.viewport.Width = width
	h.viewport.Height = height
	h.Engine.OnEffectiveViewportChanged(h.viewport)
}

// Apply mutates the collection or the viewport for one step and notifies
// the engine. It does not run layout.
func (h *Host) Apply(st Step) error {
	n := h.Items.Len()
	switch st.Op {
	case OpScroll:
		h.ScrollTo(st.Y)
	case OpResize:
		h.Resize(st.Width, st.Height)
	case OpAppend:
		h.Items.Insert(n, h.newItems(st)...)
		h.Engine.OnItemsChanged(panel.ActionAdd, n)
	case OpInsert:
		if err := errors.ValidateIndex(st.Index, n, true); err != nil {
			return err
		}
		h.Items.Insert(st.Index, h.newItems(st)...)
		h.Engine.OnItemsChanged(panel.ActionAdd, st.Index)
	case OpRemove:
		count := max(st.Count, 1)
		if err := errors.ValidateIndex(st.Index+count-1, n, false); err != nil {
			return err
		}
		h.Items.Remove(st.Index, count)
		h.Engine.OnItemsChanged(panel.ActionRemove, st.Index)
	case OpReplace:
		if err := errors.ValidateIndex(st.Index, n, false); err != nil {
			return err
		}
		items := h.newItems(Step{Items: st.Items, Count: 1})
		h.Items.Replace(st.Index, items[0])
		h.Engine.OnItemsChanged(panel.ActionReplace, st.Index)
	case OpMove:
		if err := errors.ValidateIndex(st.Index, n, false); err != nil {
			return err
		}
		if err := errors.ValidateIndex(st.To, n, false); err != nil {
			return err
		}
		h.Items.Move(st.Index, st.To)
		h.Engine.OnItemsChanged(panel.ActionMove, min(st.Index, st.To))
	case OpReset:
		h.Items.Reset(h.newItems(st))
		h.Engine.OnItemsChanged(panel.ActionReset, 0)
	default:
		return errors.New(errors.ErrCodeInvalidScenario, "unknown op %q", st.Op)
	}
	return nil
}

// Close releases every container.
func (h *Host) Close() { h.Engine.Close() }

// newItems returns the step's explicit items, or Count generated ones.
func (h *Host) newItems(st Step) []*Item {
	if len(st.Items) > 0 {
		return clone(st.Items)
	}
	return h.synth.next(st.Count)
}
