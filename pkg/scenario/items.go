package scenario

import (
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/tilewindow/pkg/errors"
	"github.com/matzehuels/tilewindow/pkg/geom"
	"github.com/matzehuels/tilewindow/pkg/placement"
)

// Item is one logical entry in the collection. Kind selects the recycle
// stack; kind 0 items get a throwaway container. Own items draw themselves
// and are never wrapped in a generated container.
type Item struct {
	Height  float64 `toml:"height" json:"height"`
	Kind    int     `toml:"kind" json:"kind,omitempty"`
	ColSpan int     `toml:"col_span" json:"col_span,omitempty"`
	RowSpan int     `toml:"row_span" json:"row_span,omitempty"`
	Own     bool    `toml:"own" json:"own,omitempty"`

	rect geom.Rect
}

// Validate checks the item's height and spans.
func (it Item) Validate() error {
	if err := errors.ValidateDimension("height", it.Height); err != nil {
		return err
	}
	if it.Kind < 0 {
		return errors.New(errors.ErrCodeInvalidScenario, "kind cannot be negative")
	}
	if err := errors.ValidateSpan("col_span", it.ColSpan); err != nil {
		return err
	}
	return errors.ValidateSpan("row_span", it.RowSpan)
}

// Hint returns the span hint; zero spans mean one cell.
func (it *Item) Hint() placement.Hint {
	return placement.Hint{ColumnSpan: max(it.ColSpan, 1), RowSpan: max(it.RowSpan, 1)}
}

// Measure reports the item's own height. Only own items are measured
// directly.
func (it *Item) Measure(available geom.Size) geom.Size {
	return geom.Size{Width: available.Width, Height: it.Height}
}

// Arrange records the rectangle of an own item.
func (it *Item) Arrange(r geom.Rect) { it.rect = r }

// Rect returns the last arranged rectangle of an own item.
func (it *Item) Rect() geom.Rect { return it.rect }

// Items is the mutable collection seen by the engine.
type Items struct {
	list []*Item
}

// Len returns the number of items.
func (s *Items) Len() int { return len(s.list) }

// At returns the item at index i.
func (s *Items) At(i int) any { return s.list[i] }

// Item returns the typed item at index i.
func (s *Items) Item(i int) *Item { return s.list[i] }

// Hint returns the span hint of index i.
func (s *Items) Hint(i int) placement.Hint {
	if i < 0 || i >= len(s.list) {
		return placement.DefaultHint
	}
	return s.list[i].Hint()
}

// Insert places items before index at.
func (s *Items) Insert(at int, items ...*Item) {
	s.list = slices.Insert(s.list, at, items...)
}

// Remove deletes n items starting at index at.
func (s *Items) Remove(at, n int) {
	s.list = slices.Delete(s.list, at, at+n)
}

// Move relocates the item at from so it ends up at index to.
func (s *Items) Move(from, to int) {
	item := s.list[from]
	s.Remove(from, 1)
	s.Insert(to, item)
}

// Replace swaps the item at index i.
func (s *Items) Replace(i int, item *Item) { s.list[i] = item }

// Reset replaces the whole collection.
func (s *Items) Reset(items []*Item) { s.list = items }

// synth generates deterministic items from a seeded PCG source.
type synth struct {
	rng  *rand.Rand
	spec ItemsSpec
}

func newSynth(spec ItemsSpec) *synth {
	return &synth{
		rng:  rand.New(rand.NewPCG(spec.Seed, spec.Seed^0x9e3779b97f4a7c15)),
		spec: spec,
	}
}

// next returns n generated items.
func (g *synth) next(n int) []*Item {
	items := make([]*Item, n)
	span := g.spec.MaxHeight - g.spec.MinHeight
	for i := range items {
		it := &Item{
			Height: g.spec.MinHeight,
			Kind:   1 + g.rng.IntN(g.spec.Kinds),
		}
		if span > 0 {
			it.Height += float64(int(g.rng.Float64() * span))
		}
		if g.spec.MaxSpan > 1 {
			it.ColSpan = 1 + g.rng.IntN(g.spec.MaxSpan)
			it.RowSpan = 1 + g.rng.IntN(g.spec.MaxSpan)
		}
		items[i] = it
	}
	return items
}

// clone copies explicit items so replays never share state.
func clone(items []Item) []*Item {
	out := make([]*Item, len(items))
	for i := range items {
		it := items[i]
		out[i] = &it
	}
	return out
}
