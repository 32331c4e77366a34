package realize

import (
	"maps"
	"slices"
)

// DefaultMaxPoolSize bounds each per-kind stack when no size is configured.
const DefaultMaxPoolSize = 16

// RecyclePool keeps recycled containers in per-kind LIFO stacks, each
// bounded by MaxSize.
type RecyclePool struct {
	max    int
	stacks map[Kind][]*Container
}

// NewRecyclePool returns a pool holding at most maxSize containers per kind.
// A negative size is treated as zero, which disables pooling.
func NewRecyclePool(maxSize int) *RecyclePool {
	return &RecyclePool{max: max(maxSize, 0), stacks: make(map[Kind][]*Container)}
}

// MaxSize returns the per-kind bound.
func (p *RecyclePool) MaxSize() int { return p.max }

// Push stores c on its kind's stack. It returns false, leaving the pool
// unchanged, when the stack is full or the kind is never pooled; the caller
// then destroys c.
func (p *RecyclePool) Push(c *Container) bool {
	if c.Kind == KindNone || len(p.stacks[c.Kind]) >= p.max {
		return false
	}
	p.stacks[c.Kind] = append(p.stacks[c.Kind], c)
	return true
}

// Pop removes the most recently pushed container of kind.
func (p *RecyclePool) Pop(kind Kind) (*Container, bool) {
	s := p.stacks[kind]
	if len(s) == 0 {
		return nil, false
	}
	c := s[len(s)-1]
	s[len(s)-1] = nil
	p.stacks[kind] = s[:len(s)-1]
	return c, true
}

// Len returns the number of pooled containers of kind.
func (p *RecyclePool) Len(kind Kind) int { return len(p.stacks[kind]) }

// Total returns the number of pooled containers over all kinds.
func (p *RecyclePool) Total() int {
	n := 0
	for _, s := range p.stacks {
		n += len(s)
	}
	return n
}

// Kinds returns the kinds with at least one pooled container, sorted.
func (p *RecyclePool) Kinds() []Kind {
	kinds := make([]Kind, 0, len(p.stacks))
	for _, k := range slices.Sorted(maps.Keys(p.stacks)) {
		if len(p.stacks[k]) > 0 {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Drain empties the pool and returns its containers.
func (p *RecyclePool) Drain() []*Container {
	var out []*Container
	for _, k := range slices.Sorted(maps.Keys(p.stacks)) {
		out = append(out, p.stacks[k]...)
	}
	clear(p.stacks)
	return out
}
