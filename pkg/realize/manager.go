package realize

import (
	"io"
	"maps"
	"reflect"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tilewindow/pkg/geom"
	"github.com/matzehuels/tilewindow/pkg/observability"
)

// Stats counts container transitions since the manager was created.
type Stats struct {
	Created   int `json:"created"`
	Reused    int `json:"reused"`
	Owned     int `json:"owned"`
	Reshown   int `json:"reshown"`
	Recycled  int `json:"recycled"`
	Pooled    int `json:"pooled"`
	Hidden    int `json:"hidden"`
	Destroyed int `json:"destroyed"`
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxPoolSize bounds each per-kind recycle stack.
func WithMaxPoolSize(n int) Option {
	return func(m *Manager) { m.pool = NewRecyclePool(n) }
}

// WithAnchors sets the registry told about anchor candidates.
func WithAnchors(a AnchorRegistry) Option {
	return func(m *Manager) {
		if a != nil {
			m.anchors = a
		}
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// Manager maps item indices to realized containers and back, and moves
// containers between the realized set and the recycle pool.
type Manager struct {
	items   ItemSource
	gen     Generator
	anchors AnchorRegistry
	pool    *RecyclePool
	logger  *log.Logger

	byIndex     map[int]*Container
	byContainer map[*Container]int
	// owned keeps the hidden-in-place wrapper of each own item so it is
	// shown again rather than rebuilt.
	owned map[geom.Element]*Container
	stats Stats
}

// NewManager returns a manager over items using gen to build containers.
func NewManager(items ItemSource, gen Generator, opts ...Option) *Manager {
	m := &Manager{
		items:       items,
		gen:         gen,
		anchors:     NopAnchors{},
		pool:        NewRecyclePool(DefaultMaxPoolSize),
		logger:      log.NewWithOptions(io.Discard, log.Options{}),
		byIndex:     make(map[int]*Container),
		byContainer: make(map[*Container]int),
		owned:       make(map[geom.Element]*Container),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetOrCreate returns the container realized for index, realizing one if
// needed: a pooled container of the right kind is rebound before a new one
// is created. It returns nil when index is outside the collection.
func (m *Manager) GetOrCreate(index int) *Container {
	if index < 0 || index >= m.items.Len() {
		return nil
	}
	if c, ok := m.byIndex[index]; ok {
		c.visible = true
		return c
	}

	item := m.items.At(index)
	needs, kind := m.gen.NeedsContainer(item, index)

	var c *Container
	switch {
	case !needs:
		el, ok := item.(geom.Element)
		if !ok {
			m.logger.Debug("item is not an element", "index", index)
			return nil
		}
		c = m.ownContainer(el)
	default:
		if pooled, ok := m.pool.Pop(kind); ok {
			c = pooled
			m.stats.Reused++
			observability.Realization().OnRealize(int(kind), true)
		} else {
			c = newContainer(kind, Generated, m.gen.CreateContainer(item, index, kind))
			m.stats.Created++
			observability.Realization().OnRealize(int(kind), false)
		}
	}

	c.bind(item, index)
	if c.Variant == Generated {
		m.gen.PrepareContainer(c, item, index)
	}
	m.byIndex[index] = c
	m.byContainer[c] = index
	m.anchors.RegisterAnchorCandidate(c)
	return c
}

// Recycle releases the container realized for index. Poolable containers
// are cleared and pooled (destroyed when the pool is full), own containers
// are hidden in place, and KindNone containers are destroyed.
func (m *Manager) Recycle(index int) {
	c, ok := m.byIndex[index]
	if !ok {
		return
	}
	delete(m.byIndex, index)
	delete(m.byContainer, c)
	m.anchors.UnregisterAnchorCandidate(c)
	m.stats.Recycled++

	switch {
	case c.Variant == Own:
		c.visible = false
		c.index = -1
		m.stats.Hidden++
		observability.Realization().OnRecycle(int(c.Kind), false)
	case c.Kind == KindNone:
		m.gen.ClearContainer(c)
		observability.Realization().OnRecycle(int(c.Kind), false)
		m.destroy(c)
	default:
		m.gen.ClearContainer(c)
		c.unbind()
		if m.pool.Push(c) {
			m.stats.Pooled++
			observability.Realization().OnRecycle(int(c.Kind), true)
			return
		}
		m.logger.Debug("recycle pool full", "kind", c.Kind, "max", m.pool.MaxSize())
		observability.Realization().OnRecycle(int(c.Kind), false)
		m.destroy(c)
	}
}

// ownContainer returns the wrapper for an own item, reusing the one it was
// hidden in. Elements of non-comparable types, and elements already shown
// at another index, get a fresh wrapper.
func (m *Manager) ownContainer(el geom.Element) *Container {
	keyed := reflect.TypeOf(el).Comparable()
	if keyed {
		if c, ok := m.owned[el]; ok {
			if !c.Bound() {
				m.stats.Reshown++
				return c
			}
			keyed = false
		}
	}
	c := newContainer(KindNone, Own, el)
	if keyed {
		m.owned[el] = c
	}
	m.stats.Owned++
	return c
}

// RecycleAll recycles every realized container in index order and forgets
// the wrappers of own items that left the collection.
func (m *Manager) RecycleAll() {
	for _, index := range m.Realized() {
		m.Recycle(index)
	}
	m.pruneOwned()
}

func (m *Manager) pruneOwned() {
	if len(m.owned) == 0 {
		return
	}
	present := make(map[geom.Element]bool, len(m.owned))
	for i := range m.items.Len() {
		if el, ok := m.items.At(i).(geom.Element); ok && reflect.TypeOf(el).Comparable() {
			if _, tracked := m.owned[el]; tracked {
				present[el] = true
			}
		}
	}
	maps.DeleteFunc(m.owned, func(el geom.Element, _ *Container) bool { return !present[el] })
}

// Close recycles everything and destroys the pooled containers.
func (m *Manager) Close() {
	m.RecycleAll()
	for _, c := range m.pool.Drain() {
		m.destroy(c)
	}
	clear(m.owned)
}

func (m *Manager) destroy(c *Container) {
	c.unbind()
	if d, ok := m.gen.(Destroyer); ok {
		d.DestroyContainer(c)
	}
	m.stats.Destroyed++
	observability.Realization().OnDestroy(int(c.Kind))
}

// Container returns the container realized for index.
func (m *Manager) Container(index int) (*Container, bool) {
	c, ok := m.byIndex[index]
	return c, ok
}

// IndexOf returns the index c is realized for.
func (m *Manager) IndexOf(c *Container) (int, bool) {
	i, ok := m.byContainer[c]
	return i, ok
}

// IsRealized reports whether index has a container.
func (m *Manager) IsRealized(index int) bool {
	_, ok := m.byIndex[index]
	return ok
}

// Realized returns the realized indices in ascending order.
func (m *Manager) Realized() []int {
	return slices.Sorted(maps.Keys(m.byIndex))
}

// Len returns the number of realized containers.
func (m *Manager) Len() int { return len(m.byIndex) }

// Pool returns the recycle pool.
func (m *Manager) Pool() *RecyclePool { return m.pool }

// Stats returns the transition counters.
func (m *Manager) Stats() Stats { return m.stats }

// Consistent reports whether the two maps are exact inverses and every
// realized container is bound to its own index.
func (m *Manager) Consistent() bool {
	if len(m.byIndex) != len(m.byContainer) {
		return false
	}
	for i, c := range m.byIndex {
		if j, ok := m.byContainer[c]; !ok || j != i || c.index != i {
			return false
		}
	}
	return true
}
