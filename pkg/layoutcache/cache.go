// Package layoutcache keeps the rectangles computed by one layout pass so the
// next pass can skip recomputation when nothing relevant changed.
//
// The cache is trusted only while the measure width and the item count match
// the values it was committed with. Structural changes to the collection
// invalidate it unconditionally; appending items at the end keeps the
// existing rectangles and lets the next pass place only the new indices.
//
// The cache also tracks a running mean of measured item extents, used to
// predict the size of items that have never been measured.
package layoutcache

import "github.com/matzehuels/tilewindow/pkg/geom"

// DefaultEstimate is the predicted item extent before anything was measured.
const DefaultEstimate = 100.0

// Cache stores per-index rectangles plus the metadata that decides whether
// they are still valid.
type Cache struct {
	bounds []geom.Rect
	width  float64
	count  int
	valid  bool

	estimate float64
	sum      float64
	samples  int
	fallback float64
}

// New returns an empty cache whose estimate starts at fallback (or
// DefaultEstimate when fallback is not positive).
func New(fallback float64) *Cache {
	if fallback <= 0 {
		fallback = DefaultEstimate
	}
	return &Cache{estimate: fallback, fallback: fallback}
}

// Valid reports whether the cached rectangles can be reused as-is.
func (c *Cache) Valid(width float64, count int) bool {
	return c.valid && c.width == width && c.count == count
}

// Appendable reports whether only new trailing items need placing: the
// width matches and the collection grew without any disruptive change.
func (c *Cache) Appendable(width float64, count int) bool {
	return c.valid && c.width == width && count > c.count
}

// Width returns the measure width the cache was committed with.
func (c *Cache) Width() float64 { return c.width }

// ItemCount returns the item count the cache was committed with.
func (c *Cache) ItemCount() int { return c.count }

// Len returns the number of stored rectangles.
func (c *Cache) Len() int { return len(c.bounds) }

// Bounds returns the rectangle stored for index and whether one exists.
func (c *Cache) Bounds(index int) (geom.Rect, bool) {
	if index < 0 || index >= len(c.bounds) {
		return geom.Rect{}, false
	}
	return c.bounds[index], true
}

// Resize sets the number of stored rectangles to n, keeping existing
// entries and capacity.
func (c *Cache) Resize(n int) {
	if n <= cap(c.bounds) {
		old := len(c.bounds)
		c.bounds = c.bounds[:n]
		if n > old {
			clear(c.bounds[old:])
		}
		return
	}
	grown := make([]geom.Rect, n, max(n, 2*cap(c.bounds)))
	copy(grown, c.bounds)
	c.bounds = grown
}

// Set stores the rectangle for index, which must be below Len.
func (c *Cache) Set(index int, r geom.Rect) { c.bounds[index] = r }

// Commit marks the stored rectangles valid for width and count.
func (c *Cache) Commit(width float64, count int) {
	c.width = width
	c.count = count
	c.valid = true
}

// Invalidate drops trust in the stored rectangles. The buffer is kept.
func (c *Cache) Invalidate() {
	c.valid = false
}

// IsValid reports whether the cache has been committed since the last
// invalidation.
func (c *Cache) IsValid() bool { return c.valid }

// Estimate returns the predicted extent of an unmeasured item: the mean of
// the extents observed in the current pass, else the last committed mean.
func (c *Cache) Estimate() float64 {
	if c.samples > 0 {
		return c.sum / float64(c.samples)
	}
	return c.estimate
}

// BeginSampling starts a new running mean for a full pass.
func (c *Cache) BeginSampling() {
	c.sum = 0
	c.samples = 0
}

// Observe adds a measured extent to the running mean.
func (c *Cache) Observe(extent float64) {
	c.sum += extent
	c.samples++
}

// EndSampling folds the running mean into the stored estimate when at
// least one item was measured.
func (c *Cache) EndSampling() {
	if c.samples > 0 {
		c.estimate = c.sum / float64(c.samples)
	}
	c.sum = 0
	c.samples = 0
}

// ResetEstimate returns the estimate to its starting value.
func (c *Cache) ResetEstimate() {
	c.estimate = c.fallback
	c.sum = 0
	c.samples = 0
}
