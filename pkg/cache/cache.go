// Package cache stores replayed layout snapshots so repeated runs of the
// same scenario skip the replay.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] and
// [MongoCache] for the HTTP server, and [NullCache] when caching is off.
// Keys come from a [Keyer] so callers never build key strings by hand.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Entry lifetimes.
const (
	// TTLSnapshot is how long replayed snapshots stay cached. Replays are
	// deterministic, so entries only expire to bound disk use.
	TTLSnapshot = 7 * 24 * time.Hour

	// TTLResult is how long results stored under a public ID stay
	// retrievable.
	TTLResult = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. A missing or
	// expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// Keyer builds cache keys.
type Keyer interface {
	// SnapshotKey identifies the replay of one scenario with one set of
	// engine options.
	SnapshotKey(scenarioHash string, opts SnapshotKeyOpts) string

	// ResultKey identifies a stored replay result by its public ID.
	ResultKey(id string) string
}

// SnapshotKeyOpts are the engine options that change replay output.
type SnapshotKeyOpts struct {
	MaxPoolSize int     `json:"max_pool_size"`
	Tolerance   float64 `json:"tolerance"`
	Estimate    float64 `json:"estimate"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SnapshotKey spells the options out after the scenario hash, for example
// "snapshot:<hash>:pool=16:tol=0.5:est=100".
func (DefaultKeyer) SnapshotKey(scenarioHash string, opts SnapshotKeyOpts) string {
	return fmt.Sprintf("snapshot:%s:pool=%d:tol=%g:est=%g",
		scenarioHash, opts.MaxPoolSize, opts.Tolerance, opts.Estimate)
}

// ResultKey prefixes the ID.
func (DefaultKeyer) ResultKey(id string) string {
	return "result:" + id
}

// Hash returns the hex SHA-256 of data. Scenario hashes and file cache
// names use it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// NullCache stores nothing. It stands in for backend "none" and --no-cache,
// so every lookup misses and clearing always reports zero entries.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() *NullCache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Clear(context.Context) (int, error)                       { return 0, nil }
func (*NullCache) Close() error                                             { return nil }

var (
	_ Cache   = (*NullCache)(nil)
	_ Clearer = (*NullCache)(nil)
)
