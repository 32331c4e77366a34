// Package realize owns the containers that give logical items an on-screen
// presence.
//
// # Lifecycle
//
// A [Container] is bound to exactly one item index while realized. When the
// item leaves the realization window the container is recycled: it is
// cleared and pushed onto a per-kind LIFO stack in the [RecyclePool], ready
// to be rebound to a different index. A pool that is full destroys the
// container instead, so memory stays bounded however far the user scrolls.
//
//	Unrealized -> Realized(i) -> Recycled -> Realized(j) | Destroyed
//
// Items that are their own visual (the generator reports they need no
// wrapper) are never pooled; recycling them only marks them invisible.
// Generated containers of [KindNone] are destroyed on recycle.
//
// # Bookkeeping
//
// The [Manager] keeps the index→container and container→index maps exact
// inverses of each other over the realized set, and tells the host's
// [AnchorRegistry] whenever a container starts or stops being a scroll
// anchor candidate.
//
// The host supplies items through [ItemSource] and builds containers through
// [Generator]; the manager never inspects item data.
package realize
