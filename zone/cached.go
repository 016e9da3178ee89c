/*
cached.go - Query cache decorator

PURPOSE:
  Wraps a transition-table zone to accelerate repeated nearby offset/name
  queries. The timeline is carved into fixed periods of 2^32 ms (about 50
  days); resolving one query for a period captures every offset segment in
  it, and later queries in the same period are answered from that capture
  without touching the binary search.

CONCURRENCY:
  The cache is the only mutable structure shared by concurrent readers.
  Entries are built completely before being published through an atomic
  pointer, so a reader sees either a whole entry or none. Two goroutines
  racing on the same period may both compute it; whichever publication wins
  is a correct answer, never a partial one.

WHAT IS NOT CACHED:
  NextTransition and PreviousTransition delegate straight to the wrapped
  zone; they are already a single binary search and gain nothing from the
  segment capture.
*/
package zone

import "sync/atomic"

const (
	cachePeriodShift = 32
	cachePeriodMask  = int64(1)<<cachePeriodShift - 1
	cacheSlots       = 512
)

type cachedZone struct {
	inner Zone
	cache [cacheSlots]atomic.Pointer[cacheEntry]
}

// cacheEntry captures one period's offset segments, ascending by start.
// The first segment always starts at the period start.
type cacheEntry struct {
	periodStart int64
	segments    []cacheSegment
}

type cacheSegment struct {
	start          int64
	nameKey        string
	wallOffset     int
	standardOffset int
}

func newCachedZone(inner Zone) *cachedZone {
	return &cachedZone{inner: inner}
}

func (z *cachedZone) ID() string    { return z.inner.ID() }
func (z *cachedZone) IsFixed() bool { return z.inner.IsFixed() }

func (z *cachedZone) NameAt(instant int64) string {
	return z.segmentFor(instant).nameKey
}

func (z *cachedZone) OffsetAt(instant int64) int {
	return z.segmentFor(instant).wallOffset
}

func (z *cachedZone) StandardOffsetAt(instant int64) int {
	return z.segmentFor(instant).standardOffset
}

func (z *cachedZone) NextTransition(instant int64) int64 {
	return z.inner.NextTransition(instant)
}

func (z *cachedZone) PreviousTransition(instant int64) int64 {
	return z.inner.PreviousTransition(instant)
}

func (z *cachedZone) segmentFor(instant int64) cacheSegment {
	period := instant >> cachePeriodShift
	slot := &z.cache[int(period&(cacheSlots-1))]

	entry := slot.Load()
	if entry == nil || entry.periodStart>>cachePeriodShift != period {
		entry = z.buildEntry(period)
		slot.Store(entry)
	}

	segments := entry.segments
	for i := len(segments) - 1; i >= 0; i-- {
		if instant >= segments[i].start {
			return segments[i]
		}
	}
	return segments[0]
}

// buildEntry computes every offset segment within the period by walking the
// wrapped zone's transitions from the period start to its end.
func (z *cachedZone) buildEntry(period int64) *cacheEntry {
	start := period << cachePeriodShift
	end := start | cachePeriodMask

	entry := &cacheEntry{periodStart: start}
	at := start
	for {
		entry.segments = append(entry.segments, cacheSegment{
			start:          at,
			nameKey:        z.inner.NameAt(at),
			wallOffset:     z.inner.OffsetAt(at),
			standardOffset: z.inner.StandardOffsetAt(at),
		})
		next := z.inner.NextTransition(at)
		if next == at || next > end {
			return entry
		}
		at = next
	}
}
