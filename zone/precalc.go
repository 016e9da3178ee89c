/*
precalc.go - Transition-table descriptor

PURPOSE:
  The workhorse zone shape: four parallel arrays (instant, wall offset,
  standard offset, name) sorted by instant, answered by binary search, with
  an optional perpetual tail taking over past the last entry.

LOOKUP CONVENTION:
  For offset/name queries the entry in force at an instant is the latest
  entry at or before it. Before the first entry the answer is "UTC", offset
  zero - the time before recorded history.

NAME-KEY DISAMBIGUATION:
  Some zones label summer and winter time identically. When two adjacent
  entries (or the two recurrences of the tail) share a name and standard
  offset but differ in wall offset, separated by a plausible half-year, the
  entry with the larger offset gets a "-Summer" suffix so the two regimes
  stay textually distinct.
*/
package zone

import (
	"sort"

	"github.com/meridian/zone-engine/chrono"
)

const summerSuffix = "-Summer"

// Gaps shorter than about two years count toward the cachability average.
const twoYearsMillis = (366 + 365) * 24 * 60 * 60 * 1000

type precalcZone struct {
	id string

	// Parallel arrays, same length, instants strictly ascending.
	transitions     []int64
	wallOffsets     []int
	standardOffsets []int
	nameKeys        []string

	tail *dstZone
}

// newPrecalculatedZone validates the successor invariant over the sequence,
// applies name-key disambiguation, and freezes the table.
func newPrecalculatedZone(id string, outputID bool, trans []transition, tail *dstZone) (*precalcZone, error) {
	if len(trans) == 0 {
		return nil, invalidSequenceError(id)
	}

	size := len(trans)
	instants := make([]int64, size)
	wallOffsets := make([]int, size)
	standardOffsets := make([]int, size)
	nameKeys := make([]string, size)

	var last *transition
	for i := range trans {
		if !trans[i].isTransitionFrom(last) {
			return nil, invalidSequenceError(id)
		}
		instants[i] = trans[i].instant
		wallOffsets[i] = trans[i].wallOffset
		standardOffsets[i] = trans[i].standardOffset
		nameKeys[i] = trans[i].nameKey
		last = &trans[i]
	}

	for i := 0; i < size-1; i++ {
		if wallOffsets[i] == wallOffsets[i+1] ||
			standardOffsets[i] != standardOffsets[i+1] ||
			nameKeys[i] != nameKeys[i+1] {
			continue
		}
		years, months := chrono.MonthSpan(instants[i], instants[i+1])
		if years != 0 || months <= 4 || months >= 8 {
			continue
		}
		if wallOffsets[i] > wallOffsets[i+1] {
			nameKeys[i] += summerSuffix
		} else {
			nameKeys[i+1] += summerSuffix
			i++
		}
	}

	if tail != nil && tail.startRecurrence.nameKey == tail.endRecurrence.nameKey {
		renamed := *tail
		if tail.startRecurrence.saveMillis > 0 {
			renamed.startRecurrence = tail.startRecurrence.renameAppend(summerSuffix)
		} else {
			renamed.endRecurrence = tail.endRecurrence.renameAppend(summerSuffix)
		}
		tail = &renamed
	}

	if !outputID {
		id = ""
	}
	return &precalcZone{
		id:              id,
		transitions:     instants,
		wallOffsets:     wallOffsets,
		standardOffsets: standardOffsets,
		nameKeys:        nameKeys,
		tail:            tail,
	}, nil
}

func (z *precalcZone) ID() string    { return z.id }
func (z *precalcZone) IsFixed() bool { return false }

// search returns the index of the exact match for instant, or -1 and the
// insertion point (count of entries strictly before instant).
func (z *precalcZone) search(instant int64) (exact, insertion int) {
	i := sort.Search(len(z.transitions), func(k int) bool { return z.transitions[k] >= instant })
	if i < len(z.transitions) && z.transitions[i] == instant {
		return i, i
	}
	return -1, i
}

func (z *precalcZone) NameAt(instant int64) string {
	exact, i := z.search(instant)
	if exact >= 0 {
		return z.nameKeys[exact]
	}
	if i < len(z.transitions) {
		if i > 0 {
			return z.nameKeys[i-1]
		}
		return "UTC"
	}
	if z.tail == nil {
		return z.nameKeys[i-1]
	}
	return z.tail.NameAt(instant)
}

func (z *precalcZone) OffsetAt(instant int64) int {
	exact, i := z.search(instant)
	if exact >= 0 {
		return z.wallOffsets[exact]
	}
	if i < len(z.transitions) {
		if i > 0 {
			return z.wallOffsets[i-1]
		}
		return 0
	}
	if z.tail == nil {
		return z.wallOffsets[i-1]
	}
	return z.tail.OffsetAt(instant)
}

func (z *precalcZone) StandardOffsetAt(instant int64) int {
	exact, i := z.search(instant)
	if exact >= 0 {
		return z.standardOffsets[exact]
	}
	if i < len(z.transitions) {
		if i > 0 {
			return z.standardOffsets[i-1]
		}
		return 0
	}
	if z.tail == nil {
		return z.standardOffsets[i-1]
	}
	return z.tail.StandardOffsetAt(instant)
}

func (z *precalcZone) NextTransition(instant int64) int64 {
	i := sort.Search(len(z.transitions), func(k int) bool { return z.transitions[k] > instant })
	if i < len(z.transitions) {
		return z.transitions[i]
	}
	if z.tail == nil {
		return instant
	}
	// Hand the tail an instant no earlier than the seam.
	if end := z.transitions[len(z.transitions)-1]; instant < end {
		instant = end
	}
	return z.tail.NextTransition(instant)
}

func (z *precalcZone) PreviousTransition(instant int64) int64 {
	exact, i := z.search(instant)
	if exact >= 0 {
		if instant > chrono.MinInstant {
			return instant - 1
		}
		return instant
	}
	if i < len(z.transitions) {
		if i > 0 {
			if prev := z.transitions[i-1]; prev > chrono.MinInstant {
				return prev - 1
			}
		}
		return instant
	}
	if z.tail != nil {
		if prev := z.tail.PreviousTransition(instant); prev < instant {
			return prev
		}
	}
	if prev := z.transitions[i-1]; prev > chrono.MinInstant {
		return prev - 1
	}
	return instant
}

// isCachable decides whether wrapping this table in the query cache pays
// off. The cache amortizes well when transitions are far apart; a table
// that flips every few days would thrash it. One-off multi-year gaps are
// ignored so a long quiet stretch of history does not skew the average.
func (z *precalcZone) isCachable() bool {
	if z.tail != nil {
		return true
	}
	if len(z.transitions) <= 1 {
		return false
	}

	var distances float64
	count := 0
	for i := 1; i < len(z.transitions); i++ {
		diff := z.transitions[i] - z.transitions[i-1]
		if diff < twoYearsMillis {
			distances += float64(diff)
			count++
		}
	}
	if count == 0 {
		return false
	}

	avgDays := distances / float64(count) / (24 * 60 * 60 * 1000)
	return avgDays >= 25
}
