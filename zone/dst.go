/*
dst.go - Perpetual two-rule descriptor

PURPOSE:
  When a zone's future is nothing but two rules alternating forever, the
  whole infinite transition stream collapses into this closed form: queries
  compute each rule's adjacent occurrence on demand instead of reading a
  table.

WHICH RULE IS IN FORCE:
  At any instant, the rule in force is the one whose NEXT occurrence is
  farther away - if the start rule fires sooner, the end rule's regime is
  currently active, and vice versa. Ties resolve to the end rule.

BOUNDARY BEHAVIOR:
  Near the ends of the representable timeline a recurrence search can stall
  or fail. Each rule's candidate then degrades to the query instant itself,
  which the min/max selection treats as "no transition from this rule"; the
  query still returns a defined answer.
*/
package zone

import "github.com/meridian/zone-engine/chrono"

type dstZone struct {
	id              string
	standardOffset  int
	startRecurrence recurrence
	endRecurrence   recurrence
}

func (z *dstZone) ID() string    { return z.id }
func (z *dstZone) IsFixed() bool { return false }

func (z *dstZone) NameAt(instant int64) string {
	return z.findMatchingRecurrence(instant).nameKey
}

func (z *dstZone) OffsetAt(instant int64) int {
	return z.standardOffset + z.findMatchingRecurrence(instant).saveMillis
}

func (z *dstZone) StandardOffsetAt(int64) int {
	return z.standardOffset
}

func (z *dstZone) NextTransition(instant int64) int64 {
	start := z.nextOrSelf(z.startRecurrence, z.endRecurrence, instant)
	end := z.nextOrSelf(z.endRecurrence, z.startRecurrence, instant)
	if start > end {
		return end
	}
	return start
}

func (z *dstZone) PreviousTransition(instant int64) int64 {
	// Step past the query instant so a transition exactly at it is found.
	at := chrono.AddMillis(instant, 1)

	start := z.previousOrSelf(z.startRecurrence, z.endRecurrence, at)
	end := z.previousOrSelf(z.endRecurrence, z.startRecurrence, at)

	latest := end
	if start > end {
		latest = start
	}
	return latest - 1
}

// nextOrSelf computes r's next occurrence, degrading to instant on any
// boundary failure. The other rule's savings are in force just before r
// fires, so they feed the frame conversion.
func (z *dstZone) nextOrSelf(r, other recurrence, instant int64) int64 {
	next, err := r.next(instant, z.standardOffset, other.saveMillis)
	if err != nil || (instant > 0 && next < 0) || next <= instant {
		return instant
	}
	return next
}

func (z *dstZone) previousOrSelf(r, other recurrence, instant int64) int64 {
	prev, err := r.previous(instant, z.standardOffset, other.saveMillis)
	if err != nil || (instant < 0 && prev > 0) || prev >= instant {
		return instant
	}
	return prev
}

func (z *dstZone) findMatchingRecurrence(instant int64) recurrence {
	start, err := z.startRecurrence.next(instant, z.standardOffset, z.endRecurrence.saveMillis)
	if err != nil {
		start = instant
	}
	end, err := z.endRecurrence.next(instant, z.standardOffset, z.startRecurrence.saveMillis)
	if err != nil {
		end = instant
	}
	if start > end {
		return z.startRecurrence
	}
	return z.endRecurrence
}
