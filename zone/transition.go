/*
transition.go - A single offset change on the timeline

PURPOSE:
  A transition records the instant an observed offset regime begins: the
  name in force from that instant, the wall offset (standard + savings) and
  the standard offset alone.

SUCCESSOR INVARIANT:
  A transition only follows another if it is strictly later AND changes
  something a local clock can observe: the wall offset or the name. A change
  in standard offset alone (savings moving the other way by the same amount)
  is not a transition.
*/
package zone

type transition struct {
	instant        int64
	nameKey        string
	wallOffset     int
	standardOffset int
}

func (t transition) saveMillis() int {
	return t.wallOffset - t.standardOffset
}

// isTransitionFrom reports whether t is a valid successor of prev.
func (t transition) isTransitionFrom(prev *transition) bool {
	if prev == nil {
		return true
	}
	return t.instant > prev.instant &&
		(t.wallOffset != prev.wallOffset || t.nameKey != prev.nameKey)
}
