/*
builder.go - Staged construction of zone descriptors

PURPOSE:
  The Builder accumulates a zone history as a chain of eras: AddCutover
  closes the current era and opens the next, and the setter calls configure
  whichever era is currently open. Build resolves every era in declared
  order, stitches their transition streams into one deduplicated ascending
  sequence, and picks the cheapest descriptor that represents it.

CHAINING AND ERRORS:
  Configuration calls return the Builder for chaining. The first invalid
  input (bad mode character) is remembered and aborts Build; no partially
  built zone is ever observable.

MERGE/COLLAPSE:
  Candidate transitions from an era may duplicate or shadow one another.
  addTransition only appends valid successors, and when a candidate lands
  on the same perceived wall-clock moment as the current last entry it
  replaces that entry instead - iteratively re-checking against the new
  tail, so a run of same-local-time candidates collapses without recursion.

REPRESENTATION CHOICE:
  zero transitions          -> fixed UTC (or the bare tail if one appeared)
  one transition, no tail   -> fixed with that transition's name/offsets
  otherwise                 -> transition table (+tail), cache-wrapped when
                               the table's gap profile makes caching pay.
*/
package zone

import "github.com/meridian/zone-engine/chrono"

// Builder assembles a zone history and compiles it. Not safe for concurrent
// use; discard after Build.
type Builder struct {
	ruleSets []*ruleSet
	err      error
}

func NewBuilder() *Builder {
	return &Builder{}
}

// AddCutover closes the current era at the given annual formula and opens a
// new one. The new era's standard offset defaults to zero; call
// SetStandardOffset afterwards. mode is 'u', 'w' or 's'; dayOfMonth may be
// negative to count from the month's end; dayOfWeek 0 means no constraint.
func (b *Builder) AddCutover(year int, mode byte, month, dayOfMonth, dayOfWeek int, advance bool, millisOfDay int) *Builder {
	if b.err != nil {
		return b
	}
	oy, err := newOfYear(mode, month, dayOfMonth, dayOfWeek, advance, millisOfDay)
	if err != nil {
		b.err = err
		return b
	}
	if n := len(b.ruleSets); n > 0 {
		b.ruleSets[n-1].setUpperLimit(year, oy)
	}
	b.ruleSets = append(b.ruleSets, newRuleSet())
	return b
}

// SetStandardOffset sets the standard offset for the current era.
func (b *Builder) SetStandardOffset(standardOffset int) *Builder {
	if b.err != nil {
		return b
	}
	b.lastRuleSet().standardOffset = standardOffset
	return b
}

// SetFixedSavings pins the current era to a fixed savings and name instead
// of searching its rules for the initial state.
func (b *Builder) SetFixedSavings(nameKey string, saveMillis int) *Builder {
	if b.err != nil {
		return b
	}
	rs := b.lastRuleSet()
	rs.initialNameKey = nameKey
	rs.initialSaveMillis = saveMillis
	return b
}

// AddRecurringSavings adds a daylight-saving rule to the current era. A rule
// with fromYear > toYear is ignored, as is one value-identical to a rule
// already present.
func (b *Builder) AddRecurringSavings(nameKey string, saveMillis, fromYear, toYear int, mode byte, month, dayOfMonth, dayOfWeek int, advance bool, millisOfDay int) *Builder {
	if b.err != nil {
		return b
	}
	if fromYear > toYear {
		return b
	}
	oy, err := newOfYear(mode, month, dayOfMonth, dayOfWeek, advance, millisOfDay)
	if err != nil {
		b.err = err
		return b
	}
	b.lastRuleSet().addRule(rule{
		recurrence: recurrence{ofYear: oy, nameKey: nameKey, saveMillis: saveMillis},
		fromYear:   fromYear,
		toYear:     toYear,
	})
	return b
}

func (b *Builder) lastRuleSet() *ruleSet {
	if len(b.ruleSets) == 0 {
		b.AddCutover(MinYear, ModeWall, 1, 1, 0, false, 0)
	}
	return b.ruleSets[len(b.ruleSets)-1]
}

// Build compiles the accumulated history into an immutable Zone. The id
// must be non-empty; outputID controls whether the id is carried on the
// descriptor.
func (b *Builder) Build(id string, outputID bool) (Zone, error) {
	if b.err != nil {
		return nil, b.err
	}
	if id == "" {
		return nil, ErrMissingID
	}

	var transitions []transition

	// The tail picks up whatever an endless rule pair would keep producing.
	var tail *dstZone

	millis := chrono.MinInstant
	saveMillis := 0

	for i, rs := range b.ruleSets {
		first, err := rs.firstTransition(millis)
		if err != nil {
			return nil, err
		}
		if first == nil {
			continue
		}
		addTransition(&transitions, *first)
		millis = first.instant
		saveMillis = first.saveMillis()

		// Resolution consumes rules; work on a copy.
		rsCopy := rs.copy()

		for {
			next, err := rsCopy.nextTransition(millis, saveMillis)
			if err != nil {
				return nil, err
			}
			if next == nil {
				break
			}
			if addTransition(&transitions, *next) && tail != nil {
				// One transition beyond the tail's start is in; the seam
				// to the perpetual zone is clean.
				break
			}
			millis = next.instant
			saveMillis = next.saveMillis()
			if tail == nil && i == len(b.ruleSets)-1 {
				tail = rsCopy.buildTailZone(id)
			}
		}

		millis, err = rsCopy.upperLimit(saveMillis)
		if err != nil {
			return nil, err
		}
	}

	if len(transitions) == 0 {
		if tail != nil {
			return tail, nil
		}
		return buildFixedZone(id, "UTC", 0, 0), nil
	}
	if len(transitions) == 1 && tail == nil {
		tr := transitions[0]
		return buildFixedZone(id, tr.nameKey, tr.wallOffset, tr.standardOffset), nil
	}

	pz, err := newPrecalculatedZone(id, outputID, transitions, tail)
	if err != nil {
		return nil, err
	}
	if pz.isCachable() {
		return newCachedZone(pz), nil
	}
	return pz, nil
}

// addTransition appends tr to the sequence if it is a valid successor of
// the last entry, reporting whether it was added. When tr describes the
// same local wall-clock moment as the last entry, it replaces it, and the
// check repeats against the new tail.
func addTransition(transitions *[]transition, tr transition) bool {
	for {
		n := len(*transitions)
		if n == 0 {
			*transitions = append(*transitions, tr)
			return true
		}

		last := (*transitions)[n-1]
		if !tr.isTransitionFrom(&last) {
			return false
		}

		// The wall offset in force before the last entry decides what
		// local time the last entry happened at.
		offsetForLast := 0
		if n >= 2 {
			offsetForLast = (*transitions)[n-2].wallOffset
		}

		lastLocal := last.instant + int64(offsetForLast)
		newLocal := tr.instant + int64(last.wallOffset)
		if newLocal != lastLocal {
			*transitions = append(*transitions, tr)
			return true
		}

		*transitions = (*transitions)[:n-1]
	}
}
