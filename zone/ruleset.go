/*
ruleset.go - One era of a zone's history

PURPOSE:
  A ruleSet groups the rules that share a standard offset between two
  cutovers: an optional fixed initial savings/name, an ordered set of unique
  rules, and an optional exclusive upper bound. Resolution turns it into an
  ascending stream of candidate transitions.

DESTRUCTIVE RESOLUTION:
  nextTransition discards rules as they exhaust by filtering the rule slice
  into a fresh one each call. A ruleSet that must be resolved again later
  has to be copied first - the builder copies before its main resolution
  loop, and firstTransition restores its own snapshot after replaying.

TERMINATION:
  Two conditions stop resolution regardless of rule exhaustion:
  1. The precomputation horizon: nothing is resolved at or past the year the
     process started in plus 100. Endless rule pairs are meant to collapse
     into a tail zone long before that; the horizon is the backstop that
     keeps a pathological rule list from precomputing forever.
  2. The era's upper cutover, resolved with the savings in force at the
     candidate.
*/
package zone

import (
	"sync"
	"time"

	"github.com/meridian/zone-engine/chrono"
)

var (
	yearLimitOnce sync.Once
	yearLimit     int
)

// precalcYearLimit is the horizon year, fixed at first use.
func precalcYearLimit() int {
	yearLimitOnce.Do(func() {
		yearLimit = time.Now().UTC().Year() + 100
	})
	return yearLimit
}

type ruleSet struct {
	standardOffset int
	rules          []rule

	// Optional fixed initial state; empty name means unset.
	initialNameKey    string
	initialSaveMillis int

	// Exclusive upper bound; upperYear == MaxYear means unbounded.
	upperYear   int
	upperOfYear ofYear
}

func newRuleSet() *ruleSet {
	return &ruleSet{upperYear: MaxYear}
}

// copy returns a ruleSet that can be destructively resolved without
// touching the receiver.
func (rs *ruleSet) copy() *ruleSet {
	dup := *rs
	dup.rules = append([]rule(nil), rs.rules...)
	return &dup
}

// addRule appends a rule unless a value-identical one is already present.
func (rs *ruleSet) addRule(r rule) {
	for _, existing := range rs.rules {
		if existing == r {
			return
		}
	}
	rs.rules = append(rs.rules, r)
}

func (rs *ruleSet) setUpperLimit(year int, oy ofYear) {
	rs.upperYear = year
	rs.upperOfYear = oy
}

// firstTransition returns the transition that describes this era's state at
// firstMillis, or nil if the era produces nothing at all.
//
// With a fixed initial savings the answer is immediate. Otherwise the rules
// are replayed from the beginning of time, keeping the best transition at or
// before firstMillis. If the replay jumps past firstMillis without ever
// reaching it, the name is taken from a zero-savings rule when one exists,
// else a synthetic zero-savings transition borrows the nearest rule's name.
func (rs *ruleSet) firstTransition(firstMillis int64) (*transition, error) {
	if rs.initialNameKey != "" {
		return &transition{
			instant:        firstMillis,
			nameKey:        rs.initialNameKey,
			wallOffset:     rs.standardOffset + rs.initialSaveMillis,
			standardOffset: rs.standardOffset,
		}, nil
	}

	// Snapshot the rules; the replay below consumes them.
	snapshot := append([]rule(nil), rs.rules...)
	defer func() { rs.rules = snapshot }()

	millis := chrono.MinInstant
	saveMillis := 0
	var first *transition

	for {
		next, err := rs.nextTransition(millis, saveMillis)
		if err != nil {
			return nil, err
		}
		if next == nil {
			break
		}
		millis = next.instant

		if millis == firstMillis {
			first = &transition{firstMillis, next.nameKey, next.wallOffset, next.standardOffset}
			break
		}

		if millis > firstMillis {
			if first == nil {
				for _, r := range snapshot {
					if r.recurrence.saveMillis == 0 {
						first = &transition{
							instant:        firstMillis,
							nameKey:        r.recurrence.nameKey,
							wallOffset:     rs.standardOffset,
							standardOffset: rs.standardOffset,
						}
						break
					}
				}
			}
			if first == nil {
				first = &transition{firstMillis, next.nameKey, rs.standardOffset, rs.standardOffset}
			}
			break
		}

		// Best so far; a later iteration may land closer to firstMillis.
		first = &transition{firstMillis, next.nameKey, next.wallOffset, next.standardOffset}
		saveMillis = next.saveMillis()
	}

	return first, nil
}

// nextTransition returns the era's next transition strictly after instant,
// or nil when the era is exhausted, the horizon is reached, or the upper
// cutover is hit. Rules whose next occurrence is not after instant are
// dropped from this ruleSet permanently.
func (rs *ruleSet) nextTransition(instant int64, saveMillis int) (*transition, error) {
	var nextRule *rule
	nextMillis := chrono.MaxInstant

	kept := make([]rule, 0, len(rs.rules))
	for _, r := range rs.rules {
		next, err := r.next(instant, rs.standardOffset, saveMillis)
		if err != nil || next <= instant {
			// Exhausted, or stalled at the timeline edge; either way the
			// rule contributes nothing further.
			continue
		}
		kept = append(kept, r)
		// <= rather than <, so a later-added rule wins an exact date tie.
		if next <= nextMillis {
			nextRule = &kept[len(kept)-1]
			nextMillis = next
		}
	}
	rs.rules = kept

	if nextRule == nil {
		return nil, nil
	}

	if chrono.Year(nextMillis) >= precalcYearLimit() {
		return nil, nil
	}

	if rs.upperYear < MaxYear {
		upper, err := rs.upperOfYear.setInstant(rs.upperYear, rs.standardOffset, saveMillis)
		if err != nil {
			return nil, err
		}
		if nextMillis >= upper {
			return nil, nil
		}
	}

	return &transition{
		instant:        nextMillis,
		nameKey:        nextRule.recurrence.nameKey,
		wallOffset:     rs.standardOffset + nextRule.recurrence.saveMillis,
		standardOffset: rs.standardOffset,
	}, nil
}

// upperLimit resolves the era's upper cutover with the given savings, or
// MaxInstant when unbounded.
func (rs *ruleSet) upperLimit(saveMillis int) (int64, error) {
	if rs.upperYear == MaxYear {
		return chrono.MaxInstant, nil
	}
	return rs.upperOfYear.setInstant(rs.upperYear, rs.standardOffset, saveMillis)
}

// buildTailZone collapses the era into a perpetual two-rule zone when
// resolution has worn it down to exactly two rules, both unbounded in the
// future. Which of the two plays "start" and which "end" does not matter;
// the perpetual zone works either way round.
func (rs *ruleSet) buildTailZone(id string) *dstZone {
	if len(rs.rules) != 2 {
		return nil
	}
	if rs.rules[0].toYear != MaxYear || rs.rules[1].toYear != MaxYear {
		return nil
	}
	return &dstZone{
		id:              id,
		standardOffset:  rs.standardOffset,
		startRecurrence: rs.rules[0].recurrence,
		endRecurrence:   rs.rules[1].recurrence,
	}
}
