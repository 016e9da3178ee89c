/*
rule.go - Named recurrences and year-bounded rules

PURPOSE:
  A recurrence is an annual formula tagged with the offset name it installs
  and the savings it adds to the standard offset. A rule restricts a
  recurrence to an inclusive [fromYear, toYear] range; the MinYear/MaxYear
  sentinels stand for the open past and future.
*/
package zone

import (
	"math"

	"github.com/meridian/zone-engine/chrono"
)

// MinYear and MaxYear are the sentinel bounds for rules that extend to the
// beginning or end of time.
const (
	MinYear = math.MinInt32
	MaxYear = math.MaxInt32
)

type recurrence struct {
	ofYear     ofYear
	nameKey    string
	saveMillis int
}

func (r recurrence) next(instant int64, standardOffset, saveMillis int) (int64, error) {
	return r.ofYear.next(instant, standardOffset, saveMillis)
}

func (r recurrence) previous(instant int64, standardOffset, saveMillis int) (int64, error) {
	return r.ofYear.previous(instant, standardOffset, saveMillis)
}

func (r recurrence) renameAppend(suffix string) recurrence {
	r.nameKey += suffix
	return r
}

type rule struct {
	recurrence recurrence
	fromYear   int // inclusive
	toYear     int // inclusive
}

// next returns the rule's first occurrence strictly after instant, honoring
// the year bounds. A result <= instant means the rule has no further
// occurrences (it is exhausted, or the candidate fell past toYear).
func (r rule) next(instant int64, standardOffset, saveMillis int) (int64, error) {
	wallOffset := standardOffset + saveMillis
	test := instant

	var year int
	if instant == chrono.MinInstant {
		year = MinYear
	} else {
		year = chrono.Year(chrono.AddMillis(instant, int64(wallOffset)))
	}

	if year < r.fromYear {
		// Advance to just before the start of fromYear; backing off one
		// millisecond keeps a recurrence landing exactly on the year
		// boundary eligible.
		test = chrono.AddMillis(chrono.StartOfYear(r.fromYear), -int64(wallOffset))
		test = chrono.AddMillis(test, -1)
	}

	next, err := r.recurrence.next(test, standardOffset, saveMillis)
	if err != nil {
		return 0, err
	}

	if next > instant {
		if chrono.Year(chrono.AddMillis(next, int64(wallOffset))) > r.toYear {
			next = instant
		}
	}

	return next, nil
}
