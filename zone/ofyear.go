/*
ofyear.go - Annual recurrence formula

PURPOSE:
  An ofYear pins a single moment within any given year: a month, a day of
  month (negative counts back from the month's end), an optional day-of-week
  snap, and a time of day. It resolves that formula to a UTC instant, either
  for a specific year or as the next/previous occurrence from an arbitrary
  instant.

REFERENCE FRAMES:
  The formula's fields are interpreted in one of three frames:
    'u' - UTC
    's' - standard time (UTC + standard offset)
    'w' - wall time     (UTC + standard offset + savings)
  Resolution converts the anchor instant into the frame, does all calendar
  work there, and converts the result back out with the same offset.

FEB 29:
  A formula naming Feb 29 is only satisfiable in leap years. Resolution
  steps whole years in the search direction until it finds one. The step
  loop is bounded: the Gregorian calendar never goes more than eight years
  without a leap year, so a longer search means the arithmetic saturated at
  the timeline edge and the occurrence does not exist.
*/
package zone

import (
	"github.com/meridian/zone-engine/chrono"
)

// Reference mode characters, as used by Builder.AddCutover and
// Builder.AddRecurringSavings.
const (
	ModeUTC      byte = 'u'
	ModeWall     byte = 'w'
	ModeStandard byte = 's'
)

type ofYear struct {
	mode        byte
	month       int
	dayOfMonth  int
	dayOfWeek   int // 0 = no day-of-week constraint
	advance     bool
	millisOfDay int
}

func newOfYear(mode byte, month, dayOfMonth, dayOfWeek int, advance bool, millisOfDay int) (ofYear, error) {
	if mode != ModeUTC && mode != ModeWall && mode != ModeStandard {
		return ofYear{}, invalidModeError(mode)
	}
	return ofYear{
		mode:        mode,
		month:       month,
		dayOfMonth:  dayOfMonth,
		dayOfWeek:   dayOfWeek,
		advance:     advance,
		millisOfDay: millisOfDay,
	}, nil
}

// frameOffset is the offset added to a UTC instant to enter the formula's
// reference frame.
func (y ofYear) frameOffset(standardOffset, saveMillis int) int {
	switch y.mode {
	case ModeWall:
		return standardOffset + saveMillis
	case ModeStandard:
		return standardOffset
	default:
		return 0
	}
}

// setInstant resolves the formula within the given year and returns the UTC
// instant. standardOffset and saveMillis describe the offsets in force just
// before the resolved instant.
func (y ofYear) setInstant(year int, standardOffset, saveMillis int) (int64, error) {
	offset := y.frameOffset(standardOffset, saveMillis)

	millis := chrono.StartOfYear(year)
	millis = chrono.SetMonth(millis, y.month)
	millis = chrono.SetMillisOfDay(millis, y.millisOfDay)
	millis, err := y.setDayOfMonth(millis)
	if err != nil {
		return 0, err
	}
	if y.dayOfWeek != 0 {
		millis = y.setDayOfWeek(millis)
	}

	return chrono.AddMillis(millis, -int64(offset)), nil
}

// next returns the first occurrence strictly after instant.
func (y ofYear) next(instant int64, standardOffset, saveMillis int) (int64, error) {
	offset := y.frameOffset(standardOffset, saveMillis)
	local := chrono.AddMillis(instant, int64(offset))

	next := chrono.SetMonth(local, y.month)
	// Lenient time of day: zero it first, then add, so formulas like 25:00
	// roll into the following day instead of failing.
	next = chrono.SetMillisOfDay(next, 0)
	next = chrono.AddMillis(next, int64(y.millisOfDay))
	next, err := y.setDayOfMonthNext(next)
	if err != nil {
		return 0, err
	}

	if y.dayOfWeek == 0 {
		if next <= local {
			next = chrono.AddYears(next, 1)
			next, err = y.setDayOfMonthNext(next)
			if err != nil {
				return 0, err
			}
		}
	} else {
		next = y.setDayOfWeek(next)
		if next <= local {
			next = chrono.AddYears(next, 1)
			next = chrono.SetMonth(next, y.month)
			next, err = y.setDayOfMonthNext(next)
			if err != nil {
				return 0, err
			}
			next = y.setDayOfWeek(next)
		}
	}

	return chrono.AddMillis(next, -int64(offset)), nil
}

// previous returns the last occurrence strictly before instant.
func (y ofYear) previous(instant int64, standardOffset, saveMillis int) (int64, error) {
	offset := y.frameOffset(standardOffset, saveMillis)
	local := chrono.AddMillis(instant, int64(offset))

	prev := chrono.SetMonth(local, y.month)
	prev = chrono.SetMillisOfDay(prev, 0)
	prev = chrono.AddMillis(prev, int64(y.millisOfDay))
	prev, err := y.setDayOfMonthPrevious(prev)
	if err != nil {
		return 0, err
	}

	if y.dayOfWeek == 0 {
		if prev >= local {
			prev = chrono.AddYears(prev, -1)
			prev, err = y.setDayOfMonthPrevious(prev)
			if err != nil {
				return 0, err
			}
		}
	} else {
		prev = y.setDayOfWeek(prev)
		if prev >= local {
			prev = chrono.AddYears(prev, -1)
			prev = chrono.SetMonth(prev, y.month)
			prev, err = y.setDayOfMonthPrevious(prev)
			if err != nil {
				return 0, err
			}
			prev = y.setDayOfWeek(prev)
		}
	}

	return chrono.AddMillis(prev, -int64(offset)), nil
}

// setDayOfMonth applies the formula's day of month. A negative value counts
// from the end: -1 is the last day, -2 the day before, and so on.
func (y ofYear) setDayOfMonth(instant int64) (int64, error) {
	if y.dayOfMonth >= 0 {
		return chrono.SetDayOfMonth(instant, y.dayOfMonth)
	}
	instant, err := chrono.SetDayOfMonth(instant, 1)
	if err != nil {
		return 0, err
	}
	instant = chrono.AddMonths(instant, 1)
	return chrono.AddDays(instant, y.dayOfMonth), nil
}

// setDayOfMonthNext resolves the day of month, stepping forward a year at a
// time on a Feb 29 miss until a leap year is found.
func (y ofYear) setDayOfMonthNext(instant int64) (int64, error) {
	out, err := y.setDayOfMonth(instant)
	if err == nil {
		return out, nil
	}
	if y.month != 2 || y.dayOfMonth != 29 {
		return 0, err
	}
	for i := 0; i < 8; i++ {
		if chrono.IsLeapYear(instant) {
			return y.setDayOfMonth(instant)
		}
		instant = chrono.AddYears(instant, 1)
	}
	return 0, ErrOverflow
}

// setDayOfMonthPrevious is the backward counterpart of setDayOfMonthNext.
func (y ofYear) setDayOfMonthPrevious(instant int64) (int64, error) {
	out, err := y.setDayOfMonth(instant)
	if err == nil {
		return out, nil
	}
	if y.month != 2 || y.dayOfMonth != 29 {
		return 0, err
	}
	for i := 0; i < 8; i++ {
		if chrono.IsLeapYear(instant) {
			return y.setDayOfMonth(instant)
		}
		instant = chrono.AddYears(instant, -1)
	}
	return 0, ErrOverflow
}

// setDayOfWeek snaps the instant to the formula's day of week, moving
// forward when advance is set and backward otherwise.
func (y ofYear) setDayOfWeek(instant int64) int64 {
	delta := y.dayOfWeek - chrono.DayOfWeek(instant)
	if delta == 0 {
		return instant
	}
	if y.advance {
		if delta < 0 {
			delta += 7
		}
	} else {
		if delta > 0 {
			delta -= 7
		}
	}
	return chrono.AddDays(instant, delta)
}
