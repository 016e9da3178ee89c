/*
Package chrono provides calendar field arithmetic over millisecond instants.

PURPOSE:
  The zone engine works exclusively with int64 milliseconds since the Unix
  epoch on a single fixed calendar: proleptic Gregorian, UTC. This package
  is that calendar. It exposes field get/set/add operations and a leap-year
  test, and nothing else - no formatting, no parsing, no other calendars.

KEY DECISIONS:
  1. Saturation, not wraparound: instants near the int64 boundaries would
     silently wrap under plain arithmetic. Every operation here clamps its
     result into [MinInstant, MaxInstant] instead. Callers detect boundary
     stalls by comparing the result against the input.
  2. Only day-of-month can fail: SetDayOfMonth returns ErrDayOutOfRange when
     the requested day does not exist in the target month (Feb 29 outside a
     leap year, day 31 in April). Everything else is total.
  3. Day-of-week numbering is ISO: 1 = Monday ... 7 = Sunday.

USAGE:
  ms := chrono.StartOfYear(1950)
  ms = chrono.SetMonth(ms, 4)
  ms, err := chrono.SetDayOfMonth(ms, 29)

SEE ALSO:
  - zone/ofyear.go: the main consumer of these operations
*/
package chrono

import (
	"errors"
	"math"
	"time"
)

// MinInstant and MaxInstant bound the representable timeline in milliseconds.
const (
	MinInstant int64 = math.MinInt64
	MaxInstant int64 = math.MaxInt64
)

// ErrDayOutOfRange is returned by SetDayOfMonth when the day does not exist
// in the instant's month.
var ErrDayOutOfRange = errors.New("day of month out of range")

var (
	minTime = time.UnixMilli(MinInstant).UTC()
	maxTime = time.UnixMilli(MaxInstant).UTC()
)

func fromInstant(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// clampInstant converts a time back to milliseconds, saturating at the
// instant boundaries rather than letting UnixMilli overflow.
func clampInstant(t time.Time) int64 {
	if t.Before(minTime) {
		return MinInstant
	}
	if t.After(maxTime) {
		return MaxInstant
	}
	return t.UnixMilli()
}

// =============================================================================
// FIELD GETTERS
// =============================================================================

// Year returns the calendar year of the instant.
func Year(instant int64) int {
	return fromInstant(instant).Year()
}

// Month returns the month of the instant, 1-12.
func Month(instant int64) int {
	return int(fromInstant(instant).Month())
}

// Day returns the day of month of the instant.
func Day(instant int64) int {
	return fromInstant(instant).Day()
}

// DayOfWeek returns the ISO day of week of the instant: 1=Monday .. 7=Sunday.
func DayOfWeek(instant int64) int {
	return (int(fromInstant(instant).Weekday())+6)%7 + 1
}

// IsLeapYear reports whether the instant falls in a leap year.
func IsLeapYear(instant int64) bool {
	return IsLeap(Year(instant))
}

// IsLeap reports whether the year is a Gregorian leap year.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the given month of the given year.
func DaysInMonth(year, month int) int {
	switch month {
	case 2:
		if IsLeap(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

// =============================================================================
// FIELD SETTERS
// =============================================================================

// StartOfYear returns midnight, January 1 of the given year.
func StartOfYear(year int) int64 {
	return clampInstant(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
}

// SetMonth replaces the month, keeping year, day and time of day. If the
// current day does not exist in the target month, the day is clamped to the
// last day of that month.
func SetMonth(instant int64, month int) int64 {
	t := fromInstant(instant)
	year, _, day := t.Date()
	if max := DaysInMonth(year, month); day > max {
		day = max
	}
	hour, min, sec := t.Clock()
	return clampInstant(time.Date(year, time.Month(month), day, hour, min, sec, t.Nanosecond(), time.UTC))
}

// SetDayOfMonth replaces the day of month, keeping everything else. Returns
// ErrDayOutOfRange if the day does not exist in the instant's month.
func SetDayOfMonth(instant int64, day int) (int64, error) {
	t := fromInstant(instant)
	year, month, _ := t.Date()
	if day < 1 || day > DaysInMonth(year, int(month)) {
		return 0, ErrDayOutOfRange
	}
	hour, min, sec := t.Clock()
	return clampInstant(time.Date(year, month, day, hour, min, sec, t.Nanosecond(), time.UTC)), nil
}

// SetMillisOfDay replaces the time of day with the given milliseconds past
// midnight.
func SetMillisOfDay(instant int64, millis int) int64 {
	t := fromInstant(instant)
	year, month, day := t.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return clampInstant(midnight.Add(time.Duration(millis) * time.Millisecond))
}

// =============================================================================
// FIELD ADDERS
// =============================================================================

// AddMillis adds a millisecond delta, saturating at the instant boundaries.
func AddMillis(instant, delta int64) int64 {
	sum := instant + delta
	if delta > 0 && sum < instant {
		return MaxInstant
	}
	if delta < 0 && sum > instant {
		return MinInstant
	}
	return sum
}

// AddDays adds whole days.
func AddDays(instant int64, days int) int64 {
	return clampInstant(fromInstant(instant).AddDate(0, 0, days))
}

// AddMonths adds months, clamping the day to the last valid day of the
// resulting month (Jan 31 + 1 month = Feb 28/29, not Mar 2/3).
func AddMonths(instant int64, months int) int64 {
	t := fromInstant(instant)
	year, month, day := t.Date()
	total := year*12 + int(month) - 1 + months
	newYear := floorDiv(total, 12)
	newMonth := total - newYear*12 + 1
	if max := DaysInMonth(newYear, newMonth); day > max {
		day = max
	}
	hour, min, sec := t.Clock()
	return clampInstant(time.Date(newYear, time.Month(newMonth), day, hour, min, sec, t.Nanosecond(), time.UTC))
}

// AddYears adds years, clamping Feb 29 to Feb 28 in non-leap targets.
func AddYears(instant int64, years int) int64 {
	t := fromInstant(instant)
	year, month, day := t.Date()
	newYear := year + years
	if max := DaysInMonth(newYear, int(month)); day > max {
		day = max
	}
	hour, min, sec := t.Clock()
	return clampInstant(time.Date(newYear, month, day, hour, min, sec, t.Nanosecond(), time.UTC))
}

// =============================================================================
// SPANS
// =============================================================================

// MonthSpan returns the whole years and remaining whole months between two
// instants, a <= b. Partial months do not count: Jan 31 to Feb 28 is zero
// months.
func MonthSpan(a, b int64) (years, months int) {
	ta, tb := fromInstant(a), fromInstant(b)
	total := (tb.Year()*12 + int(tb.Month())) - (ta.Year()*12 + int(ta.Month()))
	// Back off one month if the day/time of b has not yet reached that of a.
	if tb.Day() < ta.Day() || (tb.Day() == ta.Day() && clockMillis(tb) < clockMillis(ta)) {
		total--
	}
	return total / 12, total % 12
}

func clockMillis(t time.Time) int {
	hour, min, sec := t.Clock()
	return ((hour*60+min)*60+sec)*1000 + t.Nanosecond()/1e6
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
