package zone

import (
	"errors"
	"testing"
	"time"
)

const (
	eastStd    = 10 * 3600000
	eastSummer = 11 * 3600000
)

// brisbaneTable is a three-entry table with identically named summer and
// winter regimes at the same standard offset.
func brisbaneTable(t *testing.T) *precalcZone {
	t.Helper()
	z, err := newPrecalculatedZone("Test/East", true, []transition{
		{tmillis(1970, time.March, 1, 0), "EST", eastStd, eastStd},
		{tmillis(1970, time.October, 1, 0), "EST", eastSummer, eastStd},
		{tmillis(1971, time.March, 1, 0), "EST", eastStd, eastStd},
	}, nil)
	if err != nil {
		t.Fatalf("newPrecalculatedZone: %v", err)
	}
	return z
}

// =============================================================================
// LOOKUP
// =============================================================================

func TestPrecalcLookup(t *testing.T) {
	z := brisbaneTable(t)

	// Between entries the latest entry at or before the instant rules.
	if got := z.OffsetAt(tmillis(1970, time.June, 1, 0)); got != eastStd {
		t.Errorf("OffsetAt(June) = %d, want winter offset", got)
	}
	if got := z.OffsetAt(tmillis(1970, time.December, 1, 0)); got != eastSummer {
		t.Errorf("OffsetAt(December) = %d, want summer offset", got)
	}

	// Exactly at an entry the new regime is already in force.
	at := tmillis(1970, time.October, 1, 0)
	if got := z.OffsetAt(at); got != eastSummer {
		t.Errorf("OffsetAt(entry instant) = %d, want summer offset", got)
	}
	if got := z.OffsetAt(at - 1); got != eastStd {
		t.Errorf("OffsetAt(entry instant - 1) = %d, want winter offset", got)
	}
}

func TestPrecalcBeforeFirstEntry(t *testing.T) {
	z := brisbaneTable(t)

	before := tmillis(1960, time.January, 1, 0)
	if got := z.NameAt(before); got != "UTC" {
		t.Errorf("NameAt(before history) = %q, want UTC", got)
	}
	if got := z.OffsetAt(before); got != 0 {
		t.Errorf("OffsetAt(before history) = %d, want 0", got)
	}
	if got := z.StandardOffsetAt(before); got != 0 {
		t.Errorf("StandardOffsetAt(before history) = %d, want 0", got)
	}
}

func TestPrecalcAfterLastEntryNoTail(t *testing.T) {
	z := brisbaneTable(t)

	after := tmillis(1995, time.June, 1, 0)
	if got := z.OffsetAt(after); got != eastStd {
		t.Errorf("OffsetAt(after history) = %d, want last entry offset", got)
	}
	if got := z.NextTransition(after); got != after {
		t.Errorf("NextTransition(after history) = %d, want fixed point", got)
	}
	prev := z.PreviousTransition(after)
	if want := tmillis(1971, time.March, 1, 0) - 1; prev != want {
		t.Errorf("PreviousTransition(after history) = %d, want %d", prev, want)
	}
}

func TestPrecalcTransitionQueries(t *testing.T) {
	z := brisbaneTable(t)

	first := tmillis(1970, time.March, 1, 0)
	second := tmillis(1970, time.October, 1, 0)

	if got := z.NextTransition(tmillis(1960, time.January, 1, 0)); got != first {
		t.Errorf("NextTransition(before history) = %d, want first entry", got)
	}
	// NextTransition is strict: querying at an entry yields the next one.
	if got := z.NextTransition(first); got != second {
		t.Errorf("NextTransition(first entry) = %d, want second entry", got)
	}
	if got := z.PreviousTransition(second); got != second-1 {
		t.Errorf("PreviousTransition(entry) = %d, want entry-1", got)
	}
	if got := z.PreviousTransition(second + 1); got != second - 1 {
		t.Errorf("PreviousTransition(entry+1) = %d, want entry-1", got)
	}
}

// =============================================================================
// NAME-KEY DISAMBIGUATION
// =============================================================================

func TestPrecalcRenamesSummerRegime(t *testing.T) {
	z := brisbaneTable(t)

	// The March-to-October gap is seven whole months; the entry with the
	// larger wall offset picks up the suffix.
	if got := z.NameAt(tmillis(1970, time.December, 1, 0)); got != "EST-Summer" {
		t.Errorf("summer name = %q, want EST-Summer", got)
	}
	if got := z.NameAt(tmillis(1970, time.June, 1, 0)); got != "EST" {
		t.Errorf("winter name = %q, want EST", got)
	}
	if got := z.NameAt(tmillis(1971, time.June, 1, 0)); got != "EST" {
		t.Errorf("name after last entry = %q, want EST", got)
	}
}

func TestPrecalcNoRenameAcrossYears(t *testing.T) {
	// Same shape, but the duplicate-named entries are years apart, so the
	// "-Summer" heuristic must not fire.
	z, err := newPrecalculatedZone("Test/Sparse", true, []transition{
		{tmillis(1970, time.March, 1, 0), "EST", eastStd, eastStd},
		{tmillis(1975, time.October, 1, 0), "EST", eastSummer, eastStd},
	}, nil)
	if err != nil {
		t.Fatalf("newPrecalculatedZone: %v", err)
	}
	if got := z.NameAt(tmillis(1976, time.January, 1, 0)); got != "EST" {
		t.Errorf("name = %q, want EST untouched", got)
	}
}

func TestPrecalcRenamesTailRecurrence(t *testing.T) {
	tail := &dstZone{
		id:             "Test/TailRename",
		standardOffset: eastStd,
		startRecurrence: recurrence{
			ofYear:     mustOfYear(t, ModeStandard, 10, -1, 7, false, 2*3600000),
			nameKey:    "EST",
			saveMillis: 3600000,
		},
		endRecurrence: recurrence{
			ofYear:     mustOfYear(t, ModeStandard, 3, 1, 7, true, 2*3600000),
			nameKey:    "EST",
			saveMillis: 0,
		},
	}
	z, err := newPrecalculatedZone("Test/TailRename", true, []transition{
		{tmillis(1970, time.January, 1, 0), "LMT", eastStd + 756000, eastStd + 756000},
		{tmillis(1989, time.January, 1, 0), "EST", eastStd, eastStd},
	}, tail)
	if err != nil {
		t.Fatalf("newPrecalculatedZone: %v", err)
	}

	// The saving recurrence of the tail carries the suffix; the other keeps
	// its name.
	if got := z.tail.startRecurrence.nameKey; got != "EST-Summer" {
		t.Errorf("tail summer name = %q, want EST-Summer", got)
	}
	if got := z.tail.endRecurrence.nameKey; got != "EST" {
		t.Errorf("tail winter name = %q, want EST", got)
	}
	// The original tail is untouched; the table holds a renamed copy.
	if tail.startRecurrence.nameKey != "EST" {
		t.Error("rename mutated the caller's tail")
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestPrecalcRejectsBadSequences(t *testing.T) {
	// Non-ascending instants.
	_, err := newPrecalculatedZone("Test/Bad", true, []transition{
		{tmillis(1970, time.October, 1, 0), "A", 0, 0},
		{tmillis(1970, time.March, 1, 0), "B", 3600000, 0},
	}, nil)
	if !errors.Is(err, ErrInvalidSequence) {
		t.Errorf("out-of-order err = %v, want ErrInvalidSequence", err)
	}

	// Successor that changes neither wall offset nor name.
	_, err = newPrecalculatedZone("Test/Bad", true, []transition{
		{tmillis(1970, time.March, 1, 0), "A", 3600000, 0},
		{tmillis(1970, time.October, 1, 0), "A", 3600000, 0},
	}, nil)
	if !errors.Is(err, ErrInvalidSequence) {
		t.Errorf("no-change err = %v, want ErrInvalidSequence", err)
	}

	// Empty table.
	if _, err := newPrecalculatedZone("Test/Bad", true, nil, nil); !errors.Is(err, ErrInvalidSequence) {
		t.Errorf("empty err = %v, want ErrInvalidSequence", err)
	}
}

func TestPrecalcOutputIDFlag(t *testing.T) {
	trans := []transition{
		{tmillis(1970, time.March, 1, 0), "A", 0, 0},
		{tmillis(1970, time.October, 1, 0), "B", 3600000, 0},
	}
	z, err := newPrecalculatedZone("Test/Named", false, trans, nil)
	if err != nil {
		t.Fatal(err)
	}
	if z.ID() != "" {
		t.Errorf("ID = %q, want empty when outputID is false", z.ID())
	}
}

// =============================================================================
// CACHABILITY
// =============================================================================

func TestIsCachable(t *testing.T) {
	day := int64(24 * 3600000)

	makeTable := func(gapDays int64, count int) *precalcZone {
		trans := make([]transition, count)
		for i := range trans {
			name, wall := "STD", 0
			if i%2 == 1 {
				name, wall = "DST", 3600000
			}
			trans[i] = transition{int64(i) * gapDays * day, name, wall, 0}
		}
		z, err := newPrecalculatedZone("Test/Cache", true, trans, nil)
		if err != nil {
			t.Fatalf("newPrecalculatedZone: %v", err)
		}
		return z
	}

	if !makeTable(180, 10).isCachable() {
		t.Error("semiannual table not cachable")
	}
	if makeTable(10, 10).isCachable() {
		t.Error("ten-day table cachable")
	}
	if makeTable(180, 1).isCachable() {
		t.Error("single-entry table cachable")
	}

	// A tail always makes caching pay.
	withTail := brisbaneTable(t)
	withTail.tail = testDSTZone(t)
	if !withTail.isCachable() {
		t.Error("table with tail not cachable")
	}

	// Gaps beyond two years do not count toward the average.
	sparse, err := newPrecalculatedZone("Test/Sparse", true, []transition{
		{0, "A", 0, 0},
		{10 * 365 * day, "B", 3600000, 0},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if sparse.isCachable() {
		t.Error("decade-gap table cachable with no countable gaps")
	}
}
