package zone

import (
	"testing"
	"time"

	"github.com/meridian/zone-engine/chrono"
)

// testDSTZone is a perpetual UTC-8 zone: daylight from the first Sunday on or
// after April 1 to the last Sunday of October, one hour of savings.
func testDSTZone(t *testing.T) *dstZone {
	t.Helper()
	return &dstZone{
		id:             "Test/Perpetual",
		standardOffset: -8 * 3600000,
		startRecurrence: recurrence{
			ofYear:     mustOfYear(t, ModeWall, 4, 1, 7, true, 2*3600000),
			nameKey:    "PDT",
			saveMillis: 3600000,
		},
		endRecurrence: recurrence{
			ofYear:     mustOfYear(t, ModeWall, 10, -1, 7, false, 2*3600000),
			nameKey:    "PST",
			saveMillis: 0,
		},
	}
}

func TestDSTZoneSeasons(t *testing.T) {
	z := testDSTZone(t)

	july := tmillis(2020, time.July, 1, 12)
	if got := z.NameAt(july); got != "PDT" {
		t.Errorf("NameAt(July) = %q, want PDT", got)
	}
	if got := z.OffsetAt(july); got != -7*3600000 {
		t.Errorf("OffsetAt(July) = %d, want -7h", got)
	}

	jan := tmillis(2020, time.January, 15, 12)
	if got := z.NameAt(jan); got != "PST" {
		t.Errorf("NameAt(Jan) = %q, want PST", got)
	}
	if got := z.OffsetAt(jan); got != -8*3600000 {
		t.Errorf("OffsetAt(Jan) = %d, want -8h", got)
	}

	if got := z.StandardOffsetAt(july); got != -8*3600000 {
		t.Errorf("StandardOffsetAt = %d, want -8h", got)
	}
	if z.IsFixed() {
		t.Error("IsFixed = true for oscillating zone")
	}
}

func TestDSTZoneOscillation(t *testing.T) {
	z := testDSTZone(t)

	// Walk a decade of transitions: strictly increasing instants, offsets
	// alternating between the two regimes.
	at := tmillis(2020, time.January, 1, 0)
	prevOffset := z.OffsetAt(at)
	for i := 0; i < 20; i++ {
		next := z.NextTransition(at)
		if next <= at {
			t.Fatalf("transition %d: NextTransition(%d) = %d, not after", i, at, next)
		}
		offset := z.OffsetAt(next)
		if offset == prevOffset {
			t.Fatalf("transition %d changed nothing (offset %d)", i, offset)
		}
		prevOffset = offset
		at = next
	}
}

func TestDSTZonePreviousInvertsNext(t *testing.T) {
	z := testDSTZone(t)

	at := tmillis(2020, time.January, 1, 0)
	next := z.NextTransition(at)

	// Just before the transition the previous one lies further back; from
	// the transition instant itself, PreviousTransition answers next-1.
	if got := z.PreviousTransition(next); got != next-1 {
		t.Errorf("PreviousTransition(at transition) = %d, want %d", got, next-1)
	}
	prev := z.PreviousTransition(at)
	if prev >= at {
		t.Errorf("PreviousTransition = %d, not before %d", prev, at)
	}
	if got := z.OffsetAt(prev + 1); got == z.OffsetAt(prev) {
		t.Error("previous transition boundary changed nothing")
	}
}

func TestDSTZoneTimelineEdges(t *testing.T) {
	z := testDSTZone(t)

	// Queries at the ends of the representable timeline stay total: a stalled
	// recurrence search degrades to "no transition", never panics.
	if got := z.NextTransition(chrono.MaxInstant); got != chrono.MaxInstant {
		t.Errorf("NextTransition(MaxInstant) = %d", got)
	}
	z.OffsetAt(chrono.MaxInstant)
	z.OffsetAt(chrono.MinInstant)
	z.NameAt(chrono.MinInstant)
	z.PreviousTransition(chrono.MinInstant)
}

func TestBuilderProducesTailForEndlessPair(t *testing.T) {
	z, err := NewBuilder().
		AddCutover(MinYear, ModeWall, 1, 1, 0, false, 0).
		SetStandardOffset(-8 * 3600000).
		AddRecurringSavings("PST", 0, 1967, MaxYear, ModeWall, 10, -1, 7, false, 2*3600000).
		AddRecurringSavings("PDT", 3600000, 1987, MaxYear, ModeWall, 4, 1, 7, true, 2*3600000).
		Build("Test/Tail", true)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	cz, ok := z.(*cachedZone)
	if !ok {
		t.Fatalf("descriptor is %T, want cache-wrapped table", z)
	}
	pz, ok := cz.inner.(*precalcZone)
	if !ok {
		t.Fatalf("inner descriptor is %T, want table", cz.inner)
	}
	if pz.tail == nil {
		t.Fatal("table has no tail despite endless rule pair")
	}
	if pz.tail.standardOffset != -8*3600000 {
		t.Errorf("tail standard offset = %d", pz.tail.standardOffset)
	}
}
