package zone

import (
	"sync"
	"testing"
)

// cachedTestPair builds a table spanning several cache periods and its
// cache-wrapped twin.
func cachedTestPair(t *testing.T) (*precalcZone, *cachedZone) {
	t.Helper()

	day := int64(24 * 3600000)
	trans := make([]transition, 12)
	for i := range trans {
		name, wall := "STD", 3600000
		if i%2 == 1 {
			name, wall = "DST", 2*3600000
		}
		trans[i] = transition{int64(i) * 180 * day, name, wall, 3600000}
	}

	inner, err := newPrecalculatedZone("Test/Cached", true, trans, nil)
	if err != nil {
		t.Fatalf("newPrecalculatedZone: %v", err)
	}
	return inner, newCachedZone(inner)
}

// queryGrid covers both regimes, exact transition instants, and the
// milliseconds around them.
func queryGrid(inner *precalcZone) []int64 {
	day := int64(24 * 3600000)
	var grid []int64
	for _, tr := range inner.transitions {
		grid = append(grid, tr-1, tr, tr+1, tr+45*day)
	}
	grid = append(grid, -90*day, inner.transitions[len(inner.transitions)-1]+400*day)
	return grid
}

func TestCachedZoneMatchesInner(t *testing.T) {
	inner, cached := cachedTestPair(t)

	for _, at := range queryGrid(inner) {
		if got, want := cached.NameAt(at), inner.NameAt(at); got != want {
			t.Errorf("NameAt(%d) = %q, inner says %q", at, got, want)
		}
		if got, want := cached.OffsetAt(at), inner.OffsetAt(at); got != want {
			t.Errorf("OffsetAt(%d) = %d, inner says %d", at, got, want)
		}
		if got, want := cached.StandardOffsetAt(at), inner.StandardOffsetAt(at); got != want {
			t.Errorf("StandardOffsetAt(%d) = %d, inner says %d", at, got, want)
		}
	}
}

func TestCachedZoneIsIdempotent(t *testing.T) {
	inner, cached := cachedTestPair(t)

	// The second pass answers from captured segments; answers must not drift.
	for pass := 0; pass < 2; pass++ {
		for _, at := range queryGrid(inner) {
			if got, want := cached.OffsetAt(at), inner.OffsetAt(at); got != want {
				t.Fatalf("pass %d: OffsetAt(%d) = %d, want %d", pass, at, got, want)
			}
		}
	}
}

func TestCachedZoneDelegatesTransitions(t *testing.T) {
	inner, cached := cachedTestPair(t)

	for _, at := range queryGrid(inner) {
		if got, want := cached.NextTransition(at), inner.NextTransition(at); got != want {
			t.Errorf("NextTransition(%d) = %d, want %d", at, got, want)
		}
		if got, want := cached.PreviousTransition(at), inner.PreviousTransition(at); got != want {
			t.Errorf("PreviousTransition(%d) = %d, want %d", at, got, want)
		}
	}

	if cached.ID() != inner.ID() {
		t.Errorf("ID = %q, want %q", cached.ID(), inner.ID())
	}
	if cached.IsFixed() != inner.IsFixed() {
		t.Error("IsFixed disagrees with inner")
	}
}

func TestCachedZoneConcurrentQueries(t *testing.T) {
	inner, cached := cachedTestPair(t)
	grid := queryGrid(inner)

	// Hammer the same periods from many goroutines; racing entry builds must
	// never surface a partial answer.
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				for _, at := range grid {
					if got, want := cached.OffsetAt(at), inner.OffsetAt(at); got != want {
						t.Errorf("OffsetAt(%d) = %d, want %d", at, got, want)
						return
					}
					if got, want := cached.NameAt(at), inner.NameAt(at); got != want {
						t.Errorf("NameAt(%d) = %q, want %q", at, got, want)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}
