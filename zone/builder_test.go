package zone_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian/zone-engine/zone"
)

const (
	hourMillis = 60 * 60 * 1000
	pstOffset  = -8 * hourMillis
	pdtOffset  = -7 * hourMillis
)

func instant(y int, mo time.Month, d, h int) int64 {
	return time.Date(y, mo, d, h, 0, 0, 0, time.UTC).UnixMilli()
}

// pacific1950s compiles a bounded daylight history: last Sunday of April to
// last Sunday of September, 1950 through 1966, at UTC-8 standard time.
func pacific1950s(t *testing.T) zone.Zone {
	t.Helper()
	z, err := zone.NewBuilder().
		AddCutover(zone.MinYear, zone.ModeWall, 1, 1, 0, false, 0).
		SetStandardOffset(pstOffset).
		AddRecurringSavings("PDT", hourMillis, 1950, 1966, zone.ModeWall, 4, -1, 7, false, 2*hourMillis).
		AddRecurringSavings("PST", 0, 1950, 1966, zone.ModeWall, 9, -1, 7, false, 2*hourMillis).
		Build("America/Test", true)
	require.NoError(t, err)
	return z
}

// =============================================================================
// REPRESENTATION CHOICE
// =============================================================================

func TestBuildEmptyHistoryIsUTC(t *testing.T) {
	z, err := zone.NewBuilder().Build("UTC", true)
	require.NoError(t, err)

	assert.True(t, z.IsFixed())
	assert.Equal(t, "UTC", z.ID())
	assert.Equal(t, "UTC", z.NameAt(0))
	assert.Equal(t, 0, z.OffsetAt(0))
	assert.Equal(t, 0, z.StandardOffsetAt(0))
}

func TestBuildSingleEraIsFixed(t *testing.T) {
	z, err := zone.NewBuilder().
		AddCutover(zone.MinYear, zone.ModeWall, 1, 1, 0, false, 0).
		SetStandardOffset(36756000).
		SetFixedSavings("LMT", 0).
		Build("Local/Mean", true)
	require.NoError(t, err)

	assert.True(t, z.IsFixed())
	assert.Equal(t, "Local/Mean", z.ID())
	assert.Equal(t, "LMT", z.NameAt(instant(1900, time.June, 1, 0)))
	assert.Equal(t, 36756000, z.OffsetAt(instant(1900, time.June, 1, 0)))
	assert.Equal(t, 36756000, z.OffsetAt(instant(2100, time.June, 1, 0)))

	// A fixed zone has no transitions in either direction.
	at := instant(2000, time.January, 1, 0)
	assert.Equal(t, at, z.NextTransition(at))
	assert.Equal(t, at, z.PreviousTransition(at))
}

func TestBuildBoundedRulesGiveTable(t *testing.T) {
	z := pacific1950s(t)

	assert.False(t, z.IsFixed())
	assert.Equal(t, "America/Test", z.ID())
}

// =============================================================================
// OFFSET QUERIES
// =============================================================================

func TestBoundedHistoryOffsets(t *testing.T) {
	z := pacific1950s(t)

	// Midsummer 1955 is daylight time.
	july := instant(1955, time.July, 1, 12)
	assert.Equal(t, "PDT", z.NameAt(july))
	assert.Equal(t, pdtOffset, z.OffsetAt(july))
	assert.Equal(t, pstOffset, z.StandardOffsetAt(july))

	// Midwinter is standard time.
	jan := instant(1955, time.January, 15, 12)
	assert.Equal(t, "PST", z.NameAt(jan))
	assert.Equal(t, pstOffset, z.OffsetAt(jan))

	// The rules end in 1966; afterwards the zone stays on standard time.
	later := instant(1970, time.July, 1, 12)
	assert.Equal(t, "PST", z.NameAt(later))
	assert.Equal(t, pstOffset, z.OffsetAt(later))
}

func TestBoundedHistoryAlternation(t *testing.T) {
	z := pacific1950s(t)

	// Walk forward from 1954 and check the offsets strictly alternate at
	// strictly increasing instants.
	at := instant(1954, time.January, 1, 0)
	prevOffset := z.OffsetAt(at)
	for i := 0; i < 8; i++ {
		next := z.NextTransition(at)
		require.Greater(t, next, at, "transition %d not after query", i)
		offset := z.OffsetAt(next)
		assert.NotEqual(t, prevOffset, offset, "transition %d changed nothing", i)
		assert.Equal(t, pstOffset, z.StandardOffsetAt(next))
		prevOffset = offset
		at = next
	}
}

func TestBoundedHistoryExhausts(t *testing.T) {
	z := pacific1950s(t)

	// Past the last rule year NextTransition reaches a fixed point.
	at := instant(1980, time.January, 1, 0)
	assert.Equal(t, at, z.NextTransition(at))

	// PreviousTransition still finds the 1966 fall-back.
	prev := z.PreviousTransition(at)
	require.Less(t, prev, at)
	assert.Equal(t, 1966, time.UnixMilli(prev).UTC().Year())
}

func TestTransitionQueriesBracketChange(t *testing.T) {
	z := pacific1950s(t)

	at := instant(1955, time.January, 1, 0)
	next := z.NextTransition(at)
	require.Greater(t, next, at)

	// The instant of a transition already carries the new offset; one
	// millisecond earlier carries the old one.
	assert.Equal(t, pdtOffset, z.OffsetAt(next))
	assert.Equal(t, pstOffset, z.OffsetAt(next-1))

	// PreviousTransition from the transition instant answers just before it.
	assert.Equal(t, next-1, z.PreviousTransition(next))
}

// =============================================================================
// PERPETUAL TAIL
// =============================================================================

func TestEndlessRulePairCompilesToTail(t *testing.T) {
	z, err := zone.NewBuilder().
		AddCutover(zone.MinYear, zone.ModeWall, 1, 1, 0, false, 0).
		SetStandardOffset(pstOffset).
		AddRecurringSavings("PST", 0, 1967, zone.MaxYear, zone.ModeWall, 10, -1, 7, false, 2*hourMillis).
		AddRecurringSavings("PDT", hourMillis, 1987, zone.MaxYear, zone.ModeWall, 4, 1, 7, true, 2*hourMillis).
		Build("America/Endless", true)
	require.NoError(t, err)

	// Far beyond any precomputation horizon the oscillation continues.
	assert.Equal(t, pdtOffset, z.OffsetAt(instant(2150, time.July, 1, 12)))
	assert.Equal(t, "PDT", z.NameAt(instant(2150, time.July, 1, 12)))
	assert.Equal(t, pstOffset, z.OffsetAt(instant(2150, time.January, 15, 12)))
	assert.Equal(t, "PST", z.NameAt(instant(2150, time.January, 15, 12)))

	next := z.NextTransition(instant(2150, time.January, 15, 12))
	assert.Equal(t, 2150, time.UnixMilli(next).UTC().Year())
	assert.Equal(t, pdtOffset, z.OffsetAt(next))
}

// =============================================================================
// ERRORS
// =============================================================================

func TestBuildRejectsEmptyID(t *testing.T) {
	_, err := zone.NewBuilder().Build("", true)
	assert.ErrorIs(t, err, zone.ErrMissingID)
}

func TestBuildRejectsInvalidMode(t *testing.T) {
	_, err := zone.NewBuilder().
		AddCutover(1990, 'x', 1, 1, 0, false, 0).
		SetStandardOffset(0).
		Build("Bad/Mode", true)
	assert.ErrorIs(t, err, zone.ErrInvalidMode)

	_, err = zone.NewBuilder().
		AddRecurringSavings("DST", hourMillis, 1990, 2000, 'q', 4, 1, 0, false, 0).
		Build("Bad/RuleMode", true)
	assert.ErrorIs(t, err, zone.ErrInvalidMode)
}

func TestAddRecurringSavingsIgnoresEmptyYearRange(t *testing.T) {
	// fromYear > toYear is a no-op, so the history compiles to a fixed zone.
	z, err := zone.NewBuilder().
		AddCutover(zone.MinYear, zone.ModeWall, 1, 1, 0, false, 0).
		SetStandardOffset(hourMillis).
		SetFixedSavings("CET", 0).
		AddRecurringSavings("CEST", hourMillis, 2000, 1990, zone.ModeWall, 3, -1, 7, false, 2*hourMillis).
		Build("Europe/Test", true)
	require.NoError(t, err)
	assert.True(t, z.IsFixed())
}
