/*
Package zone compiles declarative timezone histories into immutable,
queryable descriptors.

PURPOSE:
  A zone's history is described to a Builder as a chain of cutover-delimited
  eras, each with a standard offset, an optional fixed savings, and a set of
  recurring daylight-saving rules. Build resolves that description into one
  of three descriptor shapes behind the Zone interface:

    fixed      - one offset forever
    perpetual  - an endless two-rule daylight-saving oscillation
    table      - a precomputed ascending transition table, optionally
                 followed by a perpetual tail, optionally wrapped in a
                 query cache

KEY CONCEPTS:
  - Instant: int64 milliseconds since the Unix epoch, UTC.
  - Standard offset: the non-daylight-saving UTC offset, in milliseconds.
  - Savings: extra milliseconds applied while a daylight rule is in force.
  - Wall offset: standard offset + savings; what a local clock shows.

LIFECYCLE:
  Builders are mutable, single-owner and discarded after Build. Every Zone
  returned by Build is immutable and safe for unbounded concurrent reads.

USAGE:
  z, err := zone.NewBuilder().
      SetStandardOffset(-28800000).
      AddRecurringSavings("PDT", 3600000, 1950, 1966, 'w', 4, -1, 7, false, 7200000).
      AddRecurringSavings("PST", 0, 1950, 1966, 'w', 10, -1, 7, false, 7200000).
      Build("America/Los_Angeles", true)

SEE ALSO:
  - builder.go: era stitching and representation choice
  - codec.go: serialized form for registries and stores
*/
package zone

// Zone answers offset and transition queries for any instant. All methods
// are total: they never fail, whatever the instant.
type Zone interface {
	// ID returns the zone id, or "" when the builder was told not to
	// output it.
	ID() string

	// NameAt returns the symbolic name of the offset in force at instant.
	NameAt(instant int64) string

	// OffsetAt returns the wall offset in force at instant, in ms.
	OffsetAt(instant int64) int

	// StandardOffsetAt returns the standard offset in force at instant.
	StandardOffsetAt(instant int64) int

	// NextTransition returns the instant of the first transition strictly
	// after instant, or instant itself when there is none.
	NextTransition(instant int64) int64

	// PreviousTransition returns the instant one millisecond before the
	// latest transition at or before instant, or instant itself when there
	// is none.
	PreviousTransition(instant int64) int64

	// IsFixed reports whether the offset never changes.
	IsFixed() bool
}
