/*
fixed.go - Constant-offset descriptor

PURPOSE:
  The degenerate zone shape: one name, one wall offset, one standard offset,
  for the whole timeline. Produced when a history compiles down to zero
  transitions, or to a single one with no tail.
*/
package zone

// UTC is the shared zero-offset zone. Build returns it for histories that
// compile to nothing.
var UTC Zone = &fixedZone{id: "UTC", nameKey: "UTC"}

type fixedZone struct {
	id             string
	nameKey        string
	wallOffset     int
	standardOffset int
}

// buildFixedZone returns the shared UTC instance where possible.
func buildFixedZone(id, nameKey string, wallOffset, standardOffset int) Zone {
	if id == "UTC" && nameKey == "UTC" && wallOffset == 0 && standardOffset == 0 {
		return UTC
	}
	return &fixedZone{id: id, nameKey: nameKey, wallOffset: wallOffset, standardOffset: standardOffset}
}

func (z *fixedZone) ID() string                 { return z.id }
func (z *fixedZone) NameAt(int64) string        { return z.nameKey }
func (z *fixedZone) OffsetAt(int64) int         { return z.wallOffset }
func (z *fixedZone) StandardOffsetAt(int64) int { return z.standardOffset }
func (z *fixedZone) IsFixed() bool              { return true }

func (z *fixedZone) NextTransition(instant int64) int64     { return instant }
func (z *fixedZone) PreviousTransition(instant int64) int64 { return instant }
