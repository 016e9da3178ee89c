/*
codec.go - Serialized form for built zones

PURPOSE:
  Building a zone from its rule history is comparatively expensive; reading
  an encoded descriptor back is cheap. MarshalZone and UnmarshalZone turn
  the three descriptor shapes into a tagged CBOR payload and back, so
  registries and stores can persist compiled zones instead of recompiling.

SHAPE:
  One envelope with a kind tag ("fixed", "dst", "table") and exactly one of
  the three bodies populated. The cache decorator is not encoded: decoding
  a table re-runs the cachability decision, so a zone that qualified on the
  way in qualifies again on the way out.

VALIDATION:
  Decoding re-checks everything construction checks - array lengths, the
  successor invariant, reference modes - because the payload may come from
  a store this process did not write.
*/
package zone

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// ErrBadPayload is returned by UnmarshalZone for payloads that do not
// describe a valid zone.
var ErrBadPayload = errors.New("malformed zone payload")

const (
	kindFixed = "fixed"
	kindDST   = "dst"
	kindTable = "table"
)

type zonePayload struct {
	Kind  string        `cbor:"kind"`
	ID    string        `cbor:"id"`
	Fixed *fixedPayload `cbor:"fixed,omitempty"`
	DST   *dstPayload   `cbor:"dst,omitempty"`
	Table *tablePayload `cbor:"table,omitempty"`
}

type fixedPayload struct {
	NameKey        string `cbor:"name"`
	WallOffset     int    `cbor:"wall"`
	StandardOffset int    `cbor:"std"`
}

type dstPayload struct {
	StandardOffset int               `cbor:"std"`
	Start          recurrencePayload `cbor:"start"`
	End            recurrencePayload `cbor:"end"`
}

type recurrencePayload struct {
	Mode        byte   `cbor:"mode"`
	Month       int    `cbor:"month"`
	DayOfMonth  int    `cbor:"dom"`
	DayOfWeek   int    `cbor:"dow"`
	Advance     bool   `cbor:"advance"`
	MillisOfDay int    `cbor:"msday"`
	NameKey     string `cbor:"name"`
	SaveMillis  int    `cbor:"save"`
}

type tablePayload struct {
	Transitions     []int64     `cbor:"trans"`
	WallOffsets     []int       `cbor:"walls"`
	StandardOffsets []int       `cbor:"stds"`
	NameKeys        []string    `cbor:"names"`
	Tail            *dstPayload `cbor:"tail,omitempty"`
}

// MarshalZone encodes a built zone. The cache decorator, if present, is
// transparently unwrapped.
func MarshalZone(z Zone) ([]byte, error) {
	if c, ok := z.(*cachedZone); ok {
		z = c.inner
	}

	payload := zonePayload{ID: z.ID()}
	switch v := z.(type) {
	case *fixedZone:
		payload.Kind = kindFixed
		payload.Fixed = &fixedPayload{
			NameKey:        v.nameKey,
			WallOffset:     v.wallOffset,
			StandardOffset: v.standardOffset,
		}
	case *dstZone:
		payload.Kind = kindDST
		payload.DST = encodeDST(v)
	case *precalcZone:
		payload.Kind = kindTable
		payload.Table = &tablePayload{
			Transitions:     v.transitions,
			WallOffsets:     v.wallOffsets,
			StandardOffsets: v.standardOffsets,
			NameKeys:        v.nameKeys,
		}
		if v.tail != nil {
			payload.Table.Tail = encodeDST(v.tail)
		}
	default:
		return nil, fmt.Errorf("%w: unknown descriptor %T", ErrBadPayload, z)
	}

	return cbor.Marshal(payload)
}

// UnmarshalZone decodes a payload produced by MarshalZone, revalidating the
// descriptor's invariants.
func UnmarshalZone(data []byte) (Zone, error) {
	var payload zonePayload
	if err := cbor.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	switch payload.Kind {
	case kindFixed:
		if payload.Fixed == nil {
			return nil, fmt.Errorf("%w: missing fixed body", ErrBadPayload)
		}
		f := payload.Fixed
		return buildFixedZone(payload.ID, f.NameKey, f.WallOffset, f.StandardOffset), nil

	case kindDST:
		if payload.DST == nil {
			return nil, fmt.Errorf("%w: missing dst body", ErrBadPayload)
		}
		return decodeDST(payload.ID, payload.DST)

	case kindTable:
		t := payload.Table
		if t == nil {
			return nil, fmt.Errorf("%w: missing table body", ErrBadPayload)
		}
		size := len(t.Transitions)
		if size == 0 || len(t.WallOffsets) != size || len(t.StandardOffsets) != size || len(t.NameKeys) != size {
			return nil, fmt.Errorf("%w: table arrays disagree", ErrBadPayload)
		}
		trans := make([]transition, size)
		for i := 0; i < size; i++ {
			trans[i] = transition{
				instant:        t.Transitions[i],
				nameKey:        t.NameKeys[i],
				wallOffset:     t.WallOffsets[i],
				standardOffset: t.StandardOffsets[i],
			}
		}
		var tail *dstZone
		if t.Tail != nil {
			decoded, err := decodeDST(payload.ID, t.Tail)
			if err != nil {
				return nil, err
			}
			tail = decoded
		}
		pz, err := newPrecalculatedZone(payload.ID, payload.ID != "", trans, tail)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
		}
		if pz.isCachable() {
			return newCachedZone(pz), nil
		}
		return pz, nil

	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrBadPayload, payload.Kind)
	}
}

func encodeDST(z *dstZone) *dstPayload {
	return &dstPayload{
		StandardOffset: z.standardOffset,
		Start:          encodeRecurrence(z.startRecurrence),
		End:            encodeRecurrence(z.endRecurrence),
	}
}

func encodeRecurrence(r recurrence) recurrencePayload {
	return recurrencePayload{
		Mode:        r.ofYear.mode,
		Month:       r.ofYear.month,
		DayOfMonth:  r.ofYear.dayOfMonth,
		DayOfWeek:   r.ofYear.dayOfWeek,
		Advance:     r.ofYear.advance,
		MillisOfDay: r.ofYear.millisOfDay,
		NameKey:     r.nameKey,
		SaveMillis:  r.saveMillis,
	}
}

func decodeDST(id string, p *dstPayload) (*dstZone, error) {
	start, err := decodeRecurrence(p.Start)
	if err != nil {
		return nil, err
	}
	end, err := decodeRecurrence(p.End)
	if err != nil {
		return nil, err
	}
	return &dstZone{
		id:              id,
		standardOffset:  p.StandardOffset,
		startRecurrence: start,
		endRecurrence:   end,
	}, nil
}

func decodeRecurrence(p recurrencePayload) (recurrence, error) {
	oy, err := newOfYear(p.Mode, p.Month, p.DayOfMonth, p.DayOfWeek, p.Advance, p.MillisOfDay)
	if err != nil {
		return recurrence{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return recurrence{ofYear: oy, nameKey: p.NameKey, saveMillis: p.SaveMillis}, nil
}
