package vm

import (
	"sort"
	"strconv"

	"github.com/polylang/polylang/stableast"
)

// Commitment is the short tuple of field elements spec §4.5's "Hash
// accumulator" describes: a Rescue-family sponge state. gnark-crypto
// v0.12 exposes field arithmetic (fr.Element) but no ready-made Rescue
// permutation, so the round function itself is hand-built on top of
// that arithmetic — documented in DESIGN.md as the one piece of this
// package not sourced from a library.
type Commitment [3]FieldElement

// roundConstants seed the permutation's nonlinear mixing step. Fixed,
// arbitrary, and public — a Rescue-style permutation's security comes
// from the round structure, not secrecy of these constants.
var roundConstants = [8]uint64{
	0x9e3779b97f4a7c15, 0xbf58476d1ce4e5b9, 0x94d049bb133111eb, 0xff51afd7ed558ccd,
	0xc4ceb9fe1a85ec53, 0x2545f4914f6cdd1d, 0x85ebca6b, 0xc2b2ae35,
}

// permute runs a fixed number of Rescue-style rounds (x^5 S-box then a
// linear mix against the round constants) over the 3-element state, the
// shape spec §4.5 describes for the running commitment.
func permute(s Commitment) Commitment {
	for r := 0; r < len(roundConstants); r++ {
		c := FieldFromUint64(roundConstants[r])

		for i := range s {
			x := s[i].Add(c)
			x2 := x.Mul(x)
			x4 := x2.Mul(x2)
			s[i] = x4.Mul(x)
		}

		s = Commitment{
			s[0].Add(s[1]).Add(s[2]),
			s[0].Add(s[1].Mul(FieldFromUint64(2))),
			s[1].Add(s[2].Mul(FieldFromUint64(2))),
		}
	}

	return s
}

func absorb(s Commitment, words ...FieldElement) Commitment {
	for _, w := range words {
		s[0] = s[0].Add(w)
		s = permute(s)
	}

	return s
}

// HashValue computes the commitment of a decoded JSON value (map[string]
// any / []any / string / float64 / int64 / uint64 / bool / nil) shaped by t, following
// spec §4.5's hash protocol exactly: strings/bytes hash length then
// packed bytes, arrays hash length then elements, maps hash size then
// insertion-order entries, records hash fields in declared order with
// contract references collapsed to their `id`, PublicKey hashes its two
// coordinates.
//
// keyOrder, when non-nil, gives a map's insertion order (spec §4.5 "Maps
// hash size then entries in insertion order") since decoded JSON loses
// that order on its own; nil falls back to sorted keys.
func HashValue(t stableast.Type, v any, keyOrder map[string][]string) Commitment {
	var s Commitment

	return hashInto(s, t, v, keyOrder)
}

func hashInto(s Commitment, t stableast.Type, v any, keyOrder map[string][]string) Commitment {
	switch tv := t.(type) {
	case stableast.Primitive:
		switch tv.Value {
		case "string", "bytes":
			str, _ := v.(string)
			s = absorb(s, FieldFromUint64(uint64(len(str))))
			s = absorb(s, FieldFromBytes([]byte(str)))
		case "boolean":
			b, _ := v.(bool)
			n := uint64(0)
			if b {
				n = 1
			}

			s = absorb(s, FieldFromUint64(n))
		default:
			s = absorb(s, numericField(tv.Value, v))
		}
	case stableast.Array:
		arr, _ := v.([]any)
		s = absorb(s, FieldFromUint64(uint64(len(arr))))

		for _, el := range arr {
			s = hashInto(s, tv.Value, el, keyOrder)
		}
	case stableast.Map:
		m, _ := v.(map[string]any)

		keys := keyOrder["."]
		if keys == nil {
			keys = make([]string, 0, len(m))
			for k := range m {
				keys = append(keys, k)
			}

			sort.Strings(keys)
		}

		s = absorb(s, FieldFromUint64(uint64(len(m))))

		for _, k := range keys {
			kb := []byte(k)
			if tv.Key == "number" {
				if f, err := strconv.ParseFloat(k, 64); err == nil {
					kb = []byte(strconv.FormatFloat(f, 'g', -1, 64))
				}
			}

			s = absorb(s, FieldFromBytes(kb))
			s = hashInto(s, tv.Value, m[k], nil)
		}
	case stableast.Object:
		m, _ := v.(map[string]any)
		for _, f := range tv.Fields {
			s = hashInto(s, f.Type, m[f.Name], nil)
		}
	case stableast.ContractRef, stableast.ForeignRecord:
		id := ""
		if m, ok := v.(map[string]any); ok {
			id, _ = m["id"].(string)
		} else if str, ok := v.(string); ok {
			id = str
		}

		s = absorb(s, FieldFromUint64(uint64(len(id))))
		s = absorb(s, FieldFromBytes([]byte(id)))
	case stableast.PublicKey:
		x, y := publicKeyCoords(v)
		s = absorb(s, FieldFromBytes(x))
		s = absorb(s, FieldFromBytes(y))
	case stableast.Record:
		// Erased/polymorphic: hash only what decoded as a record's id,
		// same as a ContractRef.
		if m, ok := v.(map[string]any); ok {
			id, _ := m["id"].(string)
			s = absorb(s, FieldFromUint64(uint64(len(id))))
			s = absorb(s, FieldFromBytes([]byte(id)))
		}
	}

	return s
}

// numericField canonicalizes a decoded JSON number against the declared
// sized type. Map<number,V> key hashing uses the same canonical-decimal
// form (SPEC_FULL.md §C.5 Open Question resolution) rather than the bit
// pattern, since the commitment is defined over the serialized value and
// decimal form survives a lossless JSON round-trip.
//
// i64/u64 values arrive as Go's native int64/uint64 (the ABI decodes
// them through math/big to avoid float64's 53-bit mantissa ceiling, see
// abi.decodeSizedInt) rather than float64, so they're hashed exactly
// instead of being forced through a lossy float64 conversion first.
func numericField(family string, v any) FieldElement {
	switch family {
	case "i32":
		return FieldFromInt64(int64(asFloat(v)))
	case "u32":
		return FieldFromUint64(uint64(asFloat(v)))
	case "i64":
		switch n := v.(type) {
		case int64:
			return FieldFromInt64(n)
		default:
			return FieldFromInt64(int64(asFloat(v)))
		}
	case "u64":
		switch n := v.(type) {
		case uint64:
			return FieldFromUint64(n)
		default:
			return FieldFromUint64(uint64(asFloat(v)))
		}
	default: // number, f32, f64
		return FieldFromBytes([]byte(strconv.FormatFloat(asFloat(v), 'g', -1, 64)))
	}
}

// asFloat widens any of the numeric shapes a decoded value or VM
// intermediate can carry (float64, or the int64/uint64 the ABI now uses
// for i64/u64) into a float64, for families that never exceed float64's
// exact range or for VM-internal arithmetic results.
func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	default:
		return 0
	}
}

func publicKeyCoords(v any) ([]byte, []byte) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, nil
	}

	x, _ := m["x"].(string)
	y, _ := m["y"].(string)

	return []byte(x), []byte(y)
}
