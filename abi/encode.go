package abi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"

	"github.com/samber/oops"

	"github.com/polylang/polylang/stableast"
)

// DecodeThis parses `this_json` against a contract's declared fields
// (spec §4.6 point 2: "validate against the Stable AST-derived
// descriptor"), rejecting missing required fields and fields the
// contract never declared.
func DecodeThis(data []byte, fields []stableast.Field) (map[string]any, error) {
	if len(data) == 0 {
		data = []byte("{}")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, mismatch("this: expected a JSON object: %v", err)
	}

	out := make(map[string]any, len(fields))
	seen := make(map[string]bool, len(fields))

	for _, f := range fields {
		seen[f.Name] = true

		rv, ok := raw[f.Name]
		if !ok {
			if f.Required {
				return nil, oops.Code(ErrRequiredMissing).Errorf("this.%s is required", f.Name)
			}

			continue
		}

		v, err := decodeValue(f.Type, rv, "this."+f.Name)
		if err != nil {
			return nil, err
		}

		out[f.Name] = v
	}

	for k := range raw {
		if !seen[k] {
			return nil, oops.Code(ErrExtraField).Errorf("this.%s is not declared on the contract", k)
		}
	}

	return out, nil
}

// DecodeArgs parses `args_json` — a positional JSON array — against an
// entry point's declared parameters (spec §4.6 point 2).
func DecodeArgs(data []byte, params []ParamDescriptor) ([]any, error) {
	if len(data) == 0 {
		data = []byte("[]")
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, mismatch("args: expected a JSON array: %v", err)
	}

	if len(raw) != len(params) {
		return nil, mismatch("expected %d argument(s), got %d", len(params), len(raw))
	}

	out := make([]any, len(params))

	for i, p := range params {
		v, err := decodeValue(p.Type, raw[i], p.Name)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}

// decodeValue walks a declared type alongside raw JSON, producing the
// decoded-JSON-shaped value (map[string]any / []any / string / float64 /
// bool, with int64 / uint64 for i64 / u64) vm.HashValue and vm.Engine already expect, while enforcing the
// required/extra-field and sized-range checks spec §4.6 point 2 and
// SPEC_FULL.md §C.6 call for.
func decodeValue(t stableast.Type, raw json.RawMessage, path string) (any, error) {
	if t == nil {
		var v any
		_ = json.Unmarshal(raw, &v)

		return v, nil
	}

	switch tv := t.(type) {
	case stableast.Primitive:
		return decodePrimitive(tv.Value, raw, path)
	case stableast.Array:
		var arr []json.RawMessage
		if err := json.Unmarshal(raw, &arr); err != nil {
			return nil, mismatch("%s: expected an array", path)
		}

		out := make([]any, len(arr))

		for i, el := range arr {
			v, err := decodeValue(tv.Value, el, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}

			out[i] = v
		}

		return out, nil
	case stableast.Map:
		var m map[string]json.RawMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, mismatch("%s: expected an object", path)
		}

		out := make(map[string]any, len(m))

		for k, rv := range m {
			v, err := decodeValue(tv.Value, rv, path+"."+k)
			if err != nil {
				return nil, err
			}

			out[k] = v
		}

		return out, nil
	case stableast.Object:
		var m map[string]json.RawMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, mismatch("%s: expected an object", path)
		}

		out := make(map[string]any, len(tv.Fields))
		seen := make(map[string]bool, len(tv.Fields))

		for _, f := range tv.Fields {
			seen[f.Name] = true

			rv, ok := m[f.Name]
			if !ok {
				continue
			}

			v, err := decodeValue(f.Type, rv, path+"."+f.Name)
			if err != nil {
				return nil, err
			}

			out[f.Name] = v
		}

		for k := range m {
			if !seen[k] {
				return nil, oops.Code(ErrExtraField).Errorf("%s.%s is not declared", path, k)
			}
		}

		return out, nil
	case stableast.ContractRef, stableast.ForeignRecord:
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, mismatch("%s: expected a reference object with an id", path)
		}

		id, ok := m["id"].(string)
		if !ok {
			return nil, mismatch("%s: reference is missing a string id", path)
		}

		// A cross-record reference collapses to its id (spec §3): any
		// other fields a caller sent along with it are dropped here
		// rather than passed through into `this` and the commitment hash.
		return map[string]any{"id": id}, nil
	case stableast.PublicKey:
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, mismatch("%s: expected a PublicKey {x, y}", path)
		}

		return m, nil
	case stableast.Record:
		var m map[string]any
		_ = json.Unmarshal(raw, &m)

		return m, nil
	default:
		return nil, mismatch("%s: unrecognized declared type", path)
	}
}

func decodePrimitive(family string, raw json.RawMessage, path string) (any, error) {
	switch family {
	case "string", "bytes":
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, mismatch("%s: expected a string", path)
		}

		return s, nil
	case "boolean":
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, mismatch("%s: expected a boolean", path)
		}

		return b, nil
	case "i32", "u32":
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, mismatch("%s: expected a number", path)
		}

		if f != math.Trunc(f) {
			return nil, oops.Code(ErrOutOfRange).Errorf("%s: %v is not an integer, required by %s", path, f, family)
		}

		if err := checkRange(family, f, path); err != nil {
			return nil, err
		}

		return f, nil
	case "i64", "u64":
		// The wire uses arbitrary-precision JSON numbers (spec §9); a
		// flat float64 decode loses exact precision past 2^53, so i64/u64
		// — the families that actually reach that far — are decoded
		// through math/big instead and kept as Go's native int64/uint64
		// rather than float64 all the way through hashing and re-encode.
		return decodeSizedInt(family, raw, path)
	default: // "number", "f32", "f64"
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, mismatch("%s: expected a number", path)
		}

		return f, nil
	}
}

// decodeSizedInt decodes an i64/u64 field using math/big rather than
// float64, so a value near the 64-bit boundary round-trips exactly
// instead of silently rounding to the nearest representable float64.
func decodeSizedInt(family string, raw json.RawMessage, path string) (any, error) {
	var num json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	if err := dec.Decode(&num); err != nil {
		return nil, mismatch("%s: expected a number", path)
	}

	n, ok := new(big.Int).SetString(num.String(), 10)
	if !ok {
		return nil, oops.Code(ErrOutOfRange).Errorf("%s: %v is not an integer, required by %s", path, num, family)
	}

	if family == "i64" {
		if !n.IsInt64() {
			return nil, oops.Code(ErrOutOfRange).Errorf("%s: %v is out of range for %s", path, num, family)
		}

		return n.Int64(), nil
	}

	if n.Sign() < 0 || !n.IsUint64() {
		return nil, oops.Code(ErrOutOfRange).Errorf("%s: %v is out of range for %s", path, num, family)
	}

	return n.Uint64(), nil
}

// checkRange enforces the i32/u32 bounds SPEC_FULL.md §C.6 carves out a
// distinct error code for. i64/u64 are range-checked exactly in
// decodeSizedInt instead, since their bounds don't fit a float64.
func checkRange(family string, f float64, path string) error {
	lo, hi := rangeFor(family)
	if f < lo || f > hi {
		return oops.Code(ErrOutOfRange).Errorf("%s: %v is out of range for %s", path, f, family)
	}

	return nil
}

func rangeFor(family string) (float64, float64) {
	switch family {
	case "i32":
		return math.MinInt32, math.MaxInt32
	default: // u32
		return 0, math.MaxUint32
	}
}
