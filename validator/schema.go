// Package validator is the pure Stable-AST-driven checker spec §4.7
// describes: "verifies that every required field is present with the
// declared type and that no extra fields appear... does not run code".
// SPEC_FULL.md §C.7 implements this by generating a JSON Schema per
// contract and delegating the structural check to
// santhosh-tekuri/jsonschema/v6, the same compiled-schema pattern
// the example corpus uses for its own manifest validation.
package validator

import (
	"math"

	"github.com/polylang/polylang/stableast"
)

// jsonSchema builds the raw JSON Schema document (as a plain map, ready
// for json.Marshal or direct compiler ingestion) describing a contract's
// `this` shape: required fields present, declared types matched, no
// extra properties (spec §4.7).
func jsonSchema(c stableast.Contract) map[string]any {
	props := make(map[string]any, len(c.Fields))
	required := make([]any, 0, len(c.Fields))

	for _, f := range c.Fields {
		props[f.Name] = typeSchema(f.Type)

		if f.Required {
			required = append(required, f.Name)
		}
	}

	return map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

// typeSchema renders one Stable AST type as a JSON Schema fragment.
func typeSchema(t stableast.Type) map[string]any {
	switch tv := t.(type) {
	case stableast.Primitive:
		return primitiveSchema(tv.Value)
	case stableast.Array:
		return map[string]any{"type": "array", "items": typeSchema(tv.Value)}
	case stableast.Map:
		return map[string]any{"type": "object", "additionalProperties": typeSchema(tv.Value)}
	case stableast.Object:
		props := make(map[string]any, len(tv.Fields))
		for _, f := range tv.Fields {
			props[f.Name] = typeSchema(f.Type)
		}

		return map[string]any{"type": "object", "properties": props, "additionalProperties": false}
	case stableast.ContractRef, stableast.ForeignRecord:
		return map[string]any{
			"type":                 "object",
			"properties":           map[string]any{"id": map[string]any{"type": "string"}},
			"required":             []any{"id"},
			"additionalProperties": false,
		}
	case stableast.PublicKey:
		return map[string]any{
			"type": "object",
			"properties": map[string]any{
				"x": map[string]any{"type": "string"},
				"y": map[string]any{"type": "string"},
			},
			"required":             []any{"x", "y"},
			"additionalProperties": false,
		}
	case stableast.Record:
		return map[string]any{"type": "object"}
	default:
		return map[string]any{}
	}
}

// primitiveSchema maps a primitive family onto its JSON Schema type,
// adding minimum/maximum bounds for the sized integer families so the
// schema itself enforces the same range spec §9's out-of-range Open
// Question cares about.
//
// Bounds are written as float64, not a bare Go int literal: a document
// built as a plain Go map (rather than produced by json.Unmarshal) must
// already be shaped the way decoded JSON would be — map[string]any /
// []any / string / float64 / bool / nil — since the schema compiler
// type-switches on those exact Go types; a raw int here would silently
// fail that switch instead of being treated as a number.
func primitiveSchema(family string) map[string]any {
	switch family {
	case "string", "bytes":
		return map[string]any{"type": "string"}
	case "boolean":
		return map[string]any{"type": "boolean"}
	case "i32":
		return map[string]any{"type": "integer", "minimum": float64(math.MinInt32), "maximum": float64(math.MaxInt32)}
	case "u32":
		return map[string]any{"type": "integer", "minimum": float64(0), "maximum": float64(math.MaxUint32)}
	case "i64":
		return map[string]any{"type": "integer", "minimum": float64(math.MinInt64), "maximum": float64(math.MaxInt64)}
	case "u64":
		return map[string]any{"type": "integer", "minimum": float64(0), "maximum": float64(math.MaxUint64)}
	default: // number, f32, f64
		return map[string]any{"type": "number"}
	}
}
