// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package stableast implements the JSON-serializable, version-stable
// tree described in spec §4.3: the external contract for tools that
// consume program structure without running the compiler. Every node is
// `{"kind": T, ...}`; unknown kinds at the root must be ignored by
// forward-compatible consumers (spec §6).
package stableast

import (
	"encoding/json"

	"github.com/samber/oops"
)

// Kind is the closed set of `kind` tags a Type node may carry.
type Kind string

const (
	KindPrimitive     Kind = "primitive"
	KindArray         Kind = "array"
	KindMap           Kind = "map"
	KindObject        Kind = "object"
	KindForeignRecord Kind = "foreignrecord"
	KindPublicKey     Kind = "publickey"
	KindRecord        Kind = "record"
	// KindContractRef is added by this implementation (SPEC_FULL.md §C.3):
	// the distilled spec's closed kind set has no wire form distinct from
	// foreignrecord for a `ContractRef<C>` field, but the two are
	// different shapes (array-of-refs vs a single ref), so they get
	// distinct kinds to stay unambiguous on the wire.
	KindContractRef Kind = "contractref"
)

// Type is any node of the type tree. Concrete kinds implement this via
// MarshalJSON (document kind + payload) and are produced by Unmarshal
// via kind dispatch.
type Type interface {
	TypeKind() Kind
}

// Primitive is `{kind:"primitive", value: "string"|"boolean"|"bytes"|
// "number"|"i32"|"u32"|"i64"|"u64"|"f32"|"f64"}`.
type Primitive struct {
	Value string `json:"value"`
}

func (Primitive) TypeKind() Kind { return KindPrimitive }

func (p Primitive) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  Kind   `json:"kind"`
		Value string `json:"value"`
	}{KindPrimitive, p.Value})
}

// Array is `{kind:"array", value: T}`.
type Array struct {
	Value Type `json:"value"`
}

func (Array) TypeKind() Kind { return KindArray }

func (a Array) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  Kind `json:"kind"`
		Value Type `json:"value"`
	}{KindArray, a.Value})
}

// Map is `{kind:"map", key: K, value: V}`. K is always "string" or
// "number" (spec §3 invariant, enforced by the type system, not this
// wire form).
type Map struct {
	Key   string `json:"key"`
	Value Type   `json:"value"`
}

func (Map) TypeKind() Kind { return KindMap }

func (m Map) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  Kind   `json:"kind"`
		Key   string `json:"key"`
		Value Type   `json:"value"`
	}{KindMap, m.Key, m.Value})
}

// ObjectField is one `name: type` entry of an Object.
type ObjectField struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// Object is `{kind:"object", fields: [...]}`.
type Object struct {
	Fields []ObjectField `json:"fields"`
}

func (Object) TypeKind() Kind { return KindObject }

func (o Object) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind   Kind          `json:"kind"`
		Fields []ObjectField `json:"fields"`
	}{KindObject, o.Fields})
}

// ForeignRecord is `{kind:"foreignrecord", collection: name}`: the
// erased/array-of-references shape used for e.g. `Array<ContractRef<C>>`.
type ForeignRecord struct {
	Collection string `json:"collection"`
}

func (ForeignRecord) TypeKind() Kind { return KindForeignRecord }

func (f ForeignRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind       Kind   `json:"kind"`
		Collection string `json:"collection"`
	}{KindForeignRecord, f.Collection})
}

// ContractRef is `{kind:"contractref", contract: name}`: a single
// cross-record reference materialized as `{id}` on the wire (spec §3
// "ContractRef<C>").
type ContractRef struct {
	Contract string `json:"contract"`
}

func (ContractRef) TypeKind() Kind { return KindContractRef }

func (c ContractRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind     Kind   `json:"kind"`
		Contract string `json:"contract"`
	}{KindContractRef, c.Contract})
}

// PublicKey is `{kind:"publickey"}`.
type PublicKey struct{}

func (PublicKey) TypeKind() Kind { return KindPublicKey }

func (PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
	}{KindPublicKey})
}

// Record is `{kind:"record"}`: the erased/polymorphic contract reference
// used by generic built-ins (spec §3).
type Record struct{}

func (Record) TypeKind() Kind { return KindRecord }

func (Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
	}{KindRecord})
}

// UnmarshalType decodes a Type node by peeking its "kind" tag, giving
// external tooling (and this package's own Validator) a stable
// deserialization path that tolerates the addition of new leaf
// kinds as long as it does not depend on them (spec §6).
func UnmarshalType(data []byte) (Type, error) {
	var peek struct {
		Kind Kind `json:"kind"`
	}

	if err := json.Unmarshal(data, &peek); err != nil {
		return nil, oops.Code("STABLEAST_DECODE_FAILED").Wrap(err)
	}

	switch peek.Kind {
	case KindPrimitive:
		var v struct {
			Value string `json:"value"`
		}

		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}

		return Primitive{Value: v.Value}, nil
	case KindArray:
		var v struct {
			Value json.RawMessage `json:"value"`
		}

		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}

		elem, err := UnmarshalType(v.Value)
		if err != nil {
			return nil, err
		}

		return Array{Value: elem}, nil
	case KindMap:
		var v struct {
			Key   string          `json:"key"`
			Value json.RawMessage `json:"value"`
		}

		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}

		val, err := UnmarshalType(v.Value)
		if err != nil {
			return nil, err
		}

		return Map{Key: v.Key, Value: val}, nil
	case KindObject:
		var v struct {
			Fields []struct {
				Name string          `json:"name"`
				Type json.RawMessage `json:"type"`
			} `json:"fields"`
		}

		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}

		fields := make([]ObjectField, 0, len(v.Fields))

		for _, f := range v.Fields {
			t, err := UnmarshalType(f.Type)
			if err != nil {
				return nil, err
			}

			fields = append(fields, ObjectField{Name: f.Name, Type: t})
		}

		return Object{Fields: fields}, nil
	case KindForeignRecord:
		var v struct {
			Collection string `json:"collection"`
		}

		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}

		return ForeignRecord{Collection: v.Collection}, nil
	case KindContractRef:
		var v struct {
			Contract string `json:"contract"`
		}

		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}

		return ContractRef{Contract: v.Contract}, nil
	case KindPublicKey:
		return PublicKey{}, nil
	case KindRecord:
		return Record{}, nil
	default:
		return nil, oops.Code("STABLEAST_UNKNOWN_KIND").With("kind", string(peek.Kind)).
			Errorf("unknown type kind %q", peek.Kind)
	}
}
