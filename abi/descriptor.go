// Package abi is the bridge between host JSON and the VM's field-element
// tapes (spec §4.6). It builds a Descriptor from a lowered ir.Unit,
// encodes/decodes JSON against it, and orchestrates a full run through
// an injected vm.Engine.
package abi

import (
	"github.com/polylang/polylang/ir"
	"github.com/polylang/polylang/stableast"
)

// ParamDescriptor is one entry point parameter's declared type.
type ParamDescriptor struct {
	Name string         `json:"name"`
	Type stableast.Type `json:"type"`
}

// Descriptor is the JSON ABI descriptor spec §4.5 "ABI emission"
// describes: the expected shape of `this`, of each parameter, where
// `this` is materialized in linear memory, and the return layout.
type Descriptor struct {
	Entry    string            `json:"entry"`
	Contract string            `json:"contract,omitempty"`
	This     []stableast.Field `json:"this,omitempty"`
	ThisAddr int               `json:"thisAddr"`
	Params   []ParamDescriptor `json:"params"`
	Return   stableast.Type    `json:"return,omitempty"`
}

// ThisType renders the `this` field list as a single Object type, for
// callers (the hash accumulator, the validator) that want a
// stableast.Type rather than a field list.
func (d Descriptor) ThisType() stableast.Object {
	fields := make([]stableast.ObjectField, 0, len(d.This))
	for _, f := range d.This {
		fields = append(fields, stableast.ObjectField{Name: f.Name, Type: f.Type})
	}

	return stableast.Object{Fields: fields}
}

// thisBaseAddr is the fixed linear-memory word address `this` is
// materialized at. A real allocator would thread this through from
// wherever the prelude's globals end; this module doesn't model a
// prelude, so `this` simply starts the heap region (spec §4.5
// "Allocation... a counter holds the next free word address").
const thisBaseAddr = 0

// Build derives a Descriptor from a lowered entry point.
func Build(unit *ir.Unit) Descriptor {
	d := Descriptor{
		Entry:    unit.Name,
		Contract: unit.Contract,
		Return:   unit.Return,
	}

	if unit.Contract != "" {
		d.This = unit.ThisFields
		d.ThisAddr = thisBaseAddr
	}

	for _, p := range unit.Params {
		d.Params = append(d.Params, ParamDescriptor{Name: p.Name, Type: p.Type})
	}

	return d
}

// TypeName renders a type as a short human-readable string, for
// assembly comments and error messages.
func TypeName(t stableast.Type) string {
	if t == nil {
		return "void"
	}

	switch v := t.(type) {
	case stableast.Primitive:
		return v.Value
	case stableast.Array:
		return TypeName(v.Value) + "[]"
	case stableast.Map:
		return "map<" + v.Key + "," + TypeName(v.Value) + ">"
	case stableast.Object:
		return "object"
	case stableast.ForeignRecord:
		return v.Collection + "[]"
	case stableast.ContractRef:
		return v.Contract
	case stableast.PublicKey:
		return "PublicKey"
	case stableast.Record:
		return "Record"
	default:
		return "?"
	}
}
