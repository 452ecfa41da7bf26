// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package types implements spec §4.4's two-pass type elaboration: a
// declaration pass that builds a `contractName → contractSchema` map
// plus free-function signatures, and a body pass that type-checks every
// function/method body against a local environment. It consumes the
// concrete ast.Program directly (not the Stable AST) because the body
// pass needs structured statements, but reuses stableast.Elaborate for
// signature types so the two passes agree on the resolved type lattice
// (spec §3) without a second type-resolution implementation.
package types

import (
	"fmt"

	"github.com/samber/oops"

	"github.com/polylang/polylang/ast"
	"github.com/polylang/polylang/stableast"
)

var primitiveNames = map[string]bool{
	"string": true, "boolean": true, "bytes": true,
	"number": true, "i32": true, "u32": true, "i64": true, "u64": true, "f32": true, "f64": true,
}

var floatFamily = map[string]bool{"number": true, "f32": true, "f64": true}
var intFamily = map[string]bool{"i32": true, "u32": true, "i64": true, "u64": true}

func isNumericPrimitive(t stableast.Type) (string, bool) {
	p, ok := t.(stableast.Primitive)
	if !ok {
		return "", false
	}

	if floatFamily[p.Value] || intFamily[p.Value] {
		return p.Value, true
	}

	return "", false
}

// Signature is a function or method's declared shape.
type Signature struct {
	Params []stableast.Param
	Return stableast.Type
}

// ContractSchema is one contract's declaration-pass result: resolved
// field types and method signatures, keyed by name.
type ContractSchema struct {
	Name    string
	Fields  map[string]stableast.Field
	Order   []string // field names in declaration order, for homogeneous iteration
	Methods map[string]Signature
}

// Schema is the whole program's declaration pass result.
type Schema struct {
	Contracts map[string]*ContractSchema
	Functions map[string]Signature
}

// Declare runs the declaration pass (spec §4.4 step 1) over a parsed
// program, producing the contractName → contractSchema map and the
// free-function signature table. It also rejects the two
// declaration-time error conditions: disallowed type in parameter
// position (object types) and unknown contract reference.
func Declare(prog *ast.Program) (*Schema, error) {
	sa := stableast.Elaborate(prog)

	names := map[string]bool{}
	for _, c := range sa.Contracts {
		names[c.Name] = true
	}

	schema := &Schema{
		Contracts: map[string]*ContractSchema{},
		Functions: map[string]Signature{},
	}

	for _, c := range sa.Contracts {
		cs := &ContractSchema{Name: c.Name, Fields: map[string]stableast.Field{}, Methods: map[string]Signature{}}

		for _, f := range c.Fields {
			if err := checkFieldType(f.Type, names); err != nil {
				return nil, err
			}

			cs.Fields[f.Name] = f
			cs.Order = append(cs.Order, f.Name)
		}

		for _, m := range c.Methods {
			for _, p := range m.Params {
				if err := checkParamType(p.Type, names); err != nil {
					return nil, err
				}
			}

			cs.Methods[m.Name] = Signature{Params: m.Params, Return: m.Return}
		}

		schema.Contracts[c.Name] = cs
	}

	for _, fn := range sa.Functions {
		for _, p := range fn.Params {
			if err := checkParamType(p.Type, names); err != nil {
				return nil, err
			}
		}

		schema.Functions[fn.Name] = Signature{Params: fn.Params, Return: fn.Return}
	}

	return schema, nil
}

// checkFieldType rejects field types naming neither a primitive nor a
// known contract (spec §4.4 "unknown contract reference").
func checkFieldType(t stableast.Type, contracts map[string]bool) error {
	switch v := t.(type) {
	case stableast.Primitive:
		if !primitiveNames[v.Value] {
			return oops.Code(ErrUnknownContract).Errorf("unknown contract reference %q", v.Value)
		}
	case stableast.Array:
		return checkFieldType(v.Value, contracts)
	case stableast.Map:
		return checkFieldType(v.Value, contracts)
	case stableast.Object:
		for _, f := range v.Fields {
			if err := checkFieldType(f.Type, contracts); err != nil {
				return err
			}
		}
	case stableast.ContractRef:
		if !contracts[v.Contract] {
			return oops.Code(ErrUnknownContract).Errorf("unknown contract reference %q", v.Contract)
		}
	case stableast.ForeignRecord:
		if !contracts[v.Collection] {
			return oops.Code(ErrUnknownContract).Errorf("unknown contract reference %q", v.Collection)
		}
	}

	return nil
}

// checkParamType additionally rejects Object types in parameter
// position (spec §3 "object types may not appear as function
// parameters").
func checkParamType(t stableast.Type, contracts map[string]bool) error {
	if _, ok := t.(stableast.Object); ok {
		return oops.Code(ErrDisallowedParamType).Errorf("object types are not allowed in parameter position")
	}

	return checkFieldType(t, contracts)
}

// typesEqual compares two resolved types structurally. stableast.Type
// values are plain comparable-by-value structs except where they nest
// slices, so a manual recursive comparison is used rather than
// reflect.DeepEqual to keep the equality rule auditable against spec
// §4.4's "same-typed operands" requirement.
func typesEqual(a, b stableast.Type) bool {
	if a == nil || b == nil {
		return a == b
	}

	if a.TypeKind() != b.TypeKind() {
		return false
	}

	switch av := a.(type) {
	case stableast.Primitive:
		return av.Value == b.(stableast.Primitive).Value
	case stableast.Array:
		return typesEqual(av.Value, b.(stableast.Array).Value)
	case stableast.Map:
		bv := b.(stableast.Map)
		return av.Key == bv.Key && typesEqual(av.Value, bv.Value)
	case stableast.Object:
		bv := b.(stableast.Object)
		if len(av.Fields) != len(bv.Fields) {
			return false
		}

		for i, f := range av.Fields {
			if f.Name != bv.Fields[i].Name || !typesEqual(f.Type, bv.Fields[i].Type) {
				return false
			}
		}

		return true
	case stableast.ForeignRecord:
		return av.Collection == b.(stableast.ForeignRecord).Collection
	case stableast.ContractRef:
		return av.Contract == b.(stableast.ContractRef).Contract
	case stableast.PublicKey:
		return true
	case stableast.Record:
		return true
	default:
		return false
	}
}

func typeString(t stableast.Type) string {
	if t == nil {
		return "<none>"
	}

	switch v := t.(type) {
	case stableast.Primitive:
		return v.Value
	case stableast.Array:
		return typeString(v.Value) + "[]"
	case stableast.Map:
		return fmt.Sprintf("map<%s,%s>", v.Key, typeString(v.Value))
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
