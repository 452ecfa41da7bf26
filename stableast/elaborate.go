// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package stableast

import (
	"github.com/polylang/polylang/ast"
)

// contractNames is consulted so a bare identifier type can be told apart
// from a built-in type keyword: anything not in the closed type-keyword
// set and found in this set becomes a ContractRef/ForeignRecord,
// otherwise it is left as a Primitive/Record for the type system to
// reject later if it is neither (spec §4.4 "unknown contract reference").
type contractNames map[string]bool

// Elaborate walks a concrete ast.Program and produces its Stable AST,
// the externally-consumable wire form described in spec §4.3. This pass
// requires no type information — it runs in parallel with the type
// system per spec §2's dependency order.
func Elaborate(prog *ast.Program) Program {
	names := contractNames{}

	for _, n := range prog.Nodes {
		if n.Contract != nil {
			names[n.Contract.Name.Value] = true
		}
	}

	out := Program{}

	for _, n := range prog.Nodes {
		switch {
		case n.Contract != nil:
			out.Contracts = append(out.Contracts, elaborateContract(n.Contract, names))
			out.Order = append(out.Order, NodeContract)
		case n.Function != nil:
			out.Functions = append(out.Functions, elaborateFunction(n.Function, names))
			out.Order = append(out.Order, NodeFunction)
		}
	}

	return out
}

func elaborateContract(c *ast.Contract, names contractNames) Contract {
	out := Contract{
		Name:       c.Name.Value,
		Directives: elaborateDirectives(c.Directives),
	}

	// Every contract implicitly owns an `id: string` primary key (spec §3).
	// A source-declared `id` field stands in for it rather than adding a
	// second one.
	declaresID := false
	for _, m := range c.Members {
		if m.Field != nil && m.Field.Name.Value == "id" {
			declaresID = true
		}
	}

	if !declaresID {
		out.Fields = append(out.Fields, Field{Name: "id", Type: Primitive{Value: "string"}, Required: true})
	}

	for _, m := range c.Members {
		switch {
		case m.Field != nil:
			out.Fields = append(out.Fields, elaborateField(m.Field, names))
		case m.Method != nil:
			out.Methods = append(out.Methods, elaborateMethod(m.Method, names))
		case m.Constructor != nil:
			out.Methods = append(out.Methods, Method{
				Name:   "constructor",
				Params: elaborateParams(m.Constructor.Params, names),
				Code:   m.Constructor.Source,
			})
		case m.Index != nil:
			fields := make([]string, 0, len(m.Index.Fields))
			for _, f := range m.Index.Fields {
				fields = append(fields, f.Value)
			}

			out.Indexes = append(out.Indexes, Index{Fields: fields, Direction: m.Index.Direction})
		}
	}

	return out
}

func elaborateFunction(f *ast.Function, names contractNames) Function {
	out := Function{
		Name:       f.Name.Value,
		Params:     elaborateParams(f.Params, names),
		Directives: elaborateDirectives(f.Directives),
		Code:       f.Source,
	}

	if f.Return != nil {
		out.Return = elaborateType(f.Return, names)
	}

	return out
}

func elaborateMethod(m *ast.Method, names contractNames) Method {
	out := Method{
		Name:       m.Name.Value,
		Params:     elaborateParams(m.Params, names),
		Directives: elaborateDirectives(m.Directives),
		Code:       m.Source,
	}

	if m.Return != nil {
		out.Return = elaborateType(m.Return, names)
	}

	return out
}

func elaborateParams(params []*ast.Param, names contractNames) []Param {
	out := make([]Param, 0, len(params))

	for _, p := range params {
		out = append(out, Param{
			Name:     p.Name.Value,
			Type:     elaborateType(&p.Type, names),
			Required: p.Required(),
		})
	}

	return out
}

func elaborateField(f *ast.Field, names contractNames) Field {
	return Field{
		Name:       f.Name.Value,
		Type:       elaborateType(&f.Type, names),
		Required:   f.Required(),
		Directives: elaborateDirectives(f.Directives),
	}
}

func elaborateDirectives(in []*ast.Directive) []Directive {
	if len(in) == 0 {
		return nil
	}

	out := make([]Directive, 0, len(in))

	for _, d := range in {
		args := make([]string, 0, len(d.Args))
		for _, a := range d.Args {
			args = append(args, a.Value)
		}

		out = append(out, Directive{Name: d.Name.Value, Args: args})
	}

	return out
}

func elaborateType(t *ast.TypeExpr, names contractNames) Type {
	var base Type

	switch {
	case t.Map != nil:
		base = Map{Key: t.Map.Key, Value: elaborateType(t.Map.Value, names)}
	case t.Object != nil:
		fields := make([]ObjectField, 0, len(t.Object.Fields))
		for _, f := range t.Object.Fields {
			fields = append(fields, ObjectField{Name: f.Name.Value, Type: elaborateType(&f.Type, names)})
		}

		base = Object{Fields: fields}
	case t.Named != nil:
		base = elaborateNamedType(t.Named.Name, names)
	}

	if t.Array {
		if ref, ok := base.(ContractRef); ok {
			return Array{Value: ForeignRecord{Collection: ref.Contract}}
		}

		return Array{Value: base}
	}

	return base
}

func elaborateNamedType(name string, names contractNames) Type {
	switch name {
	case "PublicKey":
		return PublicKey{}
	case "Record":
		return Record{}
	case "string", "boolean", "bytes", "number", "i32", "u32", "i64", "u64", "f32", "f64":
		return Primitive{Value: name}
	default:
		if names[name] {
			return ContractRef{Contract: name}
		}
		// Unknown identifier used as a type: left as a Primitive carrying
		// the raw name so the type system can raise a precise "unknown
		// contract reference" error (spec §4.4) rather than failing
		// silently at the Stable-AST layer, which has no symbol table.
		return Primitive{Value: name}
	}
}
