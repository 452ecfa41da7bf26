// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"github.com/samber/oops"

	"github.com/polylang/polylang/ast"
	"github.com/polylang/polylang/stableast"
)

func (c *Checker) inferPostfix(p *ast.PostfixExpr, e *env, expected stableast.Type) (stableast.Type, error) {
	if p.Primary.Name != nil {
		name := p.Primary.Name.Value

		if len(p.Ops) > 0 && p.Ops[0].Call != nil {
			ret, err := c.inferCall(name, p.Ops[0].Call, e)
			if err != nil {
				return nil, err
			}

			return c.continuePostfix(ret, p.Ops[1:], e, false)
		}

		if name == "ctx" {
			obj := ctxObjectType()
			return c.continuePostfix(obj, p.Ops, e, true)
		}

		t, ok := e.lookup(name)
		if !ok {
			return nil, newErr(ErrUnknownIdentifier, p.Primary.Begin(), "unknown identifier %q", name)
		}

		return c.continuePostfix(t, p.Ops, e, false)
	}

	base, err := c.inferPrimary(p.Primary, e, expected)
	if err != nil {
		return nil, err
	}

	return c.continuePostfix(base, p.Ops, e, false)
}

// continuePostfix applies each `.field`, `[index]`, `(args)` suffix in
// turn to a resolved base type. isCtx marks that base is the synthetic
// `ctx` object, so the very first `.publicKey` access sets ReadAuth.
func (c *Checker) continuePostfix(base stableast.Type, ops []*ast.PostfixSuffix, e *env, isCtx bool) (stableast.Type, error) {
	cur := base

	for i := 0; i < len(ops); i++ {
		op := ops[i]

		switch {
		case op.Member != nil:
			// value.wrappingAdd(other) / wrappingSub / wrappingMul: an
			// integer built-in method, recognized only when immediately
			// followed by a call (spec §8 scenario 2).
			if wrappingBuiltins[op.Member.Value] && i+1 < len(ops) && ops[i+1].Call != nil {
				fam, ok := intFamilyOf(cur)
				if !ok {
					return nil, newErr(ErrTypeMismatch, op.Member.Begin(),
						"%s is only defined on sized integers, not %s", op.Member.Value, typeString(cur))
				}

				call := ops[i+1].Call
				if len(call.Values) != 1 {
					return nil, newErr(ErrWrongArity, op.Member.Begin(), "%s expects exactly one argument", op.Member.Value)
				}

				argT, err := c.infer(call.Values[0], e, cur)
				if err != nil {
					return nil, err
				}

				if argP, ok := argT.(stableast.Primitive); !ok || argP.Value != fam {
					return nil, newErr(ErrTypeMismatch, op.Member.Begin(), "%s argument must be %s, got %s",
						op.Member.Value, fam, typeString(argT))
				}

				i++ // consume the Call suffix too

				continue
			}

			if isCtx && i == 0 && op.Member.Value == "publicKey" {
				c.ReadAuth = true
			}

			next, err := resolveMember(cur, op.Member.Value)
			if err != nil {
				return nil, newErr(ErrUnknownIdentifier, op.Member.Begin(), "%s", err.Error())
			}

			cur = next
		case op.Index != nil:
			elem, err := elementType(cur)
			if err != nil {
				return nil, newErr(ErrTypeMismatch, op.Begin(), "%s", err.Error())
			}

			idxT, err := c.infer(op.Index, e, stableast.Primitive{Value: "u32"})
			if err != nil {
				return nil, err
			}

			if p, ok := idxT.(stableast.Primitive); !ok || p.Value != "u32" {
				return nil, newErr(ErrTypeMismatch, op.Begin(), "array index must be u32, got %s", typeString(idxT))
			}

			cur = elem
		case op.Call != nil:
			return nil, newErr(ErrTypeMismatch, op.Begin(), "%s is not callable", typeString(cur))
		}
	}

	return cur, nil
}

// resolveMember looks up a field name on an Object-shaped type, or
// resolves `.id` on a ContractRef/ForeignRecord — the only field access
// the language permits through a cross-contract reference (spec §4.5
// "only field access through a contract reference by id is legal").
func resolveMember(t stableast.Type, name string) (stableast.Type, error) {
	switch v := t.(type) {
	case stableast.Object:
		for _, f := range v.Fields {
			if f.Name == name {
				return f.Type, nil
			}
		}

		return nil, oops.Errorf("unknown field %q", name)
	case stableast.ContractRef:
		if name != "id" {
			return nil, oops.Errorf("only .id is accessible through a contract reference, got %q", name)
		}

		return stringT, nil
	default:
		return nil, oops.Errorf("type %s has no field %q", typeString(t), name)
	}
}

func elementType(t stableast.Type) (stableast.Type, error) {
	switch v := t.(type) {
	case stableast.Array:
		return v.Value, nil
	case stableast.ForeignRecord:
		return stableast.ContractRef{Contract: v.Collection}, nil
	default:
		return nil, oops.Errorf("%s is not indexable", typeString(t))
	}
}

func (c *Checker) inferCall(name string, args *ast.Args, e *env) (stableast.Type, error) {
	switch name {
	case "error", "log":
		if len(args.Values) != 1 {
			return nil, oops.Code(ErrWrongArity).Errorf("%s expects exactly one argument", name)
		}

		if name == "error" {
			t, err := c.infer(args.Values[0], e, stringT)
			if err != nil {
				return nil, err
			}

			if !typesEqual(t, stringT) {
				return nil, oops.Code(ErrTypeMismatch).Errorf("error() message must be a string, got %s", typeString(t))
			}
		} else if _, err := c.infer(args.Values[0], e, nil); err != nil {
			return nil, err
		}

		return nil, nil
	case "selfdestruct":
		if len(args.Values) != 0 {
			return nil, oops.Code(ErrWrongArity).Errorf("selfdestruct expects no arguments")
		}

		return nil, nil
	}

	sig, ok := c.schema.Functions[name]
	if !ok {
		return nil, oops.Code(ErrUnknownIdentifier).Errorf("unknown function %q", name)
	}

	if len(args.Values) != len(sig.Params) {
		return nil, oops.Code(ErrWrongArity).Errorf("%s expects %d argument(s), got %d", name, len(sig.Params), len(args.Values))
	}

	for i, arg := range args.Values {
		t, err := c.infer(arg, e, sig.Params[i].Type)
		if err != nil {
			return nil, err
		}

		if !typesEqual(t, sig.Params[i].Type) {
			return nil, oops.Code(ErrTypeMismatch).Errorf("%s argument %d: expected %s, got %s",
				name, i+1, typeString(sig.Params[i].Type), typeString(t))
		}
	}

	return sig.Return, nil
}

func (c *Checker) inferPrimary(p *ast.Primary, e *env, expected stableast.Type) (stableast.Type, error) {
	switch {
	case p.Number != nil:
		return numberLitType(expected), nil
	case p.Str != nil:
		return stringT, nil
	case p.Bool != nil:
		return boolT, nil
	case p.This != nil:
		if e.thisObj == nil {
			return nil, newErr(ErrUnknownIdentifier, p.Begin(), "this is not valid outside of a contract method")
		}

		return *e.thisObj, nil
	case p.Array != nil:
		return c.inferArrayLit(p.Array, e, expected)
	case p.Object != nil:
		return c.inferObjectLit(p.Object, e)
	case p.Paren != nil:
		return c.infer(p.Paren, e, expected)
	case p.Name != nil:
		t, ok := e.lookup(p.Name.Value)
		if !ok {
			return nil, newErr(ErrUnknownIdentifier, p.Begin(), "unknown identifier %q", p.Name.Value)
		}

		return t, nil
	}

	return nil, oops.Code("TYPE_INTERNAL").Errorf("empty primary expression")
}

func (c *Checker) inferArrayLit(a *ast.ArrayLit, e *env, expected stableast.Type) (stableast.Type, error) {
	var elemExpected stableast.Type
	if arr, ok := expected.(stableast.Array); ok {
		elemExpected = arr.Value
	}

	if len(a.Elements) == 0 {
		if elemExpected != nil {
			return stableast.Array{Value: elemExpected}, nil
		}

		return stableast.Array{Value: stableast.Primitive{Value: "number"}}, nil
	}

	first, err := c.infer(a.Elements[0], e, elemExpected)
	if err != nil {
		return nil, err
	}

	for _, el := range a.Elements[1:] {
		t, err := c.infer(el, e, first)
		if err != nil {
			return nil, err
		}

		if !typesEqual(first, t) {
			return nil, newErr(ErrNonHomogeneousArray, el.Begin(), "array elements must share a type: %s vs %s",
				typeString(first), typeString(t))
		}
	}

	return stableast.Array{Value: first}, nil
}

func (c *Checker) inferObjectLit(o *ast.ObjectLit, e *env) (stableast.Type, error) {
	fields := make([]stableast.ObjectField, 0, len(o.Fields))

	for _, f := range o.Fields {
		t, err := c.infer(&f.Value, e, nil)
		if err != nil {
			return nil, err
		}

		fields = append(fields, stableast.ObjectField{Name: f.Name.Value, Type: t})
	}

	return stableast.Object{Fields: fields}, nil
}

// checkLvalue rejects any assignment target that is not a bare local
// variable, a `this.field`/`value.field` member path, or an array
// index expression (spec §4.4 "assignment to non-lvalue"). or is the
// left-hand side of the assignment (Expr.Left, the operand the
// assignment tail hangs off of).
func (c *Checker) checkLvalue(or *ast.OrExpr) error {
	p := asBarePostfix(or)
	if p == nil {
		return newErr(ErrAssignNonLvalue, or.Begin(), "left-hand side is not assignable")
	}

	if len(p.Ops) == 0 {
		if p.Primary.Name != nil {
			return nil
		}

		return newErr(ErrAssignNonLvalue, or.Begin(), "left-hand side is not assignable")
	}

	last := p.Ops[len(p.Ops)-1]
	if last.Member != nil || last.Index != nil {
		return nil
	}

	return newErr(ErrAssignNonLvalue, or.Begin(), "left-hand side is not assignable")
}

// asBarePostfix returns the PostfixExpr or reduces to when no operator
// at any tier below it is engaged (no boolean/bitwise/arithmetic
// operator, no unary prefix) — i.e. or is syntactically just a postfix
// expression, which is the only shape that can be an lvalue.
func asBarePostfix(or *ast.OrExpr) *ast.PostfixExpr {
	if len(or.Rest) != 0 {
		return nil
	}

	and := &or.Left
	if len(and.Rest) != 0 {
		return nil
	}

	eq := &and.Left
	if eq.Rest != nil {
		return nil
	}

	rel := &eq.Left
	if rel.Rest != nil {
		return nil
	}

	bitOr := &rel.Left
	if len(bitOr.Rest) != 0 {
		return nil
	}

	bitXor := &bitOr.Left
	if len(bitXor.Rest) != 0 {
		return nil
	}

	bitAnd := &bitXor.Left
	if len(bitAnd.Rest) != 0 {
		return nil
	}

	cmp := &bitAnd.Left
	if cmp.Rest != nil {
		return nil
	}

	shift := &cmp.Left
	if len(shift.Rest) != 0 {
		return nil
	}

	add := &shift.Left
	if len(add.Rest) != 0 {
		return nil
	}

	mul := &add.Left
	if len(mul.Rest) != 0 {
		return nil
	}

	pow := &mul.Left
	if pow.Right != nil {
		return nil
	}

	unary := &pow.Left
	if unary.Op != "" {
		return nil
	}

	return &unary.Operand
}
