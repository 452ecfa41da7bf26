// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"github.com/polylang/polylang/ast"
	"github.com/polylang/polylang/stableast"
)

var boolT = stableast.Primitive{Value: "boolean"}
var stringT = stableast.Primitive{Value: "string"}

// ctxObjectType synthesizes the type of the `ctx` built-in so
// `ctx.publicKey` resolves through the ordinary member-access codepath
// (spec §9 "ctx.publicKey read").
func ctxObjectType() stableast.Object {
	return stableast.Object{Fields: []stableast.ObjectField{{Name: "publicKey", Type: stableast.PublicKey{}}}}
}

func numberLitType(expected stableast.Type) stableast.Type {
	if expected != nil {
		if _, ok := isNumericPrimitive(expected); ok {
			return expected
		}
	}

	return stableast.Primitive{Value: "number"}
}

// infer is the entry point into the 13-level expression grammar,
// handling the optional assignment tail.
func (c *Checker) infer(e *ast.Expr, env *env, expected stableast.Type) (stableast.Type, error) {
	leftExpected := expected
	if e.Assign != nil {
		leftExpected = nil
	}

	left, err := c.inferOr(&e.Left, env, leftExpected)
	if err != nil {
		return nil, err
	}

	if e.IncDec != "" {
		if err := c.checkLvalue(&e.Left); err != nil {
			return nil, err
		}

		if _, ok := isNumericPrimitive(left); !ok {
			return nil, newErr(ErrTypeMismatch, e.Begin(), "%s requires a numeric operand, got %s", e.IncDec, typeString(left))
		}

		return left, nil
	}

	if e.Assign == nil {
		return left, nil
	}

	if err := c.checkLvalue(&e.Left); err != nil {
		return nil, err
	}

	right, err := c.infer(e.Assign.Right, env, left)
	if err != nil {
		return nil, err
	}

	switch e.Assign.Op {
	case "=":
		if !typesEqual(left, right) {
			return nil, newErr(ErrTypeMismatch, e.Assign.Right.Begin(),
				"cannot assign %s to %s", typeString(right), typeString(left))
		}
	case "+=", "-=":
		if _, ok := isNumericPrimitive(left); !ok {
			return nil, newErr(ErrTypeMismatch, e.Begin(), "%s requires a numeric operand, got %s", e.Assign.Op, typeString(left))
		}

		if !typesEqual(left, right) {
			return nil, newErr(ErrTypeMismatch, e.Assign.Right.Begin(), "%s operand type %s does not match %s",
				e.Assign.Op, typeString(right), typeString(left))
		}
	}

	return left, nil
}

func (c *Checker) inferOr(n *ast.OrExpr, e *env, expected stableast.Type) (stableast.Type, error) {
	left, err := c.inferAnd(&n.Left, e, expected)
	if err != nil {
		return nil, err
	}

	if len(n.Rest) == 0 {
		return left, nil
	}

	if !typesEqual(left, boolT) {
		return nil, newErr(ErrTypeMismatch, n.Begin(), "|| requires boolean operands, got %s", typeString(left))
	}

	for _, tail := range n.Rest {
		right, err := c.inferAnd(&tail.Right, e, boolT)
		if err != nil {
			return nil, err
		}

		if !typesEqual(right, boolT) {
			return nil, newErr(ErrTypeMismatch, n.Begin(), "|| requires boolean operands, got %s", typeString(right))
		}
	}

	return boolT, nil
}

func (c *Checker) inferAnd(n *ast.AndExpr, e *env, expected stableast.Type) (stableast.Type, error) {
	left, err := c.inferEq(&n.Left, e, expected)
	if err != nil {
		return nil, err
	}

	if len(n.Rest) == 0 {
		return left, nil
	}

	if !typesEqual(left, boolT) {
		return nil, newErr(ErrTypeMismatch, n.Begin(), "&& requires boolean operands, got %s", typeString(left))
	}

	for _, tail := range n.Rest {
		right, err := c.inferEq(&tail.Right, e, boolT)
		if err != nil {
			return nil, err
		}

		if !typesEqual(right, boolT) {
			return nil, newErr(ErrTypeMismatch, n.Begin(), "&& requires boolean operands, got %s", typeString(right))
		}
	}

	return boolT, nil
}

func (c *Checker) inferEq(n *ast.EqExpr, e *env, expected stableast.Type) (stableast.Type, error) {
	left, err := c.inferRel(&n.Left, e, expected)
	if err != nil {
		return nil, err
	}

	if n.Rest == nil {
		return left, nil
	}

	switch left.(type) {
	case stableast.Map, stableast.Object:
		return nil, newErr(ErrTypeMismatch, n.Begin(), "%s is not comparable with == or !=", typeString(left))
	}

	right, err := c.inferRel(&n.Rest.Right, e, left)
	if err != nil {
		return nil, err
	}

	if !typesEqual(left, right) {
		return nil, newErr(ErrTypeMismatch, n.Begin(), "%s cannot compare %s with %s", n.Rest.Op, typeString(left), typeString(right))
	}

	return boolT, nil
}

func (c *Checker) inferRel(n *ast.RelExpr, e *env, expected stableast.Type) (stableast.Type, error) {
	left, err := c.inferBitOr(&n.Left, e, expected)
	if err != nil {
		return nil, err
	}

	if n.Rest == nil {
		return left, nil
	}

	if _, ok := isNumericPrimitive(left); !ok {
		return nil, newErr(ErrTypeMismatch, n.Begin(), "%s requires numeric operands, got %s", n.Rest.Op, typeString(left))
	}

	right, err := c.inferBitOr(&n.Rest.Right, e, left)
	if err != nil {
		return nil, err
	}

	if !typesEqual(left, right) {
		return nil, newErr(ErrTypeMismatch, n.Begin(), "%s operands must share a type, got %s and %s",
			n.Rest.Op, typeString(left), typeString(right))
	}

	return boolT, nil
}

func (c *Checker) inferBitOr(n *ast.BitOrExpr, e *env, expected stableast.Type) (stableast.Type, error) {
	left, err := c.inferBitXor(&n.Left, e, expected)
	if err != nil {
		return nil, err
	}

	for _, tail := range n.Rest {
		if _, ok := intFamilyOf(left); !ok {
			return nil, newErr(ErrTypeMismatch, n.Begin(), "| requires an integer operand, got %s", typeString(left))
		}

		right, err := c.inferBitXor(&tail.Right, e, left)
		if err != nil {
			return nil, err
		}

		if !typesEqual(left, right) {
			return nil, newErr(ErrTypeMismatch, n.Begin(), "| operand type %s does not match %s", typeString(right), typeString(left))
		}
	}

	return left, nil
}

func (c *Checker) inferBitXor(n *ast.BitXorExpr, e *env, expected stableast.Type) (stableast.Type, error) {
	left, err := c.inferBitAnd(&n.Left, e, expected)
	if err != nil {
		return nil, err
	}

	for _, tail := range n.Rest {
		if _, ok := intFamilyOf(left); !ok {
			return nil, newErr(ErrTypeMismatch, n.Begin(), "^ requires an integer operand, got %s", typeString(left))
		}

		right, err := c.inferBitAnd(&tail.Right, e, left)
		if err != nil {
			return nil, err
		}

		if !typesEqual(left, right) {
			return nil, newErr(ErrTypeMismatch, n.Begin(), "^ operand type %s does not match %s", typeString(right), typeString(left))
		}
	}

	return left, nil
}

func (c *Checker) inferBitAnd(n *ast.BitAndExpr, e *env, expected stableast.Type) (stableast.Type, error) {
	left, err := c.inferCmp(&n.Left, e, expected)
	if err != nil {
		return nil, err
	}

	for _, tail := range n.Rest {
		if _, ok := intFamilyOf(left); !ok {
			return nil, newErr(ErrTypeMismatch, n.Begin(), "& requires an integer operand, got %s", typeString(left))
		}

		right, err := c.inferCmp(&tail.Right, e, left)
		if err != nil {
			return nil, err
		}

		if !typesEqual(left, right) {
			return nil, newErr(ErrTypeMismatch, n.Begin(), "& operand type %s does not match %s", typeString(right), typeString(left))
		}
	}

	return left, nil
}

func (c *Checker) inferCmp(n *ast.CmpExpr, e *env, expected stableast.Type) (stableast.Type, error) {
	left, err := c.inferShift(&n.Left, e, expected)
	if err != nil {
		return nil, err
	}

	if n.Rest == nil {
		return left, nil
	}

	if _, ok := isNumericPrimitive(left); !ok {
		return nil, newErr(ErrTypeMismatch, n.Begin(), "%s requires numeric operands, got %s", n.Rest.Op, typeString(left))
	}

	right, err := c.inferShift(&n.Rest.Right, e, left)
	if err != nil {
		return nil, err
	}

	if !typesEqual(left, right) {
		return nil, newErr(ErrTypeMismatch, n.Begin(), "%s operands must share a type, got %s and %s",
			n.Rest.Op, typeString(left), typeString(right))
	}

	return boolT, nil
}

func (c *Checker) inferShift(n *ast.ShiftExpr, e *env, expected stableast.Type) (stableast.Type, error) {
	left, err := c.inferAdd(&n.Left, e, expected)
	if err != nil {
		return nil, err
	}

	for _, tail := range n.Rest {
		if _, ok := intFamilyOf(left); !ok {
			return nil, newErr(ErrTypeMismatch, n.Begin(), "%s requires an integer operand, got %s", tail.Op, typeString(left))
		}

		if _, err := c.inferAdd(&tail.Right, e, left); err != nil {
			return nil, err
		}
	}

	return left, nil
}

func (c *Checker) inferAdd(n *ast.AddExpr, e *env, expected stableast.Type) (stableast.Type, error) {
	left, err := c.inferMul(&n.Left, e, expected)
	if err != nil {
		return nil, err
	}

	for _, tail := range n.Rest {
		if _, ok := isNumericPrimitive(left); !ok {
			return nil, newErr(ErrTypeMismatch, n.Begin(), "%s requires numeric operands, got %s", tail.Op, typeString(left))
		}

		right, err := c.inferMul(&tail.Right, e, left)
		if err != nil {
			return nil, err
		}

		if !typesEqual(left, right) {
			return nil, newErr(ErrTypeMismatch, n.Begin(), "%s operand type %s does not match %s", tail.Op, typeString(right), typeString(left))
		}
	}

	return left, nil
}

func (c *Checker) inferMul(n *ast.MulExpr, e *env, expected stableast.Type) (stableast.Type, error) {
	left, err := c.inferPow(&n.Left, e, expected)
	if err != nil {
		return nil, err
	}

	for _, tail := range n.Rest {
		if tail.Op == "%" {
			if _, ok := intFamilyOf(left); !ok {
				return nil, newErr(ErrTypeMismatch, n.Begin(),
					"%% is only defined for sized integer types, not %s (spec §9 open question)", typeString(left))
			}
		} else if _, ok := isNumericPrimitive(left); !ok {
			return nil, newErr(ErrTypeMismatch, n.Begin(), "%s requires numeric operands, got %s", tail.Op, typeString(left))
		}

		right, err := c.inferPow(&tail.Right, e, left)
		if err != nil {
			return nil, err
		}

		if !typesEqual(left, right) {
			return nil, newErr(ErrTypeMismatch, n.Begin(), "%s operand type %s does not match %s", tail.Op, typeString(right), typeString(left))
		}
	}

	return left, nil
}

func (c *Checker) inferPow(n *ast.PowExpr, e *env, expected stableast.Type) (stableast.Type, error) {
	left, err := c.inferUnary(&n.Left, e, expected)
	if err != nil {
		return nil, err
	}

	if n.Right == nil {
		return left, nil
	}

	if _, ok := isNumericPrimitive(left); !ok {
		return nil, newErr(ErrTypeMismatch, n.Begin(), "** requires numeric operands, got %s", typeString(left))
	}

	right, err := c.inferPow(n.Right, e, left)
	if err != nil {
		return nil, err
	}

	if !typesEqual(left, right) {
		return nil, newErr(ErrTypeMismatch, n.Begin(), "** operand type %s does not match %s", typeString(right), typeString(left))
	}

	return left, nil
}

func (c *Checker) inferUnary(n *ast.UnaryExpr, e *env, expected stableast.Type) (stableast.Type, error) {
	t, err := c.inferPostfix(&n.Operand, e, expected)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "":
		return t, nil
	case "!":
		if !typesEqual(t, boolT) {
			return nil, newErr(ErrTypeMismatch, n.Begin(), "! requires a boolean operand, got %s", typeString(t))
		}

		return boolT, nil
	case "~":
		if _, ok := intFamilyOf(t); !ok {
			return nil, newErr(ErrTypeMismatch, n.Begin(), "~ requires an integer operand, got %s", typeString(t))
		}

		return t, nil
	case "-":
		if _, ok := isNumericPrimitive(t); !ok {
			return nil, newErr(ErrTypeMismatch, n.Begin(), "unary - requires a numeric operand, got %s", typeString(t))
		}

		return t, nil
	}

	return t, nil
}

func intFamilyOf(t stableast.Type) (string, bool) {
	p, ok := t.(stableast.Primitive)
	if !ok || !intFamily[p.Value] {
		return "", false
	}

	return p.Value, true
}

// resolveTypeExpr converts a parsed type annotation (e.g. a `let`'s
// declared type) into a resolved stableast.Type using the same
// contract-name resolution the declaration pass already computed.
func resolveTypeExpr(t *ast.TypeExpr, schema *Schema) stableast.Type {
	names := make(map[string]bool, len(schema.Contracts))
	for name := range schema.Contracts {
		names[name] = true
	}

	return resolveTypeExprNames(t, names)
}

func resolveTypeExprNames(t *ast.TypeExpr, names map[string]bool) stableast.Type {
	var base stableast.Type

	switch {
	case t.Map != nil:
		base = stableast.Map{Key: t.Map.Key, Value: resolveTypeExprNames(t.Map.Value, names)}
	case t.Object != nil:
		fields := make([]stableast.ObjectField, 0, len(t.Object.Fields))
		for _, f := range t.Object.Fields {
			fields = append(fields, stableast.ObjectField{Name: f.Name.Value, Type: resolveTypeExprNames(&f.Type, names)})
		}

		base = stableast.Object{Fields: fields}
	case t.Named != nil:
		base = resolveNamedType(t.Named.Name, names)
	}

	if t.Array {
		if ref, ok := base.(stableast.ContractRef); ok {
			return stableast.Array{Value: stableast.ForeignRecord{Collection: ref.Contract}}
		}

		return stableast.Array{Value: base}
	}

	return base
}

func resolveNamedType(name string, names map[string]bool) stableast.Type {
	switch name {
	case "PublicKey":
		return stableast.PublicKey{}
	case "Record":
		return stableast.Record{}
	case "string", "boolean", "bytes", "number", "i32", "u32", "i64", "u64", "f32", "f64":
		return stableast.Primitive{Value: name}
	default:
		if names[name] {
			return stableast.ContractRef{Contract: name}
		}

		return stableast.Primitive{Value: name}
	}
}
