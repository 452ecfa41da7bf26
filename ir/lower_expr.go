package ir

import (
	"github.com/samber/oops"

	"github.com/polylang/polylang/ast"
	"github.com/polylang/polylang/stableast"
)

// wrappingBuiltins mirrors types.wrappingBuiltins — duplicated rather
// than imported since it is unexported there; both packages recognize
// the same closed set (spec §8 scenario 2).
var wrappingBuiltins = map[string]bool{"wrappingAdd": true, "wrappingSub": true, "wrappingMul": true}

// bestType recovers the most specific type lowering already knows about
// an expression, used only to propagate a numeric family into a sibling
// literal in a binary chain (e.g. `i += 1` defaults `1` to `i`'s type).
// Returning nil is always safe — the caller just falls back to the
// parent's hint, or ultimately "number".
func (lw *lowerer) bestType(e Expr) stableast.Type {
	switch {
	case e.NumberLit != nil:
		return stableast.Primitive{Value: e.NumberLit.Type}
	case e.StringLit != nil:
		return stableast.Primitive{Value: "string"}
	case e.BoolLit != nil:
		return stableast.Primitive{Value: "boolean"}
	case e.Var != nil:
		return lw.vars[*e.Var]
	case e.Member != nil && e.Member.Base.This:
		return lw.fieldType(e.Member.Name)
	default:
		return nil
	}
}

func (lw *lowerer) expr(e *ast.Expr, expected stableast.Type) (Expr, error) {
	left, err := lw.orExpr(&e.Left, expected)
	if err != nil {
		return Expr{}, err
	}

	if e.IncDec != "" {
		target, err := lw.lvalueTarget(&e.Left)
		if err != nil {
			return Expr{}, err
		}

		// `i++`/`i--` desugar to `i += 1`/`i -= 1` (spec §8 scenario 2's
		// `for (...; i++)`); the target's own type hints the literal's
		// family the same way a written `+= 1` would.
		fam := "number"
		if prim, ok := lw.bestType(target).(stableast.Primitive); ok {
			fam = prim.Value
		}

		op := "+="
		if e.IncDec == "--" {
			op = "-="
		}

		one := Expr{NumberLit: &NumberLit{Text: "1", Type: fam}}

		return Expr{Assign: &AssignExpr{Op: op, Target: target, Value: one}}, nil
	}

	if e.Assign == nil {
		return left, nil
	}

	target, err := lw.lvalueTarget(&e.Left)
	if err != nil {
		return Expr{}, err
	}

	value, err := lw.expr(e.Assign.Right, lw.bestType(target))
	if err != nil {
		return Expr{}, err
	}

	return Expr{Assign: &AssignExpr{Op: e.Assign.Op, Target: target, Value: value}}, nil
}

func (lw *lowerer) orExpr(n *ast.OrExpr, expected stableast.Type) (Expr, error) {
	left, err := lw.andExpr(&n.Left, expected)
	if err != nil {
		return Expr{}, err
	}

	for _, t := range n.Rest {
		right, err := lw.andExpr(&t.Right, nil)
		if err != nil {
			return Expr{}, err
		}

		left = Expr{Binary: &BinaryExpr{Op: "||", Left: left, Right: right}}
	}

	return left, nil
}

func (lw *lowerer) andExpr(n *ast.AndExpr, expected stableast.Type) (Expr, error) {
	left, err := lw.eqExpr(&n.Left, expected)
	if err != nil {
		return Expr{}, err
	}

	for _, t := range n.Rest {
		right, err := lw.eqExpr(&t.Right, nil)
		if err != nil {
			return Expr{}, err
		}

		left = Expr{Binary: &BinaryExpr{Op: "&&", Left: left, Right: right}}
	}

	return left, nil
}

func (lw *lowerer) eqExpr(n *ast.EqExpr, expected stableast.Type) (Expr, error) {
	left, err := lw.relExpr(&n.Left, expected)
	if err != nil {
		return Expr{}, err
	}

	if n.Rest == nil {
		return left, nil
	}

	right, err := lw.relExpr(&n.Rest.Right, lw.bestType(left))
	if err != nil {
		return Expr{}, err
	}

	return Expr{Binary: &BinaryExpr{Op: n.Rest.Op, Left: left, Right: right}}, nil
}

func (lw *lowerer) relExpr(n *ast.RelExpr, expected stableast.Type) (Expr, error) {
	left, err := lw.bitOrExpr(&n.Left, expected)
	if err != nil {
		return Expr{}, err
	}

	if n.Rest == nil {
		return left, nil
	}

	right, err := lw.bitOrExpr(&n.Rest.Right, lw.bestType(left))
	if err != nil {
		return Expr{}, err
	}

	return Expr{Binary: &BinaryExpr{Op: n.Rest.Op, Left: left, Right: right}}, nil
}

func (lw *lowerer) bitOrExpr(n *ast.BitOrExpr, expected stableast.Type) (Expr, error) {
	left, err := lw.bitXorExpr(&n.Left, expected)
	if err != nil {
		return Expr{}, err
	}

	for _, t := range n.Rest {
		right, err := lw.bitXorExpr(&t.Right, lw.bestType(left))
		if err != nil {
			return Expr{}, err
		}

		left = Expr{Binary: &BinaryExpr{Op: "|", Left: left, Right: right}}
	}

	return left, nil
}

func (lw *lowerer) bitXorExpr(n *ast.BitXorExpr, expected stableast.Type) (Expr, error) {
	left, err := lw.bitAndExpr(&n.Left, expected)
	if err != nil {
		return Expr{}, err
	}

	for _, t := range n.Rest {
		right, err := lw.bitAndExpr(&t.Right, lw.bestType(left))
		if err != nil {
			return Expr{}, err
		}

		left = Expr{Binary: &BinaryExpr{Op: "^", Left: left, Right: right}}
	}

	return left, nil
}

func (lw *lowerer) bitAndExpr(n *ast.BitAndExpr, expected stableast.Type) (Expr, error) {
	left, err := lw.cmpExpr(&n.Left, expected)
	if err != nil {
		return Expr{}, err
	}

	for _, t := range n.Rest {
		right, err := lw.cmpExpr(&t.Right, lw.bestType(left))
		if err != nil {
			return Expr{}, err
		}

		left = Expr{Binary: &BinaryExpr{Op: "&", Left: left, Right: right}}
	}

	return left, nil
}

func (lw *lowerer) cmpExpr(n *ast.CmpExpr, expected stableast.Type) (Expr, error) {
	left, err := lw.shiftExpr(&n.Left, expected)
	if err != nil {
		return Expr{}, err
	}

	if n.Rest == nil {
		return left, nil
	}

	right, err := lw.shiftExpr(&n.Rest.Right, lw.bestType(left))
	if err != nil {
		return Expr{}, err
	}

	return Expr{Binary: &BinaryExpr{Op: n.Rest.Op, Left: left, Right: right}}, nil
}

func (lw *lowerer) shiftExpr(n *ast.ShiftExpr, expected stableast.Type) (Expr, error) {
	left, err := lw.addExpr(&n.Left, expected)
	if err != nil {
		return Expr{}, err
	}

	for _, t := range n.Rest {
		right, err := lw.addExpr(&t.Right, lw.bestType(left))
		if err != nil {
			return Expr{}, err
		}

		left = Expr{Binary: &BinaryExpr{Op: t.Op, Left: left, Right: right}}
	}

	return left, nil
}

func (lw *lowerer) addExpr(n *ast.AddExpr, expected stableast.Type) (Expr, error) {
	left, err := lw.mulExpr(&n.Left, expected)
	if err != nil {
		return Expr{}, err
	}

	for _, t := range n.Rest {
		right, err := lw.mulExpr(&t.Right, lw.bestType(left))
		if err != nil {
			return Expr{}, err
		}

		left = Expr{Binary: &BinaryExpr{Op: t.Op, Left: left, Right: right}}
	}

	return left, nil
}

func (lw *lowerer) mulExpr(n *ast.MulExpr, expected stableast.Type) (Expr, error) {
	left, err := lw.powExpr(&n.Left, expected)
	if err != nil {
		return Expr{}, err
	}

	for _, t := range n.Rest {
		right, err := lw.powExpr(&t.Right, lw.bestType(left))
		if err != nil {
			return Expr{}, err
		}

		left = Expr{Binary: &BinaryExpr{Op: t.Op, Left: left, Right: right}}
	}

	return left, nil
}

func (lw *lowerer) powExpr(n *ast.PowExpr, expected stableast.Type) (Expr, error) {
	left, err := lw.unaryExpr(&n.Left, expected)
	if err != nil {
		return Expr{}, err
	}

	if n.Right == nil {
		return left, nil
	}

	right, err := lw.powExpr(n.Right, lw.bestType(left))
	if err != nil {
		return Expr{}, err
	}

	return Expr{Binary: &BinaryExpr{Op: "**", Left: left, Right: right}}, nil
}

func (lw *lowerer) unaryExpr(n *ast.UnaryExpr, expected stableast.Type) (Expr, error) {
	operand, err := lw.postfixExpr(&n.Operand, expected)
	if err != nil {
		return Expr{}, err
	}

	if n.Op == "" {
		return operand, nil
	}

	return Expr{Unary: &UnaryExpr{Op: n.Op, Operand: operand}}, nil
}

func (lw *lowerer) postfixExpr(n *ast.PostfixExpr, expected stableast.Type) (Expr, error) {
	if n.Primary.Name != nil {
		name := n.Primary.Name.Value

		if len(n.Ops) > 0 && n.Ops[0].Call != nil {
			call, err := lw.call(name, n.Ops[0].Call)
			if err != nil {
				return Expr{}, err
			}

			return lw.continuePostfix(call, n.Ops[1:])
		}

		if name == "ctx" {
			if len(n.Ops) > 0 && n.Ops[0].Member != nil && n.Ops[0].Member.Value == "publicKey" {
				return lw.continuePostfix(Expr{CtxPubKey: true}, n.Ops[1:])
			}

			return Expr{}, oops.Code("IR_INTERNAL").Errorf("ctx has no member other than publicKey")
		}

		return lw.continuePostfix(Expr{Var: &name}, n.Ops)
	}

	base, err := lw.primary(&n.Primary, expected)
	if err != nil {
		return Expr{}, err
	}

	return lw.continuePostfix(base, n.Ops)
}

func (lw *lowerer) continuePostfix(base Expr, ops []*ast.PostfixSuffix) (Expr, error) {
	cur := base

	for i := 0; i < len(ops); i++ {
		op := ops[i]

		switch {
		case op.Member != nil:
			if wrappingBuiltins[op.Member.Value] && i+1 < len(ops) && ops[i+1].Call != nil {
				call := ops[i+1].Call
				if len(call.Values) != 1 {
					return Expr{}, oops.Code("IR_INTERNAL").Errorf("%s expects one argument", op.Member.Value)
				}

				arg, err := lw.expr(call.Values[0], lw.bestType(cur))
				if err != nil {
					return Expr{}, err
				}

				cur = Expr{Wrapping: &WrappingExpr{Op: op.Member.Value, Recv: cur, Arg: arg}}
				i++

				continue
			}

			cur = Expr{Member: &MemberExpr{Base: cur, Name: op.Member.Value}}
		case op.Index != nil:
			idx, err := lw.expr(op.Index, stableast.Primitive{Value: "u32"})
			if err != nil {
				return Expr{}, err
			}

			cur = Expr{Index: &IndexExpr{Base: cur, Index: idx}}
		case op.Call != nil:
			return Expr{}, oops.Code("IR_INTERNAL").Errorf("call target is not callable")
		}
	}

	return cur, nil
}

func (lw *lowerer) call(name string, args *ast.Args) (Expr, error) {
	switch name {
	case "log", "error":
		var arg *Expr
		if len(args.Values) == 1 {
			hint := stableast.Type(nil)
			if name == "error" {
				hint = stableast.Primitive{Value: "string"}
			}

			v, err := lw.expr(args.Values[0], hint)
			if err != nil {
				return Expr{}, err
			}

			arg = &v
		}

		return Expr{Builtin: &BuiltinExpr{Name: name, Arg: arg}}, nil
	case "selfdestruct":
		return Expr{Builtin: &BuiltinExpr{Name: name}}, nil
	}

	vals := make([]Expr, len(args.Values))

	sig := lw.schema.Functions[name]

	for i, a := range args.Values {
		var hint stableast.Type
		if i < len(sig.Params) {
			hint = sig.Params[i].Type
		}

		v, err := lw.expr(a, hint)
		if err != nil {
			return Expr{}, err
		}

		vals[i] = v
	}

	return Expr{Call: &CallExpr{Name: name, Args: vals}}, nil
}

func (lw *lowerer) primary(p *ast.Primary, expected stableast.Type) (Expr, error) {
	switch {
	case p.Number != nil:
		fam := "number"
		if prim, ok := expected.(stableast.Primitive); ok {
			fam = prim.Value
		}

		return Expr{NumberLit: &NumberLit{Text: p.Number.Value, Type: fam}}, nil
	case p.Str != nil:
		v := p.Str.Value
		return Expr{StringLit: &v}, nil
	case p.Bool != nil:
		v := p.Bool.Value
		return Expr{BoolLit: &v}, nil
	case p.This != nil:
		return Expr{This: true}, nil
	case p.Array != nil:
		var elemHint stableast.Type
		if arr, ok := expected.(stableast.Array); ok {
			elemHint = arr.Value
		}

		elems := make([]Expr, len(p.Array.Elements))

		for i, el := range p.Array.Elements {
			v, err := lw.expr(el, elemHint)
			if err != nil {
				return Expr{}, err
			}

			elems[i] = v

			if elemHint == nil {
				elemHint = lw.bestType(v)
			}
		}

		return Expr{Array: &ArrayExpr{Elements: elems}}, nil
	case p.Object != nil:
		fields := make([]ObjectField, len(p.Object.Fields))

		for i, f := range p.Object.Fields {
			v, err := lw.expr(&f.Value, nil)
			if err != nil {
				return Expr{}, err
			}

			fields[i] = ObjectField{Name: f.Name.Value, Value: v}
		}

		return Expr{Object: &ObjectExpr{Fields: fields}}, nil
	case p.Paren != nil:
		return lw.expr(p.Paren, expected)
	case p.Name != nil:
		name := p.Name.Value
		return Expr{Var: &name}, nil
	}

	return Expr{}, oops.Code("IR_INTERNAL").Errorf("empty primary expression")
}

// lvalueTarget lowers the left-hand side of an assignment. The program
// is already type-checked, so or is known to reduce to a bare postfix
// expression (types.checkLvalue already enforced this); the descent
// below walks the same precedence chain that check used, just to reach
// the underlying PostfixExpr rather than to validate it again.
func (lw *lowerer) lvalueTarget(or *ast.OrExpr) (Expr, error) {
	and := &or.Left
	eq := &and.Left
	rel := &eq.Left
	bitOr := &rel.Left
	bitXor := &bitOr.Left
	bitAnd := &bitXor.Left
	cmp := &bitAnd.Left
	shift := &cmp.Left
	add := &shift.Left
	mul := &add.Left
	pow := &mul.Left
	unary := &pow.Left

	return lw.postfixExpr(&unary.Operand, nil)
}
