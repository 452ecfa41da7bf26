package vm

import (
	"context"
	"fmt"

	"github.com/samber/oops"

	"github.com/polylang/polylang/ir"
)

// ReferenceEngine tree-walks a lowered ir.Unit directly against decoded
// JSON values. It is the local stand-in for the injected vm.Engine
// (spec §1 places the real proof-generating VM out of scope): it
// produces the same `this`/`result`/`logs`/`selfDestructed`/`readAuth`
// shape a real run would, with a zero-length proof and a cycle count of
// the statements it executed, so the abi package's host driver has a
// concrete collaborator to exercise locally.
type ReferenceEngine struct{}

type ctrl int

const (
	ctrlNone ctrl = iota
	ctrlBreak
	ctrlReturn
)

type frame struct {
	this     map[string]any
	pubKey   map[string]any
	vars     map[string]any
	parent   *frame
	logs     *[]any
	selfDest *bool
	readAuth *bool
	cycles   *int
	retval   any
}

func (f *frame) child() *frame {
	return &frame{
		this: f.this, pubKey: f.pubKey, vars: map[string]any{}, parent: f,
		logs: f.logs, selfDest: f.selfDest, readAuth: f.readAuth, cycles: f.cycles,
	}
}

func (f *frame) get(name string) (any, bool) {
	for e := f; e != nil; e = e.parent {
		if v, ok := e.vars[name]; ok {
			return v, true
		}
	}

	return nil, false
}

func (f *frame) set(name string, v any) bool {
	for e := f; e != nil; e = e.parent {
		if _, ok := e.vars[name]; ok {
			e.vars[name] = v
			return true
		}
	}

	return false
}

func (f *frame) define(name string, v any) { f.vars[name] = v }

func (ReferenceEngine) Execute(_ context.Context, req Request) (*Result, error) {
	unit := req.Unit

	this := req.This
	if this == nil && unit.Contract != "" {
		this = map[string]any{}
	}

	var logs []any

	selfDestructed := false
	readAuth := false
	cycles := 0

	root := &frame{
		this: this, pubKey: req.PublicKey, vars: map[string]any{},
		logs: &logs, selfDest: &selfDestructed, readAuth: &readAuth, cycles: &cycles,
	}

	for i, p := range unit.Params {
		var a any
		if i < len(req.Args) {
			a = req.Args[i]
		}

		root.define(p.Name, a)
	}

	c, err := execBlock(unit.Body, root)
	if err != nil {
		return nil, err
	}

	var result any
	if c == ctrlReturn {
		result = root.retval
	}

	return &Result{
		This: this, Value: result, Logs: logs, SelfDestructed: selfDestructed,
		ReadAuth: readAuth, CycleCount: cycles, Proof: nil,
	}, nil
}

func execBlock(stmts []ir.Stmt, f *frame) (ctrl, error) {
	child := f.child()

	for _, s := range stmts {
		c, err := execStmt(s, child)
		if err != nil || c != ctrlNone {
			if c == ctrlReturn {
				f.retval = child.retval
			}

			return c, err
		}
	}

	return ctrlNone, nil
}

func execStmt(s ir.Stmt, f *frame) (ctrl, error) {
	*f.cycles++

	switch {
	case s.Let != nil:
		v, err := eval(s.Let.Value, f)
		if err != nil {
			return ctrlNone, err
		}

		f.define(s.Let.Name, v)

		return ctrlNone, nil
	case s.If != nil:
		cond, err := eval(s.If.Cond, f)
		if err != nil {
			return ctrlNone, err
		}

		if truthy(cond) {
			return execBlockPropagate(s.If.Then, f)
		} else if s.If.Else != nil {
			return execBlockPropagate(s.If.Else, f)
		}

		return ctrlNone, nil
	case s.While != nil:
		for {
			cond, err := eval(s.While.Cond, f)
			if err != nil {
				return ctrlNone, err
			}

			if !truthy(cond) {
				return ctrlNone, nil
			}

			c, err := execBlockPropagate(s.While.Body, f)
			if err != nil || c == ctrlReturn {
				return c, err
			}

			if c == ctrlBreak {
				return ctrlNone, nil
			}
		}
	case s.Break != nil:
		return ctrlBreak, nil
	case s.Return != nil:
		if s.Return.Value == nil {
			return ctrlReturn, nil
		}

		v, err := eval(*s.Return.Value, f)
		if err != nil {
			return ctrlNone, err
		}

		f.retval = v

		return ctrlReturn, nil
	case s.Abort != nil:
		msg, err := eval(s.Abort.Message, f)
		if err != nil {
			return ctrlNone, err
		}

		str, _ := msg.(string)

		return ctrlNone, UserError(str)
	default:
		if _, err := evalWithEffects(s.Expr, f); err != nil {
			return ctrlNone, err
		}

		return ctrlNone, nil
	}
}

// execBlockPropagate runs a nested block (an if/while body) in its own
// child scope but surfaces the return value through the parent frame
// the way execBlock's caller expects.
func execBlockPropagate(stmts []ir.Stmt, f *frame) (ctrl, error) {
	c, err := execBlock(stmts, f)
	return c, err
}

func truthy(v any) bool {
	b, _ := v.(bool)
	return b
}

// evalWithEffects evaluates an expression statement, where the only
// interesting shapes are an assignment or a builtin call fired purely
// for its side effect (log/selfdestruct/error).
func evalWithEffects(e ir.Expr, f *frame) (any, error) {
	return eval(e, f)
}

func eval(e ir.Expr, f *frame) (any, error) {
	switch {
	case e.NumberLit != nil:
		return parseNumber(e.NumberLit.Text), nil
	case e.StringLit != nil:
		return *e.StringLit, nil
	case e.BoolLit != nil:
		return *e.BoolLit, nil
	case e.Var != nil:
		v, ok := f.get(*e.Var)
		if !ok {
			return nil, oops.Code(ErrTrap).Errorf("unbound variable %q", *e.Var)
		}

		return v, nil
	case e.This:
		return f.this, nil
	case e.CtxPubKey:
		*f.readAuth = true

		return f.pubKey, nil
	case e.Array != nil:
		out := make([]any, len(e.Array.Elements))

		for i, el := range e.Array.Elements {
			v, err := eval(el, f)
			if err != nil {
				return nil, err
			}

			out[i] = v
		}

		return out, nil
	case e.Object != nil:
		out := map[string]any{}

		for _, fl := range e.Object.Fields {
			v, err := eval(fl.Value, f)
			if err != nil {
				return nil, err
			}

			out[fl.Name] = v
		}

		return out, nil
	case e.Member != nil:
		base, err := eval(e.Member.Base, f)
		if err != nil {
			return nil, err
		}

		m, _ := base.(map[string]any)

		return m[e.Member.Name], nil
	case e.Index != nil:
		base, err := eval(e.Index.Base, f)
		if err != nil {
			return nil, err
		}

		idx, err := eval(e.Index.Index, f)
		if err != nil {
			return nil, err
		}

		arr, _ := base.([]any)
		i := int(toFloat(idx))

		if i < 0 || i >= len(arr) {
			return nil, Trap(fmt.Sprintf("array index %d out of range (len %d)", i, len(arr)))
		}

		return arr[i], nil
	case e.Call != nil:
		return nil, oops.Code(ErrTrap).Errorf("free function call %q requires a separate compiled unit", e.Call.Name)
	case e.Builtin != nil:
		return evalBuiltin(e.Builtin, f)
	case e.Wrapping != nil:
		return evalWrapping(e.Wrapping, f)
	case e.Binary != nil:
		return evalBinary(e.Binary, f)
	case e.Unary != nil:
		return evalUnary(e.Unary, f)
	case e.Assign != nil:
		return evalAssign(e.Assign, f)
	}

	return nil, oops.Code(ErrTrap).Errorf("empty IR expression")
}

func evalBuiltin(b *ir.BuiltinExpr, f *frame) (any, error) {
	switch b.Name {
	case "log":
		var v any

		if b.Arg != nil {
			val, err := eval(*b.Arg, f)
			if err != nil {
				return nil, err
			}

			v = val
		}

		*f.logs = append(*f.logs, v)

		return nil, nil
	case "error":
		msg := ""

		if b.Arg != nil {
			val, err := eval(*b.Arg, f)
			if err != nil {
				return nil, err
			}

			msg, _ = val.(string)
		}

		return nil, UserError(msg)
	case "selfdestruct":
		*f.selfDest = true

		return nil, nil
	}

	return nil, oops.Code(ErrTrap).Errorf("unknown builtin %q", b.Name)
}

func evalWrapping(w *ir.WrappingExpr, f *frame) (any, error) {
	recv, err := eval(w.Recv, f)
	if err != nil {
		return nil, err
	}

	arg, err := eval(w.Arg, f)
	if err != nil {
		return nil, err
	}

	a, b := uint32(toFloat(recv)), uint32(toFloat(arg))

	switch w.Op {
	case "wrappingAdd":
		return float64(a + b), nil
	case "wrappingSub":
		return float64(a - b), nil
	case "wrappingMul":
		return float64(a * b), nil
	}

	return nil, oops.Code(ErrTrap).Errorf("unknown wrapping op %q", w.Op)
}

func evalBinary(b *ir.BinaryExpr, f *frame) (any, error) {
	l, err := eval(b.Left, f)
	if err != nil {
		return nil, err
	}

	r, err := eval(b.Right, f)
	if err != nil {
		return nil, err
	}

	switch b.Op {
	case "||":
		return truthy(l) || truthy(r), nil
	case "&&":
		return truthy(l) && truthy(r), nil
	case "==":
		return equalValue(l, r), nil
	case "!=":
		return !equalValue(l, r), nil
	case "<", "<=", ">", ">=":
		lf, rf := toFloat(l), toFloat(r)

		switch b.Op {
		case "<":
			return lf < rf, nil
		case "<=":
			return lf <= rf, nil
		case ">":
			return lf > rf, nil
		default:
			return lf >= rf, nil
		}
	case "|", "^", "&", "<<", ">>":
		lf, rf := int64(toFloat(l)), int64(toFloat(r))

		switch b.Op {
		case "|":
			return float64(lf | rf), nil
		case "^":
			return float64(lf ^ rf), nil
		case "&":
			return float64(lf & rf), nil
		case "<<":
			return float64(lf << uint(rf)), nil
		default:
			return float64(lf >> uint(rf)), nil
		}
	case "+":
		if ls, ok := l.(string); ok {
			rs, _ := r.(string)
			return ls + rs, nil
		}

		return toFloat(l) + toFloat(r), nil
	case "-":
		return toFloat(l) - toFloat(r), nil
	case "*":
		return toFloat(l) * toFloat(r), nil
	case "/":
		rf := toFloat(r)
		if rf == 0 {
			return nil, Trap("division by zero")
		}

		return toFloat(l) / rf, nil
	case "%":
		rf := int64(toFloat(r))
		if rf == 0 {
			return nil, Trap("division by zero")
		}

		return float64(int64(toFloat(l)) % rf), nil
	case "**":
		acc := 1.0
		for i := 0; i < int(toFloat(r)); i++ {
			acc *= toFloat(l)
		}

		return acc, nil
	}

	return nil, oops.Code(ErrTrap).Errorf("unknown binary op %q", b.Op)
}

func evalUnary(u *ir.UnaryExpr, f *frame) (any, error) {
	v, err := eval(u.Operand, f)
	if err != nil {
		return nil, err
	}

	switch u.Op {
	case "!":
		return !truthy(v), nil
	case "-":
		return -toFloat(v), nil
	case "~":
		return float64(^int64(toFloat(v))), nil
	}

	return v, nil
}

func evalAssign(a *ir.AssignExpr, f *frame) (any, error) {
	v, err := eval(a.Value, f)
	if err != nil {
		return nil, err
	}

	if a.Op != "=" {
		cur, err := eval(a.Target, f)
		if err != nil {
			return nil, err
		}

		switch a.Op {
		case "+=":
			if cs, ok := cur.(string); ok {
				vs, _ := v.(string)
				v = cs + vs
			} else {
				v = toFloat(cur) + toFloat(v)
			}
		case "-=":
			v = toFloat(cur) - toFloat(v)
		}
	}

	if err := store(a.Target, v, f); err != nil {
		return nil, err
	}

	return v, nil
}

func store(target ir.Expr, v any, f *frame) error {
	switch {
	case target.Var != nil:
		if !f.set(*target.Var, v) {
			f.define(*target.Var, v)
		}

		return nil
	case target.Member != nil:
		base, err := eval(target.Member.Base, f)
		if err != nil {
			return err
		}

		m, ok := base.(map[string]any)
		if !ok {
			return Trap("assignment target is not a record")
		}

		m[target.Member.Name] = v

		return nil
	case target.Index != nil:
		base, err := eval(target.Index.Base, f)
		if err != nil {
			return err
		}

		idx, err := eval(target.Index.Index, f)
		if err != nil {
			return err
		}

		arr, ok := base.([]any)
		i := int(toFloat(idx))

		if !ok || i < 0 || i >= len(arr) {
			return Trap("assignment index out of range")
		}

		arr[i] = v

		return nil
	}

	return Trap("assignment target is not an lvalue")
}

func equalValue(a, b any) bool {
	switch av := a.(type) {
	case float64, int64, uint64:
		return toFloat(av) == toFloat(b)
	case string:
		bs, _ := b.(string)
		return av == bs
	case bool:
		bb, _ := b.(bool)
		return av == bb
	default:
		return false
	}
}

// toFloat widens any of the numeric shapes a value can carry — float64
// for "number"/"f32"/"f64"/"i32"/"u32", or the exact int64/uint64 the ABI
// decodes i64/u64 through (abi.decodeSizedInt) — into a float64 for this
// tree-walking interpreter's arithmetic. This engine is explicitly a
// test/reference collaborator, not a Miden-compatible trace generator
// (see Engine's doc comment), so its internal arithmetic stays float64;
// only the ABI decode/encode boundary is required to be exact for values
// a method passes through unmodified.
func toFloat(v any) float64 {
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

func parseNumber(s string) float64 {
	var f float64

	_, _ = fmt.Sscanf(s, "%g", &f)

	return f
}
