// Package codegen renders a lowered ir.Unit to the target assembly text
// spec §4.5 describes: postfix stack sequences for expressions,
// structured labeled blocks for control flow, and an inline `# ABI:
// {...}` magic comment carrying the JSON descriptor (spec §4.5 "ABI
// emission").
package codegen

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/polylang/polylang/abi"
	"github.com/polylang/polylang/ir"
)

// Output is the code generator's result: the emitted assembly text
// (with the ABI comment already inlined) plus the descriptor on its own
// for callers that want it without re-parsing the comment.
type Output struct {
	Assembly string
	ABI      abi.Descriptor
}

// Generate lowers unit to assembly text. label is a monotonic counter
// used to keep if/while block labels unique within one entry point.
func Generate(unit *ir.Unit) (Output, error) {
	g := &generator{}

	g.emit("# entry %s", entryName(unit))

	for _, p := range unit.Params {
		g.emit("# param %s: %s", p.Name, abi.TypeName(p.Type))
	}

	if unit.Contract != "" {
		g.emit("push.this_addr")
		g.emit("load.this")
	}

	for _, s := range unit.Body {
		g.stmt(s)
	}

	if unit.Contract != "" {
		g.emit("store.this")
		g.emit("hash.this => h1")
	}

	g.emit("end")

	descriptor := abi.Build(unit)

	descJSON, err := json.Marshal(descriptor)
	if err != nil {
		return Output{}, err
	}

	// The `# IR: {...}` comment round-trips the lowered Unit itself, not
	// just its descriptor — the real Miden VM (an external collaborator,
	// spec §1) would never need it, only the assembly body and the ABI
	// comment, but the bundled reference engine has no bytecode
	// interpreter of its own and runs directly off the Unit tree, so
	// `miden-run` needs a way to recover one from assembly text alone.
	unitJSON, err := json.Marshal(unit)
	if err != nil {
		return Output{}, err
	}

	asmBody := strings.Join(g.lines, "\n")
	full := fmt.Sprintf("%s\n# ABI: %s\n# IR: %s\n", asmBody, string(descJSON), string(unitJSON))

	return Output{Assembly: full, ABI: descriptor}, nil
}

func entryName(unit *ir.Unit) string {
	if unit.Contract == "" {
		return unit.Name
	}

	return unit.Contract + "." + unit.Name
}

type generator struct {
	lines  []string
	labels int
}

func (g *generator) emit(format string, args ...any) {
	g.lines = append(g.lines, fmt.Sprintf(format, args...))
}

func (g *generator) label(prefix string) string {
	g.labels++
	return fmt.Sprintf("%s_%d", prefix, g.labels)
}

func (g *generator) stmt(s ir.Stmt) {
	switch {
	case s.Let != nil:
		g.expr(s.Let.Value)
		g.emit("store.local %s", s.Let.Name)
	case s.If != nil:
		elseLbl, endLbl := g.label("else"), g.label("endif")

		g.expr(s.If.Cond)
		g.emit("if.false %s", elseLbl)

		for _, b := range s.If.Then {
			g.stmt(b)
		}

		g.emit("jmp %s", endLbl)
		g.emit("%s:", elseLbl)

		for _, b := range s.If.Else {
			g.stmt(b)
		}

		g.emit("%s:", endLbl)
	case s.While != nil:
		topLbl, endLbl := g.label("loop"), g.label("endloop")

		g.emit("%s:", topLbl)
		g.expr(s.While.Cond)
		g.emit("if.false %s", endLbl)

		for _, b := range s.While.Body {
			g.stmt(b)
		}

		g.emit("jmp %s", topLbl)
		g.emit("%s:", endLbl)
	case s.Break != nil:
		g.emit("break")
	case s.Return != nil:
		if s.Return.Value != nil {
			g.expr(*s.Return.Value)
		}

		g.emit("ret")
	case s.Abort != nil:
		g.expr(s.Abort.Message)
		g.emit("abort.user")
	default:
		g.expr(s.Expr)
		g.emit("drop")
	}
}

func (g *generator) expr(e ir.Expr) {
	switch {
	case e.NumberLit != nil:
		g.emit("push.%s %s", e.NumberLit.Type, e.NumberLit.Text)
	case e.StringLit != nil:
		g.emit("push.str %q", *e.StringLit)
	case e.BoolLit != nil:
		g.emit("push.bool %t", *e.BoolLit)
	case e.Var != nil:
		g.emit("load.local %s", *e.Var)
	case e.This:
		g.emit("load.this")
	case e.CtxPubKey:
		g.emit("push.ctx.publicKey")
	case e.Array != nil:
		for _, el := range e.Array.Elements {
			g.expr(el)
		}

		g.emit("mkarray %d", len(e.Array.Elements))
	case e.Object != nil:
		for _, f := range e.Object.Fields {
			g.expr(f.Value)
			g.emit("push.field %q", f.Name)
		}

		g.emit("mkobject %d", len(e.Object.Fields))
	case e.Member != nil:
		g.expr(e.Member.Base)
		g.emit("get.field %q", e.Member.Name)
	case e.Index != nil:
		g.expr(e.Index.Base)
		g.expr(e.Index.Index)
		g.emit("get.index")
	case e.Call != nil:
		for _, a := range e.Call.Args {
			g.expr(a)
		}

		g.emit("call %s", e.Call.Name)
	case e.Builtin != nil:
		if e.Builtin.Arg != nil {
			g.expr(*e.Builtin.Arg)
		}

		g.emit("builtin.%s", e.Builtin.Name)
	case e.Wrapping != nil:
		g.expr(e.Wrapping.Recv)
		g.expr(e.Wrapping.Arg)
		g.emit("%s.wrap", wrapOp(e.Wrapping.Op))
	case e.Binary != nil:
		g.expr(e.Binary.Left)
		g.expr(e.Binary.Right)
		g.emit("op.%s", opName(e.Binary.Op))
	case e.Unary != nil:
		g.expr(e.Unary.Operand)
		g.emit("op.unary.%s", opName(e.Unary.Op))
	case e.Assign != nil:
		g.expr(e.Assign.Value)
		g.assignTarget(e.Assign)
	}
}

func (g *generator) assignTarget(a *ir.AssignExpr) {
	if a.Op != "=" {
		g.expr(a.Target)
		g.emit("op.%s", opName(strings.TrimSuffix(a.Op, "=")))
	}

	switch {
	case a.Target.Var != nil:
		g.emit("store.local %s", *a.Target.Var)
	case a.Target.Member != nil:
		g.expr(a.Target.Member.Base)
		g.emit("set.field %q", a.Target.Member.Name)
	case a.Target.Index != nil:
		g.expr(a.Target.Index.Base)
		g.expr(a.Target.Index.Index)
		g.emit("set.index")
	}
}

func wrapOp(name string) string {
	switch name {
	case "wrappingAdd":
		return "add"
	case "wrappingSub":
		return "sub"
	default:
		return "mul"
	}
}

func opName(op string) string {
	replacer := strings.NewReplacer(
		"+", "add", "-", "sub", "*", "mul", "/", "div", "%", "mod", "**", "pow",
		"==", "eq", "!=", "neq", "<", "lt", "<=", "lte", ">", "gt", ">=", "gte",
		"&&", "and", "||", "or", "&", "band", "|", "bor", "^", "bxor",
		"<<", "shl", ">>", "shr", "!", "not", "~", "bnot",
	)

	return replacer.Replace(op)
}
