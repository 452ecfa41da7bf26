package ir

import (
	"github.com/samber/oops"

	"github.com/polylang/polylang/ast"
	"github.com/polylang/polylang/stableast"
	"github.com/polylang/polylang/types"
)

// Lower selects one entry point — a free function, or a contract
// method/constructor — out of an already type-checked program (the
// caller must have run types.Check first) and lowers it to a Unit.
// contractName is empty to select a free function.
func Lower(schema *types.Schema, prog *ast.Program, contractName, funcName string) (*Unit, error) {
	if contractName == "" {
		for _, n := range prog.Nodes {
			if n.Function != nil && n.Function.Name.Value == funcName {
				sig := schema.Functions[funcName]
				lw := &lowerer{schema: schema, vars: map[string]stableast.Type{}}
				for _, p := range sig.Params {
					lw.vars[p.Name] = p.Type
				}

				body, err := lw.block(n.Function.Body)
				if err != nil {
					return nil, err
				}

				return &Unit{Name: funcName, Params: toParams(sig.Params), Return: sig.Return, Body: body}, nil
			}
		}

		return nil, oops.Code("IR_UNKNOWN_FUNCTION").Errorf("no free function %q", funcName)
	}

	for _, n := range prog.Nodes {
		if n.Contract == nil || n.Contract.Name.Value != contractName {
			continue
		}

		cs := schema.Contracts[contractName]
		if cs == nil {
			return nil, oops.Code("IR_UNKNOWN_CONTRACT").Errorf("unknown contract %q", contractName)
		}

		fields := make([]stableast.Field, 0, len(cs.Order))
		for _, name := range cs.Order {
			fields = append(fields, cs.Fields[name])
		}

		for _, m := range n.Contract.Members {
			var name string
			var body *ast.Block

			switch {
			case m.Method != nil && m.Method.Name.Value == funcName:
				name, body = funcName, m.Method.Body
			case m.Constructor != nil && funcName == "constructor":
				name, body = "constructor", m.Constructor.Body
			default:
				continue
			}

			sig := cs.Methods[name]
			lw := &lowerer{schema: schema, vars: map[string]stableast.Type{}, thisFields: fields}

			for _, p := range sig.Params {
				lw.vars[p.Name] = p.Type
			}

			lowered, err := lw.block(body)
			if err != nil {
				return nil, err
			}

			return &Unit{
				Contract: contractName, Name: name, Params: toParams(sig.Params),
				Return: sig.Return, ThisFields: fields, Body: lowered,
			}, nil
		}

		return nil, oops.Code("IR_UNKNOWN_FUNCTION").Errorf("contract %q has no function %q", contractName, funcName)
	}

	return nil, oops.Code("IR_UNKNOWN_CONTRACT").Errorf("unknown contract %q", contractName)
}

func toParams(ps []stableast.Param) []Param {
	out := make([]Param, len(ps))
	for i, p := range ps {
		out[i] = Param{Name: p.Name, Type: p.Type}
	}

	return out
}

// lowerer carries the running local-variable type map a Unit's body
// needs to give numeric literals a concrete family (spec §4.5 "Layout").
// The program has already passed types.Check, so lowering never
// re-validates — it only needs enough type information to pick literal
// widths and resolve `this.<f>` field types.
type lowerer struct {
	schema     *types.Schema
	vars       map[string]stableast.Type
	thisFields []stableast.Field
}

func (lw *lowerer) fieldType(name string) stableast.Type {
	for _, f := range lw.thisFields {
		if f.Name == name {
			return f.Type
		}
	}

	return nil
}

func (lw *lowerer) block(b *ast.Block) ([]Stmt, error) {
	out := make([]Stmt, 0, len(b.Statements))

	for _, s := range b.Statements {
		lowered, err := lw.stmt(s)
		if err != nil {
			return nil, err
		}

		out = append(out, lowered...)
	}

	return out, nil
}

func (lw *lowerer) stmtOrBlock(s *ast.StmtOrBlock) ([]Stmt, error) {
	if s.Block != nil {
		return lw.block(s.Block)
	}

	return lw.stmt(s.Single)
}

// stmt returns a slice because `for` desugars into two statements
// (init; while) per spec §4.5 "for (init; cond; post) lowers to init;
// while (cond) { body; post }".
func (lw *lowerer) stmt(s *ast.Statement) ([]Stmt, error) {
	switch {
	case s.Let != nil:
		var hint stableast.Type
		if s.Let.Type != nil {
			hint = resolveTypeExpr(s.Let.Type, lw.schema)
		}

		v, err := lw.expr(&s.Let.Value, hint)
		if err != nil {
			return nil, err
		}

		t := hint
		if t == nil {
			t = literalFamily(v)
		}

		lw.vars[s.Let.Name.Value] = t

		return []Stmt{{Let: &LetStmt{Name: s.Let.Name.Value, Value: v}}}, nil
	case s.If != nil:
		cond, err := lw.expr(&s.If.Cond, stableast.Primitive{Value: "boolean"})
		if err != nil {
			return nil, err
		}

		then, err := lw.stmtOrBlock(s.If.Then)
		if err != nil {
			return nil, err
		}

		var els []Stmt
		if s.If.Else != nil {
			els, err = lw.stmtOrBlock(s.If.Else)
			if err != nil {
				return nil, err
			}
		}

		return []Stmt{{If: &IfStmt{Cond: cond, Then: then, Else: els}}}, nil
	case s.While != nil:
		cond, err := lw.expr(&s.While.Cond, stableast.Primitive{Value: "boolean"})
		if err != nil {
			return nil, err
		}

		body, err := lw.stmtOrBlock(s.While.Body)
		if err != nil {
			return nil, err
		}

		return []Stmt{{While: &WhileStmt{Cond: cond, Body: body}}}, nil
	case s.For != nil:
		var init []Stmt

		if s.For.Init != nil {
			switch {
			case s.For.Init.Let != nil:
				var hint stableast.Type
				if s.For.Init.Let.Type != nil {
					hint = resolveTypeExpr(s.For.Init.Let.Type, lw.schema)
				}

				v, err := lw.expr(&s.For.Init.Let.Value, hint)
				if err != nil {
					return nil, err
				}

				t := hint
				if t == nil {
					t = literalFamily(v)
				}

				lw.vars[s.For.Init.Let.Name.Value] = t
				init = []Stmt{{Let: &LetStmt{Name: s.For.Init.Let.Name.Value, Value: v}}}
			case s.For.Init.ExprIn != nil:
				v, err := lw.expr(s.For.Init.ExprIn, nil)
				if err != nil {
					return nil, err
				}

				init = []Stmt{{Expr: v}}
			}
		}

		var cond Expr
		if s.For.Cond != nil {
			c, err := lw.expr(s.For.Cond, stableast.Primitive{Value: "boolean"})
			if err != nil {
				return nil, err
			}

			cond = c
		} else {
			tv := true
			cond = Expr{BoolLit: &tv}
		}

		body, err := lw.stmtOrBlock(s.For.Body)
		if err != nil {
			return nil, err
		}

		if s.For.Post != nil {
			post, err := lw.expr(s.For.Post, nil)
			if err != nil {
				return nil, err
			}

			body = append(body, Stmt{Expr: post})
		}

		return append(init, Stmt{While: &WhileStmt{Cond: cond, Body: body}}), nil
	case s.Break != nil:
		return []Stmt{{Break: &BreakStmt{}}}, nil
	case s.Return != nil:
		if s.Return.Value == nil {
			return []Stmt{{Return: &ReturnStmt{}}}, nil
		}

		v, err := lw.expr(s.Return.Value, nil)
		if err != nil {
			return nil, err
		}

		return []Stmt{{Return: &ReturnStmt{Value: &v}}}, nil
	case s.Throw != nil:
		v, err := lw.expr(&s.Throw.Value, stableast.Primitive{Value: "string"})
		if err != nil {
			return nil, err
		}

		return []Stmt{{Abort: &AbortStmt{Message: v}}}, nil
	case s.Expr != nil:
		v, err := lw.expr(&s.Expr.Value, nil)
		if err != nil {
			return nil, err
		}

		if v.Builtin != nil && v.Builtin.Name == "error" && v.Builtin.Arg != nil {
			return []Stmt{{Abort: &AbortStmt{Message: *v.Builtin.Arg}}}, nil
		}

		return []Stmt{{Expr: v}}, nil
	}

	return nil, oops.Code("IR_INTERNAL").Errorf("unreachable statement form")
}

// literalFamily recovers the family a just-lowered expression resolved
// to, for un-annotated `let` bindings — best-effort: only number, string
// and boolean literals carry a usable hint, anything else (variable
// references included) defaults to the field-element-native "number"
// family.
func literalFamily(e Expr) stableast.Type {
	if e.NumberLit != nil {
		return stableast.Primitive{Value: e.NumberLit.Type}
	}

	if e.StringLit != nil {
		return stableast.Primitive{Value: "string"}
	}

	if e.BoolLit != nil {
		return stableast.Primitive{Value: "boolean"}
	}

	return stableast.Primitive{Value: "number"}
}
