package types

import (
	"github.com/samber/oops"

	"github.com/polylang/polylang/ast"
	"github.com/polylang/polylang/stableast"
)

// wrappingBuiltins are the integer-family "value.wrappingX(other)"
// built-in methods spec §8 scenario 2 exercises (`a.wrappingAdd(b)`).
// They are recognized at member-call resolution rather than modeled as
// ordinary declared functions, matching spec §9's "closed tagged-variant
// set" treatment of built-ins.
var wrappingBuiltins = map[string]bool{"wrappingAdd": true, "wrappingSub": true, "wrappingMul": true}

// Checker runs the body pass (spec §4.4 step 2) of type elaboration.
type Checker struct {
	schema *Schema
	// ReadAuth is set once a checked program reads `ctx.publicKey`
	// anywhere, mirroring the ABI-level readAuth flag this information
	// feeds (spec §4.6, Open Question resolved in SPEC_FULL.md §C.4).
	ReadAuth bool
}

// Check runs the full two-pass elaboration over a parsed program:
// Declare builds the schema, then every function and method body is
// type-checked against it.
func Check(prog *ast.Program) (*Checker, error) {
	schema, err := Declare(prog)
	if err != nil {
		return nil, err
	}

	c := &Checker{schema: schema}

	for _, n := range prog.Nodes {
		switch {
		case n.Contract != nil:
			if err := c.checkContract(n.Contract); err != nil {
				return nil, err
			}
		case n.Function != nil:
			sig := schema.Functions[n.Function.Name.Value]
			if err := c.checkFunctionBody(sig.Params, n.Function.Body, sig.Return, nil); err != nil {
				return nil, err
			}
		}
	}

	return c, nil
}

func (c *Checker) checkContract(ct *ast.Contract) error {
	cs := c.schema.Contracts[ct.Name.Value]

	obj := contractAsObject(cs)
	thisType := &obj

	for _, m := range ct.Members {
		switch {
		case m.Method != nil:
			sig := cs.Methods[m.Method.Name.Value]
			if err := c.checkFunctionBody(sig.Params, m.Method.Body, sig.Return, thisType); err != nil {
				return err
			}
		case m.Constructor != nil:
			sig := cs.Methods["constructor"]
			if err := c.checkFunctionBody(sig.Params, m.Constructor.Body, sig.Return, thisType); err != nil {
				return err
			}
		}
	}

	return nil
}

// contractAsObject synthesizes an Object type from a contract's fields
// so `this` can be member-resolved through the same codepath as any
// other structural value.
func contractAsObject(cs *ContractSchema) stableast.Object {
	fields := make([]stableast.ObjectField, 0, len(cs.Order))
	for _, name := range cs.Order {
		fields = append(fields, stableast.ObjectField{Name: name, Type: cs.Fields[name].Type})
	}

	return stableast.Object{Fields: fields}
}

func (c *Checker) checkFunctionBody(params []stableast.Param, body *ast.Block, ret stableast.Type, this *stableast.Object) error {
	e := newEnvWithThis(this)

	for _, p := range params {
		e.define(p.Name, p.Type)
	}

	ctx := &fnCtx{ret: ret}

	return c.checkBlock(body, e, ctx)
}

func newEnvWithThis(this *stableast.Object) *env {
	e := &env{vars: map[string]stableast.Type{}}
	if this != nil {
		e.thisObj = this
	}

	return e
}

// fnCtx tracks state that must thread through a whole function body:
// the declared return type and the current loop nesting (for `break`).
type fnCtx struct {
	ret       stableast.Type
	loopDepth int
}

func (c *Checker) checkBlock(b *ast.Block, e *env, fc *fnCtx) error {
	child := e.child()

	for _, s := range b.Statements {
		if err := c.checkStmt(s, child, fc); err != nil {
			return err
		}
	}

	return nil
}

func (c *Checker) checkStmtOrBlock(s *ast.StmtOrBlock, e *env, fc *fnCtx) error {
	if s.Block != nil {
		return c.checkBlock(s.Block, e, fc)
	}

	return c.checkStmt(s.Single, e.child(), fc)
}

func (c *Checker) checkStmt(s *ast.Statement, e *env, fc *fnCtx) error {
	switch {
	case s.Let != nil:
		var expected stableast.Type
		if s.Let.Type != nil {
			expected = resolveTypeExpr(s.Let.Type, c.schema)
		}

		t, err := c.infer(&s.Let.Value, e, expected)
		if err != nil {
			return err
		}

		if expected != nil && !typesEqual(expected, t) {
			return newErr(ErrTypeMismatch, s.Let.Value.Begin(), "cannot assign %s to let %q of declared type %s",
				typeString(t), s.Let.Name.Value, typeString(expected))
		}

		if expected != nil {
			t = expected
		}

		e.define(s.Let.Name.Value, t)

		return nil
	case s.If != nil:
		cond, err := c.infer(&s.If.Cond, e, stableast.Primitive{Value: "boolean"})
		if err != nil {
			return err
		}

		if !typesEqual(cond, stableast.Primitive{Value: "boolean"}) {
			return newErr(ErrTypeMismatch, s.If.Cond.Begin(), "if condition must be boolean, got %s", typeString(cond))
		}

		if err := c.checkStmtOrBlock(s.If.Then, e, fc); err != nil {
			return err
		}

		if s.If.Else != nil {
			return c.checkStmtOrBlock(s.If.Else, e, fc)
		}

		return nil
	case s.While != nil:
		cond, err := c.infer(&s.While.Cond, e, stableast.Primitive{Value: "boolean"})
		if err != nil {
			return err
		}

		if !typesEqual(cond, stableast.Primitive{Value: "boolean"}) {
			return newErr(ErrTypeMismatch, s.While.Cond.Begin(), "while condition must be boolean, got %s", typeString(cond))
		}

		fc.loopDepth++
		defer func() { fc.loopDepth-- }()

		return c.checkStmtOrBlock(s.While.Body, e, fc)
	case s.For != nil:
		child := e.child()

		if s.For.Init != nil {
			if s.For.Init.Let != nil {
				var expected stableast.Type
				if s.For.Init.Let.Type != nil {
					expected = resolveTypeExpr(s.For.Init.Let.Type, c.schema)
				}

				t, err := c.infer(&s.For.Init.Let.Value, child, expected)
				if err != nil {
					return err
				}

				if expected != nil {
					t = expected
				}

				child.define(s.For.Init.Let.Name.Value, t)
			} else if s.For.Init.ExprIn != nil {
				if _, err := c.infer(s.For.Init.ExprIn, child, nil); err != nil {
					return err
				}
			}
		}

		if s.For.Cond != nil {
			cond, err := c.infer(s.For.Cond, child, stableast.Primitive{Value: "boolean"})
			if err != nil {
				return err
			}

			if !typesEqual(cond, stableast.Primitive{Value: "boolean"}) {
				return newErr(ErrTypeMismatch, s.For.Cond.Begin(), "for condition must be boolean, got %s", typeString(cond))
			}
		}

		if s.For.Post != nil {
			if _, err := c.infer(s.For.Post, child, nil); err != nil {
				return err
			}
		}

		fc.loopDepth++
		defer func() { fc.loopDepth-- }()

		return c.checkStmtOrBlock(s.For.Body, child, fc)
	case s.Break != nil:
		if fc.loopDepth == 0 {
			return newErr(errBreakOutsideLoop, s.Break.Begin(), "break outside of a loop")
		}

		return nil
	case s.Return != nil:
		if s.Return.Value == nil {
			if fc.ret != nil {
				return newErr(ErrTypeMismatch, s.Return.Begin(), "missing return value, expected %s", typeString(fc.ret))
			}

			return nil
		}

		t, err := c.infer(s.Return.Value, e, fc.ret)
		if err != nil {
			return err
		}

		if fc.ret == nil {
			return newErr(ErrTypeMismatch, s.Return.Value.Begin(), "function has no declared return type")
		}

		if !typesEqual(fc.ret, t) {
			return newErr(ErrTypeMismatch, s.Return.Value.Begin(), "return type %s does not match declared %s",
				typeString(t), typeString(fc.ret))
		}

		return nil
	case s.Throw != nil:
		t, err := c.infer(&s.Throw.Value, e, stableast.Primitive{Value: "string"})
		if err != nil {
			return err
		}

		if !typesEqual(t, stableast.Primitive{Value: "string"}) {
			return newErr(ErrTypeMismatch, s.Throw.Value.Begin(), "throw message must be a string, got %s", typeString(t))
		}

		return nil
	case s.Expr != nil:
		_, err := c.infer(&s.Expr.Value, e, nil)
		return err
	}

	return oops.Code("TYPE_INTERNAL").Errorf("unreachable statement form")
}

