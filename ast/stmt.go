// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/polylang/polylang/token"
)

// Block is a brace-delimited statement list.
type Block struct {
	Pos, EndPos lexer.Position
	Statements  []*Statement `"{" @@* "}"`
}

func (n *Block) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *Block) End() token.Pos   { return wrapPos(n.EndPos) }

// StmtOrBlock is either a brace-delimited Block or a single bare
// Statement, matching spec §4.2 "if/else with single-statement bodies
// allowed without braces".
type StmtOrBlock struct {
	Pos, EndPos lexer.Position
	Block       *Block     `( @@`
	Single      *Statement `| @@ )`
}

func (n *StmtOrBlock) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *StmtOrBlock) End() token.Pos   { return wrapPos(n.EndPos) }

// Statement is the union of every statement form the language has.
type Statement struct {
	Pos    lexer.Position
	Let    *LetStmt    `( @@`
	If     *IfStmt     `| @@`
	While  *WhileStmt  `| @@`
	For    *ForStmt    `| @@`
	Break  *BreakStmt  `| @@`
	Return *ReturnStmt `| @@`
	Throw  *ThrowStmt  `| @@`
	Expr   *ExprStmt   `| @@ )`
}

// LetStmt declares and initializes a local variable.
type LetStmt struct {
	Pos, EndPos lexer.Position
	Name        Ident     `"let" @@`
	Type        *TypeExpr `(":" @@)?`
	Value       Expr      `"=" @@ ";"`
}

func (n *LetStmt) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *LetStmt) End() token.Pos   { return wrapPos(n.EndPos) }

// IfStmt is `if (cond) then [else else]`.
type IfStmt struct {
	Pos, EndPos lexer.Position
	Cond        Expr         `"if" "(" @@ ")"`
	Then        *StmtOrBlock `@@`
	Else        *StmtOrBlock `("else" @@)?`
}

func (n *IfStmt) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *IfStmt) End() token.Pos   { return wrapPos(n.EndPos) }

// WhileStmt is `while (cond) body`.
type WhileStmt struct {
	Pos, EndPos lexer.Position
	Cond        Expr         `"while" "(" @@ ")"`
	Body        *StmtOrBlock `@@`
}

func (n *WhileStmt) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *WhileStmt) End() token.Pos   { return wrapPos(n.EndPos) }

// ForInit is either a `let` binding or a plain expression, per spec
// §4.2's `for (init; cond; post)` grammar.
type ForInit struct {
	Pos    lexer.Position
	Let    *ForLet `( @@`
	ExprIn *Expr   `| @@ )`
}

// ForLet is a `let` binding used as a for-loop initializer, identical to
// LetStmt but without the trailing semicolon (the for-loop grammar
// supplies it).
type ForLet struct {
	Pos, EndPos lexer.Position
	Name        Ident     `"let" @@`
	Type        *TypeExpr `(":" @@)?`
	Value       Expr      `"=" @@`
}

func (n *ForLet) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *ForLet) End() token.Pos   { return wrapPos(n.EndPos) }

// ForStmt is `for (init; cond; post) body`; lowering rewrites it to
// `init; while (cond) { body; post }` (spec §4.5 "Lowering rules").
type ForStmt struct {
	Pos, EndPos lexer.Position
	Init        *ForInit     `"for" "(" @@? ";"`
	Cond        *Expr        `@@? ";"`
	Post        *Expr        `@@? ")"`
	Body        *StmtOrBlock `@@`
}

func (n *ForStmt) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *ForStmt) End() token.Pos   { return wrapPos(n.EndPos) }

// BreakStmt exits the innermost enclosing loop.
type BreakStmt struct {
	Pos, EndPos lexer.Position
	_           struct{} `"break" ";"`
}

func (n *BreakStmt) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *BreakStmt) End() token.Pos   { return wrapPos(n.EndPos) }

// ReturnStmt unwinds to the caller, optionally carrying a value.
type ReturnStmt struct {
	Pos, EndPos lexer.Position
	Value       *Expr `"return" @@? ";"`
}

func (n *ReturnStmt) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *ReturnStmt) End() token.Pos   { return wrapPos(n.EndPos) }

// ThrowStmt aborts execution with a user-supplied message; the code
// generator lowers it identically to a call of the `error(msg)`
// built-in (spec §4.5 "Built-ins").
type ThrowStmt struct {
	Pos, EndPos lexer.Position
	Value       Expr `"throw" @@ ";"`
}

func (n *ThrowStmt) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *ThrowStmt) End() token.Pos   { return wrapPos(n.EndPos) }

// ExprStmt is a bare expression statement: an assignment
// (`this.sum = a + b;`), a compound assignment, or a call
// (`log(x);`, `selfdestruct();`).
type ExprStmt struct {
	Pos, EndPos lexer.Position
	Value       Expr `@@ ";"`
}

func (n *ExprStmt) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *ExprStmt) End() token.Pos   { return wrapPos(n.EndPos) }
