// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/polylang/polylang/token"
)

// Expr is the parser's entry point into the expression grammar: the
// assignment family, the weakest-binding precedence layer of spec
// §4.2's table. Every tighter layer below it is its own struct type,
// one per precedence level, the way the teacher's ast.Type/ast.Path
// chain nests one grammar rule inside the next.
type Expr struct {
	Pos, EndPos lexer.Position
	Left        OrExpr      `@@`
	Assign      *AssignTail `( @@`
	IncDec      string      `| @("++" | "--") )?`
}

func (n *Expr) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *Expr) End() token.Pos   { return wrapPos(n.EndPos) }

// AssignTail is the optional `= rhs` / `+= rhs` / `-= rhs` suffix that
// turns an Expr into an assignment. Right-associative: the right-hand
// side is itself a full Expr.
type AssignTail struct {
	Op    string `@("=" | "+=" | "-=")`
	Right *Expr  `@@`
}

// OrExpr: `||`.
type OrExpr struct {
	Pos, EndPos lexer.Position
	Left        AndExpr   `@@`
	Rest        []*OrTail `@@*`
}

func (n *OrExpr) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *OrExpr) End() token.Pos   { return wrapPos(n.EndPos) }

type OrTail struct {
	Op    string  `@"||"`
	Right AndExpr `@@`
}

// AndExpr: `&&`.
type AndExpr struct {
	Pos, EndPos lexer.Position
	Left        EqExpr     `@@`
	Rest        []*AndTail `@@*`
}

func (n *AndExpr) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *AndExpr) End() token.Pos   { return wrapPos(n.EndPos) }

type AndTail struct {
	Op    string `@"&&"`
	Right EqExpr `@@`
}

// EqExpr: `==` `!=`, non-associative (at most one).
type EqExpr struct {
	Pos, EndPos lexer.Position
	Left        RelExpr `@@`
	Rest        *EqTail `@@?`
}

func (n *EqExpr) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *EqExpr) End() token.Pos   { return wrapPos(n.EndPos) }

type EqTail struct {
	Op    string  `@("==" | "!=")`
	Right RelExpr `@@`
}

// RelExpr: `<=` `>=`, non-associative.
type RelExpr struct {
	Pos, EndPos lexer.Position
	Left        BitOrExpr `@@`
	Rest        *RelTail  `@@?`
}

func (n *RelExpr) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *RelExpr) End() token.Pos   { return wrapPos(n.EndPos) }

type RelTail struct {
	Op    string    `@("<=" | ">=")`
	Right BitOrExpr `@@`
}

// BitOrExpr: `|`.
type BitOrExpr struct {
	Pos, EndPos lexer.Position
	Left        BitXorExpr   `@@`
	Rest        []*BitOrTail `@@*`
}

func (n *BitOrExpr) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *BitOrExpr) End() token.Pos   { return wrapPos(n.EndPos) }

type BitOrTail struct {
	Op    string     `@"|"`
	Right BitXorExpr `@@`
}

// BitXorExpr: `^`.
type BitXorExpr struct {
	Pos, EndPos lexer.Position
	Left        BitAndExpr   `@@`
	Rest        []*BitXorTail `@@*`
}

func (n *BitXorExpr) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *BitXorExpr) End() token.Pos   { return wrapPos(n.EndPos) }

type BitXorTail struct {
	Op    string     `@"^"`
	Right BitAndExpr `@@`
}

// BitAndExpr: `&`.
type BitAndExpr struct {
	Pos, EndPos lexer.Position
	Left        CmpExpr      `@@`
	Rest        []*BitAndTail `@@*`
}

func (n *BitAndExpr) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *BitAndExpr) End() token.Pos   { return wrapPos(n.EndPos) }

type BitAndTail struct {
	Op    string  `@"&"`
	Right CmpExpr `@@`
}

// CmpExpr: `<` `>`, non-associative.
type CmpExpr struct {
	Pos, EndPos lexer.Position
	Left        ShiftExpr `@@`
	Rest        *CmpTail  `@@?`
}

func (n *CmpExpr) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *CmpExpr) End() token.Pos   { return wrapPos(n.EndPos) }

type CmpTail struct {
	Op    string    `@("<" | ">")`
	Right ShiftExpr `@@`
}

// ShiftExpr: `<<` `>>`.
type ShiftExpr struct {
	Pos, EndPos lexer.Position
	Left        AddExpr      `@@`
	Rest        []*ShiftTail `@@*`
}

func (n *ShiftExpr) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *ShiftExpr) End() token.Pos   { return wrapPos(n.EndPos) }

type ShiftTail struct {
	Op    string  `@("<<" | ">>")`
	Right AddExpr `@@`
}

// AddExpr: `+` `-`.
type AddExpr struct {
	Pos, EndPos lexer.Position
	Left        MulExpr    `@@`
	Rest        []*AddTail `@@*`
}

func (n *AddExpr) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *AddExpr) End() token.Pos   { return wrapPos(n.EndPos) }

type AddTail struct {
	Op    string  `@("+" | "-")`
	Right MulExpr `@@`
}

// MulExpr: `*` `/` `%`.
type MulExpr struct {
	Pos, EndPos lexer.Position
	Left        PowExpr    `@@`
	Rest        []*MulTail `@@*`
}

func (n *MulExpr) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *MulExpr) End() token.Pos   { return wrapPos(n.EndPos) }

type MulTail struct {
	Op    string  `@("*" | "/" | "%")`
	Right PowExpr `@@`
}

// PowExpr: `**`, right-associative.
type PowExpr struct {
	Pos, EndPos lexer.Position
	Left        UnaryExpr `@@`
	Right       *PowExpr  `("**" @@)?`
}

func (n *PowExpr) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *PowExpr) End() token.Pos   { return wrapPos(n.EndPos) }

// UnaryExpr: prefix `!` `~` `-`.
type UnaryExpr struct {
	Pos, EndPos lexer.Position
	Op          string     `@("!" | "~" | "-")?`
	Operand     PostfixExpr `@@`
}

func (n *UnaryExpr) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *UnaryExpr) End() token.Pos   { return wrapPos(n.EndPos) }

// PostfixExpr: member access, indexing, and calls, left-to-right.
type PostfixExpr struct {
	Pos, EndPos lexer.Position
	Primary     Primary          `@@`
	Ops         []*PostfixSuffix `@@*`
}

func (n *PostfixExpr) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *PostfixExpr) End() token.Pos   { return wrapPos(n.EndPos) }

// PostfixSuffix is one `.field`, `[index]`, or `(args)` applied in turn.
type PostfixSuffix struct {
	Pos, EndPos lexer.Position
	Member      *Ident `( "." @@`
	Index       *Expr  `| "[" @@ "]"`
	Call        *Args  `| "(" @@ ")" )`
}

func (n *PostfixSuffix) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *PostfixSuffix) End() token.Pos   { return wrapPos(n.EndPos) }

// Args is a comma-separated call-argument list.
type Args struct {
	Pos, EndPos lexer.Position
	Values      []*Expr `(@@ ("," @@)*)?`
}

// Primary is a literal, identifier, `this`, parenthesized expression,
// array literal, or object literal.
type Primary struct {
	Pos, EndPos lexer.Position
	Number      *NumberLit `( @@`
	Str         *StringLit `| @@`
	Bool        *BoolLit   `| @@`
	This        *ThisExpr  `| @@`
	Array       *ArrayLit  `| @@`
	Object      *ObjectLit `| @@`
	Paren       *Expr      `| "(" @@ ")"`
	Name        *Ident     `| @@ )`
}

func (n *Primary) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *Primary) End() token.Pos   { return wrapPos(n.EndPos) }

// ThisExpr is the implicit receiver inside a method body.
type ThisExpr struct {
	Pos, EndPos lexer.Position
	_           struct{} `"this"`
}

func (n *ThisExpr) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *ThisExpr) End() token.Pos   { return wrapPos(n.EndPos) }

// NumberLit is a decimal literal, optionally fractional. Spec §4.4:
// "Literal 1 defaults to the integer type compatible with its context" —
// the parser keeps the literal as text and lets the type checker pick
// the concrete sized type.
type NumberLit struct {
	Pos, EndPos lexer.Position
	Value       string `@Number`
}

func (n *NumberLit) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *NumberLit) End() token.Pos   { return wrapPos(n.EndPos) }

// StringLit is a single- or double-quoted string literal.
type StringLit struct {
	Pos, EndPos lexer.Position
	Value       string `@String`
}

func (n *StringLit) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *StringLit) End() token.Pos   { return wrapPos(n.EndPos) }

// BoolLit is `true` or `false`.
type BoolLit struct {
	Pos, EndPos lexer.Position
	Value       bool `@("true" | "false")`
}

func (n *BoolLit) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *BoolLit) End() token.Pos   { return wrapPos(n.EndPos) }

// ArrayLit is `[ expr, expr, ... ]`.
type ArrayLit struct {
	Pos, EndPos lexer.Position
	Elements    []*Expr `"[" (@@ ("," @@)*)? "]"`
}

func (n *ArrayLit) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *ArrayLit) End() token.Pos   { return wrapPos(n.EndPos) }

// ObjectLit is `{ name: expr, name: expr, ... }`, used to construct
// contract instances (spec §3 "Lifecycle... Values are created by a
// contract's constructor") and anonymous object values.
type ObjectLit struct {
	Pos, EndPos lexer.Position
	Fields      []*ObjectLitField `"{" (@@ ("," @@)*)? "}"`
}

func (n *ObjectLit) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *ObjectLit) End() token.Pos   { return wrapPos(n.EndPos) }

// ObjectLitField is one `name: expr` entry of an ObjectLit.
type ObjectLitField struct {
	Pos, EndPos lexer.Position
	Name        Ident `@@ ":"`
	Value       Expr  `@@`
}

func (n *ObjectLitField) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *ObjectLitField) End() token.Pos   { return wrapPos(n.EndPos) }
