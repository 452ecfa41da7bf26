// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package ast defines the concrete syntax tree produced by the parser
// (spec §4.2): an ordered sequence of root nodes (contracts and free
// functions), carrying source spans on every node so later stages can
// report diagnostics and the stable-AST elaborator can capture method
// bodies byte-for-byte.
package ast

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/polylang/polylang/token"
)

func wrapPos(p lexer.Position) token.Pos {
	return token.Pos{File: p.Filename, Line: p.Line, Col: p.Column, Offset: p.Offset}
}

// Ident is a bare identifier.
type Ident struct {
	Pos, EndPos lexer.Position
	Value       string `@Ident`
}

func (n *Ident) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *Ident) End() token.Pos   { return wrapPos(n.EndPos) }
func (n *Ident) String() string   { return n.Value }

// Program is the root of a parsed source file: an ordered sequence of
// contracts and free functions (spec §3 "Program").
type Program struct {
	Pos   lexer.Position
	Nodes []*RootNode `@@*`
}

// RootNode is either a Contract or a free Function.
type RootNode struct {
	Pos      lexer.Position
	Contract *Contract `( @@`
	Function *Function `| @@ )`
}

// Directive is an `@name` or `@name(arg, ...)` annotation attached to a
// contract, field, or method (spec §3 "directives"). The name and every
// argument are plain identifiers: a keyword name such as `index` and a
// string-literal argument do not parse.
type Directive struct {
	Pos, EndPos lexer.Position
	Name        Ident    `"@" @@`
	Args        []*Ident `("(" (@@ ("," @@)*)? ")")?`
}

func (n *Directive) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *Directive) End() token.Pos   { return wrapPos(n.EndPos) }

// Contract is a named record schema plus its methods (spec §3 "Contract").
type Contract struct {
	Pos, EndPos lexer.Position
	Directives  []*Directive `@@*`
	Name        Ident        `"contract" @@ "{"`
	Members     []*Member    `@@* "}"`
}

func (n *Contract) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *Contract) End() token.Pos   { return wrapPos(n.EndPos) }

// Member is any declaration that may appear inside a contract body.
type Member struct {
	Pos         lexer.Position
	Field       *Field       `( @@`
	Constructor *Constructor `| @@`
	Method      *Method      `| @@`
	Index       *IndexDecl   `| @@ )`
}

// Field declares one record field (spec §3 "fields": name, type, required
// flag, decorators).
type Field struct {
	Pos, EndPos lexer.Position
	Directives  []*Directive `@@*`
	Name        Ident        `@@ ":"`
	Type        TypeExpr     `@@`
	Optional    bool         `@"?"?`
	_           struct{}     `";"`
}

func (n *Field) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *Field) End() token.Pos   { return wrapPos(n.EndPos) }

// Required reports whether this field lacks the `?` optional suffix.
func (n *Field) Required() bool { return !n.Optional }

// Param is one function/method parameter.
type Param struct {
	Pos, EndPos lexer.Position
	Name        Ident    `@@ ":"`
	Type        TypeExpr `@@`
	Optional    bool     `@"?"?`
}

func (n *Param) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *Param) End() token.Pos   { return wrapPos(n.EndPos) }
func (n *Param) Required() bool   { return !n.Optional }

// Constructor is the contract's special zero-or-more-argument initializer.
type Constructor struct {
	Pos, EndPos lexer.Position
	Params      []*Param `"constructor" "(" (@@ ("," @@)*)? ")"`
	Body        *Block   `@@`
	// Source is the exact byte range of the body, captured for stable
	// hashing (spec §4.2, §9 "Source-range capture for method bodies").
	Source string `parser:"-"`
}

func (n *Constructor) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *Constructor) End() token.Pos   { return wrapPos(n.EndPos) }

// Method is a contract function operating on the implicit `this`.
type Method struct {
	Pos, EndPos lexer.Position
	Directives  []*Directive `@@*`
	Name        Ident        `"function" @@ "("`
	Params      []*Param     `(@@ ("," @@)*)? ")"`
	Return      *TypeExpr    `("->" @@)?`
	Body        *Block       `@@`
	Source      string       `parser:"-"`
}

func (n *Method) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *Method) End() token.Pos   { return wrapPos(n.EndPos) }

// Function is a free function, not associated with any contract.
type Function struct {
	Pos, EndPos lexer.Position
	Directives  []*Directive `@@*`
	Name        Ident        `"function" @@ "("`
	Params      []*Param     `(@@ ("," @@)*)? ")"`
	Return      *TypeExpr    `("->" @@)?`
	Body        *Block       `@@`
	Source      string       `parser:"-"`
}

func (n *Function) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *Function) End() token.Pos   { return wrapPos(n.EndPos) }

// IndexDecl declares an ordered list of field paths with a direction; it
// is informational metadata consumed by external stores (spec §3
// "indexes").
type IndexDecl struct {
	Pos, EndPos lexer.Position
	Direction   string   `"index" @("asc" | "desc") "("`
	Fields      []*Ident `@@ ("," @@)* ")" ";"`
}

func (n *IndexDecl) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *IndexDecl) End() token.Pos   { return wrapPos(n.EndPos) }
