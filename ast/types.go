// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/polylang/polylang/token"
)

// TypeExpr is a type annotation as written in source: a primitive or
// named type, a map, or an anonymous object, optionally suffixed with
// `[]` to form an array (spec §3 "Type lattice").
type TypeExpr struct {
	Pos, EndPos lexer.Position
	Map         *MapTypeExpr    `( @@`
	Object      *ObjectTypeExpr `| @@`
	Named       *NamedTypeExpr  `| @@ )`
	Array       bool            `( @( "[" "]" ) )?`
}

func (n *TypeExpr) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *TypeExpr) End() token.Pos   { return wrapPos(n.EndPos) }

// NamedTypeExpr is a bare identifier used as a type: a primitive
// (`i32`, `string`, ...), `PublicKey`, `Record`, or a contract name
// (resolved to a ContractRef/foreign-record during type elaboration).
type NamedTypeExpr struct {
	Pos, EndPos lexer.Position
	Name        string `@Ident | @TypeKeyword`
}

func (n *NamedTypeExpr) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *NamedTypeExpr) End() token.Pos   { return wrapPos(n.EndPos) }

// MapTypeExpr is `map<K, V>`. Spec §3 restricts K to string or number;
// that restriction is enforced during type elaboration, not parsing, so
// that a badly-keyed map produces a semantic error with a precise
// message rather than a parse failure.
type MapTypeExpr struct {
	Pos, EndPos lexer.Position
	Key         string    `"map" "<" @(Ident | TypeKeyword) ","`
	Value       *TypeExpr `@@ ">"`
}

func (n *MapTypeExpr) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *MapTypeExpr) End() token.Pos   { return wrapPos(n.EndPos) }

// ObjectTypeExpr is an anonymous structural record type, `{ field: type, ... }`.
type ObjectTypeExpr struct {
	Pos, EndPos lexer.Position
	Fields      []*ObjectTypeField `"{" (@@ ("," @@)*)? "}"`
}

func (n *ObjectTypeExpr) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *ObjectTypeExpr) End() token.Pos   { return wrapPos(n.EndPos) }

// ObjectTypeField is one `name: type` entry of an ObjectTypeExpr.
type ObjectTypeField struct {
	Pos, EndPos lexer.Position
	Name        Ident    `@@ ":"`
	Type        TypeExpr `@@`
}

func (n *ObjectTypeField) Begin() token.Pos { return wrapPos(n.Pos) }
func (n *ObjectTypeField) End() token.Pos   { return wrapPos(n.EndPos) }
