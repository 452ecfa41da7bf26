// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package token

// Kind identifies the lexical class of a Token.
type Kind int

const (
	EOF Kind = iota
	Ident
	// Number is an unsigned decimal literal, optionally fractional. A
	// leading '-' is not part of the literal; it lexes as punctuation.
	Number
	String
	Keyword
	// KeywordType is a reserved primitive/built-in type name (i32, u32, number, ...).
	// It is a distinct kind from Keyword because the type system (see types package)
	// needs to recognize "this names a built-in type" without a symbol lookup.
	KeywordType
	Punct
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Ident:
		return "identifier"
	case Number:
		return "number"
	case String:
		return "string"
	case Keyword:
		return "keyword"
	case KeywordType:
		return "type keyword"
	case Punct:
		return "punctuation"
	default:
		return "unknown"
	}
}

// Keywords are reserved words that are not type names.
var Keywords = map[string]bool{
	"contract":     true,
	"function":     true,
	"constructor":  true,
	"let":          true,
	"if":           true,
	"else":         true,
	"while":        true,
	"for":          true,
	"break":        true,
	"return":       true,
	"throw":        true,
	"true":         true,
	"false":        true,
	"map":          true,
	"record":       true,
	"asc":          true,
	"desc":         true,
	"index":        true,
	"this":         true,
}

// TypeKeywords are the reserved primitive/built-in type names of the closed
// type lattice (spec §3), lexed as their own kind.
var TypeKeywords = map[string]bool{
	"string":    true,
	"boolean":   true,
	"bytes":     true,
	"number":    true,
	"i32":       true,
	"u32":       true,
	"i64":       true,
	"u64":       true,
	"f32":       true,
	"f64":       true,
	"PublicKey": true,
	"Record":    true,
}

// Token is a single lexical unit with its source span.
type Token struct {
	Kind    Kind
	Literal string
	Span    Span
}

func (t Token) Begin() Pos { return t.Span.Begin }
func (t Token) End() Pos   { return t.Span.End }

// compoundOperators lists every multi-character operator the lexer must
// greedily match before falling back to single-character punctuation.
// Ordered longest-first so that e.g. "**" wins over "*".
var compoundOperators = []string{
	"==", "!=", "<=", ">=", "&&", "||", "**",
	"+=", "-=", "<<", ">>", "->", "++", "--",
}

// singleCharPunct is every one-character punctuation/operator token.
const singleCharPunct = "+-*/%<>=!&|^~(){}[],.;:?@"
