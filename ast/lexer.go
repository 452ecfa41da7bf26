// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"errors"
	"io"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/polylang/polylang/token"
)

// tokenKinds lists every token.Kind participle's grammar tags reference
// by name (Ident, Number, String, TypeKeyword), plus the remaining
// kinds so every Kind has a symbol. Keyword and Punct are matched
// against their literal text in the grammar tags instead (e.g.
// `"contract"`, `@("==" | "!=")`), so they never need to be looked up
// by name, but participle still expects a complete symbol table.
var tokenKinds = []struct {
	name string
	kind token.Kind
}{
	{"Ident", token.Ident},
	{"Number", token.Number},
	{"String", token.String},
	{"Keyword", token.Keyword},
	{"TypeKeyword", token.KeywordType},
	{"Punct", token.Punct},
}

// tokenLexer adapts the hand-rolled token.Lexer (spec §4.1/§2's Lexer
// component) to participle's lexer.Definition, so the parser consumes
// the same token stream token.Tokens produces instead of driving a
// second, independently-maintained regex lexer.
type tokenLexer struct{}

func (tokenLexer) Symbols() map[string]lexer.TokenType {
	syms := make(map[string]lexer.TokenType, len(tokenKinds))
	for _, k := range tokenKinds {
		syms[k.name] = lexer.TokenType(k.kind)
	}

	return syms
}

func (tokenLexer) Lex(filename string, r io.Reader) (lexer.Lexer, error) {
	return &tokenLexerInstance{l: token.NewLexer(filename, r)}, nil
}

type tokenLexerInstance struct {
	l *token.Lexer
}

func (t *tokenLexerInstance) Next() (lexer.Token, error) {
	tok, err := t.l.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			pos := t.l.Pos()

			return lexer.Token{Type: lexer.EOF, Pos: toParticiplePos(pos)}, nil
		}

		return lexer.Token{}, err
	}

	return lexer.Token{
		Type:  lexer.TokenType(tok.Kind),
		Value: tok.Literal,
		Pos:   toParticiplePos(tok.Span.Begin),
	}, nil
}

func toParticiplePos(p token.Pos) lexer.Position {
	return lexer.Position{Filename: p.File, Line: p.Line, Column: p.Col, Offset: p.Offset}
}
