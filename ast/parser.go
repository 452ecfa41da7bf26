// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"bytes"
	"sync"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/polylang/polylang/token"
)

var (
	buildOnce   sync.Once
	parserInst  *participle.Parser[Program]
	parserBuild error
)

func buildParser() (*participle.Parser[Program], error) {
	buildOnce.Do(func() {
		// token.Lexer already strips comments/whitespace and resolves
		// string escapes itself (token.Token.Literal is the decoded
		// content, not the raw quoted source), so neither
		// participle.Elide nor participle.Unquote applies here.
		parserInst, parserBuild = participle.Build[Program](
			participle.Lexer(tokenLexer{}),
			participle.UseLookahead(4),
		)
	})

	return parserInst, parserBuild
}

// Parse lexes and parses Polylang source into a concrete Program, then
// walks the result to capture each method/function body's exact source
// range (spec §4.2, §9 "Source-range capture").
func Parse(filename, src string) (*Program, error) {
	p, err := buildParser()
	if err != nil {
		return nil, err
	}

	prog := &Program{}
	if err := p.Parse(filename, bytes.NewReader([]byte(src)), prog); err != nil {
		var perr participle.Error
		if ok := asParticipleError(err, &perr); ok {
			pos := perr.Position()
			span := token.NewSpan(
				token.Pos{File: pos.Filename, Line: pos.Line, Col: pos.Column, Offset: pos.Offset},
				token.Pos{File: pos.Filename, Line: pos.Line, Col: pos.Column + 1, Offset: pos.Offset + 1},
			)

			return nil, token.NewParseError(span, "%s", perr.Message()).SetCause(err)
		}

		return nil, err
	}

	captureSource(prog, src)

	return prog, nil
}

func asParticipleError(err error, out *participle.Error) bool {
	type unwrapper interface{ Unwrap() error }

	for e := err; e != nil; {
		if pe, ok := e.(participle.Error); ok {
			*out = pe
			return true
		}

		u, ok := e.(unwrapper)
		if !ok {
			return false
		}

		e = u.Unwrap()
	}

	return false
}

// captureSource fills in Method/Function/Constructor.Source with the
// exact byte range of their body, taken directly from the original
// input text (spec §9: "Implementations must preserve the exact byte
// range, including comments, from the original input").
func captureSource(prog *Program, src string) {
	slice := func(begin, end lexer.Position) string {
		if begin.Offset < 0 || end.Offset > len(src) || begin.Offset > end.Offset {
			return ""
		}

		return src[begin.Offset:end.Offset]
	}

	for _, node := range prog.Nodes {
		switch {
		case node.Contract != nil:
			for _, m := range node.Contract.Members {
				if m.Method != nil {
					m.Method.Source = slice(m.Method.Body.Pos, m.Method.Body.EndPos)
				}

				if m.Constructor != nil {
					m.Constructor.Source = slice(m.Constructor.Body.Pos, m.Constructor.Body.EndPos)
				}
			}
		case node.Function != nil:
			node.Function.Source = slice(node.Function.Body.Pos, node.Function.Body.EndPos)
		}
	}
}
