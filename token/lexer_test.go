// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package token_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polylang/polylang/token"
)

func literals(toks []token.Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Literal
	}

	return out
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}

	return out
}

func TestTokens_Keywords(t *testing.T) {
	toks, err := token.Tokens("test.poly", `contract Foo { sum: i32; function add() {} }`)
	require.NoError(t, err)

	require.Equal(t, []string{
		"contract", "Foo", "{", "sum", ":", "i32", ";", "function", "add", "(", ")", "{", "}", "}",
	}, literals(toks))

	require.Equal(t, token.Keyword, toks[0].Kind)
	require.Equal(t, token.Ident, toks[1].Kind)
	require.Equal(t, token.KeywordType, toks[5].Kind)
}

func TestTokens_CompoundOperators(t *testing.T) {
	cases := []struct {
		src  string
		want []string
	}{
		{"a == b", []string{"a", "==", "b"}},
		{"a != b", []string{"a", "!=", "b"}},
		{"a <= b", []string{"a", "<=", "b"}},
		{"a >= b", []string{"a", ">=", "b"}},
		{"a && b", []string{"a", "&&", "b"}},
		{"a || b", []string{"a", "||", "b"}},
		{"a ** b", []string{"a", "**", "b"}},
		{"a += b", []string{"a", "+=", "b"}},
		{"a -= b", []string{"a", "-=", "b"}},
		{"a << b", []string{"a", "<<", "b"}},
		{"a >> b", []string{"a", ">>", "b"}},
	}

	for _, c := range cases {
		toks, err := token.Tokens("test.poly", c.src)
		require.NoError(t, err)
		require.Equal(t, c.want, literals(toks))
	}
}

func TestTokens_NumberAndString(t *testing.T) {
	toks, err := token.Tokens("test.poly", `let x = 3.14; let y = "hi\n";`)
	require.NoError(t, err)

	require.Equal(t, "3.14", toks[3].Literal)
	require.Equal(t, token.Number, toks[3].Kind)

	require.Equal(t, "hi\n", toks[8].Literal)
	require.Equal(t, token.String, toks[8].Kind)
}

func TestTokens_DollarIdent(t *testing.T) {
	toks, err := token.Tokens("test.poly", `$this`)
	require.NoError(t, err)
	require.Equal(t, []string{"$this"}, literals(toks))
	require.Equal(t, token.Ident, toks[0].Kind)
}

func TestTokens_CommentsDiscarded(t *testing.T) {
	toks, err := token.Tokens("test.poly", "// a comment\nlet x = 1; /* block\ncomment */ let y = 2;")
	require.NoError(t, err)
	require.Equal(t, []string{"let", "x", "=", "1", ";", "let", "y", "=", "2", ";"}, literals(toks))
}

func TestTokens_UnterminatedStringFails(t *testing.T) {
	_, err := token.Tokens("test.poly", `"unterminated`)
	require.Error(t, err)
}

func TestTokens_UnexpectedCharacterFails(t *testing.T) {
	_, err := token.Tokens("test.poly", "let x = `")
	require.Error(t, err)
}

func TestTokens_KindString(t *testing.T) {
	require.Equal(t, "identifier", token.Ident.String())
	require.Equal(t, "type keyword", token.KeywordType.String())
}

func TestTokens_Spans(t *testing.T) {
	toks, err := token.Tokens("test.poly", "ab cd")
	require.NoError(t, err)
	require.Equal(t, 1, toks[0].Begin().Line)
	require.Equal(t, 1, toks[0].Begin().Col)
	require.Equal(t, 4, toks[1].Begin().Col)
	_ = kinds(toks)
}
