// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package ast_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polylang/polylang/ast"
	"github.com/polylang/polylang/token"
)

const helloWorld = `
contract HelloWorld {
	sum: i32;

	function add(a: i32, b: i32) {
		this.sum = a + b;
	}
}
`

func TestParse_HelloWorld(t *testing.T) {
	prog, err := ast.Parse("hello.poly", helloWorld)
	require.NoError(t, err)
	require.Len(t, prog.Nodes, 1)

	c := prog.Nodes[0].Contract
	require.NotNil(t, c)
	require.Equal(t, "HelloWorld", c.Name.Value)
	require.Len(t, c.Members, 2)
	require.NotNil(t, c.Members[0].Field)
	require.Equal(t, "sum", c.Members[0].Field.Name.Value)
	require.NotNil(t, c.Members[1].Method)
	require.Contains(t, c.Members[1].Method.Source, "this.sum")
}

const fibonacci = `
contract Fibonacci {
	fibVal: u32;

	function main(p: u32, a: u32, b: u32) {
		for (let i: u32 = 0; i < p; i++) {
			let c = a + b;
			a = b;
			b = c;
		}
		this.fibVal = a;
	}
}
`

func TestParse_Fibonacci(t *testing.T) {
	prog, err := ast.Parse("fib.poly", fibonacci)
	require.NoError(t, err)
	require.Len(t, prog.Nodes, 1)

	method := prog.Nodes[0].Contract.Members[1].Method
	require.Equal(t, "main", method.Name.Value)
	require.Len(t, method.Body.Statements, 2)
	require.NotNil(t, method.Body.Statements[0].For)
}

func TestParse_FreeFunction(t *testing.T) {
	prog, err := ast.Parse("f.poly", `function add(a: i32, b: i32) -> i32 { return a + b; }`)
	require.NoError(t, err)
	require.NotNil(t, prog.Nodes[0].Function)
	require.Equal(t, "add", prog.Nodes[0].Function.Name.Value)
}

func TestParse_Directives(t *testing.T) {
	prog, err := ast.Parse("d.poly", `
contract Account {
	@public
	id: string;
	function withdraw(amt: number) {
		if (this.balance < amt) throw "Insufficient balance";
		this.balance -= amt;
	}
}
`)
	require.NoError(t, err)
	c := prog.Nodes[0].Contract
	require.Len(t, c.Members[0].Field.Directives, 1)
	require.Equal(t, "public", c.Members[0].Field.Directives[0].Name.Value)
}

func TestParse_SyntaxErrorHasPosition(t *testing.T) {
	_, err := ast.Parse("bad.poly", `contract {`)
	require.Error(t, err)

	var perr *token.PosError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, 1, perr.Span.Begin.Line)
	require.Positive(t, perr.Span.Begin.Col)
}
