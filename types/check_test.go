// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package types_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polylang/polylang/ast"
	"github.com/polylang/polylang/types"
)

func mustCheck(t *testing.T, src string) (*types.Checker, error) {
	t.Helper()

	prog, err := ast.Parse("t.poly", src)
	require.NoError(t, err)

	return types.Check(prog)
}

func TestCheck_HelloWorld(t *testing.T) {
	_, err := mustCheck(t, `
contract HelloWorld {
	sum: i32;
	function add(a: i32, b: i32) {
		this.sum = a + b;
	}
}
`)
	require.NoError(t, err)
}

func TestCheck_Fibonacci(t *testing.T) {
	_, err := mustCheck(t, `
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
`)
	require.NoError(t, err)
}

func TestCheck_AccountWithdraw(t *testing.T) {
	_, err := mustCheck(t, `
contract Account {
	balance: number;
	function withdraw(amt: number) {
		if (this.balance < amt) throw "Insufficient balance";
		this.balance -= amt;
	}
}
`)
	require.NoError(t, err)
}

func TestCheck_CrossContractReference(t *testing.T) {
	_, err := mustCheck(t, `
contract Country {
	name: string;
}

contract City {
	name: string;
	country: Country;
}
`)
	require.NoError(t, err)
}

func TestCheck_CtxPublicKeySetsReadAuth(t *testing.T) {
	c, err := mustCheck(t, `
contract Account {
	owner: PublicKey;
	function whoAmI() -> boolean {
		return this.owner == ctx.publicKey;
	}
}
`)
	require.NoError(t, err)
	require.True(t, c.ReadAuth)
}

func TestCheck_UnknownIdentifier(t *testing.T) {
	_, err := mustCheck(t, `
function f() {
	let x = y;
}
`)
	require.Error(t, err)
}

func TestCheck_TypeMismatch(t *testing.T) {
	_, err := mustCheck(t, `
function f() {
	let x: i32 = "hello";
}
`)
	require.Error(t, err)
}

func TestCheck_NonHomogeneousArray(t *testing.T) {
	_, err := mustCheck(t, `
function f() {
	let x = [1, "two", 3];
}
`)
	require.Error(t, err)
}

func TestCheck_DisallowedParamType(t *testing.T) {
	_, err := mustCheck(t, `function f(o: { x: i32 }) { }`)
	require.Error(t, err)
}

func TestCheck_UnknownContractReference(t *testing.T) {
	_, err := mustCheck(t, `
contract City {
	country: Country;
}
`)
	require.Error(t, err)
}

func TestCheck_WrongArity(t *testing.T) {
	_, err := mustCheck(t, `
function add(a: i32, b: i32) -> i32 { return a + b; }
function f() {
	let x = add(1);
}
`)
	require.Error(t, err)
}

func TestCheck_AssignToNonLvalue(t *testing.T) {
	_, err := mustCheck(t, `
function f() {
	1 + 2 = 3;
}
`)
	require.Error(t, err)
}

func TestCheck_PercentOnFloatRejected(t *testing.T) {
	_, err := mustCheck(t, `
function f(a: number, b: number) -> number {
	return a % b;
}
`)
	require.Error(t, err)
}

func TestCheck_PercentOnIntegerAllowed(t *testing.T) {
	_, err := mustCheck(t, `
function f(a: i32, b: i32) -> i32 {
	return a % b;
}
`)
	require.NoError(t, err)
}

func TestCheck_BreakOutsideLoop(t *testing.T) {
	_, err := mustCheck(t, `
function f() {
	break;
}
`)
	require.Error(t, err)
}

func TestCheck_WrappingBuiltin(t *testing.T) {
	_, err := mustCheck(t, `
contract Fibonacci {
	fibVal: u32;
	function main(p: u32, a: u32, b: u32) {
		for (let i: u32 = 0; i < p; i++) {
			let c = a.wrappingAdd(b);
			a = b;
			b = c;
		}
		this.fibVal = a;
	}
}
`)
	require.NoError(t, err)
}
