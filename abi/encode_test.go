package abi_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polylang/polylang/abi"
	"github.com/polylang/polylang/ast"
	"github.com/polylang/polylang/ir"
	"github.com/polylang/polylang/types"
	"github.com/polylang/polylang/vm"
)

func lowerMethod(t *testing.T, src, contractName, funcName string) *ir.Unit {
	t.Helper()

	prog, err := ast.Parse("t.poly", src)
	require.NoError(t, err)

	_, err = types.Check(prog)
	require.NoError(t, err)

	schema, err := types.Declare(prog)
	require.NoError(t, err)

	unit, err := ir.Lower(schema, prog, contractName, funcName)
	require.NoError(t, err)

	return unit
}

const helloWorld = `
contract HelloWorld {
	sum: i32;
	function add(a: i32, b: i32) {
		this.sum = a + b;
	}
}
`

func TestMarshaller_Run_HelloWorld(t *testing.T) {
	unit := lowerMethod(t, helloWorld, "HelloWorld", "add")

	m := abi.Marshaller{Engine: vm.ReferenceEngine{}}

	out, err := m.Run(context.Background(), unit, []byte(`{}`), []byte(`[1,2]`), false)
	require.NoError(t, err)
	require.Equal(t, float64(3), out.This["sum"])
	require.NotEqual(t, out.Hashes.Old, out.Hashes.New)
}

const ledger = `
contract Ledger {
	balance: i64;
	function noop() {
	}
}
`

func TestMarshaller_Run_I64RoundTripsExactly(t *testing.T) {
	unit := lowerMethod(t, ledger, "Ledger", "noop")

	m := abi.Marshaller{Engine: vm.ReferenceEngine{}}

	// 2^62 + 1, well past float64's 53-bit exact-integer ceiling: a flat
	// float64 decode would silently round this to a different value.
	const big = "4611686018427387905"

	out, err := m.Run(context.Background(), unit, []byte(`{"balance":`+big+`}`), []byte(`[]`), false)
	require.NoError(t, err)
	require.Equal(t, int64(4611686018427387905), out.This["balance"])
}

const cityCountry = `
contract Country {
	id: string;
}
contract City {
	id: string;
	country: Country;
	function noop() {
	}
}
`

func TestDecodeThis_ContractRefCollapsesToID(t *testing.T) {
	unit := lowerMethod(t, cityCountry, "City", "noop")

	m := abi.Marshaller{Engine: vm.ReferenceEngine{}}

	out, err := m.Run(context.Background(), unit,
		[]byte(`{"id":"boston","country":{"id":"usa","name":"USA","population":1}}`), []byte(`[]`), false)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"id": "usa"}, out.This["country"])
}

func TestDecodeThis_RejectsExtraField(t *testing.T) {
	unit := lowerMethod(t, helloWorld, "HelloWorld", "add")

	_, err := abi.DecodeThis([]byte(`{"sum":1,"bogus":true}`), abi.Build(unit).This)
	require.Error(t, err)
}

func TestDecodeArgs_OutOfRangeI32(t *testing.T) {
	unit := lowerMethod(t, helloWorld, "HelloWorld", "add")

	_, err := abi.DecodeArgs([]byte(`[4294967296,0]`), abi.Build(unit).Params)
	require.Error(t, err)
}
