// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package vm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

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

func TestReferenceEngine_CtxPublicKeySetsReadAuthAndResolves(t *testing.T) {
	unit := lowerMethod(t, `
contract Account {
	owner: PublicKey;
	function whoAmI() -> PublicKey {
		return ctx.publicKey;
	}
}
`, "Account", "whoAmI")

	pubKey := map[string]any{"x": "11", "y": "22"}

	ctx := vm.WithPublicKey(context.Background(), pubKey)

	result, err := vm.ReferenceEngine{}.Execute(ctx, vm.Request{
		Unit: unit, This: map[string]any{"owner": pubKey}, PublicKey: vm.PublicKeyFromContext(ctx),
	})
	require.NoError(t, err)
	require.True(t, result.ReadAuth)
	require.Equal(t, pubKey, result.Value)

	// ctx.publicKey must never leak into the record's own JSON shape.
	require.NotContains(t, result.This, "__ctx_publicKey")
}

// TestReferenceEngine_Fibonacci runs spec §8 scenario 2 verbatim, including
// the `i++` loop-post-increment the parser/type-checker/IR-lowering chain
// must handle without desugaring the source itself.
func TestReferenceEngine_Fibonacci(t *testing.T) {
	unit := lowerMethod(t, `
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
`, "Fibonacci", "main")

	result, err := vm.ReferenceEngine{}.Execute(context.Background(), vm.Request{
		Unit: unit,
		This: map[string]any{"fibVal": float64(0)},
		Args: []any{float64(7), float64(0), float64(1)},
	})
	require.NoError(t, err)
	require.Equal(t, float64(13), result.This["fibVal"])
}

func TestReferenceEngine_CtxPublicKeyAbsentIsNil(t *testing.T) {
	unit := lowerMethod(t, `
contract Account {
	owner: PublicKey;
	function readIt() -> PublicKey {
		return ctx.publicKey;
	}
}
`, "Account", "readIt")

	result, err := vm.ReferenceEngine{}.Execute(context.Background(), vm.Request{
		Unit: unit, This: map[string]any{"owner": map[string]any{"x": "0", "y": "0"}},
	})
	require.NoError(t, err)
	require.True(t, result.ReadAuth)
	require.Nil(t, result.Value)
}
