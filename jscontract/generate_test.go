package jscontract_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polylang/polylang/ast"
	"github.com/polylang/polylang/jscontract"
	"github.com/polylang/polylang/stableast"
	"github.com/polylang/polylang/types"
)

func contractFor(t *testing.T, src, name string) stableast.Contract {
	t.Helper()

	prog, err := ast.Parse("t.poly", src)
	require.NoError(t, err)

	_, err = types.Check(prog)
	require.NoError(t, err)

	sa := stableast.Elaborate(prog)
	for _, c := range sa.Contracts {
		if c.Name == name {
			return c
		}
	}

	t.Fatalf("no contract named %q", name)

	return stableast.Contract{}
}

func TestGenerate_AccountShape(t *testing.T) {
	c := contractFor(t, `
contract Account {
	id: string;
	balance: number;
	function withdraw(amt: number) {
		if (this.balance < amt) throw "Insufficient balance";
		this.balance -= amt;
	}
}
`, "Account")

	out, err := jscontract.Generate(c)
	require.NoError(t, err)
	require.Contains(t, out.Code, "export function validate(value)")
	require.Contains(t, out.Code, `"id" in value`)
	require.Contains(t, out.Code, `"balance" in value`)
	require.Contains(t, out.Code, "allowed.has(key)")
}

func TestGenerate_PublicKeyField(t *testing.T) {
	c := contractFor(t, `
contract Account {
	owner: PublicKey;
}
`, "Account")

	out, err := jscontract.Generate(c)
	require.NoError(t, err)
	require.Contains(t, out.Code, "must be a PublicKey")
}
