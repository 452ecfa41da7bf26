package validator_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polylang/polylang/ast"
	"github.com/polylang/polylang/stableast"
	"github.com/polylang/polylang/types"
	"github.com/polylang/polylang/validator"
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

const account = `
contract Account {
	id: string;
	balance: number;
	function withdraw(amt: number) {
		if (this.balance < amt) throw "Insufficient balance";
		this.balance -= amt;
	}
}
`

func TestValidateSet_Accepts(t *testing.T) {
	c := contractFor(t, account, "Account")

	err := validator.New().ValidateSet(c, []byte(`{"id":"a","balance":100}`))
	require.NoError(t, err)
}

func TestValidateSet_RejectsMissingRequired(t *testing.T) {
	c := contractFor(t, account, "Account")

	err := validator.New().ValidateSet(c, []byte(`{"id":"a"}`))
	require.Error(t, err)
}

func TestValidateSet_RejectsExtraField(t *testing.T) {
	c := contractFor(t, account, "Account")

	err := validator.New().ValidateSet(c, []byte(`{"id":"a","balance":100,"extra":true}`))
	require.Error(t, err)
}

func TestValidateSet_RejectsWrongType(t *testing.T) {
	c := contractFor(t, account, "Account")

	err := validator.New().ValidateSet(c, []byte(`{"id":"a","balance":"not a number"}`))
	require.Error(t, err)
}

func TestValidateSet_SizedIntegerBounds(t *testing.T) {
	c := contractFor(t, `
contract Counter {
	n: u32;
}
`, "Counter")

	val := validator.New()

	require.NoError(t, val.ValidateSet(c, []byte(`{"id":"c","n":4294967295}`)))
	require.Error(t, val.ValidateSet(c, []byte(`{"id":"c","n":4294967296}`)))
	require.Error(t, val.ValidateSet(c, []byte(`{"id":"c","n":-1}`)))
}

func TestValidateSet_ContractRefCollapsesToID(t *testing.T) {
	c := contractFor(t, `
contract Country {
	id: string;
}
contract City {
	id: string;
	country: Country;
}
`, "City")

	val := validator.New()

	require.NoError(t, val.ValidateSet(c, []byte(`{"id":"boston","country":{"id":"usa"}}`)))
	require.Error(t, val.ValidateSet(c, []byte(`{"id":"boston","country":{"id":"usa","name":"USA"}}`)))
}
