// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package stableast_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polylang/polylang/ast"
	"github.com/polylang/polylang/stableast"
)

func TestElaborate_ContractFieldsAndMethods(t *testing.T) {
	prog, err := ast.Parse("t.poly", `
contract Account {
	@public
	id: string;
	balance: number;
	owner: PublicKey?;

	constructor (id: string) {
		this.id = id;
		this.balance = 0;
	}

	function deposit(amt: number) {
		this.balance += amt;
	}

	index asc(balance);
}
`)
	require.NoError(t, err)

	out := stableast.Elaborate(prog)
	require.Len(t, out.Contracts, 1)
	require.Equal(t, []stableast.NodeKind{stableast.NodeContract}, out.Order)

	c := out.Contracts[0]
	require.Equal(t, "Account", c.Name)

	// the explicit id field from source stands in for the implicit one.
	require.Equal(t, "id", c.Fields[0].Name)
	require.True(t, c.Fields[0].Required)

	names := map[string]stableast.Field{}
	for _, f := range c.Fields {
		names[f.Name] = f
	}

	require.Contains(t, names, "balance")
	require.Equal(t, stableast.Primitive{Value: "number"}, names["balance"].Type)
	require.True(t, names["balance"].Required)

	require.Contains(t, names, "owner")
	require.False(t, names["owner"].Required)
	require.Equal(t, stableast.PublicKey{}, names["owner"].Type)

	require.Len(t, c.Methods, 2)
	require.Equal(t, "constructor", c.Methods[0].Name)
	require.Equal(t, "deposit", c.Methods[1].Name)
	require.Contains(t, c.Methods[1].Code, "this.balance")

	require.Len(t, c.Indexes, 1)
	require.Equal(t, []string{"balance"}, c.Indexes[0].Fields)
	require.Equal(t, "asc", c.Indexes[0].Direction)
}

func TestElaborate_ContractRefAndArray(t *testing.T) {
	prog, err := ast.Parse("t.poly", `
contract Tag {
	name: string;
}

contract Post {
	id: string;
	tag: Tag;
	tags: Tag[];
}
`)
	require.NoError(t, err)

	out := stableast.Elaborate(prog)
	require.Len(t, out.Contracts, 2)

	var post stableast.Contract
	for _, c := range out.Contracts {
		if c.Name == "Post" {
			post = c
		}
	}

	var tagField, tagsField stableast.Field
	for _, f := range post.Fields {
		switch f.Name {
		case "tag":
			tagField = f
		case "tags":
			tagsField = f
		}
	}

	require.Equal(t, stableast.ContractRef{Contract: "Tag"}, tagField.Type)

	arr, ok := tagsField.Type.(stableast.Array)
	require.True(t, ok)
	require.Equal(t, stableast.ForeignRecord{Collection: "Tag"}, arr.Value)
}

func TestElaborate_FreeFunctionAndMapType(t *testing.T) {
	prog, err := ast.Parse("t.poly", `function total(balances: map<string, number>) -> number { return 0; }`)
	require.NoError(t, err)

	out := stableast.Elaborate(prog)
	require.Len(t, out.Functions, 1)
	require.Equal(t, []stableast.NodeKind{stableast.NodeFunction}, out.Order)

	fn := out.Functions[0]
	require.Equal(t, "total", fn.Name)
	require.Equal(t, stableast.Primitive{Value: "number"}, fn.Return)

	m, ok := fn.Params[0].Type.(stableast.Map)
	require.True(t, ok)
	require.Equal(t, "string", m.Key)
	require.Equal(t, stableast.Primitive{Value: "number"}, m.Value)
}

func TestProgram_MarshalJSON_PreservesOrder(t *testing.T) {
	prog, err := ast.Parse("t.poly", `
function a() { return 0; }
contract B { id: string; }
`)
	require.NoError(t, err)

	out := stableast.Elaborate(prog)
	data, err := json.Marshal(out)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 2)
	require.Equal(t, "function", raw[0]["kind"])
	require.Equal(t, "contract", raw[1]["kind"])
}

func TestUnmarshalType_RoundTrip(t *testing.T) {
	types := []stableast.Type{
		stableast.Primitive{Value: "i32"},
		stableast.Array{Value: stableast.Primitive{Value: "string"}},
		stableast.Map{Key: "string", Value: stableast.PublicKey{}},
		stableast.Object{Fields: []stableast.ObjectField{{Name: "x", Type: stableast.Primitive{Value: "number"}}}},
		stableast.ForeignRecord{Collection: "Tag"},
		stableast.ContractRef{Contract: "Tag"},
		stableast.Record{},
	}

	for _, ty := range types {
		data, err := json.Marshal(ty)
		require.NoError(t, err)

		decoded, err := stableast.UnmarshalType(data)
		require.NoError(t, err)
		require.Equal(t, ty, decoded)
	}
}

func TestUnmarshalType_UnknownKind(t *testing.T) {
	_, err := stableast.UnmarshalType([]byte(`{"kind":"bogus"}`))
	require.Error(t, err)
}
