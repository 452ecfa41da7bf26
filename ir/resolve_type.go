package ir

import (
	"github.com/polylang/polylang/ast"
	"github.com/polylang/polylang/stableast"
	"github.com/polylang/polylang/types"
)

// resolveTypeExpr mirrors stableast.Elaborate's own named-type
// resolution for a parsed `let`/`for`-init annotation: lowering needs a
// concrete stableast.Type to thread as a literal-defaulting hint, the
// same information types.Check already derived once during the
// declaration pass, recomputed here because that pass doesn't expose a
// per-annotation resolver.
func resolveTypeExpr(t *ast.TypeExpr, schema *types.Schema) stableast.Type {
	var base stableast.Type

	switch {
	case t.Map != nil:
		base = stableast.Map{Key: t.Map.Key, Value: resolveTypeExpr(t.Map.Value, schema)}
	case t.Object != nil:
		fields := make([]stableast.ObjectField, 0, len(t.Object.Fields))
		for _, f := range t.Object.Fields {
			fields = append(fields, stableast.ObjectField{Name: f.Name.Value, Type: resolveTypeExpr(&f.Type, schema)})
		}

		base = stableast.Object{Fields: fields}
	case t.Named != nil:
		base = resolveNamedType(t.Named.Name, schema)
	}

	if t.Array {
		return stableast.Array{Value: base}
	}

	return base
}

func resolveNamedType(name string, schema *types.Schema) stableast.Type {
	switch name {
	case "PublicKey":
		return stableast.PublicKey{}
	case "Record":
		return stableast.Record{}
	case "string", "boolean", "bytes", "number", "i32", "u32", "i64", "u64", "f32", "f64":
		return stableast.Primitive{Value: name}
	}

	if schema != nil {
		if _, ok := schema.Contracts[name]; ok {
			return stableast.ContractRef{Contract: name}
		}
	}

	return stableast.ContractRef{Contract: name}
}
