// Package jscontract supplements spec §6's `generate_js_contract` library
// entry, left undetailed by the distillation (SPEC_FULL.md §C.8): it
// walks the Stable AST the same way package validator does and emits a
// small, fully self-contained JavaScript module that re-expresses the
// required/extra-field check and a top-level type check for hosts with
// no Go runtime. It does not execute contract methods — only the schema
// check.
package jscontract

import (
	"fmt"
	"strings"

	"github.com/polylang/polylang/stableast"
)

// Output is the generated artifact: a single JS module source whose one
// export is `validate`.
type Output struct {
	Code string
}

// Generate emits a JS module exposing `validate(value)`, which throws on
// a missing required field, an extra field, or a type mismatch, and
// otherwise returns the value unchanged. The required/extra-field rules
// match the Go validator's; the type check looks only at each field's
// top-level JSON shape (string, boolean, number, array, object, `{id}`
// reference, `{x, y}` key). Array elements, map values and nested object
// fields are not checked, and sized integers are checked as plain JS
// numbers with no range or integrality test.
func Generate(contract stableast.Contract) (Output, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "// Generated contract validator for %q. Do not edit by hand.\n", contract.Name)
	b.WriteString("export function validate(value) {\n")
	b.WriteString("  if (typeof value !== 'object' || value === null || Array.isArray(value)) {\n")
	fmt.Fprintf(&b, "    throw new TypeError(%q);\n", contract.Name+": expected an object")
	b.WriteString("  }\n\n")

	b.WriteString("  const allowed = new Set([")

	names := make([]string, len(contract.Fields))
	for i, f := range contract.Fields {
		names[i] = f.Name
	}

	for i, n := range names {
		if i > 0 {
			b.WriteString(", ")
		}

		fmt.Fprintf(&b, "%q", n)
	}

	b.WriteString("]);\n")
	b.WriteString("  for (const key of Object.keys(value)) {\n")
	b.WriteString("    if (!allowed.has(key)) {\n")
	fmt.Fprintf(&b, "      throw new TypeError(%q + key + %q);\n", contract.Name+".", " is not declared")
	b.WriteString("    }\n")
	b.WriteString("  }\n\n")

	for _, f := range contract.Fields {
		writeFieldCheck(&b, f)
	}

	b.WriteString("\n  return value;\n")
	b.WriteString("}\n")

	return Output{Code: b.String()}, nil
}

func writeFieldCheck(b *strings.Builder, f stableast.Field) {
	fmt.Fprintf(b, "  // field %s: %s\n", f.Name, jsTypeComment(f.Type))

	if f.Required {
		fmt.Fprintf(b, "  if (!(%q in value)) {\n", f.Name)
		fmt.Fprintf(b, "    throw new TypeError(%q);\n", f.Name+" is required")
		b.WriteString("  }\n")
	}

	fmt.Fprintf(b, "  if (%q in value) {\n", f.Name)
	b.WriteString(indent(jsCheckExpr("value["+quote(f.Name)+"]", f.Type), "    "))
	b.WriteString("  }\n")
}

// jsCheckExpr renders the runtime check for one expression's declared
// type as JS source lines (no trailing newline management needed by the
// caller; indent() handles that).
func jsCheckExpr(expr string, t stableast.Type) string {
	switch tv := t.(type) {
	case stableast.Primitive:
		return jsPrimitiveCheck(expr, tv.Value)
	case stableast.Array:
		return fmt.Sprintf("if (!Array.isArray(%s)) { throw new TypeError(%q); }\n", expr, expr+" must be an array")
	case stableast.Map, stableast.Object, stableast.Record:
		return fmt.Sprintf("if (typeof %s !== 'object' || %s === null) { throw new TypeError(%q); }\n",
			expr, expr, expr+" must be an object")
	case stableast.ContractRef, stableast.ForeignRecord:
		return fmt.Sprintf("if (typeof %s !== 'object' || typeof %s.id !== 'string') { throw new TypeError(%q); }\n",
			expr, expr, expr+" must reference a record by id")
	case stableast.PublicKey:
		return fmt.Sprintf(
			"if (typeof %s !== 'object' || typeof %s.x !== 'string' || typeof %s.y !== 'string') { throw new TypeError(%q); }\n",
			expr, expr, expr, expr+" must be a PublicKey",
		)
	default:
		return ""
	}
}

func jsPrimitiveCheck(expr, family string) string {
	switch family {
	case "string", "bytes":
		return fmt.Sprintf("if (typeof %s !== 'string') { throw new TypeError(%q); }\n", expr, expr+" must be a string")
	case "boolean":
		return fmt.Sprintf("if (typeof %s !== 'boolean') { throw new TypeError(%q); }\n", expr, expr+" must be a boolean")
	default:
		return fmt.Sprintf("if (typeof %s !== 'number') { throw new TypeError(%q); }\n", expr, expr+" must be a number")
	}
}

func jsTypeComment(t stableast.Type) string {
	switch tv := t.(type) {
	case stableast.Primitive:
		return tv.Value
	case stableast.Array:
		return jsTypeComment(tv.Value) + "[]"
	case stableast.Map:
		return "map<" + tv.Key + "," + jsTypeComment(tv.Value) + ">"
	case stableast.ContractRef:
		return "ContractRef<" + tv.Contract + ">"
	case stableast.PublicKey:
		return "PublicKey"
	default:
		return "object"
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}

	return strings.Join(lines, "\n") + "\n"
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "\\'") + "'"
}
