package ir

import (
	"encoding/json"

	"github.com/polylang/polylang/stableast"
)

// UnmarshalJSON is needed only because Unit, unlike every other ir
// node, carries stableast.Type-typed fields (Return, each Param's Type,
// each ThisFields entry's Type) — an interface encoding/json cannot
// allocate a concrete value for on its own. Every other ir node is
// decoded by the default struct-tag path.
//
// This exists so `miden-run` (spec §6) can round-trip the Unit a
// `compile` run produced through the `# IR: {...}` comment codegen
// emits alongside `# ABI: {...}`, letting the reference engine execute
// a previously compiled entry point without re-parsing source — the
// real Miden VM, an external collaborator (spec §1), would only ever
// need the assembly text and the ABI comment.
func (u *Unit) UnmarshalJSON(data []byte) error {
	var shadow struct {
		Contract   string          `json:"contract"`
		Name       string          `json:"name"`
		Params     []paramShadow   `json:"params"`
		Return     json.RawMessage `json:"return"`
		ThisFields []fieldShadow   `json:"thisFields"`
		Body       []Stmt          `json:"body"`
	}

	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}

	u.Contract = shadow.Contract
	u.Name = shadow.Name
	u.Body = shadow.Body

	u.Params = make([]Param, len(shadow.Params))
	for i, p := range shadow.Params {
		t, err := decodeType(p.Type)
		if err != nil {
			return err
		}

		u.Params[i] = Param{Name: p.Name, Type: t}
	}

	ret, err := decodeType(shadow.Return)
	if err != nil {
		return err
	}

	u.Return = ret

	if shadow.ThisFields != nil {
		u.ThisFields = make([]stableast.Field, len(shadow.ThisFields))

		for i, f := range shadow.ThisFields {
			t, err := decodeType(f.Type)
			if err != nil {
				return err
			}

			u.ThisFields[i] = stableast.Field{
				Name: f.Name, Type: t, Required: f.Required, Directives: f.Directives,
			}
		}
	}

	return nil
}

type paramShadow struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
}

type fieldShadow struct {
	Name       string                `json:"name"`
	Type       json.RawMessage       `json:"type"`
	Required   bool                  `json:"required"`
	Directives []stableast.Directive `json:"directives,omitempty"`
}

func decodeType(raw json.RawMessage) (stableast.Type, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	return stableast.UnmarshalType(raw)
}
