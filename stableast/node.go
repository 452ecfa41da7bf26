// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package stableast

import "encoding/json"

// NodeKind is the closed set of root-level `kind` tags.
type NodeKind string

const (
	NodeContract NodeKind = "contract"
	NodeFunction NodeKind = "function"
)

// Directive is `@name(args...)` as attached to a contract, field, or
// method.
type Directive struct {
	Name string   `json:"name"`
	Args []string `json:"args,omitempty"`
}

// Param is one function/method parameter.
type Param struct {
	Name     string `json:"name"`
	Type     Type   `json:"type"`
	Required bool   `json:"required"`
}

// Field is one contract field.
type Field struct {
	Name       string      `json:"name"`
	Type       Type        `json:"type"`
	Required   bool        `json:"required"`
	Directives []Directive `json:"directives,omitempty"`
}

// Index is `{kind:"index", fields:[...], direction:"asc"|"desc"}`
// (SPEC_FULL.md §C.3 addition; informational metadata only, spec §3).
type Index struct {
	Fields    []string `json:"fields"`
	Direction string   `json:"direction"`
}

// Method is a contract function operating on `this`.
type Method struct {
	Name       string      `json:"name"`
	Params     []Param     `json:"params"`
	Return     Type        `json:"return,omitempty"`
	Directives []Directive `json:"directives,omitempty"`
	// Code is the exact captured source text of the body (spec §4.3
	// "Methods carry... the captured source code").
	Code string `json:"code"`
}

// Contract is `{kind:"contract", name, fields, methods, indexes,
// directives}`.
type Contract struct {
	Name       string      `json:"name"`
	Fields     []Field     `json:"fields"`
	Methods    []Method    `json:"methods"`
	Indexes    []Index     `json:"indexes,omitempty"`
	Directives []Directive `json:"directives,omitempty"`
}

func (Contract) NodeKind() NodeKind { return NodeContract }

func (c Contract) MarshalJSON() ([]byte, error) {
	type alias Contract

	return json.Marshal(struct {
		Kind NodeKind `json:"kind"`
		alias
	}{NodeContract, alias(c)})
}

// Function is `{kind:"function", name, params, returns, code}`.
type Function struct {
	Name       string      `json:"name"`
	Params     []Param     `json:"params"`
	Return     Type        `json:"return,omitempty"`
	Directives []Directive `json:"directives,omitempty"`
	Code       string      `json:"code"`
}

func (Function) NodeKind() NodeKind { return NodeFunction }

func (f Function) MarshalJSON() ([]byte, error) {
	type alias Function

	return json.Marshal(struct {
		Kind NodeKind `json:"kind"`
		alias
	}{NodeFunction, alias(f)})
}

// Program is the root: an ordered list of contracts and functions.
type Program struct {
	Contracts []Contract `json:"-"`
	Functions []Function `json:"-"`
	// Order preserves root-node ordering across the mixed contract/
	// function sequence, matching spec §3 "Program... An ordered
	// sequence of root nodes".
	Order []NodeKind `json:"-"`
}

// MarshalJSON renders the program as a single ordered JSON array of
// kind-tagged root nodes, interleaving contracts and functions in their
// original source order.
func (p Program) MarshalJSON() ([]byte, error) {
	nodes := make([]any, 0, len(p.Order))

	ci, fi := 0, 0

	for _, k := range p.Order {
		switch k {
		case NodeContract:
			nodes = append(nodes, p.Contracts[ci])
			ci++
		case NodeFunction:
			nodes = append(nodes, p.Functions[fi])
			fi++
		}
	}

	return json.Marshal(nodes)
}
