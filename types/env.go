// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package types

import "github.com/polylang/polylang/stableast"

// env is a lexical scope: parameters and `let` bindings visible to the
// body pass. Scopes nest one per block so a shadowing `let` inside an
// `if`/`while`/`for` body does not leak outward.
type env struct {
	vars    map[string]stableast.Type
	parent  *env
	thisObj *stableast.Object // non-nil inside a method/constructor body
}

func (e *env) child() *env {
	return &env{vars: map[string]stableast.Type{}, parent: e, thisObj: e.thisObj}
}

func (e *env) define(name string, t stableast.Type) {
	e.vars[name] = t
}

func (e *env) lookup(name string) (stableast.Type, bool) {
	for s := e; s != nil; s = s.parent {
		if t, ok := s.vars[name]; ok {
			return t, true
		}
	}

	return nil, false
}
