// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"github.com/samber/oops"

	"github.com/polylang/polylang/token"
)

// Error codes for the seven conditions spec §4.4 enumerates, one per
// error: unknown identifier, type mismatch, non-homogeneous array,
// disallowed type in parameter position, unknown contract reference,
// wrong arity, assignment to non-lvalue.
const (
	ErrUnknownIdentifier   = "TYPE_UNKNOWN_IDENTIFIER"
	ErrTypeMismatch        = "TYPE_MISMATCH"
	ErrNonHomogeneousArray = "TYPE_NON_HOMOGENEOUS_ARRAY"
	ErrDisallowedParamType = "TYPE_DISALLOWED_PARAM_TYPE"
	ErrUnknownContract     = "TYPE_UNKNOWN_CONTRACT"
	ErrWrongArity          = "TYPE_WRONG_ARITY"
	ErrAssignNonLvalue     = "TYPE_ASSIGN_NON_LVALUE"
	// errBreakOutsideLoop is not one of spec §4.4's seven named
	// conditions; it is a separate structural check this implementation
	// adds (SPEC_FULL.md scope: `break` must stay inside a loop body).
	errBreakOutsideLoop = "TYPE_BREAK_OUTSIDE_LOOP"
)

// newErr builds a position-carrying, code-tagged semantic error. Every
// type-checking failure goes through this helper, tagged with one of the
// seven codes spec §4.4 names (spec §7 "Semantic") or with
// errBreakOutsideLoop.
func newErr(code string, pos token.Pos, format string, args ...any) error {
	return oops.Code(code).With("pos", pos.String()).Errorf(format, args...)
}
