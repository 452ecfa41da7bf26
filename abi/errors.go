package abi

import "github.com/samber/oops"

// Error codes for the ABI taxonomy spec §7 names, plus the out-of-range
// split SPEC_FULL.md §C.6 calls for: a numeric value that parses but
// doesn't fit its declared sized integer type is tagged distinctly from
// a JSON shape that doesn't match the declared type at all, so a host
// can special-case "doesn't fit" from "wrong shape".
const (
	ErrTypeMismatch    = "ABI_TYPE_MISMATCH"
	ErrRequiredMissing = "ABI_REQUIRED_MISSING"
	ErrExtraField      = "ABI_EXTRA_FIELD"
	ErrOutOfRange      = "ABI_OUT_OF_RANGE"
)

func mismatch(format string, args ...any) error {
	return oops.Code(ErrTypeMismatch).Errorf(format, args...)
}
