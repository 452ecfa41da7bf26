// Package vm models the spec §4.5/§5 target machine boundary: field
// elements, the Rescue-family commitment hash, and the injected
// vm.Engine the ABI host driver runs an entry point against. The actual
// proof-generating VM is an external collaborator (spec §1 scope); this
// package supplies the field arithmetic and a reference interpreter
// useful for local execution and testing, not a Miden-compatible trace
// generator.
package vm

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// FieldElement is one word of the stack machine's prime field (spec
// §4.5 "Each 'word' is a field element"). The concrete field is
// implementation-defined — spec never pins one — so this uses the
// bn254 scalar field gnark-crypto already exposes field arithmetic for,
// rather than hand-rolling modular arithmetic.
type FieldElement struct {
	v fr.Element
}

// FieldFromUint64 lifts a native integer onto the field, used to encode
// i32/u32/i64/u64 words (spec §4.5 "Layout").
func FieldFromUint64(x uint64) FieldElement {
	var e FieldElement
	e.v.SetUint64(x)

	return e
}

// FieldFromInt64 lifts a signed native integer, using the field's own
// additive inverse for negative values (the "two's-complement
// conventions supplied by a small prelude" spec §4.5 mentions).
func FieldFromInt64(x int64) FieldElement {
	var e FieldElement
	e.v.SetInt64(x)

	return e
}

// FieldFromBytes packs raw bytes (a string/bytes value, or one half of
// a PublicKey coordinate) into a field element for hashing purposes.
func FieldFromBytes(b []byte) FieldElement {
	var e FieldElement
	e.v.SetBytes(b)

	return e
}

func (a FieldElement) Add(b FieldElement) FieldElement {
	var out FieldElement
	out.v.Add(&a.v, &b.v)

	return out
}

func (a FieldElement) Mul(b FieldElement) FieldElement {
	var out FieldElement
	out.v.Mul(&a.v, &b.v)

	return out
}

func (a FieldElement) Equal(b FieldElement) bool {
	return a.v.Equal(&b.v)
}

func (a FieldElement) String() string {
	return a.v.String()
}

func (a FieldElement) Bytes() [32]byte {
	return a.v.Bytes()
}
