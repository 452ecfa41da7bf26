package vm

import (
	"context"

	"github.com/polylang/polylang/ir"
)

// Request is one host-driven run (spec §5 "the caller invokes
// run(this_json, args_json, generate_proof)").
type Request struct {
	Unit *ir.Unit
	This map[string]any // decoded `this_json`; nil for a free function
	Args []any          // decoded `args_json`, positional
	// PublicKey is the calling identity `ctx.publicKey` resolves to
	// (spec §9): a `{"x":..., "y":...}` pair in the same shape the ABI
	// decodes a PublicKey-typed field into. Nil for a call with no
	// authenticated caller.
	PublicKey     map[string]any
	GenerateProof bool
}

type publicKeyCtxKey struct{}

// WithPublicKey attaches the caller's signing identity to ctx. The
// library surface's run(this_json, args_json, generate_proof) (spec
// §6) has no slot for it, since it belongs to the host's transaction
// envelope rather than the program's JSON inputs; callers that need
// `ctx.publicKey` to resolve to something (miden-run, the prover
// service) thread it through the context instead.
func WithPublicKey(ctx context.Context, pubKey map[string]any) context.Context {
	return context.WithValue(ctx, publicKeyCtxKey{}, pubKey)
}

// PublicKeyFromContext retrieves the identity WithPublicKey attached,
// or nil if none was set.
func PublicKeyFromContext(ctx context.Context) map[string]any {
	pk, _ := ctx.Value(publicKeyCtxKey{}).(map[string]any)
	return pk
}

// Result is the VM's raw output, before the abi package's host driver
// re-serializes it into the wire Output shape (spec §4.6 point 6).
type Result struct {
	This           map[string]any
	Value          any // the entry point's return value, if any
	Logs           []any
	SelfDestructed bool
	ReadAuth       bool
	CycleCount     int
	Proof          []byte
}

// Engine is the injected proof-generating VM collaborator (spec §1:
// out of this module's scope). The host driver in package abi only
// depends on this interface; ReferenceEngine below is a local
// tree-walking implementation useful for tests and for running without
// a real prover attached, not a Miden-compatible trace generator.
type Engine interface {
	Execute(ctx context.Context, req Request) (*Result, error)
}
