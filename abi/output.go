package abi

import (
	"encoding/hex"

	"github.com/polylang/polylang/vm"
)

// Hashes is `hashes.old`/`hashes.new` (spec §4.6 point 6): the
// commitment over `this` before and after the run, hex-encoded so it
// travels as a plain JSON string.
type Hashes struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// Output is the host-facing result of a run (spec §4.6 point 6):
// "proof (opaque bytes), cycleCount, logs, this (updated record),
// result, hashes.old, hashes.new, selfDestructed, readAuth".
type Output struct {
	Proof          []byte         `json:"proof,omitempty"`
	CycleCount     int            `json:"cycleCount"`
	Logs           []any          `json:"logs"`
	This           map[string]any `json:"this,omitempty"`
	Result         any            `json:"result,omitempty"`
	Hashes         Hashes         `json:"hashes"`
	SelfDestructed bool           `json:"selfDestructed"`
	ReadAuth       bool           `json:"readAuth"`
}

// formatCommitment renders a vm.Commitment as a hex string, the wire
// form `hashes.old`/`hashes.new` travel in.
func formatCommitment(c vm.Commitment) string {
	var buf [len(c) * 32]byte

	for i, f := range c {
		b := f.Bytes()
		copy(buf[i*32:], b[:])
	}

	return hex.EncodeToString(buf[:])
}
