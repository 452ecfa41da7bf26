package abi

import (
	"context"

	"github.com/polylang/polylang/ir"
	"github.com/polylang/polylang/vm"
)

// Marshaller is the host driver spec §4.6 describes: it owns the steps
// around Engine.Execute — decode/validate the caller's JSON, hash the
// record before the run, hand decoded values to the VM collaborator,
// hash the record after the run, and re-assemble the wire Output.
type Marshaller struct {
	Engine vm.Engine
}

// Run drives one synchronous entry-point invocation (spec §5
// "run(this_json, args_json, generate_proof)"). unit must already be
// lowered for the same entry point descriptor was built from.
func (m Marshaller) Run(ctx context.Context, unit *ir.Unit, thisJSON, argsJSON []byte, generateProof bool) (*Output, error) {
	descriptor := Build(unit)

	var this map[string]any

	if unit.Contract != "" {
		decoded, err := DecodeThis(thisJSON, descriptor.This)
		if err != nil {
			return nil, err
		}

		this = decoded
	}

	args, err := DecodeArgs(argsJSON, descriptor.Params)
	if err != nil {
		return nil, err
	}

	oldHash := vm.HashValue(descriptor.ThisType(), this, nil)

	result, err := m.Engine.Execute(ctx, vm.Request{
		Unit: unit, This: this, Args: args, GenerateProof: generateProof,
		PublicKey: vm.PublicKeyFromContext(ctx),
	})
	if err != nil {
		return nil, err
	}

	newHash := vm.HashValue(descriptor.ThisType(), result.This, nil)

	logs := result.Logs
	if logs == nil {
		logs = []any{}
	}

	return &Output{
		Proof:          result.Proof,
		CycleCount:     result.CycleCount,
		Logs:           logs,
		This:           result.This,
		Result:         result.Value,
		Hashes:         Hashes{Old: formatCommitment(oldHash), New: formatCommitment(newHash)},
		SelfDestructed: result.SelfDestructed,
		ReadAuth:       result.ReadAuth,
	}, nil
}
