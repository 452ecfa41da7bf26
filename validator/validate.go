package validator

import (
	"encoding/json"
	"sync"

	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/samber/oops"

	"github.com/polylang/polylang/stableast"
)

// Validator caches one compiled schema per contract name, mirroring the
// compile-once-use-many pattern the corpus already applies to its own
// manifest schema (sync.Once guarding a package-level compile).
type Validator struct {
	mu      sync.Mutex
	schemas map[string]*jschema.Schema
}

// New returns a ready-to-use Validator with an empty schema cache.
func New() *Validator {
	return &Validator{schemas: map[string]*jschema.Schema{}}
}

// ValidateSet is `validate_set(contract_stable_ast, data_json)` (spec
// §6): pure type-check of data against contract's declared shape, no
// code execution. Returns nil iff data is well-typed under contract.
func (val *Validator) ValidateSet(contract stableast.Contract, data []byte) error {
	sch, err := val.compiled(contract)
	if err != nil {
		return oops.Code("VALIDATOR_COMPILE_FAILED").Wrap(err)
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return oops.Code("VALIDATOR_INVALID_JSON").Wrap(err)
	}

	if err := sch.Validate(value); err != nil {
		return oops.Code("VALIDATOR_SCHEMA_MISMATCH").Wrap(err)
	}

	return nil
}

func (val *Validator) compiled(contract stableast.Contract) (*jschema.Schema, error) {
	val.mu.Lock()
	defer val.mu.Unlock()

	if sch, ok := val.schemas[contract.Name]; ok {
		return sch, nil
	}

	doc := jsonSchema(contract)

	c := jschema.NewCompiler()
	if err := c.AddResource(contract.Name+".json", doc); err != nil {
		return nil, err
	}

	sch, err := c.Compile(contract.Name + ".json")
	if err != nil {
		return nil, err
	}

	val.schemas[contract.Name] = sch

	return sch, nil
}
