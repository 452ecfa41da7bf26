// Package config layers CLI configuration the way a koanf-based tool
// does: built-in defaults, an optional config file, environment
// variables, then command-line flags, each layer overriding the last.
// No file in the example corpus exercises koanf directly (it only
// appears in go.mod across the pack), so this package is built straight
// against koanf's own documented provider/parser API rather than a
// copied usage site — see DESIGN.md.
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config holds the options the `compile`/`miden-run` CLIs and the
// prover client share (spec §6).
type Config struct {
	ProverURL     string `koanf:"prover_url"`
	GenerateProof bool   `koanf:"generate_proof"`
	LogLevel      string `koanf:"log_level"`
}

// Default returns the built-in base layer, the lowest-priority source.
func Default() Config {
	return Config{
		ProverURL:     "http://localhost:8080",
		GenerateProof: false,
		LogLevel:      "info",
	}
}

// Load layers, in increasing priority: built-in defaults, an optional
// YAML file at path (skipped if path is empty; a path that cannot be
// loaded, a missing file included, fails with CONFIG_FILE_LOAD_FAILED),
// `POLYLANG_`-prefixed environment variables, then any
// flags set on flags.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	defaults := Default()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return Config{}, oops.Code("CONFIG_DEFAULTS_FAILED").Wrap(err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.Code("CONFIG_FILE_LOAD_FAILED").With("path", path).Wrap(err)
		}
	}

	envProvider := env.Provider(".", env.Opt{
		Prefix: "POLYLANG_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ToLower(strings.TrimPrefix(k, "POLYLANG_"))
			return k, v
		},
	})

	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, oops.Code("CONFIG_ENV_LOAD_FAILED").Wrap(err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, oops.Code("CONFIG_FLAG_LOAD_FAILED").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	return cfg, nil
}
