// Command miden-run is spec §6's `miden-run` CLI. It reads assembly from
// standard input and takes --this-json <value> and --advice-tape-json
// <array> (the entry point's JSON arguments), plus --public-key-json,
// --prove, --prover-url and --config. It prints `this_json: <value>` and
// `result_json: <value>` lines on success and exits non-zero on a VM
// abort. There is no --abi flag: the ABI descriptor is always rebuilt
// from the `# IR: {...}` comment in the assembly.
//
// The real Miden VM is an external collaborator (spec §1 scope); this
// binary drives the bundled vm.ReferenceEngine instead, recovering the
// lowered ir.Unit from the `# IR: {...}` comment codegen emits alongside
// `# ABI: {...}` (see codegen.Generate).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/polylang/polylang/abi"
	"github.com/polylang/polylang/config"
	"github.com/polylang/polylang/ir"
	"github.com/polylang/polylang/proverclient"
	"github.com/polylang/polylang/vm"
)

var abiCommentRe = regexp.MustCompile(`(?m)^# IR: (.+)$`)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("miden-run failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var thisJSON, argsJSON, pubKeyJSON, configPath, proverURL string
	var useProver bool

	cmd := &cobra.Command{
		Use:           "miden-run",
		Short:         "Run a compiled entry point's assembly against the reference engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}

			configureLogging(cfg)

			asm, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}

			ctx := cmd.Context()

			if pubKeyJSON != "" {
				var pubKey map[string]any
				if err := json.Unmarshal([]byte(pubKeyJSON), &pubKey); err != nil {
					return fmt.Errorf("decode --public-key-json: %w", err)
				}

				ctx = vm.WithPublicKey(ctx, pubKey)
			}

			if useProver {
				url := proverURL
				if url == "" {
					url = cfg.ProverURL
				}

				resp, err := proveRemote(ctx, url, string(asm), []byte(thisJSON), []byte(argsJSON))
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "this_json: %s\n", string(resp.New.This))
				fmt.Fprintf(cmd.OutOrStdout(), "result_json: %s\n", mustJSON(resp.Result))

				return nil
			}

			out, err := run(ctx, string(asm), []byte(thisJSON), []byte(argsJSON), cfg.GenerateProof)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "this_json: %s\n", mustJSON(out.This))
			fmt.Fprintf(cmd.OutOrStdout(), "result_json: %s\n", mustJSON(out.Result))

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "optional YAML config file (koanf: file -> env -> flags)")
	cmd.Flags().StringVar(&thisJSON, "this-json", "{}", "the record's JSON value before the run")
	cmd.Flags().StringVar(&argsJSON, "advice-tape-json", "[]", "the entry point's JSON arguments")
	cmd.Flags().StringVar(&pubKeyJSON, "public-key-json", "", `the calling identity ctx.publicKey resolves to, e.g. {"x":"...","y":"..."}`)
	cmd.Flags().BoolVar(&useProver, "prove", false, "dispatch to the external prover service (POST /prove) instead of the local reference engine")
	cmd.Flags().StringVar(&proverURL, "prover-url", "", "override the configured prover service base URL")

	return cmd
}

func configureLogging(cfg config.Config) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	slog.SetLogLoggerLevel(level)
}

// proveRemote dispatches to the external prover service (spec §6 `POST
// /prove`) instead of running the bundled reference engine, recovering
// the same ABI descriptor the local path builds from the `# IR: {...}`
// comment so the service sees the identical contract shape.
func proveRemote(ctx context.Context, baseURL, asm string, thisJSON, argsJSON []byte) (*proverclient.ProveResponse, error) {
	unit, err := unitFromAssembly(asm)
	if err != nil {
		return nil, err
	}

	abiJSON, err := json.Marshal(abi.Build(unit))
	if err != nil {
		return nil, fmt.Errorf("encode abi: %w", err)
	}

	client := proverclient.New(baseURL)

	return client.Prove(ctx, proverclient.ProveRequest{
		MidenCode: asm,
		ABI:       abiJSON,
		This:      thisJSON,
		Args:      argsJSON,
	})
}

func unitFromAssembly(asm string) (*ir.Unit, error) {
	m := abiCommentRe.FindStringSubmatch(asm)
	if m == nil {
		return nil, fmt.Errorf("no '# IR: {...}' comment found in the given assembly")
	}

	var unit ir.Unit
	if err := json.Unmarshal([]byte(m[1]), &unit); err != nil {
		return nil, fmt.Errorf("decode IR comment: %w", err)
	}

	return &unit, nil
}

func run(ctx context.Context, asm string, thisJSON, argsJSON []byte, generateProof bool) (*abi.Output, error) {
	unit, err := unitFromAssembly(asm)
	if err != nil {
		return nil, err
	}

	marshaller := abi.Marshaller{Engine: vm.ReferenceEngine{}}

	return marshaller.Run(ctx, unit, thisJSON, argsJSON, generateProof)
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}

	return string(b)
}
