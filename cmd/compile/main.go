// Command compile is spec §6's `compile` CLI: "reads source from
// standard input, accepts `contract:<Name> function:<name>` or
// `function:<name>` selectors on the command line, writes the emitted
// assembly plus an inline `# ABI: {…}` magic comment to standard
// output. Exit code 0 on success; non-zero with a single-line
// diagnostic on failure."
//
// It also exposes two of spec §6's other library entries as
// subcommands: `validate` (`validate_set`) and `gen-js`
// (`generate_js_contract`), both operating on the same stdin source.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/polylang/polylang/ast"
	"github.com/polylang/polylang/codegen"
	"github.com/polylang/polylang/config"
	"github.com/polylang/polylang/ir"
	"github.com/polylang/polylang/jscontract"
	"github.com/polylang/polylang/stableast"
	"github.com/polylang/polylang/types"
	"github.com/polylang/polylang/validator"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("compile failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var showVersion bool
	var configPath string

	cmd := &cobra.Command{
		Use:           "compile [contract:<Name>] function:<name>",
		Short:         "Compile a Polylang source read from stdin to VM assembly",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), stableast.SchemaVersion)
				return nil
			}

			cfg, err := loadConfig(configPath, cmd.Flags())
			if err != nil {
				return err
			}

			configureLogging(cfg)

			if len(args) == 0 {
				return fmt.Errorf("a function:<name> selector is required")
			}

			contractName, funcName, err := parseSelectors(args)
			if err != nil {
				return err
			}

			src, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}

			out, err := compile(string(src), contractName, funcName)
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), out)

			return err
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML config file (koanf: file -> env -> flags)")
	cmd.Flags().BoolVar(&showVersion, "version", false, "print the Stable AST schema version and exit")

	cmd.AddCommand(newValidateCmd(), newGenJSCmd())

	return cmd
}

// loadConfig layers config.Load's defaults/file/env sources under the
// command's own flag set, the way holomush-holomush's root command
// feeds its persistent flags into koanf's posflag provider.
func loadConfig(path string, flags *pflag.FlagSet) (config.Config, error) {
	return config.Load(path, flags)
}

func configureLogging(cfg config.Config) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	slog.SetLogLoggerLevel(level)
}

// newValidateCmd wires `validate_set` (spec §6): validate a JSON value
// against one contract's declared shape, no code execution.
func newValidateCmd() *cobra.Command {
	var dataJSON string

	cmd := &cobra.Command{
		Use:           "validate contract:<Name>",
		Short:         "Validate a JSON value against a contract's declared shape",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contractName := strings.TrimPrefix(args[0], "contract:")

			src, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}

			contract, err := resolveContract(string(src), contractName)
			if err != nil {
				return err
			}

			if err := validator.New().ValidateSet(contract, []byte(dataJSON)); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "ok")

			return nil
		},
	}

	cmd.Flags().StringVar(&dataJSON, "data-json", "{}", "the JSON value to validate")

	return cmd
}

// newGenJSCmd wires `generate_js_contract` (spec §6): emit a standalone
// JS module re-expressing the same shape check for a host with no Go
// runtime.
func newGenJSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gen-js contract:<Name>",
		Short:         "Generate a standalone JS validator module for a contract",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contractName := strings.TrimPrefix(args[0], "contract:")

			src, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}

			contract, err := resolveContract(string(src), contractName)
			if err != nil {
				return err
			}

			out, err := jscontract.Generate(contract)
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), out.Code)

			return err
		},
	}

	return cmd
}

func resolveContract(src, contractName string) (stableast.Contract, error) {
	prog, err := ast.Parse("<stdin>", src)
	if err != nil {
		return stableast.Contract{}, err
	}

	if _, err := types.Check(prog); err != nil {
		return stableast.Contract{}, err
	}

	sa := stableast.Elaborate(prog)

	for _, c := range sa.Contracts {
		if c.Name == contractName {
			return c, nil
		}
	}

	return stableast.Contract{}, fmt.Errorf("no contract named %q", contractName)
}

// parseSelectors accepts either `contract:<Name> function:<name>` or a
// bare `function:<name>` (spec §6).
func parseSelectors(args []string) (contractName, funcName string, err error) {
	for _, a := range args {
		switch {
		case strings.HasPrefix(a, "contract:"):
			contractName = strings.TrimPrefix(a, "contract:")
		case strings.HasPrefix(a, "function:"):
			funcName = strings.TrimPrefix(a, "function:")
		default:
			return "", "", fmt.Errorf("unrecognized selector %q", a)
		}
	}

	if funcName == "" {
		return "", "", fmt.Errorf("a function:<name> selector is required")
	}

	return contractName, funcName, nil
}

func compile(src, contractName, funcName string) (string, error) {
	prog, err := ast.Parse("<stdin>", src)
	if err != nil {
		return "", err
	}

	if _, err := types.Check(prog); err != nil {
		return "", err
	}

	schema, err := types.Declare(prog)
	if err != nil {
		return "", err
	}

	unit, err := ir.Lower(schema, prog, contractName, funcName)
	if err != nil {
		return "", err
	}

	out, err := codegen.Generate(unit)
	if err != nil {
		return "", err
	}

	return out.Assembly, nil
}
