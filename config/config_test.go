package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/polylang/polylang/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "polylang.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prover_url: https://prover.example\n"), 0o600))

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	require.Equal(t, "https://prover.example", cfg.ProverURL)
	require.Equal(t, config.Default().LogLevel, cfg.LogLevel)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "polylang.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: info\n"), 0o600))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log_level", "debug", "")
	require.NoError(t, flags.Parse([]string{"--log_level=debug"}))

	cfg, err := config.Load(path, flags)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "polylang.yaml")
	require.NoError(t, os.WriteFile(path, []byte("generate_proof: false\n"), 0o600))

	t.Setenv("POLYLANG_GENERATE_PROOF", "true")

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	require.True(t, cfg.GenerateProof)
}
