package stableast_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polylang/polylang/stableast"
)

func TestCompatibleVersion(t *testing.T) {
	require.True(t, stableast.CompatibleVersion(stableast.SchemaVersion))
	require.True(t, stableast.CompatibleVersion("v1.0.0"))
	require.False(t, stableast.CompatibleVersion("v2.0.0"))
	require.False(t, stableast.CompatibleVersion("not-a-version"))
}
