package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	expected := []string{"serve", "merge", "backfill", "reconcile"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "wellbeing-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestMergeCommand_Flags(t *testing.T) {
	flag := mergeCmd.Flags().Lookup("output")
	require.NotNil(t, flag, "merge command should have --output flag")
	assert.Equal(t, "", flag.DefValue)
}

func TestBackfillCommand_Flags(t *testing.T) {
	flag := backfillCmd.Flags().Lookup("path")
	require.NotNil(t, flag, "backfill command should have --path flag")
}

func TestReconcileCommand_Flags(t *testing.T) {
	flag := reconcileCmd.Flags().Lookup("path")
	require.NotNil(t, flag, "reconcile command should have --path flag")
}
