package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abw750/ferryAPI3/internal/adapters/cli"
)

func TestNewRootCommand_RegistersSubcommands(t *testing.T) {
	root := cli.NewRootCommand()

	names := make(map[string]bool)
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}

	assert.True(t, names["snapshot"])
	assert.True(t, names["serve"])
}

func TestNewRootCommand_HasConfigFlag(t *testing.T) {
	root := cli.NewRootCommand()

	flag := root.PersistentFlags().Lookup("config")
	assert.NotNil(t, flag)
}

func TestNewSnapshotCommand_RouteFlagIsRequired(t *testing.T) {
	cmd := cli.NewSnapshotCommand()
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	assert.Error(t, err)
}
