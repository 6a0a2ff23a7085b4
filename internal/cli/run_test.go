package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/agraph/internal/brain"
)

// newTestCommand builds a bare command with captured writers, standing in
// for the cobra plumbing runFlow normally receives.
func newTestCommand(stdout, stderr *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetContext(context.Background())
	return cmd
}

func TestRunFlow_BoomGolden(t *testing.T) {
	var stdout, stderr bytes.Buffer
	opts := &RunOptions{
		RootOptions: &RootOptions{Format: "json"},
		Tokens:      brain.NewFixedGenerator("run-0001"),
	}

	err := runFlow(opts, "testdata/boom.yaml", newTestCommand(&stdout, &stderr))
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "run_boom", stdout.Bytes())
}

func TestRunFlow_RelayGolden(t *testing.T) {
	var stdout, stderr bytes.Buffer
	opts := &RunOptions{
		RootOptions: &RootOptions{Format: "json"},
		Tokens:      brain.NewFixedGenerator("run-0002"),
	}

	err := runFlow(opts, "testdata/relay.yaml", newTestCommand(&stdout, &stderr))
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "run_relay", stdout.Bytes())
}

func TestRunFlow_TextOutput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	opts := &RunOptions{
		RootOptions: &RootOptions{Format: "text"},
	}

	err := runFlow(opts, "testdata/boom.yaml", newTestCommand(&stdout, &stderr))
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "Boom")
	assert.Contains(t, stdout.String(), "outcome: interrupted, dispatches: 2")
}

func TestRunFlow_WithConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "agraph.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("idle_timeout_seconds = 1\nqueue_capacity = 5\n"), 0o644))

	var stdout, stderr bytes.Buffer
	opts := &RunOptions{
		RootOptions: &RootOptions{Format: "text"},
		Config:      cfgPath,
	}

	err := runFlow(opts, "testdata/boom.yaml", newTestCommand(&stdout, &stderr))
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "outcome: interrupted")
}

func TestRunFlow_MissingFlowFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	opts := &RunOptions{RootOptions: &RootOptions{Format: "text"}}

	err := runFlow(opts, filepath.Join(t.TempDir(), "nope.yaml"), newTestCommand(&stdout, &stderr))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunFlow_MissingConfigFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	opts := &RunOptions{
		RootOptions: &RootOptions{Format: "text"},
		Config:      filepath.Join(t.TempDir(), "nope.toml"),
	}

	err := runFlow(opts, "testdata/boom.yaml", newTestCommand(&stdout, &stderr))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunFlow_DuplicateCellNames(t *testing.T) {
	flowPath := filepath.Join(t.TempDir(), "dup.yaml")
	require.NoError(t, os.WriteFile(flowPath, []byte(`
version: 1
cells:
  - kind: print
    name: twin
  - kind: print
    name: twin
start:
  cell: twin
  args:
    data: Boom
`), 0o644))

	var stdout, stderr bytes.Buffer
	opts := &RunOptions{RootOptions: &RootOptions{Format: "text"}}

	err := runFlow(opts, flowPath, newTestCommand(&stdout, &stderr))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.True(t, brain.IsDuplicate(err))
}

func TestRunCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	runCmd, _, err := cmd.Find([]string{"run"})
	require.NoError(t, err)

	configFlag := runCmd.Flags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}
