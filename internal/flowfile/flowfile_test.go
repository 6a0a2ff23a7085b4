package flowfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validFlow = `
version: 1
cells:
  - kind: print
    name: greeter
start:
  cell: greeter
  args:
    data: Boom
`

func TestParse_Valid(t *testing.T) {
	flow, err := Parse([]byte(validFlow))
	require.NoError(t, err)

	assert.Equal(t, 1, flow.Version)
	require.Len(t, flow.Cells, 1)
	assert.Equal(t, KindPrint, flow.Cells[0].Kind)
	assert.Equal(t, "greeter", flow.Cells[0].Name)
	assert.Equal(t, "greeter", flow.Start.Cell)
	assert.Equal(t, "Boom", flow.Start.Args["data"])
}

func TestParse_RelayTargets(t *testing.T) {
	flow, err := Parse([]byte(`
version: 1
cells:
  - kind: relay
    name: fanout
    to: [a, b]
  - kind: print
    name: a
  - kind: print
    name: b
start:
  cell: fanout
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, flow.Cells[0].To)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			"wrong version",
			"version: 2\ncells:\n  - kind: print\nstart:\n  cell: print\n",
			"unsupported flow version",
		},
		{
			"no cells",
			"version: 1\nstart:\n  cell: print\n",
			"declares no cells",
		},
		{
			"unknown kind",
			"version: 1\ncells:\n  - kind: mystery\nstart:\n  cell: mystery\n",
			"unknown cell kind",
		},
		{
			"relay without targets",
			"version: 1\ncells:\n  - kind: relay\nstart:\n  cell: relay\n",
			"relay requires at least one target",
		},
		{
			"print with targets",
			"version: 1\ncells:\n  - kind: print\n    to: [x]\nstart:\n  cell: print\n",
			"print takes no targets",
		},
		{
			"no start cell",
			"version: 1\ncells:\n  - kind: print\n",
			"declares no start cell",
		},
		{
			"malformed yaml",
			"version: [\n",
			"parse yaml",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validFlow), 0o644))

	flow, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "greeter", flow.Start.Cell)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
