// Package flowfile loads YAML flow definitions for the CLI runner: the
// cells to register and the start activation that seeds the queue. Flow
// files are demo wiring, not part of the engine core - embedders
// register cells programmatically.
package flowfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the only flow file version this build understands.
const CurrentVersion = 1

// Kinds of cells a flow file may declare.
const (
	KindPrint = "print"
	KindRelay = "relay"
)

// Flow describes one runnable wiring: cell declarations plus the start
// activation. The start activation always carries priority 0 (the run
// entry contract), so the file has no priority field.
type Flow struct {
	Version int        `yaml:"version"`
	Cells   []CellSpec `yaml:"cells"`
	Start   StartSpec  `yaml:"start"`
}

// CellSpec declares one cell to register before the run.
type CellSpec struct {
	Kind string   `yaml:"kind"`
	Name string   `yaml:"name,omitempty"` // optional explicit registry name
	To   []string `yaml:"to,omitempty"`   // relay targets
}

// StartSpec is the seed activation.
type StartSpec struct {
	Cell string         `yaml:"cell"`
	Args map[string]any `yaml:"args,omitempty"`
}

// Load reads and validates a flow file.
func Load(path string) (*Flow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("flow load failed (%s): %w", path, err)
	}
	flow, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("flow invalid (%s): %w", path, err)
	}
	return flow, nil
}

// Parse unmarshals and validates flow file content.
func Parse(data []byte) (*Flow, error) {
	var flow Flow
	if err := yaml.Unmarshal(data, &flow); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := flow.Validate(); err != nil {
		return nil, err
	}
	return &flow, nil
}

// Validate checks structural rules the runner depends on. Name
// collisions are left to the registry, which owns that invariant.
func (f *Flow) Validate() error {
	if f.Version != CurrentVersion {
		return fmt.Errorf("unsupported flow version %d (want %d)", f.Version, CurrentVersion)
	}
	if len(f.Cells) == 0 {
		return fmt.Errorf("flow declares no cells")
	}
	for i, spec := range f.Cells {
		switch spec.Kind {
		case KindPrint:
			if len(spec.To) > 0 {
				return fmt.Errorf("cells[%d]: print takes no targets", i)
			}
		case KindRelay:
			if len(spec.To) == 0 {
				return fmt.Errorf("cells[%d]: relay requires at least one target", i)
			}
		default:
			return fmt.Errorf("cells[%d]: unknown cell kind %q", i, spec.Kind)
		}
	}
	if f.Start.Cell == "" {
		return fmt.Errorf("flow declares no start cell")
	}
	return nil
}
