// Package cells provides the concrete cell implementations wired by the
// CLI runner and reused in tests. The engine core treats them like any
// other Cell; nothing here is required for embedding a Brain.
package cells

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/roach88/agraph/internal/brain"
)

// PrintCell writes its "data" argument to a writer and follows on to the
// terminal cell. A missing "data" argument is a cell failure and
// propagates out of the run.
type PrintCell struct {
	Name string    // optional explicit registry name
	W    io.Writer // defaults to os.Stdout
}

func (c *PrintCell) CellType() string { return "print" }
func (c *PrintCell) CellName() string { return c.Name }

func (c *PrintCell) Activate(_ context.Context, args brain.Args) ([]brain.Signal, error) {
	data, ok := args["data"]
	if !ok {
		return nil, errors.New(`print: missing "data" argument`)
	}
	w := c.W
	if w == nil {
		w = os.Stdout
	}
	if _, err := fmt.Fprintln(w, data); err != nil {
		return nil, fmt.Errorf("print: %w", err)
	}
	return []brain.Signal{brain.Next(brain.TerminalCellName)}, nil
}

// RelayCell emits a fixed list of bare-name follow-ons in order. Bare
// names inherit the priority of the activation being relayed, so a relay
// chain stays co-prioritized with the activation that entered it.
type RelayCell struct {
	Name string   // optional explicit registry name
	To   []string // target cell names, emitted in order
}

func (c *RelayCell) CellType() string { return "relay" }
func (c *RelayCell) CellName() string { return c.Name }

func (c *RelayCell) Activate(context.Context, brain.Args) ([]brain.Signal, error) {
	signals := make([]brain.Signal, len(c.To))
	for i, target := range c.To {
		signals[i] = brain.Next(target)
	}
	return signals, nil
}
