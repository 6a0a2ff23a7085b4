package brain

import (
	"context"
	"errors"
)

// ErrHalt is the termination signal. A cell returns it from Activate to
// request a clean stop of the dispatch loop. It is control flow, not a
// failure: the loop swallows it and finishes with OutcomeInterrupted.
var ErrHalt = errors.New("brain: halt")

// Cell is a named, pluggable handler driven by a Brain.
//
// Activate consumes the activation's arguments and returns zero or more
// follow-on signals, or ErrHalt to stop the loop. Any other error
// propagates out of Run unhandled; the Brain performs no retry and no
// per-cell fault isolation.
//
// A cell must not add, remove, or rename registry entries as a side
// effect of Activate.
type Cell interface {
	// CellType is the type tag identifying the concrete kind of handler.
	// It seeds default registry names of the form "<type>/<ordinal>".
	CellType() string

	// CellName is the explicit name to register under. Empty string lets
	// the registry derive a default name from CellType.
	CellName() string

	Activate(ctx context.Context, args Args) ([]Signal, error)
}

// TerminalCellName is the name of the built-in terminal cell, present in
// every registry from construction onward. Dispatching it stops the loop.
const TerminalCellName = "end"

// endCell is the sole clean-shutdown primitive: it halts regardless of
// arguments.
type endCell struct{}

func (endCell) CellType() string { return TerminalCellName }
func (endCell) CellName() string { return TerminalCellName }

func (endCell) Activate(context.Context, Args) ([]Signal, error) {
	return nil, ErrHalt
}
