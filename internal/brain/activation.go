package brain

// DefaultPriority is assigned to activations constructed without an
// explicit priority. Lower values are serviced sooner; 999 marks
// low-urgency background work.
const DefaultPriority = 999

// Args is the argument mapping carried by an activation.
// Keys are strings, values are arbitrary; insertion order is irrelevant.
type Args map[string]any

// Activation is the unit of work queued and dispatched by a Brain: a
// priority, a target cell name, and an argument mapping.
//
// Activations are immutable once constructed. They are produced by an
// external caller (the start signal) or by an executing cell (a
// follow-on), consumed exactly once by the dispatch loop, then discarded.
type Activation struct {
	Priority int
	Cell     string
	Args     Args
}

// NewActivation builds an activation targeting the named cell at
// DefaultPriority.
func NewActivation(cell string, args Args) Activation {
	return Activation{Priority: DefaultPriority, Cell: cell, Args: args}
}

// Signal is a follow-on emitted by an executing cell: either a bare cell
// name or a full activation. A bare name inherits the priority of the
// activation being executed, so a chain of same-priority work stays
// co-prioritized; a full activation overrides it.
type Signal struct {
	name string
	act  *Activation
}

// Next returns a bare-name signal for the named cell.
func Next(name string) Signal {
	return Signal{name: name}
}

// Forward returns a signal carrying a full activation, including its own
// priority and arguments.
func Forward(act Activation) Signal {
	return Signal{act: &act}
}

// resolve normalizes the signal into an activation, stamping bare names
// with the inherited priority.
func (s Signal) resolve(inherited int) Activation {
	if s.act != nil {
		return *s.act
	}
	return Activation{Priority: inherited, Cell: s.name}
}
