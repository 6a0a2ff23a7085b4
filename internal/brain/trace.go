package brain

import (
	"sync"
)

// Dispatch is one trace entry: an activation at the moment it was handed
// to its cell.
type Dispatch struct {
	Seq      int
	Cell     string
	Priority int
	Args     Args
}

// Trace is the snapshot of a completed (or in-flight) run: the run token,
// every dispatch in order, and the final outcome.
type Trace struct {
	Token      string
	Outcome    Outcome
	Dispatches []Dispatch
}

// Recorder collects the dispatch trace of a single run for demo output
// and golden tests. Attach one with WithRecorder; the Brain feeds it from
// the dispatch loop and Snapshot may be read once Run has returned.
type Recorder struct {
	mu         sync.Mutex
	token      string
	outcome    Outcome
	dispatches []Dispatch
}

// NewRecorder creates an empty trace recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) begin(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token = token
}

func (r *Recorder) dispatch(act Activation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dispatches = append(r.dispatches, Dispatch{
		Seq:      len(r.dispatches) + 1,
		Cell:     act.Cell,
		Priority: act.Priority,
		Args:     act.Args,
	})
}

func (r *Recorder) finish(outcome Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcome = outcome
}

// Snapshot returns a copy of the recorded trace.
func (r *Recorder) Snapshot() Trace {
	r.mu.Lock()
	defer r.mu.Unlock()

	dispatches := make([]Dispatch, len(r.dispatches))
	copy(dispatches, r.dispatches)
	return Trace{
		Token:      r.token,
		Outcome:    r.outcome,
		Dispatches: dispatches,
	}
}

// MarshalCanonical renders the trace as canonical JSON: object keys
// sorted, strings NFC-normalized, no HTML escaping. Given a fixed token
// generator the output is byte-stable across runs, which is what the
// golden tests compare against.
func (t Trace) MarshalCanonical() ([]byte, error) {
	dispatches := make([]any, len(t.Dispatches))
	for i, d := range t.Dispatches {
		entry := map[string]any{
			"seq":      d.Seq,
			"cell":     d.Cell,
			"priority": d.Priority,
		}
		if d.Args != nil {
			entry["args"] = map[string]any(d.Args)
		}
		dispatches[i] = entry
	}

	return marshalCanonical(map[string]any{
		"token":      t.Token,
		"outcome":    t.Outcome.String(),
		"dispatches": dispatches,
	})
}
