package brain

import (
	"fmt"
	"log/slog"
	"sort"
)

// Registry maps cell names to registered cells and derives default names
// from per-type counters.
//
// Cells register exactly once via Add and are never removed or renamed;
// the same instance persists for the registry's whole lifetime. The
// terminal cell "end" is present from construction onward.
//
// Registration is wiring-time work: Add before Run. The dispatch loop
// only reads, so the registry carries no locking of its own.
type Registry struct {
	cells    map[string]Cell
	counters map[string]int // per type tag, feeds default names
	strict   bool
}

// NewRegistry creates a registry holding only the terminal cell. In
// strict mode a lookup miss fails immediately; in lenient mode (the
// default elsewhere) a miss retries the default-instance name first.
func NewRegistry(strict bool) *Registry {
	r := &Registry{
		cells:    make(map[string]Cell),
		counters: make(map[string]int),
		strict:   strict,
	}
	// Fresh map, explicit name: cannot collide.
	_, _ = r.Add(endCell{})
	return r
}

// Add registers a cell under its explicit name, or under a derived
// "<type>/<ordinal>" default when the cell does not name itself. The
// ordinal is the per-type count of previously derived names, so the
// first unnamed instance of a type lands on "<type>/0". Returns the
// name the cell was registered under.
//
// Registering a name that is already taken fails with DUPLICATE_CELL and
// leaves the registry unchanged, the ordinal counter included.
func (r *Registry) Add(c Cell) (string, error) {
	name := c.CellName()
	derived := name == ""
	if derived {
		name = fmt.Sprintf("%s/%d", c.CellType(), r.counters[c.CellType()])
	}
	if _, ok := r.cells[name]; ok {
		return "", newDuplicateError(name)
	}
	r.cells[name] = c
	if derived {
		r.counters[c.CellType()]++
	}
	return name, nil
}

// Lookup resolves a cell by name.
//
// Strict mode: a miss fails with CELL_NOT_FOUND.
//
// Lenient mode: a miss is logged and retried against name+"/0", the
// default name of the first unnamed instance of a type. This lets
// callers address a cell by its type tag alone when exactly one unnamed
// instance of that type exists. CELL_NOT_FOUND surfaces only when the
// retry also misses.
func (r *Registry) Lookup(name string) (Cell, error) {
	if c, ok := r.cells[name]; ok {
		return c, nil
	}
	if r.strict {
		return nil, newNotFoundError(name)
	}

	retry := name + "/0"
	slog.Warn("cell not registered, retrying default instance name",
		"cell", name,
		"retry", retry,
	)
	if c, ok := r.cells[retry]; ok {
		return c, nil
	}
	return nil, newNotFoundError(name)
}

// Contains reports whether a cell is registered under name.
func (r *Registry) Contains(name string) bool {
	_, ok := r.cells[name]
	return ok
}

// Len returns the number of registered cells, the terminal cell included.
func (r *Registry) Len() int {
	return len(r.cells)
}

// Names returns the registered cell names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cells))
	for name := range r.cells {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
