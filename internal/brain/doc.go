// Package brain implements the agraph activation engine.
//
// A Brain owns a registry of named cells and a bounded priority queue of
// pending activations, and runs the single dispatch loop that drives them.
// Each activation names a target cell and its arguments; executing a cell
// may emit follow-on signals, so the execution graph is discovered
// dynamically rather than declared up front.
//
// ARCHITECTURE:
//
// Single-Writer Dispatch Loop:
// Exactly one activation is ever executing at a time. All cell invocation
// happens in the goroutine that called Run. This ensures:
// - Predictable dispatch order (priority, then emit order)
// - Simple reasoning about cell side effects
// - No isolation machinery between cells
//
// Dispatch Flow:
// 1. Activations enqueued to the bounded priority queue (start signal or
//    follow-ons from executing cells)
// 2. Run pops the pending activation with the numerically lowest priority
// 3. The target cell is resolved by name in the registry
// 4. The cell's Activate consumes the arguments and returns follow-on
//    signals, which are normalized into activations and re-enqueued
// 5. The loop repeats until a cell returns ErrHalt (Interrupted) or the
//    queue stays empty past the idle budget (TimedOut)
//
// The queue is the only shared resource: Emit is safe from any goroutine,
// including the currently executing cell, and blocks while the queue is at
// capacity. There is no cancellation of an in-flight cell invocation and no
// per-activation timeout; a hung handler hangs the whole loop.
//
// ORDERING:
// Activations are serviced in non-decreasing priority-value order. Among
// equal priorities, a monotonic sequence number assigned at enqueue time
// makes dispatch FIFO in emit order. NEVER rely on wall-clock timestamps
// for ordering.
package brain
