package brain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

const (
	// DefaultIdleTimeout is the idle budget applied when none is
	// configured: the loop stops with OutcomeTimedOut after the queue has
	// stayed empty this long.
	DefaultIdleTimeout = 60 * time.Second

	// DefaultQueueCapacity bounds the pending-activation queue when no
	// capacity is configured.
	DefaultQueueCapacity = 100
)

// Outcome is the terminal state of a completed run.
type Outcome int

const (
	// OutcomeNone means the run ended with an error before reaching a
	// clean terminal state.
	OutcomeNone Outcome = iota

	// OutcomeInterrupted means a cell raised the termination signal.
	OutcomeInterrupted

	// OutcomeTimedOut means the queue stayed empty past the idle budget.
	OutcomeTimedOut
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInterrupted:
		return "interrupted"
	case OutcomeTimedOut:
		return "timed_out"
	default:
		return "none"
	}
}

// Brain owns the cell registry and the bounded priority queue, and runs
// the single dispatch loop that drives them.
//
// Thread-safety model:
//   - Emit(): safe from any goroutine, including an executing cell
//   - Add(): wiring-time only, before Run
//   - Run(): must be called from exactly one goroutine, exactly once;
//     a Brain is single-use and cannot be restarted after it terminates
type Brain struct {
	registry    *Registry
	queue       *activationQueue
	idleTimeout time.Duration // 0 disables the idle budget
	capacity    int
	strict      bool
	tokens      TokenGenerator
	recorder    *Recorder
	start       *Activation
	ran         atomic.Bool
}

// Option configures a Brain at construction.
type Option func(*Brain)

// WithIdleTimeout sets the maximum duration the loop waits on an empty
// queue before stopping with OutcomeTimedOut. Zero disables the budget
// entirely: the loop then waits indefinitely for new activations.
func WithIdleTimeout(d time.Duration) Option {
	return func(b *Brain) {
		b.idleTimeout = d
	}
}

// WithQueueCapacity bounds the pending-activation queue. Emitting into a
// full queue suspends the emitter until space frees. Values below 1 are
// clamped to 1.
func WithQueueCapacity(n int) Option {
	return func(b *Brain) {
		b.capacity = n
	}
}

// WithStrictLookup makes a registry miss fail immediately instead of
// retrying the "<name>/0" default-instance name.
func WithStrictLookup() Option {
	return func(b *Brain) {
		b.strict = true
	}
}

// WithStartSignal seeds the queue at construction, so Run can be called
// without an explicit start activation.
func WithStartSignal(act Activation) Option {
	return func(b *Brain) {
		b.start = &act
	}
}

// WithTokenGenerator overrides the run-token source. Tests use
// FixedGenerator for deterministic trace output.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(b *Brain) {
		b.tokens = g
	}
}

// WithRecorder attaches a dispatch trace recorder to the run.
func WithRecorder(r *Recorder) Option {
	return func(b *Brain) {
		b.recorder = r
	}
}

// New creates a Brain with the terminal cell already registered.
// Constructing without a start signal only logs a warning; the hard
// failure point is a Run call against a still-empty queue.
func New(opts ...Option) *Brain {
	b := &Brain{
		idleTimeout: DefaultIdleTimeout,
		capacity:    DefaultQueueCapacity,
		tokens:      UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(b)
	}

	b.registry = NewRegistry(b.strict)
	b.queue = newActivationQueue(b.capacity)

	if b.start != nil {
		// Queue is empty and capacity is at least 1: cannot block.
		_ = b.queue.Emit(context.Background(), *b.start)
	} else {
		slog.Warn("brain constructed without start signal; supply one to Run before starting")
	}
	return b
}

// Add registers a cell. See Registry.Add for the naming rules.
func (b *Brain) Add(c Cell) (string, error) {
	return b.registry.Add(c)
}

// Lookup resolves a cell by name under the configured strictness policy.
func (b *Brain) Lookup(name string) (Cell, error) {
	return b.registry.Lookup(name)
}

// Contains reports whether a cell is registered under name.
func (b *Brain) Contains(name string) bool {
	return b.registry.Contains(name)
}

// Len returns the number of registered cells.
func (b *Brain) Len() int {
	return b.registry.Len()
}

// Names returns the registered cell names in sorted order.
func (b *Brain) Names() []string {
	return b.registry.Names()
}

// QueueLen returns the current number of pending activations.
// Useful for monitoring and testing.
func (b *Brain) QueueLen() int {
	return b.queue.Len()
}

// Emit enqueues an activation for dispatch. Safe from any goroutine,
// including the currently executing cell. If the queue is at capacity
// the caller suspends until space frees or ctx is cancelled.
func (b *Brain) Emit(ctx context.Context, act Activation) error {
	return b.queue.Emit(ctx, act)
}

// Run executes the dispatch loop until a terminal condition.
//
// If start is non-nil it is this run's start signal and must carry
// priority 0, else Run fails with BAD_START_PRIORITY. After any seeding,
// a still-empty queue fails with MISSING_START_SIGNAL.
//
// Each iteration pops the pending activation with the numerically lowest
// priority, resolves its cell, and invokes it. Follow-on signals are
// enqueued in the order the cell produced them; bare names inherit the
// executing activation's priority. The loop stops cleanly in exactly two
// ways: a cell returns ErrHalt (OutcomeInterrupted, discarding the rest
// of that invocation's follow-ons), or the queue stays empty past the
// idle budget (OutcomeTimedOut). Neither is an error. Any other cell
// failure propagates out unhandled, as do lookup misses and context
// cancellation.
func (b *Brain) Run(ctx context.Context, start *Activation) (Outcome, error) {
	if !b.ran.CompareAndSwap(false, true) {
		return OutcomeNone, newAlreadyRanError()
	}
	defer b.queue.Close()

	token := b.tokens.Generate()
	logger := slog.With("run", token)
	if b.recorder != nil {
		b.recorder.begin(token)
	}

	outcome, err := b.loop(ctx, start, logger)
	if b.recorder != nil {
		b.recorder.finish(outcome)
	}
	return outcome, err
}

func (b *Brain) loop(ctx context.Context, start *Activation, logger *slog.Logger) (Outcome, error) {
	if start != nil {
		if start.Priority != 0 {
			return OutcomeNone, newBadStartPriorityError(start.Priority)
		}
		if err := b.queue.Emit(ctx, *start); err != nil {
			return OutcomeNone, err
		}
	}
	if b.queue.Len() == 0 {
		return OutcomeNone, newMissingStartSignalError()
	}

	logger.Info("brain starting",
		"cells", b.registry.Len(),
		"idle_timeout", b.idleTimeout,
	)

	var emptySince time.Time
	for {
		act, ok := b.queue.TryPop()
		if !ok {
			// Queue empty: arm the idle budget (if configured) and wait
			// for new activations.
			if b.idleTimeout > 0 {
				if emptySince.IsZero() {
					emptySince = time.Now()
				}
				remaining := b.idleTimeout - time.Since(emptySince)
				if remaining <= 0 {
					logger.Warn("brain stopping: no activations within idle budget",
						"idle_timeout", b.idleTimeout,
					)
					return OutcomeTimedOut, nil
				}

				timer := time.NewTimer(remaining)
				select {
				case <-ctx.Done():
					timer.Stop()
					return OutcomeNone, ctx.Err()
				case <-timer.C:
					logger.Warn("brain stopping: no activations within idle budget",
						"idle_timeout", b.idleTimeout,
					)
					return OutcomeTimedOut, nil
				case <-b.queue.Ready():
					timer.Stop()
				}
			} else {
				logger.Debug("brain waiting")
				select {
				case <-ctx.Done():
					return OutcomeNone, ctx.Err()
				case <-b.queue.Ready():
				}
			}
			continue
		}

		emptySince = time.Time{}

		cell, err := b.registry.Lookup(act.Cell)
		if err != nil {
			return OutcomeNone, err
		}

		logger.Info("dispatching",
			"cell", act.Cell,
			"priority", act.Priority,
			"args", act.Args,
		)
		if b.recorder != nil {
			b.recorder.dispatch(act)
		}

		signals, err := cell.Activate(ctx, act.Args)
		if err != nil {
			if errors.Is(err, ErrHalt) {
				logger.Info("brain stopping: terminal interrupt", "cell", act.Cell)
				return OutcomeInterrupted, nil
			}
			return OutcomeNone, fmt.Errorf("activate %s: %w", act.Cell, err)
		}

		// Re-enqueue follow-ons in the order the cell produced them.
		for _, sig := range signals {
			if err := b.queue.Emit(ctx, sig.resolve(act.Priority)); err != nil {
				return OutcomeNone, err
			}
		}
	}
}
