package brain

import (
	"container/heap"
	"context"
	"sync"
)

// queued pairs an activation with its enqueue sequence number.
type queued struct {
	act Activation
	seq int64
}

// activationHeap orders by (priority asc, seq asc). The seq tie-break
// keeps equal-priority activations FIFO in emit order.
type activationHeap []queued

func (h activationHeap) Len() int { return len(h) }

func (h activationHeap) Less(i, j int) bool {
	if h[i].act.Priority != h[j].act.Priority {
		return h[i].act.Priority < h[j].act.Priority
	}
	return h[i].seq < h[j].seq
}

func (h activationHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *activationHeap) Push(x any) { *h = append(*h, x.(queued)) }

func (h *activationHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	// Zero the slot to drop the popped activation's references.
	old[n-1] = queued{}
	*h = old[:n-1]
	return item
}

// activationQueue is a bounded, thread-safe priority queue of pending
// activations.
//
// Thread-safety is provided so an executing cell and any external
// producer can emit while the Run loop pops. Emit blocks while the queue
// is at capacity (backpressure). TryPop never blocks; the Run loop
// combines it with Ready() for context-aware waiting:
//
//	select {
//	case <-ctx.Done():
//	    return ctx.Err()
//	case <-q.Ready():
//	    // Try TryPop
//	}
type activationQueue struct {
	mu       sync.Mutex
	items    activationHeap
	capacity int
	clock    *Clock
	closed   bool
	ready    chan struct{} // signals item availability (buffered, size 1)
	space    chan struct{} // signals freed capacity (buffered, size 1)
}

// newActivationQueue creates an empty queue holding at most capacity
// pending activations.
func newActivationQueue(capacity int) *activationQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &activationQueue{
		items:    make(activationHeap, 0, capacity),
		capacity: capacity,
		clock:    NewClock(),
		ready:    make(chan struct{}, 1),
		space:    make(chan struct{}, 1),
	}
}

// Emit enqueues an activation, stamping it with the next clock sequence.
// If the queue is at capacity the caller suspends until space frees or
// ctx is cancelled. Emitting into a closed queue fails with QUEUE_CLOSED.
func (q *activationQueue) Emit(ctx context.Context, act Activation) error {
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return newQueueClosedError()
		}
		if len(q.items) < q.capacity {
			heap.Push(&q.items, queued{act: act, seq: q.clock.Next()})
			q.signalLocked(q.ready)
			q.mu.Unlock()
			return nil
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.space:
		}
	}
}

// TryPop removes the pending activation with the numerically lowest
// priority. Returns false if the queue is empty.
func (q *activationQueue) TryPop() (Activation, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return Activation{}, false
	}
	item := heap.Pop(&q.items).(queued)
	q.signalLocked(q.space)
	return item.act, true
}

// Ready returns a channel that signals when activations may be pending.
// The signal is coalesced (buffer of 1): receiving it means TryPop is
// worth attempting, not that it will succeed.
func (q *activationQueue) Ready() <-chan struct{} {
	return q.ready
}

// Len returns the current number of pending activations.
func (q *activationQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close marks the queue as terminated. Blocked emitters wake and fail
// with QUEUE_CLOSED.
func (q *activationQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.ready)
	close(q.space)
}

// signalLocked performs a non-blocking coalesced send. Callers must hold
// q.mu; the closed check prevents a send on a closed channel.
func (q *activationQueue) signalLocked(ch chan struct{}) {
	if q.closed {
		return
	}
	select {
	case ch <- struct{}{}:
	default:
	}
}
