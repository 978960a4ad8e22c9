// Package bot – per-requester serialized dispatch.
//
// Telegram delivers updates in one stream; the dispatcher fans them out to
// one lightweight worker per requester so that a single requester's events
// are processed strictly in arrival order while different requesters run
// concurrently. One slow store call therefore never stalls anyone else.
//
// Each worker also owns a token bucket so a flooding requester is bounded
// before any handling work happens. Idle workers are evicted after a TTL
// to keep memory bounded, mirroring the visitor-map approach of in-memory
// per-key rate limiters.
package bot

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// workerQueueSize bounds the per-requester backlog; beyond it updates are
// dropped (the requester is flooding faster than the limiter fires).
const workerQueueSize = 16

// workerIdleTTL is how long a worker with an empty queue survives before
// eviction.
const workerIdleTTL = 10 * time.Minute

// dispatchFunc handles one update for one requester, to completion.
type dispatchFunc[T any] func(ctx context.Context, identity string, item T)

// dispatcher serializes items per identity. Safe for concurrent use by a
// single producer loop; handlers run on per-identity goroutines.
type dispatcher[T any] struct {
	handle dispatchFunc[T]

	rps   rate.Limit
	burst int

	mu      sync.Mutex
	workers map[string]*worker[T]
	wg      sync.WaitGroup
}

type worker[T any] struct {
	ch      chan T
	limiter *rate.Limiter
}

// newDispatcher constructs a dispatcher with the given per-identity rate
// limit. burst values <= 0 are coerced to 1.
func newDispatcher[T any](rps float64, burst int, handle dispatchFunc[T]) *dispatcher[T] {
	if burst <= 0 {
		burst = 1
	}
	return &dispatcher[T]{
		handle:  handle,
		rps:     rate.Limit(rps),
		burst:   burst,
		workers: make(map[string]*worker[T]),
	}
}

// submit enqueues an item for the identity's worker, spawning one if
// needed. It returns false when the limiter rejected the item or the
// worker's queue is full; the item is then dropped and the caller decides
// whether to tell the requester.
func (d *dispatcher[T]) submit(ctx context.Context, identity string, item T) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	w, ok := d.workers[identity]
	if !ok {
		w = &worker[T]{
			ch:      make(chan T, workerQueueSize),
			limiter: rate.NewLimiter(d.rps, d.burst),
		}
		d.workers[identity] = w
		d.wg.Add(1)
		go d.run(ctx, identity, w)
	}

	if !w.limiter.Allow() {
		return false
	}
	select {
	case w.ch <- item:
		return true
	default:
		return false
	}
}

// run drains one worker until shutdown or idle eviction. Eviction happens
// under the dispatcher lock with an empty-queue check; submit holds the
// same lock, so an evicted worker can never receive another item.
func (d *dispatcher[T]) run(ctx context.Context, identity string, w *worker[T]) {
	defer d.wg.Done()

	idle := time.NewTimer(workerIdleTTL)
	defer idle.Stop()

	for {
		select {
		case item := <-w.ch:
			d.handle(ctx, identity, item)
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(workerIdleTTL)

		case <-idle.C:
			d.mu.Lock()
			if len(w.ch) == 0 {
				delete(d.workers, identity)
				d.mu.Unlock()
				return
			}
			d.mu.Unlock()
			idle.Reset(workerIdleTTL)

		case <-ctx.Done():
			return
		}
	}
}

// wait blocks until all worker goroutines have exited. Call after
// cancelling the context passed to submit.
func (d *dispatcher[T]) wait() {
	d.wg.Wait()
}
