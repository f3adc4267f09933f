// Package pool implements a fixed-size worker pool draining a bounded FIFO
// under a mutex/condition-variable protocol: post, drain-to-idle, shutdown.
//
// Workers are goroutines rather than OS threads and carry no per-worker
// state. A job that needs a decoder (internal/emitter) opens one inside the
// job and closes it before returning; no decoder outlives its job.
package pool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/screenager/disx/internal/pqueue"
)

// ErrShuttingDown is returned by Post once Shutdown has been called.
var ErrShuttingDown = errors.New("pool: shutting down")

// Job is a unit of work posted to the pool. fn must release or hand off arg
// before returning; ownership of arg passes to the pool at Post time.
type Job func(arg any)

type queuedJob struct {
	fn  Job
	arg any
}

// Pool is a fixed-size set of worker goroutines draining a shared queue.
type Pool struct {
	mu       sync.Mutex
	hasWork  *sync.Cond
	idle     *sync.Cond
	queue    *pqueue.Queue[queuedJob]
	active   int
	shutDown bool
	wg       sync.WaitGroup
}

// New launches n workers. n must be positive.
func New(n int) (*Pool, error) {
	if n <= 0 {
		return nil, fmt.Errorf("pool: invalid worker count %d", n)
	}
	p := &Pool{queue: pqueue.New[queuedJob](0)}
	p.hasWork = sync.NewCond(&p.mu)
	p.idle = sync.NewCond(&p.mu)

	// Launching a goroutine cannot itself fail in Go, so there is no
	// partial-start rollback path to exercise here the way a pthread_create
	// failure would require in a systems-language pool. If a future worker
	// needs per-goroutine setup that CAN fail (e.g. pinning to a CPU set),
	// that rollback would belong here: mark shutDown, broadcast hasWork,
	// and wait only for the workers already started.
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.workerLoop()
		}()
	}
	return p, nil
}

func (p *Pool) workerLoop() {
	p.mu.Lock()
	for {
		for p.queue.Len() == 0 && !p.shutDown {
			p.hasWork.Wait()
		}
		if p.shutDown && p.queue.Len() == 0 {
			p.mu.Unlock()
			return
		}
		job, _ := p.queue.Pop()
		p.active++
		p.mu.Unlock()

		job.fn(job.arg)

		p.mu.Lock()
		p.active--
		if p.queue.Len() == 0 && p.active == 0 {
			p.idle.Broadcast()
		}
	}
}

// Post enqueues fn(arg) for execution by some worker. It fails if the pool
// is shutting down.
func (p *Pool) Post(fn Job, arg any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.shutDown {
		return ErrShuttingDown
	}
	p.queue.Push(queuedJob{fn: fn, arg: arg})
	p.hasWork.Signal()
	return nil
}

// Drain blocks until the queue is empty and no worker is executing a job.
// It does not terminate workers.
func (p *Pool) Drain() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.queue.Len() > 0 || p.active > 0 {
		p.idle.Wait()
	}
}

// Shutdown is idempotent. It stops accepting new jobs, wakes every worker,
// and waits for in-flight jobs to finish before returning.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.shutDown {
		p.mu.Unlock()
		return
	}
	p.shutDown = true
	p.hasWork.Broadcast()
	p.mu.Unlock()

	p.wg.Wait()
}

// Destroy shuts the pool down and discards any residual queued jobs without
// invoking them. Ownership of any arg left in a discarded job is the
// caller's responsibility — it leaked if it needed releasing.
func (p *Pool) Destroy() {
	p.Shutdown()
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.queue.Len() > 0 {
		p.queue.Pop()
	}
}

// Stats reports the pool's current queued/active counts, for tests and
// diagnostics.
type Stats struct {
	Queued int
	Active int
}

// Snapshot returns the pool's current Stats under lock.
func (p *Pool) Snapshot() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{Queued: p.queue.Len(), Active: p.active}
}
