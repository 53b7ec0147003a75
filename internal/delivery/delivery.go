// Package delivery decouples outbound Slack calls from the inbound
// request cycle: handlers enqueue a job and acknowledge immediately,
// workers run the call and log failures. Delivery is best-effort; a
// failed job is never retried automatically.
package delivery

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrStopped = errors.New("delivery: dispatcher stopped")

// Job is one outbound call.
type Job struct {
	ID   string
	Name string
	Run  func(context.Context) error
}

type Dispatcher struct {
	jobs   chan Job
	wg     sync.WaitGroup
	cancel context.CancelFunc

	mu      sync.Mutex
	started bool
	stopped bool
}

func NewDispatcher(buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	return &Dispatcher{jobs: make(chan Job, buffer)}
}

// Start launches the worker goroutines.
func (d *Dispatcher) Start(parent context.Context, workers int) {
	if workers <= 0 {
		workers = 1
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	ctx, cancel := context.WithCancel(parent)
	d.cancel = cancel
	d.started = true

	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx)
	}
}

// Enqueue hands a job to the workers without blocking the caller beyond
// buffer backpressure.
func (d *Dispatcher) Enqueue(job Job) error {
	if job.Run == nil {
		return errors.New("delivery: job run callback is required")
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	d.mu.Lock()
	stopped := d.stopped
	d.mu.Unlock()
	if stopped {
		return ErrStopped
	}

	d.jobs <- job
	return nil
}

// Stop drains queued jobs, waiting up to timeout, then releases workers.
func (d *Dispatcher) Stop(timeout time.Duration) {
	d.mu.Lock()
	if !d.started || d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	cancel := d.cancel
	d.mu.Unlock()

	deadline := time.Now().Add(timeout)
	for len(d.jobs) > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	d.wg.Wait()
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-d.jobs:
			if err := job.Run(ctx); err != nil {
				slog.Error("delivery failed", "job", job.Name, "id", job.ID, "err", err)
			}
		}
	}
}
