package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"
)

// HandlerFunc runs a job with its raw payload
type HandlerFunc func(ctx context.Context, payload json.RawMessage) error

// Handle adapts a typed handler. The payload is decoded into T before fn
// runs.
func Handle[T any](fn func(ctx context.Context, payload T) error) HandlerFunc {
	return func(ctx context.Context, raw json.RawMessage) error {
		var payload T
		if err := json.Unmarshal(raw, &payload); err != nil {
			return fmt.Errorf("failed to decode payload: %w", err)
		}
		return fn(ctx, payload)
	}
}

// Worker reserves jobs and dispatches them to handlers by kind
type Worker struct {
	queue    Queue
	handlers map[string]HandlerFunc
	interval time.Duration
}

// NewWorker creates a worker polling queue every interval when idle
func NewWorker(queue Queue, interval time.Duration) *Worker {
	return &Worker{
		queue:    queue,
		handlers: make(map[string]HandlerFunc),
		interval: interval,
	}
}

// Register sets the handler for a job kind
func (w *Worker) Register(kind string, h HandlerFunc) {
	w.handlers[kind] = h
}

// RunOnce processes at most one job. It reports whether a job was reserved.
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	j, err := w.queue.Reserve(ctx)
	if err != nil {
		if errors.Is(err, ErrEmpty) {
			return false, nil
		}
		return false, err
	}

	if err := w.dispatch(ctx, j); err != nil {
		log.Printf("job %s (%s) attempt %d failed: %v", j.ID, j.Kind, j.Attempts, err)
		if ferr := w.queue.Fail(ctx, j, err); ferr != nil {
			return true, ferr
		}
		return true, nil
	}

	log.Printf("job %s (%s) done", j.ID, j.Kind)
	return true, w.queue.Complete(ctx, j)
}

func (w *Worker) dispatch(ctx context.Context, j *Job) (err error) {
	h, ok := w.handlers[j.Kind]
	if !ok {
		return fmt.Errorf("no handler for job kind %q", j.Kind)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h(ctx, j.Payload)
}

// Run processes jobs until ctx is cancelled. Ready jobs are drained before
// the worker sleeps.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		for {
			worked, err := w.RunOnce(ctx)
			if err != nil {
				log.Printf("job worker: %v", err)
				break
			}
			if !worked {
				break
			}
			if ctx.Err() != nil {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
