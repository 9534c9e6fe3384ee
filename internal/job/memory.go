package job

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryQueue keeps jobs in memory. It follows the retry rules of the
// postgres queue and backs tests and single process setups.
type MemoryQueue struct {
	mu          sync.Mutex
	jobs        map[uuid.UUID]*memoryJob
	maxAttempts int
	now         func() time.Time
}

type memoryJob struct {
	job    Job
	locked bool
	failed bool
}

// NewMemoryQueue creates an empty in-memory queue
func NewMemoryQueue(maxAttempts int) *MemoryQueue {
	return &MemoryQueue{
		jobs:        make(map[uuid.UUID]*memoryJob),
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// SetClock replaces the queue's time source
func (q *MemoryQueue) SetClock(now func() time.Time) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.now = now
}

// Enqueue stores a job ready to run now
func (q *MemoryQueue) Enqueue(_ context.Context, kind string, payload any) (uuid.UUID, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode %s payload: %w", kind, err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	id := uuid.New()
	q.jobs[id] = &memoryJob{job: Job{ID: id, Kind: kind, Payload: body, RunAt: now, CreatedAt: now}}
	return id, nil
}

// Reserve hands out the oldest ready job
func (q *MemoryQueue) Reserve(_ context.Context) (*Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	var ready []*memoryJob
	for _, mj := range q.jobs {
		if !mj.locked && !mj.failed && !mj.job.RunAt.After(now) {
			ready = append(ready, mj)
		}
	}
	if len(ready) == 0 {
		return nil, ErrEmpty
	}

	sort.Slice(ready, func(i, j int) bool {
		if !ready[i].job.RunAt.Equal(ready[j].job.RunAt) {
			return ready[i].job.RunAt.Before(ready[j].job.RunAt)
		}
		return ready[i].job.CreatedAt.Before(ready[j].job.CreatedAt)
	})

	mj := ready[0]
	mj.locked = true
	mj.job.Attempts++
	j := mj.job
	return &j, nil
}

// Complete removes a finished job
func (q *MemoryQueue) Complete(_ context.Context, j *Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.jobs, j.ID)
	return nil
}

// Fail schedules a retry or marks the job as failed
func (q *MemoryQueue) Fail(_ context.Context, j *Job, cause error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	mj, ok := q.jobs[j.ID]
	if !ok {
		return fmt.Errorf("unknown job %s", j.ID)
	}
	msg := cause.Error()
	mj.locked = false
	mj.job.LastError = &msg
	if mj.job.Attempts >= q.maxAttempts {
		mj.failed = true
		return nil
	}
	mj.job.RunAt = q.now().Add(Backoff(mj.job.Attempts))
	return nil
}

// Pending returns the jobs not yet completed or failed, oldest first
func (q *MemoryQueue) Pending() []Job {
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []Job
	for _, mj := range q.jobs {
		if !mj.failed {
			out = append(out, mj.job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Failed returns the jobs that ran out of attempts
func (q *MemoryQueue) Failed() []Job {
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []Job
	for _, mj := range q.jobs {
		if mj.failed {
			out = append(out, mj.job)
		}
	}
	return out
}
