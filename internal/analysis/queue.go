package analysis

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of one analysis job.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job is a point-in-time snapshot of one job's state. Snapshots are values;
// mutating one never affects the queue.
type Job struct {
	ID         string     `json:"id"`
	Status     JobStatus  `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	StartedAt  *time.Time `json:"startedAt,omitempty"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	Error      string     `json:"error,omitempty"`
}

type jobRecord struct {
	job    Job
	result *Result
}

// Queue tracks analysis jobs to a terminal state. Jobs run concurrently;
// each job id owns exactly one execution and its terminal status and result
// are written together, so a reader never observes a completed job without
// its result.
type Queue struct {
	mu   sync.Mutex
	jobs map[string]*jobRecord
}

func NewQueue() *Queue {
	return &Queue{jobs: make(map[string]*jobRecord)}
}

// Enqueue registers a new job and runs work on its own goroutine. work's
// error never escapes: failure is observable through Status, which is why
// the returned id is the only handle callers get.
func (q *Queue) Enqueue(work func() (*Result, error)) string {
	id := uuid.NewString()

	q.mu.Lock()
	q.jobs[id] = &jobRecord{job: Job{
		ID:        id,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}}
	q.mu.Unlock()

	go q.run(id, work)
	return id
}

func (q *Queue) run(id string, work func() (*Result, error)) {
	started := time.Now()
	q.mu.Lock()
	rec := q.jobs[id]
	rec.job.Status = StatusRunning
	rec.job.StartedAt = &started
	q.mu.Unlock()

	result, err := work()

	finished := time.Now()
	q.mu.Lock()
	defer q.mu.Unlock()
	rec.job.FinishedAt = &finished
	if err != nil {
		rec.job.Status = StatusFailed
		rec.job.Error = err.Error()
		if rec.job.Error == "" {
			rec.job.Error = "analysis failed"
		}
		return
	}
	rec.job.Status = StatusCompleted
	rec.result = result
}

// Status returns a snapshot of the job, or nil for unknown ids.
func (q *Queue) Status(id string) *Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	rec, ok := q.jobs[id]
	if !ok {
		return nil
	}
	snapshot := rec.job
	return &snapshot
}

// ResultFor returns the result once the job completed, else nil. Callers get
// a snapshot: reassigning its fields does not alter the stored result.
func (q *Queue) ResultFor(id string) *Result {
	q.mu.Lock()
	defer q.mu.Unlock()
	rec, ok := q.jobs[id]
	if !ok || rec.job.Status != StatusCompleted {
		return nil
	}
	snapshot := *rec.result
	return &snapshot
}
