package batch

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/sunkingbms/litmos-two/types"
)

// Job is the mutable state of one batch run. The done counter advances
// atomically from any worker goroutine; the error list appends under its
// own lock; snapshots never block either. Readers may see a momentarily
// stale view, never a regressing one.
type Job struct {
	id      string
	total   atomic.Int64
	done    atomic.Int64
	touched atomic.Int64

	mu     sync.Mutex
	status types.JobStatus
	errs   []types.JobError
}

func newJob(id string) *Job {
	j := &Job{id: id, status: types.JobQueued}
	j.touch()
	return j
}

func (j *Job) ID() string {
	return j.id
}

func (j *Job) IncTotal() {
	j.total.Add(1)
}

func (j *Job) IncDone() {
	j.done.Add(1)
}

func (j *Job) Done() int {
	return int(j.done.Load())
}

func (j *Job) Total() int {
	return int(j.total.Load())
}

// AddError appends one failure entry. Safe from any worker goroutine;
// entry order across workers is scheduling-dependent and carries no
// meaning (RowIndex does).
func (j *Job) AddError(e types.JobError) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errs = append(j.errs, e)
}

// SetStatus transitions the job. Terminal states are sticky: once a job
// completes or fails, no later transition applies.
func (j *Job) SetStatus(s types.JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status.Terminal() {
		return
	}
	j.status = s
	j.touch()
}

// Finish sets the terminal completion status based on the error list.
func (j *Job) Finish() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status.Terminal() {
		return
	}
	if len(j.errs) == 0 {
		j.status = types.JobCompleted
	} else {
		j.status = types.JobCompletedWithErrors
	}
	j.touch()
}

func (j *Job) Snapshot() types.JobSnapshot {
	j.mu.Lock()
	status := j.status
	errs := make([]types.JobError, len(j.errs))
	copy(errs, j.errs)
	j.mu.Unlock()

	return types.JobSnapshot{
		ID:     j.id,
		Status: status,
		Total:  j.Total(),
		Done:   j.Done(),
		Errors: errs,
	}
}

func (j *Job) touch() {
	j.touched.Store(time.Now().UnixNano())
}

// Store maps job identifiers to jobs for the life of the process.
// With a zero TTL nothing is ever evicted (the historic behavior); a
// positive TTL lets StartEviction reap terminal jobs to bound memory.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*Job
	ttl  time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		jobs:   make(map[string]*Job),
		ttl:    ttl,
		stopCh: make(chan struct{}),
	}
}

// Create registers a new queued job under a fresh identifier.
func (s *Store) Create() *Job {
	j := newJob(uuid.NewString())

	s.mu.Lock()
	s.jobs[j.id] = j
	s.mu.Unlock()
	return j
}

func (s *Store) Get(id string) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	return j, ok
}

// Snapshot returns an eventually-consistent view of one job.
func (s *Store) Snapshot(id string) (types.JobSnapshot, bool) {
	j, ok := s.Get(id)
	if !ok {
		return types.JobSnapshot{}, false
	}
	return j.Snapshot(), true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// StartEviction launches a janitor that removes terminal jobs untouched
// for longer than the TTL. A no-op when the TTL is zero.
func (s *Store) StartEviction(interval time.Duration) {
	if s.ttl <= 0 {
		return
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-s.stopCh:
				return
			case <-t.C:
				s.evictExpired()
			}
		}
	}()
}

func (s *Store) StopEviction() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}

func (s *Store) evictExpired() {
	if s.ttl <= 0 {
		return
	}
	cutoff := time.Now().Add(-s.ttl).UnixNano()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, j := range s.jobs {
		j.mu.Lock()
		expired := j.status.Terminal() && j.touched.Load() < cutoff
		j.mu.Unlock()
		if expired {
			delete(s.jobs, id)
		}
	}
}
