package batch

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/sunkingbms/litmos-two/logger"
	"github.com/sunkingbms/litmos-two/metrics"
	"github.com/sunkingbms/litmos-two/types"
)

// RecordApplier applies one operation to one record. Implementations
// must contain their own faults; the engine additionally converts any
// panic that escapes into a failure entry at the record boundary.
type RecordApplier interface {
	ApplyRecord(op types.OperationKind, rec types.Record) types.Outcome
}

// Engine fans batches of records out to a bounded worker pool. Two
// independent caps bound concurrency: the fixed worker count (execution
// slots) and a process-wide inflight semaphore shared by every job.
// Submit returns a job id immediately; progress is observed through the
// job store's eventually-consistent snapshots.
//
// Usage Example:
//
//	engine := batch.NewEngine(directory, store, batch.EngineConfig{
//	    Workers:     2,
//	    MaxInflight: 4,
//	})
//	engine.Start()
//	jobID, _ := engine.Submit(batch.NewCSVSource(file), types.Deactivate)
//	snap, _ := store.Snapshot(jobID)
//	// ... engine.Stop() on shutdown
type Engine struct {
	applier RecordApplier
	store   *Store
	config  EngineConfig
	logger  logger.Logger

	inflight *semaphore.Weighted
	tasks    chan task
	workers  errgroup.Group
	jobs     sync.WaitGroup

	mu      sync.RWMutex
	running bool
}

type task struct {
	job    *Job
	op     types.OperationKind
	index  int
	record types.Record
	wg     *sync.WaitGroup
}

func NewEngine(applier RecordApplier, store *Store, config EngineConfig) *Engine {
	config = applyEngineConfig(config)
	return &Engine{
		applier:  applier,
		store:    store,
		config:   config,
		logger:   config.Logger,
		inflight: semaphore.NewWeighted(int64(config.MaxInflight)),
		tasks:    make(chan task, config.QueueSize),
	}
}

// Start launches the worker pool. Idempotent.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return
	}
	for i := 0; i < e.config.Workers; i++ {
		e.workers.Go(func() error {
			for t := range e.tasks {
				e.process(t)
			}
			return nil
		})
	}
	e.running = true
}

// Stop waits for running jobs to finish streaming, closes the task
// channel and waits for the workers to drain it. Idempotent.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}

	e.jobs.Wait()
	close(e.tasks)
	if err := e.workers.Wait(); err != nil {
		e.logger.Errorf("batch.Engine: failed to wait for workers: %v", err)
	}

	// fresh channel so a Start->Stop->Start sequence keeps working
	e.tasks = make(chan task, e.config.QueueSize)
	e.workers = errgroup.Group{}
	e.running = false
	e.logger.Debugf("batch.Engine: drained all workers")
}

// Submit accepts a batch and returns its job id right away; streaming
// and dispatch happen on a background goroutine.
func (e *Engine) Submit(source RecordSource, op types.OperationKind) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.running {
		return "", fmt.Errorf("batch engine is not running")
	}

	job := e.store.Create()
	metrics.JobsSubmitted.Inc()

	e.jobs.Add(1)
	go func() {
		defer e.jobs.Done()
		e.run(job, source, op)
	}()

	return job.ID(), nil
}

// run is the per-job submission loop: single-threaded streaming with
// concurrent completions. It blocks on the background goroutine, never
// on the Submit caller, until done == total, then settles the terminal
// status.
func (e *Engine) run(job *Job, source RecordSource, op types.OperationKind) {
	e.logger.Infof("Job %s: starting (operation=%s)", job.ID(), op)
	job.SetStatus(types.JobRunning)

	var wg sync.WaitGroup
	index := 0

	for {
		record, err := source.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			e.logger.Errorf("Job %s failed while reading source: %v", job.ID(), err)
			job.AddError(types.JobError{
				RowIndex: index,
				Reason:   fmt.Sprintf("background failure: %v", err),
			})
			job.SetStatus(types.JobFailed)
			wg.Wait()
			return
		}

		if e.config.MaxRecords > 0 && index >= e.config.MaxRecords {
			job.AddError(types.JobError{
				RowIndex: index,
				Reason:   fmt.Sprintf("skipped due to record limit (%d)", e.config.MaxRecords),
			})
			break
		}

		job.IncTotal()

		// the one intentional blocking point: at most MaxInflight
		// operations run at once, across every job in the process
		if err := e.inflight.Acquire(context.Background(), 1); err != nil {
			job.AddError(types.JobError{
				RowIndex: index,
				Reason:   fmt.Sprintf("dispatch failed: %v", err),
			})
			job.IncDone()
			index++
			continue
		}

		wg.Add(1)
		e.tasks <- task{job: job, op: op, index: index, record: record, wg: &wg}

		if e.config.SubmitDelay > 0 {
			time.Sleep(e.config.SubmitDelay)
		}
		index++
	}

	wg.Wait()
	job.Finish()

	snap := job.Snapshot()
	e.logger.Infof(
		"Job %s completed: done=%d errors=%d status=%s",
		job.ID(), snap.Done, len(snap.Errors), snap.Status,
	)
}

func (e *Engine) process(t task) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Errorf("Unhandled panic in record worker: %v", r)
			t.job.AddError(types.JobError{
				RowIndex: t.index,
				Reason:   fmt.Sprint(r),
				Record:   t.record,
			})
			metrics.RecordFailures.Inc()
		}
		t.job.IncDone()
		e.inflight.Release(1)
		t.wg.Done()
	}()

	metrics.RecordsProcessed.Inc()
	outcome := e.applier.ApplyRecord(t.op, t.record)
	if !outcome.Success {
		metrics.RecordFailures.Inc()
		t.job.AddError(types.JobError{
			RowIndex: t.index,
			Reason:   outcome.Reason,
			Record:   t.record,
		})
	}
}
