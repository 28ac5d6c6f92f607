package batch

import (
	"time"

	"github.com/sunkingbms/litmos-two/logger"
)

type EngineConfig struct {
	// Workers is the fixed size of the worker pool that executes record
	// operations.
	// default: 2
	Workers int

	// MaxInflight caps how many record operations may run concurrently
	// across all jobs; a counting semaphore enforces it independently of
	// the worker count.
	// default: 4
	MaxInflight int

	// MaxRecords bounds how many records one job will process. Records
	// beyond the limit are dropped and noted with a single truncation
	// error entry. Zero keeps the default; a negative value removes
	// the bound.
	// default: 100
	MaxRecords int

	// SubmitDelay paces the submission loop between successive
	// dispatches. Zero keeps the default; a negative value disables
	// pacing entirely (tests rely on that).
	// default: 20 milliseconds
	SubmitDelay time.Duration

	// QueueSize buffers dispatched tasks ahead of the worker pool.
	// default: 64
	QueueSize int

	// Logger provides logging for job progress and failures.
	// default: logger.Noop
	Logger logger.Logger
}

func defaultEngineConfig() EngineConfig {
	return EngineConfig{
		Workers:     2,
		MaxInflight: 4,
		MaxRecords:  100,
		SubmitDelay: 20 * time.Millisecond,
		QueueSize:   64,
		Logger:      &logger.Noop{},
	}
}

func applyEngineConfig(in EngineConfig) EngineConfig {
	out := defaultEngineConfig()
	if in.Workers > 0 {
		out.Workers = in.Workers
	}
	if in.MaxInflight > 0 {
		out.MaxInflight = in.MaxInflight
	}
	if in.MaxRecords != 0 {
		out.MaxRecords = in.MaxRecords
	}
	if in.SubmitDelay != 0 {
		out.SubmitDelay = in.SubmitDelay
	}
	if in.QueueSize > 0 {
		out.QueueSize = in.QueueSize
	}
	if in.Logger != nil {
		out.Logger = in.Logger
	}
	return out
}
