package litmos_two

import (
	"time"

	"github.com/sunkingbms/litmos-two/logger"
)

type bulkConfig struct {
	// workers sets the fixed worker-pool size executing record
	// operations
	// (maps to batch.EngineConfig.Workers)
	// default: 2
	workers int

	// maxInflight caps concurrently running record operations
	// across all jobs
	// (maps to batch.EngineConfig.MaxInflight)
	// default: 4
	maxInflight int

	// maxRecords truncates any single job beyond this many records
	// (maps to batch.EngineConfig.MaxRecords)
	// default: 100
	maxRecords int

	// submitDelay paces successive dispatches within one job;
	// negative disables pacing
	// (maps to batch.EngineConfig.SubmitDelay)
	// default: 20 milliseconds
	submitDelay time.Duration

	// jobTTL controls eviction of settled jobs from the store;
	// zero keeps them for the life of the process
	// default: 0
	jobTTL time.Duration

	// evictionInterval is how often the store janitor runs
	// when jobTTL is set
	// default: 10 minutes
	evictionInterval time.Duration

	// ackRemoteRejections makes the push worker acknowledge
	// deliveries the remote API rejected instead of requesting
	// redelivery
	// default: false
	ackRemoteRejections bool

	// logger provides logging for the engine and push worker
	// default: logger.Noop
	logger logger.Logger
}

func defaultBulkConfig() bulkConfig {
	return bulkConfig{
		workers:          2,
		maxInflight:      4,
		maxRecords:       100,
		submitDelay:      20 * time.Millisecond,
		evictionInterval: 10 * time.Minute,
		logger:           &logger.Noop{},
	}
}

type BulkConfigOption func(c *bulkConfig)

func WithBulkWorkers(workers int) BulkConfigOption {
	return func(c *bulkConfig) {
		c.workers = workers
	}
}

func WithBulkMaxInflight(inflight int) BulkConfigOption {
	return func(c *bulkConfig) {
		c.maxInflight = inflight
	}
}

func WithBulkMaxRecords(records int) BulkConfigOption {
	return func(c *bulkConfig) {
		c.maxRecords = records
	}
}

func WithBulkSubmitDelay(delay time.Duration) BulkConfigOption {
	return func(c *bulkConfig) {
		c.submitDelay = delay
	}
}

func WithBulkJobTTL(ttl time.Duration) BulkConfigOption {
	return func(c *bulkConfig) {
		c.jobTTL = ttl
	}
}

func WithBulkAckRemoteRejections(ack bool) BulkConfigOption {
	return func(c *bulkConfig) {
		c.ackRemoteRejections = ack
	}
}

func WithBulkLogger(logger logger.Logger) BulkConfigOption {
	return func(c *bulkConfig) {
		c.logger = logger
	}
}
