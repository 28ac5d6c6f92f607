package litmos_two

import (
	"github.com/sunkingbms/litmos-two/batch"
	"github.com/sunkingbms/litmos-two/push"
)

// Bulk bundles the batch engine, its job store, and the push delivery
// worker around one Client, so both delivery shapes share the same
// directory and transport.
type Bulk struct {
	config bulkConfig
	store  *batch.Store
	engine *batch.Engine
	worker *push.Worker
}

func NewBulk(client *Client, opts ...BulkConfigOption) *Bulk {
	cfg := defaultBulkConfig()
	for _, o := range opts {
		o(&cfg)
	}

	store := batch.NewStore(cfg.jobTTL)
	engine := batch.NewEngine(client.Directory(), store, batch.EngineConfig{
		Workers:     cfg.workers,
		MaxInflight: cfg.maxInflight,
		MaxRecords:  cfg.maxRecords,
		SubmitDelay: cfg.submitDelay,
		Logger:      cfg.logger,
	})
	worker := push.NewWorker(client.Directory(), push.Config{
		AckRemoteRejections: cfg.ackRemoteRejections,
		Logger:              cfg.logger,
	})

	return &Bulk{
		config: cfg,
		store:  store,
		engine: engine,
		worker: worker,
	}
}

func (b *Bulk) Engine() *batch.Engine {
	return b.engine
}

func (b *Bulk) Store() *batch.Store {
	return b.store
}

func (b *Bulk) PushWorker() *push.Worker {
	return b.worker
}

func (b *Bulk) Start() {
	b.store.StartEviction(b.config.evictionInterval)
	b.engine.Start()
}

func (b *Bulk) Stop() {
	b.engine.Stop()
	b.store.StopEviction()
}
