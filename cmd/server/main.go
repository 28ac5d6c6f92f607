package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	litmos "github.com/sunkingbms/litmos-two"
	"github.com/sunkingbms/litmos-two/api"
	"github.com/sunkingbms/litmos-two/diag"
	"github.com/sunkingbms/litmos-two/logger"
	"github.com/sunkingbms/litmos-two/metrics"
	"github.com/sunkingbms/litmos-two/rate"
	"github.com/sunkingbms/litmos-two/retry"
	"github.com/sunkingbms/litmos-two/service"
)

func main() {
	cfg := service.Load()
	if cfg.ApiKey == "" || cfg.BearerToken == "" {
		log.Fatal("LITMOS_API_KEY and LITMOS_BEARER_TOKEN are required")
	}

	zl := logger.NewZapProduction()
	metrics.Init()

	var limiter rate.Limiter = &rate.NoopLimiter{}
	if cfg.OutboundRPS > 0 {
		limiter = rate.NewTokenBucket(cfg.OutboundRPS, cfg.OutboundBurst)
	}

	client := litmos.NewClient(
		cfg.BaseURL,
		api.Credentials{
			ApiKey:      cfg.ApiKey,
			BearerToken: cfg.BearerToken,
			Source:      cfg.Source,
		},
		litmos.WithLogger(zl),
		litmos.WithTimeout(cfg.OutboundTimeout),
		litmos.WithMaxAttempts(cfg.MaxRetries),
		litmos.WithRetry(retry.NewExponentialRetry(
			retry.WithBackoffFactor(cfg.BackoffFactor),
			retry.WithLogger(zl),
		)),
		litmos.WithRateLimiter(limiter),
		litmos.WithActionURL(cfg.ActionURL),
		litmos.WithDiagRecorder(diag.NewFileRecorder(cfg.LogDir, zl)),
	)

	bulk := litmos.NewBulk(
		client,
		litmos.WithBulkWorkers(cfg.Workers),
		litmos.WithBulkMaxInflight(cfg.MaxInflight),
		litmos.WithBulkMaxRecords(cfg.MaxRecords),
		litmos.WithBulkSubmitDelay(cfg.SubmitDelay),
		litmos.WithBulkJobTTL(cfg.JobTTL),
		litmos.WithBulkLogger(zl),
	)
	bulk.Start()

	server := service.NewServer()
	service.RegisterIntakeRoutes(server, service.NewIntakeHandler(bulk.Engine(), bulk.Store(), cfg, zl))

	go func() {
		if err := server.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	bulk.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
}
