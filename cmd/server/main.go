package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"turnero/internal/blobstore"
	"turnero/internal/catalog"
	catalogHandler "turnero/internal/catalog/handler"
	"turnero/internal/platform/config"
	"turnero/internal/platform/httpserver"
	"turnero/internal/platform/logger"
	"turnero/internal/platform/metrics"
	queueHandler "turnero/internal/queue/handler"
	queueMetrics "turnero/internal/queue/metrics"
	"turnero/internal/queue/service"
	"turnero/internal/queue/store"
	"turnero/internal/server"
)

const shutdownTimeout = 10 * time.Second

// main wires dependencies and owns the process lifecycle. Queue logic lives
// in internal/queue; main only assembles it.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	blobs, err := blobstore.Open(ctx, cfg.Storage, log)
	if err != nil {
		log.Error("failed to open blob store", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := blobs.Close(); err != nil {
			log.Warn("failed to close blob store", "error", err)
		}
	}()

	appointments, err := store.Hydrate(ctx, blobs, store.WithKey(cfg.Storage.Key), store.WithLogger(log))
	if err != nil {
		log.Error("failed to hydrate appointment queue", "error", err)
		os.Exit(1)
	}
	log.Info("appointment queue hydrated",
		"key", appointments.Key(),
		"appointments", appointments.Len(),
		"next_id", appointments.PeekID(),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	holder := catalog.NewHolder(catalog.WithLogger(log))
	queue := service.New(appointments, holder,
		service.WithLogger(log),
		service.WithMetrics(queueMetrics.New(reg)),
		service.WithSlotDuration(cfg.Queue.SlotDuration),
		service.WithTimeLayout(cfg.Queue.TimeLayout),
		service.WithLocation(cfg.Queue.Location),
	)

	router := server.NewRouter(server.Options{
		Logger:   log,
		Metrics:  metrics.New(reg),
		Gatherer: reg,
		Health:   &server.Health{Catalog: holder, Queue: queue, Storage: string(blobs.Driver())},
		Modules: []server.Registrar{
			queueHandler.New(queue, log),
			catalogHandler.New(holder, log),
		},
	})
	srv := httpserver.New(cfg.Addr, router, log)

	g, gctx := errgroup.WithContext(ctx)

	// One fetch, no retry: a failure leaves registration disabled until restart.
	g.Go(func() error {
		_ = holder.Load(gctx, catalog.SourceFetcher(cfg.CatalogSource, nil))
		return nil
	})

	g.Go(func() error {
		log.Info("starting turnero", "addr", cfg.Addr, "storage", string(blobs.Driver()), "catalog", cfg.CatalogSource)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}
