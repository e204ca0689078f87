// Package blobstore selects the key-value backend the appointment queue is
// persisted through.
package blobstore

import (
	"context"
	"fmt"
	"log/slog"

	"turnero/internal/blobstore/core"
	"turnero/internal/blobstore/file"
	"turnero/internal/blobstore/memory"
	"turnero/internal/blobstore/postgres"
	redisstore "turnero/internal/blobstore/redis"
	s3store "turnero/internal/blobstore/s3"
	"turnero/internal/blobstore/sqlite"
	"turnero/internal/platform/config"
	"turnero/internal/platform/redis"
)

// Open builds the core.Store named by cfg.Driver (default file).
//
//	file:     cfg.FileRoot
//	memory:   no settings
//	redis:    cfg.Redis (URL required)
//	postgres: cfg.PostgresDSN, cfg.PostgresTable
//	sqlite:   cfg.SQLitePath
//	s3:       cfg.S3 (bucket required)
func Open(ctx context.Context, cfg config.Storage, logger *slog.Logger) (core.Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	driver := core.Driver(cfg.Driver)
	if driver == "" {
		driver = core.DriverFile
	}

	var (
		store core.Store
		err   error
	)
	switch driver {
	case core.DriverFile:
		store, err = file.New(cfg.FileRoot)
	case core.DriverMemory:
		store = memory.New()
	case core.DriverRedis:
		store, err = openRedis(ctx, cfg.Redis)
	case core.DriverPostgres:
		store, err = postgres.Open(ctx, cfg.PostgresDSN, cfg.PostgresTable)
	case core.DriverSQLite:
		store, err = sqlite.Open(ctx, cfg.SQLitePath)
	case core.DriverS3:
		store, err = s3store.New(ctx, s3store.Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PathStyle:       cfg.S3.PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s blob store: %w", driver, err)
	}

	logger.InfoContext(ctx, "blob store opened", "driver", string(store.Driver()))
	return store, nil
}

func openRedis(ctx context.Context, cfg config.RedisConfig) (core.Store, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("redis url required")
	}
	client, err := redis.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return redisstore.New(client.Client), nil
}
