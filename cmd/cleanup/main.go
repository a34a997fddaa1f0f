package main

import (
	"context"
	"log"
	"time"

	"fitmarket/internal/bus"
	"fitmarket/internal/config"
	"fitmarket/internal/data"
	"fitmarket/internal/database"
	"fitmarket/internal/logging"
	"fitmarket/internal/store/local"
	"fitmarket/internal/store/remote"
	"fitmarket/internal/syncer"

	"go.uber.org/zap"
)

// cleanup prunes read notifications past NOTIFICATION_RETENTION. It pulls
// first so it works on current data, and waits for the deletes to reach the
// backend before exiting.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if cfg.LocalStoreDriver != config.DriverSQLite {
		logger.Fatal("cleanup only supports the sqlite local store")
	}
	localDB, err := database.Connect(cfg.LocalStoreDSN, logger)
	if err != nil {
		logger.Fatal("local store unavailable", zap.Error(err))
	}
	backend, err := local.NewSQLBackend(localDB, cfg.LocalStoreMaxBytes)
	if err != nil {
		logger.Fatal("local store unavailable", zap.Error(err))
	}
	store := local.New(backend, cfg.LocalStoreNamespace, local.WithLogger(logger))

	gw := remote.NewGateway(nil, remote.WithLogger(logger))
	if !cfg.LocalOnly() {
		remoteDB, err := database.Connect(cfg.DatabaseURL, logger)
		if err != nil {
			logger.Fatal("db connect failed", zap.Error(err))
		}
		gw = remote.NewGateway(remoteDB, remote.WithTimeout(cfg.RemoteTimeout), remote.WithLogger(logger))
	}

	b := bus.New()
	coord := syncer.New(store, gw, b, syncer.WithTimeout(cfg.RemoteTimeout), syncer.WithLogger(logger))
	defer coord.Close()
	db := data.New(store, gw, coord, b, data.WithLogger(logger))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := db.ForceSync(ctx); err != nil {
		logger.Warn("pull incomplete, pruning cached data", zap.Error(err))
	}
	deleted, err := db.PruneNotifications(ctx, cfg.NotificationRetention)
	if err != nil {
		logger.Fatal("cleanup notifications failed", zap.Error(err))
	}
	if err := coord.Flush(ctx); err != nil {
		logger.Fatal("flush failed", zap.Error(err))
	}

	logger.Info("cleanup completed", zap.Int("notifications", deleted))
}
