package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"fitmarket/internal/api"
	"fitmarket/internal/bus"
	"fitmarket/internal/config"
	"fitmarket/internal/data"
	"fitmarket/internal/database"
	"fitmarket/internal/logging"
	"fitmarket/internal/metrics"
	"fitmarket/internal/middleware"
	jwtsvc "fitmarket/internal/pkg/jwt"
	"fitmarket/internal/store/local"
	"fitmarket/internal/store/remote"
	"fitmarket/internal/syncer"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := openLocalBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("local store unavailable", zap.Error(err))
	}
	store := local.New(backend, cfg.LocalStoreNamespace,
		local.WithLogger(logger),
		local.WithImageLimit(cfg.ImageInlineMaxBytes),
	)

	gw, err := openGateway(cfg, logger)
	if err != nil {
		logger.Fatal("remote backend unavailable", zap.Error(err))
	}
	if !gw.Configured() {
		logger.Warn("DATABASE_URL is empty, running local-only")
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	b := bus.New()
	coord := syncer.New(store, gw, b,
		syncer.WithInterval(cfg.SyncInterval),
		syncer.WithSuppressionWindow(cfg.SuppressionWindow),
		syncer.WithQueueSize(cfg.PushQueueSize),
		syncer.WithTimeout(cfg.RemoteTimeout),
		syncer.WithLogger(logger),
		syncer.WithMetrics(m),
	)
	defer coord.Close()

	db := data.New(store, gw, coord, b,
		data.WithLogger(logger),
		data.WithMetrics(m),
	)

	hub := api.NewHub(db, cfg.CORSAllowedOrigins, logger)
	defer hub.Close()

	if isRelease(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.ErrorLogger(logger),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger),
	)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sync": db.SyncStatus()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	j := jwtsvc.New(cfg.JWTSecret, 24*time.Hour)
	api.Register(r, api.NewHandler(db, hub, logger), j)

	go coord.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
	if err := coord.Flush(shutdownCtx); err != nil {
		logger.Warn("pending pushes not flushed", zap.Error(err))
	}
}

func openLocalBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (local.Backend, error) {
	if cfg.LocalStoreDriver == config.DriverRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, err
		}
		logger.Info("using redis local store", zap.String("addr", cfg.RedisAddr))
		return local.NewRedisBackend(client, cfg.LocalStoreMaxBytes), nil
	}

	db, err := database.Connect(cfg.LocalStoreDSN, logger)
	if err != nil {
		return nil, err
	}
	return local.NewSQLBackend(db, cfg.LocalStoreMaxBytes)
}

func openGateway(cfg *config.Config, logger *zap.Logger) (*remote.Gateway, error) {
	if cfg.LocalOnly() {
		return remote.NewGateway(nil, remote.WithLogger(logger)), nil
	}

	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}
	if err := remote.Migrate(db); err != nil {
		return nil, err
	}
	return remote.NewGateway(db,
		remote.WithTimeout(cfg.RemoteTimeout),
		remote.WithLogger(logger),
	), nil
}

func isRelease(env string) bool {
	return env == "prod" || env == "production" || env == "release"
}
