package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/lobby/internal/config"
	"github.com/Nixie-Tech-LLC/lobby/internal/db"
	"github.com/Nixie-Tech-LLC/lobby/internal/feed"
	"github.com/Nixie-Tech-LLC/lobby/internal/jobs"
	"github.com/Nixie-Tech-LLC/lobby/internal/logger"
	"github.com/Nixie-Tech-LLC/lobby/internal/metrics"
	rediscache "github.com/Nixie-Tech-LLC/lobby/internal/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Setup(cfg.LogLevel, cfg.LogPretty)
	if cfg.Environment == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// initialize PostgreSQL
	conn, err := db.Init(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db init")
	}
	defer conn.Close()

	// run pending migrations
	if err := db.RunMigrations(ctx, conn, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}
	store := db.NewStore(conn)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	blobs, local := InitStorage(cfg)

	feedOpts := []feed.Option{feed.WithMetrics(m)}
	if cfg.Redis.Enabled() {
		client, err := rediscache.NewClient(ctx, cfg.Redis.Address, cfg.Redis.Username, cfg.Redis.Password)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, feed cache disabled")
		} else {
			defer client.Close()
			feedOpts = append(feedOpts, feed.WithCache(rediscache.NewFeedCache(client, cfg.Feed.CacheTTL)))
		}
	}
	feeds := feed.NewService(store, cfg.Feed.EntryDuration, feedOpts...)

	// daily unpin of priority groups
	loc, err := time.LoadLocation(cfg.Unpin.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", cfg.Unpin.Timezone).Msg("unknown timezone, scheduling jobs in UTC")
		loc = time.UTC
	}
	scheduler := jobs.NewScheduler(loc, m)
	if err := scheduler.AddDaily(jobs.UnpinJobName, cfg.Unpin.At, jobs.Unpin(store)); err != nil {
		log.Fatal().Err(err).Msg("schedule unpin job")
	}
	scheduler.Start(ctx)

	// set up gin router
	r := gin.New()
	r.Use(gin.Recovery())
	RegisterRoutes(r, Dependencies{
		Shutdown: ctx,
		Config:   cfg,
		Store:    store,
		Storage:  blobs,
		Local:    local,
		Feeds:    feeds,
		Metrics:  m,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("address", cfg.ServerAddress).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	// open feed streams end with ctx; wait for in-flight requests
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
