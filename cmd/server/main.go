package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/stellar/route-engine/internal/cache"
	"github.com/stellar/route-engine/internal/config"
	"github.com/stellar/route-engine/internal/database"
	"github.com/stellar/route-engine/internal/graph"
	"github.com/stellar/route-engine/internal/graph/discovery"
	"github.com/stellar/route-engine/internal/horizon"
	"github.com/stellar/route-engine/internal/pathfinder"
	"github.com/stellar/route-engine/internal/registry"
	"github.com/stellar/route-engine/internal/resolver"
	"github.com/stellar/route-engine/internal/scheduler"
	"github.com/stellar/route-engine/internal/server"
	"github.com/stellar/route-engine/pkg/logger"
)

func main() {
	log := logger.New(logger.Config{
		Level:  "info",
		Pretty: true,
	})

	log.Info().Msg("starting route engine")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	instanceID := uuid.New().String()
	log = logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.DevMode}).With().Str("instance_id", instanceID).Logger()
	logger.SetGlobalLogger(log)

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	assetRegistry := registry.NewMemoryRegistry(log)
	// TODO: wire the anchor-TOML crawler and Horizon account snapshot loader
	// once they exist; the registry starts empty and is populated by the
	// first full rebuild's asset-snapshot loader in a complete deployment.

	horizonClient := horizon.NewClient(cfg.HorizonBaseURL, cfg.HorizonPathTO, log)

	g := graph.New()

	disc := discovery.New(horizonClient, discovery.Config{
		OrderbookConcurrency: cfg.OrderbookConcurrency,
		OrderbookTimeout:     cfg.HorizonOrderbookTO,
		MinDepth:             cfg.OrderbookMinDepth,
	}, log)

	builder := graph.NewBuilder(g, assetRegistry, assetRegistry, disc, false, log)

	finder := pathfinder.New(g)

	routeCache := cache.New(db.Conn(), g.Version, log)
	g.OnInvalidate(routeCache.InvalidateAll)

	resolverCfg := resolver.DefaultConfig()
	resolverCfg.MaxHops = cfg.MaxHops
	resolverCfg.MaxRoutesPerDest = cfg.MaxRoutesPerDest
	resolverCfg.MaxRoutesGlobal = cfg.MaxRoutesGlobal
	resolverCfg.GraceTimeout = time.Duration(cfg.GraceTimeoutSec) * time.Second
	resolverCfg.HorizonTimeout = cfg.HorizonPathTO

	resolv := resolver.New(resolverCfg, g, finder, horizonClient, routeCache, assetRegistry, log)

	sched := scheduler.New(log)
	fullRebuildJob := scheduler.NewFullRebuildJob(builder, log)
	lightRefreshJob := scheduler.NewLightRefreshJob(builder, log)
	cachePurgeJob := scheduler.NewCachePurgeJob(routeCache, log)

	if err := sched.AddJob(cfg.FullRebuildCron, fullRebuildJob); err != nil {
		log.Fatal().Err(err).Msg("failed to register full rebuild job")
	}
	if err := sched.AddJob(cfg.LightRefreshCron, lightRefreshJob); err != nil {
		log.Fatal().Err(err).Msg("failed to register light refresh job")
	}
	if err := sched.AddJob(cfg.CachePurgeCron, cachePurgeJob); err != nil {
		log.Fatal().Err(err).Msg("failed to register cache purge job")
	}

	sched.Start()
	defer sched.Stop()

	// Initial build shortly after boot so the process doesn't serve an empty
	// graph for the full first interval (spec.md §4.7).
	sched.RunAfter(1*time.Second, fullRebuildJob)

	srv := server.New(server.Config{
		Port:       cfg.Port,
		Log:        log,
		Config:     cfg,
		Resolver:   resolv,
		Graph:      g,
		Scheduler:  sched,
		RebuildJob: fullRebuildJob,
		DevMode:    cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("route engine started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down route engine...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("route engine stopped")
}
