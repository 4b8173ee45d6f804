// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"supplement-workers/internal/catalog"
	"supplement-workers/internal/common/aws"
	"supplement-workers/internal/common/camunda"
	"supplement-workers/internal/common/config"
	"supplement-workers/internal/common/database"
	"supplement-workers/internal/common/logger"
	"supplement-workers/internal/common/observability"
	"supplement-workers/internal/common/validation"
	"supplement-workers/internal/scoring"
	"supplement-workers/internal/store"

	ic "supplement-workers/internal/workers/catalog/import-catalog"
	ss "supplement-workers/internal/workers/catalog/search-supplements"
	srs "supplement-workers/internal/workers/notification/send-recommendation-summary"
	vp "supplement-workers/internal/workers/profile/validate-profile"
	gr "supplement-workers/internal/workers/recommendation/generate-recommendations"
	pr "supplement-workers/internal/workers/recommendation/persist-recommendations"
	rp "supplement-workers/internal/workers/recommendation/rank-protocols"
	rc "supplement-workers/internal/workers/tracking/record-checkin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewStructured("info", "json").Error("failed to load config", map[string]interface{}{"error": err})
		os.Exit(1)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})
	log.Info("starting worker manager", map[string]interface{}{"environment": cfg.App.Environment})

	if err := run(cfg, log); err != nil {
		log.Error("worker manager stopped with error", map[string]interface{}{"error": err})
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs := observability.New(observability.Options{
		ServiceName:    cfg.Observability.ServiceName,
		TracingEnabled: cfg.Observability.TracingEnabled,
	}, log)
	defer func() {
		if err := obs.Shutdown(context.Background()); err != nil {
			log.Warn("observability shutdown failed", map[string]interface{}{"error": err})
		}
	}()

	// --- Backing services ---
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()
	if err := camunda.Retry(ctx, camunda.DefaultRetryConfig, log, "postgres ping", pg.Ping); err != nil {
		return err
	}

	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()
	if err := rdb.Ping(ctx); err != nil {
		// Stores fall back to Postgres when the cache is unreachable.
		log.Warn("redis unavailable, caching degraded", map[string]interface{}{"error": err})
	}

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		return err
	}
	if err := camunda.Retry(ctx, camunda.DefaultRetryConfig, log, "elasticsearch ping", es.Ping); err != nil {
		return err
	}

	zc, err := camunda.Connect(ctx, cfg.Camunda.BrokerAddress, config.GetDuration(cfg.Camunda.RequestTimeout), camunda.DefaultRetryConfig, log)
	if err != nil {
		return err
	}
	defer zc.Close()
	log.Info("connected to zeebe", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

	// --- Domain services ---
	validator, err := validation.NewDefaultValidator()
	if err != nil {
		return err
	}
	engine := scoring.NewDefaultEngine()

	profiles := store.NewProfileStore(pg.DB, rdb.Client, cfg.Catalog.ProfileCacheTTL(), log)
	catalogStore := store.NewCatalogStore(pg.DB, rdb.Client, cfg.Catalog.CacheTTL(), log)
	recommendations := store.NewRecommendationStore(pg.DB)
	checkins := store.NewCheckInStore(pg.DB)
	notifications := store.NewNotificationStore(pg.DB)

	indexer := catalog.NewIndexer(es.Client, cfg.Catalog.SearchIndex)
	importer := catalog.NewImporter(catalogStore, indexer, log)

	notify := srs.Dependencies{Profiles: profiles, Recorder: notifications, Validator: validator}
	if cfg.Notifications.Email.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWSRegion, cfg.Notifications.Email.FromEmail)
		if err != nil {
			return err
		}
		notify.Email = sesClient
	}
	if cfg.Notifications.SMS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWSRegion, cfg.Notifications.SMS.SenderID)
		if err != nil {
			return err
		}
		notify.SMS = snsClient
	}

	// --- Workers ---
	manager := camunda.NewManager(zc.Client, obs, log)

	manager.Start(vp.TaskType, config.GetWorkerConfig(cfg, vp.TaskType),
		vp.NewHandler(vp.LoadConfig(cfg), validator, profiles, log).Handle)
	manager.Start(gr.TaskType, config.GetWorkerConfig(cfg, gr.TaskType),
		gr.NewHandler(gr.LoadConfig(cfg), engine, validator, profiles, catalogStore, log).Handle)
	manager.Start(pr.TaskType, config.GetWorkerConfig(cfg, pr.TaskType),
		pr.NewHandler(pr.LoadConfig(cfg), validator, recommendations, log).Handle)
	manager.Start(rp.TaskType, config.GetWorkerConfig(cfg, rp.TaskType),
		rp.NewHandler(rp.LoadConfig(cfg), validator, profiles, catalogStore, log).Handle)
	manager.Start(rc.TaskType, config.GetWorkerConfig(cfg, rc.TaskType),
		rc.NewHandler(rc.LoadConfig(cfg), validator, checkins, log).Handle)
	manager.Start(ss.TaskType, config.GetWorkerConfig(cfg, ss.TaskType),
		ss.NewHandler(ss.LoadConfig(cfg), es.Client, validator, log).Handle)
	manager.Start(ic.TaskType, config.GetWorkerConfig(cfg, ic.TaskType),
		ic.NewHandler(ic.LoadConfig(cfg), importer, log).Handle)
	manager.Start(srs.TaskType, config.GetWorkerConfig(cfg, srs.TaskType),
		srs.NewHandler(srs.LoadConfig(cfg), notify, log).Handle)

	log.Info("workers registered", map[string]interface{}{"count": len(manager.Running())})

	// --- Ops server ---
	srv := &http.Server{
		Addr: cfg.Observability.MetricsAddress,
		Handler: newOpsRouter(manager.Running, map[string]Pinger{
			"postgres":      pg,
			"redis":         rdb,
			"elasticsearch": es,
			"zeebe":         PingFunc(zc.HealthCheck),
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("ops server listening", map[string]interface{}{"address": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("ops server failed", map[string]interface{}{"error": err})
			stop()
		}
	}()

	// --- Graceful shutdown ---
	<-ctx.Done()
	log.Info("shutdown signal received, stopping workers", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("ops server shutdown failed", map[string]interface{}{"error": err})
	}
	manager.Close()

	log.Info("worker manager stopped", nil)
	return nil
}
