package main

import (
	"context"
	"log"

	"github.com/tareas-api/proyectos-billing/config"
	"github.com/tareas-api/proyectos-billing/internal/billing/gateway"
	billinghttp "github.com/tareas-api/proyectos-billing/internal/billing/http"
	"github.com/tareas-api/proyectos-billing/internal/billing/jobs"
	"github.com/tareas-api/proyectos-billing/internal/billing/repository"
	"github.com/tareas-api/proyectos-billing/internal/billing/service"
	"github.com/tareas-api/proyectos-billing/internal/billing/store"
	"github.com/tareas-api/proyectos-billing/internal/bootstrap"
	"github.com/tareas-api/proyectos-billing/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	bootstrap.SetGinMode(cfg.App.Environment)

	storeClient := store.NewClient(cfg.Store.BaseURL)
	gatewayClient := gateway.NewClient(cfg.Store.BaseURL, cfg.Gateway.ProviderURL, cfg.Gateway.RPS)

	var journal *repository.JournalRepository
	var cache *repository.ListCache
	rdb, err := bootstrap.OpenRedis(context.Background(), bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.WithError(err).Warn("redis unavailable, running without charge journal and list cache")
	} else {
		journal = repository.NewJournalRepository(rdb)
		cache = repository.NewListCache(rdb)
	}

	orch := service.NewOrchestrator(storeClient, gatewayClient, journal, cache, logger)
	projects := service.NewProjectService(storeClient, cache)

	if journal != nil {
		reconciler := jobs.NewReconciler(journal, storeClient, cache, logger)
		if err := reconciler.Start(); err != nil {
			logger.WithError(err).Error("failed to start charge reconciler")
		} else {
			defer reconciler.Stop()
		}
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "proyectos-billing",
		Version:     cfg.App.Version,
		Handler:     billinghttp.NewHandler(orch, projects, logger),
	})

	logger.WithField("port", cfg.Server.Port).Info("listening")
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
