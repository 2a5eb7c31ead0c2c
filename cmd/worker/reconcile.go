package main

import (
	"context"
	"log"

	"github.com/tareas-api/proyectos-billing/config"
	"github.com/tareas-api/proyectos-billing/internal/billing/jobs"
	"github.com/tareas-api/proyectos-billing/internal/billing/repository"
	"github.com/tareas-api/proyectos-billing/internal/billing/store"
	"github.com/tareas-api/proyectos-billing/internal/bootstrap"
	"github.com/tareas-api/proyectos-billing/internal/logging"
)

// RunReconcile performs a single reconciliation sweep and exits. Useful when
// the API runs without its own scheduler or for operator-driven replays.
func RunReconcile() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.App.Environment, cfg.App.LogLevel)

	rdb, err := bootstrap.OpenRedis(context.Background(), bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	journal := repository.NewJournalRepository(rdb)
	cache := repository.NewListCache(rdb)
	storeClient := store.NewClient(cfg.Store.BaseURL)

	jobs.NewReconciler(journal, storeClient, cache, logger).Sweep(context.Background())
}
