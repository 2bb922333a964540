package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"github.com/reqline/reqline/internal/audit"
	"github.com/reqline/reqline/internal/config"
	"github.com/reqline/reqline/internal/database"
	"github.com/reqline/reqline/internal/embedding"
	"github.com/reqline/reqline/internal/jobdesc"
	"github.com/reqline/reqline/internal/llm"
	"github.com/reqline/reqline/internal/queue"
	"github.com/reqline/reqline/internal/queue/workers"
	"github.com/reqline/reqline/internal/requisition"
	"github.com/reqline/reqline/internal/tenant"
	"github.com/reqline/reqline/internal/vectorstore"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	db, err := database.NewPool(context.Background(), cfg.Database)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	gw := llm.NewGateway(cfg.LLM)
	vs := vectorstore.NewPgVectorStore(db)
	auditSvc := audit.NewService(db)
	reqSvc := requisition.NewService(db, vs, queue.NewClient(cfg.Redis), auditSvc)
	tenantSvc := tenant.NewService(db)
	embedSvc := embedding.NewService(gw, cfg.LLM.EmbeddingModel)
	generator := jobdesc.NewGenerator(gw, cfg.LLM.DefaultModel)

	registry := queue.NewHandlersRegistry()

	// Register workers
	embeddingWorker := workers.NewEmbeddingWorker(reqSvc, embedSvc, vs)
	descriptionWorker := workers.NewDescriptionWorker(reqSvc, tenantSvc, generator)

	registry.Register(queue.TypeEmbeddingGenerate, asynq.HandlerFunc(embeddingWorker.ProcessTask))
	registry.Register(queue.TypeDescriptionGenerate, asynq.HandlerFunc(descriptionWorker.ProcessTask))

	slog.Info("starting worker", "concurrency", 10)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
