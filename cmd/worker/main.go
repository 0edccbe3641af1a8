package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/hibiken/asynq"

	"github.com/notq/speech-backend/internal/config"
	"github.com/notq/speech-backend/internal/queue"
	"github.com/notq/speech-backend/internal/queue/workers"
	"github.com/notq/speech-backend/internal/storage"
)

// purgeInterval is how often the retention sweep over generated audio runs.
const purgeInterval = time.Hour

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := storage.NewPublicStore(cfg.Storage.PublicDir)
	if err != nil {
		slog.Error("failed to prepare public dir", "error", err)
		os.Exit(1)
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	registry := queue.NewHandlersRegistry()
	audioWorker := workers.NewAudioWorker(store)
	registry.Register(queue.TypeAudioPurge, asynq.HandlerFunc(audioWorker.ProcessTask))

	// Self-scheduling: enqueue a purge on startup and then on an interval.
	client := queue.NewClient(cfg.Redis)
	defer client.Close()
	go func() {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for {
			if err := client.EnqueueAudioPurge(cfg.Storage.Retention); err != nil {
				slog.Warn("failed to enqueue audio purge", "error", err)
			}
			<-ticker.C
		}
	}()

	slog.Info("starting worker", "concurrency", 4, "retention", cfg.Storage.Retention)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
