package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/voskhttp/voskhttp/internal/cache"
	"github.com/voskhttp/voskhttp/internal/config"
	"github.com/voskhttp/voskhttp/internal/database"
	"github.com/voskhttp/voskhttp/internal/embedding"
	"github.com/voskhttp/voskhttp/internal/job"
	"github.com/voskhttp/voskhttp/internal/media"
	"github.com/voskhttp/voskhttp/internal/queue"
	"github.com/voskhttp/voskhttp/internal/queue/workers"
	"github.com/voskhttp/voskhttp/internal/stt"
	"github.com/voskhttp/voskhttp/internal/stt/vosk"
	"github.com/voskhttp/voskhttp/internal/transcribe"
	"github.com/voskhttp/voskhttp/internal/vectorstore"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("worker requires a database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db, cfg.Database.MigrationsPath); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	provider, cleanup, err := newProvider(cfg)
	if err != nil {
		slog.Error("failed to initialize STT backend", "backend", cfg.STT.Backend, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	ffmpeg := media.NewFFmpeg(
		media.WithBinary(cfg.Media.FFmpegBinary),
		media.WithCommandTimeout(cfg.Media.CommandTimeout),
		media.WithMaxOutputBytes(cfg.Media.MaxAudioBytes),
	)

	jobSvc := job.NewService(db)
	transcribeSvc := transcribe.NewService(provider, ffmpeg, cache.NewCache(rdb), cfg.STT.SampleRate)
	queueClient := queue.NewClient(cfg.Redis)
	defer queueClient.Close()

	embedEnabled := cfg.STT.OpenAIKey != ""

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			// Decodes are CPU-bound; keep concurrency low.
			Concurrency: 2,
			Queues: map[string]int{
				"default": 3,
				"low":     1,
			},
		},
	)

	mux := queue.NewMux()

	transcribeWorker := workers.NewTranscribeWorker(jobSvc, transcribeSvc, queueClient, embedEnabled)
	mux.HandleTranscriptionProcess(asynq.HandlerFunc(transcribeWorker.ProcessTask))

	if embedEnabled {
		embedWorker := workers.NewEmbedWorker(
			jobSvc,
			embedding.NewService(cfg.STT.OpenAIKey, cfg.Embedding.Model),
			vectorstore.NewPgVectorStore(db),
		)
		mux.HandleTranscriptEmbed(asynq.HandlerFunc(embedWorker.ProcessTask))
	}

	slog.Info("starting worker", "backend", provider.Name(), "embedding", embedEnabled)
	if err := srv.Run(mux.ServeMux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}

func newProvider(cfg *config.Config) (stt.Provider, func(), error) {
	switch cfg.STT.Backend {
	case "whisper":
		p := stt.NewWhisperProvider(stt.WhisperConfig{
			APIKey:  cfg.STT.OpenAIKey,
			BaseURL: cfg.STT.OpenAIBaseURL,
			Model:   cfg.STT.OpenAIModel,
		})
		return p, func() {}, nil
	default:
		engine, err := vosk.NewEngine(vosk.Config{
			ModelPath:  cfg.STT.ModelPath,
			SampleRate: cfg.STT.SampleRate,
			ChunkSize:  cfg.STT.ChunkSize,
		})
		if err != nil {
			return nil, nil, err
		}
		return engine, engine.Close, nil
	}
}
