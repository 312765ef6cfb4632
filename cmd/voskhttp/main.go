package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/voskhttp/voskhttp/internal/api"
	"github.com/voskhttp/voskhttp/internal/config"
	"github.com/voskhttp/voskhttp/internal/database"
	"github.com/voskhttp/voskhttp/internal/stt"
	"github.com/voskhttp/voskhttp/internal/stt/vosk"
)

func main() {
	hostname := flag.String("hostname", "", "bind host (overrides SERVER_HOST)")
	port := flag.Int("port", 0, "bind port (overrides SERVER_PORT)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *hostname != "" {
		cfg.Server.Host = *hostname
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	provider, cleanup, err := newProvider(cfg)
	if err != nil {
		slog.Error("failed to initialize STT backend", "backend", cfg.STT.Backend, "error", err)
		os.Exit(1)
	}
	defer cleanup()
	slog.Info("STT backend ready", "backend", provider.Name())

	// Database connection (optional — job queue and search degrade without it)
	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Warn("database unavailable, running without job store", "error", err)
		db = nil
	} else {
		defer db.Close()

		if err := database.RunMigrations(ctx, db, cfg.Database.MigrationsPath); err != nil {
			slog.Warn("migrations failed", "error", err)
		}
	}

	// Redis connection (optional — result cache and queue degrade without it)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, running without cache", "error", err)
		rdb.Close()
		rdb = nil
	} else {
		defer rdb.Close()
	}

	router := api.NewRouter(db, rdb, cfg, provider)
	handler := router.Setup()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 10 * time.Minute, // synchronous decodes of long recordings
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
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
