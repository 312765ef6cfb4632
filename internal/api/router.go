package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/voskhttp/voskhttp/internal/api/handlers"
	"github.com/voskhttp/voskhttp/internal/api/middleware"
	"github.com/voskhttp/voskhttp/internal/auth"
	"github.com/voskhttp/voskhttp/internal/cache"
	"github.com/voskhttp/voskhttp/internal/config"
	"github.com/voskhttp/voskhttp/internal/embedding"
	"github.com/voskhttp/voskhttp/internal/job"
	"github.com/voskhttp/voskhttp/internal/media"
	"github.com/voskhttp/voskhttp/internal/queue"
	"github.com/voskhttp/voskhttp/internal/stt"
	"github.com/voskhttp/voskhttp/internal/summary"
	"github.com/voskhttp/voskhttp/internal/transcribe"
	"github.com/voskhttp/voskhttp/internal/vectorstore"
)

type Router struct {
	mux      *chi.Mux
	db       *pgxpool.Pool
	redis    *redis.Client
	cfg      *config.Config
	provider stt.Provider
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config, provider stt.Provider) *Router {
	return &Router{
		mux:      chi.NewRouter(),
		db:       db,
		redis:    rdb,
		cfg:      cfg,
		provider: provider,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(10, 20)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Initialize services; DB and Redis are optional, handlers degrade to 503.
	ffmpeg := media.NewFFmpeg(
		media.WithBinary(rt.cfg.Media.FFmpegBinary),
		media.WithCommandTimeout(rt.cfg.Media.CommandTimeout),
		media.WithMaxOutputBytes(rt.cfg.Media.MaxAudioBytes),
	)

	var resultCache *cache.Cache
	var queueClient *queue.Client
	if rt.redis != nil {
		resultCache = cache.NewCache(rt.redis)
		queueClient = queue.NewClient(rt.cfg.Redis)
	}

	transcribeSvc := transcribe.NewService(rt.provider, ffmpeg, resultCache, rt.cfg.STT.SampleRate)
	transcribeH := handlers.NewTranscribeHandler(transcribeSvc, int64(rt.cfg.Media.MaxAudioBytes))

	var jobSvc *job.Service
	var searchH *handlers.SearchHandler
	if rt.db != nil {
		jobSvc = job.NewService(rt.db)
		if rt.cfg.STT.OpenAIKey != "" {
			searchH = handlers.NewSearchHandler(
				embedding.NewService(rt.cfg.STT.OpenAIKey, rt.cfg.Embedding.Model),
				vectorstore.NewPgVectorStore(rt.db),
			)
		}
	}
	if searchH == nil {
		searchH = handlers.NewSearchHandler(nil, nil)
	}

	var summarizer *summary.Service
	if rt.cfg.Summary.AnthropicKey != "" {
		summarizer = summary.NewService(rt.cfg.Summary.AnthropicKey, rt.cfg.Summary.Model)
	}

	jobsH := handlers.NewJobsHandler(jobSvc, queueClient, summarizer)

	// Legacy endpoint: POST a file path, get the monologues document back.
	r.Post("/", transcribeH.RecognizePath)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if rt.cfg.Auth.JWTSecret != "" {
			jwt := auth.NewJWTMiddleware(rt.cfg.Auth.JWTSecret)
			r.Use(jwt.Authenticate)
		}

		r.Post("/transcriptions", transcribeH.Create)

		r.Route("/jobs", func(r chi.Router) {
			r.Post("/", jobsH.Create)
			r.Get("/", jobsH.List)
			r.Get("/{id}", jobsH.Get)
			r.Delete("/{id}", jobsH.Delete)
			r.Post("/{id}/summary", jobsH.Summary)
		})

		r.Post("/search", searchH.Query)
	})

	return r
}
