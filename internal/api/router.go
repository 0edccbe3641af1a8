package api

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/notq/speech-backend/internal/api/handlers"
	"github.com/notq/speech-backend/internal/api/middleware"
	"github.com/notq/speech-backend/internal/auth"
	"github.com/notq/speech-backend/internal/cache"
	"github.com/notq/speech-backend/internal/config"
	"github.com/notq/speech-backend/internal/llm"
	"github.com/notq/speech-backend/internal/plan"
	"github.com/notq/speech-backend/internal/speech/measure"
	"github.com/notq/speech-backend/internal/speech/tts"
	"github.com/notq/speech-backend/internal/storage"
)

type Router struct {
	mux   *chi.Mux
	redis *redis.Client
	cfg   *config.Config
	store *storage.PublicStore
	jwt   *auth.JWTMiddleware
	llmGW llm.Gateway
}

func NewRouter(rdb *redis.Client, cfg *config.Config, store *storage.PublicStore) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		redis: rdb,
		cfg:   cfg,
		store: store,
		jwt:   auth.NewJWTMiddleware(cfg.Auth.JWTSecret),
		llmGW: llm.NewGateway(cfg.LLM),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(10, 30)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.redis)
	r.Get("/health", health.Health)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	modelsH := handlers.NewModelsHandler(rt.llmGW)
	r.Get("/models", modelsH.ListModels)

	// Services
	var planCache plan.Cache
	if rt.redis != nil {
		planCache = cache.NewCache(rt.redis)
	}
	planSvc := plan.NewService(rt.llmGW, planCache, rt.cfg.Plan.CacheTTL)

	assessor := measure.NewWhisperAssessor(measure.WhisperConfig{
		APIKey:  rt.cfg.Measure.OpenAIKey,
		BaseURL: rt.cfg.Measure.OpenAIBaseURL,
		Model:   rt.cfg.Measure.OpenAIModel,
	})

	ttsSvc := tts.NewService(rt.ttsProvider(), rt.store)

	// API endpoints
	r.Group(func(r chi.Router) {
		r.Use(rt.jwt.Authenticate)

		measureH := handlers.NewMeasurementHandler(assessor)
		r.Post("/level_measurement", measureH.Measure)

		speechH := handlers.NewSpeechHandler(ttsSvc)
		r.Post("/text_to_speach", speechH.Synthesize)

		planH := handlers.NewPlanHandler(planSvc)
		r.Post("/generate_speech_plan", planH.GenerateSpeechPlan)
		r.Post("/generate_plan", planH.GeneratePlan)
	})

	// Generated audio and the tester dashboard
	fileServer := http.StripPrefix("/public/", http.FileServer(http.Dir(rt.store.Dir())))
	r.Get("/public/*", fileServer.ServeHTTP)
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, filepath.Join(rt.cfg.Storage.WebDir, "index.html"))
	})

	return r
}

func (rt *Router) ttsProvider() tts.Provider {
	switch rt.cfg.TTS.Backend {
	case "openai":
		return tts.NewOpenAITTS(tts.OpenAIConfig{
			APIKey:  rt.cfg.TTS.OpenAIKey,
			BaseURL: rt.cfg.TTS.OpenAIBaseURL,
			Model:   rt.cfg.TTS.OpenAIModel,
		})
	default:
		return tts.NewGeminiTTS(tts.GeminiConfig{
			APIKey:  rt.cfg.TTS.GeminiKey,
			BaseURL: rt.cfg.TTS.GeminiBaseURL,
			Model:   rt.cfg.TTS.GeminiModel,
		})
	}
}
