package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/canton09/aisales/pkg/validator"

	_ "github.com/canton09/aisales/docs"
	"github.com/canton09/aisales/internal/adapter/handler"
	"github.com/canton09/aisales/internal/adapter/repository"
	"github.com/canton09/aisales/internal/domain/entities"
	"github.com/canton09/aisales/internal/domain/repositories"
	"github.com/canton09/aisales/internal/infrastructure/cache"
	httpmw "github.com/canton09/aisales/internal/infrastructure/http/middleware"
	"github.com/canton09/aisales/internal/infrastructure/logger"
	"github.com/canton09/aisales/internal/usecase/analysis"
	"github.com/canton09/aisales/internal/usecase/scenario"
	pkgai "github.com/canton09/aisales/pkg/ai"
	"github.com/canton09/aisales/pkg/config"
)

// @title           Sales Coach AI API
// @version         1.0
// @description     Analyzes sales conversation transcripts with DeepSeek or Gemini and returns a structured coaching report.

// @BasePath  /v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.RequestID())
	if cfg.Log.Format == "json" {
		e.Use(httpmw.RequestLogger(zl))
	} else {
		// Custom logger format
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
			Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
		}))
	}

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Scenario catalog
	log.Println("📚 Loading scenario catalog...")
	catalog, err := scenario.NewCatalog(zl)
	if err != nil {
		log.Fatalf("Failed to load scenarios: %v", err)
	}
	if cfg.Analysis.ScenarioFile != "" {
		if err := catalog.LoadFile(cfg.Analysis.ScenarioFile); err != nil {
			log.Fatalf("Failed to load scenario file: %v", err)
		}
		go func() {
			if err := catalog.Watch(ctx, cfg.Analysis.ScenarioFile); err != nil {
				zl.Error("scenario.watch.failed", zap.Error(err))
			}
		}()
		log.Printf("👀 Watching %s for scenario changes", cfg.Analysis.ScenarioFile)
	}
	if err := catalog.SetDefault(cfg.Analysis.DefaultScenario); err != nil {
		log.Printf("⚠️  DEFAULT_SCENARIO ignored: %v", err)
	}

	// Preference store
	var prefs repositories.PreferenceRepository
	if cfg.RedisEnabled() {
		log.Println("📦 Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		prefs = repository.NewRedisPreferenceRepository(redisClient, cfg.Redis.Key)
	} else {
		log.Println("⚠️  REDIS_ADDR not set, preferences live in memory")
		store := cache.NewMemoryStore(0)
		defer store.Close()
		prefs = repository.NewMemoryPreferenceRepository(store)
	}

	// Providers and analysis service
	log.Println("🤖 Initializing AI components...")
	deepseek := pkgai.NewDeepSeekClient(&cfg.DeepSeek, zl)
	gemini := pkgai.NewGeminiClient(&cfg.Gemini, zl)
	if !gemini.HasServerKey() {
		log.Println("⚠️  GEMINI_API_KEY not set, Gemini requests must carry their own key")
	}
	if cfg.StreamMismatch() {
		zl.Warn("deepseek.stream_without_proxy_stream",
			zap.String("hint", "DEEPSEEK_STREAM=true with DEEPSEEK_PROXY_URL needs PROXY_ALLOW_STREAM=true on the proxy"),
		)
	}

	defaultProvider, _ := entities.ParseProvider(cfg.Analysis.DefaultProvider)
	analysisService := analysis.NewService(catalog, map[entities.Provider]analysis.Completer{
		entities.ProviderDeepSeek: deepseek,
		entities.ProviderGemini:   gemini,
	}, analysis.Options{
		Timeout:         cfg.Analysis.Timeout,
		MaxInflight:     cfg.Analysis.MaxInflight,
		StrictJSON:      cfg.Analysis.StrictJSON,
		DefaultProvider: defaultProvider,
	}, zl)

	proxyHandler := handler.NewProxy(&cfg.Proxy, zl)
	analysisController := handler.NewAnalysisController(analysisService, prefs, zl)
	preferenceHandler := handler.NewPreference(prefs, zl)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, proxyHandler, analysisController, preferenceHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := cfg.GetServerAddr()
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
