package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"scout/scout/config"
	"scout/scout/controllers"
	"scout/scout/routes"
	"scout/scout/services/llm"
	"scout/scout/services/ratelimit"
	"scout/scout/services/toolcall"
	"scout/scout/services/webfetch"
	"scout/scout/services/websearch"
	"scout/scout/sources/psql"
	"scout/scout/sources/psql/dao"
	"scout/scout/sources/storage"
	"scout/scout/utils/logging"
)

// buildProviders assembles the search rotation from whatever credentials are
// present. The keyless fallback is always last, so search works with no
// configuration at all.
func buildProviders(cfg config.Config) []websearch.Provider {
	var providers []websearch.Provider
	if cfg.GoogleSearchAPIKey != "" && cfg.GoogleSearchCX != "" {
		providers = append(providers, websearch.NewGoogleProvider(cfg.GoogleSearchAPIKey, cfg.GoogleSearchCX))
	}
	if cfg.BraveSearchAPIKey != "" {
		providers = append(providers, websearch.NewBraveProvider(cfg.BraveSearchAPIKey))
	}
	providers = append(providers, websearch.NewDuckDuckGoProvider())
	return providers
}

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Core tool surface: search rotation, fetch service, orchestrator.
	searchLimiter := ratelimit.New(cfg.SearchRateLimit, time.Minute)
	fetchLimiter := ratelimit.New(cfg.FetchRateLimit, time.Minute)

	var cache webfetch.ContentCache
	if cfg.MinIOEndpoint != "" {
		minioClient, err := storage.NewMinIOClient(cfg)
		if err != nil {
			logging.ErrorLogger.Error("minio connection error", zap.Error(err))
			os.Exit(1)
		}
		cache = minioClient
	}

	providers := buildProviders(cfg)
	aggregator := websearch.NewAggregator(providers, searchLimiter)
	fetcher := webfetch.NewService(fetchLimiter, cache)
	orchestrator := toolcall.NewOrchestrator(aggregator, fetcher)

	healthCtrl := controllers.NewHealthController(len(providers), cache != nil)
	toolsCtrl := controllers.NewToolsController(orchestrator)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Mount("/health", routes.HealthRoutes(healthCtrl))
	r.Mount("/tools", routes.ToolRoutes(toolsCtrl))

	// Chat and auth need persistence; with no database configured the server
	// still serves the tool endpoints.
	if cfg.DBHost != "" {
		db, err := psql.NewDatabase(ctx, cfg)
		if err != nil {
			logging.ErrorLogger.Error("database connection error", zap.Error(err))
			os.Exit(1)
		}
		defer db.Close()

		userDAO := dao.NewUserDAO(db.DB)
		chatDAO := dao.NewChatDAO(db.DB)
		llmClient := llm.NewOllamaClient(cfg.OllamaHost, cfg.OllamaModel)

		authCtrl := controllers.NewAuthController(userDAO, cfg)
		userCtrl := controllers.NewUserController(userDAO)
		chatCtrl := controllers.NewChatController(chatDAO, llmClient, orchestrator)

		r.Mount("/auth", routes.AuthRoutes(authCtrl))
		r.Mount("/users", routes.UserRoutes(userCtrl, cfg))
		r.Mount("/chat", routes.ChatRoutes(chatCtrl, cfg))
	} else {
		logging.AppLogger.Info("no database configured; chat endpoints disabled")
	}

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}
	go func() {
		logging.AppLogger.Info("server listening", zap.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
