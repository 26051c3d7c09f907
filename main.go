package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/username/dartviewer/backend/src/config"
	"github.com/username/dartviewer/backend/src/database"
	"github.com/username/dartviewer/backend/src/handlers"
	"github.com/username/dartviewer/backend/src/logger"
	"github.com/username/dartviewer/backend/src/processors"
	"github.com/username/dartviewer/backend/src/services"
)

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	cfg := config.Cfg

	logger.L.Info("DartViewer backend server starting...")

	if cfg.DartAPIKey == "" {
		logger.L.Warn("OPEN_DART_API_KEY is not set; financial statement requests will fail upstream")
	}

	logger.L.Info("Initializing database...", "path", cfg.DatabasePath)
	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		stdlog.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	lookupCache := cache.New(cfg.LookupCacheTTL, services.CacheCleanupInterval)
	reportCache := cache.New(cfg.ReportCacheTTL, services.CacheCleanupInterval)

	dartClient := services.NewDartClient(cfg.DartBaseURL, cfg.DartAPIKey, cfg.DartTimeout)

	var generator services.TextGenerator
	if cfg.GeminiAPIKey != "" {
		generator, err = services.NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.L.Error("Failed to initialize Gemini client; explanations are disabled", "error", err)
			generator = nil
		}
	} else {
		logger.L.Warn("GEMINI_API_KEY is not set; explanations are disabled")
	}

	companyService := services.NewCompanyService(db, dartClient, lookupCache, cfg.LookupCacheTTL)
	financialService := services.NewFinancialService(
		dartClient,
		processors.NewStatementNormalizer(),
		processors.NewAccountSynthesizer(),
		processors.NewRatioCalculator(),
		reportCache,
		cfg.ReportCacheTTL,
	)
	aiService := services.NewAIService(generator, cfg.AITimeout)

	if status, err := companyService.Status(context.Background()); err != nil {
		logger.L.Error("Failed to read company lookup table", "error", err)
	} else if status.Companies == 0 {
		logger.L.Warn("Company lookup table is empty; run `corpcodes sync` to import OpenDART corp codes")
	} else {
		logger.L.Info("Company lookup table ready", "companies", status.Companies, "lastImportAt", status.LastImportAt)
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		AllowedOrigins:     cfg.AllowedOrigins,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
		MetricsEnabled:     cfg.MetricsEnabled,
		StaticDir:          cfg.StaticDir,
	}, handlers.Handlers{
		Company:   handlers.NewCompanyHandler(companyService),
		Financial: handlers.NewFinancialHandler(financialService, companyService, aiService),
		Health:    handlers.NewHealthHandler(companyService, cfg.DartAPIKey != "", generator != nil),
	})

	// The explain route waits on OpenDART and then Gemini.
	writeTimeout := 15 * time.Second
	if t := cfg.DartTimeout + cfg.AITimeout + 5*time.Second; t > writeTimeout {
		writeTimeout = t
	}

	serverAddr := ":" + cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.L.Info("Server starting", "address", serverAddr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			stdlog.Fatalf("Failed to start server: %v", err)
		}
	case sig := <-shutdown:
		logger.L.Info("Shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			logger.L.Error("Graceful shutdown failed", "error", err)
			return
		}
		logger.L.Info("Server stopped gracefully")
	}
}
