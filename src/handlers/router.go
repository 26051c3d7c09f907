// backend/src/handlers/router.go
package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/username/dartviewer/backend/src/observability"
	"github.com/username/dartviewer/backend/src/utils"
)

const msgAPINotFound = "요청한 API를 찾을 수 없습니다."

// RouterConfig holds the HTTP surface settings taken from config.AppConfig.
type RouterConfig struct {
	AllowedOrigins     []string
	RateLimitPerSecond float64
	RateLimitBurst     int
	MetricsEnabled     bool
	StaticDir          string
}

// Handlers bundles the route handlers wired by NewRouter.
type Handlers struct {
	Company   *CompanyHandler
	Financial *FinancialHandler
	Health    *HealthHandler
}

func NewRouter(cfg RouterConfig, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(ContextualLoggerMiddleware)
	r.Use(RequestLoggerMiddleware)
	if cfg.MetricsEnabled {
		r.Use(observability.Middleware)
	}
	r.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "If-None-Match", RequestIDHeader},
		ExposedHeaders: []string{"ETag", RequestIDHeader},
		MaxAge:         300,
	}).Handler)

	r.Get("/health", h.Health.HandleHealth)
	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		if cfg.RateLimitPerSecond > 0 {
			limiter := rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitBurst)
			r.Use(NewRateLimitMiddleware(limiter))
		}

		r.Route("/companies", func(r chi.Router) {
			r.Get("/search", h.Company.HandleSearch)
			r.Get("/stock/{stockCode}", h.Company.HandleGetByStockCode)
			r.Get("/{corpCode}", h.Company.HandleGetByCorpCode)
			r.Get("/{corpCode}/overview", h.Company.HandleGetOverview)
			r.Get("/{corpCode}/disclosures", h.Company.HandleListDisclosures)
		})

		r.Route("/financial/{corpCode}", func(r chi.Router) {
			r.Get("/annual/{year}", h.Financial.HandleGetAnnualReport)
			r.Get("/quarterly/{year}/{quarter}", h.Financial.HandleGetQuarterlyReport)
			r.Get("/explain/{year}", h.Financial.HandleExplain)
			r.Get("/explain/{year}/{quarter}", h.Financial.HandleExplain)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			utils.SendJSONError(w, msgAPINotFound, http.StatusNotFound)
		})
	})

	if cfg.StaticDir != "" {
		spa := spaHandler(cfg.StaticDir)
		r.Get("/", spa)
		r.NotFound(spa)
	} else {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "DartViewer backend is running"})
		})
	}

	return r
}

// spaHandler serves files from staticDir and falls back to index.html so
// client-side routes survive a reload.
func spaHandler(staticDir string) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(staticDir))
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			utils.SendJSONError(w, msgAPINotFound, http.StatusNotFound)
			return
		}
		path := filepath.Join(staticDir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
	}
}
