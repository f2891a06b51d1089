// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"

	"trendminer/internal/config"
	"trendminer/internal/domain/analysis"
	"trendminer/internal/server/handlers"
	"trendminer/internal/service/analytics"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.ServerConfig,
	analysisService analysis.Service,
	analyticsService *analytics.Service,
	natsConn *nats.Conn,
	eventsTopic string,
	logger *slog.Logger,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	trendHandler := handlers.NewTrendHandler(analysisService)
	patternHandler := handlers.NewPatternHandler(analysisService, analyticsService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	snapshotHandler := handlers.NewSnapshotHandler(analysisService)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			// Trends API
			r.Route("/trends", func(r chi.Router) {
				r.Get("/", trendHandler.GetTrends)
				r.Get("/temporal", trendHandler.GetTemporalPatterns)
			})

			// Mined patterns API
			r.Route("/patterns", func(r chi.Router) {
				r.Get("/association-rules", patternHandler.GetAssociationRules)
				r.Get("/itemsets", patternHandler.GetItemsets)
				r.Get("/sequential", patternHandler.GetSequentialPatterns)
				r.Get("/graph", patternHandler.GetTopicGraph)
				r.Get("/cross-platform", patternHandler.GetCrossPlatformPatterns)
			})

			// Corpus analytics API
			r.Route("/analytics", func(r chi.Router) {
				r.Get("/dashboard", analyticsHandler.GetDashboard)
				r.Get("/trends", analyticsHandler.GetTopicTrends)
				r.Get("/platform-comparison", analyticsHandler.GetPlatformComparison)
				r.Get("/topics/{topic}/timeseries", analyticsHandler.GetTopicTimeSeries)
			})

			// Personalized feed
			r.Get("/feed", analyticsHandler.GetFeed)

			// Snapshot persistence and refresh
			r.Route("/snapshots", func(r chi.Router) {
				r.Get("/", snapshotHandler.ListSnapshots)
				r.Get("/{id}", snapshotHandler.GetSnapshot)
			})
			r.Post("/refresh", snapshotHandler.Refresh)
		})
	})

	// WebSocket endpoint for analysis lifecycle events
	router.Get("/ws/analysis", handlers.AnalysisWebSocketHandler(natsConn, eventsTopic, logger))

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
