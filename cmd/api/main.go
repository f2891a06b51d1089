// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"trendminer/internal/adapter/dataset"
	"trendminer/internal/adapter/social"
	"trendminer/internal/adapter/storage"
	"trendminer/internal/config"
	"trendminer/internal/domain/analysis"
	"trendminer/internal/logging"
	"trendminer/internal/server"
	"trendminer/internal/service/analytics"
	"trendminer/internal/service/mining"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found or error loading it. Using environment variables.")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.Logging.Level)
	logger.Info("starting trendminer", "environment", cfg.Environment)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize dependencies
	db, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	natsConn, err := initNATS(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer natsConn.Close()

	// Initialize storage adapter
	snapshotStore := storage.NewSnapshotStore(db)
	if err := snapshotStore.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to prepare snapshot schema: %v", err)
	}

	// Initialize the analysis engine
	engine := mining.NewEngine(mining.EngineConfig{
		KeywordVocabulary:     cfg.Mining.KeywordVocabulary,
		PeriodLength:          cfg.Mining.PeriodLength,
		TemporalMinEngagement: cfg.Mining.TemporalMinEngagement,
		RankedMinEngagement:   cfg.Mining.RankedMinEngagement,
		MinTrendMembers:       cfg.Mining.MinTrendMembers,
		MinPairCount:          cfg.Mining.MinPairCount,
		MinItemsetCount:       cfg.Mining.MinItemsetCount,
		MinSequenceCount:      cfg.Mining.MinSequenceCount,
		MaxTemporalPatterns:   cfg.Mining.MaxTemporalPatterns,
		MaxTrends:             cfg.Mining.MaxTrends,
		MaxRules:              cfg.Mining.MaxRules,
		MaxItemsets:           cfg.Mining.MaxItemsets,
		MaxSequences:          cfg.Mining.MaxSequences,
		Workers:               cfg.Mining.Workers,
	}, logger)

	// Initialize the analysis manager
	manager := mining.NewAnalysisManager(
		engine,
		snapshotStore,
		natsConn,
		mining.AnalysisManagerConfig{
			RefreshInterval: cfg.Mining.RefreshInterval,
			EventsTopic:     cfg.Mining.EventsTopic,
		},
		logger,
	)

	// Register corpus sources
	manager.AddSource(dataset.NewCSVSource(cfg.Dataset.Path, logger))

	if cfg.Twitter.BearerToken != "" {
		manager.AddSource(social.NewTwitterSource(social.TwitterConfig{
			BearerToken: cfg.Twitter.BearerToken,
			Query:       cfg.Twitter.Query,
			MaxResults:  cfg.Twitter.MaxResults,
		}, logger))
	}

	// Analytics reads the corpus behind the manager's latest snapshot
	analyticsService := analytics.NewService(manager, analytics.Config{
		ActiveWindow:   cfg.Analytics.ActiveWindow,
		RecentWindow:   cfg.Analytics.RecentWindow,
		TrendWindow:    cfg.Analytics.TrendWindow,
		TimelineTopics: cfg.Analytics.TimelineTopics,
		FeedLimit:      cfg.Analytics.FeedLimit,
	}, logger)

	// Log every completed snapshot
	manager.RegisterSnapshotHandler(func(s analysis.Snapshot) error {
		logger.Info("snapshot completed",
			"id", s.ID,
			"posts", s.PostCount,
			"trends", len(s.Trends),
			"rules", len(s.AssociationRules),
			"sequences", len(s.SequentialPatterns),
		)
		return nil
	})

	// Start the analysis manager
	if err := manager.Start(ctx); err != nil {
		log.Fatalf("Failed to start analysis manager: %v", err)
	}

	// Initialize HTTP server
	httpServer := server.NewServer(
		cfg.Server,
		manager,
		analyticsService,
		natsConn,
		cfg.Mining.EventsTopic,
		logger,
	)

	// Start HTTP server
	go func() {
		log.Printf("Starting HTTP server on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	log.Println("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Graceful shutdown
	log.Println("Shutting down services...")

	// Shutdown HTTP server
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Stop the analysis manager
	if err := manager.Stop(shutdownCtx); err != nil {
		log.Printf("Analysis manager shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Printf("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
