// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Dataset     DatasetConfig
	Twitter     TwitterConfig
	Mining      MiningConfig
	Analytics   AnalyticsConfig
	Logging     LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// DatasetConfig holds the CSV corpus source configuration
type DatasetConfig struct {
	Path string
}

// TwitterConfig holds the live Twitter source configuration. The source is
// only wired up when a bearer token is present.
type TwitterConfig struct {
	BearerToken string
	Query       string
	MaxResults  int
}

// MiningConfig holds analysis engine configuration
type MiningConfig struct {
	RefreshInterval       time.Duration
	PeriodLength          time.Duration
	KeywordVocabulary     []string
	TemporalMinEngagement int
	RankedMinEngagement   int
	MinTrendMembers       int
	MinPairCount          int
	MinItemsetCount       int
	MinSequenceCount      int
	MaxTemporalPatterns   int
	MaxTrends             int
	MaxRules              int
	MaxItemsets           int
	MaxSequences          int
	Workers               int
	EventsTopic           string
}

// AnalyticsConfig holds analytics service configuration
type AnalyticsConfig struct {
	ActiveWindow   time.Duration
	RecentWindow   time.Duration
	TrendWindow    time.Duration
	TimelineTopics []string
	FeedLimit      int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// defaultVocabulary is matched as substrings of post content when no
// MINING_KEYWORDS override is configured
var defaultVocabulary = []string{
	"artificial intelligence",
	"machine learning",
	"climate",
	"crypto",
	"election",
	"cricket",
	"football",
	"startup",
	"vaccine",
	"economy",
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "trendminer"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		Dataset: DatasetConfig{
			Path: getEnv("DATASET_PATH", "data/social_media_engagement.csv"),
		},
		Twitter: TwitterConfig{
			BearerToken: getEnv("TWITTER_BEARER_TOKEN", ""),
			Query:       getEnv("TWITTER_QUERY", "technology"),
			MaxResults:  getEnvAsInt("TWITTER_MAX_RESULTS", 100),
		},
		Mining: MiningConfig{
			RefreshInterval:       getEnvAsDuration("MINING_REFRESH_INTERVAL", 24*time.Hour),
			PeriodLength:          getEnvAsDuration("MINING_PERIOD_LENGTH", 7*24*time.Hour),
			KeywordVocabulary:     getEnvAsSlice("MINING_KEYWORDS", defaultVocabulary),
			TemporalMinEngagement: getEnvAsInt("MINING_TEMPORAL_MIN_ENGAGEMENT", 20),
			RankedMinEngagement:   getEnvAsInt("MINING_RANKED_MIN_ENGAGEMENT", 100),
			MinTrendMembers:       getEnvAsInt("MINING_MIN_TREND_MEMBERS", 2),
			MinPairCount:          getEnvAsInt("MINING_MIN_PAIR_COUNT", 8),
			MinItemsetCount:       getEnvAsInt("MINING_MIN_ITEMSET_COUNT", 8),
			MinSequenceCount:      getEnvAsInt("MINING_MIN_SEQUENCE_COUNT", 3),
			MaxTemporalPatterns:   getEnvAsInt("MINING_MAX_TEMPORAL_PATTERNS", 20),
			MaxTrends:             getEnvAsInt("MINING_MAX_TRENDS", 50),
			MaxRules:              getEnvAsInt("MINING_MAX_RULES", 30),
			MaxItemsets:           getEnvAsInt("MINING_MAX_ITEMSETS", 24),
			MaxSequences:          getEnvAsInt("MINING_MAX_SEQUENCES", 15),
			Workers:               getEnvAsInt("MINING_WORKERS", 4),
			EventsTopic:           getEnv("MINING_EVENTS_TOPIC", "analysis"),
		},
		Analytics: AnalyticsConfig{
			ActiveWindow:   getEnvAsDuration("ANALYTICS_ACTIVE_WINDOW", 14*24*time.Hour),
			RecentWindow:   getEnvAsDuration("ANALYTICS_RECENT_WINDOW", 7*24*time.Hour),
			TrendWindow:    getEnvAsDuration("ANALYTICS_TREND_WINDOW", 90*24*time.Hour),
			TimelineTopics: getEnvAsSlice("ANALYTICS_TIMELINE_TOPICS", nil),
			FeedLimit:      getEnvAsInt("ANALYTICS_FEED_LIMIT", 20),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Mining.Workers < 1 {
		return fmt.Errorf("mining workers must be at least 1")
	}

	if config.Mining.PeriodLength <= 0 {
		return fmt.Errorf("mining period length must be positive")
	}

	if config.Mining.RefreshInterval <= 0 {
		return fmt.Errorf("mining refresh interval must be positive")
	}

	if config.Dataset.Path == "" {
		return fmt.Errorf("dataset path must be set")
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
