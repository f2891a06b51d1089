// internal/service/analytics/service.go

package analytics

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"trendminer/internal/domain/post"
)

// CorpusProvider supplies the post corpus behind the latest analysis
type CorpusProvider interface {
	// CurrentPosts returns the corpus behind the current snapshot
	CurrentPosts() []post.Post

	// RefreshedAt returns when that corpus was last assembled
	RefreshedAt() time.Time
}

// Config contains configuration for the analytics service
type Config struct {
	// ActiveWindow is how far back a topic may last appear and still count
	// as active
	ActiveWindow time.Duration

	// RecentWindow is the window for the "updated recently" dashboard count
	RecentWindow time.Duration

	// TrendWindow bounds the corpus slice used for topic trend analysis
	TrendWindow time.Duration

	// TimelineTopics are the topics the trend timeline is charted for
	TimelineTopics []string

	// FeedLimit is the default number of feed items returned
	FeedLimit int
}

// Service computes corpus-level analytics on demand. Unlike the mining engine
// it reads the shared corpus through a provider and is purely presentational,
// so nothing here is persisted.
type Service struct {
	corpus CorpusProvider
	config Config
	logger *slog.Logger
}

// NewService creates an analytics service
func NewService(corpus CorpusProvider, config Config, logger *slog.Logger) *Service {
	if config.ActiveWindow <= 0 {
		config.ActiveWindow = 14 * 24 * time.Hour
	}
	if config.RecentWindow <= 0 {
		config.RecentWindow = 7 * 24 * time.Hour
	}
	if config.TrendWindow <= 0 {
		config.TrendWindow = 90 * 24 * time.Hour
	}
	if config.FeedLimit <= 0 {
		config.FeedLimit = 20
	}

	return &Service{
		corpus: corpus,
		config: config,
		logger: logger,
	}
}

// DashboardSummary is the headline view of the tracked corpus
type DashboardSummary struct {
	TrackedTopics     int            `json:"tracked_topics"`
	ActiveTopics      int            `json:"active_topics"`
	UpdatedRecently   int            `json:"updated_recently"`
	TotalPosts        int            `json:"total_posts"`
	PlatformBreakdown map[string]int `json:"platform_breakdown"`
	RefreshedAt       time.Time      `json:"refreshed_at"`
}

// Dashboard summarizes the corpus: how many topics are tracked, how many saw
// activity inside the active and recent windows, and posts per platform
func (s *Service) Dashboard() DashboardSummary {
	posts := s.corpus.CurrentPosts()
	now := time.Now().UTC()

	summary := DashboardSummary{
		TotalPosts:        len(posts),
		PlatformBreakdown: make(map[string]int),
		RefreshedAt:       s.corpus.RefreshedAt(),
	}

	lastSeen := make(map[string]time.Time)
	for _, p := range posts {
		if p.Platform != "" {
			summary.PlatformBreakdown[p.Platform]++
		}
		if p.Topic == "" || p.Timestamp.IsZero() {
			continue
		}
		if p.Timestamp.After(lastSeen[p.Topic]) {
			lastSeen[p.Topic] = p.Timestamp
		}
	}

	summary.TrackedTopics = len(lastSeen)

	activeCutoff := now.Add(-s.config.ActiveWindow)
	recentCutoff := now.Add(-s.config.RecentWindow)
	for _, last := range lastSeen {
		if !last.Before(activeCutoff) {
			summary.ActiveTopics++
		}
		if !last.Before(recentCutoff) {
			summary.UpdatedRecently++
		}
	}

	return summary
}

// DailyCount is one day of mention volume
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// dayKey normalizes a timestamp to its UTC calendar day
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// dailySeries turns a day keyed count map into a date ordered series
func dailySeries(days map[string]int) []DailyCount {
	series := make([]DailyCount, 0, len(days))
	for day, count := range days {
		series = append(series, DailyCount{Date: day, Count: count})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series
}

// percentile returns the p-th percentile of values using linear interpolation
// between closest ranks
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := (float64(len(sorted)) - 1) * p / 100
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}

	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
