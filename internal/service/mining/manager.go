// internal/service/mining/manager.go

package mining

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"trendminer/internal/domain/analysis"
	"trendminer/internal/domain/post"
)

// PostSource defines an interface for corpus data sources
type PostSource interface {
	// Name returns the source name
	Name() string

	// FetchPosts returns the source's current post records
	FetchPosts(ctx context.Context) ([]post.Post, error)
}

// SnapshotStore defines storage for completed snapshots
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, s analysis.Snapshot) error
	GetSnapshot(ctx context.Context, id string) (*analysis.Snapshot, error)
	LatestSnapshot(ctx context.Context) (*analysis.Snapshot, error)
	ListSnapshots(ctx context.Context, limit int) ([]analysis.SnapshotMeta, error)
}

// AnalysisManagerConfig contains configuration for the analysis manager
type AnalysisManagerConfig struct {
	RefreshInterval time.Duration
	EventsTopic     string
}

// AnalysisManager implements the analysis.Service interface. It fetches the
// corpus from its registered sources on a schedule, runs the engine, persists
// the snapshot and fans completion out to NATS and registered handlers.
type AnalysisManager struct {
	engine      *Engine
	sources     map[string]PostSource
	sourcesLock sync.RWMutex
	store       SnapshotStore
	eventBus    *nats.Conn
	config      AnalysisManagerConfig
	logger      *slog.Logger
	handlers    []func(analysis.Snapshot) error
	mu          sync.RWMutex
	refreshMu   sync.Mutex
	current     *analysis.Snapshot
	corpus      []post.Post
	refreshedAt time.Time
	subs        []*nats.Subscription
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// NewAnalysisManager creates a new analysis manager
func NewAnalysisManager(
	engine *Engine,
	store SnapshotStore,
	eventBus *nats.Conn,
	config AnalysisManagerConfig,
	logger *slog.Logger,
) *AnalysisManager {
	ctx, cancel := context.WithCancel(context.Background())

	return &AnalysisManager{
		engine:   engine,
		sources:  make(map[string]PostSource),
		store:    store,
		eventBus: eventBus,
		config:   config,
		logger:   logger,
		handlers: []func(analysis.Snapshot) error{},
		ctx:      ctx,
		cancel:   cancel,
	}
}

// AddSource registers a corpus source
func (am *AnalysisManager) AddSource(source PostSource) {
	am.sourcesLock.Lock()
	am.sources[source.Name()] = source
	am.sourcesLock.Unlock()
}

// Start begins the periodic analysis process. If a stored snapshot exists it
// is served immediately while the first analysis runs.
func (am *AnalysisManager) Start(ctx context.Context) error {
	am.restoreSnapshot(ctx)

	if am.eventBus != nil {
		subject := fmt.Sprintf("%s.refresh.requested", am.config.EventsTopic)
		sub, err := am.eventBus.Subscribe(subject, func(msg *nats.Msg) {
			go func() {
				if _, err := am.Refresh(am.ctx); err != nil {
					am.logger.Error("requested refresh failed", "error", err)
				}
			}()
		})
		if err != nil {
			return fmt.Errorf("error subscribing to refresh requests: %w", err)
		}
		am.subs = append(am.subs, sub)
	}

	am.wg.Add(1)
	go am.refreshLoop(ctx)

	return nil
}

// restoreSnapshot loads the latest stored snapshot, if any, so restarts do not
// open with an empty API while the corpus sources are fetched
func (am *AnalysisManager) restoreSnapshot(ctx context.Context) {
	if am.store == nil {
		return
	}

	snapshot, err := am.store.LatestSnapshot(ctx)
	if err != nil {
		if !errors.Is(err, analysis.ErrNotFound) {
			am.logger.Warn("error restoring snapshot", "error", err)
		}
		return
	}

	am.mu.Lock()
	am.current = snapshot
	am.refreshedAt = snapshot.GeneratedAt
	am.mu.Unlock()

	am.logger.Info("restored snapshot",
		"snapshot_id", snapshot.ID,
		"generated_at", snapshot.GeneratedAt,
	)
}

// refreshLoop runs one analysis immediately, then again every interval
func (am *AnalysisManager) refreshLoop(ctx context.Context) {
	defer am.wg.Done()

	if _, err := am.Refresh(ctx); err != nil {
		am.logger.Error("initial analysis failed", "error", err)
	}

	ticker := time.NewTicker(am.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-am.ctx.Done():
			return
		case <-ticker.C:
			if _, err := am.Refresh(ctx); err != nil {
				am.logger.Error("scheduled analysis failed", "error", err)
			}
		}
	}
}

// Refresh fetches the corpus and runs a full analysis immediately. On source
// failure the previous snapshot keeps serving.
func (am *AnalysisManager) Refresh(ctx context.Context) (*analysis.Snapshot, error) {
	am.refreshMu.Lock()
	defer am.refreshMu.Unlock()

	posts, err := am.fetchCorpus(ctx)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	snapshot, err := am.engine.Analyze(ctx, posts, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("error analyzing corpus: %w", err)
	}

	snapshot.ID = uuid.New().String()

	if am.store != nil {
		if err := am.store.SaveSnapshot(ctx, *snapshot); err != nil {
			// Persistence failure should not take down the in-memory result
			am.logger.Error("error saving snapshot", "error", err)
		}
	}

	am.mu.Lock()
	am.current = snapshot
	am.corpus = posts
	am.refreshedAt = snapshot.GeneratedAt
	am.mu.Unlock()

	am.logger.Info("analysis refreshed",
		"snapshot_id", snapshot.ID,
		"posts", snapshot.PostCount,
		"took", time.Since(started).Round(time.Millisecond).String(),
	)

	if err := am.publishSnapshotEvent(*snapshot); err != nil {
		am.logger.Error("error publishing snapshot event", "error", err)
	}

	am.callSnapshotHandlers(*snapshot)

	return snapshot, nil
}

// fetchCorpus collects posts from every source in name order, deduplicating
// by post id with the first sighting winning
func (am *AnalysisManager) fetchCorpus(ctx context.Context) ([]post.Post, error) {
	am.sourcesLock.RLock()
	names := make([]string, 0, len(am.sources))
	for name := range am.sources {
		names = append(names, name)
	}
	sources := make([]PostSource, 0, len(names))
	sort.Strings(names)
	for _, name := range names {
		sources = append(sources, am.sources[name])
	}
	am.sourcesLock.RUnlock()

	var merged []post.Post
	seen := make(map[string]struct{})
	failures := 0

	for _, source := range sources {
		posts, err := source.FetchPosts(ctx)
		if err != nil {
			failures++
			am.logger.Error("error fetching posts", "source", source.Name(), "error", err)
			continue
		}

		for _, p := range posts {
			if _, ok := seen[p.ID]; ok && p.ID != "" {
				continue
			}
			if p.ID != "" {
				seen[p.ID] = struct{}{}
			}
			merged = append(merged, p)
		}
	}

	if len(sources) > 0 && failures == len(sources) {
		return nil, fmt.Errorf("all %d corpus sources failed", len(sources))
	}

	return merged, nil
}

// CurrentSnapshot returns the most recent in-memory snapshot
func (am *AnalysisManager) CurrentSnapshot(ctx context.Context) (*analysis.Snapshot, error) {
	am.mu.RLock()
	defer am.mu.RUnlock()

	if am.current == nil {
		return nil, analysis.ErrNotReady
	}

	return am.current, nil
}

// GetSnapshot returns a stored snapshot by ID
func (am *AnalysisManager) GetSnapshot(ctx context.Context, id string) (*analysis.Snapshot, error) {
	if am.store == nil {
		return nil, analysis.ErrNotFound
	}
	return am.store.GetSnapshot(ctx, id)
}

// ListSnapshots returns metadata for stored snapshots, newest first
func (am *AnalysisManager) ListSnapshots(ctx context.Context, limit int) ([]analysis.SnapshotMeta, error) {
	if am.store == nil {
		return []analysis.SnapshotMeta{}, nil
	}
	return am.store.ListSnapshots(ctx, limit)
}

// RegisterSnapshotHandler registers a callback for completed snapshots
func (am *AnalysisManager) RegisterSnapshotHandler(handler func(analysis.Snapshot) error) error {
	am.mu.Lock()
	defer am.mu.Unlock()

	am.handlers = append(am.handlers, handler)
	return nil
}

// CurrentPosts returns the corpus behind the current snapshot
func (am *AnalysisManager) CurrentPosts() []post.Post {
	am.mu.RLock()
	defer am.mu.RUnlock()

	return am.corpus
}

// RefreshedAt returns when the current snapshot was generated
func (am *AnalysisManager) RefreshedAt() time.Time {
	am.mu.RLock()
	defer am.mu.RUnlock()

	return am.refreshedAt
}

// publishSnapshotEvent announces a completed snapshot on the event bus
func (am *AnalysisManager) publishSnapshotEvent(s analysis.Snapshot) error {
	if am.eventBus == nil {
		return nil
	}

	data, err := json.Marshal(map[string]interface{}{
		"id":           s.ID,
		"generated_at": s.GeneratedAt,
		"post_count":   s.PostCount,
		"trends":       len(s.Trends),
		"rules":        len(s.AssociationRules),
		"itemsets":     len(s.Itemsets),
		"sequences":    len(s.SequentialPatterns),
	})
	if err != nil {
		return fmt.Errorf("error marshaling snapshot event: %w", err)
	}

	subject := fmt.Sprintf("%s.snapshot.completed", am.config.EventsTopic)
	return am.eventBus.Publish(subject, data)
}

// callSnapshotHandlers calls all registered snapshot handlers
func (am *AnalysisManager) callSnapshotHandlers(s analysis.Snapshot) {
	am.mu.RLock()
	handlers := make([]func(analysis.Snapshot) error, len(am.handlers))
	copy(handlers, am.handlers)
	am.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(s); err != nil {
			am.logger.Error("error in snapshot handler", "error", err)
		}
	}
}

// Stop gracefully stops the analysis process
func (am *AnalysisManager) Stop(ctx context.Context) error {
	am.cancel()

	for _, sub := range am.subs {
		if err := sub.Unsubscribe(); err != nil {
			am.logger.Error("error unsubscribing", "error", err)
		}
	}
	am.subs = nil

	c := make(chan struct{})
	go func() {
		am.wg.Wait()
		close(c)
	}()

	select {
	case <-c:
	case <-ctx.Done():
		return ctx.Err()
	}

	return nil
}
