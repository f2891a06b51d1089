// internal/adapter/dataset/csv.go

package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"trendminer/internal/domain/post"
)

// ErrInvalidSchema indicates the input cannot serve as a post corpus at all,
// as opposed to individual records being skippable
var ErrInvalidSchema = errors.New("dataset schema invalid")

var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// columnAliases maps known export header variants onto canonical names
var columnAliases = map[string]string{
	"user":            "author",
	"user_id":         "author",
	"username":        "author",
	"location":        "region",
	"likes_count":     "likes",
	"shares_count":    "shares",
	"comments_count":  "comments",
	"topic_category":  "topic",
	"text_content":    "content",
	"sentiment_score": "sentiment",
}

// CSVSource loads the post corpus from a CSV export on disk
type CSVSource struct {
	path   string
	logger *slog.Logger
}

// NewCSVSource creates a dataset source reading from the given path
func NewCSVSource(path string, logger *slog.Logger) *CSVSource {
	return &CSVSource{path: path, logger: logger}
}

// Name returns the source name
func (s *CSVSource) Name() string { return "dataset" }

// FetchPosts reads the whole file. A header missing the id, topic or
// timestamp column fails outright; records with unusable values in those
// fields are skipped and counted.
func (s *CSVSource) FetchPosts(ctx context.Context) ([]post.Post, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("error opening dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable header: %v", ErrInvalidSchema, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[canonicalColumn(name)] = i
	}
	for _, required := range []string{"post_id", "topic", "timestamp"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidSchema, required)
		}
	}

	var posts []post.Post
	skipped := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
		}

		p := post.Post{
			ID:        field(record, columns, "post_id"),
			Platform:  field(record, columns, "platform"),
			Topic:     field(record, columns, "topic"),
			Content:   field(record, columns, "content"),
			Hashtags:  field(record, columns, "hashtags"),
			Author:    field(record, columns, "author"),
			Region:    field(record, columns, "region"),
			Sentiment: field(record, columns, "sentiment"),
			Likes:     intField(record, columns, "likes"),
			Shares:    intField(record, columns, "shares"),
			Comments:  intField(record, columns, "comments"),
		}

		ts, ok := parseTimestamp(field(record, columns, "timestamp"))
		if !ok || p.ID == "" || strings.TrimSpace(p.Topic) == "" {
			skipped++
			continue
		}
		p.Timestamp = ts

		posts = append(posts, p)
	}

	s.logger.Info("dataset loaded", "path", s.path, "posts", len(posts), "skipped", skipped)

	return posts, nil
}

// canonicalColumn normalizes a header cell and resolves known aliases
func canonicalColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	if canonical, ok := columnAliases[name]; ok {
		return canonical
	}
	return name
}

func field(record []string, columns map[string]int, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// intField parses a numeric cell, treating anything unparsable as zero
func intField(record []string, columns map[string]int, name string) int {
	raw := field(record, columns, name)
	if raw == "" {
		return 0
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f)
	}
	return 0
}

// parseTimestamp tries the supported layouts in order, normalizing to UTC
func parseTimestamp(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampFormats {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}
