// internal/service/mining/extractor.go

package mining

import (
	"regexp"
	"strings"

	"trendminer/internal/domain/post"
)

// capitalizedWord matches single capitalized words used as lightweight keywords
var capitalizedWord = regexp.MustCompile(`\b[A-Z][a-z]+\b`)

// ItemExtractor derives trend keys and mining items from posts. The keyword
// vocabulary is injected so deployments can tune it without code changes.
type ItemExtractor struct {
	vocabulary []string
}

// NewItemExtractor creates an extractor with the given keyword vocabulary
func NewItemExtractor(vocabulary []string) *ItemExtractor {
	// Vocabulary matching is case-insensitive, normalize once
	normalized := make([]string, 0, len(vocabulary))
	for _, kw := range vocabulary {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			normalized = append(normalized, kw)
		}
	}

	return &ItemExtractor{vocabulary: normalized}
}

// TrendKeys returns the trend keys a post mentions: its cleaned hashtags plus
// every vocabulary keyword contained in the content. A post yields each key at
// most once.
func (e *ItemExtractor) TrendKeys(p post.Post) []string {
	var keys []string
	seen := make(map[string]struct{})

	// Hashtags are lower-cased so casing variants collapse into one trend
	for _, raw := range strings.Split(p.Hashtags, ",") {
		tag := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), "#", ""))
		if len(tag) <= 2 {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		keys = append(keys, tag)
	}

	content := strings.ToLower(p.Content)
	for _, kw := range e.vocabulary {
		if !strings.Contains(content, kw) {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		keys = append(keys, kw)
	}

	return keys
}

// AssociationItems returns the item set used for pair and itemset mining: the
// topic, up to two hashtags and up to two capitalized words from the content.
// Items keep their original casing.
func (e *ItemExtractor) AssociationItems(p post.Post) []string {
	topic := strings.TrimSpace(p.Topic)
	if topic == "" {
		return nil
	}

	items := []string{topic}
	seen := map[string]struct{}{topic: {}}

	tags := p.HashtagList()
	if len(tags) > 2 {
		tags = tags[:2]
	}
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		items = append(items, tag)
	}

	for _, word := range capitalizedWord.FindAllString(p.Content, 2) {
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		items = append(items, word)
	}

	return items
}
