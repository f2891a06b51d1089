package mining

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"trendminer/internal/domain/post"
)

func TestMineItemsetsThreshold(t *testing.T) {
	t.Parallel()

	var posts []post.Post
	for i := 0; i < 8; i++ {
		posts = append(posts, pairPost(fmt.Sprintf("ai-%d", i), "AI", "#ML", testBase.Add(time.Duration(i)*time.Hour)))
	}
	for i := 0; i < 7; i++ {
		posts = append(posts, pairPost(fmt.Sprintf("btc-%d", i), "Crypto", "#BTC", testBase))
	}

	itemsets := MineItemsets(posts, NewItemExtractor(nil), ItemsetConfig{
		MinCount:    8,
		MaxItemsets: 24,
		Workers:     1,
	})

	if len(itemsets) != 1 {
		t.Fatalf("expected 1 itemset, got %d", len(itemsets))
	}

	is := itemsets[0]
	if !reflect.DeepEqual(is.Items, []string{"AI", "ML"}) {
		t.Fatalf("expected sorted items [AI ML], got %v", is.Items)
	}
	if is.Count != 8 {
		t.Fatalf("expected count 8, got %d", is.Count)
	}
	if is.Popularity != 80 {
		t.Fatalf("expected popularity capped at 80, got %d", is.Popularity)
	}
	if is.PrimaryTopic != "AI" {
		t.Fatalf("expected primary topic AI, got %q", is.PrimaryTopic)
	}
}

func TestMineItemsetsPopularity(t *testing.T) {
	t.Parallel()

	var posts []post.Post
	for i := 0; i < 2; i++ {
		posts = append(posts, pairPost(fmt.Sprintf("ai-%d", i), "AI", "#ML", testBase))
	}
	// Single-item posts count toward the corpus but form no itemset
	for i := 0; i < 98; i++ {
		posts = append(posts, pairPost(fmt.Sprintf("misc-%d", i), "Misc", "", testBase))
	}

	itemsets := MineItemsets(posts, NewItemExtractor(nil), ItemsetConfig{MinCount: 2, MaxItemsets: 24, Workers: 1})
	if len(itemsets) != 1 {
		t.Fatalf("expected 1 itemset, got %d", len(itemsets))
	}
	if itemsets[0].Popularity != 24 {
		t.Fatalf("expected popularity 24, got %d", itemsets[0].Popularity)
	}
}

func TestMineItemsetsTopicQuota(t *testing.T) {
	t.Parallel()

	var posts []post.Post
	add := func(n int, topic, tag string) {
		for i := 0; i < n; i++ {
			posts = append(posts, pairPost(fmt.Sprintf("%s-%s-%d", topic, tag, i), topic, "#"+tag, testBase))
		}
	}
	add(5, "AI", "ML")
	add(4, "AI", "DL")
	add(3, "AI", "NLP")
	add(2, "Sports", "Football")

	itemsets := MineItemsets(posts, NewItemExtractor(nil), ItemsetConfig{
		MinCount:    2,
		MaxItemsets: 24,
		MaxPerTopic: 2,
		Workers:     1,
	})

	if len(itemsets) != 3 {
		t.Fatalf("expected 3 itemsets, got %d", len(itemsets))
	}

	keys := make([]string, len(itemsets))
	for i, is := range itemsets {
		keys[i] = strings.Join(is.Items, "|")
	}
	want := []string{"AI|ML", "AI|DL", "Football|Sports"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("quota walk picked %v, want %v", keys, want)
	}
}

func TestMineItemsetsCap(t *testing.T) {
	t.Parallel()

	var posts []post.Post
	for i := 0; i < 4; i++ {
		posts = append(posts, pairPost(fmt.Sprintf("a-%d", i), "AI", "#ML", testBase))
	}
	for i := 0; i < 3; i++ {
		posts = append(posts, pairPost(fmt.Sprintf("b-%d", i), "Sports", "#Football", testBase))
	}

	itemsets := MineItemsets(posts, NewItemExtractor(nil), ItemsetConfig{MinCount: 2, MaxItemsets: 1, Workers: 1})
	if len(itemsets) != 1 || itemsets[0].Count != 4 {
		t.Fatalf("expected only the top itemset, got %+v", itemsets)
	}
}

func TestMineItemsetsWorkerInvariance(t *testing.T) {
	t.Parallel()

	var posts []post.Post
	for i := 0; i < 30; i++ {
		tag := []string{"ML", "DL", "NLP"}[i%3]
		posts = append(posts, pairPost(fmt.Sprintf("p-%d", i), "AI", "#"+tag, testBase.Add(time.Duration(i)*time.Hour)))
	}

	cfg := ItemsetConfig{MinCount: 2, MaxItemsets: 24, MaxPerTopic: 5}

	cfg.Workers = 1
	serial := MineItemsets(posts, NewItemExtractor(nil), cfg)
	cfg.Workers = 4
	parallel := MineItemsets(posts, NewItemExtractor(nil), cfg)

	if !reflect.DeepEqual(serial, parallel) {
		t.Fatalf("worker count changed the result:\nserial:   %+v\nparallel: %+v", serial, parallel)
	}
}
