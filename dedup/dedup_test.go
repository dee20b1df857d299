package dedup

import (
	"testing"

	"gmscraper/types"
)

func article(title, link, source string) types.Article {
	return types.Article{Title: title, Link: link, Source: source, Content: "body"}
}

func TestFingerprintIgnoresTitleCase(t *testing.T) {
	a := Fingerprint(article("Gambia Budget Approved", "https://example.com/a", "The Point"))
	b := Fingerprint(article("gambia budget approved", "https://example.com/a", "The Point"))
	if a != b {
		t.Fatalf("expected case-insensitive fingerprints to match: %s vs %s", a, b)
	}

	c := Fingerprint(article("Gambia Budget Approved", "https://example.com/b", "The Point"))
	if a == c {
		t.Fatalf("expected different links to produce different fingerprints")
	}
}

func TestRemoveDuplicatesDropsExactDuplicate(t *testing.T) {
	engine := NewEngine(Config{})

	unique, stats := engine.RemoveDuplicates([]types.Article{
		article("Election results announced", "https://example.com/1", "Foroyaa"),
		article("Election results announced", "https://example.com/1", "Foroyaa"),
		article("Ferry service resumes", "https://example.com/2", "Foroyaa"),
	})

	if len(unique) != 2 {
		t.Fatalf("expected 2 unique articles, got %d", len(unique))
	}
	if stats.DuplicatesRemoved != 1 {
		t.Fatalf("expected 1 removed, got %d", stats.DuplicatesRemoved)
	}
	if unique[0].Hash == "" || unique[1].Hash == "" {
		t.Fatalf("expected hashes assigned to survivors")
	}
}

func TestRemoveDuplicatesDropsNearDuplicateTitle(t *testing.T) {
	engine := NewEngine(Config{})

	// Same story picked up by two feeds with a one-character difference.
	unique, stats := engine.RemoveDuplicates([]types.Article{
		article("President opens new hospital in Banjul", "https://example.com/a", "The Point"),
		article("President opens new hospital in Banjul.", "https://other.example.com/b", "Kerr Fatou"),
	})

	if len(unique) != 1 {
		t.Fatalf("expected near-duplicate removed, got %d articles", len(unique))
	}
	if unique[0].Source != "The Point" {
		t.Fatalf("expected first-seen article kept, got %s", unique[0].Source)
	}
	if stats.DuplicatesFound != 1 {
		t.Fatalf("expected 1 duplicate found, got %d", stats.DuplicatesFound)
	}
}

func TestRemoveDuplicatesThresholdIsInclusive(t *testing.T) {
	// 10-rune titles differing in exactly 2 runes sit exactly at 0.8.
	engine := NewEngine(Config{SimilarityThreshold: 0.8})

	unique, _ := engine.RemoveDuplicates([]types.Article{
		article("abcdefghij", "https://example.com/1", "s1"),
		article("abcdefghXY", "https://example.com/2", "s2"),
	})

	if len(unique) != 1 {
		t.Fatalf("expected similarity exactly at threshold to count as duplicate, got %d articles", len(unique))
	}
}

func TestRemoveDuplicatesKeepsDistinctTitles(t *testing.T) {
	engine := NewEngine(Config{})

	unique, stats := engine.RemoveDuplicates([]types.Article{
		article("Senegal border reopens after talks", "https://example.com/1", "s1"),
		article("Groundnut prices climb ahead of season", "https://example.com/2", "s2"),
	})

	if len(unique) != 2 {
		t.Fatalf("expected both distinct articles kept, got %d", len(unique))
	}
	if stats.DuplicatesRemoved != 0 {
		t.Fatalf("expected no removals, got %d", stats.DuplicatesRemoved)
	}
}

func TestDisabledEngineStillAssignsHashes(t *testing.T) {
	engine := NewEngine(Config{Disabled: true})

	in := []types.Article{
		article("Same title", "https://example.com/1", "s1"),
		article("Same title", "https://example.com/1", "s1"),
	}
	unique, stats := engine.RemoveDuplicates(in)

	if len(unique) != 2 {
		t.Fatalf("expected disabled engine to pass everything through, got %d", len(unique))
	}
	if unique[0].Hash == "" {
		t.Fatalf("expected hash assigned even when deduplication is disabled")
	}
	if stats.UniqueArticles != 2 || stats.DuplicatesRemoved != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestSimilarity(t *testing.T) {
	if sim := Similarity("hello", "hello"); sim != 1 {
		t.Fatalf("expected identical strings to score 1, got %g", sim)
	}
	if sim := Similarity("", ""); sim != 1 {
		t.Fatalf("expected two empty strings to score 1, got %g", sim)
	}
	if sim := Similarity("abcd", "wxyz"); sim != 0 {
		t.Fatalf("expected fully different strings to score 0, got %g", sim)
	}
	if sim := Similarity("abcdefghij", "abcdefghXY"); sim != 0.8 {
		t.Fatalf("expected 0.8, got %g", sim)
	}
}
