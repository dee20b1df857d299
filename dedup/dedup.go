package dedup

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log"
	"strings"

	"gmscraper/types"

	"github.com/agnivade/levenshtein"
)

// DefaultSimilarityThreshold is the near-duplicate cutoff when the caller
// doesn't configure one.
const DefaultSimilarityThreshold = 0.8

// Config holds deduplication settings.
type Config struct {
	// SimilarityThreshold in (0,1]; titles at or above it are duplicates.
	SimilarityThreshold float64
	// Disabled passes batches through untouched (hashes still assigned).
	Disabled bool
}

// Engine removes exact and near duplicates within one batch. Cross-run
// duplicates are the storage layer's problem via its unique-link constraint.
type Engine struct {
	threshold float64
	disabled  bool
}

// NewEngine creates an engine, applying config defaults.
func NewEngine(cfg Config) *Engine {
	if cfg.SimilarityThreshold == 0 {
		cfg.SimilarityThreshold = DefaultSimilarityThreshold
	}
	return &Engine{threshold: cfg.SimilarityThreshold, disabled: cfg.Disabled}
}

// Fingerprint computes the article's content hash from its lowercased title,
// link and source.
func Fingerprint(a types.Article) string {
	key := fmt.Sprintf("%s-%s-%s", strings.ToLower(strings.TrimSpace(a.Title)), a.Link, a.Source)
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

// RemoveDuplicates assigns fingerprints and filters the batch. Exact matches
// drop on fingerprint; near matches drop when title similarity against any
// previously accepted title reaches the threshold. First seen wins.
func (e *Engine) RemoveDuplicates(articles []types.Article) ([]types.Article, types.DeduplicationStats) {
	if e.disabled {
		for i := range articles {
			articles[i].Hash = Fingerprint(articles[i])
		}
		return articles, types.DeduplicationStats{
			TotalArticles:  len(articles),
			UniqueArticles: len(articles),
		}
	}

	seenHashes := make(map[string]struct{}, len(articles))
	seenTitles := make([]string, 0, len(articles))
	unique := make([]types.Article, 0, len(articles))
	removed := 0

	for _, article := range articles {
		article.Hash = Fingerprint(article)

		if _, ok := seenHashes[article.Hash]; ok {
			removed++
			log.Printf("Exact duplicate found: %q from %s", article.Title, article.Source)
			continue
		}

		title := strings.ToLower(strings.TrimSpace(article.Title))
		similar := false
		for _, seen := range seenTitles {
			if sim := Similarity(title, seen); sim >= e.threshold {
				removed++
				similar = true
				log.Printf("Similar article found: %q matches %q (%.0f%%)", article.Title, seen, sim*100)
				break
			}
		}
		if similar {
			continue
		}

		seenHashes[article.Hash] = struct{}{}
		seenTitles = append(seenTitles, title)
		unique = append(unique, article)
	}

	stats := types.DeduplicationStats{
		TotalArticles:     len(articles),
		DuplicatesFound:   removed,
		DuplicatesRemoved: removed,
		UniqueArticles:    len(unique),
	}

	log.Printf("Deduplication complete: %d articles -> %d unique (%d removed)",
		stats.TotalArticles, stats.UniqueArticles, stats.DuplicatesRemoved)

	return unique, stats
}

// Similarity is normalized edit-distance similarity in [0,1]: identical
// strings score 1, fully different strings score 0.
func Similarity(a, b string) float64 {
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1
	}

	dist := levenshtein.ComputeDistance(a, b)
	return float64(maxLen-dist) / float64(maxLen)
}
