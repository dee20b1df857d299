package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gmscraper/types"
)

// Memory implements Store in process memory. Used by tests and dry runs;
// upsert semantics match the database implementation.
type Memory struct {
	mu       sync.Mutex
	articles map[string]types.Article // keyed by link
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{articles: make(map[string]types.Article)}
}

func (m *Memory) UpsertArticle(_ context.Context, article *types.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.articles[article.Link] = *article
	return nil
}

// Len reports the stored article count.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.articles)
}

func (m *Memory) sorted() []types.Article {
	out := make([]types.Article, 0, len(m.articles))
	for _, a := range m.articles {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScrapedAt.After(out[j].ScrapedAt)
	})
	return out
}

func (m *Memory) Recent(_ context.Context, limit int) ([]types.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.sorted()
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) RecentBySource(_ context.Context, source string, limit int) ([]types.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]types.Article, 0)
	for _, a := range m.sorted() {
		if a.Source == source {
			out = append(out, a)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *Memory) Search(_ context.Context, query string, limit int) ([]types.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	query = strings.ToLower(query)
	out := make([]types.Article, 0)
	for _, a := range m.sorted() {
		if strings.Contains(strings.ToLower(a.Title), query) ||
			strings.Contains(strings.ToLower(a.Content), query) {
			out = append(out, a)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *Memory) CountBySourceSince(_ context.Context, source string, since time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, a := range m.articles {
		if a.Source == source && !a.ScrapedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *Memory) LastScrapedAt(_ context.Context, source string) (*time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var last *time.Time
	for _, a := range m.articles {
		if a.Source != source {
			continue
		}
		t := a.ScrapedAt
		if last == nil || t.After(*last) {
			last = &t
		}
	}
	return last, nil
}

func (m *Memory) Categories(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]struct{})
	for _, a := range m.articles {
		if a.Category != "" {
			seen[a.Category] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

func (m *Memory) Stats(_ context.Context) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := Stats{Articles: int64(len(m.articles))}
	sources := make(map[string]struct{})
	for _, a := range m.articles {
		sources[a.Source] = struct{}{}
		t := a.ScrapedAt
		if stats.LastScrape == nil || t.After(*stats.LastScrape) {
			stats.LastScrape = &t
		}
	}
	stats.Sources = int64(len(sources))
	return stats, nil
}
