package storage

import (
	"context"
	"time"

	"gmscraper/types"
)

// Stats is a coarse corpus summary for the ops surface.
type Stats struct {
	Articles   int64      `json:"articles"`
	Sources    int64      `json:"sources"`
	LastScrape *time.Time `json:"lastScrape"`
}

// Store is the article persistence collaborator. Upsert is keyed by link:
// re-ingesting a known article updates it in place, which is what makes the
// pipeline idempotent across runs.
type Store interface {
	UpsertArticle(ctx context.Context, article *types.Article) error

	Recent(ctx context.Context, limit int) ([]types.Article, error)
	RecentBySource(ctx context.Context, source string, limit int) ([]types.Article, error)
	Search(ctx context.Context, query string, limit int) ([]types.Article, error)

	CountBySourceSince(ctx context.Context, source string, since time.Time) (int64, error)
	LastScrapedAt(ctx context.Context, source string) (*time.Time, error)

	Categories(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (Stats, error)
}
