package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"gmscraper/config"
	"gmscraper/dedup"
	"gmscraper/extract"
	"gmscraper/fetch"
	"gmscraper/health"
	"gmscraper/kvstore"
	"gmscraper/ratelimit"
	"gmscraper/sanitize"
	"gmscraper/sources"
	"gmscraper/storage"
	"gmscraper/types"

	"github.com/mmcdole/gofeed"
)

// Options tunes one ingestion run. Zero values fall back to the configured
// defaults.
type Options struct {
	Concurrency   int  `json:"concurrency"`
	RetryAttempts int  `json:"retryAttempts"`
	BatchSize     int  `json:"batchSize"`
	SkipRecent    bool `json:"skipRecent"`
	// DryRun executes fetch/extract/sanitize/dedup but never touches storage.
	DryRun bool `json:"dryRun"`
}

// Summary is the structured outcome of a run. The caller always gets one,
// even when every source failed.
type Summary struct {
	Success  int                      `json:"success"`
	Failed   int                      `json:"failed"`
	Skipped  int                      `json:"skipped"`
	Articles []types.Article          `json:"articles"`
	Errors   []types.SourceError      `json:"errors"`
	Dedup    types.DeduplicationStats `json:"dedup"`
}

// Config wires an Ingestor's collaborators. Store and Recent may be nil;
// the freshness check then has nothing to consult and never short-circuits.
type Config struct {
	Catalog   *sources.Catalog
	Fetcher   *fetch.Client
	Sanitizer *sanitize.Sanitizer
	Dedup     *dedup.Engine
	Health    *health.Monitor
	Store     storage.Store
	Limiter   *ratelimit.Limiter
	Recent    kvstore.Store

	ArticleConcurrency int
	BatchDelay         time.Duration
	RecentWindow       time.Duration
	DefaultRateLimit   int
}

// Ingestor drives the whole pipeline: batched, rate-limited, concurrency-
// bounded source processing followed by a run-wide deduplication barrier.
type Ingestor struct {
	catalog   *sources.Catalog
	fetcher   *fetch.Client
	sanitizer *sanitize.Sanitizer
	dedup     *dedup.Engine
	health    *health.Monitor
	store     storage.Store
	limiter   *ratelimit.Limiter
	recent    kvstore.Store
	extractor *extract.HTMLExtractor

	batchDelay       time.Duration
	recentWindow     time.Duration
	defaultRateLimit int
}

// errSkippedRecent short-circuits sources with fresh enough output.
var errSkippedRecent = errors.New("recently scraped")

// NewIngestor assembles the pipeline.
func NewIngestor(cfg Config) *Ingestor {
	if cfg.ArticleConcurrency <= 0 {
		cfg.ArticleConcurrency = config.ArticleConcurrency
	}
	if cfg.BatchDelay == 0 {
		cfg.BatchDelay = config.BatchDelay
	}
	if cfg.RecentWindow == 0 {
		cfg.RecentWindow = config.RecentScrapeThreshold
	}
	if cfg.DefaultRateLimit == 0 {
		cfg.DefaultRateLimit = config.DefaultRateLimit
	}

	return &Ingestor{
		catalog:          cfg.Catalog,
		fetcher:          cfg.Fetcher,
		sanitizer:        cfg.Sanitizer,
		dedup:            cfg.Dedup,
		health:           cfg.Health,
		store:            cfg.Store,
		limiter:          cfg.Limiter,
		recent:           cfg.Recent,
		extractor:        extract.NewHTMLExtractor(cfg.Fetcher, cfg.ArticleConcurrency),
		batchDelay:       cfg.BatchDelay,
		recentWindow:     cfg.RecentWindow,
		defaultRateLimit: cfg.DefaultRateLimit,
	}
}

// Run ingests the whole catalog.
func (in *Ingestor) Run(ctx context.Context, opts Options) *Summary {
	return in.runSources(ctx, in.catalog.All(), opts)
}

// RunSource ingests a single catalog entry by name. Unknown names are a
// configuration error and fail immediately.
func (in *Ingestor) RunSource(ctx context.Context, name string, opts Options) (*Summary, error) {
	src, err := in.catalog.Get(name)
	if err != nil {
		return nil, err
	}
	return in.runSources(ctx, []types.NewsSource{src}, opts), nil
}

func applyDefaults(opts Options) Options {
	if opts.Concurrency <= 0 {
		opts.Concurrency = config.DefaultConcurrency
	}
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = config.DefaultRetryAttempts
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = config.DefaultBatchSize
	}
	return opts
}

func (in *Ingestor) runSources(ctx context.Context, srcs []types.NewsSource, opts Options) *Summary {
	opts = applyDefaults(opts)

	log.Printf("Starting ingestion for %d sources (concurrency=%d, retries=%d, skipRecent=%t, dryRun=%t)",
		len(srcs), opts.Concurrency, opts.RetryAttempts, opts.SkipRecent, opts.DryRun)

	summary := &Summary{
		Articles: []types.Article{},
		Errors:   []types.SourceError{},
	}
	var mu sync.Mutex

	for start := 0; start < len(srcs); start += opts.BatchSize {
		end := start + opts.BatchSize
		if end > len(srcs) {
			end = len(srcs)
		}

		in.runBatch(ctx, srcs[start:end], opts, summary, &mu)

		if end < len(srcs) {
			select {
			case <-time.After(in.batchDelay):
			case <-ctx.Done():
				return in.finish(ctx, summary, opts)
			}
		}
	}

	return in.finish(ctx, summary, opts)
}

// runBatch processes one batch of sources under the concurrency bound.
// A failing source is recorded and never aborts its siblings.
func (in *Ingestor) runBatch(ctx context.Context, batch []types.NewsSource, opts Options, summary *Summary, mu *sync.Mutex) {
	sem := make(chan struct{}, opts.Concurrency)
	var wg sync.WaitGroup

	for _, src := range batch {
		wg.Add(1)
		go func(src types.NewsSource) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result := in.processSource(ctx, src, opts)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case result.Success:
				summary.Success++
				summary.Articles = append(summary.Articles, result.Articles...)
			case result.Error == errSkippedRecent.Error():
				summary.Skipped++
			default:
				summary.Failed++
				summary.Errors = append(summary.Errors, types.SourceError{Source: src.Name, Error: result.Error})
			}
		}(src)
	}

	wg.Wait()
}

// finish runs the dedup barrier over the gathered candidates and persists
// the survivors unless this is a dry run.
func (in *Ingestor) finish(ctx context.Context, summary *Summary, opts Options) *Summary {
	unique, stats := in.dedup.RemoveDuplicates(summary.Articles)
	summary.Articles = unique
	summary.Dedup = stats

	if !opts.DryRun && in.store != nil {
		for i := range summary.Articles {
			if err := in.store.UpsertArticle(ctx, &summary.Articles[i]); err != nil {
				log.Printf("Warning: failed to store article %s: %v", summary.Articles[i].Link, err)
			}
		}
	}

	log.Printf("Ingestion complete: success=%d failed=%d skipped=%d articles=%d",
		summary.Success, summary.Failed, summary.Skipped, len(summary.Articles))

	return summary
}

// processSource handles one source end to end: freshness check, rate-limit
// slot, then the whole-source retry loop. Retries are invisible to the
// caller except as latency.
func (in *Ingestor) processSource(ctx context.Context, src types.NewsSource, opts Options) types.ScrapingResult {
	result := types.ScrapingResult{Source: src.Name}

	if opts.SkipRecent && in.wasRecentlyScraped(ctx, src.Name) {
		log.Printf("Skipping recently scraped source: %s", src.Name)
		result.Error = errSkippedRecent.Error()
		return result
	}

	rate := src.RateLimit
	if rate <= 0 {
		rate = in.defaultRateLimit
	}
	if err := in.limiter.Acquire(ctx, src.Name, rate); err != nil {
		result.Error = err.Error()
		in.health.RecordFailure(src.Name, result.Error, 0)
		return result
	}

	var lastErr error
	var lastResp *fetch.Response

	for attempt := 1; attempt <= opts.RetryAttempts; attempt++ {
		articles, resp, err := in.scrapeOnce(ctx, src)
		if resp != nil {
			lastResp = resp
		}
		if err == nil {
			in.health.RecordSuccess(src.Name, resp.Elapsed, len(articles))
			// A dry run must leave the freshness marker alone, or the next
			// real skip-recent run would skip everything it validated.
			if !opts.DryRun {
				in.markScraped(ctx, src.Name)
			}
			result.Success = true
			result.Articles = articles
			result.ResponseTime = resp.Elapsed
			result.StatusCode = resp.StatusCode
			log.Printf("Successfully processed %d articles from %s", len(articles), src.Name)
			return result
		}

		lastErr = err
		log.Printf("Warning: attempt %d/%d failed for %s: %v", attempt, opts.RetryAttempts, src.Name, err)

		if attempt < opts.RetryAttempts {
			select {
			case <-time.After(time.Duration(attempt) * in.fetcher.RetryDelay()):
			case <-ctx.Done():
				lastErr = ctx.Err()
				attempt = opts.RetryAttempts
			}
		}
	}

	result.Error = lastErr.Error()
	if lastResp != nil {
		result.ResponseTime = lastResp.Elapsed
		result.StatusCode = lastResp.StatusCode
	}
	in.health.RecordFailure(src.Name, result.Error, result.ResponseTime)
	return result
}

// scrapeOnce performs a single fetch+extract+sanitize pass over a source.
// The response is returned even on failure so callers can report status and
// latency.
func (in *Ingestor) scrapeOnce(ctx context.Context, src types.NewsSource) ([]types.Article, *fetch.Response, error) {
	resp, err := in.fetcher.Get(ctx, src.URL)
	if err != nil {
		return nil, resp, err
	}

	var candidates []types.Article
	switch src.Mode {
	case types.ModeHTML:
		candidates, err = in.extractor.Extract(ctx, resp.Body, src)
		if err != nil {
			return nil, resp, err
		}
	default:
		candidates, err = in.parseFeed(resp.Body, src)
		if err != nil {
			return nil, resp, err
		}
	}

	articles := make([]types.Article, 0, len(candidates))
	for _, candidate := range candidates {
		cleaned, err := in.sanitizer.Clean(candidate.Content)
		if err != nil {
			log.Printf("Warning: dropping %q from %s: %v", candidate.Title, src.Name, err)
			continue
		}
		candidate.Content = cleaned
		articles = append(articles, candidate)
	}

	return articles, resp, nil
}

// parseFeed maps feed items to candidates. A broken item is dropped on its
// own; the rest of the feed still goes through.
func (in *Ingestor) parseFeed(body []byte, src types.NewsSource) ([]types.Article, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	if len(feed.Items) == 0 {
		log.Printf("Warning: no items found in feed: %s", src.Name)
		return nil, nil
	}

	candidates := make([]types.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		article, err := extract.FromFeedItem(item, src)
		if err != nil {
			log.Printf("Warning: skipping item from %s: %v", src.Name, err)
			continue
		}
		candidates = append(candidates, article)
	}

	return candidates, nil
}

func (in *Ingestor) recentKey(source string) string {
	return "scrape:recent:" + source
}

func (in *Ingestor) markScraped(ctx context.Context, source string) {
	if in.recent == nil {
		return
	}
	if err := in.recent.Set(ctx, in.recentKey(source), time.Now().Format(time.RFC3339), in.recentWindow); err != nil {
		log.Printf("Warning: failed to mark %s as scraped: %v", source, err)
	}
}

// wasRecentlyScraped consults the fast marker first, then the store's
// capture history. Errors are treated as "not recent" so a flaky backend
// can't starve ingestion.
func (in *Ingestor) wasRecentlyScraped(ctx context.Context, source string) bool {
	if in.recent != nil {
		if _, ok, err := in.recent.Get(ctx, in.recentKey(source)); err == nil && ok {
			return true
		}
	}

	if in.store != nil {
		last, err := in.store.LastScrapedAt(ctx, source)
		if err != nil {
			log.Printf("Warning: failed to check recent scrape status for %s: %v", source, err)
			return false
		}
		return last != nil && time.Since(*last) < in.recentWindow
	}

	return false
}
