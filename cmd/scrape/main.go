// Command scrape runs one ingestion pass from the command line and prints
// the run summary as JSON on stdout. Logs go to stderr so the output can be
// piped.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"gmscraper/config"
	"gmscraper/dedup"
	"gmscraper/fetch"
	"gmscraper/health"
	"gmscraper/kvstore"
	"gmscraper/pipeline"
	"gmscraper/ratelimit"
	"gmscraper/sanitize"
	"gmscraper/sources"
	"gmscraper/storage"

	"github.com/joho/godotenv"
)

func main() {
	var (
		source      = flag.String("source", "", "scrape only this source")
		concurrency = flag.Int("concurrency", 0, "max sources scraped at once")
		retries     = flag.Int("retries", 0, "attempts per source")
		batchSize   = flag.Int("batch-size", 0, "sources per batch")
		skipRecent  = flag.Bool("skip-recent", false, "skip sources scraped within the last 2 hours")
		dryRun      = flag.Bool("dry-run", false, "run the pipeline without writing to storage")
		timeout     = flag.Duration("timeout", 15*time.Minute, "overall run timeout")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	list := sources.Defaults()
	if cfg.SourcesFile != "" {
		loaded, err := sources.LoadFile(cfg.SourcesFile)
		if err != nil {
			log.Fatalf("failed to load source catalog: %v", err)
		}
		list = loaded
	}
	catalog, err := sources.NewCatalog(list)
	if err != nil {
		log.Fatalf("invalid source catalog: %v", err)
	}

	var store storage.Store
	if cfg.PostgresDSN != "" {
		pg, err := storage.NewPostgres(cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("failed to connect to Postgres: %v", err)
		}
		store = pg
	} else {
		store = storage.NewMemory()
	}

	ingestor := pipeline.NewIngestor(pipeline.Config{
		Catalog: catalog,
		Fetcher: fetch.NewClient(fetch.Options{
			Timeout:      config.RequestTimeout,
			RequestDelay: config.RequestDelay,
			RetryDelay:   config.RetryDelay,
			UserAgent:    config.UserAgent,
		}),
		Sanitizer: sanitize.New(config.MinContentLength),
		Dedup: dedup.NewEngine(dedup.Config{
			SimilarityThreshold: cfg.SimilarityThreshold,
			Disabled:            !cfg.DeduplicationEnabled,
		}),
		Health:  health.NewMonitor(cfg.MaxFailureCount, health.LogSink{}),
		Store:   store,
		Limiter: ratelimit.NewLimiter(),
		Recent:  kvstore.NewMemory(),
	})

	opts := pipeline.Options{
		Concurrency:   *concurrency,
		RetryAttempts: *retries,
		BatchSize:     *batchSize,
		SkipRecent:    *skipRecent,
		DryRun:        *dryRun,
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var summary *pipeline.Summary
	if *source != "" {
		summary, err = ingestor.RunSource(ctx, *source, opts)
		if err != nil {
			log.Fatalf("scrape failed: %v", err)
		}
	} else {
		summary = ingestor.Run(ctx, opts)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		log.Fatalf("failed to encode summary: %v", err)
	}

	if summary.Failed > 0 && summary.Success == 0 {
		os.Exit(1)
	}
}
