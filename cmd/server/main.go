package main

import (
	"log"
	"net/http"

	"gmscraper/api"
	"gmscraper/config"
	"gmscraper/dedup"
	"gmscraper/fetch"
	"gmscraper/health"
	"gmscraper/kvstore"
	"gmscraper/pipeline"
	"gmscraper/ratelimit"
	"gmscraper/sanitize"
	"gmscraper/scheduler"
	"gmscraper/sources"
	"gmscraper/storage"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := config.Load()

	catalog, err := buildCatalog(cfg)
	if err != nil {
		log.Fatalf("failed to load source catalog: %v", err)
	}
	log.Printf("Loaded %d news sources", catalog.Len())

	store := buildStore(cfg)
	recent := buildKVStore(cfg)
	sink := buildAlertSink(cfg)

	monitor := health.NewMonitor(cfg.MaxFailureCount, sink)
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
		Health:  monitor,
		Store:   store,
		Limiter: ratelimit.NewLimiter(),
		Recent:  recent,
	})

	sched := scheduler.New(ingestor, cfg.CronSpec, pipeline.Options{SkipRecent: true})
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	r := api.NewRouter(api.NewServer(ingestor, monitor, store, catalog))

	addr := ":" + cfg.Port
	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  POST /api/scrape")
	log.Println("  POST /api/scrape/:source")
	log.Println("  GET  /api/health")
	log.Println("  GET  /api/health/sources")
	log.Println("  GET  /api/health/sources/:source")
	log.Println("  GET  /api/health/scores")
	log.Println("  GET  /api/news")
	log.Println("  GET  /api/news/source/:source")
	log.Println("  GET  /api/news/search")
	log.Println("  GET  /api/stats")
	log.Println("  GET  /api/categories")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func buildCatalog(cfg *config.Config) (*sources.Catalog, error) {
	list := sources.Defaults()
	if cfg.SourcesFile != "" {
		loaded, err := sources.LoadFile(cfg.SourcesFile)
		if err != nil {
			return nil, err
		}
		log.Printf("Using source catalog from %s", cfg.SourcesFile)
		list = loaded
	}
	return sources.NewCatalog(list)
}

// buildStore prefers Postgres and degrades to in-memory so the service can
// run without infrastructure.
func buildStore(cfg *config.Config) storage.Store {
	if cfg.PostgresDSN == "" {
		log.Println("POSTGRES_DSN not set, using in-memory article store")
		return storage.NewMemory()
	}

	store, err := storage.NewPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Printf("Warning: failed to connect to Postgres, falling back to in-memory store: %v", err)
		return storage.NewMemory()
	}
	log.Println("Connected to Postgres article store")
	return store
}

func buildKVStore(cfg *config.Config) kvstore.Store {
	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, using in-memory scrape markers")
		return kvstore.NewMemory()
	}

	kv, err := kvstore.NewRedis(kvstore.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Printf("Warning: failed to connect to Redis, falling back to in-memory markers: %v", err)
		return kvstore.NewMemory()
	}
	log.Println("Connected to Redis")
	return kv
}

func buildAlertSink(cfg *config.Config) health.AlertSink {
	if len(cfg.KafkaBrokers) == 0 {
		return health.LogSink{}
	}

	sink, err := health.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaAlertTopic)
	if err != nil {
		log.Printf("Warning: failed to connect to Kafka, alerts go to the log: %v", err)
		return health.LogSink{}
	}
	log.Printf("Publishing source alerts to Kafka topic %q", cfg.KafkaAlertTopic)
	return sink
}
