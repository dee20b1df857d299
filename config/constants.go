package config

import "time"

// Scheduling Constants
const (
	// DefaultConcurrency limits how many sources are processed at once
	DefaultConcurrency = 3

	// DefaultBatchSize is the number of sources grouped per batch
	DefaultBatchSize = 10

	// DefaultRetryAttempts is the per-source attempt budget
	DefaultRetryAttempts = 3

	// BatchDelay is the pause inserted between source batches
	BatchDelay = 1 * time.Second

	// RetryDelay is the base backoff; actual wait is attempt * RetryDelay
	RetryDelay = 2 * time.Second

	// RecentScrapeThreshold is how fresh a source's output must be for
	// the skip-recent check to short-circuit it
	RecentScrapeThreshold = 2 * time.Hour
)

// Fetch Constants
const (
	// RequestTimeout bounds a single HTTP request
	RequestTimeout = 30 * time.Second

	// RequestDelay is applied before every outbound request
	RequestDelay = 1 * time.Second

	// DefaultRateLimit is requests per minute for sources without their own
	DefaultRateLimit = 10

	// ArticleConcurrency bounds detail-page fetches within one source
	ArticleConcurrency = 5

	// UserAgent identifies the scraper to publishers
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Content Constants
const (
	// MinContentLength drops articles whose sanitized body is shorter
	MinContentLength = 100

	// SimilarityThreshold is the near-duplicate cutoff on title similarity
	SimilarityThreshold = 0.8

	// MaxFailureCount is consecutive failures before a source goes critical
	MaxFailureCount = 3
)
