package types

import "time"

// Article is the unit of pipeline output. Link is the natural key: re-ingesting
// the same link updates the stored record instead of creating a new one.
type Article struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Source    string    `json:"source"`
	Date      string    `json:"date"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	Hash      string    `json:"hash,omitempty"`
	ScrapedAt time.Time `json:"scrapedAt"`
}

// ScrapingResult is the per-source outcome of one pipeline run.
type ScrapingResult struct {
	Source       string        `json:"source"`
	Articles     []Article     `json:"articles"`
	Success      bool          `json:"success"`
	Error        string        `json:"error,omitempty"`
	ResponseTime time.Duration `json:"responseTime,omitempty"`
	StatusCode   int           `json:"statusCode,omitempty"`
}

// SourceError pairs a source name with the error that took it down for a run.
type SourceError struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// DeduplicationStats summarizes one batch-scoped deduplication pass.
type DeduplicationStats struct {
	TotalArticles     int `json:"totalArticles"`
	DuplicatesFound   int `json:"duplicatesFound"`
	DuplicatesRemoved int `json:"duplicatesRemoved"`
	UniqueArticles    int `json:"uniqueArticles"`
}
