package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gmscraper/pipeline"
	"gmscraper/sources"

	"github.com/gin-gonic/gin"
)

// scrapeTimeout bounds a single API-triggered run.
const scrapeTimeout = 15 * time.Minute

// RegisterScrapeRoutes registers ingestion trigger endpoints.
func (s *Server) RegisterScrapeRoutes(r *gin.Engine) {
	g := r.Group("/api/scrape")
	g.POST("", s.handleScrapeAll)
	g.POST("/:source", s.handleScrapeSource)
}

// scrapeRequest carries per-run overrides. All fields are optional.
type scrapeRequest struct {
	Concurrency   int  `json:"concurrency"`
	RetryAttempts int  `json:"retryAttempts"`
	BatchSize     int  `json:"batchSize"`
	SkipRecent    bool `json:"skipRecent"`
	DryRun        bool `json:"dryRun"`
}

func (req scrapeRequest) options() pipeline.Options {
	return pipeline.Options{
		Concurrency:   req.Concurrency,
		RetryAttempts: req.RetryAttempts,
		BatchSize:     req.BatchSize,
		SkipRecent:    req.SkipRecent,
		DryRun:        req.DryRun,
	}
}

// handleScrapeAll runs the full catalog synchronously and returns the run
// summary.
// POST /api/scrape
func (s *Server) handleScrapeAll(c *gin.Context) {
	var req scrapeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), scrapeTimeout)
	defer cancel()

	summary := s.ingestor.Run(ctx, req.options())
	c.JSON(http.StatusOK, summary)
}

// handleScrapeSource runs a single named source.
// POST /api/scrape/:source
func (s *Server) handleScrapeSource(c *gin.Context) {
	var req scrapeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), scrapeTimeout)
	defer cancel()

	summary, err := s.ingestor.RunSource(ctx, c.Param("source"), req.options())
	if err != nil {
		var unknown *sources.ErrUnknownSource
		if errors.As(err, &unknown) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}
