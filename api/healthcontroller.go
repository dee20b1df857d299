package api

import (
	"net/http"
	"time"

	"gmscraper/health"

	"github.com/gin-gonic/gin"
)

// RegisterHealthRoutes registers health and score reporting endpoints.
func (s *Server) RegisterHealthRoutes(r *gin.Engine) {
	g := r.Group("/api/health")
	g.GET("", s.handleHealth)
	g.GET("/sources", s.handleHealthSources)
	g.GET("/sources/:source", s.handleHealthSource)
	g.GET("/scores", s.handleHealthScores)
}

// handleHealth reports the aggregate pipeline status.
// GET /api/health
func (s *Server) handleHealth(c *gin.Context) {
	overall := s.health.OverallHealth()
	c.JSON(http.StatusOK, gin.H{
		"status":         overall.Status,
		"healthySources": overall.HealthySources,
		"totalSources":   overall.TotalSources,
		"sources":        s.health.AllStatuses(),
		"timestamp":      time.Now().Format(time.RFC3339),
	})
}

// GET /api/health/sources
func (s *Server) handleHealthSources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sources": s.health.AllStatuses()})
}

// GET /api/health/sources/:source
func (s *Server) handleHealthSource(c *gin.Context) {
	name := c.Param("source")
	if _, err := s.catalog.Get(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.health.Status(name))
}

// sourceScore pairs a catalog entry with its computed score.
type sourceScore struct {
	Source string `json:"source"`
	health.Score
}

// handleHealthScores computes a 0-100 score per catalog source from stored
// article history.
// GET /api/health/scores
func (s *Server) handleHealthScores(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no article store configured"})
		return
	}

	ctx := c.Request.Context()
	now := time.Now()
	scores := make([]sourceScore, 0, s.catalog.Len())

	for _, src := range s.catalog.All() {
		last, err := s.store.LastScrapedAt(ctx, src.Name)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		everScraped := last != nil
		daysSince := 0
		if everScraped {
			daysSince = int(now.Sub(*last).Hours() / 24)
		}

		count24h, err := s.store.CountBySourceSince(ctx, src.Name, now.Add(-24*time.Hour))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		count7d, err := s.store.CountBySourceSince(ctx, src.Name, now.Add(-7*24*time.Hour))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		scores = append(scores, sourceScore{
			Source: src.Name,
			Score:  health.CalculateScore(int(count24h), int(count7d), daysSince, everScraped),
		})
	}

	c.JSON(http.StatusOK, gin.H{"scores": scores, "timestamp": now.Format(time.RFC3339)})
}
