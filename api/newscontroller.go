package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultNewsLimit = 50

// RegisterNewsRoutes registers read access to stored articles.
func (s *Server) RegisterNewsRoutes(r *gin.Engine) {
	r.GET("/api/news", s.handleRecentNews)
	r.GET("/api/news/source/:source", s.handleNewsBySource)
	r.GET("/api/news/search", s.handleSearchNews)
	r.GET("/api/stats", s.handleStats)
	r.GET("/api/categories", s.handleCategories)
}

func limitParam(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultNewsLimit)))
	if err != nil || limit <= 0 {
		return defaultNewsLimit
	}
	return limit
}

// GET /api/news
func (s *Server) handleRecentNews(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no article store configured"})
		return
	}

	articles, err := s.store.Recent(c.Request.Context(), limitParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(articles), "articles": articles})
}

// GET /api/news/source/:source
func (s *Server) handleNewsBySource(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no article store configured"})
		return
	}

	name := c.Param("source")
	if _, err := s.catalog.Get(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	articles, err := s.store.RecentBySource(c.Request.Context(), name, limitParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"source": name, "count": len(articles), "articles": articles})
}

// GET /api/news/search?q=term
func (s *Server) handleSearchNews(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no article store configured"})
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter: q"})
		return
	}

	articles, err := s.store.Search(c.Request.Context(), query, limitParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "count": len(articles), "articles": articles})
}

// GET /api/stats
func (s *Server) handleStats(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no article store configured"})
		return
	}

	stats, err := s.store.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /api/categories
func (s *Server) handleCategories(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no article store configured"})
		return
	}

	categories, err := s.store.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
