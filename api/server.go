// Package api exposes the scraper over HTTP: trigger routes for ingestion,
// health and score reporting, and read access to stored articles.
package api

import (
	"gmscraper/health"
	"gmscraper/pipeline"
	"gmscraper/sources"
	"gmscraper/storage"

	"github.com/gin-gonic/gin"
)

// Server bundles the collaborators the route handlers need.
type Server struct {
	ingestor *pipeline.Ingestor
	health   *health.Monitor
	store    storage.Store
	catalog  *sources.Catalog
}

func NewServer(ingestor *pipeline.Ingestor, monitor *health.Monitor, store storage.Store, catalog *sources.Catalog) *Server {
	return &Server{
		ingestor: ingestor,
		health:   monitor,
		store:    store,
		catalog:  catalog,
	}
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	s.RegisterScrapeRoutes(r)
	s.RegisterHealthRoutes(r)
	s.RegisterNewsRoutes(r)
	return r
}
