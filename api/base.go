package api

import (
	"net/http"
	"time"

	"github.com/EmidioStani/dcat-ap-no-validator-service/base"
	"github.com/EmidioStani/dcat-ap-no-validator-service/rdf"
	"github.com/EmidioStani/dcat-ap-no-validator-service/shapes"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Service carries the collaborators the HTTP handlers work with.
type Service struct {
	Registry *shapes.Registry
	Loader   *shapes.Loader
	Fetcher  *rdf.Fetcher
}

// NewRouter builds the gin engine with middleware and all routes registered.
func NewRouter(service *Service) *gin.Engine {
	router := gin.New()
	// exclude liveliness checks from access logs
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/ping", "/ready"},
	}))
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     base.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.SetTrustedProxies(nil)
	router.UseRawPath = true
	router.GET("/ping", handlePing)
	router.GET("/ready", handleReady)
	router.GET("/shapes", service.handleListShapes)
	router.GET("/shapes/:id", service.handleGetShapes)
	router.POST("/validator", service.handleValidate)
	registerOpenAPI(router)
	return router
}

// handlePing answers liveness probes.
func handlePing(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

// handleReady answers readiness probes.
func handleReady(c *gin.Context) {
	c.String(http.StatusOK, "ready")
}
