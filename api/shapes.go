package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleListShapes returns the full shapes catalog for discovery.
func (service *Service) handleListShapes(c *gin.Context) {
	c.JSON(http.StatusOK, service.Registry.List())
}

// handleGetShapes returns the description of a single shapes graph.
func (service *Service) handleGetShapes(c *gin.Context) {
	id := c.Param("id")
	description, ok := service.Registry.Get(id)
	if !ok {
		slog.Warn("unknown shapes graph requested", "id", id)
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no shapes graph with id %q", id)})
		return
	}
	c.JSON(http.StatusOK, description)
}
