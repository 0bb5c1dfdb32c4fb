package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/EmidioStani/dcat-ap-no-validator-service/rdf"
	"github.com/EmidioStani/dcat-ap-no-validator-service/shapes"
	"github.com/gin-gonic/gin"
)

// errBadRequest marks request bodies the resolver cannot accept.
var errBadRequest = errors.New("bad request")

// errorStatus maps pipeline failures onto HTTP status codes. Everything the
// client caused is a 400, shapes graph and engine trouble stays a 500.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, rdf.ErrInvalidRDF),
		errors.Is(err, rdf.ErrUnreachable),
		errors.Is(err, shapes.ErrUnknownVersion):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError logs a pipeline failure and writes the mapped status with a
// JSON error body.
func respondError(c *gin.Context, message string, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error(message, "error", err)
	} else {
		slog.Warn(message, "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
