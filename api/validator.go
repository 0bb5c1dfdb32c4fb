package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/EmidioStani/dcat-ap-no-validator-service/base"
	"github.com/EmidioStani/dcat-ap-no-validator-service/rdf"
	"github.com/EmidioStani/dcat-ap-no-validator-service/shacl"
	"github.com/deiu/rdf2go"
	"github.com/gin-gonic/gin"
)

// handleValidate implements POST /validator: resolve the data graph, load the
// requested shapes graph, validate, and return the report in the negotiated
// serialization. Non-conformant data is still a successful validation run.
func (service *Service) handleValidate(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, base.MaxUploadBytes)
	source, err := resolveGraphSource(c.Request)
	if err != nil {
		respondError(c, "failed resolving validation input", err)
		return
	}
	ctx := c.Request.Context()
	dataGraph, err := service.loadDataGraph(ctx, source)
	if err != nil {
		respondError(c, "failed loading data graph", err)
		return
	}
	shapesGraph, err := service.Loader.Load(ctx, source.version)
	if err != nil {
		respondError(c, "failed loading shapes graph", err)
		return
	}
	report, err := shacl.Validate(dataGraph, shapesGraph)
	if err != nil {
		respondError(c, "failed validating data graph", err)
		return
	}
	format := negotiateFormat(c.GetHeader("Accept"))
	body, err := rdf.Serialize(report.Graph, format)
	if err != nil {
		respondError(c, "failed serializing validation report", err)
		return
	}
	slog.Debug("validated data graph", "version", source.version, "conforms", report.Conforms)
	c.Data(http.StatusOK, format.ContentType(), body)
}

// loadDataGraph turns a resolved source into a parsed graph.
func (service *Service) loadDataGraph(ctx context.Context, source *graphSource) (*rdf2go.Graph, error) {
	switch source.kind {
	case sourceFile, sourceText:
		return rdf.Parse(source.data, source.format)
	case sourceURL:
		data, contentType, err := service.Fetcher.Fetch(ctx, source.url)
		if err != nil {
			return nil, err
		}
		return rdf.Parse(data, rdf.DetectFormat(contentType, source.url))
	}
	return nil, fmt.Errorf("%w: no data source resolved", errBadRequest)
}
