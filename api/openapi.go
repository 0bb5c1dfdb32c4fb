package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/EmidioStani/dcat-ap-no-validator-service/base"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

var apispec = newApiSpec()

// registerOpenAPI serves the OpenAPI specification as JSON and YAML.
func registerOpenAPI(router *gin.Engine) {
	router.GET("/openapi.json", func(c *gin.Context) {
		c.JSON(http.StatusOK, apispec)
	})

	router.GET("/openapi.yaml", func(c *gin.Context) {
		data, err := yaml.Marshal(apispec)
		if err != nil {
			slog.Error("failed marhaling openapi spec", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Type", "text/yaml")
		c.Writer.Write(data)
	})
}

// newApiSpec constructs the OpenAPI specification for this service.
func newApiSpec() *openapi3.T {
	errorResponse := &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"}
	reportContent := openapi3.NewContentWithSchemaRef(
		openapi3.NewSchemaRef("", openapi3.NewStringSchema()),
		[]string{"text/turtle", "application/ld+json", "application/n-triples"})
	descriptionSchema := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema()).
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("description", openapi3.NewStringSchema()).
		WithProperty("version", openapi3.NewStringSchema()).
		WithProperty("url", openapi3.NewStringSchema()).
		WithProperty("specification_name", openapi3.NewStringSchema()).
		WithProperty("specification_version", openapi3.NewStringSchema()).
		WithProperty("specification_url", openapi3.NewStringSchema())
	validatorBody := openapi3.NewObjectSchema().
		WithProperty("file", openapi3.NewStringSchema().WithFormat("binary")).
		WithProperty("text", openapi3.NewStringSchema()).
		WithProperty("url", openapi3.NewStringSchema().WithFormat("uri")).
		WithProperty("version", openapi3.NewStringSchema())

	spec := &openapi3.T{
		OpenAPI: "3.1.0",
		Info: &openapi3.Info{
			Title:       "DCAT-AP-NO validator API",
			Description: "API for validating RDF graphs against the DCAT-AP-NO SHACL shapes",
			Version:     "v1",
			License: &openapi3.License{
				Name: "Apache License Version 2.0",
				URL:  "https://www.apache.org/licenses/LICENSE-2.0",
			},
		},
		Servers: openapi3.Servers{
			&openapi3.Server{
				Description: "Production",
				URL:         strings.TrimSuffix(base.BackendUrl, "/"),
			},
		},
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				"ShapesGraphDescription": openapi3.NewSchemaRef("", descriptionSchema),
			},
			RequestBodies: openapi3.RequestBodies{},
			Responses: openapi3.ResponseBodies{
				"ErrorResponse": &openapi3.ResponseRef{
					Value: openapi3.NewResponse().
						WithDescription("Response when errors happen.").
						WithContent(openapi3.NewContentWithJSONSchema(openapi3.NewSchema().
							WithProperty("error", openapi3.NewStringSchema()))),
				},
			},
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/validator", &openapi3.PathItem{
				Post: &openapi3.Operation{
					Summary:     "Validate an RDF graph against a shapes graph",
					Description: "Exactly one of the parts file, text or url supplies the data graph. The optional version part selects the shapes graph.",
					RequestBody: &openapi3.RequestBodyRef{
						Value: openapi3.NewRequestBody().
							WithRequired(true).
							WithSchema(validatorBody, []string{"multipart/form-data"}),
					},
					Responses: openapi3.NewResponses(
						openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
							Value: openapi3.NewResponse().
								WithDescription("A SHACL validation report in the negotiated RDF serialization.").
								WithContent(reportContent),
						}),
						openapi3.WithStatus(http.StatusBadRequest, errorResponse),
						openapi3.WithStatus(http.StatusInternalServerError, errorResponse),
					),
				},
			}),
			openapi3.WithPath("/shapes", &openapi3.PathItem{
				Get: &openapi3.Operation{
					Summary: "List the registered shapes graphs",
					Responses: openapi3.NewResponses(
						openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
							Value: openapi3.NewResponse().
								WithDescription("The shapes graph descriptions in catalog order.").
								WithJSONSchema(openapi3.NewArraySchema().
									WithItems(descriptionSchema)),
						}),
					),
				},
			}),
			openapi3.WithPath("/shapes/{id}", &openapi3.PathItem{
				Get: &openapi3.Operation{
					Summary: "Get one shapes graph description",
					Parameters: openapi3.Parameters{
						&openapi3.ParameterRef{
							Value: openapi3.NewPathParameter("id").
								WithSchema(openapi3.NewStringSchema()),
						},
					},
					Responses: openapi3.NewResponses(
						openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
							Value: openapi3.NewResponse().
								WithDescription("The shapes graph description.").
								WithJSONSchema(descriptionSchema),
						}),
						openapi3.WithStatus(http.StatusNotFound, errorResponse),
					),
				},
			}),
		),
	}
	return spec
}
