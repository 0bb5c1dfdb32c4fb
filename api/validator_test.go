package api

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/EmidioStani/dcat-ap-no-validator-service/base"
	"github.com/EmidioStani/dcat-ap-no-validator-service/rdf"
	"github.com/EmidioStani/dcat-ap-no-validator-service/shacl"
	"github.com/EmidioStani/dcat-ap-no-validator-service/shapes"
	"github.com/deiu/rdf2go"
	"github.com/gin-gonic/gin"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestService wires a service whose outbound HTTP is intercepted. The
// registered shapes URLs serve small fixture documents.
func newTestService(t *testing.T) (*Service, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	registry := shapes.DefaultRegistry()
	fetcher := rdf.NewFetcher(5 * time.Second)
	httpmock.ActivateNonDefault(fetcher.Client)
	t.Cleanup(httpmock.DeactivateAndReset)
	for id, fixture := range map[string]string{
		"1": "mock_shapes_1.ttl",
		"2": "mock_shapes_2.ttl",
		"3": "mock_shapes_3.ttl",
	} {
		description, ok := registry.Get(id)
		require.True(t, ok)
		httpmock.RegisterResponder("GET", description.URL,
			httpmock.NewBytesResponder(http.StatusOK, readFixture(t, fixture)))
	}
	loader := shapes.NewLoader(registry, fetcher)
	service := &Service{Registry: registry, Loader: loader, Fetcher: fetcher}
	return service, NewRouter(service)
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

type bodyPart struct {
	name        string
	filename    string
	contentType string
	encoding    string
	body        []byte
}

func multipartBody(t *testing.T, parts ...bodyPart) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, p := range parts {
		header := textproto.MIMEHeader{}
		disposition := fmt.Sprintf("form-data; name=%q", p.name)
		if p.filename != "" {
			disposition += fmt.Sprintf("; filename=%q", p.filename)
		}
		header.Set("Content-Disposition", disposition)
		if p.contentType != "" {
			header.Set("Content-Type", p.contentType)
		}
		if p.encoding != "" {
			header.Set("Content-Encoding", p.encoding)
		}
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(p.body)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func postValidator(router *gin.Engine, body *bytes.Buffer, contentType, accept string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, "/validator", body)
	request.Header.Set("Content-Type", contentType)
	if accept != "" {
		request.Header.Set("Accept", accept)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func parseReport(t *testing.T, recorder *httptest.ResponseRecorder, format rdf.Format) *rdf2go.Graph {
	t.Helper()
	graph, err := rdf.Parse(recorder.Body.Bytes(), format)
	require.NoError(t, err)
	return graph
}

func reportConforms(t *testing.T, graph *rdf2go.Graph) bool {
	t.Helper()
	triple := graph.One(nil, shacl.SHACL_CONFORMS, nil)
	require.NotNil(t, triple)
	return triple.Object.RawValue() == "true"
}

func resultMessages(graph *rdf2go.Graph) []string {
	var messages []string
	for _, triple := range graph.All(nil, shacl.SHACL_RESULT_MESSAGE, nil) {
		messages = append(messages, triple.Object.RawValue())
	}
	return messages
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	writer := gzip.NewWriter(&buf)
	_, err := writer.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return buf.Bytes()
}

func TestValidateFileReturnsTurtleReport(t *testing.T) {
	_, router := newTestService(t)
	body, contentType := multipartBody(t, bodyPart{
		name: "file", filename: "catalog_1.ttl", contentType: "text/turtle",
		body: readFixture(t, "catalog_1.ttl"),
	})
	recorder := postValidator(router, body, contentType, "")

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.Equal(t, "text/turtle", recorder.Header().Get("Content-Type"))
	report := parseReport(t, recorder, rdf.Turtle)
	assert.NotNil(t, report.One(nil, shacl.RDF_TYPE, shacl.SHACL_VALIDATION_REPORT))
	assert.True(t, reportConforms(t, report))
}

func TestValidateConformantReportShape(t *testing.T) {
	_, router := newTestService(t)
	body, contentType := multipartBody(t, bodyPart{
		name: "file", filename: "catalog_1.ttl", body: readFixture(t, "catalog_1.ttl"),
	})
	recorder := postValidator(router, body, contentType, "")
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	expected, err := rdf.Parse([]byte(`
		_:report a <http://www.w3.org/ns/shacl#ValidationReport> ;
			<http://www.w3.org/ns/shacl#conforms> "true"^^<http://www.w3.org/2001/XMLSchema#boolean> .
	`), rdf.Turtle)
	require.NoError(t, err)
	assert.True(t, rdf.Isomorphic(parseReport(t, recorder, rdf.Turtle), expected))
}

func TestValidateTextPart(t *testing.T) {
	_, router := newTestService(t)
	body, contentType := multipartBody(t, bodyPart{
		name: "text", contentType: "text/turtle", body: readFixture(t, "catalog_1.ttl"),
	})
	recorder := postValidator(router, body, contentType, "")

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.True(t, reportConforms(t, parseReport(t, recorder, rdf.Turtle)))
}

func TestValidateURLPart(t *testing.T) {
	_, router := newTestService(t)
	dataURL := "https://datasets.example.com/catalog_1.ttl"
	httpmock.RegisterResponder("GET", dataURL,
		httpmock.NewBytesResponder(http.StatusOK, readFixture(t, "catalog_1.ttl")))

	body, contentType := multipartBody(t, bodyPart{name: "url", body: []byte(dataURL)})
	recorder := postValidator(router, body, contentType, "")

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.True(t, reportConforms(t, parseReport(t, recorder, rdf.Turtle)))
}

func TestValidateURLContentTypeDetection(t *testing.T) {
	_, router := newTestService(t)
	// no file extension, the declared content type decides the serialization
	dataURL := "https://datasets.example.com/catalog"
	fixture := readFixture(t, "catalog_1.json")
	httpmock.RegisterResponder("GET", dataURL, func(request *http.Request) (*http.Response, error) {
		response := httpmock.NewBytesResponse(http.StatusOK, fixture)
		response.Header.Set("Content-Type", "application/ld+json; charset=utf-8")
		return response, nil
	})

	body, contentType := multipartBody(t, bodyPart{name: "url", body: []byte(dataURL)})
	recorder := postValidator(router, body, contentType, "")

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.True(t, reportConforms(t, parseReport(t, recorder, rdf.Turtle)))
}

func TestValidateJSONLDFile(t *testing.T) {
	_, router := newTestService(t)
	body, contentType := multipartBody(t, bodyPart{
		name: "file", filename: "catalog_1.json", contentType: "application/ld+json",
		body: readFixture(t, "catalog_1.json"),
	})
	recorder := postValidator(router, body, contentType, "")

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.True(t, reportConforms(t, parseReport(t, recorder, rdf.Turtle)))
}

func TestValidateVersion2Violations(t *testing.T) {
	_, router := newTestService(t)
	body, contentType := multipartBody(t,
		bodyPart{name: "file", filename: "catalog_2_not_valid.ttl", body: readFixture(t, "catalog_2_not_valid.ttl")},
		bodyPart{name: "version", body: []byte("2")},
	)
	recorder := postValidator(router, body, contentType, "")

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	report := parseReport(t, recorder, rdf.Turtle)
	assert.False(t, reportConforms(t, report))
	assert.Len(t, report.All(nil, shacl.SHACL_RESULT, nil), 2)
	assert.ElementsMatch(t, []string{
		"Less than 1 values on <http://dataset-publisher:8080/datasets/1>->dct:description",
		"Value does not have class foaf:Agent",
	}, resultMessages(report))

	values := report.All(nil, shacl.SHACL_VALUE, nil)
	require.Len(t, values, 1)
	assert.Equal(t, "https://organization-catalogue.fellesdatakatalog.digdir.no/organizations/961181399",
		values[0].Object.RawValue())
	for _, severity := range report.All(nil, shacl.SHACL_RESULT_SEVERITY, nil) {
		assert.True(t, severity.Object.Equal(shacl.SHACL_VIOLATION))
	}
}

func TestValidateAcceptNegotiation(t *testing.T) {
	_, router := newTestService(t)
	fixture := readFixture(t, "catalog_1.ttl")
	tests := []struct {
		name        string
		accept      string
		contentType string
		format      rdf.Format
	}{
		{"json-ld", "application/ld+json", "application/ld+json", rdf.JSONLD},
		{"json-ld with quality", "application/ld+json;q=0.9, text/html", "application/ld+json", rdf.JSONLD},
		{"n-triples", "application/n-triples", "application/n-triples", rdf.NTriples},
		{"turtle", "text/turtle", "text/turtle", rdf.Turtle},
		{"unsupported falls back", "text/html, application/xhtml+xml", "text/turtle", rdf.Turtle},
		{"missing falls back", "", "text/turtle", rdf.Turtle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, bodyPart{name: "text", body: fixture})
			recorder := postValidator(router, body, contentType, tt.accept)
			require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
			assert.Equal(t, tt.contentType, recorder.Header().Get("Content-Type"))
			assert.True(t, reportConforms(t, parseReport(t, recorder, tt.format)))
		})
	}
}

func TestValidateGzipFile(t *testing.T) {
	_, router := newTestService(t)
	body, contentType := multipartBody(t, bodyPart{
		name: "file", filename: "catalog_1.ttl", encoding: "gzip",
		body: gzipBytes(t, readFixture(t, "catalog_1.ttl")),
	})
	recorder := postValidator(router, body, contentType, "")

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.True(t, reportConforms(t, parseReport(t, recorder, rdf.Turtle)))
}

// multipart/mixed with attachment dispositions is what some HTTP client
// libraries produce, the endpoint accepts it like form-data.
func TestValidateMultipartMixed(t *testing.T) {
	_, router := newTestService(t)
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `attachment; name="file"; filename="catalog_1.ttl"`)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(readFixture(t, "catalog_1.ttl"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	contentType := fmt.Sprintf("multipart/mixed; boundary=%s", writer.Boundary())
	recorder := postValidator(router, &buf, contentType, "")

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.True(t, reportConforms(t, parseReport(t, recorder, rdf.Turtle)))
}

// The same document must produce the same report no matter how it was
// delivered.
func TestValidateReportsAgreeAcrossMechanisms(t *testing.T) {
	_, router := newTestService(t)
	fixture := readFixture(t, "catalog_2_not_valid.ttl")
	dataURL := "https://datasets.example.com/catalog_2_not_valid.ttl"
	httpmock.RegisterResponder("GET", dataURL, httpmock.NewBytesResponder(http.StatusOK, fixture))

	version := bodyPart{name: "version", body: []byte("2")}
	var reports []*rdf2go.Graph
	for _, source := range []bodyPart{
		{name: "file", filename: "catalog_2_not_valid.ttl", body: fixture},
		{name: "text", body: fixture},
		{name: "url", body: []byte(dataURL)},
	} {
		body, contentType := multipartBody(t, source, version)
		recorder := postValidator(router, body, contentType, "")
		require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
		reports = append(reports, parseReport(t, recorder, rdf.Turtle))
	}
	assert.True(t, rdf.Isomorphic(reports[0], reports[1]))
	assert.True(t, rdf.Isomorphic(reports[0], reports[2]))
}

func TestValidateBadRequests(t *testing.T) {
	_, router := newTestService(t)
	turtle := readFixture(t, "catalog_1.ttl")
	tests := []struct {
		name    string
		parts   []bodyPart
		message string
	}{
		{
			"no source part",
			[]bodyPart{{name: "version", body: []byte("1")}},
			"one of the parts file, text or url is required",
		},
		{
			"two source parts",
			[]bodyPart{{name: "file", filename: "catalog_1.ttl", body: turtle}, {name: "text", body: turtle}},
			"mutually exclusive",
		},
		{
			"url part without scheme",
			[]bodyPart{{name: "url", body: []byte("datasets/catalog_1.ttl")}},
			"dereferenceable URL",
		},
		{
			"unsupported content encoding",
			[]bodyPart{{name: "text", encoding: "br", body: turtle}},
			"unsupported content encoding",
		},
		{
			"invalid rdf",
			[]bodyPart{{name: "text", body: readFixture(t, "invalid_rdf.txt")}},
			"invalid rdf",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tt.parts...)
			recorder := postValidator(router, body, contentType, "")
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.message)
		})
	}
}

func TestValidateNonMultipartBody(t *testing.T) {
	_, router := newTestService(t)
	recorder := postValidator(router, bytes.NewBufferString(`{"file": "x"}`), "application/json", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "expected a multipart body")
}

func TestValidateUnreachableURL(t *testing.T) {
	_, router := newTestService(t)
	refused := "https://datasets.example.com/refused.ttl"
	missing := "https://datasets.example.com/missing.ttl"
	httpmock.RegisterResponder("GET", refused, httpmock.NewErrorResponder(errors.New("connection refused")))
	httpmock.RegisterResponder("GET", missing, httpmock.NewStringResponder(http.StatusNotFound, "not found"))

	for _, dataURL := range []string{refused, missing} {
		body, contentType := multipartBody(t, bodyPart{name: "url", body: []byte(dataURL)})
		recorder := postValidator(router, body, contentType, "")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "unreachable source")
	}
}

func TestValidateUnknownVersion(t *testing.T) {
	_, router := newTestService(t)
	body, contentType := multipartBody(t,
		bodyPart{name: "text", body: readFixture(t, "catalog_1.ttl")},
		bodyPart{name: "version", body: []byte("99")},
	)
	recorder := postValidator(router, body, contentType, "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "unknown shapes version")
}

// Shapes document trouble is a deployment problem and must not surface as a
// client error.
func TestValidateShapesFailures(t *testing.T) {
	service, router := newTestService(t)
	description, ok := service.Registry.Get("3")
	require.True(t, ok)

	t.Run("unparseable shapes document", func(t *testing.T) {
		httpmock.RegisterResponder("GET", description.URL,
			httpmock.NewStringResponder(http.StatusOK, "not rdf at all {{{"))
		body, contentType := multipartBody(t,
			bodyPart{name: "text", body: readFixture(t, "catalog_1.ttl")},
			bodyPart{name: "version", body: []byte("3")},
		)
		recorder := postValidator(router, body, contentType, "")
		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "invalid shapes graph")
	})

	t.Run("shapes fetch failure", func(t *testing.T) {
		httpmock.RegisterResponder("GET", description.URL,
			httpmock.NewErrorResponder(errors.New("connection refused")))
		body, contentType := multipartBody(t,
			bodyPart{name: "text", body: readFixture(t, "catalog_1.ttl")},
			bodyPart{name: "version", body: []byte("3")},
		)
		recorder := postValidator(router, body, contentType, "")
		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "invalid shapes graph")
	})
}

func TestValidatePartTooLarge(t *testing.T) {
	_, router := newTestService(t)
	previous := base.MaxUploadBytes
	base.MaxUploadBytes = 256
	t.Cleanup(func() { base.MaxUploadBytes = previous })

	body, contentType := multipartBody(t, bodyPart{name: "text", body: bytes.Repeat([]byte("a"), 1024)})
	recorder := postValidator(router, body, contentType, "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestValidateEmptyVersionPartUsesDefault(t *testing.T) {
	_, router := newTestService(t)
	body, contentType := multipartBody(t,
		bodyPart{name: "text", body: readFixture(t, "catalog_1.ttl")},
		bodyPart{name: "version", body: []byte("")},
	)
	recorder := postValidator(router, body, contentType, "")
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.True(t, reportConforms(t, parseReport(t, recorder, rdf.Turtle)))
}
