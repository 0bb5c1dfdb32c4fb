package shapes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/EmidioStani/dcat-ap-no-validator-service/rdf"
	"github.com/EmidioStani/dcat-ap-no-validator-service/shacl"
	"github.com/deiu/rdf2go"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shapesDoc = `@prefix sh:   <http://www.w3.org/ns/shacl#> .
@prefix dcat: <http://www.w3.org/ns/dcat#> .
@prefix dct:  <http://purl.org/dc/terms/> .
@prefix ex:   <https://example.com/shapes#> .

ex:DatasetShape a sh:NodeShape ;
    sh:targetClass dcat:Dataset ;
    sh:property [
        sh:path dct:title ;
        sh:minCount 1 ;
    ] .
`

const extendedShapesDoc = shapesDoc + `
ex:CatalogShape a sh:NodeShape ;
    sh:targetClass dcat:Catalog ;
    sh:property [
        sh:path dct:title ;
        sh:minCount 1 ;
    ] .
`

func newTestLoader(t *testing.T) (*Loader, *Registry) {
	t.Helper()
	fetcher := rdf.NewFetcher(5 * time.Second)
	httpmock.ActivateNonDefault(fetcher.Client)
	t.Cleanup(httpmock.DeactivateAndReset)
	registry := DefaultRegistry()
	for _, description := range registry.List() {
		httpmock.RegisterResponder(http.MethodGet, description.URL,
			httpmock.NewStringResponder(http.StatusOK, shapesDoc))
	}
	return NewLoader(registry, fetcher), registry
}

func TestLoadCachesShapesGraphs(t *testing.T) {
	loader, registry := newTestLoader(t)
	assert.Same(t, registry, loader.Registry())
	description, ok := registry.Get("1")
	require.True(t, ok)

	first, err := loader.Load(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 5, first.Len())

	second, err := loader.Load(context.Background(), "1")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, httpmock.GetCallCountInfo()["GET "+description.URL])
}

func TestLoadUnknownVersion(t *testing.T) {
	loader, _ := newTestLoader(t)

	_, err := loader.Load(context.Background(), "99")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownVersion))
	assert.Contains(t, err.Error(), `"99"`)
}

func TestLoadFailuresAreNotCached(t *testing.T) {
	loader, registry := newTestLoader(t)
	description, ok := registry.Get("2")
	require.True(t, ok)

	httpmock.RegisterResponder(http.MethodGet, description.URL,
		httpmock.NewErrorResponder(fmt.Errorf("connection refused")))
	_, err := loader.Load(context.Background(), "2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, shacl.ErrInvalidShapes))

	httpmock.RegisterResponder(http.MethodGet, description.URL,
		httpmock.NewStringResponder(http.StatusOK, "this is not a shapes document"))
	_, err = loader.Load(context.Background(), "2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, shacl.ErrInvalidShapes))

	// the failed attempts left nothing behind, a working document loads fine
	httpmock.RegisterResponder(http.MethodGet, description.URL,
		httpmock.NewStringResponder(http.StatusOK, shapesDoc))
	graph, err := loader.Load(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, 5, graph.Len())
}

func TestLoadCoalescesConcurrentFetches(t *testing.T) {
	loader, registry := newTestLoader(t)
	description, ok := registry.Get("1")
	require.True(t, ok)

	var calls int32
	httpmock.RegisterResponder(http.MethodGet, description.URL,
		func(request *http.Request) (*http.Response, error) {
			atomic.AddInt32(&calls, 1)
			time.Sleep(50 * time.Millisecond)
			return httpmock.NewStringResponse(http.StatusOK, shapesDoc), nil
		})

	graphs := make([]*rdf2go.Graph, 8)
	var wg sync.WaitGroup
	for i := range graphs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			graph, err := loader.Load(context.Background(), "1")
			assert.NoError(t, err)
			graphs[i] = graph
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for i := 1; i < len(graphs); i++ {
		assert.Same(t, graphs[0], graphs[i])
	}
}

func TestRefresh(t *testing.T) {
	loader, registry := newTestLoader(t)
	description, ok := registry.Get("1")
	require.True(t, ok)

	before, err := loader.Load(context.Background(), "1")
	require.NoError(t, err)

	// identical content leaves the cached graph alone
	loader.Refresh(context.Background())
	after, err := loader.Load(context.Background(), "1")
	require.NoError(t, err)
	assert.Same(t, before, after)

	// changed content swaps in a freshly parsed graph
	httpmock.RegisterResponder(http.MethodGet, description.URL,
		httpmock.NewStringResponder(http.StatusOK, extendedShapesDoc))
	loader.Refresh(context.Background())
	swapped, err := loader.Load(context.Background(), "1")
	require.NoError(t, err)
	assert.NotSame(t, before, swapped)
	assert.Greater(t, swapped.Len(), before.Len())

	// a failing refetch keeps the last good graph in place
	httpmock.RegisterResponder(http.MethodGet, description.URL,
		httpmock.NewStringResponder(http.StatusInternalServerError, "boom"))
	loader.Refresh(context.Background())
	kept, err := loader.Load(context.Background(), "1")
	require.NoError(t, err)
	assert.Same(t, swapped, kept)

	// so does a document that no longer parses
	httpmock.RegisterResponder(http.MethodGet, description.URL,
		httpmock.NewStringResponder(http.StatusOK, "not rdf at all"))
	loader.Refresh(context.Background())
	kept, err = loader.Load(context.Background(), "1")
	require.NoError(t, err)
	assert.Same(t, swapped, kept)
}
