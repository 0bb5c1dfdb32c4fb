package shapes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/EmidioStani/dcat-ap-no-validator-service/base"
	"github.com/EmidioStani/dcat-ap-no-validator-service/rdf"
	"github.com/EmidioStani/dcat-ap-no-validator-service/shacl"
	"github.com/deiu/rdf2go"
	"golang.org/x/sync/singleflight"
)

// ErrUnknownVersion marks a request for a shapes version the registry does not know.
var ErrUnknownVersion = errors.New("unknown shapes version")

type cacheEntry struct {
	graph *rdf2go.Graph
	hash  uint32
}

// Loader resolves a shapes version to a parsed shapes graph. Graphs are
// fetched on first use and cached for the process lifetime. Concurrent first
// fetches of the same version are coalesced into a single request.
type Loader struct {
	registry *Registry
	fetcher  *rdf.Fetcher

	mu    sync.RWMutex
	cache map[string]*cacheEntry
	group singleflight.Group

	refreshing sync.Mutex
}

func NewLoader(registry *Registry, fetcher *rdf.Fetcher) *Loader {
	return &Loader{registry: registry, fetcher: fetcher, cache: make(map[string]*cacheEntry)}
}

// Registry returns the catalog backing this loader.
func (loader *Loader) Registry() *Registry {
	return loader.registry
}

// Load returns the parsed shapes graph for a version. Failures on the shapes
// document itself are a deployment problem, never attributed to the caller.
func (loader *Loader) Load(ctx context.Context, version string) (*rdf2go.Graph, error) {
	description, ok := loader.registry.Get(version)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVersion, version)
	}
	loader.mu.RLock()
	entry, ok := loader.cache[description.ID]
	loader.mu.RUnlock()
	if ok {
		return entry.graph, nil
	}
	value, err, _ := loader.group.Do(description.ID, func() (interface{}, error) {
		return loader.fetch(ctx, description)
	})
	if err != nil {
		return nil, err
	}
	return value.(*rdf2go.Graph), nil
}

func (loader *Loader) fetch(ctx context.Context, description ShapesGraphDescription) (*rdf2go.Graph, error) {
	// a previous flight may have filled the cache while this call waited
	loader.mu.RLock()
	entry, ok := loader.cache[description.ID]
	loader.mu.RUnlock()
	if ok {
		return entry.graph, nil
	}
	data, contentType, err := loader.fetcher.Fetch(ctx, description.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: loading shapes graph %q: %v", shacl.ErrInvalidShapes, description.ID, err)
	}
	graph, err := rdf.Parse(data, rdf.DetectFormat(contentType, description.URL))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing shapes graph %q from %s: %v", shacl.ErrInvalidShapes, description.ID, description.URL, err)
	}
	loader.store(description.ID, graph, base.Hash(data))
	slog.Info("loaded shapes graph", "id", description.ID, "url", description.URL, "triples", graph.Len())
	return graph, nil
}

func (loader *Loader) store(id string, graph *rdf2go.Graph, hash uint32) {
	loader.mu.Lock()
	defer loader.mu.Unlock()
	loader.cache[id] = &cacheEntry{graph: graph, hash: hash}
}

// Refresh refetches every registered shapes document and swaps in the ones
// whose content changed. Requests keep reading the previous graph until the
// replacement is fully parsed.
func (loader *Loader) Refresh(ctx context.Context) {
	if !loader.refreshing.TryLock() {
		slog.Warn("Skipping shapes refresh: already running")
		return
	}
	defer loader.refreshing.Unlock()
	slog.Info("refreshing shapes graphs...")
	start := time.Now()
	var updated, unchanged, failed int
	for _, description := range loader.registry.List() {
		data, contentType, err := loader.fetcher.Fetch(ctx, description.URL)
		if err != nil {
			failed++
			slog.Error("failed fetching shapes graph", "id", description.ID, "url", description.URL, "error", err)
			continue
		}
		hash := base.Hash(data)
		loader.mu.RLock()
		entry, ok := loader.cache[description.ID]
		loader.mu.RUnlock()
		if ok && entry.hash == hash {
			unchanged++
			continue
		}
		graph, err := rdf.Parse(data, rdf.DetectFormat(contentType, description.URL))
		if err != nil {
			failed++
			slog.Error("failed parsing shapes graph", "id", description.ID, "url", description.URL, "error", err)
			continue
		}
		loader.store(description.ID, graph, hash)
		updated++
	}
	slog.Info("refreshing shapes graphs finished", "#updated", updated, "#unchanged", unchanged, "#failed", failed, "duration", time.Since(start))
}
