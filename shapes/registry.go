package shapes

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ShapesGraphDescription describes one registered shapes graph: where its
// document lives and which specification it belongs to.
type ShapesGraphDescription struct {
	ID                   string `json:"id" yaml:"id"`
	Name                 string `json:"name" yaml:"name"`
	Description          string `json:"description" yaml:"description"`
	Version              string `json:"version" yaml:"version"`
	URL                  string `json:"url" yaml:"url"`
	SpecificationName    string `json:"specification_name" yaml:"specification_name"`
	SpecificationVersion string `json:"specification_version" yaml:"specification_version"`
	SpecificationURL     string `json:"specification_url" yaml:"specification_url"`
}

// Registry is the insertion-ordered catalog of shapes graphs. It is built at
// startup and read-only afterwards.
type Registry struct {
	order []string
	byID  map[string]ShapesGraphDescription
}

func NewRegistry(descriptions ...ShapesGraphDescription) *Registry {
	registry := &Registry{byID: make(map[string]ShapesGraphDescription)}
	registry.Extend(descriptions...)
	return registry
}

// DefaultRegistry returns the built-in catalog of DCAT-AP-NO and
// SKOS-AP-NO-Begrep shapes graphs.
func DefaultRegistry() *Registry {
	return NewRegistry(
		ShapesGraphDescription{
			ID:                   "1",
			Name:                 "The constraints of DCAT-AP-NO",
			Description:          "This document specifies the constraints on properties and classes expressed by DCAT-AP-NO in SHACL.",
			Version:              "0.1",
			URL:                  "https://raw.githubusercontent.com/Informasjonsforvaltning/dcat-ap-no/v1.1/shacl/dcat-ap_shacl_shapes_1.1.ttl",
			SpecificationName:    "DCAT-AP-NO",
			SpecificationVersion: "1.1",
			SpecificationURL:     "https://data.norge.no/specification/dcat-ap-no/v1.1",
		},
		ShapesGraphDescription{
			ID:                   "2",
			Name:                 "The constraints of DCAT-AP-NO",
			Description:          "This document specifies the constraints on properties and classes expressed by DCAT-AP-NO in SHACL.",
			Version:              "0.1",
			URL:                  "https://raw.githubusercontent.com/Informasjonsforvaltning/dcat-ap-no/v2/shacl/DCAT-AP-NO-shacl_shapes_2.00.ttl",
			SpecificationName:    "DCAT-AP-NO",
			SpecificationVersion: "2.0",
			SpecificationURL:     "https://data.norge.no/specification/dcat-ap-no/",
		},
		ShapesGraphDescription{
			ID:                   "3",
			Name:                 "The constraints of SKOS-AP-NO-Begrep",
			Description:          "This document specifies the constraints on properties and classes expressed by SKOS-AP-NO-Begrep in SHACL.",
			Version:              "0.1",
			URL:                  "https://raw.githubusercontent.com/Informasjonsforvaltning/skos-ap-no-begrep/develop/shacl/SKOS-AP-NO-Begrep-shape_shape_v1.ttl",
			SpecificationName:    "SKOS-AP-NO-Begrep",
			SpecificationVersion: "1.0",
			SpecificationURL:     "https://data.norge.no/specification/skos-ap-no-begrep/",
		},
	)
}

// Extend adds descriptions to the registry. A description whose id is already
// registered replaces the old one in place, keeping the original position.
func (registry *Registry) Extend(descriptions ...ShapesGraphDescription) {
	for _, description := range descriptions {
		if _, ok := registry.byID[description.ID]; !ok {
			registry.order = append(registry.order, description.ID)
		}
		registry.byID[description.ID] = description
	}
}

// List returns all descriptions in insertion order.
func (registry *Registry) List() []ShapesGraphDescription {
	result := make([]ShapesGraphDescription, 0, len(registry.order))
	for _, id := range registry.order {
		result = append(result, registry.byID[id])
	}
	return result
}

// Get looks up a description by id.
func (registry *Registry) Get(id string) (ShapesGraphDescription, bool) {
	description, ok := registry.byID[id]
	return description, ok
}

type shapesCatalog struct {
	Shapes []ShapesGraphDescription `yaml:"shapes"`
}

// LoadCatalog reads additional shapes graph descriptions from a YAML file, so
// deployments can register shapes beyond the built-in catalog.
func LoadCatalog(filename string) ([]ShapesGraphDescription, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading shapes catalog: %w", err)
	}
	var catalog shapesCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parsing shapes catalog %s: %w", filename, err)
	}
	for _, description := range catalog.Shapes {
		if description.ID == "" || description.URL == "" {
			return nil, fmt.Errorf("parsing shapes catalog %s: every entry needs an id and a url", filename)
		}
	}
	return catalog.Shapes, nil
}
