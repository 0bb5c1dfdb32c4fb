package shacl

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/deiu/rdf2go"
)

// ErrInvalidShapes marks a shapes graph the validation engine cannot work with.
var ErrInvalidShapes = errors.New("invalid shapes graph")

// ShapesGraph is a parsed shapes document ready for validation.
type ShapesGraph struct {
	Graph  *rdf2go.Graph
	Shapes []*NodeShape

	byId map[string]*NodeShape
}

// ParseShapesGraph parses every node shape in the graph. A subject counts as
// a node shape when it is typed sh:NodeShape or carries a sh:targetClass.
func ParseShapesGraph(graph *rdf2go.Graph) (*ShapesGraph, error) {
	doc := &ShapesGraph{Graph: graph, byId: make(map[string]*NodeShape)}
	for _, triple := range graph.All(nil, RDF_TYPE, SHACL_NODE_SHAPE) {
		if _, err := doc.register(triple.Subject); err != nil {
			return nil, err
		}
	}
	for _, triple := range graph.All(nil, SHACL_TARGET_CLASS, nil) {
		if _, err := doc.register(triple.Subject); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (doc *ShapesGraph) register(id rdf2go.Term) (*NodeShape, error) {
	if existing, ok := doc.byId[id.String()]; ok {
		return existing, nil
	}
	shape, err := new(NodeShape).Parse(id, doc.Graph)
	if err != nil {
		return nil, err
	}
	doc.byId[id.String()] = shape
	doc.Shapes = append(doc.Shapes, shape)
	return shape, nil
}

// shape resolves a shape reference, parsing it on first use. Shapes referenced
// through sh:node are often untyped, so they are not registered as top-level
// shapes and never contribute their own targets.
func (doc *ShapesGraph) shape(id rdf2go.Term) (*NodeShape, error) {
	if existing, ok := doc.byId[id.String()]; ok {
		return existing, nil
	}
	shape, err := new(NodeShape).Parse(id, doc.Graph)
	if err != nil {
		return nil, err
	}
	doc.byId[id.String()] = shape
	return shape, nil
}

// NodeShape is one parsed shape with its targets and property constraints.
type NodeShape struct {
	Id               rdf2go.Term
	Deactivated      bool
	TargetClasses    []rdf2go.Term
	TargetNodes      []rdf2go.Term
	TargetSubjectsOf []rdf2go.Term
	TargetObjectsOf  []rdf2go.Term
	Properties       []*Property
}

func (node *NodeShape) Parse(id rdf2go.Term, graph *rdf2go.Graph) (*NodeShape, error) {
	node.Id = id
	for triple := range graph.IterTriples() {
		if !triple.Subject.Equal(id) {
			continue
		}
		switch {
		case triple.Predicate.Equal(SHACL_TARGET_CLASS):
			node.TargetClasses = append(node.TargetClasses, triple.Object)
		case triple.Predicate.Equal(SHACL_TARGET_NODE):
			node.TargetNodes = append(node.TargetNodes, triple.Object)
		case triple.Predicate.Equal(SHACL_TARGET_SUBJECTS_OF):
			node.TargetSubjectsOf = append(node.TargetSubjectsOf, triple.Object)
		case triple.Predicate.Equal(SHACL_TARGET_OBJECTS_OF):
			node.TargetObjectsOf = append(node.TargetObjectsOf, triple.Object)
		case triple.Predicate.Equal(SHACL_DEACTIVATED):
			value, err := strconv.ParseBool(triple.Object.RawValue())
			if err != nil {
				return nil, fmt.Errorf("%w: sh:deactivated on %s is not a boolean: %q", ErrInvalidShapes, id.String(), triple.Object.RawValue())
			}
			node.Deactivated = value
		case triple.Predicate.Equal(SHACL_PROPERTY):
			property, err := new(Property).Parse(triple.Object, graph)
			if err != nil {
				return nil, err
			}
			if property.Path == nil {
				return nil, fmt.Errorf("%w: property shape %s has no sh:path", ErrInvalidShapes, triple.Object.String())
			}
			node.Properties = append(node.Properties, property)
		}
	}
	return node, nil
}

// Property is a parsed property shape, the constraints on one path. Inside
// sh:or lists the same type appears without a path, the constraints then
// apply to the value node itself.
type Property struct {
	Id       rdf2go.Term
	Path     *Path
	Severity *rdf2go.Resource
	Messages []string

	MinCount      *int
	MaxCount      *int
	Class         *rdf2go.Resource
	Datatype      *rdf2go.Resource
	NodeKind      *rdf2go.Resource
	HasValue      rdf2go.Term
	In            []rdf2go.Term
	Pattern       *regexp.Regexp
	PatternSource string
	MinLength     *int
	MaxLength     *int
	Node          []rdf2go.Term
	Or            [][]*Property
}

func (prop *Property) Parse(id rdf2go.Term, graph *rdf2go.Graph) (*Property, error) {
	prop.Id = id
	if path := graph.One(id, SHACL_PATH, nil); path != nil {
		parsed, err := parsePath(path.Object, graph)
		if err != nil {
			return nil, err
		}
		prop.Path = parsed
	}
	if severity := graph.One(id, SHACL_SEVERITY, nil); severity != nil {
		if resource, ok := severity.Object.(*rdf2go.Resource); ok {
			prop.Severity = resource
		}
	}
	for _, message := range graph.All(id, SHACL_MESSAGE, nil) {
		prop.Messages = append(prop.Messages, message.Object.RawValue())
	}
	var err error
	if prop.MinCount, err = intConstraint(graph, id, SHACL_MIN_COUNT); err != nil {
		return nil, err
	}
	if prop.MaxCount, err = intConstraint(graph, id, SHACL_MAX_COUNT); err != nil {
		return nil, err
	}
	if prop.MinLength, err = intConstraint(graph, id, SHACL_MIN_LENGTH); err != nil {
		return nil, err
	}
	if prop.MaxLength, err = intConstraint(graph, id, SHACL_MAX_LENGTH); err != nil {
		return nil, err
	}
	if prop.Class, err = resourceConstraint(graph, id, SHACL_CLASS); err != nil {
		return nil, err
	}
	if prop.Datatype, err = resourceConstraint(graph, id, SHACL_DATATYPE); err != nil {
		return nil, err
	}
	if prop.NodeKind, err = resourceConstraint(graph, id, SHACL_NODE_KIND); err != nil {
		return nil, err
	}
	if hasValue := graph.One(id, SHACL_HAS_VALUE, nil); hasValue != nil {
		prop.HasValue = hasValue.Object
	}
	if in := graph.One(id, SHACL_IN, nil); in != nil {
		prop.In = parseList(in.Object, graph)
	}
	if err := prop.parsePattern(id, graph); err != nil {
		return nil, err
	}
	for _, node := range graph.All(id, SHACL_NODE, nil) {
		prop.Node = append(prop.Node, node.Object)
	}
	for _, or := range graph.All(id, SHACL_OR, nil) {
		var alternatives []*Property
		for _, alternative := range parseList(or.Object, graph) {
			parsed, err := new(Property).Parse(alternative, graph)
			if err != nil {
				return nil, err
			}
			alternatives = append(alternatives, parsed)
		}
		if len(alternatives) == 0 {
			return nil, fmt.Errorf("%w: empty sh:or list on %s", ErrInvalidShapes, id.String())
		}
		prop.Or = append(prop.Or, alternatives)
	}
	return prop, nil
}

func (prop *Property) parsePattern(id rdf2go.Term, graph *rdf2go.Graph) error {
	pattern := graph.One(id, SHACL_PATTERN, nil)
	if pattern == nil {
		return nil
	}
	source := pattern.Object.RawValue()
	expr := source
	if flags := graph.One(id, SHACL_FLAGS, nil); flags != nil {
		prefix, err := regexFlags(flags.Object.RawValue())
		if err != nil {
			return err
		}
		expr = prefix + expr
	}
	compiled, err := regexp.Compile(expr)
	if err != nil {
		return fmt.Errorf("%w: invalid sh:pattern %q: %v", ErrInvalidShapes, source, err)
	}
	prop.Pattern = compiled
	prop.PatternSource = source
	return nil
}

// regexFlags converts sh:flags into a regexp mode prefix. Only the flags with
// a direct RE2 counterpart are accepted.
func regexFlags(flags string) (string, error) {
	if flags == "" {
		return "", nil
	}
	for _, r := range flags {
		switch r {
		case 'i', 'm', 's':
		default:
			return "", fmt.Errorf("%w: unsupported sh:flags %q", ErrInvalidShapes, flags)
		}
	}
	return "(?" + flags + ")", nil
}

func intConstraint(graph *rdf2go.Graph, id rdf2go.Term, predicate rdf2go.Term) (*int, error) {
	triple := graph.One(id, predicate, nil)
	if triple == nil {
		return nil, nil
	}
	value, err := strconv.Atoi(triple.Object.RawValue())
	if err != nil {
		return nil, fmt.Errorf("%w: %s on %s is not an integer: %q", ErrInvalidShapes, compactIRI(predicate.RawValue()), id.String(), triple.Object.RawValue())
	}
	return &value, nil
}

func resourceConstraint(graph *rdf2go.Graph, id rdf2go.Term, predicate rdf2go.Term) (*rdf2go.Resource, error) {
	triple := graph.One(id, predicate, nil)
	if triple == nil {
		return nil, nil
	}
	resource, ok := triple.Object.(*rdf2go.Resource)
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s is not a named node: %s", ErrInvalidShapes, compactIRI(predicate.RawValue()), id.String(), triple.Object.String())
	}
	return resource, nil
}

// Path is a SHACL property path. Predicate paths and single inverse paths are
// supported, which covers the published DCAT-AP-NO shapes documents.
type Path struct {
	Predicate *rdf2go.Resource
	Inverse   bool
}

func parsePath(term rdf2go.Term, graph *rdf2go.Graph) (*Path, error) {
	if resource, ok := term.(*rdf2go.Resource); ok {
		return &Path{Predicate: resource}, nil
	}
	if inverse := graph.One(term, SHACL_INVERSE_PATH, nil); inverse != nil {
		if resource, ok := inverse.Object.(*rdf2go.Resource); ok {
			return &Path{Predicate: resource, Inverse: true}, nil
		}
	}
	return nil, fmt.Errorf("%w: unsupported property path %s", ErrInvalidShapes, term.String())
}

// Display returns the compact form used in result messages, like dct:title.
func (path *Path) Display() string {
	if path.Inverse {
		return "^" + compactIRI(path.Predicate.URI)
	}
	return compactIRI(path.Predicate.URI)
}

func parseList(head rdf2go.Term, graph *rdf2go.Graph) []rdf2go.Term {
	result := make([]rdf2go.Term, 0)
	first := graph.One(head, RDF_LIST_FIRST, nil)
	rest := graph.One(head, RDF_LIST_REST, nil)
	for first != nil && rest != nil {
		result = append(result, first.Object)
		first = graph.One(rest.Object, RDF_LIST_FIRST, nil)
		rest = graph.One(rest.Object, RDF_LIST_REST, nil)
	}
	return result
}

var displayPrefixes = map[string]string{
	"http://purl.org/dc/elements/1.1/":             "dc",
	"http://purl.org/dc/terms/":                    "dct",
	"http://www.w3.org/ns/dcat#":                   "dcat",
	"http://data.europa.eu/r5r/":                   "dcatap",
	"http://xmlns.com/foaf/0.1/":                   "foaf",
	"http://www.w3.org/2004/02/skos/core#":         "skos",
	"http://www.w3.org/ns/shacl#":                  "sh",
	"http://www.w3.org/1999/02/22-rdf-syntax-ns#":  "rdf",
	"http://www.w3.org/2000/01/rdf-schema#":        "rdfs",
	"http://www.w3.org/2001/XMLSchema#":            "xsd",
	"http://www.w3.org/2002/07/owl#":               "owl",
	"http://www.w3.org/2006/vcard/ns#":             "vcard",
	"http://www.w3.org/ns/adms#":                   "adms",
	"http://www.w3.org/ns/locn#":                   "locn",
	"http://www.w3.org/ns/prov#":                   "prov",
}

// compactIRI shortens an IRI to a prefixed name for well-known vocabularies,
// matching how shapes documents spell them. Unknown IRIs keep their long form.
func compactIRI(uri string) string {
	for namespace, prefix := range displayPrefixes {
		if strings.HasPrefix(uri, namespace) {
			return prefix + ":" + uri[len(namespace):]
		}
	}
	return "<" + uri + ">"
}
