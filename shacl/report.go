package shacl

import (
	"strconv"
	"strings"

	"github.com/deiu/rdf2go"
	"github.com/google/uuid"
)

// ValidationReport is the outcome of validating a data graph. The graph holds
// the full report in the SHACL results vocabulary.
type ValidationReport struct {
	Conforms bool
	Graph    *rdf2go.Graph
}

// newBlankNode mints a report-local blank node. Labels derive from uuids so
// they cannot collide with labels copied out of the shapes graph.
func newBlankNode() rdf2go.Term {
	return rdf2go.NewBlankNode("r" + strings.ReplaceAll(uuid.NewString(), "-", ""))
}

func buildReport(results []*result, shapes *rdf2go.Graph) *ValidationReport {
	graph := rdf2go.NewGraph("")
	reportNode := newBlankNode()
	graph.AddTriple(reportNode, RDF_TYPE, SHACL_VALIDATION_REPORT)
	graph.AddTriple(reportNode, SHACL_CONFORMS, booleanLiteral(len(results) == 0))
	copied := make(map[string]bool)
	for _, entry := range results {
		node := newBlankNode()
		graph.AddTriple(reportNode, SHACL_RESULT, node)
		graph.AddTriple(node, RDF_TYPE, SHACL_VALIDATION_RESULT)
		graph.AddTriple(node, SHACL_FOCUS_NODE, entry.focus)
		if entry.path != nil {
			graph.AddTriple(node, SHACL_RESULT_PATH, pathTerm(entry.path, graph))
		}
		graph.AddTriple(node, SHACL_RESULT_SEVERITY, entry.severity)
		graph.AddTriple(node, SHACL_RESULT_MESSAGE, rdf2go.NewLiteral(entry.message))
		graph.AddTriple(node, SHACL_SOURCE_CONSTRAINT_COMPONENT, entry.component)
		if entry.source != nil {
			graph.AddTriple(node, SHACL_SOURCE_SHAPE, entry.source)
			copyShapeSubgraph(graph, shapes, entry.source, copied)
		}
		if entry.value != nil {
			graph.AddTriple(node, SHACL_VALUE, entry.value)
		}
	}
	return &ValidationReport{Conforms: len(results) == 0, Graph: graph}
}

func booleanLiteral(value bool) rdf2go.Term {
	return rdf2go.NewLiteralWithDatatype(strconv.FormatBool(value), rdf2go.NewResource(xsdBooleanURI))
}

func pathTerm(path *Path, graph *rdf2go.Graph) rdf2go.Term {
	if !path.Inverse {
		return path.Predicate
	}
	node := newBlankNode()
	graph.AddTriple(node, SHACL_INVERSE_PATH, path.Predicate)
	return node
}

// copyShapeSubgraph copies the source shape's description into the report so
// a result can be read without the shapes graph at hand. Blank objects are
// followed, which carries along nested lists and alternatives.
func copyShapeSubgraph(dst *rdf2go.Graph, src *rdf2go.Graph, node rdf2go.Term, visited map[string]bool) {
	if visited[node.String()] {
		return
	}
	visited[node.String()] = true
	for _, triple := range src.All(node, nil, nil) {
		dst.AddTriple(triple.Subject, triple.Predicate, triple.Object)
		if _, ok := triple.Object.(*rdf2go.BlankNode); ok {
			copyShapeSubgraph(dst, src, triple.Object, visited)
		}
	}
}
