package rdf

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/EmidioStani/dcat-ap-no-validator-service/base"
	"github.com/deiu/rdf2go"
)

// ErrInvalidRDF marks a document that could not be parsed under its serialization.
var ErrInvalidRDF = errors.New("invalid rdf")

// Parse reads an RDF document into a graph. The document must match the
// given serialization.
func Parse(data []byte, format Format) (graph *rdf2go.Graph, err error) {
	if format == NTriples {
		return parseNTriples(data)
	}
	// the parsers behind rdf2go panic on some malformed documents instead of
	// returning an error, and a client upload must never take the process down
	defer func() {
		if r := recover(); r != nil {
			graph = nil
			err = fmt.Errorf("%w: parsing %s: %v", ErrInvalidRDF, format, r)
		}
	}()
	if format == Turtle {
		data = base.FixBooleansInRDF(data)
	}
	graph = rdf2go.NewGraph("")
	if err := graph.Parse(bytes.NewReader(data), format.ContentType()); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrInvalidRDF, format, err)
	}
	return graph, nil
}

// Serialize writes the graph out in the given serialization.
func Serialize(graph *rdf2go.Graph, format Format) ([]byte, error) {
	if format == NTriples {
		return encodeNTriples(graph)
	}
	var buf bytes.Buffer
	if err := graph.Serialize(&buf, format.ContentType()); err != nil {
		return nil, fmt.Errorf("serializing %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
