package rdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/deiu/rdf2go"
	"github.com/knakk/rdf"
)

const xsdString = "http://www.w3.org/2001/XMLSchema#string"

// parseNTriples decodes an N-Triples document into a graph. rdf2go has no
// N-Triples reader, so the triples are decoded with knakk/rdf and converted.
func parseNTriples(data []byte) (*rdf2go.Graph, error) {
	graph := rdf2go.NewGraph("")
	decoder := rdf.NewTripleDecoder(bytes.NewReader(data), rdf.NTriples)
	for {
		triple, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: parsing n-triples: %v", ErrInvalidRDF, err)
		}
		graph.AddTriple(fromKnakkTerm(triple.Subj), fromKnakkTerm(triple.Pred), fromKnakkTerm(triple.Obj))
	}
	return graph, nil
}

// encodeNTriples writes a graph out as N-Triples via the knakk/rdf encoder.
func encodeNTriples(graph *rdf2go.Graph) ([]byte, error) {
	var buf bytes.Buffer
	encoder := rdf.NewTripleEncoder(&buf, rdf.NTriples)
	for triple := range graph.IterTriples() {
		subject, err := toKnakkSubject(triple.Subject)
		if err != nil {
			return nil, err
		}
		predicate, err := rdf.NewIRI(triple.Predicate.RawValue())
		if err != nil {
			return nil, fmt.Errorf("encoding predicate %s: %w", triple.Predicate.String(), err)
		}
		object, err := toKnakkObject(triple.Object)
		if err != nil {
			return nil, err
		}
		if err := encoder.Encode(rdf.Triple{Subj: subject, Pred: predicate, Obj: object}); err != nil {
			return nil, err
		}
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fromKnakkTerm(term rdf.Term) rdf2go.Term {
	switch t := term.(type) {
	case rdf.IRI:
		return rdf2go.NewResource(t.String())
	case rdf.Blank:
		return rdf2go.NewBlankNode(strings.TrimPrefix(t.String(), "_:"))
	case rdf.Literal:
		if t.Lang() != "" {
			return rdf2go.NewLiteralWithLanguage(t.String(), t.Lang())
		}
		if datatype := t.DataType.String(); datatype != "" && datatype != xsdString {
			return rdf2go.NewLiteralWithDatatype(t.String(), rdf2go.NewResource(datatype))
		}
		return rdf2go.NewLiteral(t.String())
	}
	return nil
}

func toKnakkSubject(term rdf2go.Term) (rdf.Subject, error) {
	switch t := term.(type) {
	case *rdf2go.Resource:
		return rdf.NewIRI(t.URI)
	case *rdf2go.BlankNode:
		return rdf.NewBlank(t.ID)
	}
	return nil, fmt.Errorf("unsupported subject term %s", term.String())
}

func toKnakkObject(term rdf2go.Term) (rdf.Object, error) {
	switch t := term.(type) {
	case *rdf2go.Resource:
		return rdf.NewIRI(t.URI)
	case *rdf2go.BlankNode:
		return rdf.NewBlank(t.ID)
	case *rdf2go.Literal:
		if t.Language != "" {
			return rdf.NewLangLiteral(t.Value, t.Language)
		}
		if t.Datatype != nil && t.Datatype.RawValue() != xsdString {
			datatype, err := rdf.NewIRI(t.Datatype.RawValue())
			if err != nil {
				return nil, fmt.Errorf("encoding datatype %s: %w", t.Datatype.String(), err)
			}
			return rdf.NewTypedLiteral(t.Value, datatype), nil
		}
		return rdf.NewLiteral(t.Value)
	}
	return nil, fmt.Errorf("unsupported object term %s", term.String())
}
