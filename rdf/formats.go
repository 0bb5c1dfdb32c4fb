package rdf

import (
	"mime"
	"path"
	"strings"
)

// Format identifies an RDF serialization handled by this service.
type Format int

const (
	Turtle Format = iota
	JSONLD
	NTriples
)

// String returns the short name of the serialization.
func (f Format) String() string {
	switch f {
	case JSONLD:
		return "json-ld"
	case NTriples:
		return "n-triples"
	}
	return "turtle"
}

// ContentType returns the canonical media type used when serializing.
func (f Format) ContentType() string {
	switch f {
	case JSONLD:
		return "application/ld+json"
	case NTriples:
		return "application/n-triples"
	}
	return "text/turtle"
}

var contentTypeFormats = map[string]Format{
	"text/turtle":           Turtle,
	"application/turtle":    Turtle,
	"application/x-turtle":  Turtle,
	"application/ld+json":   JSONLD,
	"application/json":      JSONLD,
	"application/n-triples": NTriples,
}

var extensionFormats = map[string]Format{
	".ttl":    Turtle,
	".turtle": Turtle,
	".n3":     Turtle,
	".jsonld": JSONLD,
	".json":   JSONLD,
	".nt":     NTriples,
}

// FormatFromContentType resolves a declared media type to a serialization.
// Parameters after the media type, like charset, are ignored.
func FormatFromContentType(contentType string) (Format, bool) {
	if contentType == "" {
		return Turtle, false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return Turtle, false
	}
	format, ok := contentTypeFormats[strings.ToLower(mediaType)]
	return format, ok
}

// FormatFromFilename resolves a filename extension to a serialization.
func FormatFromFilename(name string) (Format, bool) {
	format, ok := extensionFormats[strings.ToLower(path.Ext(name))]
	return format, ok
}

// DetectFormat resolves the serialization of a document from its declared
// content type, then its filename extension. Turtle is the fallback, so
// unhelpful content types like text/plain or application/octet-stream never
// shadow a telling file extension.
func DetectFormat(contentType string, filename string) Format {
	if format, ok := FormatFromContentType(contentType); ok {
		return format
	}
	if format, ok := FormatFromFilename(filename); ok {
		return format
	}
	return Turtle
}
