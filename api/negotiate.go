package api

import (
	"strings"

	"github.com/EmidioStani/dcat-ap-no-validator-service/rdf"
)

// negotiateFormat picks the response serialization from the Accept header.
// Media ranges are scanned in order and the first supported one wins, quality
// parameters are ignored. Anything unsupported falls back to turtle.
func negotiateFormat(accept string) rdf.Format {
	for _, item := range strings.Split(accept, ",") {
		mediaRange := strings.TrimSpace(strings.SplitN(item, ";", 2)[0])
		switch strings.ToLower(mediaRange) {
		case "text/turtle":
			return rdf.Turtle
		case "application/ld+json":
			return rdf.JSONLD
		case "application/n-triples":
			return rdf.NTriples
		}
	}
	return rdf.Turtle
}
