package api

import (
	"compress/gzip"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/EmidioStani/dcat-ap-no-validator-service/base"
	"github.com/EmidioStani/dcat-ap-no-validator-service/rdf"
)

type sourceKind int

const (
	sourceNone sourceKind = iota
	sourceFile
	sourceText
	sourceURL
)

// graphSource is the resolved input of a validation request: exactly one
// delivery mechanism, tagged by kind, plus the requested shapes version.
type graphSource struct {
	kind    sourceKind
	data    []byte
	format  rdf.Format
	url     string
	version string
}

// resolveGraphSource reads the multipart body of a validation request.
// Clients send multipart/form-data or multipart/mixed with parts named file,
// text or url, and optionally version.
func resolveGraphSource(request *http.Request) (*graphSource, error) {
	mediaType, params, err := mime.ParseMediaType(request.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return nil, fmt.Errorf("%w: expected a multipart body, got content type %q", errBadRequest, request.Header.Get("Content-Type"))
	}
	boundary, ok := params["boundary"]
	if !ok {
		return nil, fmt.Errorf("%w: multipart body without boundary", errBadRequest)
	}
	source := &graphSource{version: base.DefaultShapesVersion}
	sources := 0
	reader := multipart.NewReader(request.Body, boundary)
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: malformed multipart body: %v", errBadRequest, err)
		}
		name, filename := partDisposition(part)
		switch name {
		case "file":
			data, err := readPart(part)
			if err != nil {
				return nil, err
			}
			sources++
			source.kind = sourceFile
			source.data = data
			source.format = rdf.DetectFormat(part.Header.Get("Content-Type"), filename)
		case "text":
			data, err := readPart(part)
			if err != nil {
				return nil, err
			}
			sources++
			source.kind = sourceText
			source.data = data
			source.format = rdf.DetectFormat(part.Header.Get("Content-Type"), "")
		case "url":
			data, err := readPart(part)
			if err != nil {
				return nil, err
			}
			location := strings.TrimSpace(string(data))
			if !rdf.IsValidIRI(location) {
				return nil, fmt.Errorf("%w: part url does not hold a dereferenceable URL: %q", errBadRequest, location)
			}
			sources++
			source.kind = sourceURL
			source.url = location
		case "version":
			data, err := readPart(part)
			if err != nil {
				return nil, err
			}
			if version := strings.TrimSpace(string(data)); version != "" {
				source.version = version
			}
		}
	}
	if sources == 0 {
		return nil, fmt.Errorf("%w: one of the parts file, text or url is required", errBadRequest)
	}
	if sources > 1 {
		return nil, fmt.Errorf("%w: the parts file, text and url are mutually exclusive", errBadRequest)
	}
	return source, nil
}

// partDisposition extracts name and filename from a part's disposition
// header. Part.FormName only covers form-data dispositions, but clients of
// this endpoint also send multipart/mixed bodies with inline and attachment
// parts.
func partDisposition(part *multipart.Part) (name string, filename string) {
	if disposition := part.Header.Get("Content-Disposition"); disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			return params["name"], params["filename"]
		}
	}
	return "", ""
}

// readPart reads a part body, transparently decoding its content encoding.
func readPart(part *multipart.Part) ([]byte, error) {
	var reader io.Reader = part
	switch encoding := strings.ToLower(part.Header.Get("Content-Encoding")); encoding {
	case "", "identity":
	case "gzip":
		decoded, err := gzip.NewReader(part)
		if err != nil {
			return nil, fmt.Errorf("%w: reading gzip part: %v", errBadRequest, err)
		}
		defer decoded.Close()
		reader = decoded
	default:
		return nil, fmt.Errorf("%w: unsupported content encoding %q", errBadRequest, encoding)
	}
	// cap the decoded size as well, compressed parts expand
	data, err := io.ReadAll(io.LimitReader(reader, base.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading part: %v", errBadRequest, err)
	}
	if int64(len(data)) > base.MaxUploadBytes {
		return nil, fmt.Errorf("%w: part exceeds the size limit of %d bytes", errBadRequest, base.MaxUploadBytes)
	}
	return data, nil
}
