package rdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnreachable marks a remote document that could not be dereferenced.
var ErrUnreachable = errors.New("unreachable source")

const fetchAccept = "text/turtle, application/ld+json;q=0.9, application/n-triples;q=0.8, */*;q=0.1"

// Fetcher dereferences remote RDF documents over HTTP.
type Fetcher struct {
	Client *http.Client
}

// NewFetcher builds a fetcher whose requests are cut off after the given timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{Client: &http.Client{Timeout: timeout}}
}

// Fetch dereferences a URL and returns the raw document together with the
// content type the server declared for it.
func (fetcher *Fetcher) Fetch(ctx context.Context, location string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	req.Header.Set("Accept", fetchAccept)
	resp, err := fetcher.Client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: fetching %s: %v", ErrUnreachable, location, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: reading %s: %v", ErrUnreachable, location, err)
	}
	if !statusIsOK(resp.StatusCode) {
		return nil, "", fmt.Errorf("%w: %v", ErrUnreachable, newHTTPError("fetching "+location, resp.StatusCode, data))
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// IsValidIRI validates that a value is a URL-like IRI.
// It returns true when parsing succeeds and a scheme is present.
func IsValidIRI(value string) bool {
	u, err := url.Parse(value)
	return err == nil && u.Scheme != ""
}

// newHTTPError formats an HTTP error message using context, status, and body.
// It returns an error with a formatted message.
func newHTTPError(context string, status int, body []byte) error {
	message := strings.TrimSpace(string(body))
	if message == "" {
		return fmt.Errorf("%s - status: %d", context, status)
	}
	return fmt.Errorf("%s - status: %d, response: %q", context, status, message)
}

// statusIsOK checks whether a status code is a success response.
// It returns true when the status is in the 2xx range.
func statusIsOK(status int) bool {
	return status >= 200 && status <= 299
}
