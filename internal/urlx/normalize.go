// Package urlx canonicalizes raw URL submissions before they are probed,
// hashed and stored.
package urlx

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrMalformedURL is returned when a submission cannot be parsed into a
// usable absolute URL.
var ErrMalformedURL = errors.New("malformed url")

// Components holds the decomposed parts of a normalized URL, kept for the
// creation response.
type Components struct {
	Scheme string `json:"scheme"`
	NetLoc string `json:"netloc"`
	Path   string `json:"path,omitempty"`
	Query  string `json:"query,omitempty"`
}

// Normalize parses a raw URL string and reassembles it into the canonical
// form scheme + netloc + path + query. The scheme collapses to exactly
// "https://" or "http://": anything whose scheme does not start with "https"
// lands in the http bucket. The fragment is dropped, the path stays empty
// (not "/") when absent, and a query keeps its leading "?".
func Normalize(raw string) (string, *Components, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}

	if parsed.Scheme == "" {
		return "", nil, fmt.Errorf("%w: missing scheme", ErrMalformedURL)
	}
	if parsed.Host == "" {
		return "", nil, fmt.Errorf("%w: missing network location", ErrMalformedURL)
	}

	scheme := "http://"
	if strings.HasPrefix(strings.ToLower(parsed.Scheme), "https") {
		scheme = "https://"
	}

	comps := &Components{
		Scheme: scheme,
		NetLoc: parsed.Host,
		Path:   parsed.EscapedPath(),
		Query:  parsed.RawQuery,
	}

	normalized := scheme + comps.NetLoc + comps.Path
	if comps.Query != "" {
		normalized += "?" + comps.Query
	}

	return normalized, comps, nil
}
