package extractor

import (
	"net/url"
	"sort"

	"github.com/BishopFox/jsluice"
	"github.com/rs/zerolog"
)

// Endpoint is a URL referenced by a script
type Endpoint struct {
	URL    string `json:"url"`
	Raw    string `json:"raw"`
	Method string `json:"method,omitempty"`
	Type   string `json:"type"`
}

// EndpointDelta lists the endpoints that appeared or disappeared between two versions
type EndpointDelta struct {
	Added   []Endpoint `json:"added,omitempty"`
	Removed []Endpoint `json:"removed,omitempty"`
}

// Empty reports whether no endpoint changed
func (d EndpointDelta) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// EndpointExtractor finds URLs in JavaScript with jsluice
type EndpointExtractor struct {
	logger zerolog.Logger
}

// NewEndpointExtractor creates a new EndpointExtractor
func NewEndpointExtractor(logger zerolog.Logger) *EndpointExtractor {
	return &EndpointExtractor{
		logger: logger.With().Str("component", "EndpointExtractor").Logger(),
	}
}

// Extract returns the distinct endpoints of content, sorted by URL.
// Relative paths are resolved against sourceURL.
func (e *EndpointExtractor) Extract(sourceURL string, content []byte) []Endpoint {
	if len(content) == 0 {
		return nil
	}
	base, err := url.Parse(sourceURL)
	if err != nil {
		base = nil
	}

	analyzer := jsluice.NewAnalyzer(content)
	seen := make(map[string]struct{})
	var endpoints []Endpoint

	for _, res := range analyzer.GetURLs() {
		absolute, err := ResolveEndpoint(res.URL, base)
		if err != nil {
			e.logger.Debug().Str("raw", res.URL).Err(err).Msg("Skipping endpoint")
			continue
		}
		key := res.Method + " " + absolute
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		endpointType := res.Type
		if endpointType == "" {
			endpointType = "unknown"
		}
		endpoints = append(endpoints, Endpoint{URL: absolute, Raw: res.URL, Method: res.Method, Type: endpointType})
	}

	sort.Slice(endpoints, func(i, j int) bool {
		if endpoints[i].URL == endpoints[j].URL {
			return endpoints[i].Method < endpoints[j].Method
		}
		return endpoints[i].URL < endpoints[j].URL
	})
	e.logger.Debug().Str("source_url", sourceURL).Int("count", len(endpoints)).Msg("Endpoints extracted")
	return endpoints
}

// Delta compares the endpoints of two versions of the same script
func (e *EndpointExtractor) Delta(sourceURL string, oldContent, newContent []byte) EndpointDelta {
	return Diff(e.Extract(sourceURL, oldContent), e.Extract(sourceURL, newContent))
}

// Diff computes the added and removed endpoints between two sets
func Diff(oldEndpoints, newEndpoints []Endpoint) EndpointDelta {
	key := func(ep Endpoint) string { return ep.Method + " " + ep.URL }

	oldSet := make(map[string]struct{}, len(oldEndpoints))
	for _, ep := range oldEndpoints {
		oldSet[key(ep)] = struct{}{}
	}
	newSet := make(map[string]struct{}, len(newEndpoints))
	for _, ep := range newEndpoints {
		newSet[key(ep)] = struct{}{}
	}

	var delta EndpointDelta
	for _, ep := range newEndpoints {
		if _, ok := oldSet[key(ep)]; !ok {
			delta.Added = append(delta.Added, ep)
		}
	}
	for _, ep := range oldEndpoints {
		if _, ok := newSet[key(ep)]; !ok {
			delta.Removed = append(delta.Removed, ep)
		}
	}
	return delta
}
