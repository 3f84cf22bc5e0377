// Package websearch provides web search across multiple provider backends
// with rotation-based failover and per-provider rate limiting.
//
// Each Provider knows how to turn a SearchQuery into raw results from one
// backend. Keyed providers are only constructed when their credentials are
// present; the key-free DuckDuckGo fallback always exists.
package websearch

import (
	"context"
	"errors"
	"net/url"

	"scout/scout/types"
)

const userAgent = "scout-webintel/1.0"

var (
	ErrNoProviders           = errors.New("no search providers configured")
	ErrAllProvidersExhausted = errors.New("all search providers exhausted")
	ErrRateLimited           = errors.New("search provider rate limited")
)

// Provider is the interface every search backend implements. Name is unique
// and doubles as the rate-limit key.
type Provider interface {
	Name() string
	Search(ctx context.Context, query types.SearchQuery) ([]types.SearchResult, error)
}

// domainOf derives the host from a result URL. The provider payload's own
// domain field is never trusted.
func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// siteQualified folds a domain restriction into the query text for providers
// without a structured site parameter.
func siteQualified(query types.SearchQuery) string {
	if query.Domain == "" {
		return query.Query
	}
	return query.Query + " site:" + query.Domain
}

func maxOrDefault(query types.SearchQuery) int {
	if query.MaxResults <= 0 {
		return 10
	}
	return query.MaxResults
}
