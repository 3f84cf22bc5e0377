// scout/services/websearch/aggregator.go
package websearch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"scout/scout/services/ratelimit"
	"scout/scout/types"
	"scout/scout/utils/logging"
)

// officialDomains are sorted to the front of a result set, relative order
// otherwise preserved.
var officialDomains = []string{
	"go.dev",
	"golang.org",
	"pkg.go.dev",
	"docs.python.org",
	"developer.mozilla.org",
	"learn.microsoft.com",
	"kubernetes.io",
	"docs.aws.amazon.com",
	"developer.apple.com",
	"stackoverflow.com",
	"github.com",
}

// Aggregator owns an ordered provider list, a rotation cursor, and a
// per-provider rate limiter. It tries providers in rotation until one
// succeeds or all fail. The cursor is sticky: after a successful call the
// next search starts at the provider that just worked, which keeps load off
// providers that recently failed over.
type Aggregator struct {
	mu        sync.Mutex
	providers []Provider
	cursor    int
	limiter   *ratelimit.Limiter
}

func NewAggregator(providers []Provider, limiter *ratelimit.Limiter) *Aggregator {
	return &Aggregator{
		providers: providers,
		limiter:   limiter,
	}
}

func (a *Aggregator) Search(ctx context.Context, query types.SearchQuery) (*types.SearchResponse, error) {
	if len(a.providers) == 0 {
		return nil, ErrNoProviders
	}

	start := time.Now()
	var lastErr error

	for attempt := 0; attempt < len(a.providers); attempt++ {
		provider := a.nextProvider()

		if !a.limiter.Allow(provider.Name()) {
			// Not a provider failure; just move on.
			logging.AppLogger.Info("search provider rate limited",
				zap.String("provider", provider.Name()),
			)
			a.advance()
			continue
		}

		results, err := provider.Search(ctx, query)
		if err != nil {
			logging.ErrorLogger.Error("search provider failed",
				zap.String("provider", provider.Name()),
				zap.Error(err),
			)
			lastErr = err
			a.advance()
			continue
		}

		// Cursor stays on the provider that succeeded.
		return &types.SearchResponse{
			Results:     promoteOfficial(results),
			Query:       query.Query,
			ResultCount: len(results),
			ElapsedMs:   time.Since(start).Milliseconds(),
		}, nil
	}

	if lastErr == nil {
		lastErr = ErrRateLimited
	}
	return nil, fmt.Errorf("%w: %v", ErrAllProvidersExhausted, lastErr)
}

func (a *Aggregator) nextProvider() Provider {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.providers[a.cursor]
}

func (a *Aggregator) advance() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cursor = (a.cursor + 1) % len(a.providers)
}

// promoteOfficial stably moves results from authoritative domains to the
// front without disturbing the relative ranking inside either group.
func promoteOfficial(results []types.SearchResult) []types.SearchResult {
	official := make([]types.SearchResult, 0, len(results))
	rest := make([]types.SearchResult, 0, len(results))
	for _, r := range results {
		if isOfficial(r.Domain) {
			official = append(official, r)
		} else {
			rest = append(rest, r)
		}
	}
	return append(official, rest...)
}

func isOfficial(domain string) bool {
	domain = strings.ToLower(domain)
	for _, d := range officialDomains {
		if domain == d || strings.HasSuffix(domain, "."+d) {
			return true
		}
	}
	return false
}
