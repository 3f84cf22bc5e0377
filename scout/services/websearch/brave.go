// scout/services/websearch/brave.go
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"scout/scout/types"
)

// BraveProvider searches via the Brave Web Search API.
type BraveProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewBraveProvider(apiKey string) *BraveProvider {
	return &BraveProvider{
		apiKey:  apiKey,
		baseURL: "https://api.search.brave.com/res/v1/web/search",
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (b *BraveProvider) Name() string {
	return "brave"
}

var braveFreshness = map[types.DateRange]string{
	types.DateRangeDay:   "pd",
	types.DateRangeWeek:  "pw",
	types.DateRangeMonth: "pm",
	types.DateRangeYear:  "py",
}

func (b *BraveProvider) Search(ctx context.Context, query types.SearchQuery) ([]types.SearchResult, error) {
	params := url.Values{}
	// Brave has no structured site parameter; the restriction is folded
	// into the query text.
	params.Set("q", siteQualified(query))
	params.Set("count", fmt.Sprintf("%d", maxOrDefault(query)))
	if freshness, ok := braveFreshness[query.DateRange]; ok {
		params.Set("freshness", freshness)
	}
	if query.Language != "" {
		params.Set("search_lang", query.Language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.apiKey)
	req.Header.Set("User-Agent", userAgent)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("brave API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var braveResp braveSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&braveResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]types.SearchResult, 0, len(braveResp.Web.Results))
	for _, item := range braveResp.Web.Results {
		results = append(results, types.SearchResult{
			Title:         item.Title,
			URL:           item.URL,
			Snippet:       item.Description,
			Domain:        domainOf(item.URL),
			PublishedDate: item.PageAge,
		})
	}
	return results, nil
}

type braveSearchResponse struct {
	Web struct {
		Results []braveResult `json:"results"`
	} `json:"web"`
}

type braveResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	PageAge     string `json:"page_age"`
}
