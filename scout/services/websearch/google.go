// scout/services/websearch/google.go
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

// GoogleProvider searches via the Google Custom Search JSON API. Requires an
// API key and a search engine (context) id.
type GoogleProvider struct {
	apiKey   string
	engineID string
	baseURL  string
	client   *http.Client
}

func NewGoogleProvider(apiKey, engineID string) *GoogleProvider {
	return &GoogleProvider{
		apiKey:   apiKey,
		engineID: engineID,
		baseURL:  "https://www.googleapis.com/customsearch/v1",
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (g *GoogleProvider) Name() string {
	return "google"
}

var googleDateRestrict = map[types.DateRange]string{
	types.DateRangeDay:   "d1",
	types.DateRangeWeek:  "w1",
	types.DateRangeMonth: "m1",
	types.DateRangeYear:  "y1",
}

func (g *GoogleProvider) Search(ctx context.Context, query types.SearchQuery) ([]types.SearchResult, error) {
	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("cx", g.engineID)
	params.Set("q", query.Query)
	params.Set("num", fmt.Sprintf("%d", maxOrDefault(query)))
	if query.Domain != "" {
		params.Set("siteSearch", query.Domain)
	}
	if restrict, ok := googleDateRestrict[query.DateRange]; ok {
		params.Set("dateRestrict", restrict)
	}
	if query.Language != "" {
		params.Set("lr", "lang_"+query.Language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("google API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var googleResp googleSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&googleResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]types.SearchResult, 0, len(googleResp.Items))
	for _, item := range googleResp.Items {
		result := types.SearchResult{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
			Domain:  domainOf(item.Link),
		}
		for _, meta := range item.PageMap.MetaTags {
			if meta.PublishedTime != "" {
				result.PublishedDate = meta.PublishedTime
				break
			}
		}
		results = append(results, result)
	}
	return results, nil
}

type googleSearchResponse struct {
	Items []googleItem `json:"items"`
}

type googleItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	PageMap struct {
		MetaTags []struct {
			PublishedTime string `json:"article:published_time"`
		} `json:"metatags"`
	} `json:"pagemap"`
}
