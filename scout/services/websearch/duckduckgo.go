// scout/services/websearch/duckduckgo.go
package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"scout/scout/types"
)

// DuckDuckGoProvider is the key-free last resort. It synthesizes a small
// number of results from the instant-answer API's abstract plus related
// topics. It degrades gracefully: any failure yields an empty result set,
// never an error, so it cannot threaten the aggregator's liveness.
type DuckDuckGoProvider struct {
	baseURL string
	client  *http.Client
}

func NewDuckDuckGoProvider() *DuckDuckGoProvider {
	return &DuckDuckGoProvider{
		baseURL: "https://api.duckduckgo.com/",
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (d *DuckDuckGoProvider) Name() string {
	return "duckduckgo"
}

// recencyHints approximate a date restriction: the instant-answer API has no
// native date filter, so the hint is folded into the query text like the
// domain qualifier.
var recencyHints = map[types.DateRange]string{
	types.DateRangeDay:   "past day",
	types.DateRangeWeek:  "past week",
	types.DateRangeMonth: "past month",
	types.DateRangeYear:  "past year",
}

func (d *DuckDuckGoProvider) Search(ctx context.Context, query types.SearchQuery) ([]types.SearchResult, error) {
	q := siteQualified(query)
	if hint, ok := recencyHints[query.DateRange]; ok {
		q += " " + hint
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return []types.SearchResult{}, nil
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return []types.SearchResult{}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return []types.SearchResult{}, nil
	}

	var ddgResp duckduckgoResponse
	if err := json.NewDecoder(resp.Body).Decode(&ddgResp); err != nil {
		return []types.SearchResult{}, nil
	}

	max := maxOrDefault(query)
	results := make([]types.SearchResult, 0, max)

	if ddgResp.AbstractText != "" && ddgResp.AbstractURL != "" {
		results = append(results, types.SearchResult{
			Title:   ddgResp.Heading,
			URL:     ddgResp.AbstractURL,
			Snippet: ddgResp.AbstractText,
			Domain:  domainOf(ddgResp.AbstractURL),
		})
	}

	for _, topic := range flattenTopics(ddgResp.RelatedTopics) {
		if len(results) >= max {
			break
		}
		if topic.FirstURL == "" || topic.Text == "" {
			continue
		}
		results = append(results, types.SearchResult{
			Title:   topicTitle(topic.Text),
			URL:     topic.FirstURL,
			Snippet: topic.Text,
			Domain:  domainOf(topic.FirstURL),
		})
	}
	return results, nil
}

// topicTitle uses the leading sentence fragment of a related-topic text as
// its title.
func topicTitle(text string) string {
	if idx := strings.Index(text, " - "); idx > 0 {
		return text[:idx]
	}
	if len(text) > 80 {
		return text[:80]
	}
	return text
}

func flattenTopics(topics []duckduckgoTopic) []duckduckgoTopic {
	var flat []duckduckgoTopic
	for _, t := range topics {
		if len(t.Topics) > 0 {
			flat = append(flat, flattenTopics(t.Topics)...)
			continue
		}
		flat = append(flat, t)
	}
	return flat
}

type duckduckgoResponse struct {
	Heading       string            `json:"Heading"`
	AbstractText  string            `json:"AbstractText"`
	AbstractURL   string            `json:"AbstractURL"`
	RelatedTopics []duckduckgoTopic `json:"RelatedTopics"`
}

type duckduckgoTopic struct {
	Text     string            `json:"Text"`
	FirstURL string            `json:"FirstURL"`
	Topics   []duckduckgoTopic `json:"Topics"`
}
