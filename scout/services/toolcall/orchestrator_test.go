package toolcall

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"scout/scout/services/ratelimit"
	"scout/scout/services/webextract"
	"scout/scout/services/websearch"
	"scout/scout/types"
	"scout/scout/utils/logging"
)

type stubSearcher struct {
	lastQuery types.SearchQuery
	resp      *types.SearchResponse
	err       error
}

func (s *stubSearcher) Search(_ context.Context, query types.SearchQuery) (*types.SearchResponse, error) {
	s.lastQuery = query
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

type stubFetcher struct {
	lastReq types.FetchRequest
	content *types.WebContent
	err     error
	calls   int
}

func (f *stubFetcher) Fetch(_ context.Context, req types.FetchRequest) (*types.WebContent, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.content, nil
}

func newTestOrchestrator(s Searcher, f Fetcher) *Orchestrator {
	logging.InitLogger() // ensures package loggers aren't nil
	return NewOrchestrator(s, f)
}

func TestUnknownToolIsError(t *testing.T) {
	o := newTestOrchestrator(&stubSearcher{}, &stubFetcher{})
	res := o.Execute(context.Background(), types.ToolCall{ID: "c1", Name: "teleport"})
	if !res.IsError {
		t.Fatal("expected error result for unknown tool")
	}
	if res.ToolCallID != "c1" {
		t.Errorf("call id not carried through: %q", res.ToolCallID)
	}
	if len(res.Content) != 1 || res.Content[0].Type != "text" {
		t.Fatalf("expected single text part, got %+v", res.Content)
	}
	if !strings.Contains(res.Content[0].Text, "unknown tool") {
		t.Errorf("error text should name the failure, got %q", res.Content[0].Text)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	o := newTestOrchestrator(&stubSearcher{}, &stubFetcher{})
	res := o.Execute(context.Background(), types.ToolCall{ID: "c2", Name: ToolSearch, Arguments: map[string]interface{}{}})
	if !res.IsError {
		t.Fatal("expected error result for missing query")
	}
	if !strings.Contains(res.Content[0].Text, "query") {
		t.Errorf("error should mention the missing field, got %q", res.Content[0].Text)
	}
}

func TestFetchRequiresURL(t *testing.T) {
	o := newTestOrchestrator(&stubSearcher{}, &stubFetcher{})
	res := o.Execute(context.Background(), types.ToolCall{ID: "c3", Name: ToolFetch, Arguments: map[string]interface{}{}})
	if !res.IsError {
		t.Fatal("expected error result for missing url")
	}
}

func TestFetchBlockedURLRejectedBeforeService(t *testing.T) {
	fetcher := &stubFetcher{}
	o := newTestOrchestrator(&stubSearcher{}, fetcher)
	res := o.Execute(context.Background(), types.ToolCall{
		ID:   "c4",
		Name: ToolFetch,
		Arguments: map[string]interface{}{
			"url": "http://localhost/admin",
		},
	})
	if !res.IsError {
		t.Fatal("expected error result for blocked url")
	}
	if fetcher.calls != 0 {
		t.Errorf("fetch service must not be invoked for a blocked url, got %d calls", fetcher.calls)
	}
}

func TestSearchArgumentDefaults(t *testing.T) {
	searcher := &stubSearcher{resp: &types.SearchResponse{Query: "q"}}
	o := newTestOrchestrator(searcher, &stubFetcher{})

	o.Execute(context.Background(), types.ToolCall{
		ID:        "c5",
		Name:      ToolSearch,
		Arguments: map[string]interface{}{"query": "golang context"},
	})

	if searcher.lastQuery.MaxResults != 10 {
		t.Errorf("max_results default: got %d, want 10", searcher.lastQuery.MaxResults)
	}
	if searcher.lastQuery.Language != "en" {
		t.Errorf("language default: got %q, want en", searcher.lastQuery.Language)
	}
	if searcher.lastQuery.DateRange != "" {
		t.Errorf("date range should be empty by default, got %q", searcher.lastQuery.DateRange)
	}
}

func TestSearchArgumentMapping(t *testing.T) {
	searcher := &stubSearcher{resp: &types.SearchResponse{Query: "q"}}
	o := newTestOrchestrator(searcher, &stubFetcher{})

	o.Execute(context.Background(), types.ToolCall{
		ID:   "c6",
		Name: ToolSearch,
		Arguments: map[string]interface{}{
			"query":       "golang context",
			"max_results": float64(5), // JSON numbers decode as float64
			"domain":      "pkg.go.dev",
			"date_range":  "week",
			"language":    "de",
		},
	})

	got := searcher.lastQuery
	if got.MaxResults != 5 || got.Domain != "pkg.go.dev" || got.Language != "de" {
		t.Errorf("argument mapping wrong: %+v", got)
	}
	if got.DateRange != types.DateRangeWeek {
		t.Errorf("date range: got %q, want week", got.DateRange)
	}
}

func TestQueryRewriteHeuristics(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"business rule script", "business rule script servicenow"},
		{"glide record query error", "glide record query error servicenow solution"},
		{"http 500 error on deploy", "http 500 error on deploy solution"},
		{"business rule servicenow", "business rule servicenow"},
		{"error already has solution", "error already has solution"},
		{"plain golang question", "plain golang question"},
	}
	for _, c := range cases {
		if got := rewriteQuery(c.in); got != c.want {
			t.Errorf("rewriteQuery(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSearchEnvelope(t *testing.T) {
	searcher := &stubSearcher{resp: &types.SearchResponse{
		Results: []types.SearchResult{
			{Title: "A", URL: "https://a.example.com", Snippet: "first", Domain: "a.example.com"},
			{Title: "B", URL: "https://b.example.com", Domain: "b.example.com", PublishedDate: "2025-06-01"},
		},
		Query:       "golang context",
		ResultCount: 2,
		ElapsedMs:   12,
	}}
	o := newTestOrchestrator(searcher, &stubFetcher{})

	res := o.Execute(context.Background(), types.ToolCall{
		ID:        "c7",
		Name:      ToolSearch,
		Arguments: map[string]interface{}{"query": "golang context"},
	})
	if res.IsError {
		t.Fatalf("unexpected error result: %+v", res.Content)
	}

	// summary, json payload, one text part per result
	if len(res.Content) != 4 {
		t.Fatalf("expected 4 parts, got %d", len(res.Content))
	}
	summary := res.Content[0]
	if summary.Type != "text" || !strings.Contains(summary.Text, "golang context") || !strings.Contains(summary.Text, "2") {
		t.Errorf("summary should carry query and count, got %+v", summary)
	}
	if res.Content[1].Type != "json" {
		t.Fatalf("second part should be json, got %q", res.Content[1].Type)
	}
	var results []types.SearchResult
	if err := json.Unmarshal(res.Content[1].JSON, &results); err != nil {
		t.Fatalf("json part does not decode: %v", err)
	}
	if len(results) != 2 || results[0].Title != "A" {
		t.Errorf("json part lost results: %+v", results)
	}
	if !strings.Contains(res.Content[2].Text, "1. A") {
		t.Errorf("formatted part should rank results, got %q", res.Content[2].Text)
	}
	if !strings.Contains(res.Content[3].Text, "Published: 2025-06-01") {
		t.Errorf("formatted part should carry dates, got %q", res.Content[3].Text)
	}
}

func TestSearchFailureBecomesErrorResult(t *testing.T) {
	searcher := &stubSearcher{err: errors.New("all backends down")}
	o := newTestOrchestrator(searcher, &stubFetcher{})

	res := o.Execute(context.Background(), types.ToolCall{
		ID:        "c8",
		Name:      ToolSearch,
		Arguments: map[string]interface{}{"query": "q"},
	})
	if !res.IsError {
		t.Fatal("expected error result")
	}
	if len(res.Content) != 1 || !strings.Contains(res.Content[0].Text, "all backends down") {
		t.Errorf("expected single text part with cause, got %+v", res.Content)
	}
}

func TestFetchArgumentDefaults(t *testing.T) {
	fetcher := &stubFetcher{content: &types.WebContent{Title: "T", URL: "https://example.com"}}
	o := newTestOrchestrator(&stubSearcher{}, fetcher)

	o.Execute(context.Background(), types.ToolCall{
		ID:        "c9",
		Name:      ToolFetch,
		Arguments: map[string]interface{}{"url": "https://example.com/page"},
	})

	req := fetcher.lastReq
	if req.MaxContentLength != 50000 || req.Timeout != 10000 {
		t.Errorf("numeric defaults wrong: %+v", req)
	}
	if req.FollowRedirects == nil || !*req.FollowRedirects {
		t.Error("follow_redirects should default to true at the tool boundary")
	}
	if req.CleanContent == nil || !*req.CleanContent {
		t.Error("clean_content should default to true")
	}
}

func TestFetchEnvelope(t *testing.T) {
	fetcher := &stubFetcher{content: &types.WebContent{
		URL:           "https://docs.example.com/guide",
		Title:         "Guide",
		Content:       "body text here",
		Author:        "Ada",
		PublishedDate: "2025-05-01",
		Domain:        "docs.example.com",
		ContentType:   types.ContentTypeDocumentation,
		Metadata: types.ContentMetadata{
			WordCount:   3,
			ReadingTime: 1,
			Breadcrumbs: []string{"Docs", "Guide"},
			Tags:        []string{"go", "http"},
		},
	}}
	o := newTestOrchestrator(&stubSearcher{}, fetcher)

	res := o.Execute(context.Background(), types.ToolCall{
		ID:        "c10",
		Name:      ToolFetch,
		Arguments: map[string]interface{}{"url": "https://docs.example.com/guide"},
	})
	if res.IsError {
		t.Fatalf("unexpected error result: %+v", res.Content)
	}

	// header, breadcrumbs, author/date, body, tags, json record
	if len(res.Content) != 6 {
		t.Fatalf("expected 6 parts, got %d: %+v", len(res.Content), res.Content)
	}
	if !strings.Contains(res.Content[0].Text, "Guide") || !strings.Contains(res.Content[0].Text, "documentation") {
		t.Errorf("header part wrong: %q", res.Content[0].Text)
	}
	if res.Content[1].Text != "Breadcrumbs: Docs > Guide" {
		t.Errorf("breadcrumb part wrong: %q", res.Content[1].Text)
	}
	if res.Content[2].Text != "By Ada | 2025-05-01" {
		t.Errorf("author part wrong: %q", res.Content[2].Text)
	}
	if res.Content[3].Text != "body text here" {
		t.Errorf("body part wrong: %q", res.Content[3].Text)
	}
	if res.Content[4].Text != "Tags: go, http" {
		t.Errorf("tags part wrong: %q", res.Content[4].Text)
	}
	last := res.Content[len(res.Content)-1]
	if last.Type != "json" {
		t.Fatalf("last part should be the structured record, got %q", last.Type)
	}
	var decoded types.WebContent
	if err := json.Unmarshal(last.JSON, &decoded); err != nil {
		t.Fatalf("json record does not decode: %v", err)
	}
	if decoded.Title != "Guide" || decoded.ContentType != types.ContentTypeDocumentation {
		t.Errorf("json record lost fields: %+v", decoded)
	}
}

// fallbackProvider mimics the keyless instant-answer backend: it always
// succeeds, possibly with an empty result set.
type fallbackProvider struct {
	results []types.SearchResult
}

func (f *fallbackProvider) Name() string { return "duckduckgo" }

func (f *fallbackProvider) Search(_ context.Context, _ types.SearchQuery) ([]types.SearchResult, error) {
	return f.results, nil
}

func TestSearchEndToEndWithFallbackOnly(t *testing.T) {
	logging.InitLogger()
	agg := websearch.NewAggregator(
		[]websearch.Provider{&fallbackProvider{results: []types.SearchResult{
			{Title: "Business Rules", URL: "https://docs.example.com/business-rules", Domain: "docs.example.com"},
		}}},
		ratelimit.New(100, time.Minute),
	)
	o := NewOrchestrator(agg, &stubFetcher{})

	res := o.Execute(context.Background(), types.ToolCall{
		ID:        "e2e-1",
		Name:      ToolSearch,
		Arguments: map[string]interface{}{"query": "business rule script"},
	})
	if res.IsError {
		t.Fatalf("fallback-only search must not error: %+v", res.Content)
	}
	if !strings.Contains(res.Content[0].Text, "business rule script") {
		t.Errorf("summary should contain the literal query, got %q", res.Content[0].Text)
	}
	if !strings.Contains(res.Content[0].Text, "1") {
		t.Errorf("summary should contain the result count, got %q", res.Content[0].Text)
	}
	var results []types.SearchResult
	if err := json.Unmarshal(res.Content[1].JSON, &results); err != nil {
		t.Fatalf("second part must decode as a result sequence: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Business Rules" {
		t.Errorf("unexpected results: %+v", results)
	}
}

// extractingFetcher runs the real extractor so the envelope test exercises
// classification and word counting, without any network listener.
type extractingFetcher struct {
	html string
}

func (f *extractingFetcher) Fetch(_ context.Context, req types.FetchRequest) (*types.WebContent, error) {
	clean := req.CleanContent == nil || *req.CleanContent
	content := webextract.Extract(f.html, req.URL, webextract.Options{CleanContent: clean})
	return &content, nil
}

func TestFetchEndToEndExtraction(t *testing.T) {
	mainText := strings.Repeat("the foo api accepts json requests over https ", 4)
	fetcher := &extractingFetcher{
		html: "<html><head><title>ignored</title></head><body><h1>Foo API</h1><main>" + mainText + "</main></body></html>",
	}
	o := newTestOrchestrator(&stubSearcher{}, fetcher)

	res := o.Execute(context.Background(), types.ToolCall{
		ID:        "e2e-2",
		Name:      ToolFetch,
		Arguments: map[string]interface{}{"url": "https://docs.example.com/api/foo"},
	})
	if res.IsError {
		t.Fatalf("unexpected error result: %+v", res.Content)
	}

	content, ok := res.Result.(*types.WebContent)
	if !ok {
		t.Fatalf("result should carry the extracted record, got %T", res.Result)
	}
	if content.ContentType != types.ContentTypeAPIReference {
		t.Errorf("content type: got %q, want api-reference", content.ContentType)
	}
	if content.Title != "Foo API" {
		t.Errorf("title: got %q, want Foo API", content.Title)
	}
	if want := len(strings.Fields(mainText)); content.Metadata.WordCount != want {
		t.Errorf("word count: got %d, want %d", content.Metadata.WordCount, want)
	}
}
