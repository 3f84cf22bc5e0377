// Package toolcall is the single entry point for the agent's tool surface.
// It validates a tool call's name and arguments, dispatches to the search
// aggregator or the fetch service, and formats the outcome into a uniform
// multi-part content envelope. Failures never escape as errors: every
// terminal failure becomes a ToolResult with IsError set.
package toolcall

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"scout/scout/services/webfetch"
	"scout/scout/types"
	"scout/scout/utils/logging"
)

var (
	ErrUnknownTool     = errors.New("unknown tool")
	ErrInvalidArgument = errors.New("invalid argument")
)

const (
	ToolSearch = "search"
	ToolFetch  = "fetch"
)

// Searcher is satisfied by *websearch.Aggregator.
type Searcher interface {
	Search(ctx context.Context, query types.SearchQuery) (*types.SearchResponse, error)
}

// Fetcher is satisfied by *webfetch.Service.
type Fetcher interface {
	Fetch(ctx context.Context, req types.FetchRequest) (*types.WebContent, error)
}

type Orchestrator struct {
	searcher Searcher
	fetcher  Fetcher
}

func NewOrchestrator(searcher Searcher, fetcher Fetcher) *Orchestrator {
	return &Orchestrator{searcher: searcher, fetcher: fetcher}
}

// Execute runs one tool call. The returned result always carries the call id
// and a content envelope; IsError marks failures.
func (o *Orchestrator) Execute(ctx context.Context, call types.ToolCall) types.ToolResult {
	var result types.ToolResult
	var err error

	switch call.Name {
	case ToolSearch:
		result, err = o.executeSearch(ctx, call)
	case ToolFetch:
		result, err = o.executeFetch(ctx, call)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownTool, call.Name)
	}

	if err != nil {
		logging.ErrorLogger.Error("tool call failed",
			zap.String("tool", call.Name),
			zap.Error(err),
		)
		return errorResult(call.ID, err)
	}
	return result
}

func (o *Orchestrator) executeSearch(ctx context.Context, call types.ToolCall) (types.ToolResult, error) {
	queryText, ok := argString(call.Arguments, "query")
	if !ok || strings.TrimSpace(queryText) == "" {
		return types.ToolResult{}, fmt.Errorf("%w: query is required", ErrInvalidArgument)
	}

	query := types.SearchQuery{
		Query:      rewriteQuery(queryText),
		MaxResults: argInt(call.Arguments, "max_results", 10),
		Domain:     argStringOr(call.Arguments, "domain", ""),
		Language:   argStringOr(call.Arguments, "language", "en"),
	}
	if dr := types.DateRange(argStringOr(call.Arguments, "date_range", "")); validDateRange(dr) {
		query.DateRange = dr
	}

	resp, err := o.searcher.Search(ctx, query)
	if err != nil {
		return types.ToolResult{}, err
	}

	parts := []types.ContentPart{
		types.TextPart(fmt.Sprintf("Found %d results for %q (%dms)", resp.ResultCount, resp.Query, resp.ElapsedMs)),
		types.JSONPart(resp.Results),
	}
	for i, r := range resp.Results {
		parts = append(parts, types.TextPart(formatResult(i+1, r)))
	}

	return types.ToolResult{
		ToolCallID: call.ID,
		Result:     resp,
		Content:    parts,
	}, nil
}

func (o *Orchestrator) executeFetch(ctx context.Context, call types.ToolCall) (types.ToolResult, error) {
	rawURL, ok := argString(call.Arguments, "url")
	if !ok || strings.TrimSpace(rawURL) == "" {
		return types.ToolResult{}, fmt.Errorf("%w: url is required", ErrInvalidArgument)
	}
	// Reject unfetchable URLs before touching the service.
	if err := webfetch.CheckFetchable(rawURL); err != nil {
		return types.ToolResult{}, err
	}

	follow := argBool(call.Arguments, "follow_redirects", true)
	clean := argBool(call.Arguments, "clean_content", true)
	req := types.FetchRequest{
		URL:              rawURL,
		MaxContentLength: argInt(call.Arguments, "max_content_length", 50000),
		Timeout:          argInt(call.Arguments, "timeout", 10000),
		FollowRedirects:  &follow,
		CleanContent:     &clean,
	}

	content, err := o.fetcher.Fetch(ctx, req)
	if err != nil {
		return types.ToolResult{}, err
	}

	parts := []types.ContentPart{
		types.TextPart(formatContentHeader(content)),
	}
	if len(content.Metadata.Breadcrumbs) > 0 {
		parts = append(parts, types.TextPart("Breadcrumbs: "+strings.Join(content.Metadata.Breadcrumbs, " > ")))
	}
	if line := formatAuthorDate(content); line != "" {
		parts = append(parts, types.TextPart(line))
	}
	parts = append(parts, types.TextPart(content.Content))
	if len(content.Metadata.Tags) > 0 {
		parts = append(parts, types.TextPart("Tags: "+strings.Join(content.Metadata.Tags, ", ")))
	}
	parts = append(parts, types.JSONPart(content))

	return types.ToolResult{
		ToolCallID: call.ID,
		Result:     content,
		Content:    parts,
	}, nil
}

func errorResult(callID string, err error) types.ToolResult {
	return types.ToolResult{
		ToolCallID: callID,
		IsError:    true,
		Content:    []types.ContentPart{types.TextPart("Error: " + err.Error())},
	}
}

func formatResult(rank int, r types.SearchResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d. %s\n   %s", rank, r.Title, r.URL)
	if r.Snippet != "" {
		fmt.Fprintf(&sb, "\n   %s", r.Snippet)
	}
	if r.PublishedDate != "" {
		fmt.Fprintf(&sb, "\n   Published: %s", r.PublishedDate)
	}
	return sb.String()
}

func formatContentHeader(c *types.WebContent) string {
	return fmt.Sprintf("%s\n%s\nType: %s | Words: %d | Reading time: %d min",
		c.Title, c.URL, c.ContentType, c.Metadata.WordCount, c.Metadata.ReadingTime)
}

func formatAuthorDate(c *types.WebContent) string {
	switch {
	case c.Author != "" && c.PublishedDate != "":
		return fmt.Sprintf("By %s | %s", c.Author, c.PublishedDate)
	case c.Author != "":
		return "By " + c.Author
	case c.PublishedDate != "":
		return "Published: " + c.PublishedDate
	}
	return ""
}

func validDateRange(dr types.DateRange) bool {
	switch dr {
	case types.DateRangeDay, types.DateRangeWeek, types.DateRangeMonth, types.DateRangeYear:
		return true
	}
	return false
}
