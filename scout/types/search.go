// scout/types/search.go
package types

// DateRange restricts search results to a trailing time window.
type DateRange string

const (
	DateRangeDay   DateRange = "day"
	DateRangeWeek  DateRange = "week"
	DateRangeMonth DateRange = "month"
	DateRangeYear  DateRange = "year"
)

// SearchQuery is a validated search request. Built once per tool call.
type SearchQuery struct {
	Query      string    `json:"query"`
	MaxResults int       `json:"max_results,omitempty"`
	Domain     string    `json:"domain,omitempty"`
	DateRange  DateRange `json:"date_range,omitempty"`
	Language   string    `json:"language,omitempty"`
}

type SearchResult struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Snippet       string `json:"snippet"`
	Domain        string `json:"domain"`
	PublishedDate string `json:"published_date,omitempty"`
}

type SearchResponse struct {
	Results     []SearchResult `json:"results"`
	Query       string         `json:"query"`
	ResultCount int            `json:"result_count"`
	ElapsedMs   int64          `json:"elapsed_ms"`
}
