// scout/types/web.go
package types

// ContentType is a heuristic label describing the nature of a fetched page.
type ContentType string

const (
	ContentTypeArticle       ContentType = "article"
	ContentTypeDocumentation ContentType = "documentation"
	ContentTypeForum         ContentType = "forum"
	ContentTypeAPIReference  ContentType = "api-reference"
	ContentTypeGeneral       ContentType = "general"
)

type FetchRequest struct {
	URL              string `json:"url"`
	MaxContentLength int    `json:"max_content_length,omitempty"` // bytes
	Timeout          int    `json:"timeout,omitempty"`            // milliseconds
	FollowRedirects  *bool  `json:"follow_redirects,omitempty"`   // nil means default
	CleanContent     *bool  `json:"clean_content,omitempty"`
}

// WebContent is the structured record produced from one fetched page.
type WebContent struct {
	URL           string          `json:"url"`
	Title         string          `json:"title"`
	Content       string          `json:"content"`
	Excerpt       string          `json:"excerpt"`
	PublishedDate string          `json:"published_date,omitempty"`
	Author        string          `json:"author,omitempty"`
	Domain        string          `json:"domain"`
	ContentType   ContentType     `json:"content_type"`
	Metadata      ContentMetadata `json:"metadata"`
}

type ContentMetadata struct {
	WordCount    int      `json:"word_count"`
	ReadingTime  int      `json:"reading_time"` // minutes
	LastModified string   `json:"last_modified,omitempty"`
	Breadcrumbs  []string `json:"breadcrumbs,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}
