// scout/services/webextract/selectors.go
package webextract

// The extraction heuristics are ordered candidate lists, first non-empty
// match wins. Keeping them as data keeps the pipeline free of branching and
// makes each cascade testable on its own.

// stripSelectors are removed before any text extraction when clean_content
// is requested.
var stripSelectors = []string{
	"script",
	"style",
	"noscript",
	"nav",
	"header",
	"footer",
	"aside",
	"iframe",
	".ad",
	".ads",
	".advertisement",
	".sidebar",
	".cookie-banner",
	".popup",
}

var titleSelectors = []string{
	"h1",
	"title",
	".title",
	".post-title",
	".article-title",
	".entry-title",
	".page-title",
}

// contentSelectors are tried in order; the first whose normalized text
// exceeds minContentLength becomes the main content.
var contentSelectors = []string{
	"article",
	"main",
	"[role=main]",
	".content",
	".main-content",
	".post-content",
	".article-content",
	".entry-content",
	".markdown-body",
	"#content",
	".documentation",
}

const minContentLength = 100

// metaCandidate selects either an attribute value (Attr set) or element text.
type metaCandidate struct {
	Selector string
	Attr     string
}

var dateCandidates = []metaCandidate{
	{Selector: `meta[property="article:published_time"]`, Attr: "content"},
	{Selector: `meta[name="date"]`, Attr: "content"},
	{Selector: `meta[name="publish-date"]`, Attr: "content"},
	{Selector: `meta[itemprop="datePublished"]`, Attr: "content"},
	{Selector: "time[datetime]", Attr: "datetime"},
	{Selector: "time"},
	{Selector: ".published"},
	{Selector: ".post-date"},
	{Selector: ".date"},
}

var authorCandidates = []metaCandidate{
	{Selector: `meta[name="author"]`, Attr: "content"},
	{Selector: `meta[property="article:author"]`, Attr: "content"},
	{Selector: `[rel="author"]`},
	{Selector: ".author"},
	{Selector: ".byline"},
	{Selector: ".post-author"},
}

var breadcrumbSelectors = []string{
	".breadcrumb a",
	".breadcrumbs a",
	`[aria-label="breadcrumb"] a`,
	`[itemtype*="BreadcrumbList"] a`,
}

var tagSelectors = []string{
	".tags a",
	".post-tags a",
	".tag",
}
