// Package webextract turns raw HTML plus its source URL into a structured
// content record. Extraction is a pure transform: the same input always
// yields the same output, malformed markup degrades to defaults and never
// produces an error.
package webextract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"scout/scout/types"
)

const (
	excerptLimit   = 300
	excerptBackoff = excerptLimit * 4 / 5
	wordsPerMinute = 200
	defaultTitle   = "Untitled Page"
	ellipsis       = "..."
)

type Options struct {
	CleanContent bool
}

// Extract runs the full pipeline against rawHTML. Non-HTML input is treated
// as body text; every step has a safe default.
func Extract(rawHTML, sourceURL string, opts Options) types.WebContent {
	content := types.WebContent{
		URL:         sourceURL,
		Title:       defaultTitle,
		Domain:      domainOf(sourceURL),
		ContentType: types.ContentTypeGeneral,
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		// html.Parse accepts almost anything; if it still fails, the input
		// is the content.
		content.Content = normalizeWhitespace(rawHTML)
		content.Excerpt = excerpt(content.Content)
		content.Metadata.WordCount = len(strings.Fields(content.Content))
		content.Metadata.ReadingTime = readingTime(content.Metadata.WordCount)
		return content
	}

	if opts.CleanContent {
		doc.Find(strings.Join(stripSelectors, ", ")).Remove()
	}

	if title := firstNonEmptyText(doc, titleSelectors); title != "" {
		content.Title = title
	}

	content.Content = mainContent(doc)
	content.Excerpt = excerpt(content.Content)
	content.PublishedDate = firstCandidate(doc, dateCandidates)
	content.Author = firstCandidate(doc, authorCandidates)
	content.ContentType = classify(sourceURL, doc)
	content.Metadata = types.ContentMetadata{
		WordCount:   len(strings.Fields(content.Content)),
		Breadcrumbs: breadcrumbs(doc),
		Tags:        tags(doc),
	}
	content.Metadata.ReadingTime = readingTime(content.Metadata.WordCount)
	return content
}

// mainContent tries each content-container candidate in order and falls back
// to whole-body text with structural tags stripped.
func mainContent(doc *goquery.Document) string {
	for _, sel := range contentSelectors {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		if text := normalizeWhitespace(node.Text()); len(text) > minContentLength {
			return text
		}
	}

	body := doc.Find("body").First()
	if body.Length() == 0 {
		return normalizeWhitespace(doc.Text())
	}

	var sb strings.Builder
	for _, n := range body.Nodes {
		collectText(n, &sb)
	}
	return normalizeWhitespace(sb.String())
}

// structural tags whose text is never page content
var skipTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"nav":      true,
	"header":   true,
	"footer":   true,
	"aside":    true,
	"iframe":   true,
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode && skipTags[n.Data] {
		return
	}
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteString(" ")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

func firstNonEmptyText(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return collapseSpaces(text)
		}
	}
	return ""
}

func firstCandidate(doc *goquery.Document, candidates []metaCandidate) string {
	for _, c := range candidates {
		node := doc.Find(c.Selector).First()
		if node.Length() == 0 {
			continue
		}
		var value string
		if c.Attr != "" {
			value, _ = node.Attr(c.Attr)
		} else {
			value = node.Text()
		}
		if value = strings.TrimSpace(value); value != "" {
			return collapseSpaces(value)
		}
	}
	return ""
}

func breadcrumbs(doc *goquery.Document) []string {
	for _, sel := range breadcrumbSelectors {
		var crumbs []string
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); text != "" {
				crumbs = append(crumbs, text)
			}
		})
		if len(crumbs) > 0 {
			return crumbs
		}
	}
	return nil
}

func tags(doc *goquery.Document) []string {
	var raw []string
	if keywords, ok := doc.Find(`meta[name="keywords"]`).First().Attr("content"); ok {
		for _, kw := range strings.Split(keywords, ",") {
			raw = append(raw, kw)
		}
	}
	for _, sel := range tagSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			raw = append(raw, s.Text())
		})
	}

	seen := make(map[string]bool)
	var out []string
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		key := strings.ToLower(tag)
		if tag == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
	}
	return out
}

var (
	spaceRun     = regexp.MustCompile(`[ \t]+`)
	blankLineRun = regexp.MustCompile(`\n{3,}`)
)

// normalizeWhitespace collapses runs of spaces to one space, runs of blank
// lines to exactly one blank line, and trims the result.
func normalizeWhitespace(s string) string {
	s = spaceRun.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = blankLineRun.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// excerpt returns the first excerptLimit characters of content. If the cut
// would split a word it backs up to the last space at or after 80% of the
// limit. The ellipsis marker is appended only when content was truncated.
func excerpt(content string) string {
	if len(content) <= excerptLimit {
		return content
	}
	cut := content[:excerptLimit]
	if content[excerptLimit] != ' ' && !strings.HasSuffix(cut, " ") {
		if idx := strings.LastIndexByte(cut, ' '); idx >= excerptBackoff {
			cut = cut[:idx]
		}
	}
	return strings.TrimRight(cut, " ") + ellipsis
}

func readingTime(words int) int {
	if words == 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
