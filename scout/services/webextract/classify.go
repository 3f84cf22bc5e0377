// scout/services/webextract/classify.go
package webextract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"scout/scout/types"
)

var docHostMarkers = []string{
	"docs.",
	"documentation.",
	"developer.",
	"devdocs.",
	"api.",
	"readthedocs",
}

var docPathMarkers = []string{
	"/docs/",
	"/documentation/",
	"/api/",
	"/reference/",
	"/manual/",
	"/guide/",
}

var forumHosts = []string{
	"stackoverflow.com",
	"stackexchange.com",
	"reddit.com",
	"news.ycombinator.com",
}

var forumPathMarkers = []string{
	"/forum",
	"/community",
	"/discuss",
	"/questions/",
	"/t/",
}

// classify labels a page by URL patterns first, falling back to the presence
// of a semantic <article> element. URL rules win so that a documentation page
// wrapped in an <article> tag still classifies as documentation.
func classify(sourceURL string, doc *goquery.Document) types.ContentType {
	u, err := url.Parse(sourceURL)
	if err == nil {
		host := strings.ToLower(u.Hostname())
		path := strings.ToLower(u.Path)
		if !strings.HasSuffix(path, "/") {
			path += "/"
		}

		if hostMatches(host, docHostMarkers) || pathMatches(path, docPathMarkers) {
			if strings.Contains(path, "/api/") {
				return types.ContentTypeAPIReference
			}
			return types.ContentTypeDocumentation
		}

		for _, h := range forumHosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return types.ContentTypeForum
			}
		}
		if pathMatches(path, forumPathMarkers) {
			return types.ContentTypeForum
		}
	}

	if doc != nil && doc.Find("article").Length() > 0 {
		return types.ContentTypeArticle
	}
	return types.ContentTypeGeneral
}

func hostMatches(host string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(host, m) {
			return true
		}
	}
	return false
}

func pathMatches(path string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(path, m) {
			return true
		}
	}
	return false
}
