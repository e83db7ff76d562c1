package crawler

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// ExtractLinks parses the fetched document and returns every hyperlink
// target resolved against base. Pure same-page fragments and non-HTTP
// schemes (javascript:, mailto:, tel:, data:) are skipped; a href that
// fails to parse is dropped. The returned URLs are resolved but not yet
// normalized; the crawl loop normalizes them before scoping.
//
// Design decision: We use golang.org/x/net/html rather than a regex
// because:
//  1. It correctly handles the malformed HTML small sites actually serve
//  2. An unclosed tag garbles a regex scan but not a tokenizing parser
//  3. Standard library extension, well-maintained
func ExtractLinks(body string, base *url.URL) []string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		// html.Parse recovers from almost anything; a hard failure means
		// there is nothing link-like to salvage.
		return nil
	}

	links := make([]string, 0)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := getAttr(n, "href"); href != "" {
				if resolved := resolveLink(base, href); resolved != "" {
					links = append(links, resolved)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links
}

// resolveLink resolves one href against the base URL, returning "" for
// targets that can never be crawlable pages.
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" ||
		strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	return base.ResolveReference(u).String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
