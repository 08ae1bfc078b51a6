// Package dom wraps a parsed HTML document together with the URL it was
// loaded from, so extraction code can be tested against synthetic pages
// without a browser engine.
package dom

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed job-posting page plus its source URL.
type Document struct {
	root *html.Node
	url  *url.URL
}

// Parse reads an HTML document and binds it to the URL it came from.
func Parse(r io.Reader, rawURL string) (*Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid document URL %q: %w", rawURL, err)
	}
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Document{root: root, url: u}, nil
}

// ParseString is a convenience wrapper around Parse for in-memory pages.
func ParseString(page, rawURL string) (*Document, error) {
	return Parse(strings.NewReader(page), rawURL)
}

// URL returns the document's source URL.
func (d *Document) URL() *url.URL { return d.url }

// Hostname returns the host of the source URL without any port.
func (d *Document) Hostname() string { return d.url.Hostname() }

// Query returns the first element matching the selector in document order,
// or nil when nothing matches.
func (d *Document) Query(selector string) *html.Node {
	sel, err := parseSelector(selector)
	if err != nil {
		return nil
	}
	return sel.findFirst(d.root)
}

// QueryText returns the trimmed text content of the first element matching
// the selector, or "" when the selector matches nothing.
func (d *Document) QueryText(selector string) string {
	n := d.Query(selector)
	if n == nil {
		return ""
	}
	return collectText(n)
}

// Exists reports whether any element matches the selector.
func (d *Document) Exists(selector string) bool {
	return d.Query(selector) != nil
}

// Title returns the trimmed <title> text, or "".
func (d *Document) Title() string {
	return findTitle(d.root)
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.Title {
		if n.FirstChild != nil {
			return strings.TrimSpace(n.FirstChild.Data)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

// collectText extracts all visible text from a node subtree, joining text
// nodes with single spaces.
func collectText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
