package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// selector is a parsed subset of CSS selector syntax: simple steps made of an
// optional tag name, `.class` terms and `[attr]` / `[attr="value"]` terms,
// joined by descendant (whitespace) combinators. That subset covers every
// locator the extractor declares.
type selector struct {
	steps []step
}

type step struct {
	tag     string
	classes []string
	attrs   []attrTerm
}

type attrTerm struct {
	key      string
	value    string
	hasValue bool
}

// parseSelector parses e.g. `.posting-headline h2` or `[data-th="Office"]`.
func parseSelector(s string) (*selector, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty selector")
	}
	sel := &selector{}
	for _, f := range fields {
		st, err := parseStep(f)
		if err != nil {
			return nil, fmt.Errorf("bad selector %q: %w", s, err)
		}
		sel.steps = append(sel.steps, st)
	}
	return sel, nil
}

func parseStep(s string) (step, error) {
	var st step
	for len(s) > 0 {
		switch s[0] {
		case '.':
			rest := s[1:]
			end := indexAny(rest, ".[")
			if end == 0 {
				return st, fmt.Errorf("empty class name")
			}
			st.classes = append(st.classes, rest[:end])
			s = rest[end:]
		case '[':
			term := strings.IndexByte(s, ']')
			if term < 0 {
				return st, fmt.Errorf("unterminated attribute term")
			}
			body := s[1:term]
			if key, val, ok := strings.Cut(body, "="); ok {
				st.attrs = append(st.attrs, attrTerm{
					key:      key,
					value:    strings.Trim(val, `"'`),
					hasValue: true,
				})
			} else {
				st.attrs = append(st.attrs, attrTerm{key: body})
			}
			s = s[term+1:]
		default:
			end := indexAny(s, ".[")
			st.tag = strings.ToLower(s[:end])
			s = s[end:]
		}
	}
	if st.tag == "" && len(st.classes) == 0 && len(st.attrs) == 0 {
		return st, fmt.Errorf("empty selector step")
	}
	return st, nil
}

// indexAny returns the index of the first byte of cutset in s, or len(s).
func indexAny(s, cutset string) int {
	if i := strings.IndexAny(s, cutset); i >= 0 {
		return i
	}
	return len(s)
}

// findFirst returns the first node in document order whose element matches
// the final step and whose ancestry satisfies the preceding steps.
func (sel *selector) findFirst(root *html.Node) *html.Node {
	last := sel.steps[len(sel.steps)-1]
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && matchStep(n, last) && ancestorsSatisfy(n, sel.steps[:len(sel.steps)-1]) {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}

// ancestorsSatisfy checks the remaining steps against n's ancestor chain,
// innermost step last, any number of levels apart (descendant semantics).
func ancestorsSatisfy(n *html.Node, steps []step) bool {
	i := len(steps) - 1
	for p := n.Parent; p != nil && i >= 0; p = p.Parent {
		if p.Type == html.ElementNode && matchStep(p, steps[i]) {
			i--
		}
	}
	return i < 0
}

func matchStep(n *html.Node, st step) bool {
	if st.tag != "" && n.Data != st.tag {
		return false
	}
	for _, class := range st.classes {
		if !hasClass(n, class) {
			return false
		}
	}
	for _, at := range st.attrs {
		if !hasAttr(n, at) {
			return false
		}
	}
	return true
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func hasAttr(n *html.Node, at attrTerm) bool {
	for _, a := range n.Attr {
		if a.Key != at.key {
			continue
		}
		if !at.hasValue || a.Val == at.value {
			return true
		}
	}
	return false
}
