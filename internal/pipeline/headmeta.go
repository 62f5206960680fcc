package pipeline

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MetaTag is a <meta> element keyed by its name or property attribute.
type MetaTag struct {
	Key     string // Value of name or property
	Content string
}

// HeadMeta returns the keyed <meta> elements of an HTML document or fragment,
// in document order. Meta elements without name or property are ignored.
func HeadMeta(htmlContent string) ([]MetaTag, error) {
	doc, _, err := parseHTML(htmlContent)
	if err != nil {
		return nil, err
	}

	var tags []MetaTag
	collectMeta(doc, &tags)
	return tags, nil
}

// HasMeta reports whether tags contain key with exactly content.
func HasMeta(tags []MetaTag, key, content string) bool {
	for _, t := range tags {
		if t.Key == key && t.Content == content {
			return true
		}
	}
	return false
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Returns the parsed node, whether it was a fragment, and any error.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	// Full document: starts with <!DOCTYPE or <html
	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Fragment: parse with head context so <meta> stays a <meta>
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Head,
		Data:     "head",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, true, err
	}

	// Wrap nodes in a container for uniform traversal
	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	return container, true, nil
}

// collectMeta traverses the DOM and appends keyed meta elements.
func collectMeta(n *html.Node, tags *[]MetaTag) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Meta {
		var key, content string
		for _, attr := range n.Attr {
			switch strings.ToLower(attr.Key) {
			case "name", "property":
				if key == "" {
					key = attr.Val
				}
			case "content":
				content = attr.Val
			}
		}
		if key != "" {
			*tags = append(*tags, MetaTag{Key: key, Content: content})
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectMeta(c, tags)
	}
}
