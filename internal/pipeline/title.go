package pipeline

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// TitleExtractor finds a page title in Markdown.
type TitleExtractor interface {
	ExtractTitle(markdown []byte) string
}

// GoldmarkTitleExtractor reads the first level-1 heading using goldmark (pure Go).
type GoldmarkTitleExtractor struct {
	md goldmark.Markdown
}

// NewGoldmarkTitleExtractor creates a GoldmarkTitleExtractor with GFM extensions,
// so headings containing strikethrough or autolinks parse the way sites render them.
func NewGoldmarkTitleExtractor() *GoldmarkTitleExtractor {
	return &GoldmarkTitleExtractor{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// ExtractTitle returns the plain text of the first level-1 heading, or "" if none.
// Inline markup is dropped: "# Hello *World*" yields "Hello World".
func (e *GoldmarkTitleExtractor) ExtractTitle(markdown []byte) string {
	doc := e.md.Parser().Parse(text.NewReader(markdown))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			title = strings.Join(strings.Fields(plainText(h, markdown)), " ")
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}

// plainText concatenates the text content of n's descendants.
func plainText(n ast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		default:
			b.WriteString(plainText(c, source))
		}
	}
	return b.String()
}
