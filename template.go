package ogimage

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// TitlePlaceholder is replaced by the wrapped title, one <text> element per line.
const TitlePlaceholder = "{{title}}"

// LineHeight is the vertical distance in SVG user units between title lines.
const LineHeight = 72

// placeholderPattern matches {{title}} and the per-line placeholders {{line1}}, {{line2}}, ...
var placeholderPattern = regexp.MustCompile(`\{\{\s*(title|line(\d+))\s*\}\}`)

// RenderTemplate reads the SVG template at templatePath and substitutes the wrapped title.
// Returns an error wrapping ErrTemplateNotFound if the template cannot be read.
func RenderTemplate(title, templatePath string, opts ResolvedOptions) (string, error) {
	content, err := os.ReadFile(templatePath) // #nosec G304 -- template path is user configuration
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, templatePath, err)
	}
	return RenderTemplateString(title, string(content), opts), nil
}

// RenderTemplateString substitutes the wrapped title into template content.
//
// {{title}} becomes a stack of <text> elements starting at y=0 and advancing by
// LineHeight; position and font come from the enclosing markup. {{lineN}} becomes the
// escaped text of line N, or nothing if the title has fewer lines. A template without
// placeholders is returned unchanged.
func RenderTemplateString(title, template string, opts ResolvedOptions) string {
	lines := WrapTitle(title, opts.MaxTitleSizePerLine)

	// Single pass: title text that looks like a placeholder is never expanded.
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		sub := placeholderPattern.FindStringSubmatch(match)
		if sub[1] == "title" {
			return titleMarkup(lines)
		}
		n, err := strconv.Atoi(sub[2])
		if err != nil || n < 1 || n > len(lines) {
			return ""
		}
		return escapeText(lines[n-1])
	})
}

// titleMarkup emits one <text> element per line.
func titleMarkup(lines []string) string {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	for i, line := range lines {
		canvas.Text(0, i*LineHeight, line)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// escapeText escapes s for use as SVG character data.
func escapeText(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
