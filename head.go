package ogimage

import (
	"html"
	"sort"
	"strconv"
	"strings"
)

// Open Graph image dimensions and type.
const (
	ImageWidth  = 1200
	ImageHeight = 630
	ImageType   = "image/png"
)

// TwitterCardType is the card type announced for pages with a generated image.
const TwitterCardType = "summary_large_image"

// HeadTag describes a single element to add to a page head.
type HeadTag struct {
	TagName string
	Attrs   map[string]string
}

// BuildHeadTags returns the Twitter and Open Graph meta tags for imageURL in a fixed
// order: twitter:image, twitter:card, og:image, og:image:width, og:image:height,
// og:image:type. An empty imageURL yields no tags.
func BuildHeadTags(imageURL string) []HeadTag {
	if imageURL == "" {
		return nil
	}
	return []HeadTag{
		metaName("twitter:image", imageURL),
		metaName("twitter:card", TwitterCardType),
		metaProperty("og:image", imageURL),
		metaProperty("og:image:width", strconv.Itoa(ImageWidth)),
		metaProperty("og:image:height", strconv.Itoa(ImageHeight)),
		metaProperty("og:image:type", ImageType),
	}
}

func metaName(name, content string) HeadTag {
	return HeadTag{TagName: "meta", Attrs: map[string]string{"name": name, "content": content}}
}

func metaProperty(property, content string) HeadTag {
	return HeadTag{TagName: "meta", Attrs: map[string]string{"property": property, "content": content}}
}

// leadingAttrs are written first, in this order, so output is stable and readable.
var leadingAttrs = []string{"name", "property", "content"}

// Attr is a single attribute of a HeadTag.
type Attr struct {
	Key   string
	Value string
}

// OrderedAttrs returns the tag's attributes in output order: name/property,
// content, then the rest sorted by key.
func (t HeadTag) OrderedAttrs() []Attr {
	attrs := make([]Attr, 0, len(t.Attrs))
	seen := make(map[string]bool, len(leadingAttrs))
	for _, key := range leadingAttrs {
		if v, ok := t.Attrs[key]; ok {
			attrs = append(attrs, Attr{Key: key, Value: v})
			seen[key] = true
		}
	}

	rest := make([]string, 0, len(t.Attrs))
	for key := range t.Attrs {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		attrs = append(attrs, Attr{Key: key, Value: t.Attrs[key]})
	}
	return attrs
}

// Key returns the name or property the tag is identified by.
func (t HeadTag) Key() string {
	if v, ok := t.Attrs["name"]; ok {
		return v
	}
	return t.Attrs["property"]
}

// String renders the tag as a void HTML element with attributes in OrderedAttrs order.
func (t HeadTag) String() string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(t.TagName)
	for _, a := range t.OrderedAttrs() {
		writeAttr(&b, a.Key, a.Value)
	}
	b.WriteString(">")
	return b.String()
}

func writeAttr(b *strings.Builder, key, value string) {
	b.WriteString(" ")
	b.WriteString(key)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(value))
	b.WriteString(`"`)
}

// RenderHeadTags renders tags as HTML, one element per line.
func RenderHeadTags(tags []HeadTag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = t.String()
	}
	return strings.Join(parts, "\n")
}
