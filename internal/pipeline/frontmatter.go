package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/alnah/go-ogimage/internal/yamlutil"
)

// Sentinel errors for front matter handling.
var (
	ErrFrontMatterUnclosed = errors.New("front matter closing delimiter is missing")
	ErrFrontMatterParse    = errors.New("front matter parse failed")
)

// Format identifies the front matter syntax of a page.
type Format int

// Front matter formats.
const (
	FormatNone Format = iota
	FormatYAML        // --- delimited
	FormatTOML        // +++ delimited
)

func (f Format) delimiter() string {
	switch f {
	case FormatYAML:
		return "---"
	case FormatTOML:
		return "+++"
	default:
		return ""
	}
}

// Document is a page split into front matter and body.
type Document struct {
	Format      Format
	FrontMatter []byte // Raw front matter without delimiters
	Body        []byte
	Newline     string // "\n" or "\r\n", detected from the input
}

// SplitFrontMatter separates front matter from the Markdown body.
// A document that does not open with "---" or "+++" has FormatNone and the whole
// input as body.
func SplitFrontMatter(content []byte) (Document, error) {
	nl := detectNewline(content)
	doc := Document{Body: content, Newline: nl}

	for _, f := range []Format{FormatYAML, FormatTOML} {
		delim := f.delimiter()
		open := []byte(delim + nl)
		if !bytes.HasPrefix(content, open) {
			continue
		}

		start := len(open)
		closing := []byte(delim + nl)
		if bytes.HasPrefix(content[start:], closing) {
			return Document{Format: f, FrontMatter: []byte{}, Body: content[start+len(closing):], Newline: nl}, nil
		}

		closeSeq := []byte(nl + delim + nl)
		idx := bytes.Index(content[start:], closeSeq)
		if idx < 0 {
			// A closing delimiter at end of file has no trailing newline.
			if bytes.HasSuffix(content, []byte(nl+delim)) {
				end := len(content) - len(nl+delim)
				return Document{Format: f, FrontMatter: content[start : end+len(nl)], Body: []byte{}, Newline: nl}, nil
			}
			return Document{}, ErrFrontMatterUnclosed
		}

		end := start + idx + len(nl)
		return Document{Format: f, FrontMatter: content[start:end], Body: content[start+idx+len(closeSeq):], Newline: nl}, nil
	}

	return doc, nil
}

// ParseFrontMatter decodes the document's front matter into a map.
// Empty or absent front matter yields an empty map.
func (d Document) ParseFrontMatter() (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(d.FrontMatter)) == 0 {
		return fields, nil
	}

	switch d.Format {
	case FormatYAML:
		if err := yamlutil.Unmarshal(d.FrontMatter, &fields); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFrontMatterParse, err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(d.FrontMatter, &fields); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFrontMatterParse, err)
		}
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// ParseOrderedFrontMatter decodes the front matter keeping the author's key order,
// for pages that are written back. TOML keys come back sorted, since the TOML
// decoder does not report source order.
func (d Document) ParseOrderedFrontMatter() (yamlutil.MapSlice, error) {
	if len(bytes.TrimSpace(d.FrontMatter)) == 0 {
		return yamlutil.MapSlice{}, nil
	}

	if d.Format == FormatYAML {
		fields, err := yamlutil.UnmarshalOrdered(d.FrontMatter)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFrontMatterParse, err)
		}
		return fields, nil
	}

	fields, err := d.ParseFrontMatter()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ordered := make(yamlutil.MapSlice, 0, len(keys))
	for _, k := range keys {
		ordered = append(ordered, yamlutil.MapItem{Key: k, Value: fields[k]})
	}
	return ordered, nil
}

// JoinFrontMatter reassembles a page from YAML front matter fields and body.
// fields is a map or a yamlutil.MapSlice. Output always uses YAML; a TOML source
// is converted.
func JoinFrontMatter(fields any, body []byte, newline string) ([]byte, error) {
	raw, err := yamlutil.Marshal(fields)
	if err != nil {
		return nil, err
	}
	return joinRaw(raw, body, newline), nil
}

// SetField returns the page with key set to value in its front matter.
// YAML front matter is edited in place, so the author's comments and the other
// keys are kept as written. TOML front matter is converted to YAML.
func (d Document) SetField(key string, value any) ([]byte, error) {
	if d.Format == FormatYAML {
		raw := d.FrontMatter
		if d.Newline != "\n" {
			raw = bytes.ReplaceAll(raw, []byte(d.Newline), []byte("\n"))
		}
		out, err := yamlutil.SetTopLevel(raw, key, value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFrontMatterParse, err)
		}
		return joinRaw(out, d.Body, d.Newline), nil
	}

	fields, err := d.ParseOrderedFrontMatter()
	if err != nil {
		return nil, err
	}
	replaced := false
	for i := range fields {
		if fields[i].Key == key {
			fields[i].Value = value
			replaced = true
			break
		}
	}
	if !replaced {
		fields = append(fields, yamlutil.MapItem{Key: key, Value: value})
	}
	return JoinFrontMatter(fields, d.Body, d.Newline)
}

// joinRaw wraps LF-terminated YAML in "---" delimiters using newline.
func joinRaw(raw, body []byte, newline string) []byte {
	if newline == "" {
		newline = "\n"
	}
	if newline != "\n" {
		raw = bytes.ReplaceAll(raw, []byte("\n"), []byte(newline))
	}

	var buf bytes.Buffer
	buf.Grow(len(raw) + len(body) + 8)
	buf.WriteString("---" + newline)
	buf.Write(raw)
	if len(raw) > 0 && !bytes.HasSuffix(raw, []byte(newline)) {
		buf.WriteString(newline)
	}
	buf.WriteString("---" + newline)
	buf.Write(body)
	return buf.Bytes()
}

// StringField returns fields[key] if it is a string, and "" otherwise.
func StringField(fields map[string]any, key string) string {
	if s, ok := fields[key].(string); ok {
		return s
	}
	return ""
}

// BoolField returns fields[key] if it is a bool, and false otherwise.
func BoolField(fields map[string]any, key string) bool {
	b, _ := fields[key].(bool)
	return b
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
