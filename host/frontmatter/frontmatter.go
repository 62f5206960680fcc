// Package frontmatter runs the OG image phases for generators that read page
// head entries from Markdown front matter, the way VitePress does:
//
//	head:
//	  - - meta
//	    - name: twitter:image
//	      content: https://example.com/og/guide-intro.png
//
// Pages are rewritten with the entries appended, either in place or into a
// separate destination tree that the site generator then builds.
package frontmatter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alnah/go-ogimage"
	"github.com/alnah/go-ogimage/internal/fileutil"
	"github.com/alnah/go-ogimage/internal/pipeline"
	"github.com/alnah/go-ogimage/internal/yamlutil"
)

// DefaultTemplate is the template used when Options.OGTemplate is empty,
// relative to the source directory.
const DefaultTemplate = ".vitepress/og-template.svg"

// headKey is the front matter field holding head entries.
const headKey = "head"

// File modes for rewritten pages.
const (
	dirPerm  = 0o750
	filePerm = 0o644
)

// ErrHeadField indicates a front matter head value that is not a list.
var ErrHeadField = errors.New("front matter head must be a list")

// Site locates the Markdown sources and the build output.
type Site struct {
	SrcDir  string // Markdown sources
	OutDir  string // Build output root; images go to OutDir/<outDir>
	DestDir string // Where rewritten pages are written; empty means SrcDir
}

// PageData is a page as handed to a transform hook before rendering.
type PageData struct {
	RelativePath string         // Source path relative to SrcDir, e.g. "guide/intro.md"
	Title        string         // Title found by the generator, used when front matter has none
	FrontMatter  map[string]any // Modified in place
}

// Stats summarizes a build.
type Stats struct {
	Pages   int // Pages collected with a title
	Skipped int // Pages without a title
	Written int // Pages written to DestDir
}

// Host drives one build. Create a new Host per build.
type Host struct {
	site      Site
	plugin    *ogimage.Plugin
	logger    *slog.Logger
	extractor pipeline.TitleExtractor

	// sources is filled by Collect and read by EmitHeads.
	sources []pipeline.SourceFile
}

// New resolves opts with DefaultTemplate and prepares a Host for site.
// A relative template path is resolved against site.SrcDir.
func New(site Site, opts ogimage.Options, options ...ogimage.PluginOption) (*Host, error) {
	if site.SrcDir == "" {
		return nil, fmt.Errorf("%w: source directory is required", ogimage.ErrConfig)
	}
	if site.OutDir == "" {
		return nil, fmt.Errorf("%w: output directory is required", ogimage.ErrConfig)
	}
	if site.DestDir == "" {
		site.DestDir = site.SrcDir
	}

	resolved, err := ogimage.ResolveOptions(opts, DefaultTemplate)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(resolved.OGTemplate) {
		resolved.OGTemplate = filepath.Join(site.SrcDir, resolved.OGTemplate)
	}

	plugin := ogimage.NewPlugin(resolved, options...)
	return &Host{
		site:      site,
		plugin:    plugin,
		logger:    plugin.Logger().With(slog.String("host", "frontmatter")),
		extractor: pipeline.NewGoldmarkTitleExtractor(),
	}, nil
}

// Site returns the site with defaults applied.
func (h *Host) Site() Site {
	return h.site
}

// Plugin returns the underlying phase object.
func (h *Host) Plugin() *ogimage.Plugin {
	return h.plugin
}

// Collect reads every Markdown page under SrcDir and records those with a title.
func (h *Host) Collect(ctx context.Context) (collected, skipped int, err error) {
	files, err := pipeline.DiscoverPages(h.site.SrcDir)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ogimage.ErrIO, err)
	}
	h.sources = files

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return collected, skipped, err
		}

		content, err := os.ReadFile(f.AbsPath) // #nosec G304 -- path comes from walking SrcDir
		if err != nil {
			return collected, skipped, fmt.Errorf("%w: reading %s: %v", ogimage.ErrIO, f.RelPath, err)
		}
		doc, err := pipeline.SplitFrontMatter(content)
		if err != nil {
			return collected, skipped, fmt.Errorf("%s: %w", f.RelPath, err)
		}
		fields, err := doc.ParseFrontMatter()
		if err != nil {
			return collected, skipped, fmt.Errorf("%s: %w", f.RelPath, err)
		}

		title := strings.TrimSpace(pipeline.StringField(fields, "title"))
		if title == "" {
			title = h.extractor.ExtractTitle(doc.Body)
		}

		if h.plugin.Collect(ogimage.Page{RelativePath: f.RelPath, RoutePath: RouteFor(f.RelPath), Title: title}) {
			collected++
		} else {
			skipped++
		}
	}

	h.logger.Info("collected pages",
		slog.Int("pages", collected),
		slog.Int("skipped", skipped),
		slog.String("src", h.site.SrcDir))
	return collected, skipped, nil
}

// Generate writes the images of all collected pages under OutDir.
func (h *Host) Generate(ctx context.Context) error {
	return h.plugin.Generate(ctx, h.site.OutDir)
}

// EmitHeads appends the meta entries of every collected page to its front
// matter head list and writes the page to DestDir. Entries already present are
// kept and not repeated, and so are the front matter comments. When DestDir is a
// separate tree, every Markdown page under SrcDir is written there, those without
// an image unchanged; other files such as theme config and static assets are not
// copied. It returns how many pages were written.
func (h *Host) EmitHeads(ctx context.Context) (int, error) {
	inPlace := samePath(h.site.SrcDir, h.site.DestDir)
	written := 0

	for _, f := range h.sources {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		content, err := os.ReadFile(f.AbsPath) // #nosec G304 -- path comes from walking SrcDir
		if err != nil {
			return written, fmt.Errorf("%w: reading %s: %v", ogimage.ErrIO, f.RelPath, err)
		}

		out, changed, err := h.rewrite(f, content)
		if err != nil {
			return written, err
		}
		if inPlace && !changed {
			continue
		}

		if err := writePage(filepath.Join(h.site.DestDir, filepath.FromSlash(f.RelPath)), out); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// rewrite returns content with the page's head entries added, and whether anything changed.
func (h *Host) rewrite(f pipeline.SourceFile, content []byte) ([]byte, bool, error) {
	tags := h.plugin.HeadTags(RouteFor(f.RelPath))
	if len(tags) == 0 {
		return content, false, nil
	}

	doc, err := pipeline.SplitFrontMatter(content)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", f.RelPath, err)
	}
	fields, err := doc.ParseOrderedFrontMatter()
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", f.RelPath, err)
	}

	var current any
	for _, item := range fields {
		if item.Key == headKey {
			current = item.Value
			break
		}
	}
	head, added, err := AppendHeadEntries(current, tags)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", f.RelPath, err)
	}
	if added == 0 {
		return content, false, nil
	}

	out, err := doc.SetField(headKey, head)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", f.RelPath, err)
	}
	h.logger.Debug("added head entries",
		slog.String("path", f.RelPath),
		slog.Int("entries", added))
	return out, true, nil
}

func writePage(dest string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(dest), dirPerm); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ogimage.ErrIO, filepath.Dir(dest), err)
	}
	if err := fileutil.WriteFileAtomic(dest, content, filePerm); err != nil {
		return fmt.Errorf("%w: %v", ogimage.ErrIO, err)
	}
	return nil
}

// Build runs Collect, Generate and EmitHeads in order.
func (h *Host) Build(ctx context.Context) (Stats, error) {
	var stats Stats
	var err error

	stats.Pages, stats.Skipped, err = h.Collect(ctx)
	if err != nil {
		return stats, err
	}
	if err := h.Generate(ctx); err != nil {
		return stats, err
	}
	stats.Written, err = h.EmitHeads(ctx)
	return stats, err
}

// TransformPageData collects pd and appends its head entries to pd.FrontMatter
// in memory, for hosts that pass each page through a callback before rendering.
// The image itself is written by the next Generate. It reports whether the page
// was collected; a page without a title is left untouched.
func (h *Host) TransformPageData(pd *PageData) (bool, error) {
	title := strings.TrimSpace(pipeline.StringField(pd.FrontMatter, "title"))
	if title == "" {
		title = pd.Title
	}

	route := RouteFor(pd.RelativePath)
	if !h.plugin.Collect(ogimage.Page{RelativePath: pd.RelativePath, RoutePath: route, Title: title}) {
		return false, nil
	}

	if pd.FrontMatter == nil {
		pd.FrontMatter = map[string]any{}
	}
	head, _, err := AppendHeadEntries(pd.FrontMatter[headKey], h.plugin.HeadTags(route))
	if err != nil {
		return false, fmt.Errorf("%s: %w", pd.RelativePath, err)
	}
	pd.FrontMatter[headKey] = head
	return true, nil
}

// AppendHeadEntries appends one [tag, attrs] entry per tag to head, skipping
// tags that head already holds with the same attributes. head may be nil or a
// list decoded from YAML or TOML. It returns the new list and how many entries
// were added.
func AppendHeadEntries(head any, tags []ogimage.HeadTag) ([]any, int, error) {
	var list []any
	switch v := head.(type) {
	case nil:
	case []any:
		list = v
	case [][]any:
		list = make([]any, len(v))
		for i, e := range v {
			list[i] = e
		}
	default:
		return nil, 0, fmt.Errorf("%w: got %T", ErrHeadField, head)
	}

	seen := make(map[string]bool, len(list))
	for _, entry := range list {
		if key, ok := entryKey(entry); ok {
			seen[key] = true
		}
	}

	added := 0
	for _, tag := range tags {
		entry := tagEntry(tag)
		key, _ := entryKey(entry)
		if seen[key] {
			continue
		}
		seen[key] = true
		list = append(list, entry)
		added++
	}
	return list, added, nil
}

// tagEntry builds the [tag, attrs] form, attrs ordered like the HTML output.
func tagEntry(tag ogimage.HeadTag) []any {
	attrs := make(yamlutil.MapSlice, 0, len(tag.Attrs))
	for _, a := range tag.OrderedAttrs() {
		attrs = append(attrs, yamlutil.MapItem{Key: a.Key, Value: a.Value})
	}
	return []any{tag.TagName, attrs}
}

// entryKey identifies a head entry by tag name and sorted attributes.
// Entries that are not [tag, attrs] pairs are kept but never match.
func entryKey(entry any) (string, bool) {
	pair, ok := entry.([]any)
	if !ok || len(pair) < 2 {
		return "", false
	}
	name, ok := pair[0].(string)
	if !ok {
		return "", false
	}

	var attrs []string
	switch m := pair[1].(type) {
	case yamlutil.MapSlice:
		for _, item := range m {
			attrs = append(attrs, fmt.Sprintf("%v=%v", item.Key, item.Value))
		}
	case map[string]any:
		for k, v := range m {
			attrs = append(attrs, fmt.Sprintf("%s=%v", k, v))
		}
	case map[string]string:
		for k, v := range m {
			attrs = append(attrs, k+"="+v)
		}
	default:
		return "", false
	}
	sort.Strings(attrs)
	return name + "|" + strings.Join(attrs, "|"), true
}

// RouteFor returns the route of the page at relPath (slash-separated, relative
// to SrcDir): the extension is dropped and index pages map to their directory.
//
//	RouteFor("guide/intro.md")  // "/guide/intro"
//	RouteFor("guide/index.md")  // "/guide/"
func RouteFor(relPath string) string {
	dir, file := path.Split(relPath)
	name := strings.TrimSuffix(file, path.Ext(file))
	if name == "index" {
		return "/" + dir
	}
	return "/" + dir + name
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
