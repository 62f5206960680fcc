// Package hugo runs the OG image phases over a Hugo site: it collects pages
// from the content directory, writes images into the publish directory after
// `hugo` has built it, and injects the meta tags into the built HTML.
package hugo

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/alnah/go-ogimage"
	"github.com/alnah/go-ogimage/internal/fileutil"
	"github.com/alnah/go-ogimage/internal/pipeline"
)

// DefaultTemplate is the template used when Options.OGTemplate is empty,
// relative to the site root.
const DefaultTemplate = "assets/og-template.svg"

// Default site directories, relative to the site root.
const (
	DefaultContentDir = "content"
	DefaultPublishDir = "public"
)

// Site locates a Hugo project. Relative ContentDir and PublishDir are resolved
// against Root; an empty Root is the current directory.
type Site struct {
	Root       string
	ContentDir string
	PublishDir string
}

// Stats summarizes a build.
type Stats struct {
	Pages    int // Pages collected with a title
	Skipped  int // Drafts and pages without a title
	Injected int // HTML files that received tags
}

// Host drives one Hugo build. Create a new Host per build.
type Host struct {
	site      Site
	plugin    *ogimage.Plugin
	logger    *slog.Logger
	extractor pipeline.TitleExtractor
	injector  pipeline.HeadInjector
}

// New resolves opts with DefaultTemplate and prepares a Host for site.
// A relative template path is resolved against site.Root.
func New(site Site, opts ogimage.Options, options ...ogimage.PluginOption) (*Host, error) {
	site = site.withDefaults()

	resolved, err := ogimage.ResolveOptions(opts, DefaultTemplate)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(resolved.OGTemplate) {
		resolved.OGTemplate = filepath.Join(site.Root, resolved.OGTemplate)
	}

	plugin := ogimage.NewPlugin(resolved, options...)
	return &Host{
		site:      site,
		plugin:    plugin,
		logger:    plugin.Logger().With(slog.String("host", "hugo")),
		extractor: pipeline.NewGoldmarkTitleExtractor(),
		injector:  &pipeline.HeadInjection{},
	}, nil
}

func (s Site) withDefaults() Site {
	if s.Root == "" {
		s.Root = "."
	}
	if s.ContentDir == "" {
		s.ContentDir = DefaultContentDir
	}
	if s.PublishDir == "" {
		s.PublishDir = DefaultPublishDir
	}
	if !filepath.IsAbs(s.ContentDir) {
		s.ContentDir = filepath.Join(s.Root, s.ContentDir)
	}
	if !filepath.IsAbs(s.PublishDir) {
		s.PublishDir = filepath.Join(s.Root, s.PublishDir)
	}
	return s
}

// Site returns the site with defaults applied and directories resolved.
func (h *Host) Site() Site {
	return h.site
}

// Plugin returns the underlying phase object.
func (h *Host) Plugin() *ogimage.Plugin {
	return h.plugin
}

// Collect reads every Markdown page under the content directory and records
// those with a title. Drafts are skipped. It returns how many pages were
// collected and skipped.
func (h *Host) Collect(ctx context.Context) (collected, skipped int, err error) {
	files, err := pipeline.DiscoverPages(h.site.ContentDir)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ogimage.ErrIO, err)
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return collected, skipped, err
		}

		ok, err := h.collectFile(f)
		if err != nil {
			return collected, skipped, err
		}
		if ok {
			collected++
		} else {
			skipped++
		}
	}

	h.logger.Info("collected pages",
		slog.Int("pages", collected),
		slog.Int("skipped", skipped),
		slog.String("content", h.site.ContentDir))
	return collected, skipped, nil
}

func (h *Host) collectFile(f pipeline.SourceFile) (bool, error) {
	content, err := os.ReadFile(f.AbsPath) // #nosec G304 -- path comes from walking the content dir
	if err != nil {
		return false, fmt.Errorf("%w: reading %s: %v", ogimage.ErrIO, f.RelPath, err)
	}

	doc, err := pipeline.SplitFrontMatter(content)
	if err != nil {
		return false, fmt.Errorf("%s: %w", f.RelPath, err)
	}
	fields, err := doc.ParseFrontMatter()
	if err != nil {
		return false, fmt.Errorf("%s: %w", f.RelPath, err)
	}

	if pipeline.BoolField(fields, "draft") {
		h.logger.Info("skipping draft", slog.String("path", f.RelPath))
		return false, nil
	}

	title := strings.TrimSpace(pipeline.StringField(fields, "title"))
	if title == "" {
		title = h.extractor.ExtractTitle(doc.Body)
	}

	return h.plugin.Collect(ogimage.Page{
		RelativePath: f.RelPath,
		RoutePath:    RouteFor(f.RelPath, fields),
		Title:        title,
	}), nil
}

// Generate writes the images of all collected pages under the publish directory.
func (h *Host) Generate(ctx context.Context) error {
	return h.plugin.Generate(ctx, h.site.PublishDir)
}

// EmitHeads injects the meta tags of every collected page into its built HTML
// and returns how many files changed. Tags already present with the same
// content are not added again. Routes without built HTML are logged and skipped.
func (h *Host) EmitHeads(ctx context.Context) (int, error) {
	injected := 0
	for _, rec := range h.plugin.Pages() {
		if err := ctx.Err(); err != nil {
			return injected, err
		}

		changed, err := h.emitHead(rec)
		if err != nil {
			return injected, err
		}
		if changed {
			injected++
		}
	}
	return injected, nil
}

func (h *Host) emitHead(rec ogimage.PageRecord) (bool, error) {
	htmlPath := h.HTMLPath(rec.RoutePath)
	info, err := os.Stat(htmlPath)
	if err != nil {
		h.logger.Warn("no built HTML for page, run hugo first",
			slog.String("route", rec.RoutePath),
			slog.String("path", htmlPath))
		return false, nil
	}

	content, err := os.ReadFile(htmlPath) // #nosec G304 -- path is derived from the publish dir
	if err != nil {
		return false, fmt.Errorf("%w: reading %s: %v", ogimage.ErrIO, htmlPath, err)
	}

	existing, err := pipeline.HeadMeta(string(content))
	if err != nil {
		return false, fmt.Errorf("%w: parsing %s: %v", ogimage.ErrIO, htmlPath, err)
	}

	var missing []ogimage.HeadTag
	for _, tag := range h.plugin.HeadTags(rec.RoutePath) {
		if !pipeline.HasMeta(existing, tag.Key(), tag.Attrs["content"]) {
			missing = append(missing, tag)
		}
	}
	if len(missing) == 0 {
		return false, nil
	}

	out := h.injector.InjectHead(string(content), ogimage.RenderHeadTags(missing))
	if err := fileutil.WriteFileAtomic(htmlPath, []byte(out), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("%w: %v", ogimage.ErrIO, err)
	}

	h.logger.Debug("injected head tags",
		slog.String("route", rec.RoutePath),
		slog.Int("tags", len(missing)))
	return true, nil
}

// Build runs Collect, Generate and EmitHeads in order. The site must already
// have been built by hugo so the publish directory holds its HTML.
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
	stats.Injected, err = h.EmitHeads(ctx)
	return stats, err
}

// HTMLPath returns the built HTML file for route under the publish directory.
func (h *Host) HTMLPath(route string) string {
	rel := filepath.FromSlash(strings.TrimPrefix(route, "/"))
	if path.Ext(route) == ".html" {
		return filepath.Join(h.site.PublishDir, rel)
	}
	return filepath.Join(h.site.PublishDir, rel, "index.html")
}

// RouteFor returns the Hugo URL of the page at relPath (slash-separated,
// relative to the content directory) with front matter fields.
//
// Paths are lower-cased with spaces turned into "-". index.md and _index.md
// map to their directory. Front matter "url" replaces the whole route and
// "slug" replaces the last segment of a regular page or leaf bundle.
//
//	RouteFor("posts/My Post.md", nil)    // "/posts/my-post/"
//	RouteFor("posts/_index.md", nil)     // "/posts/"
func RouteFor(relPath string, fields map[string]any) string {
	if u := strings.TrimSpace(pipeline.StringField(fields, "url")); u != "" {
		return normalizeURL(u)
	}

	dir, file := path.Split(relPath)
	name := strings.TrimSuffix(file, path.Ext(file))

	var segments []string
	if dir = strings.Trim(dir, "/"); dir != "" {
		segments = strings.Split(dir, "/")
	}
	if name != "index" && name != "_index" {
		segments = append(segments, name)
	}

	slug := strings.TrimSpace(pipeline.StringField(fields, "slug"))
	if slug != "" && name != "_index" && len(segments) > 0 {
		segments[len(segments)-1] = slug
	}

	if len(segments) == 0 {
		return "/"
	}
	for i, s := range segments {
		segments[i] = urlize(s)
	}
	return "/" + strings.Join(segments, "/") + "/"
}

func urlize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), "-"))
}

// normalizeURL gives an explicit url a leading slash and, unless it names an
// .html file, a trailing one.
func normalizeURL(u string) string {
	u = "/" + strings.Trim(u, "/")
	if u == "/" || path.Ext(u) == ".html" {
		return u
	}
	return u + "/"
}
