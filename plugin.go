package ogimage

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Page is what a host knows about a content page when collecting it.
type Page struct {
	RelativePath string // Source path relative to the content root, e.g. "guide/intro.md"
	RoutePath    string // Site-relative URL path, e.g. "/guide/intro"
	Title        string
}

// PageRecord is the per-route data computed during Collect.
type PageRecord struct {
	RoutePath string
	Title     string
	ImageName string // e.g. "guide-intro.png"
	ImageURL  string // e.g. "https://example.com/og/guide-intro.png"
}

// Plugin carries one build through its three phases: Collect for every page,
// Generate once, then HeadTags per route. Create a new Plugin for each build;
// instances share no state.
type Plugin struct {
	opts    ResolvedOptions
	logger  *slog.Logger
	pool    *RasterizerPool
	factory RasterizerFactory
	workers int

	mu      sync.RWMutex
	records map[string]PageRecord
}

// PluginOption configures a Plugin.
type PluginOption func(*Plugin)

// WithLogger sets the logger used for warnings and progress.
// The default discards all output.
func WithLogger(logger *slog.Logger) PluginOption {
	return func(p *Plugin) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRasterizerFactory sets how Generate creates rasterizers.
// The default creates CanvasRasterizer instances.
func WithRasterizerFactory(factory RasterizerFactory) PluginOption {
	return func(p *Plugin) {
		p.factory = factory
	}
}

// WithPool makes Generate use an existing pool. The caller keeps ownership and
// must close it; WithRasterizerFactory and WithWorkers are then ignored.
func WithPool(pool *RasterizerPool) PluginOption {
	return func(p *Plugin) {
		p.pool = pool
	}
}

// WithWorkers sets the number of concurrent image jobs.
// Zero or less selects ResolvePoolSize's automatic value.
func WithWorkers(n int) PluginOption {
	return func(p *Plugin) {
		p.workers = n
	}
}

// NewPlugin creates a Plugin for one build with already resolved options.
func NewPlugin(opts ResolvedOptions, options ...PluginOption) *Plugin {
	p := &Plugin{
		opts:    opts,
		logger:  slog.New(slog.DiscardHandler),
		records: make(map[string]PageRecord),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Logger returns the logger the plugin reports through, for hosts that log
// alongside it.
func (p *Plugin) Logger() *slog.Logger {
	return p.logger
}

// Options returns the resolved options the plugin was created with.
func (p *Plugin) Options() ResolvedOptions {
	return p.opts
}

// Collect records page for image generation and reports whether it was recorded.
// A page without a title is skipped with a warning: no image name or URL is
// computed and its route later gets no head tags. Collecting a route again
// replaces the earlier record.
func (p *Plugin) Collect(page Page) bool {
	title := strings.TrimSpace(page.Title)
	if title == "" {
		p.logger.Warn("page has no title, skipping OG image",
			slog.String("route", page.RoutePath),
			slog.String("path", page.RelativePath))
		return false
	}

	imageName := SlugifyPath(page.RelativePath)
	imageURL, err := url.JoinPath(p.opts.Domain, p.opts.OutDir, imageName)
	if err != nil {
		p.logger.Warn("cannot build image URL, skipping OG image",
			slog.String("route", page.RoutePath),
			slog.Any("error", err))
		return false
	}

	p.mu.Lock()
	p.records[page.RoutePath] = PageRecord{
		RoutePath: page.RoutePath,
		Title:     title,
		ImageName: imageName,
		ImageURL:  imageURL,
	}
	p.mu.Unlock()

	p.logger.Debug("collected page",
		slog.String("route", page.RoutePath),
		slog.String("image", imageName))
	return true
}

// Record returns the stored record for route.
func (p *Plugin) Record(route string) (PageRecord, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	rec, ok := p.records[route]
	return rec, ok
}

// Pages returns all collected records sorted by route path.
func (p *Plugin) Pages() []PageRecord {
	p.mu.RLock()
	pages := make([]PageRecord, 0, len(p.records))
	for _, rec := range p.records {
		pages = append(pages, rec)
	}
	p.mu.RUnlock()

	sort.Slice(pages, func(i, j int) bool {
		return pages[i].RoutePath < pages[j].RoutePath
	})
	return pages
}

// ImagePath returns where Generate writes the image for rec under buildRoot.
func (p *Plugin) ImagePath(buildRoot string, rec PageRecord) string {
	return filepath.Join(buildRoot, p.opts.OutDir, rec.ImageName)
}

// Generate renders and writes the image of every collected page under
// <buildRoot>/<outDir>/. Pages are processed concurrently, bounded by the
// rasterizer pool size. The first failure cancels the remaining work and is
// returned as a *GenerateError; the build must not continue with a partial set.
func (p *Plugin) Generate(ctx context.Context, buildRoot string) error {
	pages := p.Pages()
	if len(pages) == 0 {
		p.logger.Info("no pages to generate")
		return nil
	}

	template, err := os.ReadFile(p.opts.OGTemplate) // #nosec G304 -- template path is user configuration
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, p.opts.OGTemplate, err)
	}

	pool := p.pool
	if pool == nil {
		pool = NewRasterizerPool(ResolvePoolSize(p.workers), p.factory)
		defer func() {
			if closeErr := pool.Close(); closeErr != nil {
				p.logger.Warn("closing rasterizers", slog.Any("error", closeErr))
			}
		}()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pool.Size())

	for _, rec := range pages {
		dest := p.ImagePath(buildRoot, rec)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := p.generateOne(gctx, pool, string(template), rec, dest); err != nil {
				return &GenerateError{Route: rec.RoutePath, Path: dest, Err: err}
			}
			p.logger.Debug("generated OG image",
				slog.String("route", rec.RoutePath),
				slog.String("path", dest))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	p.logger.Info("generated OG images",
		slog.Int("count", len(pages)),
		slog.String("dir", filepath.Join(buildRoot, p.opts.OutDir)))
	return nil
}

func (p *Plugin) generateOne(ctx context.Context, pool *RasterizerPool, template string, rec PageRecord, dest string) error {
	svgContent := RenderTemplateString(rec.Title, template, p.opts)

	r, err := pool.Acquire()
	if err != nil {
		return err
	}
	defer pool.Release(r)

	return GenerateImage(ctx, r, svgContent, dest)
}

// HeadTags returns the meta tags for route, or nil if no image was collected for it.
func (p *Plugin) HeadTags(route string) []HeadTag {
	rec, ok := p.Record(route)
	if !ok {
		return nil
	}
	return BuildHeadTags(rec.ImageURL)
}
