// Package ogimage generates Open Graph preview images for static-site pages.
//
// Each page title is wrapped over several lines, substituted into an SVG
// template, rasterized to a 1200×630 PNG, and announced through Twitter and
// Open Graph meta tags in the page head.
//
// # Quick Start
//
// Resolve options, create a Plugin for the build, then drive its three phases:
//
//	opts, err := ogimage.ResolveOptions(ogimage.Options{
//	    Domain: "https://example.com",
//	}, "assets/og-template.svg")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	plugin := ogimage.NewPlugin(opts)
//	plugin.Collect(ogimage.Page{
//	    RelativePath: "guide/intro.md",
//	    RoutePath:    "/guide/intro/",
//	    Title:        "Getting Started",
//	})
//	if err := plugin.Generate(ctx, "public"); err != nil {
//	    log.Fatal(err) // public/og/guide-intro.png was not written
//	}
//	tags := plugin.HeadTags("/guide/intro/")
//	fmt.Println(ogimage.RenderHeadTags(tags))
//
// Pages without a title are skipped with a warning and get no tags.
// A failed image fails Generate as a whole.
//
// # Templates
//
// Templates are SVG files. The {{title}} placeholder becomes one <text>
// element per wrapped line, LineHeight units apart, starting at y=0.
// Position and style the block with an enclosing group:
//
//	<g transform="translate(80 260)" font-family="sans-serif" font-size="64">
//	  {{title}}
//	</g>
//
// {{line1}}, {{line2}} and so on expand to the text of a single line.
//
// # Rasterizers
//
// CanvasRasterizer is pure Go and the default. ChromeRasterizer renders with
// headless Chrome through go-rod for full browser font support:
//
//	plugin := ogimage.NewPlugin(opts,
//	    ogimage.WithRasterizerFactory(func() (ogimage.Rasterizer, error) {
//	        return ogimage.NewChromeRasterizer(), nil
//	    }),
//	    ogimage.WithWorkers(4),
//	)
//
// # Hosts
//
// Packages host/hugo and host/frontmatter drive a Plugin over a Hugo site and
// over Markdown pages with a front-matter head list.
//
// # Error Handling
//
// Errors wrap sentinels that can be checked with errors.Is:
//
//	ErrConfig           - missing domain or invalid option
//	ErrTemplateNotFound - template file missing or unreadable
//	ErrRasterization    - composed SVG rejected by the rasterizer
//	ErrIO               - output directory or file could not be written
//	ErrBrowserConnect   - Chrome could not be started
//
// Generate returns a *GenerateError carrying the failing route and path.
package ogimage
