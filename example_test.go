package ogimage_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-ogimage"
)

// Example walks one build through the three plugin phases.
func Example() {
	dir, err := os.MkdirTemp("", "ogimage-example-*")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer os.RemoveAll(dir)

	// A template without text keeps the example independent of installed fonts.
	tmpl := filepath.Join(dir, "og-template.svg")
	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="1200" height="630"><rect width="1200" height="630" fill="#111"/></svg>`
	if err := os.WriteFile(tmpl, []byte(svg), 0o600); err != nil {
		fmt.Println("error:", err)
		return
	}

	opts, err := ogimage.ResolveOptions(ogimage.Options{Domain: "https://example.com"}, tmpl)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	plugin := ogimage.NewPlugin(opts)
	plugin.Collect(ogimage.Page{RelativePath: "guide/intro.md", RoutePath: "/guide/intro", Title: "Getting Started"})

	buildRoot := filepath.Join(dir, "public")
	if err := plugin.Generate(context.Background(), buildRoot); err != nil {
		fmt.Println("error:", err)
		return
	}

	if _, err := os.Stat(filepath.Join(buildRoot, "og", "guide-intro.png")); err == nil {
		fmt.Println("wrote og/guide-intro.png")
	}
	fmt.Println(plugin.HeadTags("/guide/intro")[0])
	// Output:
	// wrote og/guide-intro.png
	// <meta name="twitter:image" content="https://example.com/og/guide-intro.png">
}

func ExampleWrapTitle() {
	for _, line := range ogimage.WrapTitle("The quick brown fox jumps over the lazy dog", 15) {
		fmt.Println(line)
	}
	// Output:
	// The quick brown
	// fox jumps over
	// the lazy dog
}

func ExampleRenderTemplateString() {
	opts := ogimage.ResolvedOptions{MaxTitleSizePerLine: 10}
	out := ogimage.RenderTemplateString("Hello Open Graph", `<svg>{{line1}}|{{line2}}</svg>`, opts)
	fmt.Println(out)
	// Output: <svg>Hello Open|Graph</svg>
}

func ExampleBuildHeadTags() {
	tags := ogimage.BuildHeadTags("https://example.com/og/a.png")
	fmt.Println(ogimage.RenderHeadTags(tags))
	// Output:
	// <meta name="twitter:image" content="https://example.com/og/a.png">
	// <meta name="twitter:card" content="summary_large_image">
	// <meta property="og:image" content="https://example.com/og/a.png">
	// <meta property="og:image:width" content="1200">
	// <meta property="og:image:height" content="630">
	// <meta property="og:image:type" content="image/png">
}

func ExampleSlugifyPath() {
	fmt.Println(ogimage.SlugifyPath("guide/intro.md"))
	// Output: guide-intro.png
}

// ExampleRasterizerPool shares rasterizers across several plugins.
func ExampleRasterizerPool() {
	pool := ogimage.NewRasterizerPool(ogimage.ResolvePoolSize(2), func() (ogimage.Rasterizer, error) {
		return ogimage.NewRasterizer(ogimage.RendererCanvas)
	})
	defer pool.Close()

	r, err := pool.Acquire()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer pool.Release(r)

	png, err := r.Rasterize(context.Background(), `<svg xmlns="http://www.w3.org/2000/svg" width="1200" height="630"><rect width="1200" height="630" fill="#fff"/></svg>`)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(strings.HasPrefix(string(png), "\x89PNG"))
	// Output: true
}
