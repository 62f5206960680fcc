package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks invalid command-line usage: unknown flags, bad flag values,
// or missing arguments.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// imageFlags holds the image options shared by the build commands.
// Zero values mean "not set" and leave the config value alone.
type imageFlags struct {
	domain    string
	outDir    string
	template  string
	assetPath string
	maxTitle  int
	renderer  string
	workers   int
	timeout   string
}

// hugoFlags holds all flags for the hugo command.
type hugoFlags struct {
	common     commonFlags
	image      imageFlags
	contentDir string
	publishDir string
	watch      bool
}

// frontmatterFlags holds all flags for the frontmatter command.
type frontmatterFlags struct {
	common commonFlags
	image  imageFlags
	out    string
	dest   string
	watch  bool
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common commonFlags
	image  imageFlags
	output string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show warnings and errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-page progress")
}

// addTemplateFlags adds the template and title layout flags to a FlagSet.
func addTemplateFlags(fs *flag.FlagSet, f *imageFlags) {
	fs.StringVarP(&f.template, "template", "t", "", "SVG template path or built-in name")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory with templates/<name>.svg overrides")
	fs.IntVar(&f.maxTitle, "max-title", 0, "characters per title line (0 = 30)")
}

// addRendererFlags adds the rasterizer flags to a FlagSet.
func addRendererFlags(fs *flag.FlagSet, f *imageFlags) {
	fs.StringVarP(&f.renderer, "renderer", "r", "", "rasterizer: canvas, chrome")
	fs.StringVar(&f.timeout, "timeout", "", "chrome page timeout (e.g., 30s, 2m)")
}

// addSiteFlags adds the flags every site build takes to a FlagSet.
func addSiteFlags(fs *flag.FlagSet, f *imageFlags) {
	fs.StringVarP(&f.domain, "domain", "d", "", "base URL for image URLs (required)")
	fs.StringVar(&f.outDir, "out-dir", "", "image directory under the build output (default: og)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel image jobs (0 = auto)")
	addTemplateFlags(fs, f)
	addRendererFlags(fs, f)
}

// newHugoFlagSet registers the hugo command flags into f.
func newHugoFlagSet(f *hugoFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("hugo", flag.ContinueOnError)
	fs.StringVar(&f.contentDir, "content-dir", "", "content directory (default: <site>/content)")
	fs.StringVar(&f.publishDir, "publish-dir", "", "built site directory (default: <site>/public)")
	fs.BoolVar(&f.watch, "watch", false, "rebuild when content or the template changes")
	addSiteFlags(fs, &f.image)
	addCommonFlags(fs, &f.common)
	return fs
}

// newFrontmatterFlagSet registers the frontmatter command flags into f.
func newFrontmatterFlagSet(f *frontmatterFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("frontmatter", flag.ContinueOnError)
	fs.StringVar(&f.out, "out", "", "build output directory that receives the images")
	fs.StringVar(&f.dest, "dest", "", "directory for rewritten pages (default: rewrite in place)")
	fs.BoolVar(&f.watch, "watch", false, "rebuild when sources or the template change")
	addSiteFlags(fs, &f.image)
	addCommonFlags(fs, &f.common)
	return fs
}

// newRenderFlagSet registers the render command flags into f.
func newRenderFlagSet(f *renderFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.StringVarP(&f.output, "output", "o", "", "PNG file to write (default: og.png)")
	addTemplateFlags(fs, &f.image)
	addRendererFlags(fs, &f.image)
	addCommonFlags(fs, &f.common)
	return fs
}

// parseFlagSet parses args with fs, silencing pflag's own output.
// Parse errors wrap ErrUsage; --help returns flag.ErrHelp unchanged.
func parseFlagSet(fs *flag.FlagSet, args []string) ([]string, error) {
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return fs.Args(), nil
}

// parseHugoFlags parses hugo command flags and returns positional args.
func parseHugoFlags(args []string) (*hugoFlags, []string, error) {
	f := &hugoFlags{}
	rest, err := parseFlagSet(newHugoFlagSet(f), args)
	if err != nil {
		return nil, nil, err
	}
	return f, rest, nil
}

// parseFrontmatterFlags parses frontmatter command flags and returns positional args.
func parseFrontmatterFlags(args []string) (*frontmatterFlags, []string, error) {
	f := &frontmatterFlags{}
	rest, err := parseFlagSet(newFrontmatterFlagSet(f), args)
	if err != nil {
		return nil, nil, err
	}
	return f, rest, nil
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string) (*renderFlags, []string, error) {
	f := &renderFlags{}
	rest, err := parseFlagSet(newRenderFlagSet(f), args)
	if err != nil {
		return nil, nil, err
	}
	return f, rest, nil
}
