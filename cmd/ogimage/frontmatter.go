package main

import (
	"context"
	"fmt"
	"io"

	"github.com/alnah/go-ogimage/host/frontmatter"
)

// runFrontmatter builds the images of a Markdown source tree and writes the
// head entries into each page's front matter.
func runFrontmatter(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseFrontmatterFlags(args)
	if err != nil {
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: frontmatter takes one source directory, got %d arguments", ErrUsage, len(positional))
	}

	setup, err := setupBuild(flags.common, &flags.image, "", env)
	if err != nil {
		return err
	}
	defer setup.Close()

	site := frontmatterSite(positional, flags, setup)
	build := func(ctx context.Context) error {
		host, err := frontmatter.New(site, setup.options(), setup.pluginOptions()...)
		if err != nil {
			return err
		}
		stats, err := host.Build(ctx)
		if err != nil {
			return err
		}
		printFrontmatterStats(env.Stdout, stats, flags.common.quiet)
		return nil
	}

	if !flags.watch {
		return build(ctx)
	}

	host, err := frontmatter.New(site, setup.options())
	if err != nil {
		return err
	}
	return watch(ctx, setup.logger, watchTarget{
		dirs:  []string{host.Site().SrcDir},
		files: []string{host.Plugin().Options().OGTemplate},
		exts:  []string{".md", ".markdown", ".mdx"},
	}, build)
}

// frontmatterSite picks each directory from arguments and flags, then config.
func frontmatterSite(positional []string, flags *frontmatterFlags, setup *buildSetup) frontmatter.Site {
	site := frontmatter.Site{
		SrcDir:  setup.cfg.Site.SrcDir,
		OutDir:  setup.cfg.Site.OutDir,
		DestDir: setup.cfg.Site.DestDir,
	}
	if len(positional) == 1 {
		site.SrcDir = positional[0]
	}
	if flags.out != "" {
		site.OutDir = flags.out
	}
	if flags.dest != "" {
		site.DestDir = flags.dest
	}
	return site
}

// printFrontmatterStats prints the build summary unless quiet.
func printFrontmatterStats(w io.Writer, stats frontmatter.Stats, quiet bool) {
	if quiet {
		return
	}
	fmt.Fprintf(w, "Generated %d image(s), wrote %d page(s), skipped %d\n",
		stats.Pages, stats.Written, stats.Skipped)
}
