package main

import (
	"context"
	"fmt"
	"io"

	"github.com/alnah/go-ogimage/host/hugo"
)

// runHugo builds the images and head tags of a Hugo site that hugo has
// already rendered into its publish directory.
func runHugo(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseHugoFlags(args)
	if err != nil {
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: hugo takes one site directory, got %d arguments", ErrUsage, len(positional))
	}

	setup, err := setupBuild(flags.common, &flags.image, "", env)
	if err != nil {
		return err
	}
	defer setup.Close()

	site := hugoSite(positional, flags, setup)
	build := func(ctx context.Context) error {
		host, err := hugo.New(site, setup.options(), setup.pluginOptions()...)
		if err != nil {
			return err
		}
		stats, err := host.Build(ctx)
		if err != nil {
			return err
		}
		printHugoStats(env.Stdout, stats, flags.common.quiet)
		return nil
	}

	if !flags.watch {
		return build(ctx)
	}

	// Resolve directories and the template once so the watcher sees absolute
	// choices; hugo.New fails early here on bad options.
	host, err := hugo.New(site, setup.options())
	if err != nil {
		return err
	}
	resolved := host.Site()
	return watch(ctx, setup.logger, watchTarget{
		dirs:  []string{resolved.ContentDir, resolved.PublishDir},
		files: []string{host.Plugin().Options().OGTemplate},
		exts:  []string{".md", ".markdown", ".mdx", ".html"},
	}, build)
}

// hugoSite picks each site directory from flags, then config, in that order.
func hugoSite(positional []string, flags *hugoFlags, setup *buildSetup) hugo.Site {
	site := hugo.Site{
		Root:       setup.cfg.Site.Root,
		ContentDir: setup.cfg.Site.ContentDir,
		PublishDir: setup.cfg.Site.PublishDir,
	}
	if len(positional) == 1 {
		site.Root = positional[0]
	}
	if flags.contentDir != "" {
		site.ContentDir = flags.contentDir
	}
	if flags.publishDir != "" {
		site.PublishDir = flags.publishDir
	}
	return site
}

// printHugoStats prints the build summary unless quiet.
func printHugoStats(w io.Writer, stats hugo.Stats, quiet bool) {
	if quiet {
		return
	}
	fmt.Fprintf(w, "Generated %d image(s), tagged %d page(s), skipped %d\n",
		stats.Pages, stats.Injected, stats.Skipped)
}
