package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-ogimage"
	"github.com/alnah/go-ogimage/internal/assets"
)

// defaultRenderOutput is the file render writes without --output.
const defaultRenderOutput = "og.png"

// runRender renders one title into a PNG, for checking a template without a site.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args)
	if err != nil {
		return err
	}

	title := strings.TrimSpace(strings.Join(positional, " "))
	if title == "" {
		return fmt.Errorf("%w: render needs a title", ErrUsage)
	}

	setup, err := setupBuild(flags.common, &flags.image, assets.DefaultTemplateName, env)
	if err != nil {
		return err
	}
	defer setup.Close()

	template, err := os.ReadFile(setup.template) // #nosec G304 -- template path is user-provided
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ogimage.ErrTemplateNotFound, setup.cfg.OGTemplate, err)
	}

	opts := ogimage.ResolvedOptions{MaxTitleSizePerLine: setup.cfg.MaxTitleSizePerLine}
	if opts.MaxTitleSizePerLine == 0 {
		opts.MaxTitleSizePerLine = ogimage.DefaultMaxTitleSizePerLine
	}
	svg := ogimage.RenderTemplateString(title, string(template), opts)

	output := flags.output
	if output == "" {
		output = defaultRenderOutput
	}

	r, err := setup.pool.Acquire()
	if err != nil {
		return err
	}
	defer setup.pool.Release(r)

	if err := ogimage.GenerateImage(ctx, r, svg, output); err != nil {
		return err
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", output)
	}
	return nil
}
