package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-ogimage"
	"github.com/alnah/go-ogimage/host/hugo"
	"github.com/alnah/go-ogimage/internal/assets"
	"github.com/alnah/go-ogimage/internal/fileutil"
)

// initFlags holds all flags for the init command.
type initFlags struct {
	template string
	force    bool
}

// newInitFlagSet registers the init command flags into f.
func newInitFlagSet(f *initFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.StringVarP(&f.template, "template", "t", assets.DefaultTemplateName, "built-in template to write")
	fs.BoolVarP(&f.force, "force", "f", false, "overwrite an existing file")
	return fs
}

// runInit writes a built-in template to disk as a starting point.
// The default path is where the hugo command looks for it.
func runInit(_ context.Context, args []string, env *Environment) error {
	flags := &initFlags{}
	positional, err := parseFlagSet(newInitFlagSet(flags), args)
	if err != nil {
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: init takes one path, got %d arguments", ErrUsage, len(positional))
	}

	path := filepath.FromSlash(hugo.DefaultTemplate)
	if len(positional) == 1 {
		path = positional[0]
	}

	if fileutil.FileExists(path) && !flags.force {
		return fmt.Errorf("%w: %s already exists (use --force to overwrite)", ErrUsage, path)
	}

	content, err := env.AssetLoader.LoadTemplate(flags.template)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ogimage.ErrIO, filepath.Dir(path), err)
	}
	if err := fileutil.WriteFileAtomic(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ogimage.ErrIO, err)
	}

	fmt.Fprintf(env.Stdout, "Created %s\n", path)
	return nil
}
