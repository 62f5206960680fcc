package main

import (
	"errors"
	"os"

	"github.com/alnah/go-ogimage"
	"github.com/alnah/go-ogimage/host/frontmatter"
	"github.com/alnah/go-ogimage/internal/assets"
	"github.com/alnah/go-ogimage/internal/config"
	"github.com/alnah/go-ogimage/internal/pipeline"
)

// Exit codes for the ogimage CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Build finished
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, missing template
	ExitBrowser = 4 // Rasterizer or Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Rasterizer errors (exit 4)
	if errors.Is(err, ogimage.ErrBrowserConnect) ||
		errors.Is(err, ogimage.ErrPageCreate) ||
		errors.Is(err, ogimage.ErrPageLoad) ||
		errors.Is(err, ogimage.ErrRasterization) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ogimage.ErrIO) ||
		errors.Is(err, ogimage.ErrTemplateNotFound) ||
		errors.Is(err, assets.ErrTemplateNotFound) ||
		errors.Is(err, assets.ErrAssetRead) ||
		errors.Is(err, pipeline.ErrContentDir) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ogimage.ErrConfig) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, assets.ErrPathTraversal) ||
		errors.Is(err, pipeline.ErrFrontMatterUnclosed) ||
		errors.Is(err, pipeline.ErrFrontMatterParse) ||
		errors.Is(err, frontmatter.ErrHeadField) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
