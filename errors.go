package ogimage

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
var (
	ErrConfig           = errors.New("invalid configuration")
	ErrTemplateNotFound = errors.New("OG template not found")
	ErrRasterization    = errors.New("SVG rasterization failed")
	ErrIO               = errors.New("file I/O failed")

	// Chrome rasterizer errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
)

// GenerateError reports a failed image generation for a single page.
// It unwraps to the underlying sentinel (ErrTemplateNotFound, ErrRasterization, ErrIO).
type GenerateError struct {
	Route string // Route path of the page
	Path  string // Destination PNG path
	Err   error
}

func (e *GenerateError) Error() string {
	return fmt.Sprintf("generating OG image for %s (%s): %v", e.Route, e.Path, e.Err)
}

func (e *GenerateError) Unwrap() error {
	return e.Err
}
