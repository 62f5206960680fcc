package ogimage

import (
	"fmt"
	"net/url"
	"strings"
)

// Option defaults.
const (
	DefaultOutDir              = "og"
	DefaultMaxTitleSizePerLine = 30
)

// Options is the user-facing plugin configuration.
// Only Domain is required; zero values of the other fields select defaults.
type Options struct {
	Domain              string // Base URL for absolute image URLs (required)
	OutDir              string // Output directory under the build root (default: "og")
	OGTemplate          string // Path to the SVG template (default: generator-specific)
	MaxTitleSizePerLine int    // Characters per title line (default: 30)
}

// ResolvedOptions is Options with every field set to a concrete value.
// Obtain one with ResolveOptions.
type ResolvedOptions struct {
	Domain              string
	OutDir              string
	OGTemplate          string
	MaxTitleSizePerLine int
}

// ResolveOptions validates opts and fills in defaults.
// defaultTemplate is the generator-specific template path used when opts.OGTemplate is empty.
// Returns an error wrapping ErrConfig if Domain is missing or unparseable, or if
// MaxTitleSizePerLine is negative.
func ResolveOptions(opts Options, defaultTemplate string) (ResolvedOptions, error) {
	domain := strings.TrimSpace(opts.Domain)
	if domain == "" {
		return ResolvedOptions{}, fmt.Errorf("%w: domain is required", ErrConfig)
	}
	if _, err := url.Parse(domain); err != nil {
		return ResolvedOptions{}, fmt.Errorf("%w: domain: %v", ErrConfig, err)
	}
	if opts.MaxTitleSizePerLine < 0 {
		return ResolvedOptions{}, fmt.Errorf("%w: maxTitleSizePerLine must be positive, got %d", ErrConfig, opts.MaxTitleSizePerLine)
	}

	resolved := ResolvedOptions{
		Domain:              domain,
		OutDir:              opts.OutDir,
		OGTemplate:          opts.OGTemplate,
		MaxTitleSizePerLine: opts.MaxTitleSizePerLine,
	}
	if resolved.OutDir == "" {
		resolved.OutDir = DefaultOutDir
	}
	if resolved.OGTemplate == "" {
		resolved.OGTemplate = defaultTemplate
	}
	if resolved.MaxTitleSizePerLine == 0 {
		resolved.MaxTitleSizePerLine = DefaultMaxTitleSizePerLine
	}

	return resolved, nil
}

// AsOptions returns the resolved values as Options, so they can be resolved again.
func (r ResolvedOptions) AsOptions() Options {
	return Options(r)
}
