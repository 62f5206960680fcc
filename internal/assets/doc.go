// Package assets provides the SVG templates used to draw Open Graph images.
// Templates can be loaded from embedded files or a custom filesystem path.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in templates)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// EmbeddedLoader provides the built-in templates (default, light).
//
// FilesystemLoader reads {basePath}/templates/{name}.svg with path traversal
// protection and symlink resolution.
//
// AssetResolver tries the custom FilesystemLoader first and falls back to
// EmbeddedLoader when a template is not found there.
//
// # Template Contract
//
// A template is a 1200×630 SVG document. {{title}} is replaced with one
// <text> element per wrapped title line; {{line1}}, {{line2}}, ... with the
// text of a single line.
package assets
