// Package pipeline implements the source and output stages around image generation.
//
// Source side:
//   - Page discovery under a content root
//   - Front matter splitting and parsing (YAML "---" and TOML "+++")
//   - Title extraction from the first level-1 heading via Goldmark
//
// Output side:
//   - Head tag injection into built HTML documents
//   - Reading meta tags already present in a document head
//
// Image rendering itself lives in the root ogimage package; this package only
// moves page data in and head markup out.
package pipeline
