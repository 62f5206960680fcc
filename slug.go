package ogimage

import "strings"

// sourceExtensions are stripped from page paths when building image names.
var sourceExtensions = []string{".markdown", ".mdx", ".md"}

// SlugifyPath derives the PNG file name for a page from its source path relative to
// the content root: path separators become "-", the Markdown extension is stripped
// and ".png" is appended.
//
//	SlugifyPath("guide/intro.md") // "guide-intro.png"
func SlugifyPath(relPath string) string {
	name := strings.TrimPrefix(strings.ReplaceAll(relPath, `\`, "/"), "./")
	name = strings.TrimPrefix(name, "/")
	for _, ext := range sourceExtensions {
		if len(name) > len(ext) && strings.EqualFold(name[len(name)-len(ext):], ext) {
			name = name[:len(name)-len(ext)]
			break
		}
	}
	return strings.ReplaceAll(name, "/", "-") + ".png"
}
