package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/alnah/go-ogimage/internal/fileutil"
)

// ErrContentDir indicates the content root cannot be walked.
var ErrContentDir = errors.New("content directory not readable")

// MarkdownExtensions lists the source extensions treated as pages.
var MarkdownExtensions = []string{".md", ".markdown", ".mdx"}

// SourceFile is a page source found under a content root.
type SourceFile struct {
	RelPath string // Slash-separated path relative to the root, e.g. "guide/intro.md"
	AbsPath string
}

// DiscoverPages walks root and returns its Markdown files in lexical order.
// Hidden directories (".vitepress", ".git") and node_modules are skipped.
func DiscoverPages(root string) ([]SourceFile, error) {
	if !fileutil.DirExists(root) {
		return nil, fmt.Errorf("%w: %s is missing or not a directory", ErrContentDir, root)
	}

	var files []SourceFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsMarkdown(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, SourceFile{RelPath: filepath.ToSlash(rel), AbsPath: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentDir, err)
	}

	return files, nil
}

// IsMarkdown reports whether name has a Markdown page extension.
func IsMarkdown(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range MarkdownExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules"
}
