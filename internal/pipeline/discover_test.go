package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverPages(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, rel := range []string{
		"index.md",
		"guide/intro.md",
		"guide/setup.markdown",
		"blog/post.mdx",
		"blog/image.png",
		".vitepress/theme/notes.md",
		"node_modules/pkg/README.md",
		"README.MD",
	} {
		writeFile(t, filepath.Join(root, rel), "# x")
	}

	files, err := DiscoverPages(root)
	if err != nil {
		t.Fatalf("DiscoverPages() error: %v", err)
	}

	var got []string
	for _, f := range files {
		got = append(got, f.RelPath)
		if f.AbsPath != filepath.Join(root, filepath.FromSlash(f.RelPath)) {
			t.Errorf("AbsPath = %q for %q", f.AbsPath, f.RelPath)
		}
	}

	want := []string{"README.MD", "blog/post.mdx", "guide/intro.md", "guide/setup.markdown", "index.md"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DiscoverPages() mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverPages_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "file.md")
	writeFile(t, file, "x")

	for _, root := range []string{filepath.Join(dir, "missing"), file} {
		_, err := DiscoverPages(root)
		if !errors.Is(err, ErrContentDir) {
			t.Errorf("DiscoverPages(%q) error = %v, want ErrContentDir", root, err)
			continue
		}
		if !strings.Contains(err.Error(), root) {
			t.Errorf("DiscoverPages(%q) error = %q, want the path named", root, err)
		}
	}
}

func TestIsMarkdown(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"a.md":       true,
		"a.MD":       true,
		"a.markdown": true,
		"a.mdx":      true,
		"a.html":     false,
		"md":         false,
		"a.md.bak":   false,
	}
	for name, want := range tests {
		if got := IsMarkdown(name); got != want {
			t.Errorf("IsMarkdown(%q) = %v, want %v", name, got, want)
		}
	}
}
