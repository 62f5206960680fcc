package ogimage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestChromeRasterizer_Options(t *testing.T) {
	t.Parallel()

	if got := NewChromeRasterizer().timeout; got != defaultChromeTimeout {
		t.Errorf("default timeout = %v, want %v", got, defaultChromeTimeout)
	}
	if got := NewChromeRasterizer(WithChromeTimeout(5 * time.Second)).timeout; got != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", got)
	}
}

func TestWithChromeTimeout_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	for _, d := range []time.Duration{0, -time.Second} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("WithChromeTimeout(%v) did not panic", d)
				}
			}()
			WithChromeTimeout(d)
		}()
	}
}

// Malformed input and cancelled contexts must fail before any browser starts.
func TestChromeRasterizer_FailsBeforeLaunch(t *testing.T) {
	t.Parallel()

	r := NewChromeRasterizer()
	defer r.Close()

	if _, err := r.Rasterize(context.Background(), "<svg><g></svg>"); !errors.Is(err, ErrRasterization) {
		t.Errorf("malformed SVG error = %v, want ErrRasterization", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Rasterize(ctx, shapesSVG); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled context error = %v, want context.Canceled", err)
	}

	if r.browser != nil {
		t.Error("browser was launched")
	}
}

func TestChromeRasterizer_CloseWithoutBrowser(t *testing.T) {
	t.Parallel()

	r := NewChromeRasterizer()
	if err := r.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestCheckWellFormed - SVG validation ahead of the browser
// ---------------------------------------------------------------------------

func TestCheckWellFormed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		svg     string
		wantErr bool
	}{
		{name: "valid", svg: shapesSVG},
		{name: "with prolog", svg: `<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"/>`},
		{name: "empty", svg: "", wantErr: true},
		{name: "unclosed element", svg: "<svg><g></svg>", wantErr: true},
		{name: "wrong root", svg: "<html></html>", wantErr: true},
		{name: "text only", svg: "hello", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := checkWellFormed(tt.svg)
			if tt.wantErr {
				if !errors.Is(err, ErrRasterization) {
					t.Errorf("checkWellFormed() error = %v, want ErrRasterization", err)
				}
				return
			}
			if err != nil {
				t.Errorf("checkWellFormed() unexpected error: %v", err)
			}
		})
	}
}

func TestBuildSVGPage(t *testing.T) {
	t.Parallel()

	page := buildSVGPage(`<?xml version="1.0" encoding="UTF-8"?>` + "\n" + `<svg width="1200" height="630"></svg>`)

	if strings.Contains(page, "<?xml") {
		t.Error("XML prolog not stripped")
	}
	for _, want := range []string{"<!DOCTYPE html>", `<svg width="1200" height="630"></svg>`, "width:1200px", "height:630px"} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}
