package ogimage

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-ogimage/internal/fileutil"
	"github.com/alnah/go-ogimage/internal/process"
)

// defaultChromeTimeout is used when no timeout is specified.
const defaultChromeTimeout = 30 * time.Second

// xmlPrologPattern matches an XML declaration, which has no meaning inside HTML.
var xmlPrologPattern = regexp.MustCompile(`^\s*<\?xml[^>]*\?>`)

// svgPageTemplate hosts the SVG in a page sized to the Open Graph viewport.
const svgPageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>html,body{margin:0;padding:0;overflow:hidden;background:transparent}svg{display:block;width:%dpx;height:%dpx}</style>
</head>
<body>
%s
</body>
</html>`

// ChromeOption configures a ChromeRasterizer.
type ChromeOption func(*ChromeRasterizer)

// WithChromeTimeout sets the page load and capture timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithChromeTimeout(d time.Duration) ChromeOption {
	if d <= 0 {
		panic("ogimage: WithChromeTimeout duration must be positive")
	}
	return func(r *ChromeRasterizer) {
		r.timeout = d
	}
}

// ChromeRasterizer rasterizes SVG by screenshotting it in headless Chrome via go-rod.
// Rod downloads Chromium on first run if no browser is found.
// The browser is launched lazily on the first Rasterize call.
type ChromeRasterizer struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
}

// NewChromeRasterizer creates a ChromeRasterizer. No browser is started until first use.
func NewChromeRasterizer(opts ...ChromeOption) *ChromeRasterizer {
	r := &ChromeRasterizer{timeout: defaultChromeTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ensureBrowser lazily connects to the browser.
func (r *ChromeRasterizer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.launcher = l
	r.browser = browser
	return nil
}

// Rasterize renders svgContent in a ImageWidth×ImageHeight viewport and returns a PNG screenshot.
// Malformed SVG is rejected before the browser is involved, since Chrome renders
// broken markup silently.
func (r *ChromeRasterizer) Rasterize(ctx context.Context, svgContent string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := checkWellFormed(svgContent); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(buildSVGPage(svgContent), "html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRasterization, err)
	}
	defer cleanup()

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + tmpPath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	// Wait for page to load with timeout from context or default
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	page = page.Timeout(timeout)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             ImageWidth,
		Height:            ImageHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("%w: setting viewport: %v", ErrPageLoad, err)
	}

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	shot, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
		Clip: &proto.PageViewport{
			X:      0,
			Y:      0,
			Width:  ImageWidth,
			Height: ImageHeight,
			Scale:  1,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: screenshot: %v", ErrRasterization, err)
	}

	return shot, nil
}

// Close releases browser resources and kills the browser process group.
func (r *ChromeRasterizer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		if pid := r.launcher.PID(); pid > 0 {
			_ = process.KillGroup(pid)
		}
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}

// buildSVGPage wraps svgContent in a minimal HTML page.
func buildSVGPage(svgContent string) string {
	body := xmlPrologPattern.ReplaceAllString(svgContent, "")
	return fmt.Sprintf(svgPageTemplate, ImageWidth, ImageHeight, strings.TrimSpace(body))
}
