package ogimage

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"golang.org/x/image/draw"
)

// Rasterizer converts a composed SVG document to PNG bytes at ImageWidth×ImageHeight.
// Implementations are not required to be safe for concurrent use; RasterizerPool
// hands each one to a single goroutine at a time.
type Rasterizer interface {
	Rasterize(ctx context.Context, svg string) ([]byte, error)
	Close() error
}

// Rasterizer backend names.
const (
	RendererCanvas = "canvas"
	RendererChrome = "chrome"
)

// Compile-time interface checks.
var (
	_ Rasterizer = (*CanvasRasterizer)(nil)
	_ Rasterizer = (*ChromeRasterizer)(nil)
)

// CanvasRasterizer rasterizes SVG in pure Go using tdewolff/canvas.
// It needs no external processes; text is drawn with the fonts canvas can resolve.
type CanvasRasterizer struct{}

// NewCanvasRasterizer creates a CanvasRasterizer.
func NewCanvasRasterizer() *CanvasRasterizer {
	return &CanvasRasterizer{}
}

// Rasterize parses svgContent and draws it scaled to ImageWidth pixels wide.
// Output that does not match the Open Graph aspect ratio is resampled to exactly
// ImageWidth×ImageHeight.
func (r *CanvasRasterizer) Rasterize(ctx context.Context, svgContent string) (out []byte, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := checkWellFormed(svgContent); err != nil {
		return nil, err
	}

	// The SVG parser panics on some input it does not support.
	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			err = fmt.Errorf("%w: %v", ErrRasterization, rec)
		}
	}()

	c, err := canvas.ParseSVG(strings.NewReader(svgContent))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRasterization, err)
	}
	if c.W <= 0 || c.H <= 0 {
		return nil, fmt.Errorf("%w: SVG has no size", ErrRasterization)
	}

	img := rasterizer.Draw(c, canvas.DPMM(float64(ImageWidth)/c.W), canvas.DefaultColorSpace)
	return encodePNG(fitImage(img))
}

// Close is a no-op; CanvasRasterizer holds no resources.
func (r *CanvasRasterizer) Close() error {
	return nil
}

// fitImage resamples img to ImageWidth×ImageHeight unless it already has that size.
func fitImage(img image.Image) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() == ImageWidth && bounds.Dy() == ImageHeight {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, ImageWidth, ImageHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// encodePNG encodes img as PNG.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: encoding PNG: %v", ErrRasterization, err)
	}
	return buf.Bytes(), nil
}

// NewRasterizer returns the rasterizer for the named backend.
// An empty name selects RendererCanvas.
func NewRasterizer(name string, opts ...ChromeOption) (Rasterizer, error) {
	switch strings.ToLower(name) {
	case "", RendererCanvas:
		return NewCanvasRasterizer(), nil
	case RendererChrome:
		return NewChromeRasterizer(opts...), nil
	default:
		return nil, fmt.Errorf("%w: unknown renderer %q (must be %s or %s)", ErrConfig, name, RendererCanvas, RendererChrome)
	}
}

// checkWellFormed reports ErrRasterization if svgContent is not well-formed XML
// with an <svg> root element.
func checkWellFormed(svgContent string) error {
	dec := xml.NewDecoder(strings.NewReader(svgContent))
	dec.Strict = true

	sawRoot := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRasterization, err)
		}
		if start, ok := tok.(xml.StartElement); ok && !sawRoot {
			if start.Name.Local != "svg" {
				return fmt.Errorf("%w: root element is <%s>, want <svg>", ErrRasterization, start.Name.Local)
			}
			sawRoot = true
		}
	}

	if !sawRoot {
		return fmt.Errorf("%w: no <svg> element", ErrRasterization)
	}
	return nil
}
