package ogimage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// File modes for generated output.
const (
	dirPerm  = 0o750
	filePerm = 0o644
)

// GenerateImage rasterizes svgContent with r and writes the PNG to dest,
// creating parent directories as needed. An existing file at dest is overwritten.
func GenerateImage(ctx context.Context, r Rasterizer, svgContent, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), dirPerm); err != nil {
		return fmt.Errorf("%w: creating output directory: %v", ErrIO, err)
	}

	png, err := r.Rasterize(ctx, svgContent)
	if err != nil {
		return err
	}

	if err := os.WriteFile(dest, png, filePerm); err != nil { // #nosec G306 -- images are public build output
		return fmt.Errorf("%w: writing %s: %v", ErrIO, dest, err)
	}
	return nil
}
