// Package encode produces slot artifacts from source images, either by
// re-encoding pixels to a fixed output format or by copying bytes verbatim.
package encode

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"slotter/internal/config"
	"slotter/internal/fileutil"
)

// Converter produces an artifact at targetPath from the image at sourcePath.
// One call per output file; implementations must be safe for concurrent use.
type Converter interface {
	Convert(ctx context.Context, sourcePath, targetPath string) error
}

// New selects the converter matching the encode configuration.
func New(cfg *config.Config) Converter {
	if !cfg.Encode.Reencode {
		return copier{}
	}
	return &reencoder{format: cfg.Encode.Format, quality: cfg.Encode.Quality}
}

// copier duplicates source bytes without touching pixels.
type copier struct{}

func (copier) Convert(_ context.Context, sourcePath, targetPath string) error {
	if err := fileutil.CopyFile(sourcePath, targetPath); err != nil {
		return fmt.Errorf("copy %s: %w", sourcePath, err)
	}
	return nil
}

// reencoder decodes the source (any registered format; animated GIFs are
// flattened to their first frame) and writes it in the configured output
// format so every slot file shares one extension and codec.
type reencoder struct {
	format  string
	quality int
}

func (r *reencoder) Convert(ctx context.Context, sourcePath, targetPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	in, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("open %s: %w", sourcePath, err)
	}
	img, _, err := image.Decode(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("decode %s: %w", sourcePath, err)
	}

	out, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", targetPath, err)
	}

	switch r.format {
	case "png":
		err = png.Encode(out, img)
	default:
		err = jpeg.Encode(out, img, &jpeg.Options{Quality: r.quality})
	}
	if err != nil {
		out.Close()
		_ = os.Remove(targetPath)
		return fmt.Errorf("encode %s: %w", targetPath, err)
	}
	return out.Close()
}
