// Package imagemeta reads intrinsic image dimensions and derives the
// orientation category used to bucket inventory items.
package imagemeta

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Orientation is the aspect-ratio bucket derived from image dimensions.
type Orientation string

const (
	// Landscape means width strictly exceeds height.
	Landscape Orientation = "landscape"
	// Portrait means height is greater than or equal to width. Square
	// images land here.
	Portrait Orientation = "portrait"
)

// Dimensions holds the intrinsic pixel size of an image.
type Dimensions struct {
	Width  int
	Height int
}

// Orientation buckets the dimensions.
func (d Dimensions) Orientation() Orientation {
	if d.Width > d.Height {
		return Landscape
	}
	return Portrait
}

// Probe decodes only the image header and returns its dimensions. The
// format is detected by content, not extension; unreadable or unsupported
// files return an error without the caller aborting its run.
func Probe(path string) (Dimensions, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dimensions{}, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Dimensions{}, fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Dimensions{}, fmt.Errorf("decode image header: %s reports %dx%d", format, cfg.Width, cfg.Height)
	}
	return Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}
