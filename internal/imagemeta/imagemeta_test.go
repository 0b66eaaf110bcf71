package imagemeta_test

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"slotter/internal/imagemeta"
)

func writePNG(t *testing.T, path string, width, height int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create test image: %v", err)
	}
	defer f.Close()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
}

func TestProbeDimensions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wide.png")
	writePNG(t, path, 64, 32)

	dims, err := imagemeta.Probe(path)
	if err != nil {
		t.Fatalf("Probe returned error: %v", err)
	}
	if dims.Width != 64 || dims.Height != 32 {
		t.Fatalf("unexpected dimensions: %dx%d", dims.Width, dims.Height)
	}
	if dims.Orientation() != imagemeta.Landscape {
		t.Fatalf("expected landscape, got %s", dims.Orientation())
	}
}

func TestOrientationBuckets(t *testing.T) {
	cases := []struct {
		w, h int
		want imagemeta.Orientation
	}{
		{100, 50, imagemeta.Landscape},
		{50, 100, imagemeta.Portrait},
		{80, 80, imagemeta.Portrait}, // square counts as portrait
	}
	for _, tc := range cases {
		got := imagemeta.Dimensions{Width: tc.w, Height: tc.h}.Orientation()
		if got != tc.want {
			t.Errorf("orientation of %dx%d = %s, want %s", tc.w, tc.h, got, tc.want)
		}
	}
}

func TestProbeRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.jpg")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write garbage file: %v", err)
	}
	if _, err := imagemeta.Probe(path); err == nil {
		t.Fatal("expected error for non-image content")
	}
}

func TestProbeMissingFile(t *testing.T) {
	if _, err := imagemeta.Probe(filepath.Join(t.TempDir(), "absent.png")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
