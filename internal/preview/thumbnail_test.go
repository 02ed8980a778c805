package preview

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 0, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGenerateScalesDownLargeImage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	dst := filepath.Join(dir, "thumb.png")
	writeTestPNG(t, src, 1000, 500)

	if err := Generate(src, dst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := os.Open(dst)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != MaxDimension {
		t.Errorf("Dx() = %d, want %d", bounds.Dx(), MaxDimension)
	}
	if bounds.Dy() != MaxDimension/2 {
		t.Errorf("Dy() = %d, want %d", bounds.Dy(), MaxDimension/2)
	}
}

func TestGeneratePassesThroughSmallImage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	dst := filepath.Join(dir, "thumb.png")
	writeTestPNG(t, src, 50, 40)

	if err := Generate(src, dst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := os.Open(dst)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 50 || bounds.Dy() != 40 {
		t.Errorf("bounds = %dx%d, want 50x40", bounds.Dx(), bounds.Dy())
	}
}
