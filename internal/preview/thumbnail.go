// Package preview generates small thumbnail PNGs alongside a full-resolution
// render, for quick visual sanity checks without opening the full image.
package preview

import (
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// MaxDimension bounds the longer side of a generated thumbnail.
const MaxDimension = 256

// Generate reads the PNG at srcPath, scales it down so its longer side is at
// most MaxDimension, and writes the result to dstPath. Images already
// smaller than MaxDimension on both axes are copied through unscaled.
func Generate(srcPath, dstPath string) error {
	src, err := readPNG(srcPath)
	if err != nil {
		return err
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	dstWidth, dstHeight := scaledDimensions(width, height)

	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	// CatmullRom gives noticeably sharper thumbnails than bilinear for the
	// large downscale ratios a full-bbox render produces.
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	return writePNG(dstPath, dst)
}

// scaledDimensions returns the thumbnail size preserving aspect ratio.
func scaledDimensions(width, height int) (int, int) {
	if width <= MaxDimension && height <= MaxDimension {
		return width, height
	}
	if width >= height {
		scaled := height * MaxDimension / width
		if scaled < 1 {
			scaled = 1
		}
		return MaxDimension, scaled
	}
	scaled := width * MaxDimension / height
	if scaled < 1 {
		scaled = 1
	}
	return scaled, MaxDimension
}

func readPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

func writePNG(path string, img *image.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return nil
}
