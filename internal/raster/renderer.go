package raster

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"runtime"

	"github.com/MeKo-Tech/gpkg2png/internal/geo"
)

// RenderConfig holds the immutable parameters of a Renderer: the geographic
// window and resolution that define the pixel grid, and the fill/stroke
// styling applied to every MultiPolygon the Renderer draws.
type RenderConfig struct {
	Bbox        geo.Bbox
	Resolution  float64 // degrees/pixel
	Fill        color.NRGBA
	Stroke      color.NRGBA // alpha is forced to 255 at draw time
	StrokeWidth int
}

// Renderer owns an image buffer and draws MultiPolygons onto it under the
// fixed RenderConfig supplied at construction. Its state machine is
// New -> Rendering* -> Saved|Dropped: RenderMultiPolygon may be called any
// number of times, each call additive via compositing, and Save is
// idempotent and does not consume the Renderer.
type Renderer struct {
	config  RenderConfig
	buf     *Buffer
	workers int
}

// New precomputes the image dimensions from config and allocates the
// transparent buffer, failing with rasterr.ImageTooLarge if either dimension
// exceeds geo.MaxDimension.
func New(config RenderConfig) (*Renderer, error) {
	width, height, err := geo.Dimensions(config.Bbox, config.Resolution)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		config:  config,
		buf:     NewBuffer(width, height),
		workers: runtime.NumCPU(),
	}, nil
}

// Dimensions returns the renderer's (width, height) in pixels.
func (r *Renderer) Dimensions() (int, int) {
	return r.buf.Width, r.buf.Height
}

// project maps a WGS84 point into this renderer's pixel space.
func (r *Renderer) project(p geo.Point) [2]float64 {
	x, y := geo.WorldToScreen(p[0], p[1], r.config.Bbox, r.config.Resolution, r.buf.Height)
	return [2]float64{x, y}
}

// RenderMultiPolygon fills mp under the even-odd rule and then, if
// StrokeWidth > 0, draws its ring boundaries. Fill-then-stroke order is
// preserved per call; calling this concurrently on the same Renderer from
// multiple goroutines is not supported.
func (r *Renderer) RenderMultiPolygon(mp geo.MultiPolygon) {
	FillMultiPolygon(r.buf, mp, r.project, r.config.Fill, r.workers)

	if r.config.StrokeWidth > 0 {
		stroke := r.config.Stroke
		stroke.A = 255
		StrokeMultiPolygon(r.buf, mp, r.project, stroke, r.config.StrokeWidth)
	}
}

// Save encodes the current buffer as PNG to path, writing to a temporary
// file in the same directory and renaming it into place so a failed encode
// or write never leaves a partial file behind.
func (r *Renderer) Save(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".render-*.png.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if err := png.Encode(tmp, r.buf.Img); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
