package config

import (
	"image/color"

	"github.com/MeKo-Tech/gpkg2png/internal/geo"
	"github.com/MeKo-Tech/gpkg2png/internal/rasterr"
)

// RenderOptions is the validated, render-ready form of the CLI/viper input
// that builds a raster.RenderConfig. Bbox is optional: when absent the
// pipeline auto-detects one from the source's own extent.
type RenderOptions struct {
	Bbox        *geo.Bbox
	Resolution  float64
	Fill        color.NRGBA
	Stroke      color.NRGBA
	StrokeWidth int
	Layer       string
}

// RawOptions mirrors the CLI flags before validation.
type RawOptions struct {
	BboxStr     string
	Resolution  float64
	Scale       float64
	Fill        string
	Stroke      string
	StrokeWidth int
	Layer       string
}

// Validate turns RawOptions into a RenderOptions, resolving the
// resolution/scale mutual exclusion and parsing colors and bbox. Scale
// conversion (meters/pixel to degrees/pixel) needs a bbox center latitude,
// so it is only resolved once a bbox is known -- callers whose bbox is
// auto-detected (no --bbox given) should call ResolveScale after detection.
func (o RawOptions) Validate() (RenderOptions, error) {
	haveRes := o.Resolution != 0
	haveScale := o.Scale != 0

	switch {
	case haveRes && haveScale:
		return RenderOptions{}, &rasterr.MutuallyExclusiveOptions{A: "resolution", B: "scale"}
	case !haveRes && !haveScale:
		return RenderOptions{}, rasterr.ErrMissingResolutionOrScale
	case haveRes && o.Resolution <= 0:
		return RenderOptions{}, &rasterr.InvalidResolution{Value: o.Resolution}
	case haveScale && o.Scale <= 0:
		return RenderOptions{}, &rasterr.InvalidScale{Value: o.Scale}
	}

	fill, err := ParseRGBA(o.Fill)
	if err != nil {
		return RenderOptions{}, err
	}
	stroke, err := ParseRGB(o.Stroke)
	if err != nil {
		return RenderOptions{}, err
	}

	opts := RenderOptions{
		Resolution:  o.Resolution,
		Fill:        fill,
		Stroke:      stroke,
		StrokeWidth: o.StrokeWidth,
		Layer:       o.Layer,
	}

	if o.BboxStr != "" {
		bbox, err := geo.Parse(o.BboxStr)
		if err != nil {
			return RenderOptions{}, err
		}
		opts.Bbox = &bbox
	}

	if haveScale {
		if opts.Bbox == nil {
			// Resolution is resolved once the bbox is known; stash the
			// scale value by reusing Resolution as a sentinel negative.
			opts.Resolution = -o.Scale
		} else {
			opts.Resolution = geo.MetersPerPixelToResolution(o.Scale, *opts.Bbox)
		}
	}

	return opts, nil
}

// ResolveScale finalizes a scale-based resolution once bbox is known. It is
// a no-op if Resolution is already a positive degrees/pixel value.
func (o *RenderOptions) ResolveScale(bbox geo.Bbox) {
	if o.Resolution < 0 {
		o.Resolution = geo.MetersPerPixelToResolution(-o.Resolution, bbox)
	}
}
