// Package pipeline orchestrates a full render: opening a vector source,
// resolving the bbox and projection for each layer, running the
// rasterization core, and writing the resulting PNG (and optional preview
// thumbnail) to disk.
package pipeline

import (
	"image/color"

	"github.com/MeKo-Tech/gpkg2png/internal/geo"
)

// Job is one unit of rendering work: a named set of already-reprojected
// polygon geometries, the bbox and resolution to render them at, and the
// path to write the resulting PNG.
type Job struct {
	Name        string
	Geometries  []geo.MultiPolygon
	Bbox        geo.Bbox
	Resolution  float64
	Fill        color.NRGBA
	Stroke      color.NRGBA
	StrokeWidth int
	OutputPath  string
	Preview     bool
}
