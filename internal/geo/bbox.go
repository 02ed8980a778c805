// Package geo holds the bbox and coordinate-projection math shared by every
// stage of the rasterization pipeline: the geographic window, the
// world-to-screen mapping, and image dimension calculation.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/gpkg2png/internal/rasterr"
)

// MaxDimension is the largest width or height, in pixels, a Renderer will
// allocate.
const MaxDimension = 20000

// Bbox is an axis-aligned geographic window in WGS84 degrees. It is
// immutable after construction: min_lon < max_lon and min_lat < max_lat
// always hold for a value returned by New.
type Bbox struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// New constructs a Bbox, rejecting inverted or degenerate windows.
func New(minLon, minLat, maxLon, maxLat float64) (Bbox, error) {
	if minLon >= maxLon {
		return Bbox{}, &rasterr.InvalidBbox{Detail: fmt.Sprintf("min_lon (%v) must be less than max_lon (%v)", minLon, maxLon)}
	}
	if minLat >= maxLat {
		return Bbox{}, &rasterr.InvalidBbox{Detail: fmt.Sprintf("min_lat (%v) must be less than max_lat (%v)", minLat, maxLat)}
	}
	return Bbox{MinLon: minLon, MinLat: minLat, MaxLon: maxLon, MaxLat: maxLat}, nil
}

// Width returns the bbox width in degrees.
func (b Bbox) Width() float64 { return b.MaxLon - b.MinLon }

// Height returns the bbox height in degrees.
func (b Bbox) Height() float64 { return b.MaxLat - b.MinLat }

// CenterLat returns the latitude midpoint, used by the scale/resolution
// conversion.
func (b Bbox) CenterLat() float64 { return (b.MinLat + b.MaxLat) / 2 }

// Union returns the smallest Bbox enclosing both b and other.
func (b Bbox) Union(other Bbox) Bbox {
	return Bbox{
		MinLon: math.Min(b.MinLon, other.MinLon),
		MinLat: math.Min(b.MinLat, other.MinLat),
		MaxLon: math.Max(b.MaxLon, other.MaxLon),
		MaxLat: math.Max(b.MaxLat, other.MaxLat),
	}
}

// String formats the bbox as "minLon,minLat,maxLon,maxLat", the inverse of
// Parse.
func (b Bbox) String() string {
	return fmt.Sprintf("%v,%v,%v,%v", b.MinLon, b.MinLat, b.MaxLon, b.MaxLat)
}

// Parse reads a "minLon,minLat,maxLon,maxLat" string into a Bbox.
func Parse(s string) (Bbox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Bbox{}, &rasterr.InvalidBbox{Detail: fmt.Sprintf("expected 4 comma-separated values, got %d", len(parts))}
	}

	values := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Bbox{}, &rasterr.InvalidBbox{Detail: "invalid number format"}
		}
		values[i] = v
	}

	return New(values[0], values[1], values[2], values[3])
}

// Dimensions computes the image (width, height) for a bbox rendered at the
// given resolution (degrees/pixel), rounding up. It returns
// rasterr.ImageTooLarge if either dimension exceeds MaxDimension.
func Dimensions(bbox Bbox, resolution float64) (int, int, error) {
	width := int(math.Ceil(bbox.Width() / resolution))
	height := int(math.Ceil(bbox.Height() / resolution))

	if width > MaxDimension || height > MaxDimension {
		return 0, 0, &rasterr.ImageTooLarge{Width: width, Height: height, Max: MaxDimension}
	}
	return width, height, nil
}

// WorldToScreen projects a WGS84 (lon, lat) point into floating-point pixel
// space for an image of the given height. Output is not clipped or rounded.
func WorldToScreen(lon, lat float64, bbox Bbox, resolution float64, height int) (float64, float64) {
	x := (lon - bbox.MinLon) / resolution
	y := float64(height) - (lat-bbox.MinLat)/resolution
	return x, y
}

// MetersPerPixelToResolution converts a scale in meters/pixel to a
// resolution in degrees/pixel at the given bbox's center latitude. The
// 111319.0 constant and lack of ellipsoidal correction are deliberate: this
// is a display-grade conversion, not a geodesic one.
func MetersPerPixelToResolution(scale float64, bbox Bbox) float64 {
	centerLatRad := bbox.CenterLat() * math.Pi / 180.0
	return scale / (111319.0 * math.Cos(centerLatRad))
}
