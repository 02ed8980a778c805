// Package bboxutil provides debugging and reporting helpers built on top of
// the Web Mercator XYZ tile scheme -- it answers "which slippy-map tiles
// does this bbox touch", not anything the rasterizer itself needs.
package bboxutil

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"

	"github.com/MeKo-Tech/gpkg2png/internal/geo"
)

// TileID identifies one XYZ tile.
type TileID struct {
	Z, X, Y uint32
}

// String formats the tile id as "z/x/y", the conventional slippy-map path.
func (t TileID) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}

// Cover returns every tile id that a bbox overlaps at the given zoom level.
// These are the XYZ tiles a rendered bbox would need to be sliced into for
// web delivery; the layers subcommand reports their number through Count.
func Cover(bbox geo.Bbox, zoom uint32) []TileID {
	minPoint := orb.Point{bbox.MinLon, bbox.MinLat}
	maxPoint := orb.Point{bbox.MaxLon, bbox.MaxLat}

	z := maptile.Zoom(zoom)
	minTile := maptile.At(minPoint, z)
	maxTile := maptile.At(maxPoint, z)

	minX, maxX := minTile.X, maxTile.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	// Y is inverted: increasing latitude means decreasing tile row.
	minY, maxY := minTile.Y, maxTile.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}

	ids := make([]TileID, 0, (maxX-minX+1)*(maxY-minY+1))
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			ids = append(ids, TileID{Z: zoom, X: x, Y: y})
		}
	}
	return ids
}

// Count is the size Cover would return, without allocating the slice.
func Count(bbox geo.Bbox, zoom uint32) int {
	minPoint := orb.Point{bbox.MinLon, bbox.MinLat}
	maxPoint := orb.Point{bbox.MaxLon, bbox.MaxLat}

	z := maptile.Zoom(zoom)
	minTile := maptile.At(minPoint, z)
	maxTile := maptile.At(maxPoint, z)

	minX, maxX := minTile.X, maxTile.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := minTile.Y, maxTile.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}

	return int(maxX-minX+1) * int(maxY-minY+1)
}
