package geo

import "github.com/paulmach/orb"

// Ring, Polygon and MultiPolygon are the wire types flowing from both vector
// source collaborators into the rasterizer: a ring is a closed sequence of
// (x, y) degree pairs, a polygon is one exterior ring plus zero or more
// interior holes, and a MultiPolygon is an ordered sequence of polygons.
type (
	Ring         = orb.Ring
	Polygon      = orb.Polygon
	MultiPolygon = orb.MultiPolygon
	Point        = orb.Point
)

// UsableRing reports whether a ring has enough distinct points to rasterize.
// Rings with fewer than 3 distinct points are ignored per the data model.
func UsableRing(ring Ring) bool {
	distinct := make(map[orb.Point]struct{}, len(ring))
	for _, p := range ring {
		distinct[p] = struct{}{}
	}
	return len(distinct) >= 3
}
