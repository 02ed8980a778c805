// Package raster implements the core rasterization pipeline: the Global/
// Active Edge Table scanline polygon fill, the Bresenham stroke rasterizer,
// the Porter-Duff compositor, and the Renderer facade that ties them
// together over a shared image buffer.
package raster

import (
	"math"

	"github.com/MeKo-Tech/gpkg2png/internal/geo"
)

// horizontalEpsilon is the |dy| threshold below which a projected segment is
// treated as horizontal and never turned into an Edge.
const horizontalEpsilon = 1e-9

// Edge is a single non-horizontal segment of a ring, already projected to
// pixel space and oriented so y_min <= y_max.
type Edge struct {
	YMax     int     // scanline at which this edge stops being active
	XCurrent float64 // x coordinate at the current scanline
	InvSlope float64 // dx/dy, added to XCurrent for every scanline advanced
}

// newEdge builds an Edge from two already-projected points, returning ok=false
// for horizontal segments.
func newEdge(p1, p2 [2]float64) (edge Edge, yStart int, ok bool) {
	y1, y2 := p1[1], p2[1]
	if math.Abs(y1-y2) < horizontalEpsilon {
		return Edge{}, 0, false
	}

	start, end := p1, p2
	if y2 < y1 {
		start, end = p2, p1
	}

	invSlope := (end[0] - start[0]) / (end[1] - start[1])
	yMax := int(math.Round(end[1]))
	yStart = int(math.Round(start[1]))

	return Edge{YMax: yMax, XCurrent: start[0], InvSlope: invSlope}, yStart, true
}

// ScanlineTable is a Global Edge Table: edges grouped by the scanline row at
// which they first become active. It is built once per MultiPolygon and
// discarded after the fill pass consumes it.
type ScanlineTable struct {
	YMin    int
	Entries [][]Edge // Entries[y - YMin] lists edges starting at row y
}

// NewScanlineTable allocates an empty table covering [yMin, yMin+height).
func NewScanlineTable(yMin, height int) *ScanlineTable {
	return &ScanlineTable{
		YMin:    yMin,
		Entries: make([][]Edge, height),
	}
}

// AddEdge inserts edge into the row it starts on, discarding it if that row
// falls outside the table's range.
func (t *ScanlineTable) AddEdge(yStart int, edge Edge) {
	idx := yStart - t.YMin
	if idx >= 0 && idx < len(t.Entries) {
		t.Entries[idx] = append(t.Entries[idx], edge)
	}
}

// ExtractFromMultiPolygon walks every ring of every polygon in mp, projecting
// vertices with project and inserting the resulting edges into the table.
func (t *ScanlineTable) ExtractFromMultiPolygon(mp geo.MultiPolygon, project func(geo.Point) [2]float64) {
	for _, poly := range mp {
		t.extractFromPolygon(poly, project)
	}
}

func (t *ScanlineTable) extractFromPolygon(poly geo.Polygon, project func(geo.Point) [2]float64) {
	for _, ring := range poly {
		t.extractFromRing(ring, project)
	}
}

// extractFromRing projects every vertex, then builds an Edge for each
// consecutive pair including the closing wrap-around segment.
func (t *ScanlineTable) extractFromRing(ring geo.Ring, project func(geo.Point) [2]float64) {
	if !geo.UsableRing(ring) {
		return
	}

	screen := make([][2]float64, len(ring))
	for i, p := range ring {
		screen[i] = project(p)
	}

	n := len(screen)
	for i := 0; i < n; i++ {
		p1 := screen[i]
		p2 := screen[(i+1)%n]

		edge, yStart, ok := newEdge(p1, p2)
		if !ok {
			continue
		}
		t.AddEdge(yStart, edge)
	}
}
