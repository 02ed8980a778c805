package raster

import (
	"testing"

	"github.com/MeKo-Tech/gpkg2png/internal/geo"
)

func identityProject(scale float64) func(geo.Point) [2]float64 {
	return func(p geo.Point) [2]float64 {
		return [2]float64{p[0] * scale, p[1] * scale}
	}
}

func TestNewEdgeDiagonal(t *testing.T) {
	edge, yStart, ok := newEdge([2]float64{10, 10}, [2]float64{20, 20})
	if !ok {
		t.Fatal("expected diagonal segment to produce an edge")
	}
	if edge.YMax != 20 {
		t.Errorf("YMax = %d, want 20", edge.YMax)
	}
	if edge.XCurrent != 10 {
		t.Errorf("XCurrent = %v, want 10", edge.XCurrent)
	}
	if edge.InvSlope != 1 {
		t.Errorf("InvSlope = %v, want 1", edge.InvSlope)
	}
	if yStart != 10 {
		t.Errorf("yStart = %d, want 10", yStart)
	}
}

func TestNewEdgeHorizontalIgnored(t *testing.T) {
	if _, _, ok := newEdge([2]float64{10, 10}, [2]float64{20, 10}); ok {
		t.Fatal("expected horizontal segment to be rejected")
	}
}

func TestScanlineTableExtraction(t *testing.T) {
	bbox, err := geo.New(0, 0, 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	resolution := 1.0
	height := 10

	ring := geo.Ring{{2, 2}, {8, 2}, {8, 8}, {2, 8}, {2, 2}}
	poly := geo.Polygon{ring}
	mp := geo.MultiPolygon{poly}

	project := func(p geo.Point) [2]float64 {
		x, y := geo.WorldToScreen(p[0], p[1], bbox, resolution, height)
		return [2]float64{x, y}
	}

	table := NewScanlineTable(0, height)
	table.ExtractFromMultiPolygon(mp, project)

	// In screen space the ring is (2,8)->(8,8)->(8,2)->(2,2)->(2,8): the two
	// horizontal segments are dropped, and both verticals start at screen
	// row 2 and end at row 8.
	if len(table.Entries[2]) != 2 {
		t.Fatalf("expected 2 edges starting at row 2, got %d", len(table.Entries[2]))
	}
	for _, e := range table.Entries[2] {
		if e.YMax != 8 {
			t.Errorf("edge YMax = %d, want 8", e.YMax)
		}
	}
}

func TestScanlineTableIgnoresDegenerateRing(t *testing.T) {
	ring := geo.Ring{{0, 0}, {1, 1}}
	poly := geo.Polygon{ring}
	mp := geo.MultiPolygon{poly}

	table := NewScanlineTable(0, 10)
	table.ExtractFromMultiPolygon(mp, identityProject(1))

	for _, row := range table.Entries {
		if len(row) != 0 {
			t.Fatalf("expected no edges from a 2-point ring, got %d", len(row))
		}
	}
}
