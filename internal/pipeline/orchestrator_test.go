package pipeline

import (
	"testing"

	"github.com/MeKo-Tech/gpkg2png/internal/geo"
)

func TestDetectSourceCaseInsensitive(t *testing.T) {
	if !DetectSource("Parcels.GPKG") {
		t.Error("expected uppercase .GPKG extension to be detected")
	}
}

func TestComputeBboxFromGeometriesUnionsAllRings(t *testing.T) {
	outer := geo.MultiPolygon{
		geo.Polygon{geo.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}},
	}
	farAway := geo.MultiPolygon{
		geo.Polygon{geo.Ring{{10, 10}, {11, 10}, {11, 11}, {10, 11}, {10, 10}}},
	}

	bbox, err := computeBboxFromGeometries([]geo.MultiPolygon{outer, farAway})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bbox.MinLon != 0 || bbox.MinLat != 0 || bbox.MaxLon != 11 || bbox.MaxLat != 11 {
		t.Errorf("unexpected union bbox: %+v", bbox)
	}
}
