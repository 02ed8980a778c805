package raster

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/gpkg2png/internal/geo"
	"github.com/MeKo-Tech/gpkg2png/internal/rasterr"
	"github.com/stretchr/testify/require"
)

func TestRendererDimensions(t *testing.T) {
	bbox := mustBbox(t, 0, 0, 1, 1)
	r, err := New(RenderConfig{Bbox: bbox, Resolution: 0.01})
	require.NoError(t, err)

	w, h := r.Dimensions()
	if w != 100 || h != 100 {
		t.Errorf("Dimensions() = (%d, %d), want (100, 100)", w, h)
	}
}

func TestRendererImageTooLarge(t *testing.T) {
	bbox := mustBbox(t, 0, 0, 100, 100)
	_, err := New(RenderConfig{Bbox: bbox, Resolution: 0.0001})

	var tooLarge *rasterr.ImageTooLarge
	if err == nil {
		t.Fatal("expected ImageTooLarge error")
	}
	if !asImageTooLarge(err, &tooLarge) {
		t.Fatalf("expected *rasterr.ImageTooLarge, got %T: %v", err, err)
	}
	if tooLarge.Width != 1_000_000 || tooLarge.Height != 1_000_000 || tooLarge.Max != geo.MaxDimension {
		t.Errorf("unexpected error fields: %+v", tooLarge)
	}
}

func asImageTooLarge(err error, target **rasterr.ImageTooLarge) bool {
	e, ok := err.(*rasterr.ImageTooLarge)
	if ok {
		*target = e
	}
	return ok
}

// Partial-alpha pixels must survive Save bit-exactly: the buffer stores
// straight alpha, so the PNG encoder must not un-premultiply it on the way
// out.
func TestSaveRoundTripPreservesPartialAlpha(t *testing.T) {
	bbox := mustBbox(t, 0, 0, 10, 10)
	r, err := New(RenderConfig{
		Bbox:       bbox,
		Resolution: 1,
		Fill:       color.NRGBA{R: 255, A: 128},
	})
	require.NoError(t, err)

	ring := geo.Ring{{2, 2}, {8, 2}, {8, 8}, {2, 8}, {2, 2}}
	mp := geo.MultiPolygon{geo.Polygon{ring}}
	r.RenderMultiPolygon(mp)
	r.RenderMultiPolygon(mp)

	stored := r.buf.Img.NRGBAAt(5, 5)
	if stored.A == 0 || stored.A == 255 {
		t.Fatalf("expected a partial-alpha pixel to exercise, got %+v", stored)
	}

	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, r.Save(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	decoded, err := png.Decode(f)
	require.NoError(t, err)

	got := color.NRGBAModel.Convert(decoded.At(5, 5)).(color.NRGBA)
	if got != stored {
		t.Errorf("decoded pixel = %+v, want the stored value %+v", got, stored)
	}
}

func TestRendererFillThenStroke(t *testing.T) {
	bbox := mustBbox(t, 0, 0, 10, 10)
	r, err := New(RenderConfig{
		Bbox:        bbox,
		Resolution:  1,
		Fill:        color.NRGBA{R: 255, A: 255},
		Stroke:      color.NRGBA{B: 255},
		StrokeWidth: 1,
	})
	require.NoError(t, err)

	ring := geo.Ring{{2, 2}, {8, 2}, {8, 8}, {2, 8}, {2, 2}}
	mp := geo.MultiPolygon{geo.Polygon{ring}}

	r.RenderMultiPolygon(mp)

	// The stroke is drawn over the fill along the boundary.
	edge := r.buf.Img.NRGBAAt(2, 5)
	if edge.B != 255 || edge.A != 255 {
		t.Errorf("stroke pixel = %+v, want opaque blue", edge)
	}

	// The interior, away from the boundary, stays the fill color.
	interior := r.buf.Img.NRGBAAt(5, 5)
	if interior != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("interior pixel = %+v, want opaque red", interior)
	}
}
