package raster

import (
	"image/color"
	"sync"

	"github.com/MeKo-Tech/gpkg2png/internal/geo"
)

// StrokeMultiPolygon draws every ring of every polygon in mp as a sequence of
// thick Bresenham line segments in the fully opaque stroke color. Polygons
// are rasterized in parallel; within a polygon, rings and their segments are
// sequential.
func StrokeMultiPolygon(buf *Buffer, mp geo.MultiPolygon, project func(geo.Point) [2]float64, stroke color.NRGBA, strokeWidth int) {
	if strokeWidth <= 0 {
		return
	}

	var wg sync.WaitGroup
	for _, poly := range mp {
		wg.Add(1)
		go func(poly geo.Polygon) {
			defer wg.Done()
			strokePolygon(buf, poly, project, stroke, strokeWidth)
		}(poly)
	}
	wg.Wait()
}

func strokePolygon(buf *Buffer, poly geo.Polygon, project func(geo.Point) [2]float64, stroke color.NRGBA, strokeWidth int) {
	for _, ring := range poly {
		strokeRing(buf, ring, project, stroke, strokeWidth)
	}
}

func strokeRing(buf *Buffer, ring geo.Ring, project func(geo.Point) [2]float64, stroke color.NRGBA, strokeWidth int) {
	n := len(ring)
	if n < 2 {
		return
	}

	screen := make([][2]float64, n)
	for i, p := range ring {
		screen[i] = project(p)
	}

	for i := 0; i < n; i++ {
		p1 := screen[i]
		p2 := screen[(i+1)%n]
		drawLine(buf, p1, p2, stroke, strokeWidth)
	}
}

// drawLine rasterizes the segment from p1 to p2 using integer Bresenham
// between truncated endpoints, brushing a (2*half+1)^2 square of the stroke
// color at every point along the way.
func drawLine(buf *Buffer, p1, p2 [2]float64, stroke color.NRGBA, strokeWidth int) {
	x0, y0 := int(p1[0]), int(p1[1])
	x1, y1 := int(p2[0]), int(p2[1])

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 >= x1 {
		sx = -1
	}
	sy := 1
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy

	half := strokeWidth / 2

	x, y := x0, y0
	for {
		brush(buf, x, y, half, stroke)

		if x == x1 && y == y1 {
			break
		}

		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func brush(buf *Buffer, cx, cy, half int, stroke color.NRGBA) {
	for wy := -half; wy <= half; wy++ {
		py := cy + wy
		if py < 0 || py >= buf.Height {
			continue
		}
		for wx := -half; wx <= half; wx++ {
			px := cx + wx
			if px < 0 || px >= buf.Width {
				continue
			}
			buf.CompositeOver(px, py, stroke)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
