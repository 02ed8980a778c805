package raster

import (
	"image/color"
	"sort"
	"sync"

	"github.com/MeKo-Tech/gpkg2png/internal/geo"
)

// numBands returns the number of horizontal bands the fill pass splits height
// into: max(1, workers) * 4, per the concurrency model in the design notes.
func numBands(workers int) int {
	if workers < 1 {
		workers = 1
	}
	return workers * 4
}

// FillMultiPolygon rasterizes mp's even-odd fill into buf using fill as the
// source color, projecting vertices with project. The fill proceeds in
// parallel across disjoint horizontal bands; every band simulates scanning
// from row 0 so that each edge's running x_current is correct when the band
// reaches its own row range, but only writes pixels inside that range (see
// the band-decomposition invariant in the design notes).
func FillMultiPolygon(buf *Buffer, mp geo.MultiPolygon, project func(geo.Point) [2]float64, fill color.NRGBA, workers int) {
	height := buf.Height
	if height == 0 {
		return
	}

	get := NewScanlineTable(0, height)
	get.ExtractFromMultiPolygon(mp, project)

	bands := numBands(workers)
	bandHeight := (height + bands - 1) / bands

	var wg sync.WaitGroup
	for b := 0; b < bands; b++ {
		bandStart := b * bandHeight
		bandEnd := bandStart + bandHeight
		if bandEnd > height {
			bandEnd = height
		}
		if bandStart >= bandEnd {
			continue
		}

		wg.Add(1)
		go func(bandStart, bandEnd int) {
			defer wg.Done()
			fillBand(buf, get, bandStart, bandEnd, fill)
		}(bandStart, bandEnd)
	}
	wg.Wait()
}

// fillBand runs the classical scanline loop from row 0 up to bandEnd,
// maintaining a local Active Edge Table, but only emits spans (and therefore
// only writes pixels) for rows in [bandStart, bandEnd).
func fillBand(buf *Buffer, get *ScanlineTable, bandStart, bandEnd int, fill color.NRGBA) {
	var aet []Edge

	for y := 0; y < bandEnd; y++ {
		aet = append(aet, get.Entries[y]...)

		kept := aet[:0]
		for _, e := range aet {
			if e.YMax > y {
				kept = append(kept, e)
			}
		}
		aet = kept

		if y >= bandStart {
			emitSpans(buf, aet, y, fill)
		}

		for i := range aet {
			aet[i].XCurrent += aet[i].InvSlope
		}
	}
}

// emitSpans sorts the AET by x_current and fills the even-odd spans it
// implies for row y.
func emitSpans(buf *Buffer, aet []Edge, y int, fill color.NRGBA) {
	if len(aet) < 2 {
		return
	}

	sort.Slice(aet, func(i, j int) bool { return aet[i].XCurrent < aet[j].XCurrent })

	width := buf.Width
	for i := 0; i+1 < len(aet); i += 2 {
		xStart := clampInt(roundHalfAwayFromZero(aet[i].XCurrent), 0, width-1)
		xEnd := clampInt(roundHalfAwayFromZero(aet[i+1].XCurrent), 0, width)

		for x := xStart; x < xEnd; x++ {
			buf.CompositeOver(x, y, fill)
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundHalfAwayFromZero(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return -int(-v + 0.5)
}
