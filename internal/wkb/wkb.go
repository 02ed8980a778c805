// Package wkb decodes the ISO-WKB binary geometry encoding that GeoPackage
// stores (after stripping its own envelope header, see internal/source/gpkg)
// into Polygon and MultiPolygon values. Points, LineStrings and any other
// geometry type decode to (nil, nil): the caller silently drops them.
package wkb

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/MeKo-Tech/gpkg2png/internal/geo"
)

const (
	wkbPolygon        = 3
	wkbMultiPolygon   = 6
	wkbPolygonZ       = 1003
	wkbMultiPolygonZ  = 1006
	wkbPolygonM       = 2003
	wkbMultiPolygonM  = 2006
	wkbPolygonZM      = 3003
	wkbMultiPolygonZM = 3006
)

// Decode reads a standalone ISO-WKB payload (no GeoPackage header) and
// returns the MultiPolygon it encodes. Non-polygonal geometry types return
// (nil, nil) rather than an error, matching the "silently dropped" policy for
// unsupported geometry types.
func Decode(data []byte) (geo.MultiPolygon, error) {
	r := &reader{data: data}

	byteOrder, err := r.byte()
	if err != nil {
		return nil, err
	}
	order := pickOrder(byteOrder)

	geomType, err := r.uint32(order)
	if err != nil {
		return nil, err
	}

	switch geomType {
	case wkbPolygon, wkbPolygonZ, wkbPolygonM, wkbPolygonZM:
		poly, err := r.readPolygon(order, dims(geomType))
		if err != nil {
			return nil, err
		}
		return geo.MultiPolygon{poly}, nil
	case wkbMultiPolygon, wkbMultiPolygonZ, wkbMultiPolygonM, wkbMultiPolygonZM:
		return r.readMultiPolygon(order)
	default:
		// Point, LineString, and anything else is silently dropped.
		return nil, nil
	}
}

// dims returns the number of ordinates per point for a (possibly Z/M
// tagged) polygon geometry type code.
func dims(geomType uint32) int {
	switch {
	case geomType >= 3000:
		return 4 // ZM
	case geomType >= 1000:
		return 3 // Z or M
	default:
		return 2
	}
}

func pickOrder(flag byte) binary.ByteOrder {
	if flag == 0 {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

type reader struct {
	data []byte
	pos  int
}

func (r *reader) byte() (byte, error) {
	if r.pos+1 > len(r.data) {
		return 0, fmt.Errorf("wkb: unexpected end of data reading byte order")
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) uint32(order binary.ByteOrder) (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("wkb: unexpected end of data reading uint32")
	}
	v := order.Uint32(r.data[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *reader) float64(order binary.ByteOrder) (float64, error) {
	if r.pos+8 > len(r.data) {
		return 0, fmt.Errorf("wkb: unexpected end of data reading float64")
	}
	bits := order.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return math.Float64frombits(bits), nil
}

func (r *reader) readPoint(order binary.ByteOrder, nDims int) (geo.Point, error) {
	x, err := r.float64(order)
	if err != nil {
		return geo.Point{}, err
	}
	y, err := r.float64(order)
	if err != nil {
		return geo.Point{}, err
	}
	// Skip any additional Z/M ordinates; the core only uses (x, y).
	for i := 2; i < nDims; i++ {
		if _, err := r.float64(order); err != nil {
			return geo.Point{}, err
		}
	}
	return geo.Point{x, y}, nil
}

func (r *reader) readRing(order binary.ByteOrder, nDims int) (geo.Ring, error) {
	count, err := r.uint32(order)
	if err != nil {
		return nil, err
	}
	ring := make(geo.Ring, count)
	for i := range ring {
		p, err := r.readPoint(order, nDims)
		if err != nil {
			return nil, err
		}
		ring[i] = p
	}
	return ring, nil
}

func (r *reader) readPolygon(order binary.ByteOrder, nDims int) (geo.Polygon, error) {
	count, err := r.uint32(order)
	if err != nil {
		return nil, err
	}
	poly := make(geo.Polygon, count)
	for i := range poly {
		ring, err := r.readRing(order, nDims)
		if err != nil {
			return nil, err
		}
		poly[i] = ring
	}
	return poly, nil
}

func (r *reader) readMultiPolygon(outerOrder binary.ByteOrder) (geo.MultiPolygon, error) {
	count, err := r.uint32(outerOrder)
	if err != nil {
		return nil, err
	}

	mp := make(geo.MultiPolygon, 0, count)
	for i := uint32(0); i < count; i++ {
		byteOrder, err := r.byte()
		if err != nil {
			return nil, err
		}
		order := pickOrder(byteOrder)

		geomType, err := r.uint32(order)
		if err != nil {
			return nil, err
		}
		if geomType != wkbPolygon && geomType != wkbPolygonZ && geomType != wkbPolygonM && geomType != wkbPolygonZM {
			return nil, fmt.Errorf("wkb: expected polygon member in multipolygon, got type %d", geomType)
		}

		poly, err := r.readPolygon(order, dims(geomType))
		if err != nil {
			return nil, err
		}
		mp = append(mp, poly)
	}
	return mp, nil
}
