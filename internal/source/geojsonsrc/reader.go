// Package geojsonsrc implements the GeoJSON vector-source collaborator:
// tolerant preprocessing of common malformations, parsing via
// paulmach/orb/geojson, and extraction of polygon geometries. Geometries are
// assumed to already be WGS84 (EPSG:4326) -- GeoJSON carries no CRS the core
// needs to reproject.
package geojsonsrc

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/paulmach/orb"
	orbgeojson "github.com/paulmach/orb/geojson"

	"github.com/MeKo-Tech/gpkg2png/internal/geo"
	"github.com/MeKo-Tech/gpkg2png/internal/rasterr"
)

// Reader holds the polygon geometries extracted from one GeoJSON document.
type Reader struct {
	geometries []geo.MultiPolygon
}

// Open reads and parses path, applying the tolerance preprocessing before
// handing the result to the GeoJSON parser.
func Open(path string) (*Reader, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &rasterr.FileNotFound{Path: path}
		}
		return nil, err
	}

	processed := Preprocess(string(content))

	doc, err := orbgeojson.UnmarshalFeatureCollection([]byte(processed))
	if err != nil {
		// The document might be a single Feature or a bare Geometry rather
		// than a FeatureCollection; fall back before giving up.
		if geoms, ok := tryBareDocument(processed); ok {
			return &Reader{geometries: geoms}, nil
		}
		return nil, fmt.Errorf("geojsonsrc: parsing %s: %w", path, err)
	}

	return &Reader{geometries: extractFromFeatures(doc.Features)}, nil
}

func tryBareDocument(content string) ([]geo.MultiPolygon, bool) {
	if feature, err := orbgeojson.UnmarshalFeature([]byte(content)); err == nil {
		return extractFromFeatures([]*orbgeojson.Feature{feature}), true
	}
	if g, err := orbgeojson.UnmarshalGeometry([]byte(content)); err == nil {
		if mp, ok := geometryToMultiPolygon(g.Geometry()); ok {
			return []geo.MultiPolygon{mp}, true
		}
		return nil, true
	}
	return nil, false
}

// Geometries returns every polygon/multipolygon feature extracted from the
// document.
func (r *Reader) Geometries() []geo.MultiPolygon {
	return r.geometries
}

// ComputeBbox returns the min/max enclosure over every vertex of every
// accepted polygon, or ok=false if there are no geometries.
func (r *Reader) ComputeBbox() (geo.Bbox, bool) {
	if len(r.geometries) == 0 {
		return geo.Bbox{}, false
	}

	minLon, minLat := math.Inf(1), math.Inf(1)
	maxLon, maxLat := math.Inf(-1), math.Inf(-1)

	for _, mp := range r.geometries {
		for _, poly := range mp {
			for _, ring := range poly {
				for _, p := range ring {
					minLon = math.Min(minLon, p[0])
					minLat = math.Min(minLat, p[1])
					maxLon = math.Max(maxLon, p[0])
					maxLat = math.Max(maxLat, p[1])
				}
			}
		}
	}

	bbox, err := geo.New(minLon, minLat, maxLon, maxLat)
	if err != nil {
		return geo.Bbox{}, false
	}
	return bbox, true
}

// Preprocess fixes common GeoJSON malformations before parsing: first it
// repairs an empty "type" field into "MultiPolygon", then it collapses
// CSV-style doubled quotes. The order matters -- the empty-type fix must run
// first, or the empty string becomes a lone quote and breaks parsing.
func Preprocess(content string) string {
	content = strings.ReplaceAll(content, `"type":""`, `"type":"MultiPolygon"`)
	content = strings.ReplaceAll(content, `"type": ""`, `"type": "MultiPolygon"`)
	return strings.ReplaceAll(content, `""`, `"`)
}

func extractFromFeatures(features []*orbgeojson.Feature) []geo.MultiPolygon {
	var out []geo.MultiPolygon
	for _, f := range features {
		if f == nil || f.Geometry == nil {
			continue
		}
		if mp, ok := geometryToMultiPolygon(f.Geometry); ok {
			out = append(out, mp)
		}
	}
	return out
}

func geometryToMultiPolygon(g orb.Geometry) (geo.MultiPolygon, bool) {
	switch v := g.(type) {
	case orb.Polygon:
		return geo.MultiPolygon{v}, true
	case orb.MultiPolygon:
		if len(v) == 0 {
			return nil, false
		}
		return v, true
	default:
		return nil, false
	}
}
