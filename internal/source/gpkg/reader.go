// Package gpkg implements the GeoPackage vector-source collaborator: it
// opens a .gpkg SQLite container read-only, lists its polygon layers, and
// decodes feature geometries from the GeoPackage WKB envelope into
// geo.MultiPolygon values. The rasterization core never touches SQLite;
// everything it needs arrives through this package's reader.
package gpkg

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/MeKo-Tech/gpkg2png/internal/geo"
	"github.com/MeKo-Tech/gpkg2png/internal/rasterr"
	"github.com/MeKo-Tech/gpkg2png/internal/wkb"
)

// LayerInfo describes one polygon layer of a GeoPackage.
type LayerInfo struct {
	Name           string
	GeometryColumn string
	SRSID          int
}

// Reader reads polygon layers out of a GeoPackage file.
type Reader struct {
	db   *sql.DB
	path string
}

// Open opens path read-only, failing with rasterr.FileNotFound if the
// container schema cannot be verified.
func Open(path string) (*Reader, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro&immutable=1")
	if err != nil {
		return nil, &rasterr.FileNotFound{Path: path}
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='gpkg_contents'").Scan(&count)
	if err != nil || count == 0 {
		db.Close()
		return nil, &rasterr.FileNotFound{Path: path}
	}

	return &Reader{db: db, path: path}, nil
}

// Close releases the underlying database connection.
func (r *Reader) Close() error {
	return r.db.Close()
}

// ListLayers returns every features-table layer whose geometry type name
// names a polygon. Attribute tables and tile pyramids are never listed.
func (r *Reader) ListLayers() ([]LayerInfo, error) {
	rows, err := r.db.Query(`
		SELECT c.table_name, g.column_name, g.srs_id, g.geometry_type_name
		FROM gpkg_contents c
		JOIN gpkg_geometry_columns g ON c.table_name = g.table_name
		WHERE c.data_type = 'features'
	`)
	if err != nil {
		return nil, fmt.Errorf("gpkg: listing layers: %w", err)
	}
	defer rows.Close()

	var layers []LayerInfo
	for rows.Next() {
		var (
			name, column, geomType string
			srsID                  int
		)
		if err := rows.Scan(&name, &column, &srsID, &geomType); err != nil {
			return nil, fmt.Errorf("gpkg: scanning layer row: %w", err)
		}
		if !strings.Contains(strings.ToUpper(geomType), "POLYGON") {
			continue
		}
		layers = append(layers, LayerInfo{Name: name, GeometryColumn: column, SRSID: srsID})
	}
	return layers, rows.Err()
}

// LayerBbox returns the layer's declared bounds from gpkg_contents, in the
// layer's source CRS. ok is false if any bound is NULL.
func (r *Reader) LayerBbox(layer LayerInfo) (bbox [4]float64, ok bool, err error) {
	var minX, minY, maxX, maxY sql.NullFloat64
	err = r.db.QueryRow(
		"SELECT min_x, min_y, max_x, max_y FROM gpkg_contents WHERE table_name = ?",
		layer.Name,
	).Scan(&minX, &minY, &maxX, &maxY)
	if err != nil {
		return bbox, false, fmt.Errorf("gpkg: reading layer bbox: %w", err)
	}
	if !minX.Valid || !minY.Valid || !maxX.Valid || !maxY.Valid {
		return bbox, false, nil
	}
	return [4]float64{minX.Float64, minY.Float64, maxX.Float64, maxY.Float64}, true, nil
}

// FeatureCount returns the number of rows in layer's feature table,
// regardless of geometry type or validity.
func (r *Reader) FeatureCount(layer LayerInfo) (int, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(layer.Name))
	if err := r.db.QueryRow(query).Scan(&count); err != nil {
		return 0, fmt.Errorf("gpkg: counting features in %s: %w", layer.Name, err)
	}
	return count, nil
}

// SRSDefinition returns the textual CRS definition for srsID, as supplied to
// the reprojection adaptor.
func (r *Reader) SRSDefinition(srsID int) (string, error) {
	var def string
	err := r.db.QueryRow("SELECT definition FROM gpkg_spatial_ref_sys WHERE srs_id = ?", srsID).Scan(&def)
	if err != nil {
		return "", fmt.Errorf("gpkg: reading srs definition for %d: %w", srsID, err)
	}
	return def, nil
}

// ReadGeometries streams every feature's geometry column in layer, decoding
// the GeoPackage WKB envelope and dropping anything that is not a Polygon or
// MultiPolygon.
func (r *Reader) ReadGeometries(layer LayerInfo) ([]geo.MultiPolygon, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", quoteIdent(layer.GeometryColumn), quoteIdent(layer.Name))
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("gpkg: reading geometries from %s: %w", layer.Name, err)
	}
	defer rows.Close()

	var out []geo.MultiPolygon
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("gpkg: scanning geometry blob: %w", err)
		}

		mp, ok := decodeFeature(blob)
		if !ok {
			continue
		}
		out = append(out, mp)
	}
	return out, rows.Err()
}

// decodeFeature strips the GeoPackage envelope and decodes the resulting
// ISO-WKB. Any failure -- truncated blob, invalid envelope indicator, or an
// unsupported geometry type -- silently drops the feature rather than
// aborting the read.
func decodeFeature(blob []byte) (geo.MultiPolygon, bool) {
	body, err := stripEnvelope(blob)
	if err != nil {
		return nil, false
	}

	mp, err := wkb.Decode(body)
	if err != nil || mp == nil {
		return nil, false
	}
	return mp, true
}

// quoteIdent double-quotes a SQL identifier, escaping embedded quotes.
func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
