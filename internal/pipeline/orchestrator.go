package pipeline

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/MeKo-Tech/gpkg2png/internal/config"
	"github.com/MeKo-Tech/gpkg2png/internal/geo"
	"github.com/MeKo-Tech/gpkg2png/internal/rasterr"
	"github.com/MeKo-Tech/gpkg2png/internal/reproject"
	"github.com/MeKo-Tech/gpkg2png/internal/source/geojsonsrc"
	"github.com/MeKo-Tech/gpkg2png/internal/source/gpkg"
)

// layerData holds one layer's already-reprojected geometries and its own
// WGS84 bbox, gathered before the shared render bbox is known.
type layerData struct {
	layer      gpkg.LayerInfo
	geometries []geo.MultiPolygon
	bbox       geo.Bbox
}

// PlanGeoPackage opens a GeoPackage and builds one Job per polygon layer
// (or just the requested one, if opts.Layer is set). Each layer's
// geometries are reprojected to WGS84 using its declared SRS. When no
// explicit bbox is given, every requested layer's own bbox is unioned into
// one shared window so all layers render against the same extent.
func PlanGeoPackage(path string, opts config.RenderOptions, outputDir string, preview bool) ([]Job, error) {
	reader, err := gpkg.Open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	layers, err := reader.ListLayers()
	if err != nil {
		return nil, err
	}

	if opts.Layer != "" {
		names := make([]string, len(layers))
		var match *gpkg.LayerInfo
		for i, l := range layers {
			names[i] = l.Name
			if l.Name == opts.Layer {
				layer := l
				match = &layer
			}
		}
		if match == nil {
			return nil, &rasterr.LayerNotFound{Name: opts.Layer, Available: names}
		}
		layers = []gpkg.LayerInfo{*match}
	}

	perLayer := make([]layerData, 0, len(layers))
	var union geo.Bbox
	haveUnion := false

	for _, layer := range layers {
		geometries, err := reader.ReadGeometries(layer)
		if err != nil {
			return nil, err
		}

		srsDef, err := reader.SRSDefinition(layer.SRSID)
		if err != nil {
			return nil, err
		}
		geometries = reproject.ReprojectGeometriesParallel(geometries, layer.SRSID, srsDef, runtime.NumCPU())

		bbox, err := resolveLayerBbox(reader, layer, geometries, reproject.NewTransformer(layer.SRSID, srsDef))
		if err != nil {
			return nil, err
		}

		if haveUnion {
			union = union.Union(bbox)
		} else {
			union = bbox
			haveUnion = true
		}

		perLayer = append(perLayer, layerData{layer: layer, geometries: geometries, bbox: bbox})
	}

	sharedBbox := opts.Bbox
	if sharedBbox == nil {
		if !haveUnion {
			return nil, &rasterr.InvalidBbox{Detail: "no geometries to derive a bbox from"}
		}
		sharedBbox = &union
	}
	opts.ResolveScale(*sharedBbox)

	jobs := make([]Job, 0, len(perLayer))
	for _, ld := range perLayer {
		jobs = append(jobs, Job{
			Name:        ld.layer.Name,
			Geometries:  ld.geometries,
			Bbox:        *sharedBbox,
			Resolution:  opts.Resolution,
			Fill:        opts.Fill,
			Stroke:      opts.Stroke,
			StrokeWidth: opts.StrokeWidth,
			OutputPath:  filepath.Join(outputDir, ld.layer.Name+".png"),
			Preview:     preview,
		})
	}
	return jobs, nil
}

// resolveLayerBbox returns one layer's own bbox in WGS84: its declared
// gpkg_contents bounds, reprojected, or failing that the enclosure of its
// own geometries.
func resolveLayerBbox(reader *gpkg.Reader, layer gpkg.LayerInfo, geometries []geo.MultiPolygon, transformer reproject.Transformer) (geo.Bbox, error) {
	if raw, ok, err := reader.LayerBbox(layer); err == nil && ok {
		if bbox, ok := reproject.ReprojectBbox(raw[0], raw[1], raw[2], raw[3], transformer); ok {
			return bbox, nil
		}
	}

	return computeBboxFromGeometries(geometries)
}

func computeBboxFromGeometries(geometries []geo.MultiPolygon) (geo.Bbox, error) {
	var minLon, minLat, maxLon, maxLat float64
	first := true
	for _, mp := range geometries {
		for _, poly := range mp {
			for _, ring := range poly {
				for _, p := range ring {
					if first {
						minLon, maxLon = p[0], p[0]
						minLat, maxLat = p[1], p[1]
						first = false
						continue
					}
					if p[0] < minLon {
						minLon = p[0]
					}
					if p[0] > maxLon {
						maxLon = p[0]
					}
					if p[1] < minLat {
						minLat = p[1]
					}
					if p[1] > maxLat {
						maxLat = p[1]
					}
				}
			}
		}
	}
	if first {
		return geo.Bbox{}, &rasterr.InvalidBbox{Detail: "no geometries to derive a bbox from"}
	}
	return geo.New(minLon, minLat, maxLon, maxLat)
}

// PlanGeoJSON opens a single GeoJSON document and builds its single Job.
// GeoJSON carries no CRS information the pipeline needs to reproject: per
// spec, its coordinates are assumed to already be WGS84.
func PlanGeoJSON(path string, opts config.RenderOptions, outputPath string, preview bool) (Job, error) {
	reader, err := geojsonsrc.Open(path)
	if err != nil {
		return Job{}, err
	}

	bbox := opts.Bbox
	if bbox == nil {
		detected, ok := reader.ComputeBbox()
		if !ok {
			return Job{}, &rasterr.InvalidBbox{Detail: "no geometries to derive a bbox from"}
		}
		bbox = &detected
	}

	opts.ResolveScale(*bbox)

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out := outputPath
	if out == "" {
		out = name + ".png"
	}

	return Job{
		Name:        name,
		Geometries:  reader.Geometries(),
		Bbox:        *bbox,
		Resolution:  opts.Resolution,
		Fill:        opts.Fill,
		Stroke:      opts.Stroke,
		StrokeWidth: opts.StrokeWidth,
		OutputPath:  out,
		Preview:     preview,
	}, nil
}

// DetectSource reports whether path looks like a GeoPackage (by extension)
// rather than a GeoJSON document.
func DetectSource(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".gpkg"
}
