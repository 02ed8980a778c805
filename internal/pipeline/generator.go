package pipeline

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/MeKo-Tech/gpkg2png/internal/preview"
	"github.com/MeKo-Tech/gpkg2png/internal/raster"
)

// Generator turns a Job into a rendered PNG. It satisfies
// worker.Generator.
type Generator struct{}

// Generate builds a Renderer for the job's bbox/resolution, draws every
// geometry in order, and saves the result. When job.Preview is set it also
// writes a thumbnail alongside the full image.
func (Generator) Generate(ctx context.Context, job Job) (string, error) {
	renderer, err := raster.New(raster.RenderConfig{
		Bbox:        job.Bbox,
		Resolution:  job.Resolution,
		Fill:        job.Fill,
		Stroke:      job.Stroke,
		StrokeWidth: job.StrokeWidth,
	})
	if err != nil {
		return "", err
	}

	for _, mp := range job.Geometries {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		renderer.RenderMultiPolygon(mp)
	}

	if err := renderer.Save(job.OutputPath); err != nil {
		return "", err
	}

	if job.Preview {
		thumbPath := thumbnailPath(job.OutputPath)
		if err := preview.Generate(job.OutputPath, thumbPath); err != nil {
			return "", err
		}
	}

	return job.OutputPath, nil
}

func thumbnailPath(outputPath string) string {
	ext := filepath.Ext(outputPath)
	base := strings.TrimSuffix(outputPath, ext)
	return base + ".thumb" + ext
}
