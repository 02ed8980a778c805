package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/gpkg2png/internal/config"
	"github.com/MeKo-Tech/gpkg2png/internal/pipeline"
	"github.com/MeKo-Tech/gpkg2png/internal/worker"
)

func init() {
	renderCmd.Flags().String("bbox", "", "Bounding box minLon,minLat,maxLon,maxLat (auto-detected from the source when omitted)")
	renderCmd.Flags().Float64("resolution", 0, "Resolution in degrees/pixel (mutually exclusive with --scale)")
	renderCmd.Flags().Float64("scale", 0, "Scale in meters/pixel (mutually exclusive with --resolution)")
	renderCmd.Flags().String("fill", "FF0000FF", "Fill color as 8 hex digits RRGGBBAA")
	renderCmd.Flags().String("stroke", "000000", "Ring stroke color as 6 hex digits RRGGBB")
	renderCmd.Flags().Int("stroke-width", 0, "Stroke width in pixels (0 disables stroking)")
	renderCmd.Flags().String("layer", "", "Render only this GeoPackage layer (all polygon layers otherwise)")
	renderCmd.Flags().String("output-dir", ".", "Directory for per-layer PNGs (GeoPackage sources)")
	renderCmd.Flags().String("output", "", "Output PNG path (GeoJSON sources; defaults to the input name)")
	renderCmd.Flags().Bool("preview", false, "Also write a downscaled thumbnail alongside each PNG")
	renderCmd.Flags().Int("workers", runtime.NumCPU(), "Number of layers to render in parallel")

	for _, name := range []string{"bbox", "resolution", "scale", "fill", "stroke", "stroke-width", "layer", "output-dir", "output", "preview", "workers"} {
		if err := viper.BindPFlag(name, renderCmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", name, err))
		}
	}

	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render [source]",
	Short: "Rasterize polygon layers from a GeoPackage or GeoJSON file to PNG",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func runRender(_ *cobra.Command, args []string) error {
	source := args[0]

	raw := config.RawOptions{
		BboxStr:     viper.GetString("bbox"),
		Resolution:  viper.GetFloat64("resolution"),
		Scale:       viper.GetFloat64("scale"),
		Fill:        viper.GetString("fill"),
		Stroke:      viper.GetString("stroke"),
		StrokeWidth: viper.GetInt("stroke-width"),
		Layer:       viper.GetString("layer"),
	}

	opts, err := raw.Validate()
	if err != nil {
		return err
	}

	preview := viper.GetBool("preview")
	workers := viper.GetInt("workers")

	var jobs []pipeline.Job
	if pipeline.DetectSource(source) {
		outputDir := viper.GetString("output-dir")
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("gpkg2png: creating output directory: %w", err)
		}
		jobs, err = pipeline.PlanGeoPackage(source, opts, outputDir, preview)
	} else {
		var job pipeline.Job
		job, err = pipeline.PlanGeoJSON(source, opts, viper.GetString("output"), preview)
		if err == nil {
			if dir := filepath.Dir(job.OutputPath); dir != "." {
				if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
					return fmt.Errorf("gpkg2png: creating output directory: %w", mkErr)
				}
			}
			jobs = []pipeline.Job{job}
		}
	}
	if err != nil {
		return err
	}

	reporter := worker.NewReporter(len(jobs), slog.Default())
	pool := worker.New(worker.Config{
		Workers:    workers,
		Generator:  pipeline.Generator{},
		OnProgress: reporter.Record,
	})

	tasks := make([]worker.Task, len(jobs))
	for i, job := range jobs {
		tasks[i] = worker.Task{Job: job}
	}

	pool.Run(context.Background(), tasks)

	fmt.Fprintln(os.Stderr, reporter.Summary())
	if failures := reporter.Failed(); failures > 0 {
		return fmt.Errorf("gpkg2png: %d of %d layers failed to render", failures, len(jobs))
	}
	return nil
}
