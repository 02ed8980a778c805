package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/gpkg2png/internal/bboxutil"
	"github.com/MeKo-Tech/gpkg2png/internal/reproject"
	"github.com/MeKo-Tech/gpkg2png/internal/source/gpkg"
)

func init() {
	layersCmd.Flags().Uint32("tile-zoom", 0, "Report the XYZ tile cover for each layer at this zoom level (0 disables)")
	if err := viper.BindPFlag("tile-zoom", layersCmd.Flags().Lookup("tile-zoom")); err != nil {
		panic(fmt.Sprintf("failed to bind flag tile-zoom: %v", err))
	}

	rootCmd.AddCommand(layersCmd)
}

var layersCmd = &cobra.Command{
	Use:   "layers [source.gpkg]",
	Short: "List the polygon layers available in a GeoPackage",
	Args:  cobra.ExactArgs(1),
	RunE:  runLayers,
}

func runLayers(cmd *cobra.Command, args []string) error {
	reader, err := gpkg.Open(args[0])
	if err != nil {
		return err
	}
	defer reader.Close()

	layers, err := reader.ListLayers()
	if err != nil {
		return err
	}

	zoom := viper.GetUint32("tile-zoom")
	out := cmd.OutOrStdout()

	for _, layer := range layers {
		fmt.Fprintf(out, "%s (geometry_column=%s, srs_id=%d)\n", layer.Name, layer.GeometryColumn, layer.SRSID)

		if count, err := reader.FeatureCount(layer); err == nil {
			fmt.Fprintf(out, "  features: %d\n", count)
		}

		raw, ok, err := reader.LayerBbox(layer)
		if err != nil || !ok {
			continue
		}

		srsDef, err := reader.SRSDefinition(layer.SRSID)
		if err != nil {
			continue
		}
		transformer := reproject.NewTransformer(layer.SRSID, srsDef)
		bbox, ok := reproject.ReprojectBbox(raw[0], raw[1], raw[2], raw[3], transformer)
		if !ok {
			continue
		}
		fmt.Fprintf(out, "  bbox: %s\n", bbox.String())

		if zoom > 0 {
			fmt.Fprintf(out, "  tile cover at z%d: %d tiles\n", zoom, bboxutil.Count(bbox, zoom))
		}
	}

	return nil
}
