// Command gpkg2png rasterizes polygon layers from GeoPackage and GeoJSON
// sources to PNG images.
package main

import "github.com/MeKo-Tech/gpkg2png/internal/cmd"

func main() {
	cmd.Execute()
}
