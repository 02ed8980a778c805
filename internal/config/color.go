// Package config turns raw CLI/viper input -- bbox strings, hex colors,
// resolution/scale -- into the validated values the rasterization core
// requires, returning the rasterr error types on bad input.
package config

import (
	"encoding/hex"
	"image/color"

	"github.com/MeKo-Tech/gpkg2png/internal/rasterr"
)

// ParseRGBA decodes an 8 hex-digit RRGGBBAA string into a color.NRGBA.
func ParseRGBA(s string) (color.NRGBA, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 4 {
		return color.NRGBA{}, &rasterr.InvalidColor{Detail: "RGBA color must be 8 hex digits, got " + s}
	}
	return color.NRGBA{R: b[0], G: b[1], B: b[2], A: b[3]}, nil
}

// ParseRGB decodes a 6 hex-digit RRGGBB string into a color.NRGBA with A=255.
func ParseRGB(s string) (color.NRGBA, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 3 {
		return color.NRGBA{}, &rasterr.InvalidColor{Detail: "RGB color must be 6 hex digits, got " + s}
	}
	return color.NRGBA{R: b[0], G: b[1], B: b[2], A: 255}, nil
}
