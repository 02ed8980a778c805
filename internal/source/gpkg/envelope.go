package gpkg

import "fmt"

// gpMagic is the "GP" magic marking a GeoPackage WKB envelope header.
var gpMagic = [2]byte{0x47, 0x50}

// envelopeSizes maps the 3-bit envelope indicator (flags bits 1-3) to the
// byte length of the optional envelope that follows the 8-byte header.
var envelopeSizes = map[byte]int{0: 0, 1: 32, 2: 48, 3: 48, 4: 64}

// stripEnvelope returns the standard ISO-WKB payload inside a GeoPackage
// geometry blob. A payload lacking the "GP" magic is returned unchanged, to
// be parsed as bare ISO-WKB, matching the "lenient by design" contract.
func stripEnvelope(data []byte) ([]byte, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("gpkg: geometry blob shorter than the 8-byte header")
	}

	if data[0] != gpMagic[0] || data[1] != gpMagic[1] {
		return data, nil
	}

	flags := data[3]
	indicator := (flags >> 1) & 0x07

	size, ok := envelopeSizes[indicator]
	if !ok {
		return nil, fmt.Errorf("gpkg: invalid envelope indicator %d", indicator)
	}

	start := 8 + size
	if len(data) <= start {
		return nil, fmt.Errorf("gpkg: geometry blob too short for declared envelope size %d", size)
	}

	return data[start:], nil
}
