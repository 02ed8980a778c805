package gpkg

import "testing"

func TestStripEnvelopeNoMagicPassesThrough(t *testing.T) {
	data := []byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01}
	out, err := stripEnvelope(data)
	if err != nil {
		t.Fatal(err)
	}
	if &out[0] != &data[0] {
		t.Error("expected the bare-WKB payload to pass through unchanged")
	}
}

func TestStripEnvelopeIndicator1(t *testing.T) {
	header := make([]byte, 8+32+4)
	header[0], header[1] = 0x47, 0x50 // "GP"
	header[3] = 1 << 1                // envelope indicator 1 -> 32 bytes
	header[8+32] = 0xAB               // marker byte where the WKB body starts

	out, err := stripEnvelope(header)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 4 || out[0] != 0xAB {
		t.Fatalf("expected WKB body to start right after the 32-byte envelope, got %v", out)
	}
}

func TestStripEnvelopeInvalidIndicator(t *testing.T) {
	header := make([]byte, 16)
	header[0], header[1] = 0x47, 0x50
	header[3] = 5 << 1 // indicator 5 is invalid

	if _, err := stripEnvelope(header); err == nil {
		t.Fatal("expected an error for an invalid envelope indicator")
	}
}

func TestStripEnvelopeTooShortForHeader(t *testing.T) {
	if _, err := stripEnvelope([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected an error for a blob shorter than the 8-byte header")
	}
}
