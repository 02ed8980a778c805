package wkb

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func writeFloat64LE(buf *bytes.Buffer, v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	buf.Write(b[:])
}

func writeSquarePolygon(buf *bytes.Buffer) {
	buf.WriteByte(1) // little-endian
	var typ [4]byte
	binary.LittleEndian.PutUint32(typ[:], wkbPolygon)
	buf.Write(typ[:])

	var ringCount [4]byte
	binary.LittleEndian.PutUint32(ringCount[:], 1)
	buf.Write(ringCount[:])

	pts := [][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}
	var ptCount [4]byte
	binary.LittleEndian.PutUint32(ptCount[:], uint32(len(pts)))
	buf.Write(ptCount[:])
	for _, p := range pts {
		writeFloat64LE(buf, p[0])
		writeFloat64LE(buf, p[1])
	}
}

func TestDecodePolygon(t *testing.T) {
	var buf bytes.Buffer
	writeSquarePolygon(&buf)

	mp, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if len(mp) != 1 || len(mp[0]) != 1 || len(mp[0][0]) != 5 {
		t.Fatalf("unexpected geometry shape: %+v", mp)
	}
	if mp[0][0][2][0] != 10 || mp[0][0][2][1] != 10 {
		t.Errorf("third point = %+v, want (10, 10)", mp[0][0][2])
	}
}

func TestDecodeUnsupportedTypeIsDropped(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(1)
	var typ [4]byte
	binary.LittleEndian.PutUint32(typ[:], 1) // wkbPoint
	buf.Write(typ[:])
	writeFloat64LE(&buf, 1)
	writeFloat64LE(&buf, 2)

	mp, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("expected unsupported geometry to be silently dropped, got error: %v", err)
	}
	if mp != nil {
		t.Errorf("expected nil MultiPolygon for a dropped geometry type, got %+v", mp)
	}
}
