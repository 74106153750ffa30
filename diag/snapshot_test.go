package diag

import (
	"bytes"
	"testing"
)

func roundTrip(t *testing.T, format Format) {
	t.Helper()
	original := bytes.Repeat([]byte("minix-3 disk image snapshot round trip "), 256)

	var compressed bytes.Buffer
	if err := ExportSnapshot(&compressed, bytes.NewReader(original), format); err != nil {
		t.Fatalf("ExportSnapshot: %v", err)
	}

	var restored bytes.Buffer
	if err := ImportSnapshot(&restored, &compressed, format); err != nil {
		t.Fatalf("ImportSnapshot: %v", err)
	}

	if !bytes.Equal(restored.Bytes(), original) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", restored.Len(), len(original))
	}
}

func TestZstdRoundTrip(t *testing.T) {
	roundTrip(t, Zstd)
}

func TestXZRoundTrip(t *testing.T) {
	roundTrip(t, XZ)
}
