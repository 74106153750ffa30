package minixfs

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// pattern251 builds the byte[i] = i mod 251 sequence spec.md §8 scenario 2
// describes, used as file content spanning direct and singly-indirect zones.
func pattern251(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i % 251)
	}
	return out
}

// TestZoneWalkSinglyIndirectCrossesBoundary exercises spec.md §8 scenario 2:
// a file occupying all 7 direct zones plus 3 zones reached through a
// populated singly-indirect pointer block (zones[7]), 10*1024 bytes total.
// Reading 2048 bytes at offset 3000 must return exactly pattern[3000:5048]
// (direct zones only), and reading 2048 bytes at offset 6500 must return
// pattern[6500:8548], straddling the direct/indirect boundary at logical
// block 7 (byte 7168).
func TestZoneWalkSinglyIndirectCrossesBoundary(t *testing.T) {
	img := NewImage(48 * blockSize)

	const pointerZone = 19
	directZoneList := []uint32{10, 11, 12, 13, 14, 15, 16}
	indirectZoneList := []uint32{20, 21, 22}

	pattern := pattern251(10 * blockSize)

	for i, zone := range directZoneList {
		data := pattern[i*blockSize : (i+1)*blockSize]
		if err := img.WriteAt(data, ZoneOffset(zone)); err != nil {
			t.Fatalf("writing direct zone %d: %v", zone, err)
		}
	}
	for i, zone := range indirectZoneList {
		logicalBlock := len(directZoneList) + i
		data := pattern[logicalBlock*blockSize : (logicalBlock+1)*blockSize]
		if err := img.WriteAt(data, ZoneOffset(zone)); err != nil {
			t.Fatalf("writing indirect zone %d: %v", zone, err)
		}
	}

	ptrBlock := make([]byte, blockSize)
	for i, zone := range indirectZoneList {
		binary.LittleEndian.PutUint32(ptrBlock[i*4:i*4+4], zone)
	}
	if err := img.WriteAt(ptrBlock, ZoneOffset(pointerZone)); err != nil {
		t.Fatalf("writing pointer block: %v", err)
	}

	var ino InodeSnapshot
	ino.Size = uint32(len(pattern))
	copy(ino.Zones[0:len(directZoneList)], directZoneList)
	ino.Zones[singleIndirect] = pointerZone

	buf := make([]byte, 2048)
	n, err := walkZones(img, ino, buf, 3000, int64(len(buf)), zoneRead)
	if err != nil {
		t.Fatalf("walkZones: %v", err)
	}
	if n != int64(len(buf)) {
		t.Fatalf("walkZones transferred %d bytes, want %d", n, len(buf))
	}
	want := pattern[3000:5048]
	if !bytes.Equal(buf, want) {
		t.Fatalf("read at offset 3000 = %x, want %x", buf, want)
	}

	cross := make([]byte, 2048)
	n, err = walkZones(img, ino, cross, 6500, int64(len(cross)), zoneRead)
	if err != nil {
		t.Fatalf("walkZones (boundary): %v", err)
	}
	if n != int64(len(cross)) {
		t.Fatalf("walkZones (boundary) transferred %d bytes, want %d", n, len(cross))
	}
	if want := pattern[6500:8548]; !bytes.Equal(cross, want) {
		t.Fatalf("read at offset 6500 = %x, want %x", cross, want)
	}
}

// TestZoneWalkHoleSkipsLogicalPosition exercises spec.md §8 scenario 3: a
// hole at zones[1] with zones[0] and zones[2] populated. The logical stream
// is only 2*1024 bytes long (holes don't consume logical block positions),
// so a read at logical offset 1024 must land on zones[2]'s content, not on
// an empty "hole" block.
func TestZoneWalkHoleSkipsLogicalPosition(t *testing.T) {
	img := NewImage(16 * blockSize)

	const (
		zoneA = 10
		zoneB = 11
	)
	zoneAData := bytes.Repeat([]byte{0xAA}, blockSize)
	zoneBData := bytes.Repeat([]byte{0xBB}, blockSize)
	if err := img.WriteAt(zoneAData, ZoneOffset(zoneA)); err != nil {
		t.Fatalf("writing zones[0]: %v", err)
	}
	if err := img.WriteAt(zoneBData, ZoneOffset(zoneB)); err != nil {
		t.Fatalf("writing zones[2]: %v", err)
	}

	var ino InodeSnapshot
	ino.Size = 2 * blockSize
	ino.Zones[0] = zoneA
	ino.Zones[1] = 0
	ino.Zones[2] = zoneB

	buf := make([]byte, blockSize)
	n, err := walkZones(img, ino, buf, blockSize, int64(len(buf)), zoneRead)
	if err != nil {
		t.Fatalf("walkZones: %v", err)
	}
	if n != int64(len(buf)) {
		t.Fatalf("walkZones transferred %d bytes, want %d", n, len(buf))
	}
	if !bytes.Equal(buf, zoneBData) {
		t.Fatalf("read at offset %d = %x..., want zones[2]'s content", blockSize, buf[:4])
	}

	// A read covering the whole (hole-compressed) logical stream returns
	// zones[0] immediately followed by zones[2], with nothing for zones[1].
	full := make([]byte, 2*blockSize)
	n, err = walkZones(img, ino, full, 0, int64(len(full)), zoneRead)
	if err != nil {
		t.Fatalf("walkZones (full stream): %v", err)
	}
	if n != int64(len(full)) {
		t.Fatalf("walkZones (full stream) transferred %d bytes, want %d", n, len(full))
	}
	if !bytes.Equal(full[:blockSize], zoneAData) || !bytes.Equal(full[blockSize:], zoneBData) {
		t.Fatalf("hole-compressed stream did not concatenate zones[0] then zones[2]")
	}
}
