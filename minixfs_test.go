package minixfs

import (
	"encoding/binary"
	"errors"
	"fmt"
	"testing"
)

// newTestImage builds a small synthetic Minix 3 disk image entirely in
// memory: one imap block, one zmap block, an inode table, and three data
// zones holding a root directory (with one file and one subdirectory), the
// subdirectory's own "." / ".." entries, and the file's content. Grounded
// on teacher's mock_test.go byte-level fixture construction -- there is no
// checked-in binary fixture to load, so the test builds one directly.
func newTestImage(t *testing.T) *Image {
	t.Helper()

	const (
		nInodes       = 32
		imapBlocks    = 1
		zmapBlocks    = 1
		firstDataZone = 6
		totalZones    = 64
		imageBlocks   = 64

		rootZone = 6
		subZone  = 7
		fileZone = 8
	)

	buf := make([]byte, imageBlocks*blockSize)
	le := binary.LittleEndian

	put16 := func(rel int, v uint16) { le.PutUint16(buf[superblockOffset+rel:], v) }
	put32 := func(rel int, v uint32) { le.PutUint32(buf[superblockOffset+rel:], v) }

	put32(0, nInodes)
	put16(6, imapBlocks)
	put16(8, zmapBlocks)
	put16(10, firstDataZone)
	put16(12, 0)
	put32(16, 1<<20)
	put32(20, totalZones)
	put16(24, magic)
	put16(28, blockSize)
	buf[superblockOffset+30] = 1

	imapOff := 2 * blockSize
	buf[imapOff] = 0x07 // inodes 1,2,3 in use
	zmapOff := imapOff + imapBlocks*blockSize
	buf[zmapOff] = 0x07 // zones 6,7,8 (firstDataZone+0,1,2) in use

	groupStart := (2 + imapBlocks + zmapBlocks) * blockSize

	putInodeRaw := func(num uint32, mode uint16, nlinks uint16, size uint32, zones [numZonePointers]uint32) {
		idx := int((num - 1) / inodesPerBlock)
		slot := int((num - 1) % inodesPerBlock)
		off := groupStart + idx*blockSize + slot*inodeSize
		raw := rawInode{
			Mode: mode, Nlinks: nlinks, Size: size,
			Atime: 1700000000, Mtime: 1700000000, Ctime: 1700000000,
			Zones: zones,
		}
		copy(buf[off:off+inodeSize], encodeInode(raw))
	}

	var rootZones, subZones, fileZones [numZonePointers]uint32
	rootZones[0] = rootZone
	subZones[0] = subZone
	fileZones[0] = fileZone

	putInodeRaw(1, modeIFDIR|0o755, 2, 4*direntSize, rootZones)
	putInodeRaw(2, modeIFREG|0o644, 1, uint32(len("hello world")), fileZones)
	putInodeRaw(3, modeIFDIR|0o755, 2, 2*direntSize, subZones)

	putDirent := func(zone uint32, idx int, inode uint32, name string) {
		off := int(zone)*blockSize + idx*direntSize
		var nameBuf [direntNameSize]byte
		copy(nameBuf[:], name)
		d := rawDirEntry{Inode: inode, Name: nameBuf}
		copy(buf[off:off+direntSize], encodeDirEntry(d))
	}
	putDirent(rootZone, 0, 1, ".")
	putDirent(rootZone, 1, 1, "..")
	putDirent(rootZone, 2, 2, "hello.txt")
	putDirent(rootZone, 3, 3, "sub")
	putDirent(subZone, 0, 3, ".")
	putDirent(subZone, 1, 1, "..")

	copy(buf[fileZone*blockSize:], []byte("hello world"))

	return NewImageFromBytes(buf)
}

func mustOpen(t *testing.T) *FileSystem {
	t.Helper()
	fs, err := Open(newTestImage(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return fs
}

func TestOpenValidatesMagic(t *testing.T) {
	img := NewImage(4096)
	if _, err := Open(img); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("Open(zero image) = %v, want ErrBadMagic", err)
	}
}

func TestOpenPathAndReadFile(t *testing.T) {
	fs := mustOpen(t)

	ino, err := fs.OpenPath("/hello.txt")
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	if !ino.IsRegular() {
		t.Fatalf("hello.txt inode is not a regular file: mode=%o", ino.Mode)
	}

	buf := make([]byte, ino.Size)
	n, err := fs.Read(ino, buf, 0)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got := string(buf[:n]); got != "hello world" {
		t.Fatalf("Read = %q, want %q", got, "hello world")
	}
}

func TestOpenPathMissingFileNotFound(t *testing.T) {
	fs := mustOpen(t)
	if _, err := fs.OpenPath("/nope.txt"); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("OpenPath(missing) = %v, want ErrFileNotFound", err)
	}
}

func TestShowAllFilePaths(t *testing.T) {
	fs := mustOpen(t)
	paths := fs.ShowAllFilePaths()
	if len(paths) != 1 {
		t.Fatalf("ShowAllFilePaths = %v, want exactly one cached file path", paths)
	}
	if paths[0] != "/hello.txt" {
		t.Fatalf("ShowAllFilePaths = %v, want [/hello.txt]", paths)
	}
}

func TestFindFreeInode(t *testing.T) {
	fs := mustOpen(t)
	n, err := fs.FindFreeInode()
	if err != nil {
		t.Fatalf("FindFreeInode: %v", err)
	}
	if n != 4 {
		t.Fatalf("FindFreeInode = %d, want 4", n)
	}
}

func TestCreateThenReadBack(t *testing.T) {
	fs := mustOpen(t)
	if err := fs.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	ino, err := fs.Create("/", "new.txt")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ino.Num != 4 {
		t.Fatalf("Create assigned inode %d, want 4", ino.Num)
	}

	n, err := fs.Write(ino, []byte("hi there"), 0)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != len("hi there") {
		t.Fatalf("Write n = %d, want %d", n, len("hi there"))
	}

	got, err := fs.OpenPath("/new.txt")
	if err != nil {
		t.Fatalf("OpenPath(/new.txt): %v", err)
	}
	buf := make([]byte, got.Size)
	if _, err := fs.Read(got, buf, 0); err != nil {
		t.Fatalf("Read back: %v", err)
	}
	if string(buf) != "hi there" {
		t.Fatalf("read back %q, want %q", buf, "hi there")
	}
}

func TestCreateDuplicateNameFails(t *testing.T) {
	fs := mustOpen(t)
	if _, err := fs.Create("/", "hello.txt"); !errors.Is(err, ErrFileExists) {
		t.Fatalf("Create(duplicate) = %v, want ErrFileExists", err)
	}
}

func TestCreateInSubdirectory(t *testing.T) {
	fs := mustOpen(t)
	if err := fs.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if _, err := fs.Create("/sub", "child.txt"); err != nil {
		t.Fatalf("Create in /sub: %v", err)
	}

	if _, err := fs.OpenPath("/sub/child.txt"); err != nil {
		t.Fatalf("OpenPath(/sub/child.txt): %v", err)
	}
}

func TestWritePastAllocatedZoneFails(t *testing.T) {
	fs := mustOpen(t)
	ino, err := fs.OpenPath("/hello.txt")
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}

	n, err := fs.Write(ino, []byte("late"), blockSize)
	if !errors.Is(err, ErrPastAllocated) {
		t.Fatalf("Write past allocated zone = %v, want ErrPastAllocated", err)
	}
	if n != 0 {
		t.Fatalf("Write past allocated zone transferred %d bytes, want 0", n)
	}
}

func TestDeleteRemovesFileAndFreesInode(t *testing.T) {
	fs := mustOpen(t)
	if err := fs.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if err := fs.Delete("/hello.txt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := fs.OpenPath("/hello.txt"); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("OpenPath after delete = %v, want ErrFileNotFound", err)
	}

	n, err := fs.FindFreeInode()
	if err != nil {
		t.Fatalf("FindFreeInode: %v", err)
	}
	if n != 2 {
		t.Fatalf("FindFreeInode after delete = %d, want 2 (the freed inode)", n)
	}
}

// TestCreateRollsBackOnFullDirectory exercises the reordering in Create:
// root's single zone holds 1024/64 = 16 directory entries, 4 of which are
// already used ("." ".." "hello.txt" "sub"), so 12 more exactly fill it.
// The 13th Create must fail with ErrPastAllocated *before* touching the
// inode/zone bitmaps, leaving the next free inode and zone unchanged --
// otherwise the attempted inode/zone would be marked allocated forever with
// no directory entry ever pointing to it.
func TestCreateRollsBackOnFullDirectory(t *testing.T) {
	fs := mustOpen(t)
	if err := fs.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	for i := 0; i < 12; i++ {
		if _, err := fs.Create("/", fmt.Sprintf("f%02d.txt", i)); err != nil {
			t.Fatalf("Create f%02d.txt: %v", i, err)
		}
	}

	wantInode, err := fs.FindFreeInode()
	if err != nil {
		t.Fatalf("FindFreeInode: %v", err)
	}
	wantZone, err := findFreeZone(fs.dev, fs.sb)
	if err != nil {
		t.Fatalf("findFreeZone: %v", err)
	}

	if _, err := fs.Create("/", "overflow.txt"); !errors.Is(err, ErrPastAllocated) {
		t.Fatalf("Create on full directory = %v, want ErrPastAllocated", err)
	}

	gotInode, err := fs.FindFreeInode()
	if err != nil {
		t.Fatalf("FindFreeInode after failed Create: %v", err)
	}
	if gotInode != wantInode {
		t.Fatalf("FindFreeInode after failed Create = %d, want %d (unchanged, not orphaned)", gotInode, wantInode)
	}
	gotZone, err := findFreeZone(fs.dev, fs.sb)
	if err != nil {
		t.Fatalf("findFreeZone after failed Create: %v", err)
	}
	if gotZone != wantZone {
		t.Fatalf("findFreeZone after failed Create = %d, want %d (unchanged, not orphaned)", gotZone, wantZone)
	}

	if _, err := fs.OpenPath("/overflow.txt"); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("OpenPath(/overflow.txt) = %v, want ErrFileNotFound", err)
	}
}

func TestDeleteMissingFileNotFound(t *testing.T) {
	fs := mustOpen(t)
	if err := fs.Delete("/nope.txt"); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("Delete(missing) = %v, want ErrFileNotFound", err)
	}
}

func TestStatReflectsInodeFields(t *testing.T) {
	fs := mustOpen(t)
	ino, err := fs.OpenPath("/hello.txt")
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	st := fs.Stat(ino)
	if st.Size != int64(len("hello world")) {
		t.Fatalf("Stat.Size = %d, want %d", st.Size, len("hello world"))
	}
	if st.Mode.IsDir() {
		t.Fatalf("Stat.Mode reports a directory for a regular file")
	}
}
