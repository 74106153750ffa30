package minixfs

import (
	"fmt"
	"io"
)

// Device is the block device interface consumed by this package (spec.md §6:
// "Block device interface consumed"). Implementations need not be aligned to
// any particular sector size at the Go API boundary -- blockio performs the
// 512-byte alignment described in spec.md §4.1 on top of whatever Device is
// given. A *os.File is used through FileDevice, since its ReadAt/WriteAt
// also return a byte count.
type Device interface {
	ReadAt(dst []byte, off int64) error
	WriteAt(src []byte, off int64) error
}

// FileDevice adapts an io.ReaderAt+io.WriterAt (such as *os.File) to Device.
type FileDevice struct {
	RA io.ReaderAt
	WA io.WriterAt
}

func (d *FileDevice) ReadAt(dst []byte, off int64) error {
	_, err := d.RA.ReadAt(dst, off)
	return err
}

func (d *FileDevice) WriteAt(src []byte, off int64) error {
	_, err := d.WA.WriteAt(src, off)
	return err
}

// Image is an in-memory Device backing a byte slice. It is used by this
// package's own tests to build synthetic Minix 3 disk images without
// touching the filesystem, and is equally useful for a caller that wants to
// format or inspect an image entirely in memory. Grounded on the teacher's
// mockReader test double (mock_test.go), generalized into a read-write
// device since this module needs to exercise the write path too.
type Image struct {
	buf []byte
}

// NewImage allocates a zero-filled in-memory device of the given size.
func NewImage(size int) *Image {
	return &Image{buf: make([]byte, size)}
}

// NewImageFromBytes wraps an existing byte slice as a device without copying it.
func NewImageFromBytes(b []byte) *Image {
	return &Image{buf: b}
}

// Bytes returns the backing slice. Callers must not resize it.
func (i *Image) Bytes() []byte {
	return i.buf
}

func (i *Image) ReadAt(dst []byte, off int64) error {
	if off < 0 || off+int64(len(dst)) > int64(len(i.buf)) {
		return fmt.Errorf("minixfs: image read out of range (off=%d len=%d size=%d)", off, len(dst), len(i.buf))
	}
	copy(dst, i.buf[off:off+int64(len(dst))])
	return nil
}

func (i *Image) WriteAt(src []byte, off int64) error {
	if off < 0 || off+int64(len(src)) > int64(len(i.buf)) {
		return fmt.Errorf("minixfs: image write out of range (off=%d len=%d size=%d)", off, len(src), len(i.buf))
	}
	copy(i.buf[off:off+int64(len(src))], src)
	return nil
}
