// Package diag implements compressed export/import of a raw Minix 3 disk
// image, a diagnostic path this module's core never needed but that the
// teacher's own (indirect) compression dependencies have a natural home
// in: zstd for fast routine snapshots, xz for higher-ratio archival ones.
// Grounded on teacher's comp_zstd.go/comp_xz.go (build-tagged compressor
// registration around github.com/klauspost/compress/zstd and
// github.com/ulikunitz/xz), generalized from squashfs's per-block
// decompressor registry to a whole-image export/import pair since a
// Minix-3 image carries no compressed data of its own.
package diag

import (
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Format selects which codec ExportSnapshot/ImportSnapshot use.
type Format int

const (
	// Zstd favors speed, suited to routine backups taken often.
	Zstd Format = iota
	// XZ favors ratio, suited to infrequent archival snapshots.
	XZ
)

// ExportSnapshot reads the full image from src and writes a compressed
// copy to dst using the chosen format.
func ExportSnapshot(dst io.Writer, src io.Reader, format Format) error {
	switch format {
	case Zstd:
		w, err := zstd.NewWriter(dst)
		if err != nil {
			return err
		}
		if _, err := io.Copy(w, src); err != nil {
			w.Close()
			return err
		}
		return w.Close()
	case XZ:
		w, err := xz.NewWriter(dst)
		if err != nil {
			return err
		}
		if _, err := io.Copy(w, src); err != nil {
			w.Close()
			return err
		}
		return w.Close()
	default:
		return errUnknownFormat(format)
	}
}

// ImportSnapshot decompresses src (written by ExportSnapshot with the same
// format) into dst.
func ImportSnapshot(dst io.Writer, src io.Reader, format Format) error {
	switch format {
	case Zstd:
		r, err := zstd.NewReader(src)
		if err != nil {
			return err
		}
		defer r.Close()
		_, err = io.Copy(dst, r)
		return err
	case XZ:
		r, err := xz.NewReader(src)
		if err != nil {
			return err
		}
		_, err = io.Copy(dst, r)
		return err
	default:
		return errUnknownFormat(format)
	}
}

type errUnknownFormat Format

func (e errUnknownFormat) Error() string {
	return "diag: unknown snapshot format"
}
