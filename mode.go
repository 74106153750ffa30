package minixfs

import "io/fs"

// On-disk mode bits, Minix 3 / traditional Unix layout. The core only ever
// produces S_IFDIR and S_IFREG (spec.md §3); the rest are decoded for
// completeness when walking a foreign image but are never created by this
// module.
const (
	modeIFMT   = 0o170000
	modeIFDIR  = 0o040000
	modeIFREG  = 0o100000
	modeIFLNK  = 0o120000
	modeIFBLK  = 0o060000
	modeIFCHR  = 0o020000
	modeIFIFO  = 0o010000
	modeIFSOCK = 0o140000

	modeISUID = 0o4000
	modeISGID = 0o2000
	modeISVTX = 0o1000
)

// unixModeToFileMode converts an on-disk Minix mode word into an fs.FileMode.
func unixModeToFileMode(mode uint16) fs.FileMode {
	res := fs.FileMode(mode & 0o777)

	switch mode & modeIFMT {
	case modeIFDIR:
		res |= fs.ModeDir
	case modeIFLNK:
		res |= fs.ModeSymlink
	case modeIFBLK:
		res |= fs.ModeDevice
	case modeIFCHR:
		res |= fs.ModeDevice | fs.ModeCharDevice
	case modeIFIFO:
		res |= fs.ModeNamedPipe
	case modeIFSOCK:
		res |= fs.ModeSocket
	}

	if mode&modeISGID != 0 {
		res |= fs.ModeSetgid
	}
	if mode&modeISUID != 0 {
		res |= fs.ModeSetuid
	}
	if mode&modeISVTX != 0 {
		res |= fs.ModeSticky
	}

	return res
}

// isDirMode reports whether the on-disk mode word has the directory bit set.
func isDirMode(mode uint16) bool {
	return mode&modeIFMT == modeIFDIR
}

// isRegularMode reports whether the on-disk mode word has the regular-file bit set.
func isRegularMode(mode uint16) bool {
	return mode&modeIFMT == modeIFREG
}

// newFileMode builds the default mode word for Create: a regular file, 0644.
func newFileMode() uint16 {
	return modeIFREG | 0o644
}
