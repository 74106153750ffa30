package minixfs

// blockio implements BIO (spec.md §4.1): byte-granular reads and writes over
// a device that only promises 512-byte sector granularity. Both operations
// bounce through a sector-aligned scratch buffer; write additionally reads
// the aligned range first so that bytes outside [offset, offset+size) in the
// first and last sector survive the round trip. Grounded on the teacher's
// tableReader.readBlock / inodeReader.readBlock (allocate scratch, read into
// it, return a window into it) -- same bounce-buffer shape, generalized from
// squashfs's compressed variable-length metadata blocks to Minix's plain
// fixed 512-byte sectors.

const sectorSize = 512

// blockRead copies size bytes from byte offset offset on dev into dst.
// Neither size nor offset need be sector-aligned.
func blockRead(dev Device, dst []byte, size, offset int64) error {
	blockStart := offset / sectorSize
	blockEnd := (offset + size + sectorSize - 1) / sectorSize
	alignedBytes := (blockEnd - blockStart) * sectorSize

	bounce := make([]byte, alignedBytes)
	if err := dev.ReadAt(bounce, blockStart*sectorSize); err != nil {
		return err
	}

	internal := offset - blockStart*sectorSize
	copy(dst, bounce[internal:internal+size])
	return nil
}

// blockWrite overwrites size bytes at byte offset offset on dev with src,
// performing the sector-aligned read-modify-write described in spec.md
// §4.1: the bounce buffer is first populated by reading the aligned range
// so bytes outside [offset, offset+size) in the boundary sectors are
// preserved, then src is copied in at the right spot, then the full aligned
// range is written back.
func blockWrite(dev Device, src []byte, size, offset int64) error {
	blockStart := offset / sectorSize
	blockEnd := (offset + size + sectorSize - 1) / sectorSize
	alignedBytes := (blockEnd - blockStart) * sectorSize

	bounce := make([]byte, alignedBytes)
	if err := dev.ReadAt(bounce, blockStart*sectorSize); err != nil {
		return err
	}

	internal := offset - blockStart*sectorSize
	copy(bounce[internal:internal+size], src)

	return dev.WriteAt(bounce, blockStart*sectorSize)
}
