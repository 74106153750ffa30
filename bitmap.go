package minixfs

// BMAP (spec.md §4.5, §9): scans the inode/zone bitmaps to find a free
// entry, and sets/clears individual bits on create/delete. No teacher
// analogue exists (squashfs is read-mostly and carries no allocator);
// grounded directly on original_source/risc_v/src/fs.rs's
// find_free_inode and the imap-update code in create_new_file /
// delete_inode_and_direntry, with both known bugs from spec.md §9 fixed
// per REDESIGN FLAGS:
//
//   - the returned index is a proper 1-based inode/zone number
//     (byteIndex*8 + bitIndex + 1), not the original's
//     byteIndex*block_size + bitIndex;
//   - the bit mutation addresses byte (n-1)/8 of the *whole* bitmap
//     region, not "byte 0, bit n%8" of whatever buffer happened to be in
//     hand.

// findFreeInode scans the inode bitmap byte-wise then LSB-first bit-wise
// (spec.md §8) and returns the lowest clear bit's 1-based inode number.
func findFreeInode(dev Device, sb *Superblock) (uint32, error) {
	bit, err := findFreeBit(dev, sb.ImapByteOffset(), int64(sb.ImapBlocks)*blockSize)
	if err != nil {
		return 0, err
	}
	if bit < 0 {
		return 0, ErrNoFreeInode
	}
	return uint32(bit) + 1, nil
}

// findFreeZone scans the zone bitmap the same way. Bit 0 represents
// FirstDataZone (the first allocatable zone never needs the "absent"
// sentinel value 0, unlike inode 0 which doesn't exist either).
func findFreeZone(dev Device, sb *Superblock) (uint32, error) {
	bit, err := findFreeBit(dev, sb.ZmapByteOffset(), int64(sb.ZmapBlocks)*blockSize)
	if err != nil {
		return 0, err
	}
	if bit < 0 {
		return 0, ErrNoFreeZone
	}
	return uint32(bit) + uint32(sb.FirstDataZone), nil
}

// findFreeBit returns the 0-based index of the first clear bit in a
// regionLen-byte bitmap starting at regionOffset, or -1 if none is clear.
func findFreeBit(dev Device, regionOffset, regionLen int64) (int64, error) {
	buf := make([]byte, regionLen)
	if err := blockRead(dev, buf, regionLen, regionOffset); err != nil {
		return -1, wrapDeviceErr(err)
	}
	for byteIdx, b := range buf {
		if b == 0xff {
			continue
		}
		for bit := 0; bit < 8; bit++ {
			if b&(1<<uint(bit)) == 0 {
				return int64(byteIdx)*8 + int64(bit), nil
			}
		}
	}
	return -1, nil
}

// setInodeBit sets or clears the bit for inode n within the imap region.
func setInodeBit(dev Device, sb *Superblock, n uint32, set bool) error {
	return setBit(dev, sb.ImapByteOffset(), int64(n-1), set)
}

// setZoneBit sets or clears the bit for zone number z within the zmap region.
func setZoneBit(dev Device, sb *Superblock, z uint32, set bool) error {
	return setBit(dev, sb.ZmapByteOffset(), int64(z-uint32(sb.FirstDataZone)), set)
}

// setBit mutates a single bit at bitIndex within the bitmap region starting
// at regionOffset: byte (bitIndex/8), bit (bitIndex%8), addressed within
// the whole region rather than relative to a single 512-byte read.
func setBit(dev Device, regionOffset, bitIndex int64, set bool) error {
	byteOffset := regionOffset + bitIndex/8
	bit := uint(bitIndex % 8)

	var b [1]byte
	if err := blockRead(dev, b[:], 1, byteOffset); err != nil {
		return wrapDeviceErr(err)
	}
	if set {
		b[0] |= 1 << bit
	} else {
		b[0] &^= 1 << bit
	}
	if err := blockWrite(dev, b[:], 1, byteOffset); err != nil {
		return wrapDeviceErr(err)
	}
	return nil
}
