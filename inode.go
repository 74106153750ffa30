package minixfs

// INODE (spec.md §4.2): loads a single inode by number through blockio,
// using the superblock to locate the inode table. Grounded on teacher's
// GetInodeRef: compute the offset, read one block-sized group, index into
// it, copy the record out by value.

// InodeSnapshot is a value-typed, immutable-from-the-caller's-viewpoint copy
// of an on-disk inode plus its number (spec.md §3). Writes operate on a
// mutable local copy; persisting the updated size is the caller's job (see
// filesystem.go's Write, which does write it back, closing the gap noted in
// spec.md §9).
type InodeSnapshot struct {
	Num    uint32
	Mode   uint16
	Nlinks uint16
	UID    uint16
	GID    uint16
	Size   uint32
	Atime  uint32
	Mtime  uint32
	Ctime  uint32
	Zones  [numZonePointers]uint32
}

func snapshotFromRaw(num uint32, r rawInode) InodeSnapshot {
	return InodeSnapshot{
		Num: num, Mode: r.Mode, Nlinks: r.Nlinks, UID: r.UID, GID: r.GID,
		Size: r.Size, Atime: r.Atime, Mtime: r.Mtime, Ctime: r.Ctime, Zones: r.Zones,
	}
}

func (s InodeSnapshot) raw() rawInode {
	return rawInode{
		Mode: s.Mode, Nlinks: s.Nlinks, UID: s.UID, GID: s.GID,
		Size: s.Size, Atime: s.Atime, Mtime: s.Mtime, Ctime: s.Ctime, Zones: s.Zones,
	}
}

// IsDir reports whether the snapshot's mode carries the directory bit.
func (s InodeSnapshot) IsDir() bool { return isDirMode(s.Mode) }

// IsRegular reports whether the snapshot's mode carries the regular-file bit.
func (s InodeSnapshot) IsRegular() bool { return isRegularMode(s.Mode) }

// getInode reads the superblock and then inode_num's 64-byte record
// (spec.md §4.2 steps 1-4). It fails (returns ErrBadMagic) only on a
// superblock magic mismatch -- I/O errors are reported distinctly as
// ErrDeviceIO, which is the one §7 "correct implementation SHOULD" gap this
// port closes relative to the original.
func getInode(dev Device, inodeNum uint32) (InodeSnapshot, error) {
	sb, err := readSuperblock(dev)
	if err != nil {
		return InodeSnapshot{}, err
	}
	return getInodeWithSuperblock(dev, sb, inodeNum)
}

// getInodeWithSuperblock is getInode without re-reading the superblock, for
// callers (like the cache builder) that already have it.
func getInodeWithSuperblock(dev Device, sb *Superblock, inodeNum uint32) (InodeSnapshot, error) {
	buf := make([]byte, blockSize)
	if err := blockRead(dev, buf, blockSize, sb.InodeOffset(inodeNum)); err != nil {
		return InodeSnapshot{}, wrapDeviceErr(err)
	}
	slot := sb.InodeSlot(inodeNum)
	raw := decodeInode(buf[slot*inodeSize : (slot+1)*inodeSize])
	return snapshotFromRaw(inodeNum, raw), nil
}

// putInode persists a 64-byte inode record at its slot in the inode table
// (used by Create and by Write's "flush the updated size back" step, which
// spec.md §9 notes the original never does on most paths).
func putInode(dev Device, sb *Superblock, ino InodeSnapshot) error {
	buf := make([]byte, blockSize)
	if err := blockRead(dev, buf, blockSize, sb.InodeOffset(ino.Num)); err != nil {
		return wrapDeviceErr(err)
	}
	slot := sb.InodeSlot(ino.Num)
	copy(buf[slot*inodeSize:(slot+1)*inodeSize], encodeInode(ino.raw()))
	if err := blockWrite(dev, buf, blockSize, sb.InodeOffset(ino.Num)); err != nil {
		return wrapDeviceErr(err)
	}
	return nil
}
