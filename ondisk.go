package minixfs

import (
	"encoding/binary"
)

// rawInode is the decoded form of the fixed 64-byte on-disk inode record
// (spec.md §3): mode, link count, uid/gid, size, three timestamps and the
// 10-entry zone pointer array (7 direct, 1 singly/doubly/triply indirect).
type rawInode struct {
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

// decodeInode unmarshals one 64-byte inode record.
func decodeInode(buf []byte) rawInode {
	r := binary.LittleEndian
	var ino rawInode
	ino.Mode = r.Uint16(buf[0:2])
	ino.Nlinks = r.Uint16(buf[2:4])
	ino.UID = r.Uint16(buf[4:6])
	ino.GID = r.Uint16(buf[6:8])
	ino.Size = r.Uint32(buf[8:12])
	ino.Atime = r.Uint32(buf[12:16])
	ino.Mtime = r.Uint32(buf[16:20])
	ino.Ctime = r.Uint32(buf[20:24])
	for i := 0; i < numZonePointers; i++ {
		off := 24 + i*4
		ino.Zones[i] = r.Uint32(buf[off : off+4])
	}
	return ino
}

// encodeInode marshals an inode record into a fresh 64-byte buffer.
func encodeInode(ino rawInode) []byte {
	buf := make([]byte, inodeSize)
	w := binary.LittleEndian
	w.PutUint16(buf[0:2], ino.Mode)
	w.PutUint16(buf[2:4], ino.Nlinks)
	w.PutUint16(buf[4:6], ino.UID)
	w.PutUint16(buf[6:8], ino.GID)
	w.PutUint32(buf[8:12], ino.Size)
	w.PutUint32(buf[12:16], ino.Atime)
	w.PutUint32(buf[16:20], ino.Mtime)
	w.PutUint32(buf[20:24], ino.Ctime)
	for i := 0; i < numZonePointers; i++ {
		off := 24 + i*4
		w.PutUint32(buf[off:off+4], ino.Zones[i])
	}
	return buf
}

// rawDirEntry is the decoded form of a 64-byte directory entry: a 32-bit
// inode number followed by a 60-byte NUL-padded name (spec.md §3).
type rawDirEntry struct {
	Inode uint32
	Name  [direntNameSize]byte
}

func decodeDirEntry(buf []byte) rawDirEntry {
	var d rawDirEntry
	d.Inode = binary.LittleEndian.Uint32(buf[0:4])
	copy(d.Name[:], buf[4:4+direntNameSize])
	return d
}

func encodeDirEntry(d rawDirEntry) []byte {
	buf := make([]byte, direntSize)
	binary.LittleEndian.PutUint32(buf[0:4], d.Inode)
	copy(buf[4:4+direntNameSize], d.Name[:])
	return buf
}

// name returns the entry's name truncated at the first NUL byte or 60
// bytes, whichever comes first (spec.md §4.4 step 3).
func (d rawDirEntry) name() string {
	n := 0
	for ; n < direntNameSize; n++ {
		if d.Name[n] == 0 {
			break
		}
	}
	return string(d.Name[:n])
}

// makeDirEntryName copies a Go string into a 60-byte NUL-padded name field,
// truncating at 60 bytes (spec.md §4.5's create_new_file loop).
func makeDirEntryName(name string) [direntNameSize]byte {
	var out [direntNameSize]byte
	n := copy(out[:], name)
	_ = n
	return out
}
