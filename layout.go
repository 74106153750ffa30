package minixfs

// LAYOUT (spec.md §4 "On-disk layout calculator"): pure functions mapping an
// inode or zone number to its byte offset on disk. InodeOffset and
// ZmapByteOffset depend on the superblock's imap_blocks/zmap_blocks, which
// vary per-image, so they cannot be compile-time constants the way
// squashfs's fixed-offset tables sometimes are; ImapByteOffset is always
// block 2 and ZoneOffset needs only the zone number. Each is grounded on the
// equivalent arithmetic in
// teacher's newInodeReader/newTableReader, generalized from "offset within
// a compressed metadata stream" to "offset within a fixed-size slot".
//
// The general formula is used throughout, not the 0x2048-style shortcut
// seen in original_source/risc_v/src/fs.rs's get_inode_offset -- that
// shortcut only holds for one specific (imap_blocks, zmap_blocks) pair and
// is noted in spec.md §9 as disk-image-specific, not general.

// groupStart returns the byte offset where the inode table begins.
func (sb *Superblock) groupStart() int64 {
	return int64(2+int(sb.ImapBlocks)+int(sb.ZmapBlocks)) * blockSize
}

// InodeOffset returns the byte offset of the block containing inode n's
// 64-byte record (spec.md §3's get_inode_offset, the "which block" half).
func (sb *Superblock) InodeOffset(n uint32) int64 {
	idx := int64(n-1) / inodesPerBlock
	return sb.groupStart() + idx*blockSize
}

// InodeSlot returns the index of inode n's record within the block
// InodeOffset(n) points at (spec.md §3's "plus the per-group index").
func (sb *Superblock) InodeSlot(n uint32) int {
	return int((n - 1) % inodesPerBlock)
}

// ImapByteOffset returns the absolute byte offset of the inode bitmap,
// which starts at block 2 (spec.md §3, §6).
func (sb *Superblock) ImapByteOffset() int64 {
	return 2 * blockSize
}

// ZmapByteOffset returns the absolute byte offset of the zone bitmap, which
// starts right after the imap region (spec.md §3, §6).
func (sb *Superblock) ZmapByteOffset() int64 {
	return sb.ImapByteOffset() + int64(sb.ImapBlocks)*blockSize
}

// ZoneOffset returns the absolute byte offset of zone (block) number z.
func ZoneOffset(z uint32) int64 {
	return int64(z) * blockSize
}
