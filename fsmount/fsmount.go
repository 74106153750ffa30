//go:build fuse

// Package fsmount exposes a *minixfs.FileSystem as a read-only FUSE mount,
// following the Node-based API from github.com/hanwen/go-fuse/v2/fs the
// same way teacher's inode_fuse.go/inode_linux.go/inode_darwin.go expose a
// squashfs image. Grounded on hanwen-go-fuse/fs/loopback.go's
// InodeEmbedder/NodeLookuper/NodeReaddirer/NodeReader/NodeOpener/
// NodeGetattrer shape; unlike the loopback example this wraps an
// InodeSnapshot instead of issuing real syscalls, since the backing store
// is the Minix image rather than the host filesystem. Only regular files
// directly under "/" are exposed: the path cache indexes files only, so it
// holds no subdirectory entries to present as FUSE directories.
package fsmount

import (
	"context"
	"path"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/majestrate/minixfs"
)

// Root builds the root InodeEmbedder for a mount of fsys, for use with
// fs.Mount (e.g. fs.Mount(dir, fsmount.Root(fsys), nil)).
func Root(fsys *minixfs.FileSystem) fs.InodeEmbedder {
	return &node{fsys: fsys, path: "/", isRoot: true}
}

// node is a FUSE tree node wrapping either the mount's root directory or
// one resolved file's inode snapshot.
type node struct {
	fs.Inode

	fsys   *minixfs.FileSystem
	path   string
	ino    minixfs.InodeSnapshot
	isRoot bool
}

func (n *node) attrSource() (minixfs.InodeSnapshot, error) {
	if n.isRoot {
		return n.fsys.RootInode()
	}
	return n.ino, nil
}

var _ = (fs.NodeLookuper)((*node)(nil))
var _ = (fs.NodeReaddirer)((*node)(nil))
var _ = (fs.NodeOpener)((*node)(nil))
var _ = (fs.NodeReader)((*node)(nil))
var _ = (fs.NodeGetattrer)((*node)(nil))

func (n *node) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	childPath := path.Join(n.path, name)
	ino, err := n.fsys.OpenPath(childPath)
	if err != nil {
		return nil, syscall.ENOENT
	}
	if err := fillAttr(&out.Attr, n.fsys, ino); err != nil {
		return nil, syscall.EIO
	}

	child := &node{fsys: n.fsys, path: childPath, ino: ino}
	stable := fs.StableAttr{Mode: uint32(out.Attr.Mode), Ino: uint64(ino.Num)}
	return n.NewInode(ctx, child, stable), 0
}

func (n *node) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	var entries []fuse.DirEntry
	for _, p := range n.fsys.ShowAllFilePaths() {
		if path.Dir(p) != "/" {
			continue
		}
		ino, err := n.fsys.OpenPath(p)
		if err != nil {
			continue
		}
		entries = append(entries, fuse.DirEntry{
			Mode: uint32(fuse.S_IFREG),
			Name: path.Base(p),
			Ino:  uint64(ino.Num),
		})
	}
	return fs.NewListDirStream(entries), 0
}

func (n *node) Open(ctx context.Context, flags uint32) (fh fs.FileHandle, fuseFlags uint32, errno syscall.Errno) {
	return nil, fuse.FOPEN_KEEP_CACHE, 0
}

func (n *node) Read(ctx context.Context, f fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	nread, err := n.fsys.Read(n.ino, dest, off)
	if err != nil && nread == 0 {
		return nil, syscall.EIO
	}
	return fuse.ReadResultData(dest[:nread]), 0
}

func (n *node) Getattr(ctx context.Context, f fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	ino, err := n.attrSource()
	if err != nil {
		return syscall.EIO
	}
	if err := fillAttr(&out.Attr, n.fsys, ino); err != nil {
		return syscall.EIO
	}
	return 0
}

func fillAttr(attr *fuse.Attr, fsys *minixfs.FileSystem, ino minixfs.InodeSnapshot) error {
	st := fsys.Stat(ino)
	attr.Mode = uint32(st.Mode.Perm())
	if st.Mode.IsDir() {
		attr.Mode |= syscall.S_IFDIR
	} else {
		attr.Mode |= syscall.S_IFREG
	}
	attr.Size = uint64(st.Size)
	attr.Ino = uint64(st.Num)
	attr.Mtime = uint64(st.Mtime.Unix())
	attr.Atime = uint64(st.Atime.Unix())
	attr.Ctime = uint64(st.Ctime.Unix())
	return nil
}
