package minixfs

import (
	"errors"
	"io"
	"io/fs"
	"path"
	"time"
)

// FS adapts a *FileSystem to io/fs.FS, letting a formatted Minix 3 image be
// consumed by anything written against the standard library's filesystem
// interfaces (fs.WalkDir, http.FileServer, and so on). Grounded on
// teacher's file.go: OpenFile/File/FileDir/fileinfo, generalized from
// squashfs's always-available directory tree to this module's file-only
// path cache -- FS's root directory listing is therefore limited to files
// directly under "/", the same single-level limitation documented on
// dir.go and filesystem.go's resolveDir.
type FS struct {
	fs *FileSystem
}

var _ fs.FS = (*FS)(nil)

// FS returns an io/fs.FS view of f.
func (f *FileSystem) FS() *FS {
	return &FS{fs: f}
}

// Open implements fs.FS.
func (fsys *FS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		return &dirFile{fsys: fsys.fs}, nil
	}

	ino, err := fsys.fs.OpenPath("/" + name)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
		}
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return &file{fsys: fsys.fs, ino: ino, name: path.Base(name)}, nil
}

// file is a convenience wrapper letting a regular file's inode be used as
// an fs.File, mirroring teacher's File (an io.SectionReader over an Inode).
type file struct {
	fsys *FileSystem
	ino  InodeSnapshot
	name string
	pos  int64
}

var _ fs.File = (*file)(nil)
var _ io.ReaderAt = (*file)(nil)

func (f *file) Read(p []byte) (int, error) {
	n, err := f.fsys.Read(f.ino, p, f.pos)
	f.pos += int64(n)
	if err == nil && n == 0 {
		return 0, io.EOF
	}
	return n, err
}

func (f *file) ReadAt(p []byte, off int64) (int, error) {
	n, err := f.fsys.Read(f.ino, p, off)
	if err == nil && n < len(p) {
		return n, io.EOF
	}
	return n, err
}

func (f *file) Stat() (fs.FileInfo, error) {
	return &fileinfo{ino: f.ino, name: f.name}, nil
}

func (f *file) Close() error { return nil }

// dirFile is a convenience wrapper exposing the root's cached file list as
// an fs.ReadDirFile, mirroring teacher's FileDir.
type dirFile struct {
	fsys    *FileSystem
	entries []fs.DirEntry
	off     int
}

var _ fs.ReadDirFile = (*dirFile)(nil)

func (d *dirFile) Read([]byte) (int, error) { return 0, fs.ErrInvalid }
func (d *dirFile) Close() error             { return nil }

func (d *dirFile) Stat() (fs.FileInfo, error) {
	root, err := getInodeWithSuperblock(d.fsys.dev, d.fsys.sb, rootInodeNum)
	if err != nil {
		return nil, err
	}
	return &fileinfo{ino: root, name: "."}, nil
}

func (d *dirFile) ReadDir(n int) ([]fs.DirEntry, error) {
	if d.entries == nil {
		if err := d.fsys.Init(); err != nil {
			return nil, err
		}
		for _, p := range d.fsys.cache.Paths() {
			if path.Dir(p) != "/" {
				continue
			}
			ino, ok := d.fsys.cache.Lookup(p)
			if !ok {
				continue
			}
			d.entries = append(d.entries, &fileinfo{ino: ino, name: path.Base(p)})
		}
	}

	remaining := d.entries[d.off:]
	if n <= 0 {
		d.off = len(d.entries)
		return remaining, nil
	}
	if len(remaining) == 0 {
		return nil, io.EOF
	}
	if n > len(remaining) {
		n = len(remaining)
	}
	d.off += n
	return remaining[:n], nil
}

// fileinfo implements both fs.FileInfo and fs.DirEntry over an
// InodeSnapshot, mirroring teacher's fileinfo.
type fileinfo struct {
	ino  InodeSnapshot
	name string
}

var _ fs.FileInfo = (*fileinfo)(nil)
var _ fs.DirEntry = (*fileinfo)(nil)

func (fi *fileinfo) Name() string               { return fi.name }
func (fi *fileinfo) Size() int64                { return int64(fi.ino.Size) }
func (fi *fileinfo) Mode() fs.FileMode          { return unixModeToFileMode(fi.ino.Mode) }
func (fi *fileinfo) ModTime() time.Time         { return time.Unix(int64(fi.ino.Mtime), 0) }
func (fi *fileinfo) IsDir() bool                { return fi.ino.IsDir() }
func (fi *fileinfo) Sys() any                   { return fi.ino }
func (fi *fileinfo) Type() fs.FileMode          { return fi.Mode().Type() }
func (fi *fileinfo) Info() (fs.FileInfo, error) { return fi, nil }
