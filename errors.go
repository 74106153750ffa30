package minixfs

import (
	"errors"
	"fmt"
)

// Package-specific error variables that can be used with errors.Is() for error handling.
var (
	// ErrBadMagic is returned when the superblock magic does not match the Minix 3 magic.
	ErrBadMagic = errors.New("minixfs: superblock magic mismatch")

	// ErrFileNotFound is returned when a path is not present in a device's path cache.
	ErrFileNotFound = errors.New("minixfs: file not found")

	// ErrNotRegular is returned when an inode that must be a directory is not one: the
	// root inode when building the path cache, or the named parent of Create/Delete.
	ErrNotRegular = errors.New("minixfs: not a regular file")

	// ErrIsDirectory is returned when an operation that requires a regular file is given a directory.
	ErrIsDirectory = errors.New("minixfs: is a directory")

	// ErrFileExists is returned by Create when the name is already present in the parent directory.
	ErrFileExists = errors.New("minixfs: file already exists")

	// ErrNoFreeInode is returned when the inode bitmap has no clear bit left.
	ErrNoFreeInode = errors.New("minixfs: no free inode")

	// ErrNoFreeZone is returned when the zone bitmap has no clear bit left.
	ErrNoFreeZone = errors.New("minixfs: no free zone")

	// ErrDeviceIO wraps a non-zero status returned by the underlying block device.
	ErrDeviceIO = errors.New("minixfs: device I/O error")

	// ErrPastAllocated is returned by Write when the requested range reaches past the
	// file's already-allocated zones. No new zones are allocated (see spec Non-goals).
	ErrPastAllocated = errors.New("minixfs: write would exceed allocated zones")

	// ErrNoParentDir is returned by Create/Delete when the parent directory is not
	// found among the root directory's entries.
	ErrNoParentDir = errors.New("minixfs: parent directory not found")
)

// wrapDeviceErr wraps a raw Device error as ErrDeviceIO so callers can
// errors.Is(err, ErrDeviceIO) instead of the original's silent swallow
// (spec.md §7: "a correct implementation SHOULD surface [device errors]
// via a new error variant").
func wrapDeviceErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrDeviceIO, err)
}
