package minixfs

import "log"

// Option configures a FileSystem at Open time. Grounded on teacher's
// options.go (a func(*Superblock) error applied in a loop by the
// constructor); generalized here from a single inode-offset knob to the
// logger knob this module actually needs.
type Option func(*FileSystem) error

// WithLogger overrides the *log.Logger a FileSystem uses for its
// diagnostic Create/Delete trace lines. The default writes to os.Stderr.
func WithLogger(l *log.Logger) Option {
	return func(f *FileSystem) error {
		f.log = l
		return nil
	}
}
