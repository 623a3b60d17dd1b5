package types

import (
	"io"
	"io/fs"
	"time"
)

// ReadFS is the read-only half of the filesystem used by dotlink. Status and
// discovery only ever need this.
type ReadFS interface {
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	Readlink(name string) (string, error)
	EvalSymlinks(path string) (string, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	ReadFile(name string) ([]byte, error)
	Open(name string) (io.ReadCloser, error)
}

// FS is the filesystem interface required for mutating operations
type FS interface {
	ReadFS

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	// Mkdir fails if name already exists
	Mkdir(name string, perm fs.FileMode) error

	// Create opens a new file for writing and fails if name already exists
	Create(name string, perm fs.FileMode) (io.WriteCloser, error)

	// Symlink operations
	Symlink(oldname, newname string) error

	// Removal
	Remove(name string) error
	RemoveAll(path string) error

	// Metadata
	Chmod(name string, mode fs.FileMode) error
	Chtimes(name string, atime, mtime time.Time) error
}
