// Package storage defines the data-directory file-system abstraction.
package storage

import "time"

// FileInfo describes one file under the data root.
type FileInfo struct {
	Path      string // relative to the data root
	Size      int64
	UpdatedAt time.Time
}

// Provider is the interface for data-directory file operations.
type Provider interface {
	// List returns metadata for every file under dir (relative to the data
	// root) whose name ends in ext, sorted by path.
	List(dir, ext string) ([]FileInfo, error)
	// Read returns the raw bytes of the file at path (relative to the data root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to the data root).
	Write(path string, content []byte) error
	// Delete removes the file at path (relative to the data root).
	Delete(path string) error
	// Move renames oldPath to newPath (both relative to the data root).
	Move(oldPath, newPath string) error
}
