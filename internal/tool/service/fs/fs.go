package fs

import (
	"fmt"
	"io"
	"os"
)

// OSFileSystem implements read-only filesystem operations on the local OS.
type OSFileSystem struct{}

// NewOSFileSystem creates a new OSFileSystem.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// Stat returns file info for a path (follows symlinks).
func (fs *OSFileSystem) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// ReadFileRange reads up to limit bytes starting at offset. A zero limit reads to the
// end of the file; an offset at or past the end yields an empty slice.
func (fs *OSFileSystem) ReadFileRange(path string, offset, limit int64) ([]byte, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOffset, offset)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Cause: err}
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, &ReadError{Path: path, Cause: err}
	}

	n := info.Size() - offset
	if n <= 0 {
		return []byte{}, nil
	}
	if limit > 0 {
		n = min(n, limit)
	}

	data, err := io.ReadAll(io.NewSectionReader(file, offset, n))
	if err != nil {
		return nil, &ReadError{Path: path, Cause: err}
	}
	return data, nil
}
