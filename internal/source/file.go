package source

import (
	"fmt"
	"path/filepath"
	"slices"

	"fortio.org/safecast"
)

// FileID identifies a file within one FileSet.
type FileID uint32

// LineCol is a 1-based position; Col counts bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}

// File is one registered text: a request tree source, a test fixture or generated code.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	// Virtual is set for text that never came from disk.
	Virtual bool

	lineStarts []uint32 // offset of the first byte of every line
}

func newFile(id FileID, path string, content []byte, virtual bool) File {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("file %s too large: %w", path, err))
	}
	starts := make([]uint32, 1, len(content)/32+1)
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, uint32(i)+1) //nolint:gosec // checked above
		}
	}
	return File{ID: id, Path: filepath.ToSlash(filepath.Clean(path)), Content: content, Virtual: virtual, lineStarts: starts}
}

// LineCount is the number of lines, counting the empty one after a trailing newline.
func (f *File) LineCount() int {
	return len(f.lineStarts)
}

// Position resolves a byte offset; a newline belongs to the line it ends.
func (f *File) Position(off uint32) LineCol {
	i, exact := slices.BinarySearch(f.lineStarts, off)
	if !exact {
		i--
	}
	return LineCol{Line: uint32(i) + 1, Col: off - f.lineStarts[i] + 1} //nolint:gosec // i < len(content)
}

// Line returns line n (1-based) without its newline, or "" when there is no such line.
func (f *File) Line(n uint32) string {
	if n == 0 || int(n) > len(f.lineStarts) {
		return ""
	}
	start := f.lineStarts[n-1]
	end := uint32(len(f.Content)) //nolint:gosec // checked in newFile
	if int(n) < len(f.lineStarts) {
		end = f.lineStarts[n] - 1
	}
	return string(f.Content[start:end])
}
