package source

import (
	"fmt"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet сопоставляет FileID с текстом и переводит спаны в строки и колонки.
// Request trees, host files and generated files are registered here so diagnostics can
// be printed against either.
type FileSet struct {
	files  []File
	byPath map[string]FileID
}

func NewFileSet() *FileSet {
	return &FileSet{byPath: make(map[string]FileID)}
}

// Add registers a file read from disk. The same path added again gets a new id, and
// Lookup returns the newest.
func (s *FileSet) Add(path string, content []byte) FileID {
	return s.add(path, content, false)
}

// AddVirtual registers in-memory text.
func (s *FileSet) AddVirtual(name string, content []byte) FileID {
	return s.add(name, content, true)
}

func (s *FileSet) add(path string, content []byte, virtual bool) FileID {
	n, err := safecast.Conv[uint32](len(s.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	f := newFile(FileID(n), path, content, virtual)
	s.files = append(s.files, f)
	s.byPath[f.Path] = f.ID
	return f.ID
}

func (s *FileSet) Len() int {
	return len(s.files)
}

// Get returns the file with the given id, or nil.
func (s *FileSet) Get(id FileID) *File {
	if int(id) >= len(s.files) {
		return nil
	}
	return &s.files[id]
}

// Lookup returns the newest id registered under path.
func (s *FileSet) Lookup(path string) (FileID, bool) {
	id, ok := s.byPath[filepath.ToSlash(filepath.Clean(path))]
	return id, ok
}

// Resolve converts a span into start and end positions; unknown files resolve to 1:1.
func (s *FileSet) Resolve(span Span) (start, end LineCol) {
	f := s.Get(span.File)
	if f == nil {
		return LineCol{Line: 1, Col: 1}, LineCol{Line: 1, Col: 1}
	}
	return f.Position(span.Start), f.Position(span.End)
}
