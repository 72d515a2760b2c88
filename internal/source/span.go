package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) of one file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

// Valid reports whether Start <= End.
func (s Span) Valid() bool {
	return s.Start <= s.End
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Contains reports whether other lies entirely inside s (same file).
func (s Span) Contains(other Span) bool {
	return s.File == other.File && other.Start >= s.Start && other.End <= s.End
}

// Sub returns the part of s that starts rel bytes after s.Start and is n bytes long,
// clamped to s.
func (s Span) Sub(rel, n uint32) Span {
	start := min(s.Start+rel, s.End)
	return Span{File: s.File, Start: start, End: min(start+n, s.End)}
}
