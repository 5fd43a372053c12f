// Package change decides whether a source file must be copied over its
// previous backup. The decision is a pure function of metadata the caller
// has already fetched; it performs no I/O.
package change

import (
	"io/fs"
	"time"
)

// Mode selects how staleness is decided.
type Mode int

const (
	// Incremental copies only files that look changed. This is the default.
	Incremental Mode = iota
	// Full copies every eligible file regardless of the destination.
	Full
)

func (m Mode) String() string {
	if m == Full {
		return "full"
	}
	return "incremental"
}

// MarshalText renders the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// DefaultTolerance is the timestamp resolution used for comparisons.
// Filesystems differ in mtime precision, so sub-second differences are
// not treated as changes.
const DefaultTolerance = time.Second

// FileRecord is the metadata of one file as seen during a run.
type FileRecord struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// FromInfo builds a FileRecord from file info.
func FromInfo(path string, info fs.FileInfo) FileRecord {
	return FileRecord{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
}

// Reason explains a decision.
type Reason string

const (
	ReasonForced    Reason = "forced"
	ReasonMissing   Reason = "missing"
	ReasonSize      Reason = "size"
	ReasonNewer     Reason = "newer"
	ReasonUnchanged Reason = "unchanged"
)

// NeedsCopy reports whether src must be copied over dst.
//
// In Full mode it always returns true. In Incremental mode it returns false
// only when dst exists, has the same size, and a modification time not
// older than src once both are truncated to tolerance. A missing
// destination (dst == nil), a size mismatch or a newer source means copy.
// A tolerance <= 0 uses DefaultTolerance.
func NeedsCopy(src FileRecord, dst *FileRecord, mode Mode, tolerance time.Duration) (bool, Reason) {
	if mode == Full {
		return true, ReasonForced
	}
	if dst == nil {
		return true, ReasonMissing
	}
	if src.Size != dst.Size {
		return true, ReasonSize
	}

	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	if truncate(src.ModTime, tolerance).After(truncate(dst.ModTime, tolerance)) {
		return true, ReasonNewer
	}

	return false, ReasonUnchanged
}

// truncate rounds t down to a multiple of d since the zero time. The zero
// time lies a whole even number of seconds before the Unix epoch, so 1s and
// 2s buckets line up with the timestamps filesystems store.
func truncate(t time.Time, d time.Duration) time.Time {
	return t.UTC().Truncate(d)
}
