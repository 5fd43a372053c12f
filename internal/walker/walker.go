// Package walker enumerates a project tree for backup, pruning excluded
// directories before they are read.
package walker

import (
	"io/fs"
	"iter"
	"os"
	"path"
	"path/filepath"

	"github.com/thoreinstein/ueb/internal/rules"
)

// Classifier decides whether an entry is included. *rules.Matcher
// implements it.
type Classifier interface {
	Classify(rel string, isDir bool) rules.Decision
}

// Entry is one walked path.
type Entry struct {
	// RelPath is slash-separated and relative to the walk root.
	RelPath string
	// AbsPath is the OS path of the entry.
	AbsPath string
	IsDir   bool
	// Info is the entry's Lstat result; nil when Err is set.
	Info     fs.FileInfo
	Decision rules.Decision
	// Err is set when the entry could not be read. For a directory it
	// means its children were not enumerated.
	Err error
}

// Regular reports whether the entry is a regular file.
func (e Entry) Regular() bool {
	return e.Info != nil && e.Info.Mode().IsRegular()
}

// Walk returns a lazy, one-shot sequence over the tree under root.
//
// Entries are produced depth-first in lexical order within each directory,
// so two walks over the same layout yield the same sequence. The root
// itself is not yielded. Every entry is classified; an excluded directory
// is yielded once and its contents are never read. Symlinks are yielded
// as non-regular entries and not followed. A directory that cannot be
// read is yielded with Err set and the walk continues with its siblings.
// The walk stops as soon as the consumer stops ranging.
func Walk(root string, c Classifier) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		w := &walk{classifier: c, yield: yield}
		w.dir("", root)
	}
}

type walk struct {
	classifier Classifier
	yield      func(Entry) bool
}

// dir enumerates one directory. It returns false when the consumer stopped.
func (w *walk) dir(rel, abs string) bool {
	children, err := os.ReadDir(abs)
	if err != nil {
		return w.yield(Entry{RelPath: rel, AbsPath: abs, IsDir: true, Err: err})
	}

	for _, de := range children {
		childRel := de.Name()
		if rel != "" {
			childRel = path.Join(rel, de.Name())
		}
		childAbs := filepath.Join(abs, de.Name())
		isDir := de.IsDir()

		info, err := de.Info()
		if err != nil {
			// Removed between ReadDir and Lstat.
			if !w.yield(Entry{RelPath: childRel, AbsPath: childAbs, IsDir: isDir, Err: err}) {
				return false
			}
			continue
		}

		e := Entry{
			RelPath:  childRel,
			AbsPath:  childAbs,
			IsDir:    isDir,
			Info:     info,
			Decision: w.classifier.Classify(childRel, isDir),
		}
		if !w.yield(e) {
			return false
		}

		if isDir && !e.Decision.Excluded() {
			if !w.dir(childRel, childAbs) {
				return false
			}
		}
	}

	return true
}
