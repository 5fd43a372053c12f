// Package project locates Unreal projects: directories holding a
// *.uproject descriptor.
package project

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/thoreinstein/ueb/internal/errors"
	"github.com/thoreinstein/ueb/internal/rules"
)

// Extension is the project descriptor extension.
const Extension = ".uproject"

// DefaultMaxDepth bounds how far Discover descends below its root.
const DefaultMaxDepth = 4

// Project is one discovered project.
type Project struct {
	// Name is the descriptor file name without extension.
	Name string `json:"name"`
	// Dir is the project root.
	Dir string `json:"dir"`
	// Descriptor is the path of the .uproject file.
	Descriptor string `json:"descriptor"`
}

// Descriptor returns the path of the first *.uproject file directly in dir,
// or "" when there is none.
func Descriptor(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", dir)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), Extension) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", nil
}

// HasProject reports whether dir directly contains a *.uproject file.
func HasProject(dir string) bool {
	d, err := Descriptor(dir)
	return err == nil && d != ""
}

// Discover finds projects at or below root, sorted by directory. It does
// not look inside a project once found, and it skips the directories the
// backup rules exclude by default (Intermediate, Saved and so on).
// maxDepth <= 0 uses DefaultMaxDepth.
func Discover(root string, maxDepth int) ([]Project, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrSourceNotFound, "%s", root)
	}
	if !info.IsDir() {
		return nil, errors.Wrapf(errors.ErrSourceNotDir, "%s", root)
	}

	m, err := rules.New(rules.Options{}, nil)
	if err != nil {
		return nil, err
	}

	var out []Project
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}

		rel, _ := filepath.Rel(root, path)
		rel = filepath.ToSlash(rel)
		if rel != "." {
			if depth := strings.Count(rel, "/") + 1; depth > maxDepth {
				return fs.SkipDir
			}
			if m.Classify(rel, true).Excluded() {
				return fs.SkipDir
			}
		}

		desc, err := Descriptor(path)
		if err != nil || desc == "" {
			return nil
		}
		out = append(out, Project{
			Name:       strings.TrimSuffix(filepath.Base(desc), filepath.Ext(desc)),
			Dir:        path,
			Descriptor: desc,
		})
		return fs.SkipDir
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scanning %s", root)
	}

	slices.SortFunc(out, func(a, b Project) int {
		return strings.Compare(a.Dir, b.Dir)
	})
	return out, nil
}
