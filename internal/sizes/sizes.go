// Package sizes accumulates the byte totals shown by --sizes: what the
// backup keeps, what the exclusions avoid, and what a run actually copied.
package sizes

import (
	"encoding/json"
	"io/fs"
	"path/filepath"
)

// Totals is a snapshot of the accumulated sizes, in bytes.
type Totals struct {
	// Eligible is the size of every included regular file, copied or not.
	Eligible int64 `json:"eligible_bytes"`
	// Avoided is the size of everything under excluded directories.
	Avoided int64 `json:"avoided_bytes"`
	// Copied is the number of bytes written (or that would be written).
	Copied int64 `json:"copied_bytes"`
}

// Total is the size of the source tree as seen by the walk.
func (t Totals) Total() int64 {
	return t.Eligible + t.Avoided
}

// Delta is the eligible size that did not need copying this run.
func (t Totals) Delta() int64 {
	return t.Eligible - t.Copied
}

// MarshalJSON adds the derived total and delta to the stored counters.
func (t Totals) MarshalJSON() ([]byte, error) {
	type totals Totals
	return json.Marshal(struct {
		totals
		Total int64 `json:"total_bytes"`
		Delta int64 `json:"delta_bytes"`
	}{totals(t), t.Total(), t.Delta()})
}

// Accountant accumulates sizes during one run. A disabled Accountant still
// tracks copied bytes but never walks excluded trees.
type Accountant struct {
	enabled bool
	totals  Totals
	onError func(path string, err error)
}

// Option configures an Accountant.
type Option func(*Accountant)

// WithErrorHandler receives errors met while sizing an excluded tree.
// Unreadable entries are otherwise skipped silently.
func WithErrorHandler(fn func(path string, err error)) Option {
	return func(a *Accountant) {
		a.onError = fn
	}
}

// New returns an Accountant. The tree walk in AddAvoidedTree only happens
// when enabled is true.
func New(enabled bool, opts ...Option) *Accountant {
	a := &Accountant{enabled: enabled}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Enabled reports whether size accounting is on.
func (a *Accountant) Enabled() bool {
	return a.enabled
}

// AddEligible records an included regular file.
func (a *Accountant) AddEligible(n int64) {
	a.totals.Eligible += n
}

// AddCopied records bytes written by the copy executor.
func (a *Accountant) AddCopied(n int64) {
	a.totals.Copied += n
}

// AddAvoidedTree sums the regular files under dir into Avoided and returns
// the amount added. Symlinks are not followed.
func (a *Accountant) AddAvoidedTree(dir string) int64 {
	if !a.enabled {
		return 0
	}

	var sum int64
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			a.report(path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			a.report(path, err)
			return nil
		}
		sum += info.Size()
		return nil
	})

	a.totals.Avoided += sum
	return sum
}

// Totals returns the current totals.
func (a *Accountant) Totals() Totals {
	return a.totals
}

func (a *Accountant) report(path string, err error) {
	if a.onError != nil {
		a.onError(path, err)
	}
}
