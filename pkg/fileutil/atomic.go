// Package fileutil provides file system utilities including atomic write
// and copy operations.
package fileutil

import (
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/thoreinstein/ueb/internal/errors"
)

// tempPattern names in-flight temp files. A crashed run can leave one
// behind; it never shadows a real file name.
const tempPattern = ".ueb-atomic-*.tmp"

// AtomicWriteFile writes data to a file atomically using a temp file + rename pattern.
// This ensures interrupted writes leave the original file intact.
//
// The caller is responsible for ensuring the parent directory exists.
// Permissions are applied to the final file via the perm parameter.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), tempPattern)
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpName := tmp.Name()
	defer removeIfExists(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return errors.Wrap(err, "setting file permissions")
	}

	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}

	return errors.Wrap(os.Rename(tmpName, path), "renaming temp file")
}

// AtomicWriteJSON writes v as indented JSON to path atomically.
// Uses 2-space indentation and appends a trailing newline for POSIX compliance.
//
// The caller is responsible for ensuring the parent directory exists.
// The file is created with 0644 permissions.
func AtomicWriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling JSON")
	}
	data = append(data, '\n')

	return AtomicWriteFile(path, data, 0o644)
}

// AtomicCopy streams the regular file in to dst and returns the number of
// bytes written. The content goes into a temp file next to dst, is synced,
// given the source's permission bits and modification time, and renamed
// over dst. A reader of dst sees either the previous file or the complete
// new one. in is not closed.
//
// The caller is responsible for ensuring the parent directory of dst exists.
// Errors wrap the underlying *fs.PathError so callers can classify them.
func AtomicCopy(in fs.File, dst string) (int64, error) {
	info, err := in.Stat()
	if err != nil {
		return 0, errors.Wrap(err, "stat source file")
	}
	if !info.Mode().IsRegular() {
		return 0, errors.Newf("%s is not a regular file", info.Name())
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), tempPattern)
	if err != nil {
		return 0, errors.Wrap(err, "creating temp file")
	}
	tmpName := tmp.Name()
	defer removeIfExists(tmpName)

	n, err := io.Copy(tmp, in)
	if err != nil {
		tmp.Close()
		return 0, errors.Wrap(err, "copying file")
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return 0, errors.Wrap(err, "syncing temp file")
	}

	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		tmp.Close()
		return 0, errors.Wrap(err, "setting file permissions")
	}

	if err := tmp.Close(); err != nil {
		return 0, errors.Wrap(err, "closing temp file")
	}

	// Incremental runs compare against this timestamp.
	mtime := info.ModTime()
	if err := os.Chtimes(tmpName, mtime, mtime); err != nil {
		return 0, errors.Wrap(err, "setting modification time")
	}

	if err := os.Rename(tmpName, dst); err != nil {
		return 0, errors.Wrap(err, "renaming temp file")
	}

	return n, nil
}

func removeIfExists(name string) {
	if _, err := os.Lstat(name); err == nil {
		os.Remove(name)
	}
}
