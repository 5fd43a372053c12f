package fileutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/ueb/internal/errors"
)

func TestAtomicWriteFile(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		perm os.FileMode
	}{
		{"successful write", []byte("hello world\n"), 0o644},
		{"empty data", []byte{}, 0o644},
		{"binary data", []byte{0x00, 0x01, 0x02, 0xFF}, 0o600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "test-file")

			if err := AtomicWriteFile(path, tt.data, tt.perm); err != nil {
				t.Fatalf("AtomicWriteFile() error = %v", err)
			}

			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading file: %v", err)
			}
			if string(got) != string(tt.data) {
				t.Errorf("content = %q, want %q", got, tt.data)
			}
		})
	}
}

func TestAtomicWriteFile_DirectoryNotExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent", "file.txt")

	if err := AtomicWriteFile(path, []byte("data"), 0o600); err == nil {
		t.Error("AtomicWriteFile() expected error for nonexistent directory")
	}
}

func TestAtomicWriteJSON_TrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, AtomicWriteJSON(path, map[string]int{"copied": 3}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"copied\": 3\n}\n", string(data))
}

func TestAtomicWriteJSON_Unmarshalable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	require.Error(t, AtomicWriteJSON(path, make(chan int)))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "file should not exist after marshal error")
}

func openFile(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

// assertNoTemp fails if an in-flight temp file is left in dir.
func assertNoTemp(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		ok, _ := filepath.Match(tempPattern, e.Name())
		assert.False(t, ok, "temp file left behind: %s", e.Name())
	}
}

type failingReader struct {
	fs.File
}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("device went away")
}

func TestAtomicCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Level.umap")
	dst := filepath.Join(dir, "backup.umap")

	content := []byte("map data")
	require.NoError(t, os.WriteFile(src, content, 0o640))
	mtime := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	n, err := AtomicCopy(openFile(t, src), dst)
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), n)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime), "mtime = %v, want %v", info.ModTime(), mtime)
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	}
}

func TestAtomicCopy_OverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")

	require.NoError(t, os.WriteFile(src, []byte("new content"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0o644))

	_, err := AtomicCopy(openFile(t, src), dst)
	require.NoError(t, err)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new content", string(got))
}

func TestAtomicCopy_ReadErrorKeepsDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")

	require.NoError(t, os.WriteFile(src, []byte("new content"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0o644))

	_, err := AtomicCopy(failingReader{openFile(t, src)}, dst)
	require.Error(t, err)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "old", string(got))
	assertNoTemp(t, dir)
}

func TestAtomicCopy_NotRegular(t *testing.T) {
	dst := t.TempDir()

	_, err := AtomicCopy(openFile(t, t.TempDir()), filepath.Join(dst, "dst"))
	assert.Error(t, err)
	assertNoTemp(t, dst)
}
