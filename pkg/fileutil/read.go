package fileutil

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/thoreinstein/ueb/internal/errors"
)

// MaxFileSize is the maximum size of a pattern file we'll read (1MB).
const MaxFileSize = 1024 * 1024 // 1MB

// ErrFileTooLarge indicates that a file exceeded MaxFileSize.
var ErrFileTooLarge = errors.Newf("file exceeds maximum size of %d bytes", MaxFileSize)

// ReadFileWithLimit reads a file up to MaxFileSize.
// It returns an error if the file is larger than the limit.
func ReadFileWithLimit(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	return data, nil
}

// Line is one meaningful line of a pattern file.
type Line struct {
	// Number is the 1-based line number in the file.
	Number int
	// Text is the trimmed line content.
	Text string
}

// ReadPatternLines reads a line-oriented pattern file such as .backupignore.
// Blank lines and lines whose first non-space character is '#' are dropped;
// the rest are returned trimmed, with their line numbers. A UTF-8 byte order
// mark on the first line is ignored.
func ReadPatternLines(path string) ([]Line, error) {
	data, err := ReadFileWithLimit(path)
	if err != nil {
		return nil, err
	}

	var lines []Line
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	sc.Buffer(make([]byte, 0, 64*1024), MaxFileSize)
	n := 0
	for sc.Scan() {
		n++
		text := sc.Text()
		if n == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		text = strings.TrimSpace(text)
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, Line{Number: n, Text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "scanning file")
	}

	return lines, nil
}
