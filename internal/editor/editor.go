// Package editor launches the user's text editor on a file, used by
// "ueb config edit" and for ignore files.
package editor

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/thoreinstein/ueb/internal/errors"
)

// Open runs the editor on path and waits for it to exit.
func Open(ctx context.Context, path string) error {
	cmd, err := Command(ctx, path)
	if err != nil {
		return err
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", cmd.Path)
	}
	return nil
}

// Command builds the editor invocation for path. The editor setting may
// carry arguments, e.g. EDITOR="code --wait".
func Command(ctx context.Context, path string) (*exec.Cmd, error) {
	fields := strings.Fields(detectEditor())
	if len(fields) == 0 {
		return nil, errors.New("no editor configured; set EDITOR")
	}
	args := append(fields[1:], path)
	return exec.CommandContext(ctx, fields[0], args...), nil
}

// detectEditor returns the editor command. Fallback chain:
// $UEB_EDITOR, $EDITOR, $VISUAL, then notepad on Windows and nano or vi
// elsewhere.
func detectEditor() string {
	for _, key := range []string{"UEB_EDITOR", "EDITOR", "VISUAL"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}

	if runtime.GOOS == "windows" {
		return "notepad"
	}
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}
	return "vi"
}
