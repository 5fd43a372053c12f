//go:build windows

package copier

import (
	"golang.org/x/sys/windows"

	"github.com/thoreinstein/ueb/internal/errors"
)

// Git and the editor keep pack files and assets open without share flags;
// reading them fails with a sharing or lock violation.
func isLocked(err error) bool {
	return errors.Is(err, windows.ERROR_SHARING_VIOLATION) || errors.Is(err, windows.ERROR_LOCK_VIOLATION)
}

func isDiskFull(err error) bool {
	return errors.Is(err, windows.ERROR_DISK_FULL) || errors.Is(err, windows.ERROR_HANDLE_DISK_FULL)
}

func isNameTooLong(err error) bool {
	return errors.Is(err, windows.ERROR_FILENAME_EXCED_RANGE)
}
