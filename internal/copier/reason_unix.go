//go:build unix

package copier

import (
	"golang.org/x/sys/unix"

	"github.com/thoreinstein/ueb/internal/errors"
)

func isLocked(err error) bool {
	return errors.Is(err, unix.EBUSY) || errors.Is(err, unix.ETXTBSY) || errors.Is(err, unix.EAGAIN)
}

func isDiskFull(err error) bool {
	return errors.Is(err, unix.ENOSPC) || errors.Is(err, unix.EDQUOT)
}

func isNameTooLong(err error) bool {
	return errors.Is(err, unix.ENAMETOOLONG)
}
