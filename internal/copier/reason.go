package copier

import (
	"io/fs"

	"github.com/thoreinstein/ueb/internal/errors"
)

// Reason is a coarse class of copy failure, used in warnings.
type Reason string

const (
	// ReasonLocked means another process holds the file open or locked.
	ReasonLocked Reason = "locked"
	// ReasonPermission means access was denied.
	ReasonPermission Reason = "permission denied"
	// ReasonDiskFull means the destination ran out of space or quota.
	ReasonDiskFull Reason = "disk full"
	// ReasonPathTooLong means a path exceeded the platform limit.
	ReasonPathTooLong Reason = "path too long"
	// ReasonVanished means the source disappeared during the run.
	ReasonVanished Reason = "vanished"
	// ReasonIO covers every other failure.
	ReasonIO Reason = "io error"
)

// Classify maps a copy error to a Reason. Platform-specific error codes are
// checked first, then the portable fs sentinels.
func Classify(err error) Reason {
	switch {
	case err == nil:
		return ""
	case isLocked(err):
		return ReasonLocked
	case isDiskFull(err):
		return ReasonDiskFull
	case isNameTooLong(err):
		return ReasonPathTooLong
	case errors.Is(err, fs.ErrPermission):
		return ReasonPermission
	case errors.Is(err, fs.ErrNotExist):
		return ReasonVanished
	default:
		return ReasonIO
	}
}
