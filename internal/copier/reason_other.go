//go:build !unix && !windows

package copier

func isLocked(error) bool { return false }

func isDiskFull(error) bool { return false }

func isNameTooLong(error) bool { return false }
