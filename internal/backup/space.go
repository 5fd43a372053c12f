package backup

import (
	"github.com/shirou/gopsutil/disk"

	"github.com/thoreinstein/ueb/internal/errors"
)

// diskFree returns the free bytes on the volume holding path.
func diskFree(path string) (uint64, error) {
	u, err := disk.Usage(path)
	if err != nil {
		return 0, errors.Wrapf(err, "disk usage for %s", path)
	}
	return u.Free, nil
}
