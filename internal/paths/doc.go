// Package paths resolves the directories ueb reads and writes: the XDG
// config and state locations, user-supplied source and target paths, and
// the per-project destination root.
//
// # XDG Base Directory Compliance
//
// The package wraps github.com/adrg/xdg. The config file is looked up in
// [ConfigDir] (<ConfigHome>/ueb) and log files default to [LogDir]
// (<StateHome>/ueb).
//
// # Destination Layout
//
// A backup of /work/MyGame into /mnt/backup lands in /mnt/backup/MyGame:
//
//	paths.DestinationRoot("/mnt/backup", "/work/MyGame") // /mnt/backup/MyGame
//
// [IsWithin] compares canonical paths (symlinks resolved along the longest
// existing prefix) and is used to refuse a destination inside the source.
package paths
