// Package doctor runs diagnostic checks for a backup source and target
// without copying anything.
//
// A [Runner] executes [Check] values in order and collects a [Report]. The
// checks shipped here cover the config file, the source folder, the
// project's ignore file (every invalid line, not just the first) and a
// dry run whose byte count is compared with the free space on the
// destination volume.
package doctor
