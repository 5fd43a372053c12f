package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/thoreinstein/ueb/internal/errors"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "ueb"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory, or "" if it cannot be determined.
// Use ResolveHome for proper error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// StateHome returns the XDG state home directory.
// On Linux: ~/.local/state
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func StateHome() string {
	return xdg.StateHome
}

// ConfigDir returns <ConfigHome>/ueb, where config.yaml is looked up.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// LogDir returns <StateHome>/ueb, the default location for --log-file.
func LogDir() string {
	return filepath.Join(StateHome(), AppName)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p
	}
	home := Home()
	if home == "" {
		return p
	}
	return filepath.Join(home, p[1:])
}

// Abs expands ~ and returns a cleaned absolute path.
func Abs(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", errors.Wrap(ErrInvalidPath, "empty path")
	}
	abs, err := filepath.Abs(ExpandHome(p))
	if err != nil {
		return "", errors.Wrapf(ErrInvalidPath, "%s: %v", p, err)
	}
	return abs, nil
}

// Canonical resolves symlinks in the longest existing prefix of p, so two
// spellings of the same location compare equal even before the leaf exists.
func Canonical(p string) string {
	p = filepath.Clean(p)
	var rest []string
	for cur := p; ; {
		if resolved, err := filepath.EvalSymlinks(cur); err == nil {
			parts := append([]string{resolved}, rest...)
			return filepath.Join(parts...)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return p
		}
		rest = append([]string{filepath.Base(cur)}, rest...)
		cur = parent
	}
}

// IsWithin reports whether child is parent or lies beneath it. Both paths
// should be absolute.
func IsWithin(child, parent string) bool {
	rel, err := filepath.Rel(Canonical(parent), Canonical(child))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// DestinationRoot returns where a backup of source lands under target:
// <target>/<base name of source>.
func DestinationRoot(target, source string) string {
	return filepath.Join(target, filepath.Base(filepath.Clean(source)))
}

// NearestExisting returns p or its closest ancestor that exists.
func NearestExisting(p string) string {
	for cur := filepath.Clean(p); ; {
		if _, err := os.Stat(cur); err == nil {
			return cur
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return cur
		}
		cur = parent
	}
}
