package rules

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/thoreinstein/ueb/internal/errors"
	"github.com/thoreinstein/ueb/pkg/fileutil"
)

// LoadIgnoreFile reads the per-project ignore file at root/name and returns
// its entries as exclude rules. A missing file yields no rules and no error.
// Malformed patterns are reported with their file and line number.
func LoadIgnoreFile(root, name string) ([]Rule, error) {
	if name == "" {
		name = DefaultIgnoreFile
	}

	lines, err := fileutil.ReadPatternLines(filepath.Join(root, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", name)
	}

	out := make([]Rule, 0, len(lines))
	for _, l := range lines {
		r := Rule{
			Pattern: l.Text,
			Action:  Exclude,
			Scope:   ScopeAny,
			Origin:  OriginIgnoreFile,
			Source:  name + ":" + strconv.Itoa(l.Number),
		}
		if err := ValidatePattern(r.Pattern); err != nil {
			return nil, errors.Wrap(err, r.Source)
		}
		out = append(out, r)
	}

	return out, nil
}

// ConfigRules turns configured exclude patterns into rules.
func ConfigRules(patterns []string) ([]Rule, error) {
	out := make([]Rule, 0, len(patterns))
	for _, p := range patterns {
		if err := ValidatePattern(p); err != nil {
			return nil, errors.Wrap(err, "config excludes")
		}
		out = append(out, Rule{
			Pattern: p,
			Action:  Exclude,
			Scope:   ScopeAny,
			Origin:  OriginConfig,
		})
	}
	return out, nil
}
