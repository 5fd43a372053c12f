package rules

import (
	"path"
	"runtime"
	"strings"

	"github.com/thoreinstein/ueb/internal/errors"
)

// ErrInvalidPattern is returned for malformed patterns.
var ErrInvalidPattern = errors.ErrInvalidPattern

// Decision is the outcome of classifying one path.
type Decision struct {
	Action Action
	// Rule is the rule that decided the outcome. For an include it is the
	// built-in exclude that a flag switched off, if any; otherwise nil.
	Rule *Rule
	// Priority is set for paths on the include allowlist.
	Priority bool
}

// Excluded reports whether the path is excluded.
func (d Decision) Excluded() bool {
	return d.Action == Exclude
}

// Reason describes the decision for logs and reports.
func (d Decision) Reason() string {
	if d.Rule == nil {
		return "default"
	}
	if d.Action == Include && d.Rule.Disabled {
		return "--" + d.Rule.Flag
	}
	if d.Rule.Source != "" {
		return d.Rule.Source + " " + d.Rule.Pattern
	}
	return string(d.Rule.Origin) + " " + d.Rule.Pattern
}

// Matcher classifies project-relative paths. It is immutable after New and
// safe to share.
type Matcher struct {
	user     []compiled
	builtin  []compiled
	allow    []compiled
	foldCase bool
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithFoldCase forces case-insensitive (true) or case-sensitive (false)
// matching. The default follows the platform: case-insensitive on Windows
// and macOS.
func WithFoldCase(fold bool) MatcherOption {
	return func(m *Matcher) {
		m.foldCase = fold
	}
}

// New builds a Matcher from the built-in table for opts plus user exclude
// rules (config excludes and .backupignore entries). User rules must have
// Action Exclude.
func New(opts Options, user []Rule, mopts ...MatcherOption) (*Matcher, error) {
	m := &Matcher{
		foldCase: runtime.GOOS == "windows" || runtime.GOOS == "darwin",
	}
	for _, o := range mopts {
		o(m)
	}

	for i := range user {
		r := user[i]
		if r.Action != Exclude {
			return nil, errors.Newf("user rule %q must be an exclude", r.Pattern)
		}
		if err := ValidatePattern(r.Pattern); err != nil {
			if r.Source != "" {
				return nil, errors.Wrap(err, r.Source)
			}
			return nil, err
		}
		m.user = append(m.user, compile(&r, m.foldCase))
	}

	for _, r := range Builtins(opts) {
		m.builtin = append(m.builtin, compile(&r, m.foldCase))
	}
	for _, r := range Allowlist() {
		m.allow = append(m.allow, compile(&r, m.foldCase))
	}

	return m, nil
}

// Rules returns every rule the matcher knows, user rules first, then
// built-in excludes, then the allowlist.
func (m *Matcher) Rules() []Rule {
	out := make([]Rule, 0, len(m.user)+len(m.builtin)+len(m.allow))
	for _, set := range [][]compiled{m.user, m.builtin, m.allow} {
		for _, c := range set {
			out = append(out, *c.rule)
		}
	}
	return out
}

// Classify decides a single entry. It assumes every ancestor of rel was
// already classified as included, which is what the walker guarantees.
//
// Resolution order: user excludes win over everything, then built-in
// excludes unless switched off by a flag, then the default include.
func (m *Matcher) Classify(rel string, isDir bool) Decision {
	rel = m.normalize(rel)
	if rel == "" {
		return Decision{Action: Include}
	}

	for _, c := range m.user {
		if c.match(rel, isDir) {
			return Decision{Action: Exclude, Rule: c.rule}
		}
	}

	d := Decision{Action: Include, Priority: m.priority(rel, isDir)}
	for _, c := range m.builtin {
		if !c.match(rel, isDir) {
			continue
		}
		if c.rule.Disabled {
			if d.Rule == nil {
				d.Rule = c.rule
			}
			continue
		}
		return Decision{Action: Exclude, Rule: c.rule}
	}

	return d
}

// Resolve classifies rel including its ancestors: a file under an excluded
// directory is reported with that directory's decision. Use it for ad hoc
// queries; the walker uses Classify.
func (m *Matcher) Resolve(rel string, isDir bool) Decision {
	rel = m.normalize(rel)
	if rel == "" {
		return Decision{Action: Include}
	}

	parts := strings.Split(rel, "/")
	for i := 1; i < len(parts); i++ {
		if d := m.Classify(path.Join(parts[:i]...), true); d.Excluded() {
			return d
		}
	}
	return m.Classify(rel, isDir)
}

func (m *Matcher) priority(rel string, isDir bool) bool {
	for _, c := range m.allow {
		if c.match(rel, isDir) {
			return true
		}
	}
	return false
}

func (m *Matcher) normalize(rel string) string {
	rel = strings.ReplaceAll(rel, `\`, "/")
	rel = strings.Trim(path.Clean("/"+rel), "/")
	if m.foldCase {
		rel = strings.ToLower(rel)
	}
	return rel
}
