package rules

import (
	"path"
	"strings"

	"github.com/thoreinstein/ueb/internal/errors"
)

// Action is the polarity of a rule.
type Action int

const (
	// Include keeps a path in the backup.
	Include Action = iota
	// Exclude drops a path (and, for directories, everything beneath it).
	Exclude
)

func (a Action) String() string {
	if a == Exclude {
		return "exclude"
	}
	return "include"
}

// MarshalText renders the action by name in JSON, YAML and TOML output.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Scope limits which kind of entry a rule applies to.
type Scope int

const (
	// ScopeAny applies to files and directories.
	ScopeAny Scope = iota
	// ScopeDir applies to directories only.
	ScopeDir
	// ScopeFile applies to files only.
	ScopeFile
)

func (s Scope) String() string {
	switch s {
	case ScopeDir:
		return "dir"
	case ScopeFile:
		return "file"
	default:
		return "any"
	}
}

// MarshalText renders the scope by name.
func (s Scope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Origin records where a rule came from.
type Origin string

const (
	OriginBuiltin    Origin = "builtin"
	OriginConfig     Origin = "config"
	OriginIgnoreFile Origin = "ignore-file"
)

// Rule is one include or exclude pattern.
//
// Pattern syntax, with paths slash-separated and relative to the project root:
//
//	Content/Movies/   trailing slash: that directory and everything beneath it
//	Docs/*/Temp       contains a slash: glob against the whole relative path
//	*.tmp             no slash: glob against the base name at any depth
//	/Notes.txt        leading slash: anchored at the root, matched as a path
//
// Globs use [path.Match] syntax: '*' and '?' never cross a '/'.
type Rule struct {
	Pattern string `json:"pattern" yaml:"pattern" toml:"pattern"`
	Action  Action `json:"action" yaml:"action" toml:"action"`
	Scope   Scope  `json:"scope" yaml:"scope" toml:"scope"`
	Origin  Origin `json:"origin" yaml:"origin" toml:"origin"`

	// Source is "file:line" for ignore-file rules.
	Source string `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`

	// Flag names the CLI flag that toggles a built-in rule.
	Flag string `json:"flag,omitempty" yaml:"flag,omitempty" toml:"flag,omitempty"`

	// Disabled is set when Flag switched the rule off for this run.
	Disabled bool `json:"disabled,omitempty" yaml:"disabled,omitempty" toml:"disabled,omitempty"`
}

type matchKind int

const (
	matchDirPrefix matchKind = iota
	matchPath
	matchBase
)

// compiled is a Rule prepared for matching.
type compiled struct {
	rule    *Rule
	kind    matchKind
	pattern string
	literal bool
}

// ValidatePattern reports whether p is a usable pattern.
func ValidatePattern(p string) error {
	norm := normalizePattern(p)
	if strings.Trim(norm, "/") == "" {
		return errors.Wrapf(ErrInvalidPattern, "%q is empty", p)
	}
	if _, err := path.Match(strings.Trim(norm, "/"), ""); err != nil {
		return errors.Wrapf(ErrInvalidPattern, "%q", p)
	}
	return nil
}

func normalizePattern(p string) string {
	return strings.ReplaceAll(strings.TrimSpace(p), `\`, "/")
}

func compile(r *Rule, foldCase bool) compiled {
	p := normalizePattern(r.Pattern)
	if foldCase {
		p = strings.ToLower(p)
	}

	c := compiled{rule: r}
	switch {
	case strings.HasSuffix(p, "/"):
		c.kind = matchDirPrefix
		c.pattern = strings.Trim(p, "/")
	case strings.Contains(p, "/"):
		c.kind = matchPath
		c.pattern = strings.TrimPrefix(p, "/")
	default:
		c.kind = matchBase
		c.pattern = p
	}
	c.literal = !strings.ContainsAny(c.pattern, `*?[`)
	return c
}

// match reports whether rel (already normalized) is covered by the rule.
func (c compiled) match(rel string, isDir bool) bool {
	switch c.rule.Scope {
	case ScopeDir:
		if !isDir {
			return false
		}
	case ScopeFile:
		if isDir {
			return false
		}
	}

	switch c.kind {
	case matchDirPrefix:
		if strings.HasPrefix(rel, c.pattern+"/") {
			return true
		}
		return isDir && c.glob(rel)
	case matchPath:
		return c.glob(rel)
	default:
		return c.glob(path.Base(rel))
	}
}

func (c compiled) glob(s string) bool {
	if c.literal {
		return s == c.pattern
	}
	ok, _ := path.Match(c.pattern, s)
	return ok
}
