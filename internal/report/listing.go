package report

import (
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/ueb/internal/errors"
	"github.com/thoreinstein/ueb/internal/project"
	"github.com/thoreinstein/ueb/internal/rules"
)

// ruleSet wraps the rule list so every format has a named top-level key.
type ruleSet struct {
	Rules []rules.Rule `json:"rules" yaml:"rules" toml:"rules"`
}

// Rules writes the effective rule set.
func (r *Reporter) Rules(list []rules.Rule) error {
	set := ruleSet{Rules: list}

	switch r.format {
	case FormatJSON:
		return r.writeJSON(set)
	case FormatYAML:
		enc := yaml.NewEncoder(r.out)
		enc.SetIndent(2)
		if err := enc.Encode(set); err != nil {
			return errors.Wrap(err, "encoding YAML")
		}
		return errors.Wrap(enc.Close(), "encoding YAML")
	case FormatTOML:
		return errors.Wrap(toml.NewEncoder(r.out).Encode(set), "encoding TOML")
	}

	table := newTable(r.out, []string{"Pattern", "Action", "Scope", "Origin", "Note"})
	for _, rule := range list {
		table.Append([]string{rule.Pattern, rule.Action.String(), rule.Scope.String(), string(rule.Origin), ruleNote(rule)})
	}
	table.Render()
	return nil
}

func ruleNote(rule rules.Rule) string {
	var notes []string
	if rule.Source != "" {
		notes = append(notes, rule.Source)
	}
	if rule.Flag != "" {
		state := "active"
		if rule.Disabled {
			state = "inactive"
		}
		notes = append(notes, state+", toggled by --"+rule.Flag)
	}
	return strings.Join(notes, ", ")
}

// Classification is the decision for one queried path.
type Classification struct {
	Path     string `json:"path" yaml:"path" toml:"path"`
	Action   string `json:"action" yaml:"action" toml:"action"`
	Reason   string `json:"reason" yaml:"reason" toml:"reason"`
	Priority bool   `json:"priority" yaml:"priority" toml:"priority"`
}

// Classify builds a Classification from a matcher decision.
func Classify(path string, d rules.Decision) Classification {
	return Classification{
		Path:     path,
		Action:   d.Action.String(),
		Reason:   d.Reason(),
		Priority: d.Priority,
	}
}

// Classifications writes path decisions.
func (r *Reporter) Classifications(list []Classification) error {
	wrapped := struct {
		Paths []Classification `json:"paths" yaml:"paths" toml:"paths"`
	}{list}

	switch r.format {
	case FormatJSON:
		return r.writeJSON(wrapped)
	case FormatYAML:
		return errors.Wrap(yaml.NewEncoder(r.out).Encode(wrapped), "encoding YAML")
	case FormatTOML:
		return errors.Wrap(toml.NewEncoder(r.out).Encode(wrapped), "encoding TOML")
	}

	table := newTable(r.out, []string{"Path", "Action", "Rule", "Priority"})
	for _, c := range list {
		prio := ""
		if c.Priority {
			prio = "yes"
		}
		table.Append([]string{c.Path, c.Action, c.Reason, prio})
	}
	table.Render()
	return nil
}

// Projects writes a project listing.
func (r *Reporter) Projects(list []project.Project) error {
	if r.format == FormatJSON {
		if list == nil {
			list = []project.Project{}
		}
		return r.writeJSON(list)
	}

	table := newTable(r.out, []string{"Project", "Directory"})
	for _, p := range list {
		table.Append([]string{p.Name, p.Dir})
	}
	table.Render()
	return nil
}
