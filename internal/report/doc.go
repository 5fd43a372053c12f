// Package report renders backup results and listings for the terminal or
// for machines.
//
// Text output uses tablewriter tables with humanized byte counts; JSON
// output is the [backup.Stats] structure as is. The rule listing also
// supports YAML and TOML so it can be pasted into other tooling.
package report
