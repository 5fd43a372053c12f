package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/thoreinstein/ueb/internal/backup"
	"github.com/thoreinstein/ueb/internal/errors"
	"github.com/thoreinstein/ueb/pkg/fileutil"
)

// Format specifies the output format.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
	// FormatYAML is accepted by the rule listing only.
	FormatYAML Format = "yaml"
	// FormatTOML is accepted by the rule listing only.
	FormatTOML Format = "toml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	default:
		return "", errors.Newf("unknown format %q (want text, json, yaml or toml)", s)
	}
}

// Reporter renders run results and listings.
type Reporter struct {
	out    io.Writer
	format Format
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{
		out:    out,
		format: format,
	}
}

// Report writes the statistics of one run.
func (r *Reporter) Report(stats *backup.Stats) error {
	if stats == nil {
		return nil
	}

	switch r.format {
	case FormatJSON:
		return r.writeJSON(stats)
	case FormatText:
		return r.reportText(stats)
	default:
		return errors.Newf("format %q is not supported for run reports", r.format)
	}
}

// WriteFile stores stats as JSON at path, atomically.
func WriteFile(path string, stats *backup.Stats) error {
	return errors.Wrap(fileutil.AtomicWriteJSON(path, stats), "writing report file")
}

func (r *Reporter) writeJSON(v any) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(v), "encoding JSON report")
}

func (r *Reporter) reportText(s *backup.Stats) error {
	r.printHeadline(s)

	fmt.Fprintf(r.out, "  %s -> %s\n", s.Source, s.Destination)
	fmt.Fprintf(r.out, "  mode %s", s.Mode)
	if s.DryRun {
		fmt.Fprint(r.out, ", dry run (nothing written)")
	}
	fmt.Fprint(r.out, "\n\n")

	copiedLabel := "Copied"
	if s.DryRun {
		copiedLabel = "Would copy"
	}

	table := newTable(r.out, []string{"Files", "Count", "Size"})
	table.Append([]string{copiedLabel, strconv.Itoa(s.Copied), humanize.IBytes(uint64(s.BytesCopied))})
	table.Append([]string{"Unchanged", strconv.Itoa(s.Skipped), ""})
	table.Append([]string{"Excluded", strconv.Itoa(s.Excluded), ""})
	table.Append([]string{"Failed", strconv.Itoa(s.Failed), ""})
	table.Append([]string{"Scanned", strconv.Itoa(s.Scanned), ""})
	table.Render()

	if s.Sizes != nil {
		fmt.Fprintln(r.out)
		t := newTable(r.out, []string{"Sizes", "Bytes", ""})
		t.Append(sizeRow("Eligible", s.Sizes.Eligible, "kept by the rules"))
		t.Append(sizeRow("Avoided", s.Sizes.Avoided, "under excluded folders"))
		t.Append(sizeRow("Total", s.Sizes.Total(), "eligible + avoided"))
		t.Append(sizeRow(copiedLabel, s.Sizes.Copied, "this run"))
		t.Append(sizeRow("Delta", s.Sizes.Delta(), "eligible already up to date"))
		t.Render()
	}

	if len(s.Warnings) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, "Warnings:")
		warn := color.New(color.FgYellow).SprintFunc()
		dim := color.New(color.FgHiBlack)
		for _, w := range s.Warnings {
			var sb strings.Builder
			sb.WriteString("  • ")
			sb.WriteString(w.Path)
			sb.WriteString(": ")
			sb.WriteString(warn(w.Reason))
			if w.Error != "" {
				sb.WriteString(" ")
				sb.WriteString(dim.Sprintf("(%s)", truncate(w.Error, 80)))
			}
			fmt.Fprintln(r.out, sb.String())
		}
	}

	fmt.Fprintln(r.out)
	footer := fmt.Sprintf("Finished in %s, run %s", s.Duration.Round(time.Millisecond), shortID(s.RunID))
	if s.DestinationFree > 0 {
		footer += fmt.Sprintf(", %s free on destination", humanize.IBytes(s.DestinationFree))
	}
	fmt.Fprintln(r.out, color.New(color.FgHiBlack).Sprint(footer))

	return nil
}

func (r *Reporter) printHeadline(s *backup.Stats) {
	switch {
	case s.Interrupted:
		fmt.Fprintln(r.out, color.RedString("✗ Backup interrupted"))
	case len(s.Warnings) > 0:
		fmt.Fprintln(r.out, color.YellowString("! Backup finished with %d warning(s)", len(s.Warnings)))
	case s.DryRun:
		fmt.Fprintln(r.out, color.GreenString("✓ Dry run finished"))
	default:
		fmt.Fprintln(r.out, color.GreenString("✓ Backup finished"))
	}
}

func newTable(out io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	return table
}

func sizeRow(label string, n int64, note string) []string {
	if n < 0 {
		return []string{label, "-" + humanize.IBytes(uint64(-n)), note}
	}
	return []string{label, humanize.IBytes(uint64(n)), note}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncate shortens s to at most max runes, never splitting a rune.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}
