package report

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/thoreinstein/ueb/internal/doctor"
)

// Doctor writes diagnostic results. Text output lists errors and warnings,
// or every check when verbose is set.
func (r *Reporter) Doctor(rep *doctor.Report, verbose bool) error {
	if r.format == FormatJSON {
		return r.writeJSON(rep)
	}

	shown := 0
	for _, res := range rep.Results {
		problem := res.Status == doctor.SeverityError || res.Status == doctor.SeverityWarning
		if !verbose && !problem {
			continue
		}
		shown++

		fmt.Fprintf(r.out, "%s [%s] %s: %s\n", statusIcon(res.Status), res.Category, res.Name, res.Message)
		if lines, ok := res.Details["lines"].([]string); ok {
			for _, l := range lines {
				fmt.Fprintf(r.out, "    %s\n", l)
			}
		}
		if problem && res.FixHint != "" {
			fmt.Fprintf(r.out, "  %s %s\n", color.New(color.FgHiBlack).Sprint("hint:"), res.FixHint)
		}
	}

	if shown > 0 {
		fmt.Fprintln(r.out)
	}
	fmt.Fprintf(r.out, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		rep.Summary.Passed, rep.Summary.Info, rep.Summary.Warnings, rep.Summary.Errors)
	return nil
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return color.GreenString("✓")
	case doctor.SeverityInfo:
		return color.CyanString("ℹ")
	case doctor.SeverityWarning:
		return color.YellowString("⚠")
	case doctor.SeverityError:
		return color.RedString("✗")
	default:
		return "?"
	}
}
