package doctor

// Severity indicates the importance level of a check result.
type Severity int

const (
	// SeverityPass indicates the check passed without issues.
	SeverityPass Severity = iota

	// SeverityInfo indicates informational output, not a problem.
	SeverityInfo

	// SeverityWarning indicates a problem a backup would survive, such as
	// locked files that will be skipped.
	SeverityWarning

	// SeverityError indicates a problem that makes a backup fail.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityPass:
		return "pass"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText renders the severity by name in JSON output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CheckResult represents the outcome of a single diagnostic check.
type CheckResult struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Status   Severity `json:"status"`
	Message  string   `json:"message"`

	// Details holds check-specific values, e.g. offending ignore file lines.
	Details map[string]any `json:"details,omitempty"`

	// FixHint provides guidance on how to resolve the issue.
	FixHint string `json:"fix_hint,omitempty"`
}

// Summary aggregates counts of check results by severity.
type Summary struct {
	Passed   int `json:"passed"`
	Info     int `json:"info"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

func pass(msg string) *CheckResult {
	return &CheckResult{Status: SeverityPass, Message: msg}
}

func info(msg string) *CheckResult {
	return &CheckResult{Status: SeverityInfo, Message: msg}
}

func warning(msg, hint string) *CheckResult {
	return &CheckResult{Status: SeverityWarning, Message: msg, FixHint: hint}
}

func failure(msg, hint string) *CheckResult {
	return &CheckResult{Status: SeverityError, Message: msg, FixHint: hint}
}
