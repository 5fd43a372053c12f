package backup

import (
	"github.com/thoreinstein/ueb/internal/rules"
)

// Outcome is the final classification of one walked entry.
type Outcome string

const (
	OutcomeExcluded  Outcome = "exclude"
	OutcomeCopied    Outcome = "copy"
	OutcomeWouldCopy Outcome = "would copy"
	OutcomeSkipped   Outcome = "skip"
	OutcomeFailed    Outcome = "failed"
)

// Event reports what the run did with one entry. Included directories do
// not produce events; their contents do.
type Event struct {
	// Path is slash-separated and relative to the source root.
	Path     string
	IsDir    bool
	Outcome  Outcome
	Decision rules.Decision
	// Detail is the change reason for copies and skips, or the failure
	// reason for failures.
	Detail string
	Bytes  int64
}

// Hook observes events as the run produces them. It is called on the run's
// goroutine and must not block for long.
type Hook func(Event)

// WithHook registers h to receive every event.
func WithHook(h Hook) Option {
	return func(r *Runner) {
		r.hooks = append(r.hooks, h)
	}
}

func (r *Runner) emit(e Event) {
	for _, h := range r.hooks {
		h(e)
	}
}
