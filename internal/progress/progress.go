package progress

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Bar renders a single-line progress indicator for sequential work.
type Bar struct {
	// output receives the status line updates.
	output io.Writer

	// enabled is false when the destination is not a terminal; all
	// updates become no-ops so piped output stays clean.
	enabled bool

	// started tracks whether anything has been rendered yet, so Finish
	// knows whether a line needs terminating.
	started bool
}

// Option configures a Bar.
type Option func(*Bar)

// WithOutput redirects the bar to the given writer and treats it as a
// terminal. Used by tests.
func WithOutput(w io.Writer) Option {
	return func(b *Bar) {
		b.output = w
		b.enabled = true
	}
}

// New creates a progress bar writing to stderr. The bar is disabled
// when stderr is not an interactive terminal.
func New(opts ...Option) *Bar {
	b := &Bar{
		output:  os.Stderr,
		enabled: term.IsTerminal(int(os.Stderr.Fd())),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Update rewrites the status line with the current position. It is
// shaped to serve as a collector ProgressFunc.
func (b *Bar) Update(done, total int) {
	if !b.enabled {
		return
	}
	b.started = true
	fmt.Fprintf(b.output, "\r[%d/%d] threat classes processed", done, total)
}

// Finish terminates the status line so subsequent output starts on a
// fresh line. Safe to call when nothing was rendered.
func (b *Bar) Finish() {
	if !b.enabled || !b.started {
		return
	}
	fmt.Fprintln(b.output)
}
