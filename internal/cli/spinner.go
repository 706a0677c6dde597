package cli

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner shows indeterminate progress while the assistant is thinking.
type Spinner struct {
	spinner *spinner.Spinner
}

// NewSpinner creates a spinner with the given message writing to w (usually stderr).
func NewSpinner(w io.Writer, message string) *Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	return &Spinner{spinner: s}
}

// Start starts the spinner animation.
func (s *Spinner) Start() {
	s.spinner.Start()
}

// Stop stops the spinner animation and clears the line.
func (s *Spinner) Stop() {
	s.spinner.Stop()
}
