package cli

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/schollz/progressbar/v3"
)

const spinInterval = 100 * time.Millisecond

// Spinner shows an indeterminate progress bar while work runs.
type Spinner struct {
	bar  *progressbar.ProgressBar
	done chan struct{}
}

// NewSpinner creates a spinner writing to w. Nothing is drawn until Start.
func NewSpinner(w io.Writer, description string) *Spinner {
	return &Spinner{
		bar: progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(w),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionClearOnFinish(),
		),
		done: make(chan struct{}),
	}
}

// Start animates the spinner until Stop.
func (s *Spinner) Start() {
	go func() {
		ticker := time.NewTicker(spinInterval)
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				if err := s.bar.Add(1); err != nil {
					slog.Debug("Failed to update spinner", "error", err)
				}
			}
		}
	}()
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	close(s.done)
	if err := s.bar.Finish(); err != nil {
		slog.Debug("Failed to finish spinner", "error", err)
	}
}

// WithSpinner runs fn while a spinner is shown on w. The spinner is only
// drawn when w is a terminal.
func WithSpinner(w *os.File, description string, fn func() error) error {
	if !term.IsTerminal(w.Fd()) {
		return fn()
	}

	s := NewSpinner(w, description)
	s.Start()
	defer s.Stop()
	return fn()
}
