// Package output provides utilities for creating termenv.Output with consistent
// color profile handling across the CLI.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// ColorProfile returns the color profile to use for terminal output.
// It returns Ascii when NO_COLOR is set and detects the terminal's capabilities otherwise.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// New creates a new termenv.Output for w with the detected profile.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts, termenv.WithProfile(ColorProfile()))
	return termenv.NewOutput(w, opts...)
}

// Plain creates a termenv.Output that never emits escape sequences.
func Plain(w io.Writer) *termenv.Output {
	return termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
}
