//go:build !windows

package config

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// CleanFileName makes a shelf name safe to use as a report attachment name:
// path separators are dropped and a leading dot never hides the file.
func CleanFileName(in string) string {
	out := strings.Map(func(r rune) rune {
		switch r {
		case os.PathSeparator, os.PathListSeparator:
			return -1
		}
		return r
	}, in)
	out = strings.TrimLeft(out, ".")
	if out == "" {
		return "document"
	}
	return out
}

// EnableColorOutput reports whether the stream is an interactive terminal.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
