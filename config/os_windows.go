//go:build windows

package config

import (
	"os"
	"strings"

	"golang.org/x/sys/windows"
	"golang.org/x/term"
)

// CleanFileName makes a shelf name safe to use as a report attachment name:
// NTFS reserved characters and path separators are dropped.
func CleanFileName(in string) string {
	out := strings.Map(func(r rune) rune {
		if r == 0 || strings.ContainsRune(`<>":/\|?*`, r) {
			return -1
		}
		switch r {
		case os.PathSeparator, os.PathListSeparator:
			return -1
		}
		return r
	}, in)
	if out == "" {
		return "document"
	}
	return out
}

// EnableColorOutput reports whether the stream is an interactive console and
// switches it to VT100 sequence processing. Consoles too old to support the
// mode reject it and render without color.
func EnableColorOutput(stream *os.File) bool {
	if !term.IsTerminal(int(stream.Fd())) {
		return false
	}

	var mode uint32
	if err := windows.GetConsoleMode(windows.Handle(stream.Fd()), &mode); err != nil {
		return false
	}
	mode |= windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING
	return windows.SetConsoleMode(windows.Handle(stream.Fd()), mode) == nil
}
