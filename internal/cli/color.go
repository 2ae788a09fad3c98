package cli

import (
	"os"
	"regexp"

	"golang.org/x/sys/unix"
)

// useColor resolves the color mode. "auto" enables color only on a
// terminal.
func useColor(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	return isatty()
}

// isatty reports whether the program is running in a terminal. If it is true,
// we can use ANSI color codes.
func isatty() bool {
	_, err := unix.IoctlGetWinsize(int(os.Stderr.Fd()), unix.TIOCGWINSZ)
	return err == nil
}

var rePos = regexp.MustCompile(`(?m)^(\S+:\d+(?::\d+)?:)`)

// colorize adds ANSI color codes to the diagnostic message. Position
// prefixes stand out in red; the message text stays plain.
func colorize(message string) string {
	const (
		red   = "\033[31m"
		reset = "\033[0m"
	)
	return rePos.ReplaceAllString(message, red+"$1"+reset)
}
