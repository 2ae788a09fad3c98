package main

import "log/slog"

// AbortHandler is the soft abort hook for --abort=soft runs. It logs
// the diagnostic instead of stopping the program, which pairs with
// --keep-going to keep the debug routes alive under a warning.
func AbortHandler(msg string) {
	slog.Warn("forbidden build configuration", "msg", msg)
}
