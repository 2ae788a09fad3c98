// Package hooks provides abort handlers shared across services.
package hooks

// Abort panics with the diagnostic message.
func Abort(msg string) {
	panic(msg)
}
