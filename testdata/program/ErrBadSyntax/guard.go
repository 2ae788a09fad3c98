//go:build abortif

package config

//abortif:all(debug,
func F() {}
