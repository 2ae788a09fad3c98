//go:build abortif

package config

//abortif:debug
func F() {}
