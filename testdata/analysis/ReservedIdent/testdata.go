//go:build abortif

package reservedident

//abortif:debug
func F() {}
