//go:build abortif

package tooling

//abortif:bench
func Profile() {}
