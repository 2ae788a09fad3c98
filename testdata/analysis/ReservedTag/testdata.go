//go:build abortif

package reservedtag

//abortif:not(abortif) // want `build tag "abortif" is reserved for directive files`
func F() {}
