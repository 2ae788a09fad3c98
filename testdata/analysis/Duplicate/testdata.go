//go:build abortif

package duplicate

//abortif:debug
//abortif:race // want `duplicate directive on F`
func F() {}
