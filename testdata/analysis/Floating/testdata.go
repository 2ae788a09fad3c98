//go:build abortif

package floating

//abortif:debug // want `directive is not attached to a function declaration`

func F() {}
