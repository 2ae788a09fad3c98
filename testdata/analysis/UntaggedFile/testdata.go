package untaggedfile

//abortif:debug // want `directive requires "//go:build abortif" in the file`
func F() {}
