package alerts

// AbortHandler reports a forbidden build configuration.
func AbortHandler(msg string) {
	println("abortif:", msg)
}
