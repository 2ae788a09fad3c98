package chaos

// Warn logs a forbidden build configuration and keeps going.
func Warn(msg string) {
	println("WARN:", msg)
}
