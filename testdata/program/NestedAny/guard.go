//go:build abortif

package assertions

//abortif:any(debug, not(optimized))
func Check() {}
