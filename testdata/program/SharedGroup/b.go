//go:build abortif

package netcheck

//abortif:all(integration)
func Pong() {
	println("pong")
}
