//go:build abortif

package netcheck

//abortif:integration
func Ping() {
	println("ping")
}
