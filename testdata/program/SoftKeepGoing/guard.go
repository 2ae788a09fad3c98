//go:build abortif

package chaos

//abortif:production
func Inject(p float64) {
	if p > 1 {
		p = 1
	}
	println("injecting at", p)
}
