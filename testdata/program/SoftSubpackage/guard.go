//go:build abortif

package migration

//abortif:replica
func Rewrite() {
	println("rewriting schema")
}
