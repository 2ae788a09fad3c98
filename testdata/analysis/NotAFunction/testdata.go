//go:build abortif

package notafunction

//abortif:debug // want `expected a function declaration`
type Config struct{}

//abortif:debug // want `expected a function declaration`
var enabled bool
