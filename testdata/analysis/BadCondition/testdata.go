//go:build abortif

package badcondition

//abortif:any() // want `missing condition term`
func F() {}

//abortif:not(debug, race) // want `not\(\) takes exactly one term`
func G() {}

//abortif:anyy(debug) // want `unknown combinator "anyy", did you mean "any"\?`
func H() {}

//abortif:debug race // want `unexpected "race" in condition, want ","`
func I() {}
