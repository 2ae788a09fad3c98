// Package abortif turns guard-annotated functions into pairs of
// build-gated variants.
//
// A guard condition is a boolean expression over build tags attached to
// a function with an //abortif: directive. The abortif command rewrites
// the function into two declarations gated by complementary //go:build
// predicates: one carries the original body and is compiled while the
// condition is false, the other carries an abort directive and is
// compiled while the condition is true. For every assignment of the
// tags exactly one of them is part of the build, so a forbidden tag
// combination fails at compile time with zero runtime cost.
//
// # Directive files
//
// Annotated functions live in files constrained to the abortif tag so
// that normal builds see only generated code:
//
//	//go:build abortif
//
//	package payment
//
//	// Refund pays money back. Refunding from test environments is a
//	// bug, not a feature.
//	//
//	//abortif:testenv
//	func Refund(amount int64) error {
//		// ...
//		return nil
//	}
//
// Running "abortif ./..." emits abortif_gen_testenv_pass.go holding
// the original Refund behind "//go:build !abortif && !testenv" and
// abortif_gen_testenv_met.go holding the aborting Refund behind
// "//go:build !abortif && testenv". Building with -tags testenv now
// fails compilation wherever Refund is linked in. Declarations without
// a directive are copied to abortif_gen.go so the rest of the file
// keeps working in normal builds.
//
// # Conditions
//
// The directive payload is a comma-separated list of terms, implicitly
// ALL-combined:
//
//	term := flag | key = value | not(term) | any(term, ...) | all(term, ...)
//
// A bare flag names a build tag. A key = value pair canonicalizes to
// the dot-joined tag "key.value"; values may be quoted. Flags are
// lowercased and dashes become underscores, so they always form valid
// build tags. Whether a tag is ever set is the build system's business;
// abortif never validates tag existence.
//
//	//abortif:debug_assertions
//	//abortif:feature = "telemetry", not(race)
//	//abortif:any(os = windows, os = plan9)
//
// An inline // comment ends the condition, so directive lines can carry
// trailing notes.
//
// # Abort modes
//
// In the default hard mode the met variant's body references the
// deliberately undeclared identifier ABORTIF_CONDITION_WAS_MET, so
// selecting it is an unconditional compile failure carrying the
// diagnostic. In soft mode (--abort=soft) the body instead calls an
// abort handler with the fixed message "Condition was met." and the
// handler decides what happens at run time. The handler is named by
// --handler, either a function in the annotated package or a qualified
// "import/path.Name", and must have the signature func(string). Soft
// mode without a resolvable handler is a generation error.
//
// [Abort] is a ready-made handler that panics with the message:
//
//	abortif --abort=soft --handler=github.com/blyxyas/abort-if.Abort ./...
//
// With --keep-going the met variant keeps the original statements after
// the abort statement, so a soft handler that merely logs lets the
// original behavior run anyway.
package abortif

// Tag is the build tag that constrains directive files. Generated files
// are constrained to its negation.
const Tag = "abortif"

// Message is the diagnostic emitted when a guard condition is met.
const Message = "Condition was met."

// Abort panics with the given message. It satisfies the abort handler
// contract and suits soft mode when a met condition should still stop
// the program loudly at run time.
func Abort(message string) {
	panic(message)
}
