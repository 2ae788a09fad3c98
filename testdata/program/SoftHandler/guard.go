//go:build abortif

package alerts

//abortif:loadtest
func Page(oncall string) error {
	println("paging", oncall)
	return nil
}
