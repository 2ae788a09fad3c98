//go:build abortif

package rollout

//abortif:staging, eu_region
func Launch() {}
