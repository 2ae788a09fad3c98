//go:build abortif

package feature

//abortif:feature = "legacy-sync"
func SyncLegacy() {}
