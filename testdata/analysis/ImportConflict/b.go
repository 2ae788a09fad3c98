//go:build abortif

package importconflict

import buf "strings"

//abortif:debug // want `functions guarded by the same condition import "buf" as both "bytes" and "strings"`
func G() string {
	var b buf.Builder
	b.WriteString("y")
	return b.String()
}
