//go:build abortif

package importconflict

import buf "bytes"

//abortif:debug
func F() string {
	var b buf.Buffer
	b.WriteString("x")
	return b.String()
}
