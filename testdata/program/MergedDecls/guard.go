//go:build abortif

package mergeddecls

import (
	_ "embed"
	"fmt"
)

const banner = "debug build"

// Banner frames the debug banner.
func Banner() string {
	return fmt.Sprintf("[%s]", banner)
}

//abortif:release
func Dump() {
	fmt.Println(Banner())
}
