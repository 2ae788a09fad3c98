package main

import (
	"os"

	abortifinternal "github.com/blyxyas/abort-if/internal/abortif"
	"github.com/blyxyas/abort-if/internal/cli"
)

// Version is set at build time with -ldflags.
var Version = "dev"

func init() {
	abortifinternal.Version = Version
}

func main() {
	if err := cli.Execute(Version); err != nil {
		os.Exit(1)
	}
}
