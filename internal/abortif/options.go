package abortifinternal

import (
	"log/slog"

	"github.com/blyxyas/abort-if/internal/abortif/parse"
)

// Abort modes. Hard aborts fail the build of a met variant; soft aborts
// call a handler at run time instead.
const (
	AbortHard = "hard"
	AbortSoft = "soft"
)

// DefaultHandler is the soft handler name looked up in the target
// package when none is configured.
const DefaultHandler = "AbortHandler"

// DefaultOut is the merged output file name. Variant file names derive
// from its stem.
const DefaultOut = "abortif_gen.go"

// Options configure a generation run.
type Options struct {
	// Abort selects the met variant's behavior: AbortHard makes its
	// compilation fail, AbortSoft calls Handler instead.
	Abort string

	// Handler names the soft abort handler: a bare name declared in the
	// target package, or a qualified "import/path.Name". Ignored under
	// AbortHard.
	Handler string

	// KeepGoing appends the original statements after the abort step of
	// met variants.
	KeepGoing bool

	// Out is the merged output file name, generated into each package's
	// directory.
	Out string

	// Tags are extra build tags applied when loading packages, on top
	// of the abortif tag.
	Tags string

	// Tests loads test files too, so directives in them are validated.
	// Generation still covers only the package's regular files.
	Tests bool

	// LoadPkg resolves the types of a qualified handler's package. Left
	// nil, qualified handlers cannot be resolved and Build fails under
	// AbortSoft. [Main] supplies one backed by the package loader.
	LoadPkg parse.PkgLoader

	// Logger receives debug logs. Nil means silent.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Abort == "" {
		o.Abort = AbortHard
	}
	if o.Handler == "" {
		o.Handler = DefaultHandler
	}
	if o.Out == "" {
		o.Out = DefaultOut
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}
