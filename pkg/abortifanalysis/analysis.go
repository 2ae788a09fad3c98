// Package abortifanalysis integrates abortif validation with the Go
// analysis protocol. The analyzer checks directive placement and
// condition syntax without generating code, so misuse shows up in
// editors and linters before a generation run.
package abortifanalysis

import (
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/packages"

	abortifinternal "github.com/blyxyas/abort-if/internal/abortif"
	"github.com/blyxyas/abort-if/internal/codefmt"
)

// Analyzer validates the usage of abortif in the package.
var Analyzer = &analysis.Analyzer{
	Name: "abortif",
	Doc:  "linter for abortif directive usage",
	Run:  run,
}

func run(pass *analysis.Pass) (any, error) {
	pkg := &packages.Package{
		Name:      pass.Pkg.Name(),
		PkgPath:   pass.Pkg.Path(),
		Types:     pass.Pkg,
		Fset:      pass.Fset,
		Syntax:    pass.Files,
		TypesInfo: pass.TypesInfo,
	}

	// Qualified handlers resolve through the analyzed package's own
	// imports; packages beyond them skip handler validation.
	opts := abortifinternal.Options{
		LoadPkg: func(path string) (*types.Package, error) {
			for _, imp := range pass.Pkg.Imports() {
				if imp.Path() == path {
					return imp, nil
				}
			}
			return nil, nil
		},
	}

	ab, err := abortifinternal.New(pkg, opts)
	if err != nil {
		return nil, err
	}

	if err := ab.Build(); err != nil {
		// Unroll all errors and report them
		errs := []error{err}
		for len(errs) != 0 {
			err := errs[0]
			errs = errs[1:]

			if codeErr, ok := err.(*codefmt.CodeError); ok {
				pass.Report(analysis.Diagnostic{
					Pos:     codeErr.Pos(),
					End:     codeErr.End(),
					Message: codeErr.Unwrap().Error(),
				})
				continue
			}

			if u, ok := err.(interface{ Unwrap() []error }); ok {
				errs = append(errs, u.Unwrap()...)
			}
		}
	}

	return nil, nil
}
