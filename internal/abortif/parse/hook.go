package parse

import (
	"go/ast"
	"go/types"
	"strings"

	abortif "github.com/blyxyas/abort-if"
	"github.com/blyxyas/abort-if/internal/codefmt"
)

// Handler is a resolved soft-abort hook. The met variant of a guarded
// function calls it with [abortif.Message] instead of failing the
// build.
type Handler struct {
	obj  types.Object
	path string // import path, empty when declared in the target package
}

// Object returns the handler's object. It implements [codefmt.Objecter]
// so "%o" renders the handler as a code reference.
func (h *Handler) Object() types.Object { return h.obj }

// Name returns the handler's bare name.
func (h *Handler) Name() string { return h.obj.Name() }

// Path returns the handler's import path, or "" when the handler lives
// in the target package and needs no import.
func (h *Handler) Path() string { return h.path }

// PkgName returns the name of the handler's package.
func (h *Handler) PkgName() string { return h.obj.Pkg().Name() }

// PkgLoader loads the types of the package named by an import path.
// The generator backs it with the package loader; the analyzer can only
// search packages already imported by the analyzed one and reports
// (nil, nil) for the rest, which skips handler validation.
type PkgLoader func(path string) (*types.Package, error)

// ResolveHandler resolves a soft-abort handler. spec is either a bare
// name declared in the target package or a qualified "import/path.Name".
// The handler must be a function value of type func(string). at anchors
// resolution failures, conventionally the first directive that needs
// the handler.
func (p *Parser) ResolveHandler(at codefmt.Poser, spec string, load PkgLoader) (*Handler, error) {
	if spec == "" {
		return nil, codefmt.Errorf(p, at, "missing custom abort handler: no handler configured")
	}

	path, name := splitHandler(spec)
	if path == p.pkg.PkgPath {
		path = ""
	}

	var obj types.Object
	if path == "" {
		obj = p.pkg.Types.Scope().Lookup(name)
		if obj == nil {
			return nil, codefmt.Errorf(p, at, "missing custom abort handler: %s is not declared in this package", name)
		}
		if file := p.abortifFileAt(obj); file != nil {
			return nil, codefmt.Errorf(p, at, "missing custom abort handler: %s is only built with the %s tag", name, abortif.Tag)
		}
	} else {
		if load == nil {
			return nil, nil
		}
		tpkg, err := load(path)
		if err != nil {
			return nil, codefmt.Errorf(p, at, "missing custom abort handler: %s", err.Error())
		}
		if tpkg == nil {
			// The loader cannot reach the package. Skip validation.
			return nil, nil
		}
		obj = tpkg.Scope().Lookup(name)
		if obj == nil {
			return nil, codefmt.Errorf(p, at, "missing custom abort handler: %s has no %s", path, name)
		}
	}

	sig, ok := obj.Type().Underlying().(*types.Signature)
	if !ok {
		return nil, codefmt.Errorf(p, at, "missing custom abort handler: %o is not a function", obj)
	}
	if sig.Variadic() || sig.Params().Len() != 1 || sig.Results().Len() != 0 ||
		!types.Identical(sig.Params().At(0).Type(), types.Typ[types.String]) {
		return nil, codefmt.Errorf(p, at, "missing custom abort handler: %o must be func(string), not func%s",
			obj, codefmt.FormatSig(p, sig))
	}

	return &Handler{obj: obj, path: path}, nil
}

// splitHandler splits "import/path.Name" at the dot after the last
// slash. A spec without one is a bare name in the target package.
func splitHandler(spec string) (path, name string) {
	slash := strings.LastIndexByte(spec, '/')
	if dot := strings.LastIndexByte(spec, '.'); dot > slash {
		return spec[:dot], spec[dot+1:]
	}
	return "", spec
}

// abortifFileAt returns the directive file declaring the object, if
// any. A handler declared there would vanish from normal builds.
func (p *Parser) abortifFileAt(obj types.Object) *ast.File {
	for _, file := range p.AbortifGoFiles() {
		if file.FileStart <= obj.Pos() && obj.Pos() < file.FileEnd {
			return file
		}
	}
	return nil
}
