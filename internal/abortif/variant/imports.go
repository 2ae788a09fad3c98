package variant

import (
	"go/ast"
	"go/types"

	"github.com/blyxyas/abort-if/internal/abortif/parse"
)

// fileImport is one import required by printed code, under the local
// name the source file binds it to. Name is "." for dot imports.
type fileImport struct {
	Name string
	Path string
}

// collectImports finds the imports referenced by the given nodes, keyed
// by the package names the source actually spells. Guarded code is
// printed verbatim, so its generated file must bind the same names.
func collectImports(p *parse.Parser, nodes ...ast.Node) []fileImport {
	var imps []fileImport
	add := func(name, path string) {
		for _, imp := range imps {
			if imp.Name == name && imp.Path == path {
				return
			}
		}
		imps = append(imps, fileImport{Name: name, Path: path})
	}

	info := p.Pkg().TypesInfo
	for _, node := range nodes {
		ast.Inspect(node, func(n ast.Node) bool {
			switch n := n.(type) {
			case *ast.SelectorExpr:
				id, ok := n.X.(*ast.Ident)
				if !ok {
					return true
				}
				pn, ok := info.ObjectOf(id).(*types.PkgName)
				if !ok {
					return true
				}
				add(id.Name, pn.Imported().Path())
				return false

			case *ast.Ident:
				obj := info.ObjectOf(n)
				if obj == nil || obj.Pkg() == nil || obj.Pkg().Path() == p.Pkg().PkgPath {
					return true
				}
				// A cross-package name reached without a qualifier
				// comes from a dot import.
				if obj.Parent() == obj.Pkg().Scope() {
					add(".", obj.Pkg().Path())
				}
			}
			return true
		})
	}
	return imps
}
