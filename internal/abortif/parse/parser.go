package parse

import (
	"errors"
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/token"
	"strings"

	"golang.org/x/tools/go/packages"

	abortif "github.com/blyxyas/abort-if"
	"github.com/blyxyas/abort-if/internal/codefmt"
)

// directivePrefix marks a guard directive line in a doc comment.
const directivePrefix = "//" + abortif.Tag + ":"

// IsDirective reports whether the comment is a guard directive line.
func IsDirective(c *ast.Comment) bool {
	return strings.HasPrefix(c.Text, directivePrefix)
}

// Parser parses an AST of the underlying package to collect guard
// directives.
type Parser struct{ pkg *packages.Package }

func (p *Parser) Pkg() *packages.Package { return p.pkg }

// New creates a new [Parser].
func New(pkg *packages.Package) (*Parser, error) {
	if pkg.Name == "" {
		return nil, fmt.Errorf("need pkg name")
	}
	if pkg.PkgPath == "" {
		return nil, fmt.Errorf("need pkg path")
	}
	if pkg.Types == nil {
		return nil, fmt.Errorf("need pkg types")
	}
	if pkg.Fset == nil {
		return nil, fmt.Errorf("need pkg fset")
	}
	if pkg.Syntax == nil {
		return nil, fmt.Errorf("need pkg syntax")
	}
	if pkg.TypesInfo == nil {
		return nil, fmt.Errorf("need pkg types info")
	}
	return &Parser{pkg: pkg}, nil
}

// Directive is one guard directive attached to a function declaration.
type Directive struct {
	File    *ast.File
	Fn      *ast.FuncDecl
	Comment *ast.Comment

	// Terms are the parsed top-level condition terms, and Cond their
	// implicit ALL-combination.
	Terms []Cond
	Cond  Cond
}

// Pos returns the start of the directive comment. Diagnostics about a
// directive point at its comment, not at the function.
func (d *Directive) Pos() token.Pos { return d.Comment.Pos() }

// End returns the end of the directive comment.
func (d *Directive) End() token.Pos { return d.Comment.End() }

// Name returns the name of the annotated function.
func (d *Directive) Name() string { return d.Fn.Name.Name }

// AbortifGoFiles returns the Go files that have a "//go:build abortif"
// constraint. Only files like these may carry directives; their
// declarations never reach normal builds.
func (p *Parser) AbortifGoFiles() []*ast.File {
	var files []*ast.File
	for _, file := range p.pkg.Syntax {
		if hasGoBuildAbortif(file) {
			files = append(files, file)
		}
	}
	return files
}

// hasGoBuildAbortif checks if the file has a "//go:build abortif"
// constraint.
func hasGoBuildAbortif(file *ast.File) bool {
	ok := false
	for _, group := range file.Comments {
		for _, comment := range group.List {
			if constraint.IsGoBuild(comment.Text) {
				expr, _ := constraint.Parse(comment.Text)
				expr.Eval(func(tag string) bool {
					if tag == abortif.Tag {
						ok = true
					}
					return true
				})
			}
		}
	}
	return ok
}

// ScanDirectives collects every guard directive of the package, in
// source order. Misplaced and malformed directives are collected as
// errors rather than stopping the scan, so one pass reports them all.
func (p *Parser) ScanDirectives() ([]*Directive, error) {
	var directives []*Directive
	var errs error

	for _, file := range p.pkg.Syntax {
		isDirectiveFile := hasGoBuildAbortif(file)

		docs := make(map[*ast.CommentGroup]ast.Decl)
		for _, decl := range file.Decls {
			switch decl := decl.(type) {
			case *ast.FuncDecl:
				if decl.Doc != nil {
					docs[decl.Doc] = decl
				}
			case *ast.GenDecl:
				if decl.Doc != nil {
					docs[decl.Doc] = decl
				}
			}
		}

		seen := make(map[*ast.FuncDecl]bool)
		for _, group := range file.Comments {
			for _, comment := range group.List {
				if !IsDirective(comment) {
					continue
				}

				d, err := p.parseDirective(file, group, comment, docs, seen, isDirectiveFile)
				if err != nil {
					errs = errors.Join(errs, err)
					continue
				}
				directives = append(directives, d)
			}
		}
	}

	return directives, errs
}

// parseDirective validates one directive comment and parses its
// condition.
func (p *Parser) parseDirective(
	file *ast.File,
	group *ast.CommentGroup,
	comment *ast.Comment,
	docs map[*ast.CommentGroup]ast.Decl,
	seen map[*ast.FuncDecl]bool,
	isDirectiveFile bool,
) (*Directive, error) {
	if !isDirectiveFile {
		return nil, codefmt.Errorf(p, comment, "directive requires \"//go:build %s\" in the file", abortif.Tag)
	}

	decl, ok := docs[group]
	if !ok {
		return nil, codefmt.Errorf(p, comment, "directive is not attached to a function declaration")
	}

	fn, ok := decl.(*ast.FuncDecl)
	if !ok {
		return nil, codefmt.Errorf(p, comment, "expected a function declaration")
	}
	if fn.Body == nil {
		return nil, codefmt.Errorf(p, comment, "cannot guard a function without a body")
	}
	if seen[fn] {
		return nil, codefmt.Errorf(p, comment, "duplicate directive on %s", fn.Name.Name)
	}

	payload := strings.TrimPrefix(comment.Text, directivePrefix)
	base := comment.Pos() + token.Pos(len(directivePrefix))

	terms, err := p.ParseCond(base, payload)
	if err != nil {
		return nil, err
	}

	cond := AllOf(terms)
	for _, tag := range Tags(cond) {
		if tag == abortif.Tag {
			return nil, codefmt.Errorf(p, comment, "build tag %q is reserved for directive files", abortif.Tag)
		}
	}

	seen[fn] = true
	return &Directive{
		File:    file,
		Fn:      fn,
		Comment: comment,
		Terms:   terms,
		Cond:    cond,
	}, nil
}
