package abortifinternal

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/format"
	"go/printer"
	"go/token"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	abortif "github.com/blyxyas/abort-if"
	"github.com/blyxyas/abort-if/internal/abortif/parse"
	"github.com/blyxyas/abort-if/internal/abortif/variant"
	"github.com/blyxyas/abort-if/internal/codefmt"
)

// Abortif generates build-gated variants for the target package. Call
// [Build] and then [Generate] to get the generated files. All potential
// errors are returned by [Build]. Once [Build] succeeds, [Generate]
// never fails.
type Abortif struct {
	p    *parse.Parser
	opts Options

	directives []*parse.Directive
	groups     *variant.Groups
	emitter    *variant.Emitter
}

// New creates a new [Abortif] for the given package. The package must
// have its Syntax, Types and TypesInfo, loaded with the abortif tag so
// the directive files are part of the syntax.
func New(pkg *packages.Package, opts Options) (*Abortif, error) {
	parser, err := parse.New(pkg)
	if err != nil {
		return nil, err
	}
	return &Abortif{p: parser, opts: opts.withDefaults()}, nil
}

// Build scans directives and prepares the variants. All potential
// errors are returned by this method. It must be called before
// [Generate].
func (ab *Abortif) Build() error {
	ds, errs := ab.p.ScanDirectives()
	ab.directives = ds
	if len(ds) == 0 {
		// No guarded functions found
		return errs
	}

	var hard bool
	var handler *parse.Handler
	switch ab.opts.Abort {
	case AbortHard:
		hard = true
		if obj := ab.p.Pkg().Types.Scope().Lookup(variant.AbortIdent); obj != nil {
			errs = errors.Join(errs, codefmt.Errorf(ab.p, codefmt.Pos(obj.Pos()),
				"%s is reserved for hard aborts", variant.AbortIdent))
		}

	case AbortSoft:
		var err error
		handler, err = ab.p.ResolveHandler(ds[0], ab.opts.Handler, ab.opts.LoadPkg)
		if err == nil && handler == nil {
			err = codefmt.Errorf(ab.p, ds[0],
				"missing custom abort handler: cannot resolve %q without a package loader", ab.opts.Handler)
		}
		errs = errors.Join(errs, err)

	default:
		errs = errors.Join(errs, fmt.Errorf("unknown abort mode %q, want %q or %q",
			ab.opts.Abort, AbortHard, AbortSoft))
	}

	groups, err := variant.BuildGroups(ab.p, ds)
	errs = errors.Join(errs, err)
	if errs != nil {
		return errs
	}

	ab.groups = groups
	ab.emitter = variant.NewEmitter(ab.p, hard, handler, ab.opts.KeepGoing)
	return nil
}

// Generate renders the generated files keyed by file name. It must be
// called after [Build] succeeds. Names derive from the Out option: the
// merged file takes it verbatim, variant files insert the group slug
// and a pass or met suffix before the extension.
func (ab *Abortif) Generate() map[string][]byte {
	if ab.groups == nil || ab.groups.Len() == 0 {
		return nil
	}

	outs := make(map[string][]byte)
	stem := strings.TrimSuffix(ab.opts.Out, ".go")

	for _, g := range ab.groups.All() {
		pass, met := ab.newOut(), ab.newOut()
		ab.writeVariants(pass, met, g)

		outs[fmt.Sprintf("%s_%s_pass.go", stem, g.Slug)] = ab.frame(ab.gate(parse.Negate(g.Cond.Expr())), pass)
		outs[fmt.Sprintf("%s_%s_met.go", stem, g.Slug)] = ab.frame(ab.gate(g.Cond.Expr()), met)
	}

	if merged, ok := ab.mergeCode(); ok {
		outs[ab.opts.Out] = merged
	}
	return outs
}

// writeVariants writes the group's functions into the pass and met
// writers, naming each source file once on the way.
func (ab *Abortif) writeVariants(pass, met *out, g *variant.Group) {
	last := ""
	for _, v := range g.Variants {
		name := filepath.Base(ab.p.Pkg().Fset.File(v.Directive.File.Pos()).Name())
		if name != last {
			pass.w.Printf("// %s:\n\n", name)
			met.w.Printf("// %s:\n\n", name)
			last = name
		}

		ab.emitter.WritePass(pass.w, v)
		ab.emitter.WriteMet(met.w, v)
	}
}

// mergeCode copies unguarded declarations out of the directive files so
// they stay available in normal builds. Blank imports carry over for
// their side effects; other imports are re-collected from use.
func (ab *Abortif) mergeCode() ([]byte, bool) {
	o := ab.newOut()

	guarded := make(map[*ast.FuncDecl]bool, len(ab.directives))
	for _, d := range ab.directives {
		guarded[d.Fn] = true
	}

	wrote := false
	for _, file := range ab.p.AbortifGoFiles() {
		name := filepath.Base(ab.p.Pkg().Fset.File(file.Pos()).Name())
		first := true

		for _, decl := range file.Decls {
			if gen, ok := decl.(*ast.GenDecl); ok && gen.Tok == token.IMPORT {
				// Named imports are re-collected from their usage.
				// Blank ones have no usage to find them by.
				for _, spec := range gen.Specs {
					imp := spec.(*ast.ImportSpec)
					if imp.Name == nil || imp.Name.Name != "_" {
						continue
					}
					if path, err := strconv.Unquote(imp.Path.Value); err == nil {
						o.w.ImportBlank(path)
					}
				}
				continue
			}
			if fn, ok := decl.(*ast.FuncDecl); ok && guarded[fn] {
				continue
			}

			if first {
				fmt.Fprintf(o.buf, "// %s:\n\n", name)
				first = false
			}

			// Prevent import name conflicts when merging multiple files
			// into one.
			decl = codefmt.RewriteImports(o.w, decl)

			err := printer.Fprint(o.buf, ab.p.Pkg().Fset, &printer.CommentedNode{
				Node:     decl,
				Comments: file.Comments,
			})
			if err != nil {
				panic(err) // the AST comes straight from the parser
			}
			fmt.Fprintf(o.buf, "\n\n")
			wrote = true
		}
	}

	if !wrote && len(o.w.Blanks()) == 0 {
		return nil, false
	}

	merged := &constraint.NotExpr{X: &constraint.TagExpr{Tag: abortif.Tag}}
	return ab.frame(merged, o), true
}

// gate excludes the development tag and combines it with the variant's
// predicate: directive files and generated files never coexist in one
// build.
func (ab *Abortif) gate(expr constraint.Expr) constraint.Expr {
	dev := &constraint.NotExpr{X: &constraint.TagExpr{Tag: abortif.Tag}}
	return &constraint.AndExpr{X: dev, Y: expr}
}

type out struct {
	buf *bytes.Buffer
	w   *codefmt.Writer
}

func (ab *Abortif) newOut() *out {
	var buf bytes.Buffer
	return &out{buf: &buf, w: codefmt.NewWriter(&buf, ab.p.Pkg())}
}

// frame wraps a generated file body with its build line, the generated
// header, the package clause, and the collected imports.
func (ab *Abortif) frame(expr constraint.Expr, o *out) []byte {
	versionSuffix := ""
	if Version != "" {
		versionSuffix = "@" + Version
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "//go:build %s\n", expr.String())
	fmt.Fprintf(&buf, "// Code generated by github.com/blyxyas/abort-if%s. DO NOT EDIT.\n", versionSuffix)
	fmt.Fprintf(&buf, "package %s\n", ab.p.Pkg().Name)

	if len(o.w.Imports())+len(o.w.Dots())+len(o.w.Blanks()) != 0 {
		fmt.Fprintf(&buf, "import (\n")
		for alias, imp := range o.w.Imports() {
			if imp.HasAlias {
				fmt.Fprintf(&buf, "%s %q\n", alias, imp.Path())
			} else {
				fmt.Fprintf(&buf, "%q\n", imp.Path())
			}
		}
		for path := range o.w.Dots() {
			fmt.Fprintf(&buf, ". %q\n", path)
		}
		for path := range o.w.Blanks() {
			fmt.Fprintf(&buf, "_ %q\n", path)
		}
		fmt.Fprintf(&buf, ")\n")
	}

	_, _ = io.Copy(&buf, o.buf)
	code := buf.Bytes()

	// Apply gofmt if succeeded
	if fmtCode, err := format.Source(code); err == nil {
		code = fmtCode
	}
	return code
}
