package variant

import (
	"bytes"
	"go/ast"
	"go/printer"
	"io"
	"strings"

	abortif "github.com/blyxyas/abort-if"
	"github.com/blyxyas/abort-if/internal/abortif/parse"
	"github.com/blyxyas/abort-if/internal/codefmt"
)

// AbortIdent is the deliberately undeclared identifier behind hard
// aborts. Selecting a met variant makes the compiler fail on it, so the
// build output names the identifier and the generated file. The target
// package must not declare it.
const AbortIdent = "ABORTIF_CONDITION_WAS_MET"

// Variant is one guarded function prepared for emission.
type Variant struct {
	Directive *parse.Directive

	sigImports  []fileImport // used by receiver, type parameters, and signature
	bodyImports []fileImport // used by the body
}

func newVariant(p *parse.Parser, d *parse.Directive) *Variant {
	sig := []ast.Node{d.Fn.Type}
	if d.Fn.Recv != nil {
		sig = append(sig, d.Fn.Recv)
	}
	return &Variant{
		Directive:   d,
		sigImports:  collectImports(p, sig...),
		bodyImports: collectImports(p, d.Fn.Body),
	}
}

// imports returns the variant's combined import needs. Duplicates are
// fine for conflict checking.
func (v *Variant) imports() []fileImport {
	imps := make([]fileImport, 0, len(v.sigImports)+len(v.bodyImports))
	imps = append(imps, v.sigImports...)
	return append(imps, v.bodyImports...)
}

// Emitter renders pass and met variants of guarded functions. One
// emitter serves a whole run; the writer decides which file the code
// lands in.
type Emitter struct {
	p         *parse.Parser
	hard      bool
	handler   *parse.Handler // required unless hard
	keepGoing bool
}

// NewEmitter creates an [Emitter]. handler must be resolved when hard
// is false.
func NewEmitter(p *parse.Parser, hard bool, handler *parse.Handler, keepGoing bool) *Emitter {
	return &Emitter{p: p, hard: hard, handler: handler, keepGoing: keepGoing}
}

// WritePass writes the original declaration verbatim, with directive
// lines removed from its doc comment. Comments inside the body survive
// the trip through the printer.
func (e *Emitter) WritePass(w *codefmt.Writer, v *Variant) {
	e.register(w, v.sigImports, v.bodyImports)
	e.writeDoc(w, v)

	fn := *v.Directive.Fn
	fn.Doc = nil
	e.print(w, v, &fn)
	w.Printf("\n\n")
}

// WriteMet writes the met variant: the same doc and signature, with the
// body replaced by the abort step. Under keep-going the original
// statements follow, whatever the abort mode; a hard abort leaves the
// file uncompilable either way.
func (e *Emitter) WriteMet(w *codefmt.Writer, v *Variant) {
	e.register(w, v.sigImports)
	if e.keepGoing {
		e.register(w, v.bodyImports)
	}
	e.writeDoc(w, v)

	sig := *v.Directive.Fn
	sig.Doc = nil
	sig.Body = nil
	e.print(w, v, &sig)
	w.Printf(" {\n")

	if e.hard {
		w.Printf("// %s\n", abortif.Message)
		w.Printf("panic(%s)\n", AbortIdent)
	} else {
		w.Printf("%o(%q)\n", e.handler.Object(), abortif.Message)
		if !e.keepGoing {
			e.writeZeroReturn(w, v)
		}
	}

	if e.keepGoing {
		w.Printf("\n")
		e.writeBodyStmts(w, v)
	}
	w.Printf("}\n\n")
}

// register binds the printed code's imports before anything synthesized
// claims their names.
func (e *Emitter) register(w *codefmt.Writer, sets ...[]fileImport) {
	for _, set := range sets {
		for _, imp := range set {
			if imp.Name == "." {
				w.ImportDot(imp.Path)
				continue
			}
			w.Import(imp.Path, imp.Name)
		}
	}
}

// writeDoc copies the function's doc comment, directive lines removed.
func (e *Emitter) writeDoc(w *codefmt.Writer, v *Variant) {
	doc := v.Directive.Fn.Doc
	if doc == nil {
		return
	}
	for _, c := range doc.List {
		if parse.IsDirective(c) {
			continue
		}
		w.Printf("%s\n", c.Text)
	}
}

// writeZeroReturn writes a return matching the function's results.
// Named results return bare; unnamed ones return zero values spelled
// from their declared types.
func (e *Emitter) writeZeroReturn(w *codefmt.Writer, v *Variant) {
	results := v.Directive.Fn.Type.Results
	if results == nil || len(results.List) == 0 {
		return
	}

	for _, field := range results.List {
		if len(field.Names) != 0 {
			w.Printf("return\n")
			return
		}
	}

	zeros := make([]string, 0, len(results.List))
	for _, field := range results.List {
		zeros = append(zeros, w.Sprintf("*new(%c)", field.Type))
	}
	w.Printf("return %s\n", strings.Join(zeros, ", "))
}

// writeBodyStmts splices the original body statements after the abort
// step, outer braces stripped.
func (e *Emitter) writeBodyStmts(w *codefmt.Writer, v *Variant) {
	var buf bytes.Buffer
	e.print(&buf, v, v.Directive.Fn.Body)

	text := strings.TrimSpace(buf.String())
	text = strings.TrimPrefix(text, "{")
	text = strings.TrimSuffix(text, "}")
	if text = strings.Trim(text, "\n"); text == "" {
		return
	}
	w.Printf("%s\n", text)
}

func (e *Emitter) print(w io.Writer, v *Variant, node ast.Node) {
	err := printer.Fprint(w, e.p.Pkg().Fset, &printer.CommentedNode{
		Node:     node,
		Comments: v.Directive.File.Comments,
	})
	if err != nil {
		panic(err) // the AST comes straight from the parser
	}
}
