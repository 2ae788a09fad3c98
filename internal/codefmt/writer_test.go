package codefmt

import (
	"bytes"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/tools/go/packages"
)

func newTestWriter() *Writer {
	pkg := &packages.Package{
		Name:      "x",
		PkgPath:   "example.com/x",
		Types:     types.NewPackage("example.com/x", "x"),
		TypesInfo: &types.Info{},
	}
	return NewWriter(&bytes.Buffer{}, pkg)
}

func TestDisambiguateName(t *testing.T) {
	take := func(name string, n int) []string {
		var names []string
		for cand := range DisambiguateName(name) {
			names = append(names, cand)
			if len(names) == n {
				break
			}
		}
		return names
	}

	assert.Equal(t, []string{"example", "example2", "example3"}, take("example", 3))

	// A trailing digit gets a separator so the counter stays readable.
	assert.Equal(t, []string{"answer42", "answer42_2", "answer42_3"}, take("answer42", 3))
}

func TestImport(t *testing.T) {
	w := newTestWriter()

	assert.Equal(t, "fmt", w.Import("fmt", "fmt"))
	assert.Equal(t, "fmt", w.Import("fmt", "fmt"))

	// Another package claiming the same name gets renamed.
	assert.Equal(t, "fmt2", w.Import("example.com/fmt", "fmt"))

	imports := w.Imports()
	assert.Len(t, imports, 2)
	assert.Equal(t, "fmt", imports["fmt"].Path())
	assert.Equal(t, "example.com/fmt", imports["fmt2"].Path())
	assert.True(t, imports["fmt2"].HasAlias)

	// Packages the target does not already import get an explicit alias.
	assert.True(t, imports["fmt"].HasAlias)
}

func TestImportAlias(t *testing.T) {
	w := newTestWriter()

	assert.Equal(t, "yamlv3", w.Import("gopkg.in/yaml.v3", "yamlv3"))
	assert.True(t, w.Imports()["yamlv3"].HasAlias)
}

func TestImportDotAndBlank(t *testing.T) {
	w := newTestWriter()

	w.ImportDot("example.com/dsl")
	w.ImportDot("example.com/dsl")
	w.ImportBlank("net/http/pprof")

	assert.Equal(t, map[string]bool{"example.com/dsl": true}, w.Dots())
	assert.Equal(t, map[string]bool{"net/http/pprof": true}, w.Blanks())
}

func TestWriterPrintfImports(t *testing.T) {
	w := newTestWriter()

	hooks := types.NewPackage("example.com/hooks", "hooks")
	sig := types.NewSignatureType(nil, nil, nil,
		types.NewTuple(types.NewVar(token.NoPos, hooks, "msg", types.Typ[types.String])), nil, false)
	abort := types.NewFunc(token.NoPos, hooks, "Abort", sig)

	s := w.Sprintf("%o(%q)", abort, "Condition was met.")
	assert.Equal(t, `hooks.Abort("Condition was met.")`, s)
	assert.Equal(t, "example.com/hooks", w.Imports()["hooks"].Path())
}
