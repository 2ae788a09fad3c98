package abortifinternal_test

import (
	"go/ast"
	"go/build/constraint"
	"go/importer"
	goparser "go/parser"
	"go/token"
	"go/types"
	"maps"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"

	abortifinternal "github.com/blyxyas/abort-if/internal/abortif"
)

// loadPackage type-checks the given sources as one package. Keys are
// file names; iteration is sorted so positions stay deterministic.
func loadPackage(t *testing.T, srcs map[string]string) *packages.Package {
	t.Helper()

	fset := token.NewFileSet()
	var files []*ast.File
	for _, name := range slices.Sorted(maps.Keys(srcs)) {
		file, err := goparser.ParseFile(fset, name, srcs[name], goparser.ParseComments)
		require.NoError(t, err)
		files = append(files, file)
	}

	info := &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
		Implicits:  make(map[ast.Node]types.Object),
		Scopes:     make(map[ast.Node]*types.Scope),
	}
	conf := types.Config{Importer: importer.Default()}
	tpkg, err := conf.Check("example.com/guarded", fset, files, info)
	require.NoError(t, err)

	return &packages.Package{
		ID:        tpkg.Path(),
		Name:      tpkg.Name(),
		PkgPath:   tpkg.Path(),
		Fset:      fset,
		Syntax:    files,
		Types:     tpkg,
		TypesInfo: info,
	}
}

// generate builds and generates for the given sources, failing the test
// on any error.
func generate(t *testing.T, opts abortifinternal.Options, srcs map[string]string) map[string][]byte {
	t.Helper()

	ab, err := abortifinternal.New(loadPackage(t, srcs), opts)
	require.NoError(t, err)
	require.NoError(t, ab.Build())
	return ab.Generate()
}

// buildLine extracts and parses the //go:build line of generated code.
func buildLine(t *testing.T, code []byte) constraint.Expr {
	t.Helper()

	line, _, _ := strings.Cut(string(code), "\n")
	expr, err := constraint.Parse(line)
	require.NoError(t, err, "parse %q", line)
	return expr
}

func TestGenerate(t *testing.T) {
	outs := generate(t, abortifinternal.Options{}, map[string]string{"guard.go": `//go:build abortif

package x

//abortif:any(debug, race)
func F() {}

//abortif:not(debug)
func G() {}
`})

	require.ElementsMatch(t, []string{
		"abortif_gen_debug_race_pass.go",
		"abortif_gen_debug_race_met.go",
		"abortif_gen_debug_pass.go",
		"abortif_gen_debug_met.go",
	}, slices.Collect(maps.Keys(outs)))

	assert.Equal(t, "!abortif && !(debug || race)",
		buildLine(t, outs["abortif_gen_debug_race_pass.go"]).String())
	assert.Equal(t, "!abortif && (debug || race)",
		buildLine(t, outs["abortif_gen_debug_race_met.go"]).String())

	// Negating not(debug) unwraps instead of stacking another "!".
	assert.Equal(t, "!abortif && debug",
		buildLine(t, outs["abortif_gen_debug_pass.go"]).String())
	assert.Equal(t, "!abortif && !debug",
		buildLine(t, outs["abortif_gen_debug_met.go"]).String())

	assert.Contains(t, string(outs["abortif_gen_debug_race_met.go"]), "panic(ABORTIF_CONDITION_WAS_MET)")
	assert.Contains(t, string(outs["abortif_gen_debug_race_pass.go"]), "func F() {}")
}

// TestGenerateExclusive checks that under every tag assignment, exactly
// one file of each pass/met pair is selected by the build system, and
// neither when the abortif tag is on.
func TestGenerateExclusive(t *testing.T) {
	outs := generate(t, abortifinternal.Options{}, map[string]string{"guard.go": `//go:build abortif

package x

//abortif:any(debug, race)
func F() {}

//abortif:not(debug), race
func G() {}

//abortif:feature = "legacy-sync"
func H() {}
`})

	pairs := make(map[string][2]constraint.Expr) // slug -> pass, met
	for name, code := range outs {
		base := strings.TrimSuffix(strings.TrimPrefix(name, "abortif_gen_"), ".go")

		var slug string
		var i int
		switch {
		case strings.HasSuffix(base, "_pass"):
			slug, i = strings.TrimSuffix(base, "_pass"), 0
		case strings.HasSuffix(base, "_met"):
			slug, i = strings.TrimSuffix(base, "_met"), 1
		default:
			t.Fatalf("unexpected file %s", name)
		}

		pair := pairs[slug]
		pair[i] = buildLine(t, code)
		pairs[slug] = pair
	}
	require.Len(t, pairs, 3)

	tags := []string{"abortif", "debug", "race", "feature.legacy_sync"}
	for mask := 0; mask < 1<<len(tags); mask++ {
		on := make(map[string]bool)
		for i, tag := range tags {
			on[tag] = mask&(1<<i) != 0
		}
		eval := func(expr constraint.Expr) bool {
			return expr.Eval(func(tag string) bool { return on[tag] })
		}

		for slug, pair := range pairs {
			require.NotNil(t, pair[0], "missing pass file for %s", slug)
			require.NotNil(t, pair[1], "missing met file for %s", slug)

			pass, met := eval(pair[0]), eval(pair[1])
			if on["abortif"] {
				assert.False(t, pass || met, "%s under %v: directive builds must exclude generated files", slug, on)
			} else {
				assert.NotEqual(t, pass, met, "%s under %v: exactly one variant must build", slug, on)
			}
		}
	}
}

func TestGenerateMerged(t *testing.T) {
	outs := generate(t, abortifinternal.Options{}, map[string]string{"guard.go": `//go:build abortif

package x

import (
	_ "embed"
)

const banner = "hi"

// Banner returns the banner.
func Banner() string { return banner }

//abortif:debug
func F() string { return banner }
`})

	require.Contains(t, outs, "abortif_gen.go")
	merged := string(outs["abortif_gen.go"])

	assert.Equal(t, "!abortif", buildLine(t, outs["abortif_gen.go"]).String())
	assert.Contains(t, merged, `_ "embed"`)
	assert.Contains(t, merged, `const banner = "hi"`)
	assert.Contains(t, merged, "func Banner() string")
	assert.NotContains(t, merged, "func F()", "guarded functions live in variant files only")
}

func TestGenerateOutName(t *testing.T) {
	outs := generate(t, abortifinternal.Options{Out: "guards_gen.go"}, map[string]string{"guard.go": `//go:build abortif

package x

//abortif:debug
func F() {}
`})

	require.ElementsMatch(t, []string{
		"guards_gen_debug_pass.go",
		"guards_gen_debug_met.go",
	}, slices.Collect(maps.Keys(outs)))
}

func TestGenerateNoDirectives(t *testing.T) {
	ab, err := abortifinternal.New(loadPackage(t, map[string]string{"lib.go": `package x

func F() {}
`}), abortifinternal.Options{})
	require.NoError(t, err)
	require.NoError(t, ab.Build())
	assert.Empty(t, ab.Generate())
}

func TestBuildReservedIdent(t *testing.T) {
	ab, err := abortifinternal.New(loadPackage(t, map[string]string{
		"guard.go": `//go:build abortif

package x

//abortif:debug
func F() {}
`,
		"clash.go": `package x

const ABORTIF_CONDITION_WAS_MET = 0
`,
	}), abortifinternal.Options{})
	require.NoError(t, err)

	err = ab.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ABORTIF_CONDITION_WAS_MET is reserved for hard aborts")
	assert.Contains(t, err.Error(), "clash.go:3:7")
}
