package variant_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blyxyas/abort-if/internal/abortif/parse"
	"github.com/blyxyas/abort-if/internal/abortif/variant"
)

func TestBuildGroupsCollapse(t *testing.T) {
	p := loadPackage(t, map[string]string{"guard.go": `//go:build abortif

package x

//abortif:integration
func A() {}

//abortif:all(integration)
func B() {}

//abortif:any(race, msan)
func C() {}

//abortif:any(msan, race)
func D() {}
`})
	gs := buildGroups(t, p)
	groups := gs.All()
	require.Equal(t, 3, gs.Len())

	// A and B spell the same predicate.
	require.Len(t, groups[0].Variants, 2)
	assert.Equal(t, "A", groups[0].Variants[0].Directive.Name())
	assert.Equal(t, "B", groups[0].Variants[1].Directive.Name())
	assert.Equal(t, "integration", groups[0].Cond.Expr().String())

	// C and D order their terms differently, so they stay apart.
	assert.Equal(t, "race || msan", groups[1].Cond.Expr().String())
	assert.Equal(t, "msan || race", groups[2].Cond.Expr().String())
}

func TestSlugs(t *testing.T) {
	p := loadPackage(t, map[string]string{"guard.go": `//go:build abortif

package x

//abortif:debug
func A() {}

//abortif:feature = "legacy-sync"
func B() {}

//abortif:not(debug), race
func C() {}
`})
	gs := buildGroups(t, p)
	groups := gs.All()
	require.Equal(t, 3, gs.Len())

	assert.Equal(t, "debug", groups[0].Slug)
	assert.Equal(t, "feature_legacy_sync", groups[1].Slug)
	assert.Equal(t, "debug_race", groups[2].Slug)
}

func TestSlugsSameTags(t *testing.T) {
	p := loadPackage(t, map[string]string{"guard.go": `//go:build abortif

package x

//abortif:any(race, msan)
func A() {}

//abortif:all(race, msan)
func B() {}
`})
	gs := buildGroups(t, p)
	groups := gs.All()
	require.Equal(t, 2, gs.Len())

	// Same tags, different predicates. The later group gets a
	// fingerprint suffix so the file names stay distinct.
	assert.Equal(t, "race_msan", groups[0].Slug)
	assert.Regexp(t, regexp.MustCompile(`^race_msan_[0-9a-f]{8}$`), groups[1].Slug)
}

func TestSlugsLongCondition(t *testing.T) {
	p := loadPackage(t, map[string]string{"guard.go": `//go:build abortif

package x

//abortif:experimental_adaptive_batching_with_backpressure, debug
func A() {}
`})
	gs := buildGroups(t, p)
	groups := gs.All()
	require.Equal(t, 1, gs.Len())

	// The joined tags overflow the slug budget, so the slug keeps the
	// first tag and falls back to a fingerprint.
	assert.Regexp(t, regexp.MustCompile(`^experimental_adaptive_batching__[0-9a-f]{8}$`), groups[0].Slug)
	assert.LessOrEqual(t, len(groups[0].Slug), 40)
}

func TestCheckImports(t *testing.T) {
	p := loadPackage(t, map[string]string{
		"a.go": `//go:build abortif

package x

import buf "bytes"

//abortif:debug
func A() int { return buf.MinRead }
`,
		"b.go": `//go:build abortif

package x

import buf "strings"

//abortif:debug
func B() *buf.Reader { return buf.NewReader("") }
`,
	})

	ds, err := p.ScanDirectives()
	require.NoError(t, err)

	_, err = variant.BuildGroups(p, ds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `import "buf" as both "bytes" and "strings"`)
}

func TestCheckImportsDisjointGroups(t *testing.T) {
	p := loadPackage(t, map[string]string{
		"a.go": `//go:build abortif

package x

import buf "bytes"

//abortif:debug
func A() int { return buf.MinRead }
`,
		"b.go": `//go:build abortif

package x

import buf "strings"

//abortif:race
func B() *buf.Reader { return buf.NewReader("") }
`,
	})

	ds, err := p.ScanDirectives()
	require.NoError(t, err)

	// Different conditions land in different files, so the clash is
	// fine.
	gs, err := variant.BuildGroups(p, ds)
	require.NoError(t, err)
	assert.Equal(t, 2, gs.Len())
}

func TestTagsOrder(t *testing.T) {
	p := loadPackage(t, map[string]string{"guard.go": `//go:build abortif

package x

//abortif:any(all(race, debug), not(race))
func A() {}
`})
	ds, err := p.ScanDirectives()
	require.NoError(t, err)
	require.Len(t, ds, 1)

	assert.Equal(t, []string{"race", "debug"}, parse.Tags(ds[0].Cond))
}
