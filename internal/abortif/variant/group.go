package variant

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/blyxyas/abort-if/internal/abortif/parse"
	"github.com/blyxyas/abort-if/internal/codefmt"
)

// Group collects the directives that share one canonical predicate.
// They gate the same pair of generated files: conditions spelled
// differently, like "any(a, b)" and "any(b, a,)", stay distinct groups,
// but "a, b" and "all(a, b)" collapse into one.
type Group struct {
	// Cond is the condition of the group's first directive.
	Cond parse.Cond

	// Slug distinguishes the group's generated file names.
	Slug string

	// Variants are the group's guarded functions, in source order.
	Variants []*Variant
}

// Groups are ordered by the first appearance of their predicate.
type Groups struct{ m *linkedhashmap.Map }

// BuildGroups groups directives by canonical predicate, derives file
// slugs, and prepares the variants. Directives whose generated files
// would bind one import name to two packages are reported as errors.
func BuildGroups(p *parse.Parser, ds []*parse.Directive) (*Groups, error) {
	m := linkedhashmap.New()
	for _, d := range ds {
		v := newVariant(p, d)

		key := d.Cond.Expr().String()
		if g, ok := m.Get(key); ok {
			g := g.(*Group)
			g.Variants = append(g.Variants, v)
			continue
		}
		m.Put(key, &Group{Cond: d.Cond, Variants: []*Variant{v}})
	}

	gs := &Groups{m: m}
	gs.assignSlugs()
	return gs, gs.checkImports(p)
}

// All returns the groups in first-seen order.
func (gs *Groups) All() []*Group {
	groups := make([]*Group, 0, gs.m.Size())
	for _, g := range gs.m.Values() {
		groups = append(groups, g.(*Group))
	}
	return groups
}

// Len returns the number of groups.
func (gs *Groups) Len() int { return gs.m.Size() }

// slugMax bounds the tag-joined part of a slug before it falls back to
// a fingerprint.
const slugMax = 40

// assignSlugs derives a unique file slug per group. The slug joins the
// condition's tags; when two predicates share the same tags, such as
// "any(a, b)" and "all(a, b)", the later one gets a fingerprint suffix.
func (gs *Groups) assignSlugs() {
	taken := make(map[string]bool)
	for _, g := range gs.All() {
		slug := slugOf(g.Cond)
		if taken[slug] {
			for cand := range codefmt.DisambiguateName(slug + "_" + condHash(g.Cond)) {
				if !taken[cand] {
					slug = cand
					break
				}
			}
		}
		taken[slug] = true
		g.Slug = slug
	}
}

func slugOf(cond parse.Cond) string {
	tags := parse.Tags(cond)
	slug := strings.ReplaceAll(strings.Join(tags, "_"), ".", "_")
	if len(slug) <= slugMax {
		return slug
	}

	first := strings.ReplaceAll(tags[0], ".", "_")
	if len(first) > slugMax-9 {
		cut := slugMax - 9
		for cut > 0 && !utf8.RuneStart(first[cut]) {
			cut--
		}
		first = first[:cut]
	}
	return first + "_" + condHash(cond)
}

// condHash is a short stable fingerprint of the canonical predicate.
func condHash(cond parse.Cond) string {
	return fmt.Sprintf("%08x", uint32(xxhash.Sum64String(cond.Expr().String())))
}

// checkImports rejects groups whose functions spell the same import
// name for different packages. Their bodies are printed verbatim into
// one file, so the clashing name could not keep both meanings.
func (gs *Groups) checkImports(p *parse.Parser) error {
	var errs error
	for _, g := range gs.All() {
		seen := make(map[string]fileImport)
		for _, v := range g.Variants {
			for _, imp := range v.imports() {
				if imp.Name == "." {
					continue
				}
				prev, ok := seen[imp.Name]
				if !ok {
					seen[imp.Name] = imp
					continue
				}
				if prev.Path != imp.Path {
					errs = errors.Join(errs, codefmt.Errorf(p, v.Directive,
						"functions guarded by the same condition import %q as both %q and %q",
						imp.Name, prev.Path, imp.Path))
				}
			}
		}
	}
	return errs
}
