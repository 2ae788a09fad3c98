package parse

import (
	"go/build/constraint"
	"go/token"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/emirpasic/gods/sets/linkedhashset"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/blyxyas/abort-if/internal/codefmt"
	"github.com/blyxyas/abort-if/internal/lcs"
)

// Cond is a guard condition over build tags. A Cond is immutable once
// parsed. It is rendered into a //go:build expression and resolved by
// the build system, never evaluated at run time.
type Cond interface {
	// Pos returns the position of the condition's first token.
	Pos() token.Pos
	// End returns the position immediately after its last token.
	End() token.Pos

	// Expr returns the condition as a build constraint expression.
	// Double negations collapse and single-term combinators unwrap, so
	// the result is always printable as a valid //go:build line.
	Expr() constraint.Expr

	// String renders the condition in the directive syntax.
	String() string
}

// Flag is a named compile-time fact: a bare name or a key = value pair.
// Both canonicalize to a single build tag.
type Flag struct {
	Key   string
	Value string // empty for bare flags

	pos, end token.Pos
}

func (f *Flag) Pos() token.Pos { return f.pos }
func (f *Flag) End() token.Pos { return f.end }

// Tag returns the build tag the flag resolves to. A key = value flag
// joins both parts with a dot: feature = "x" becomes "feature.x".
func (f *Flag) Tag() string {
	if f.Value == "" {
		return f.Key
	}
	return f.Key + "." + f.Value
}

func (f *Flag) Expr() constraint.Expr { return &constraint.TagExpr{Tag: f.Tag()} }

func (f *Flag) String() string {
	if f.Value == "" {
		return f.Key
	}
	return f.Key + " = " + f.Value
}

// Not negates a single term.
type Not struct {
	X Cond

	pos, end token.Pos
}

func (n *Not) Pos() token.Pos { return n.pos }
func (n *Not) End() token.Pos { return n.end }

func (n *Not) Expr() constraint.Expr { return Negate(n.X.Expr()) }

func (n *Not) String() string { return "not(" + n.X.String() + ")" }

// Any holds when at least one term holds.
type Any struct {
	Terms []Cond

	pos, end token.Pos
}

func (a *Any) Pos() token.Pos { return a.pos }
func (a *Any) End() token.Pos { return a.end }

func (a *Any) Expr() constraint.Expr {
	expr := a.Terms[0].Expr()
	for _, term := range a.Terms[1:] {
		expr = &constraint.OrExpr{X: expr, Y: term.Expr()}
	}
	return expr
}

func (a *Any) String() string { return "any(" + joinConds(a.Terms) + ")" }

// All holds when every term holds.
type All struct {
	Terms []Cond

	pos, end token.Pos
}

func (a *All) Pos() token.Pos { return a.pos }
func (a *All) End() token.Pos { return a.end }

func (a *All) Expr() constraint.Expr {
	expr := a.Terms[0].Expr()
	for _, term := range a.Terms[1:] {
		expr = &constraint.AndExpr{X: expr, Y: term.Expr()}
	}
	return expr
}

func (a *All) String() string { return "all(" + joinConds(a.Terms) + ")" }

func joinConds(terms []Cond) string {
	ss := make([]string, len(terms))
	for i, term := range terms {
		ss[i] = term.String()
	}
	return strings.Join(ss, ", ")
}

// Negate complements a constraint expression. The //go:build grammar
// rejects double negation, so negating a NotExpr unwraps it instead of
// stacking another one.
func Negate(expr constraint.Expr) constraint.Expr {
	if not, ok := expr.(*constraint.NotExpr); ok {
		return not.X
	}
	return &constraint.NotExpr{X: expr}
}

// Tags returns every build tag the condition mentions, in order of
// first appearance without duplicates.
func Tags(cond Cond) []string {
	set := linkedhashset.New()
	walkTags(cond, set)

	tags := make([]string, 0, set.Size())
	for _, v := range set.Values() {
		tags = append(tags, v.(string))
	}
	return tags
}

func walkTags(cond Cond, set *linkedhashset.Set) {
	switch cond := cond.(type) {
	case *Flag:
		set.Add(cond.Tag())
	case *Not:
		walkTags(cond.X, set)
	case *Any:
		for _, term := range cond.Terms {
			walkTags(term, set)
		}
	case *All:
		for _, term := range cond.Terms {
			walkTags(term, set)
		}
	}
}

// AllOf combines top-level condition terms. A single term stays as is;
// multiple terms are implicitly ALL-combined.
func AllOf(terms []Cond) Cond {
	if len(terms) == 1 {
		return terms[0]
	}
	return &All{
		Terms: terms,
		pos:   terms[0].Pos(),
		end:   terms[len(terms)-1].End(),
	}
}

// ParseCond parses a directive payload into its ordered top-level
// condition terms. base is the position of src's first byte within the
// parser's file set, so every error points at the offending token.
func (p *Parser) ParseCond(base token.Pos, src string) ([]Cond, error) {
	items, err := p.lexCond(base, src)
	if err != nil {
		return nil, err
	}

	cp := condParser{p: p, items: items}
	terms, err := cp.parseList(itemEOF)
	if err != nil {
		return nil, err
	}
	return terms, nil
}

type itemKind int

const (
	itemEOF itemKind = iota
	itemIdent
	itemString
	itemComma
	itemLparen
	itemRparen
	itemEq
)

// item is a lexical token of the condition grammar. Its positions make
// it usable as an error anchor.
type item struct {
	kind     itemKind
	text     string
	pos, end token.Pos
}

func (it item) Pos() token.Pos { return it.pos }
func (it item) End() token.Pos { return it.end }

func (it item) describe() string {
	if it.kind == itemEOF {
		return "end of condition"
	}
	return strconv.Quote(it.text)
}

// lexCond splits the payload into items. Identifiers follow the build
// tag charset plus '-', which canonicalization later folds into '_'.
func (p *Parser) lexCond(base token.Pos, src string) ([]item, error) {
	var items []item
	one := func(kind itemKind, off int, text string) {
		items = append(items, item{kind, text, base + token.Pos(off), base + token.Pos(off+len(text))})
	}

	off := 0
	for off < len(src) {
		r, size := utf8.DecodeRuneInString(src[off:])
		switch {
		case unicode.IsSpace(r):
			off += size

		case r == ',':
			one(itemComma, off, ",")
			off++
		case r == '(':
			one(itemLparen, off, "(")
			off++
		case r == ')':
			one(itemRparen, off, ")")
			off++
		case r == '=':
			one(itemEq, off, "=")
			off++

		case r == '/' && strings.HasPrefix(src[off:], "//"):
			// An inline comment ends the payload.
			off = len(src)

		case r == '"':
			quoted, err := strconv.QuotedPrefix(src[off:])
			if err != nil {
				span := item{pos: base + token.Pos(off), end: base + token.Pos(len(src))}
				return nil, codefmt.Errorf(p, span, "unterminated string in condition")
			}
			text, _ := strconv.Unquote(quoted)
			items = append(items, item{itemString, text, base + token.Pos(off), base + token.Pos(off+len(quoted))})
			off += len(quoted)

		case isFlagRune(r):
			start := off
			for off < len(src) {
				r, size := utf8.DecodeRuneInString(src[off:])
				if !isFlagRune(r) {
					break
				}
				off += size
			}
			one(itemIdent, start, src[start:off])

		default:
			span := item{pos: base + token.Pos(off), end: base + token.Pos(off+size)}
			return nil, codefmt.Errorf(p, span, "invalid character %q in condition", r)
		}
	}

	items = append(items, item{kind: itemEOF, pos: base + token.Pos(len(src)), end: base + token.Pos(len(src))})
	return items, nil
}

func isFlagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' || r == '-'
}

// condParser is a recursive-descent parser for the condition grammar:
//
//	list := term ("," term)* [","]
//	term := flag | key "=" value | "not" "(" term ")"
//	      | "any" "(" list ")" | "all" "(" list ")"
type condParser struct {
	p     *Parser
	items []item
	i     int
}

func (cp *condParser) next() item {
	it := cp.items[cp.i]
	if it.kind != itemEOF {
		cp.i++
	}
	return it
}

func (cp *condParser) peek() item { return cp.items[cp.i] }

// parseList parses terms until stop, which the caller consumes. A
// trailing comma before stop is tolerated; an empty list is not.
func (cp *condParser) parseList(stop itemKind) ([]Cond, error) {
	var terms []Cond
	for {
		if it := cp.peek(); it.kind == stop {
			if len(terms) == 0 {
				return nil, codefmt.Errorf(cp.p, it, "missing condition term")
			}
			return terms, nil
		}

		term, err := cp.parseTerm()
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)

		switch it := cp.peek(); it.kind {
		case itemComma:
			cp.next()
		case stop:
			return terms, nil
		default:
			return nil, codefmt.Errorf(cp.p, it, "unexpected %s in condition, want \",\"", it.describe())
		}
	}
}

func (cp *condParser) parseTerm() (Cond, error) {
	it := cp.next()
	if it.kind != itemIdent {
		return nil, codefmt.Errorf(cp.p, it, "unexpected %s in condition, want flag or combinator", it.describe())
	}

	switch cp.peek().kind {
	case itemLparen:
		return cp.parseCombinator(it)
	case itemEq:
		cp.next()
		return cp.parseValue(it)
	}
	return cp.newFlag(it, item{kind: itemEOF})
}

// parseValue parses the value of a key = value flag.
func (cp *condParser) parseValue(key item) (Cond, error) {
	it := cp.next()
	if it.kind != itemIdent && it.kind != itemString {
		return nil, codefmt.Errorf(cp.p, it, "unexpected %s in condition, want flag value", it.describe())
	}
	return cp.newFlag(key, it)
}

// parseCombinator parses not(...), any(...), or all(...). The name item
// is already consumed and the upcoming item is the opening parenthesis.
func (cp *condParser) parseCombinator(name item) (Cond, error) {
	switch name.text {
	case "not", "any", "all":
	default:
		if hint := suggestCombinator(name.text); hint != "" {
			return nil, codefmt.Errorf(cp.p, name, "unknown combinator %q, did you mean %q?", name.text, hint)
		}
		return nil, codefmt.Errorf(cp.p, name, "unknown combinator %q, want not, any, or all", name.text)
	}
	cp.next() // consume "("

	var terms []Cond
	if name.text == "not" {
		term, err := cp.parseTerm()
		if err != nil {
			return nil, err
		}
		if it := cp.peek(); it.kind == itemComma {
			return nil, codefmt.Errorf(cp.p, it, "not() takes exactly one term")
		}
		terms = []Cond{term}
	} else {
		var err error
		if terms, err = cp.parseList(itemRparen); err != nil {
			return nil, err
		}
	}

	rparen := cp.next()
	if rparen.kind != itemRparen {
		return nil, codefmt.Errorf(cp.p, rparen, "unexpected %s in condition, want \")\"", rparen.describe())
	}

	switch name.text {
	case "not":
		return &Not{X: terms[0], pos: name.pos, end: rparen.end}, nil
	case "any":
		return &Any{Terms: terms, pos: name.pos, end: rparen.end}, nil
	default:
		return &All{Terms: terms, pos: name.pos, end: rparen.end}, nil
	}
}

// newFlag canonicalizes and validates a flag. value's kind is itemEOF
// for bare flags.
func (cp *condParser) newFlag(key, value item) (Cond, error) {
	flag := &Flag{Key: canonTag(key.text), pos: key.pos, end: key.end}
	if !isValidTag(flag.Key) {
		return nil, codefmt.Errorf(cp.p, key, "flag %q is not a valid build tag", key.text)
	}

	if value.kind != itemEOF {
		flag.Value = canonTag(value.text)
		flag.end = value.end
		if !isValidTag(flag.Value) {
			return nil, codefmt.Errorf(cp.p, value, "flag value %q is not a valid build tag", value.text)
		}
	}
	return flag, nil
}

var lowerCaser = cases.Lower(language.Und)

// canonTag folds a flag part into build tag form: lowercase, dashes
// replaced by underscores.
func canonTag(s string) string {
	return lowerCaser.String(strings.ReplaceAll(s, "-", "_"))
}

// isValidTag mirrors the tag charset of the //go:build grammar.
func isValidTag(tag string) bool {
	if tag == "" {
		return false
	}
	for _, r := range tag {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '.' {
			return false
		}
	}
	return true
}

// suggestCombinator offers the closest combinator keyword by common
// prefix, case-insensitively. It returns "" when nothing comes close.
func suggestCombinator(name string) string {
	name = strings.ToLower(name)

	best, bestLen := "", 1
	for _, want := range []string{"not", "any", "all"} {
		n := len(lcs.CommonPrefix([]string{name, want}))
		if n > bestLen {
			best, bestLen = want, n
		}
	}
	return best
}
