// Package ebnf turns EBNF grammars, as read by golang.org/x/exp/ebnf, into parsers
// built from the parsec combinators, producing concrete syntax trees.
//
// Every production becomes a forward-declared rule, so productions may refer to
// themselves and to productions defined later. Left-recursive productions never
// terminate; deeply nested input is bounded only by the goroutine stack.
package ebnf

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
	xebnf "golang.org/x/exp/ebnf"

	"github.com/OLUWAMUYIWA/combinators/parsec"
)

// Config controls how a grammar is compiled.
type Config struct {
	// SkipSpace skips white space before every token of a non-lexical production
	// (one whose name starts with an upper-case letter), and at the end of the input.
	SkipSpace bool `yaml:"skipSpace"`
}

// Grammar is a compiled grammar. It is safe for concurrent use.
type Grammar struct {
	rules map[string]parsec.Parsec[*Node]
	cfg   Config
}

type compiler struct {
	cfg   Config
	rules map[string]*parsec.Lazy[*Node]
	ws    parsec.Parsec[string]
}

// Load reads, verifies and compiles a grammar. An empty start skips verification.
func Load(filename string, r io.Reader, start string, cfg Config) (*Grammar, error) {
	g, err := xebnf.Parse(filename, r)
	if err != nil {
		return nil, err
	}
	if start != "" {
		if err := xebnf.Verify(g, start); err != nil {
			return nil, err
		}
	}
	return Compile(g, cfg)
}

// Compile builds one parser per production of g.
func Compile(g xebnf.Grammar, cfg Config) (*Grammar, error) {
	c := &compiler{
		cfg:   cfg,
		rules: make(map[string]*parsec.Lazy[*Node], len(g)),
		ws:    parsec.Space0(),
	}
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
		c.rules[name] = parsec.Later[*Node](name)
	}
	sort.Strings(names)

	for _, name := range names {
		prod := g[name]
		lexical := isLexical(name)
		body, err := c.expr(prod.Expr, lexical)
		if err != nil {
			return nil, errors.Wrapf(err, "production %s", name)
		}
		if lexical {
			// lexical productions are tokens: keep the text, drop the structure
			body = parsec.Value(body, []*Node(nil))
		}
		c.rules[name].Init(node(name, body))
	}

	out := &Grammar{rules: make(map[string]parsec.Parsec[*Node], len(g)), cfg: cfg}
	for name, rule := range c.rules {
		out.rules[name] = rule.Parsec()
	}
	return out, nil
}

// Productions returns the production names, sorted.
func (g *Grammar) Productions() []string {
	names := make([]string, 0, len(g.rules))
	for name := range g.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rule returns the parser for one production, for use inside other parsec grammars.
func (g *Grammar) Rule(name string) (parsec.Parsec[*Node], bool) {
	p, ok := g.rules[name]
	return p, ok
}

// Parse parses the whole input as the production start.
func (g *Grammar) Parse(start, input string) (*Node, error) {
	root, ok := g.rules[start]
	if !ok {
		return nil, errors.Errorf("no production %q", start)
	}
	if g.cfg.SkipSpace {
		root = parsec.Terminated(root, parsec.Space0())
	}
	res, err := parsec.Parse(root, input)
	if err != nil {
		return nil, errors.Wrap(err, "grammar")
	}
	n, ok := res.Get()
	if !ok {
		return nil, errors.Errorf("input does not match %s", start)
	}
	if rem := res.Rem(); rem != "" {
		return nil, errors.Errorf("unconsumed input at offset %d: %s", len(input)-len(rem), excerpt(rem))
	}
	fillSpans(n, input)
	return n, nil
}

func excerpt(s string) string {
	const max = 20
	if len(s) > max {
		return strconv.Quote(s[:max]) + "..."
	}
	return strconv.Quote(s)
}

func (c *compiler) expr(x xebnf.Expression, lexical bool) (parsec.Parsec[[]*Node], error) {
	switch x := x.(type) {
	case nil:
		return parsec.Pure[[]*Node](nil), nil

	case xebnf.Alternative:
		alts, err := c.exprs(x, lexical)
		if err != nil {
			return nil, err
		}
		return parsec.Alt(alts...), nil

	case xebnf.Sequence:
		seq, err := c.exprs(x, lexical)
		if err != nil {
			return nil, err
		}
		return parsec.Map(parsec.Seq(seq...), flatten), nil

	case *xebnf.Group:
		return c.expr(x.Body, lexical)

	case *xebnf.Option:
		body, err := c.expr(x.Body, lexical)
		if err != nil {
			return nil, err
		}
		return parsec.Map(parsec.Optional(body), func(o parsec.Option[[]*Node]) []*Node { return o.Or(nil) }), nil

	case *xebnf.Repetition:
		body, err := c.expr(x.Body, lexical)
		if err != nil {
			return nil, err
		}
		return parsec.Map(parsec.Many0(body), flatten), nil

	case *xebnf.Token:
		tok := node(strconv.Quote(x.String), parsec.Value(parsec.Str(x.String), []*Node(nil)))
		return c.spaced(one(tok), lexical), nil

	case *xebnf.Range:
		lo, hi, err := bounds(x)
		if err != nil {
			return nil, err
		}
		in := parsec.Satisfy(func(r rune) bool { return r >= lo && r <= hi })
		rng := node(fmt.Sprintf("%q…%q", lo, hi), parsec.Value(in, []*Node(nil)))
		return c.spaced(one(rng), lexical), nil

	case *xebnf.Name:
		rule, ok := c.rules[x.String]
		if !ok {
			return nil, errors.Errorf("%s: undefined production %s", x.Pos(), x.String)
		}
		ref := one(rule.Parsec())
		if isLexical(x.String) {
			return c.spaced(ref, lexical), nil
		}
		return ref, nil

	case *xebnf.Bad:
		return nil, errors.Errorf("%s: %s", x.Pos(), x.Error)
	}
	return nil, errors.Errorf("unsupported expression %T", x)
}

func (c *compiler) exprs(xs []xebnf.Expression, lexical bool) ([]parsec.Parsec[[]*Node], error) {
	ps := make([]parsec.Parsec[[]*Node], len(xs))
	for i, x := range xs {
		p, err := c.expr(x, lexical)
		if err != nil {
			return nil, err
		}
		ps[i] = p
	}
	return ps, nil
}

// spaced lets white space precede a token used from a non-lexical production.
func (c *compiler) spaced(p parsec.Parsec[[]*Node], lexical bool) parsec.Parsec[[]*Node] {
	if lexical || !c.cfg.SkipSpace {
		return p
	}
	return parsec.Preceded(c.ws, p)
}

func bounds(r *xebnf.Range) (rune, rune, error) {
	lo, n := utf8.DecodeRuneInString(r.Begin.String)
	if n == 0 || n != len(r.Begin.String) {
		return 0, 0, errors.Errorf("%s: range start %q is not one character", r.Pos(), r.Begin.String)
	}
	hi, n := utf8.DecodeRuneInString(r.End.String)
	if n == 0 || n != len(r.End.String) {
		return 0, 0, errors.Errorf("%s: range end %q is not one character", r.Pos(), r.End.String)
	}
	if lo > hi {
		return 0, 0, errors.Errorf("%s: empty range %q…%q", r.Pos(), lo, hi)
	}
	return lo, hi, nil
}

// node wraps the children matched by p into a Node. Offsets are filled in by Parse.
func node(kind string, p parsec.Parsec[[]*Node]) parsec.Parsec[*Node] {
	return func(in string) parsec.PResult[*Node] {
		res := p(in)
		kids, ok := res.Get()
		if !ok {
			return parsec.Failure[*Node](in)
		}
		rem := res.Rem()
		return parsec.Success(&Node{
			Kind:     kind,
			Text:     in[:len(in)-len(rem)],
			Children: kids,
			tail:     len(rem),
		}, rem)
	}
}

func one(p parsec.Parsec[*Node]) parsec.Parsec[[]*Node] {
	return parsec.Map(p, func(n *Node) []*Node { return []*Node{n} })
}

func flatten(parts [][]*Node) []*Node {
	var out []*Node
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func isLexical(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(ch)
}
