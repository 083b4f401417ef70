package parsec

import (
	"fmt"
	"sync/atomic"
)

// Lazy is a forward-declared parser, the only way to build a grammar that refers to itself.
// It starts unbound; Init binds it once, after which its parser delegates to the bound one.
//
// All Init calls must return before any parse that can reach the Lazy begins.
type Lazy[T any] struct {
	name string
	p    atomic.Pointer[Parsec[T]]
}

// Later declares a rule to be defined afterwards. name only shows up in binding errors.
func Later[T any](name string) *Lazy[T] {
	return &Lazy[T]{name: name}
}

// Init binds the rule. Binding nil or binding twice panics with a *ParsecErr.
func (l *Lazy[T]) Init(p Parsec[T]) {
	if p == nil {
		panic(l.err(ErrNilParser))
	}
	if !l.p.CompareAndSwap(nil, &p) {
		panic(l.err(ErrRebound))
	}
}

// Bound reports whether Init has been called.
func (l *Lazy[T]) Bound() bool {
	return l.p.Load() != nil
}

// Parsec returns the delegating parser. It may be taken, and composed into other
// parsers, before Init; running it before Init panics with a *ParsecErr.
func (l *Lazy[T]) Parsec() Parsec[T] {
	return func(in string) PResult[T] {
		p := l.p.Load()
		if p == nil {
			panic(l.err(ErrUnbound))
		}
		return (*p)(in)
	}
}

func (l *Lazy[T]) err(inner error) *ParsecErr {
	name := l.name
	if name == "" {
		name = "anonymous"
	}
	return &ParsecErr{context: fmt.Sprintf("rule %q", name), inner: inner}
}

// Parse is the top-level call. The error is non-nil only for binding errors, i.e. a
// malformed grammar; a parser that does not match reports it through the result.
// Any other panic is left alone.
func Parse[T any](p Parsec[T], in string) (res PResult[T], err error) {
	defer func() {
		if x := recover(); x != nil {
			perr, ok := x.(*ParsecErr)
			if !ok {
				panic(x)
			}
			res, err = Failure[T](in), perr
		}
	}()
	return p(in), nil
}
