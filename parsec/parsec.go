// Package parsec is a mini parser combinator library.
// Parsers are plain functions from a string to a PResult. They are built bottom-up from the primitives
// in this file and the combinators in the rest of the package, and nothing runs until the root parser is
// called on a complete input. Recursive grammars go through Later, see lazy.go.
//
// Input is always the whole text. A parser never copies it: the remainder it reports is a suffix of
// the string it was given, so the consumed span is always in[:len(in)-len(rem)].
package parsec

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Parsec is a basic parser function. It takes an input and returns a PResult.
// Calling a Parsec twice on the same input yields the same result.
type Parsec[T any] func(in string) PResult[T]

// Predicate is a function that takes a rune and reports whether it satisfies some condition.
type Predicate func(r rune) bool

// Recognizer is the untyped view of a parser, for positions whose value is thrown away:
// lookahead stops and the discarded parts of First and Last.
type Recognizer interface {
	Recognize(in string) (rem string, ok bool)
}

// Recognize runs p and drops its value.
func (p Parsec[T]) Recognize(in string) (string, bool) {
	res := p(in)
	return res.rem, res.ok
}

// PResult is the outcome of one parser call. `rem` is the input left after the match.
// If the parser fails, `rem` is the input it was given, unchanged.
// The value is only reachable through Get, together with the success flag.
type PResult[T any] struct {
	val T
	rem string
	ok  bool
}

// Success builds a successful result. rem must be a suffix of the parser's input.
func Success[T any](v T, rem string) PResult[T] {
	return PResult[T]{val: v, rem: rem, ok: true}
}

// Failure builds a failed result that leaves in unconsumed.
func Failure[T any](in string) PResult[T] {
	return PResult[T]{rem: in}
}

// Ok reports whether the parser matched.
func (r PResult[T]) Ok() bool {
	return r.ok
}

// Rem returns the unconsumed remainder.
func (r PResult[T]) Rem() string {
	return r.rem
}

// Get returns the matched value. The zero value and false are returned on failure.
func (r PResult[T]) Get() (T, bool) {
	if !r.ok {
		var zero T
		return zero, false
	}
	return r.val, true
}

func (r PResult[T]) String() string {
	if !r.ok {
		return fmt.Sprintf("failed, rem %q", r.rem)
	}
	return fmt.Sprintf("ok %v, rem %q", r.val, r.rem)
}

// ParsecErr is the error carried by a binding failure: a Later parser used before Init,
// or initialized twice. It is never used for a parser that simply does not match.
type ParsecErr struct {
	context string
	inner   error
}

func (e *ParsecErr) Error() string {
	return fmt.Sprintf("parsec: %s: %s", e.context, e.inner)
}

func (e *ParsecErr) Unwrap() error {
	return e.inner
}

var (
	ErrUnbound   = errors.New("parser used before initializing")
	ErrRebound   = errors.New("parser initialized twice")
	ErrNilParser = errors.New("nil parser")
)

// IsBindingErr reports whether err comes from a misused Later parser.
func IsBindingErr(err error) bool {
	return errors.Is(err, ErrUnbound) || errors.Is(err, ErrRebound) || errors.Is(err, ErrNilParser)
}

// SIMPLE PARSERS

// Str matches the literal s at the start of the input, byte for byte. No case folding, no escapes.
func Str(s string) Parsec[string] {
	return func(in string) PResult[string] {
		if strings.HasPrefix(in, s) {
			return Success(s, in[len(s):])
		}
		return Failure[string](in)
	}
}

// Satisfy matches one rune for which f returns true.
func Satisfy(f Predicate) Parsec[rune] {
	return func(in string) PResult[rune] {
		if in == "" {
			return Failure[rune](in)
		}
		r, w := utf8.DecodeRuneInString(in)
		if !f(r) {
			return Failure[rune](in)
		}
		return Success(r, in[w:])
	}
}

// AnyChar matches any single rune. It fails only on empty input.
func AnyChar() Parsec[rune] {
	return Satisfy(func(rune) bool { return true })
}

// Tag is the simplest parser, it checks if a rune matches the next rune in the input.
func Tag(r rune) Parsec[rune] {
	return Satisfy(func(c rune) bool { return c == r })
}

// OneOf returns a parser which checks if the next rune is one of the runes in set
func OneOf(set string) Parsec[rune] {
	return Satisfy(func(r rune) bool { return strings.ContainsRune(set, r) })
}

// NoneOf is the complement of OneOf. It still needs a rune to succeed.
func NoneOf(set string) Parsec[rune] {
	return Satisfy(func(r rune) bool { return !strings.ContainsRune(set, r) })
}

// Digit matches a decimal digit (0-9).
func Digit() Parsec[rune] {
	return Satisfy(isDigit)
}

// Letter matches a unicode letter.
func Letter() Parsec[rune] {
	return Satisfy(unicode.IsLetter)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// REPETITIONS OF RUNES

// TakeWhile keeps eating runes while f returns true and returns them as a string.
// It must take at least one rune to succeed. Wrap it in OptStr for a zero-or-more version.
func TakeWhile(f Predicate) Parsec[string] {
	return func(in string) PResult[string] {
		n := 0
		for n < len(in) {
			r, w := utf8.DecodeRuneInString(in[n:])
			if !f(r) {
				break
			}
			n += w
		}
		if n == 0 {
			return Failure[string](in)
		}
		return Success(in[:n], in[n:])
	}
}

// TakeTill eats runes until f is satisfied. It must take at least one rune for it to be successful
func TakeTill(f Predicate) Parsec[string] {
	return TakeWhile(func(r rune) bool { return !f(r) })
}

// Space0 eats white space, possibly none. It never fails.
func Space0() Parsec[string] {
	return func(in string) PResult[string] {
		rest := strings.TrimLeftFunc(in, unicode.IsSpace)
		return Success(in[:len(in)-len(rest)], rest)
	}
}

// Take eats up `n` runes. if it doesnt get up to `n` runes, it fails.
func Take(n int) Parsec[string] {
	return func(in string) PResult[string] {
		end := 0
		for i := 0; i < n; i++ {
			if end >= len(in) {
				return Failure[string](in)
			}
			_, w := utf8.DecodeRuneInString(in[end:])
			end += w
		}
		return Success(in[:end], in[end:])
	}
}

// Number reads a contiguous run of decimal digits as an int. Numbers that overflow an int do not match.
func Number() Parsec[int] {
	digits := TakeWhile(isDigit)
	return func(in string) PResult[int] {
		res := digits(in)
		if !res.ok {
			return Failure[int](in)
		}
		n, err := strconv.Atoi(res.val)
		if err != nil {
			return Failure[int](in)
		}
		return Success(n, res.rem)
	}
}

// Eof matches the end of the input.
func Eof() Parsec[struct{}] {
	return func(in string) PResult[struct{}] {
		if in != "" {
			return Failure[struct{}](in)
		}
		return Success(struct{}{}, in)
	}
}

// Pure succeeds with v without consuming anything.
func Pure[T any](v T) Parsec[T] {
	return func(in string) PResult[T] {
		return Success(v, in)
	}
}
