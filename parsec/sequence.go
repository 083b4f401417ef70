package parsec

import "strings"

// Alt tries each parser in order against the same input and returns the first success as is.
// If all of them fail, so does Alt, leaving the input untouched.
func Alt[T any](ps ...Parsec[T]) Parsec[T] {
	return func(in string) PResult[T] {
		for _, p := range ps {
			if res := p(in); res.ok {
				return res
			}
		}
		return Failure[T](in)
	}
}

// Seq runs the parsers one after the other, each on the remainder of the previous one,
// and collects their values. A failure anywhere fails the whole sequence with the
// original input as remainder: sequences do not report partial consumption.
func Seq[T any](ps ...Parsec[T]) Parsec[[]T] {
	return func(in string) PResult[[]T] {
		vals := make([]T, 0, len(ps))
		rem := in
		for _, p := range ps {
			res := p(rem)
			if !res.ok {
				return Failure[[]T](in)
			}
			vals = append(vals, res.val)
			rem = res.rem
		}
		return Success(vals, rem)
	}
}

func Seq2[A, B any](a Parsec[A], b Parsec[B]) Parsec[Tuple2[A, B]] {
	return func(in string) PResult[Tuple2[A, B]] {
		ra := a(in)
		if !ra.ok {
			return Failure[Tuple2[A, B]](in)
		}
		rb := b(ra.rem)
		if !rb.ok {
			return Failure[Tuple2[A, B]](in)
		}
		return Success(Tuple2[A, B]{ra.val, rb.val}, rb.rem)
	}
}

func Seq3[A, B, C any](a Parsec[A], b Parsec[B], c Parsec[C]) Parsec[Tuple3[A, B, C]] {
	ab := Seq2(a, b)
	return func(in string) PResult[Tuple3[A, B, C]] {
		rab := ab(in)
		if !rab.ok {
			return Failure[Tuple3[A, B, C]](in)
		}
		rc := c(rab.rem)
		if !rc.ok {
			return Failure[Tuple3[A, B, C]](in)
		}
		return Success(Tuple3[A, B, C]{rab.val.V1, rab.val.V2, rc.val}, rc.rem)
	}
}

func Seq4[A, B, C, D any](a Parsec[A], b Parsec[B], c Parsec[C], d Parsec[D]) Parsec[Tuple4[A, B, C, D]] {
	abc := Seq3(a, b, c)
	return func(in string) PResult[Tuple4[A, B, C, D]] {
		rabc := abc(in)
		if !rabc.ok {
			return Failure[Tuple4[A, B, C, D]](in)
		}
		rd := d(rabc.rem)
		if !rd.ok {
			return Failure[Tuple4[A, B, C, D]](in)
		}
		t := rabc.val
		return Success(Tuple4[A, B, C, D]{t.V1, t.V2, t.V3, rd.val}, rd.rem)
	}
}

func Seq5[A, B, C, D, E any](a Parsec[A], b Parsec[B], c Parsec[C], d Parsec[D], e Parsec[E]) Parsec[Tuple5[A, B, C, D, E]] {
	abcd := Seq4(a, b, c, d)
	return func(in string) PResult[Tuple5[A, B, C, D, E]] {
		rabcd := abcd(in)
		if !rabcd.ok {
			return Failure[Tuple5[A, B, C, D, E]](in)
		}
		re := e(rabcd.rem)
		if !re.ok {
			return Failure[Tuple5[A, B, C, D, E]](in)
		}
		t := rabcd.val
		return Success(Tuple5[A, B, C, D, E]{t.V1, t.V2, t.V3, t.V4, re.val}, re.rem)
	}
}

// Terminated asks if p is followed immediately by post, and keeps p's value.
func Terminated[T, U any](p Parsec[T], post Parsec[U]) Parsec[T] {
	return Map2(Seq2(p, post), func(v T, _ U) T { return v })
}

// Preceded is like Terminated, only reversed: pre must come first, and p's value is kept.
func Preceded[T, U any](pre Parsec[T], p Parsec[U]) Parsec[U] {
	return Map2(Seq2(pre, p), func(_ T, v U) U { return v })
}

// Between keeps the middle value of a delimited construct, e.g. parentheses or quotes.
func Between[L, M, R any](left Parsec[L], middle Parsec[M], right Parsec[R]) Parsec[M] {
	return Map3(Seq3(left, middle, right), func(_ L, v M, _ R) M { return v })
}

// First runs p and then each of rest, keeping only p's value.
func First[T any](p Parsec[T], rest ...Recognizer) Parsec[T] {
	return func(in string) PResult[T] {
		res := p(in)
		if !res.ok {
			return Failure[T](in)
		}
		rem, ok := recognizeAll(res.rem, rest)
		if !ok {
			return Failure[T](in)
		}
		return Success(res.val, rem)
	}
}

// Last runs each of leading and then p, keeping only p's value.
func Last[T any](leading []Recognizer, p Parsec[T]) Parsec[T] {
	return func(in string) PResult[T] {
		rem, ok := recognizeAll(in, leading)
		if !ok {
			return Failure[T](in)
		}
		res := p(rem)
		if !res.ok {
			return Failure[T](in)
		}
		return res
	}
}

// Skip bundles parsers whose values are not needed, for use with First and Last.
func Skip(rs ...Recognizer) []Recognizer {
	return rs
}

func recognizeAll(in string, rs []Recognizer) (string, bool) {
	rem := in
	for _, r := range rs {
		next, ok := r.Recognize(rem)
		if !ok {
			return in, false
		}
		rem = next
	}
	return rem, true
}

// Concat is Seq over string parsers, joined into one string.
// Use Stringify to bring other parsers to strings first.
func Concat(ps ...Parsec[string]) Parsec[string] {
	return Map(Seq(ps...), func(parts []string) string { return strings.Join(parts, "") })
}
