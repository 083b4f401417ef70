package parsec

// The loops below stop at the first failure, at the end of the input, or at the first
// iteration that succeeds without consuming anything. That last case would otherwise
// loop forever (e.g. an Optional directly inside Many0); the empty match is not collected.

// loop applies p while it makes progress and stop, if any, does not match.
func (p Parsec[T]) loop(in string, stop Recognizer) ([]T, string) {
	vals := make([]T, 0)
	rem := in
	for rem != "" {
		if stop != nil {
			if _, hit := stop.Recognize(rem); hit {
				break
			}
		}
		res := p(rem)
		if !res.ok || len(res.rem) >= len(rem) {
			break
		}
		vals = append(vals, res.val)
		rem = res.rem
	}
	return vals, rem
}

// Many0 will take as many reps of a parser as it can, even zero. It never fails.
func Many0[T any](p Parsec[T]) Parsec[[]T] {
	return func(in string) PResult[[]T] {
		vals, rem := p.loop(in, nil)
		return Success(vals, rem)
	}
}

// Many1 is like Many0, but must pass at least once.
func Many1[T any](p Parsec[T]) Parsec[[]T] {
	return func(in string) PResult[[]T] {
		vals, rem := p.loop(in, nil)
		if len(vals) == 0 {
			return Failure[[]T](in)
		}
		return Success(vals, rem)
	}
}

// Until repeats p until stop matches. stop is only looked at, never consumed, so the
// remainder starts with whatever stop matched. At least one element is needed.
func Until[T any](p Parsec[T], stop Recognizer) Parsec[[]T] {
	return func(in string) PResult[[]T] {
		vals, rem := p.loop(in, stop)
		if len(vals) == 0 {
			return Failure[[]T](in)
		}
		return Success(vals, rem)
	}
}

// Count applies the parser exactly n times; if it fails before the n'th time, Count fails too.
// A negative n never matches.
func Count[T any](p Parsec[T], n int) Parsec[[]T] {
	return func(in string) PResult[[]T] {
		if n < 0 {
			return Failure[[]T](in)
		}
		vals := make([]T, 0, n)
		rem := in
		for i := 0; i < n; i++ {
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

// SepBy1 matches one or more p separated by sep. A trailing separator is left unconsumed.
func SepBy1[T any](p Parsec[T], sep Recognizer) Parsec[[]T] {
	return func(in string) PResult[[]T] {
		first := p(in)
		if !first.ok {
			return Failure[[]T](in)
		}
		vals := []T{first.val}
		rem := first.rem
		for {
			next, ok := sep.Recognize(rem)
			if !ok {
				break
			}
			res := p(next)
			if !res.ok || len(res.rem) >= len(rem) {
				break
			}
			vals = append(vals, res.val)
			rem = res.rem
		}
		return Success(vals, rem)
	}
}

// SepBy0 is SepBy1 that also accepts nothing at all.
func SepBy0[T any](p Parsec[T], sep Recognizer) Parsec[[]T] {
	return Alt(SepBy1(p, sep), Pure([]T{}))
}

// StrUntil is Until with the elements joined into one string.
func StrUntil[T any](p Parsec[T], stop Recognizer) Parsec[string] {
	return Stringify(Until(p, stop))
}

// Optional always succeeds. When p fails, the value is None and nothing is consumed.
func Optional[T any](p Parsec[T]) Parsec[Option[T]] {
	return func(in string) PResult[Option[T]] {
		if res := p(in); res.ok {
			return Success(Some(res.val), res.rem)
		}
		return Success(None[T](), in)
	}
}

// OptStr is Optional for callers that always want a string: "" when p fails,
// p's value in text form otherwise.
func OptStr[T any](p Parsec[T]) Parsec[string] {
	return func(in string) PResult[string] {
		if res := p(in); res.ok {
			return Success(stringOf(res.val), res.rem)
		}
		return Success("", in)
	}
}

// FoldMany0 folds the values of Many0 into an accumulator instead of collecting them.
func FoldMany0[T, A any](p Parsec[T], init func() A, acc func(A, T) A) Parsec[A] {
	return func(in string) PResult[A] {
		vals, rem := p.loop(in, nil)
		res := init()
		for _, v := range vals {
			res = acc(res, v)
		}
		return Success(res, rem)
	}
}

// FoldMany1 is FoldMany0 that needs at least one match.
func FoldMany1[T, A any](p Parsec[T], init func() A, acc func(A, T) A) Parsec[A] {
	many := FoldMany0(p, init, acc)
	return func(in string) PResult[A] {
		res := many(in)
		if len(res.rem) == len(in) {
			return Failure[A](in)
		}
		return res
	}
}

// Peek runs p as lookahead: its value is returned but nothing is consumed.
func Peek[T any](p Parsec[T]) Parsec[T] {
	return func(in string) PResult[T] {
		res := p(in)
		if !res.ok {
			return Failure[T](in)
		}
		return Success(res.val, in)
	}
}

// Not succeeds, consuming nothing, exactly when r does not match.
func Not(r Recognizer) Parsec[struct{}] {
	return func(in string) PResult[struct{}] {
		if _, ok := r.Recognize(in); ok {
			return Failure[struct{}](in)
		}
		return Success(struct{}{}, in)
	}
}
