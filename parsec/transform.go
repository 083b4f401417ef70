package parsec

import "fmt"

// Map replaces the value of a successful match with f(value). Consumption is unchanged.
func Map[T, U any](p Parsec[T], f func(T) U) Parsec[U] {
	return func(in string) PResult[U] {
		res := p(in)
		if !res.ok {
			return Failure[U](in)
		}
		return Success(f(res.val), res.rem)
	}
}

// Map2 spreads the pair produced by Seq2 into f's arguments.
func Map2[A, B, U any](p Parsec[Tuple2[A, B]], f func(A, B) U) Parsec[U] {
	return Map(p, func(t Tuple2[A, B]) U { return f(t.V1, t.V2) })
}

func Map3[A, B, C, U any](p Parsec[Tuple3[A, B, C]], f func(A, B, C) U) Parsec[U] {
	return Map(p, func(t Tuple3[A, B, C]) U { return f(t.V1, t.V2, t.V3) })
}

func Map4[A, B, C, D, U any](p Parsec[Tuple4[A, B, C, D]], f func(A, B, C, D) U) Parsec[U] {
	return Map(p, func(t Tuple4[A, B, C, D]) U { return f(t.V1, t.V2, t.V3, t.V4) })
}

func Map5[A, B, C, D, E, U any](p Parsec[Tuple5[A, B, C, D, E]], f func(A, B, C, D, E) U) Parsec[U] {
	return Map(p, func(t Tuple5[A, B, C, D, E]) U { return f(t.V1, t.V2, t.V3, t.V4, t.V5) })
}

// Construct feeds the value to a constructor. A constructor error turns the match into a
// plain failure that consumes nothing; the error itself is dropped.
func Construct[T, U any](p Parsec[T], ctor func(T) (U, error)) Parsec[U] {
	return func(in string) PResult[U] {
		res := p(in)
		if !res.ok {
			return Failure[U](in)
		}
		v, err := ctor(res.val)
		if err != nil {
			return Failure[U](in)
		}
		return Success(v, res.rem)
	}
}

func Construct2[A, B, U any](p Parsec[Tuple2[A, B]], ctor func(A, B) (U, error)) Parsec[U] {
	return Construct(p, func(t Tuple2[A, B]) (U, error) { return ctor(t.V1, t.V2) })
}

func Construct3[A, B, C, U any](p Parsec[Tuple3[A, B, C]], ctor func(A, B, C) (U, error)) Parsec[U] {
	return Construct(p, func(t Tuple3[A, B, C]) (U, error) { return ctor(t.V1, t.V2, t.V3) })
}

func Construct4[A, B, C, D, U any](p Parsec[Tuple4[A, B, C, D]], ctor func(A, B, C, D) (U, error)) Parsec[U] {
	return Construct(p, func(t Tuple4[A, B, C, D]) (U, error) { return ctor(t.V1, t.V2, t.V3, t.V4) })
}

// AsRecord names the elements of a tuple, positionally. It panics when the number of
// fields does not match the tuple's arity, since that is a grammar construction bug.
func AsRecord[T Tuple](p Parsec[T], fields ...string) Parsec[Record] {
	var zero T
	if n := zero.Arity(); n != len(fields) {
		panic(fmt.Sprintf("parsec: AsRecord: %d fields for a tuple of %d", len(fields), n))
	}
	return Map(p, func(t T) Record {
		rec := make(Record, len(fields))
		for i, v := range t.Values() {
			rec[fields[i]] = v
		}
		return rec
	})
}

// Value replaces whatever p matched with v.
func Value[T, U any](p Parsec[T], v U) Parsec[U] {
	return Map(p, func(T) U { return v })
}

// Stringify turns p's value into its text form: runes and strings as they are,
// tuples and slices joined with no separator, anything else through fmt.
func Stringify[T any](p Parsec[T]) Parsec[string] {
	return Map(p, func(v T) string { return stringOf(v) })
}

// Spanned returns the input p consumed instead of its value.
func Spanned[T any](p Parsec[T]) Parsec[string] {
	return func(in string) PResult[string] {
		res := p(in)
		if !res.ok {
			return Failure[string](in)
		}
		return Success(in[:len(in)-len(res.rem)], res.rem)
	}
}

// Filter fails matches whose value does not pass keep.
func Filter[T any](p Parsec[T], keep func(T) bool) Parsec[T] {
	return func(in string) PResult[T] {
		res := p(in)
		if !res.ok || !keep(res.val) {
			return Failure[T](in)
		}
		return res
	}
}

// Bind picks the next parser from the value just matched, for context sensitive
// formats such as length-prefixed strings. Failure of either step consumes nothing.
func Bind[T, U any](p Parsec[T], next func(T) Parsec[U]) Parsec[U] {
	return func(in string) PResult[U] {
		res := p(in)
		if !res.ok {
			return Failure[U](in)
		}
		out := next(res.val)(res.rem)
		if !out.ok {
			return Failure[U](in)
		}
		return out
	}
}
