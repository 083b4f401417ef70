package parsec

import (
	"fmt"
	"reflect"
	"strings"
)

// Tuple is implemented by the values of the SeqN parsers. Its static type is what tells
// MapN to spread a value into positional arguments.
type Tuple interface {
	Arity() int
	Values() []any
}

type Tuple2[A, B any] struct {
	V1 A
	V2 B
}

func (Tuple2[A, B]) Arity() int      { return 2 }
func (t Tuple2[A, B]) Values() []any { return []any{t.V1, t.V2} }

type Tuple3[A, B, C any] struct {
	V1 A
	V2 B
	V3 C
}

func (Tuple3[A, B, C]) Arity() int      { return 3 }
func (t Tuple3[A, B, C]) Values() []any { return []any{t.V1, t.V2, t.V3} }

type Tuple4[A, B, C, D any] struct {
	V1 A
	V2 B
	V3 C
	V4 D
}

func (Tuple4[A, B, C, D]) Arity() int      { return 4 }
func (t Tuple4[A, B, C, D]) Values() []any { return []any{t.V1, t.V2, t.V3, t.V4} }

type Tuple5[A, B, C, D, E any] struct {
	V1 A
	V2 B
	V3 C
	V4 D
	V5 E
}

func (Tuple5[A, B, C, D, E]) Arity() int      { return 5 }
func (t Tuple5[A, B, C, D, E]) Values() []any { return []any{t.V1, t.V2, t.V3, t.V4, t.V5} }

// Option is what Optional yields: either a value or the absence marker.
type Option[T any] struct {
	val T
	ok  bool
}

func Some[T any](v T) Option[T] {
	return Option[T]{val: v, ok: true}
}

func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.val, o.ok
}

func (o Option[T]) IsSome() bool {
	return o.ok
}

// Or returns the value, or def when absent.
func (o Option[T]) Or(def T) T {
	if !o.ok {
		return def
	}
	return o.val
}

// String is empty when the option is absent.
func (o Option[T]) String() string {
	if !o.ok {
		return ""
	}
	return stringOf(o.val)
}

// Record is a tuple projected onto field names by AsRecord.
type Record map[string]any

// stringOf gives the text form used by Stringify, Concat and OptStr.
// Runes become their UTF-8 text; tuples and slices are joined with no separator.
// rune is int32, so int32 values are read as runes too.
func stringOf(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case rune:
		return string(v)
	case []rune:
		return string(v)
	case []byte:
		return string(v)
	case []string:
		return strings.Join(v, "")
	case Tuple:
		return joinValues(v.Values())
	case fmt.Stringer:
		return v.String()
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		parts := make([]any, rv.Len())
		for i := range parts {
			parts[i] = rv.Index(i).Interface()
		}
		return joinValues(parts)
	}
	return fmt.Sprint(v)
}

func joinValues(vs []any) string {
	var sb strings.Builder
	for _, v := range vs {
		sb.WriteString(stringOf(v))
	}
	return sb.String()
}
