package formats

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/OLUWAMUYIWA/combinators/parsec"
)

// Bencode, as a grammar:
//
//	value  := int | string | list | dict
//	int    := 'i' ('0' | '-'? [1-9] [0-9]*) 'e'
//	string := length ':' <length bytes>
//	list   := 'l' value* 'e'
//	dict   := 'd' (string value)* 'e'
//
// Decoded values are int64, string, []any and map[string]any.

var (
	ErrMalformed = errors.New("malformed bencode")
	ErrTrailing  = errors.New("trailing data after bencode value")
)

// bencValue is built once and shared; every parse reuses it.
var bencValue = BencValue()

// BencInt matches an integer. Leading zeros and "-0" are rejected, as are values
// that do not fit an int64.
func BencInt() parsec.Parsec[int64] {
	digits := parsec.Spanned(parsec.Seq2(parsec.Optional(parsec.Tag('-')), parsec.Many1(parsec.Digit())))
	num := parsec.Construct(digits, func(s string) (int64, error) {
		if s == "-0" || (len(s) > 1 && s[0] == '0') || (len(s) > 2 && s[:2] == "-0") {
			return 0, errors.Errorf("non-canonical integer %q", s)
		}
		return strconv.ParseInt(s, 10, 64)
	})
	return parsec.Between(parsec.Tag('i'), num, parsec.Tag('e'))
}

// BencStr matches a length-prefixed byte string. The length counts bytes, not runes,
// and like integers it may not have leading zeros.
func BencStr() parsec.Parsec[string] {
	return parsec.Bind(parsec.Terminated(bencLen(), parsec.Tag(':')), takeBytes)
}

func bencLen() parsec.Parsec[int] {
	return parsec.Construct(parsec.Spanned(parsec.Number()), func(s string) (int, error) {
		if len(s) > 1 && s[0] == '0' {
			return 0, errors.Errorf("non-canonical length %q", s)
		}
		return strconv.Atoi(s)
	})
}

func takeBytes(n int) parsec.Parsec[string] {
	return func(in string) parsec.PResult[string] {
		if n > len(in) {
			return parsec.Failure[string](in)
		}
		return parsec.Success(in[:n], in[n:])
	}
}

// BencList matches a list of values.
func BencList(value parsec.Parsec[any]) parsec.Parsec[[]any] {
	return parsec.Between(parsec.Tag('l'), parsec.Many0(value), parsec.Tag('e'))
}

// BenDict matches a dictionary. A key may appear only once.
func BenDict(value parsec.Parsec[any]) parsec.Parsec[map[string]any] {
	entries := parsec.Many0(parsec.Seq2(BencStr(), value))
	dict := parsec.Construct(entries, func(kvs []parsec.Tuple2[string, any]) (map[string]any, error) {
		m := make(map[string]any, len(kvs))
		for _, kv := range kvs {
			if _, dup := m[kv.V1]; dup {
				return nil, errors.Errorf("duplicate key %q", kv.V1)
			}
			m[kv.V1] = kv.V2
		}
		return m, nil
	})
	return parsec.Between(parsec.Tag('d'), dict, parsec.Tag('e'))
}

// BencValue builds the full recursive grammar.
func BencValue() parsec.Parsec[any] {
	value := parsec.Later[any]("bencode value")
	v := value.Parsec()
	value.Init(parsec.Alt(
		anyOf(BencInt()),
		anyOf(BencStr()),
		anyOf(BencList(v)),
		anyOf(BenDict(v)),
	))
	return v
}

func anyOf[T any](p parsec.Parsec[T]) parsec.Parsec[any] {
	return parsec.Map(p, func(v T) any { return v })
}

// Decode parses exactly one bencoded value.
func Decode(data []byte) (any, error) {
	return DecodeString(string(data))
}

func DecodeString(data string) (any, error) {
	res, err := parsec.Parse(bencValue, data)
	if err != nil {
		return nil, errors.Wrap(err, "bencode grammar")
	}
	v, ok := res.Get()
	if !ok {
		return nil, ErrMalformed
	}
	if rem := res.Rem(); rem != "" {
		return nil, errors.Wrapf(ErrTrailing, "%d bytes left", len(rem))
	}
	return v, nil
}
