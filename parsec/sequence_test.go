package parsec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlt(t *testing.T) {
	p := Alt(Str("a"), Str("ab"))
	v := checkOk(t, p("ab"), "b")
	assert.Equal(t, "a", v, "earliest alternative wins")

	kw := Alt(Str("let"), Str("var"), Str("const"))
	for in, rem := range map[string]string{"let x": " x", "var y": " y", "const z": " z"} {
		checkOk(t, kw(in), rem)
	}
	checkFail(t, kw("func"), "func")
	checkFail(t, Alt[string]()("x"), "x")
}

func TestAlt_RetriesOnOriginalInput(t *testing.T) {
	// the first alternative consumes "ab" before failing; the second must still see "abd"
	p := Alt(Concat(Str("ab"), Str("c")), Concat(Str("a"), Str("bd")))
	v := checkOk(t, p("abd!"), "!")
	assert.Equal(t, "abd", v)
}

func TestSeq(t *testing.T) {
	p := Seq(Str("a"), Str("b"), Str("c"))
	v := checkOk(t, p("abcd"), "d")
	assert.Equal(t, []string{"a", "b", "c"}, v)

	for _, in := range []string{"", "x", "ax", "abx"} {
		checkFail(t, p(in), in)
	}

	v = checkOk(t, Seq[string]()("abc"), "abc")
	assert.Empty(t, v)
}

func TestSeqN(t *testing.T) {
	two := checkOk(t, Seq2(Letter(), Number())("x12;"), ";")
	assert.Equal(t, Tuple2[rune, int]{'x', 12}, two)

	three := checkOk(t, Seq3(Tag('('), AnyChar(), Tag(')'))("(x)y"), "y")
	assert.Equal(t, 'x', three.V2)

	four := checkOk(t, Seq4(Str("a"), Str("b"), Str("c"), Str("d"))("abcde"), "e")
	assert.Equal(t, []any{"a", "b", "c", "d"}, four.Values())

	five := checkOk(t, Seq5(Digit(), Digit(), Digit(), Digit(), Digit())("12345"), "")
	assert.Equal(t, 5, five.Arity())

	// every position of a sequence can break it, and never with partial consumption
	p := Seq4(Str("a"), Str("b"), Str("c"), Str("d"))
	for _, in := range []string{"xbcd", "axcd", "abxd", "abcx"} {
		checkFail(t, p(in), in)
	}
	q := Seq5(Str("a"), Str("b"), Str("c"), Str("d"), Str("e"))
	checkFail(t, q("abcdx"), "abcdx")
}

func TestSeq_ConsumedSpansConcatenate(t *testing.T) {
	in := "foo123bar"
	p := Seq3(TakeWhile(isLetterRune), TakeWhile(isDigit), TakeWhile(isLetterRune))
	v := checkOk(t, p(in), "")
	assert.Equal(t, in, v.V1+v.V2+v.V3)
}

func isLetterRune(r rune) bool {
	return r >= 'a' && r <= 'z'
}

func TestTerminatedPreceded(t *testing.T) {
	v := checkOk(t, Terminated(Str("match"), Str("post"))("matchpost!"), "!")
	assert.Equal(t, "match", v)
	checkFail(t, Terminated(Str("match"), Str("post"))("matchpre"), "matchpre")

	v = checkOk(t, Preceded(Str("pre"), Str("match"))("prematch!"), "!")
	assert.Equal(t, "match", v)
	checkFail(t, Preceded(Str("pre"), Str("match"))("prefix"), "prefix")
}

func TestBetween(t *testing.T) {
	quoted := Between(Tag('"'), TakeTill(func(r rune) bool { return r == '"' }), Tag('"'))
	v := checkOk(t, quoted(`"hello" rest`), " rest")
	assert.Equal(t, "hello", v)
	checkFail(t, quoted(`"unterminated`), `"unterminated`)
}

func TestFirstLast(t *testing.T) {
	stmt := First(Number(), Space0(), Tag(';'))
	n := checkOk(t, stmt("42 ;x"), "x")
	assert.Equal(t, 42, n)
	checkFail(t, stmt("42 x"), "42 x")
	checkFail(t, stmt("x;"), "x;")

	assign := Last(Skip(Str("x"), Space0(), Tag('='), Space0()), Number())
	n = checkOk(t, assign("x = 7;"), ";")
	assert.Equal(t, 7, n)
	checkFail(t, assign("x = y"), "x = y")
	checkFail(t, assign("y = 7"), "y = 7")
}

func TestConcat(t *testing.T) {
	p := Concat(Str("ab"), Stringify(Digit()), Stringify(xyPair()))
	v := checkOk(t, p("ab1xy!"), "!")
	assert.Equal(t, "ab1xy", v)
	checkFail(t, p("ab1x"), "ab1x")
}

func xyPair() Parsec[Tuple2[rune, string]] {
	return Seq2(Tag('x'), Str("y"))
}
