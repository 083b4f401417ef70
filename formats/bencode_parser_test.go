package formats

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/bencode"
)

func TestBencInt(t *testing.T) {
	testCases := []struct {
		input string
		num   int64
		rem   string
	}{
		{"i224evs", 224, "vs"},
		{"i0e", 0, ""},
		{"i-42e", -42, ""},
		{"i9223372036854775807e", 9223372036854775807, ""},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			res := BencInt()(tc.input)
			n, ok := res.Get()
			require.True(t, ok)
			assert.Equal(t, tc.num, n)
			assert.Equal(t, tc.rem, res.Rem())
		})
	}

	for _, bad := range []string{"i-0e", "i03e", "i-03e", "ie", "i12", "12e", "i9223372036854775808e"} {
		res := BencInt()(bad)
		assert.False(t, res.Ok(), bad)
		assert.Equal(t, bad, res.Rem(), bad)
	}
}

func TestBencStr(t *testing.T) {
	res := BencStr()("4:spamxyz")
	s, ok := res.Get()
	require.True(t, ok)
	assert.Equal(t, "spam", s)
	assert.Equal(t, "xyz", res.Rem())

	s, ok = BencStr()("0:").Get()
	require.True(t, ok)
	assert.Equal(t, "", s)

	// lengths count bytes: "é" is two bytes
	s, ok = BencStr()("2:é").Get()
	require.True(t, ok)
	assert.Equal(t, "é", s)

	assert.False(t, BencStr()("5:spam").Ok())
	assert.False(t, BencStr()("04:spam").Ok(), "leading zero in length")
	assert.False(t, BencStr()("00:").Ok(), "leading zero in length")
	assert.False(t, BencStr()("spam").Ok())
}

func TestBencList(t *testing.T) {
	res := BencList(bencValue)("l4:spami42eli1eeee")
	l, ok := res.Get()
	require.True(t, ok)
	assert.Equal(t, []any{"spam", int64(42), []any{int64(1)}}, l)
	assert.Equal(t, "e", res.Rem())

	l, ok = BencList(bencValue)("le").Get()
	require.True(t, ok)
	assert.Empty(t, l)
}

func TestBenDict(t *testing.T) {
	res := BenDict(bencValue)("d3:cow3:moo4:spaml1:a1:bee")
	d, ok := res.Get()
	require.True(t, ok)
	want := map[string]any{"cow": "moo", "spam": []any{"a", "b"}}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Errorf("dict mismatch (-want +got):\n%s", diff)
	}

	assert.False(t, BenDict(bencValue)("d1:ai1e1:ai2ee").Ok(), "duplicate keys")
	assert.False(t, BenDict(bencValue)("di1e1:ae").Ok(), "non-string key")
}

func TestDecode(t *testing.T) {
	v, err := Decode([]byte("d4:listli1ei2ee3:str5:hello3:numi-7ee"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"list": []any{int64(1), int64(2)},
		"str":  "hello",
		"num":  int64(-7),
	}, v)

	_, err = Decode([]byte("i1ei2e"))
	assert.True(t, errors.Is(err, ErrTrailing))

	for _, bad := range []string{"", "x", "l", "d1:ae", "li1e", "3:ab"} {
		_, err = DecodeString(bad)
		assert.True(t, errors.Is(err, ErrMalformed), "%q: %v", bad, err)
	}
}

func TestDecode_MatchesReferenceEncoder(t *testing.T) {
	values := []any{
		int64(0),
		int64(-123456789),
		"",
		"with\x00binary\xffbytes",
		[]any{},
		[]any{"a", int64(1), []any{"nested"}},
		map[string]any{},
		map[string]any{
			"announce": "http://tracker.example/announce",
			"info": map[string]any{
				"name":         "file.txt",
				"piece length": int64(262144),
				"pieces":       string(make([]byte, 40)),
			},
		},
	}
	for _, want := range values {
		data, err := bencode.EncodeBytes(want)
		require.NoError(t, err)

		got, err := Decode(data)
		require.NoError(t, err, "%q", data)
		assert.Equal(t, want, got)
	}
}
