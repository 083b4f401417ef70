package formats

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/bencode"
)

type peer struct {
	ID      string `benc:"peer id"`
	IP      string `benc:"ip"`
	Port    uint16 `benc:"port"`
	Seed    bool   `benc:"seed,omitempty"`
	ignored int
	Skipped string `benc:"-"`
}

func TestEncode(t *testing.T) {
	testCases := []struct {
		name string
		in   any
		out  string
	}{
		{"int", 42, "i42e"},
		{"negative", int8(-3), "i-3e"},
		{"uint", uint32(7), "i7e"},
		{"bool", true, "i1e"},
		{"string", "spam", "4:spam"},
		{"empty string", "", "0:"},
		{"bytes", []byte{'a', 0}, "2:a\x00"},
		{"byte array", [3]byte{'a', 'b', 'c'}, "3:abc"},
		{"list", []any{"a", 1, []int{2}}, "l1:ai1eli2eee"},
		{"sorted map", map[string]int{"b": 2, "a": 1}, "d1:ai1e1:bi2ee"},
		{"struct", peer{ID: "x", IP: "1.2.3.4", Port: 6881}, "d2:ip7:1.2.3.47:peer id1:x4:porti6881ee"},
		{"pointer", &peer{ID: "x", Seed: true}, "d2:ip0:7:peer id1:x4:porti0e4:seedi1ee"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewBencoder(&buf).Encode(tc.in))
			assert.Equal(t, tc.out, buf.String())
		})
	}
}

func TestEncode_Unsupported(t *testing.T) {
	for _, v := range []any{nil, 1.5, map[int]string{1: "a"}, (*peer)(nil), []any{func() {}}} {
		_, err := Marshal(v)
		assert.Error(t, err, "%#v", v)
	}
}

func TestEncode_MatchesReferenceDecoder(t *testing.T) {
	in := map[string]any{
		"list": []any{"x", int64(-1)},
		"dict": map[string]any{"k": "v"},
		"num":  int64(99),
	}
	data, err := Marshal(in)
	require.NoError(t, err)

	var out any
	require.NoError(t, bencode.DecodeBytes(data, &out))
	assert.Equal(t, in, out)
}

func TestMarshalDecodeRoundTrip(t *testing.T) {
	p := peer{ID: "abc", IP: "::1", Port: 51413, Seed: true, Skipped: "dropped"}
	data, err := Marshal(p)
	require.NoError(t, err)

	var back peer
	require.NoError(t, Unmarshal(data, &back))
	p.Skipped = ""
	assert.Equal(t, p, back)
}

func TestUnmarshal(t *testing.T) {
	type file struct {
		Length int64    `benc:"length"`
		Path   []string `benc:"path"`
	}
	type doc struct {
		Files   []file            `benc:"files"`
		Meta    map[string]string `benc:"meta"`
		Hash    [4]byte           `benc:"hash"`
		Raw     []byte            `benc:"raw"`
		Any     any               `benc:"any"`
		Nested  *file             `benc:"nested"`
		Missing string            `benc:"missing"`
	}
	data := "d3:anyli1ee5:filesld6:lengthi10e4:pathl1:a1:beee4:hash4:abcd4:metad1:k1:ve6:nestedd6:lengthi1e4:pathlee3:raw2:xye"

	var d doc
	require.NoError(t, Unmarshal([]byte(data), &d))
	assert.Equal(t, []file{{10, []string{"a", "b"}}}, d.Files)
	assert.Equal(t, map[string]string{"k": "v"}, d.Meta)
	assert.Equal(t, [4]byte{'a', 'b', 'c', 'd'}, d.Hash)
	assert.Equal(t, []byte("xy"), d.Raw)
	assert.Equal(t, []any{int64(1)}, d.Any)
	require.NotNil(t, d.Nested)
	assert.Equal(t, int64(1), d.Nested.Length)
	assert.Empty(t, d.Missing)
}

func TestUnmarshal_Errors(t *testing.T) {
	var n int8
	assert.Error(t, Unmarshal([]byte("i300e"), &n))
	var u uint
	assert.Error(t, Unmarshal([]byte("i-1e"), &u))
	var s string
	assert.Error(t, Unmarshal([]byte("i1e"), &s))
	var l []int
	assert.Error(t, Unmarshal([]byte("l1:ae"), &l))
	var h [2]byte
	assert.Error(t, Unmarshal([]byte("3:abc"), &h))
	assert.Error(t, Unmarshal([]byte("i1e"), s))
	assert.Error(t, Unmarshal([]byte("i1"), &n))
}
