package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/bencode"
	"gopkg.in/yaml.v3"

	"github.com/OLUWAMUYIWA/combinators/ebnf"
)

const listGrammar = `
List = "[" [ Item { "," Item } ] "]" .
Item = word | List .
word = letter { letter } .
letter = "a" … "z" .
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(newDriver())
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestEbnfCheck(t *testing.T) {
	dir := t.TempDir()
	grammar := writeFile(t, dir, "list.ebnf", listGrammar)

	out, _, err := run(t, "ebnf", "check", grammar, "--start", "List")
	require.NoError(t, err)
	assert.Equal(t, "Item\nList\nletter\nword\n", out)

	bad := writeFile(t, dir, "bad.ebnf", `List = "[" Missing "]" .`)
	_, errOut, err := run(t, "ebnf", "check", bad, "--start", "List")
	require.Error(t, err)
	assert.Equal(t, 1, strings.Count(errOut, "Missing"), errOut)
	// the details go to stderr once; the returned error only summarizes
	assert.NotContains(t, err.Error(), "Missing")
	assert.Contains(t, err.Error(), "bad.ebnf")

	broken := writeFile(t, dir, "broken.ebnf", `List = "[" .  Item = .  = "x" .`)
	_, _, err = run(t, "ebnf", "parse", broken, grammar, "--start", "List")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.ebnf")
}

func TestEbnfParse(t *testing.T) {
	dir := t.TempDir()
	grammar := writeFile(t, dir, "list.ebnf", listGrammar)
	input := writeFile(t, dir, "in.txt", "[ab, [c], []]\n")

	out, _, err := run(t, "ebnf", "parse", grammar, input, "--start", "List", "--skip-space")
	require.NoError(t, err)

	var tree ebnf.Node
	require.NoError(t, yaml.Unmarshal([]byte(out), &tree))
	assert.Equal(t, "List", tree.Kind)
	assert.Equal(t, "[ab, [c], []]", tree.Text)
	assert.Equal(t, ebnf.Span{Start: 0, End: 13}, tree.Span)
	assert.Len(t, tree.Find("word"), 2)

	_, _, err = run(t, "ebnf", "parse", grammar, input, "--start", "List")
	assert.ErrorContains(t, err, "input does not match List")

	tight := writeFile(t, dir, "tight.txt", "[ab,[c]]\n")
	_, _, err = run(t, "ebnf", "parse", grammar, tight, "--start", "List")
	assert.ErrorContains(t, err, "unconsumed input at offset 8")

	_, _, err = run(t, "ebnf", "parse", grammar, input)
	assert.ErrorContains(t, err, "no start production")
}

func TestEbnfParse_Config(t *testing.T) {
	dir := t.TempDir()
	grammar := writeFile(t, dir, "list.ebnf", listGrammar)
	input := writeFile(t, dir, "in.txt", " [ x ] ")
	cfg := writeFile(t, dir, "config.yaml", `
format: json
ebnf:
  start: List
  skipSpace: true
`)

	out, _, err := run(t, "--config", cfg, "ebnf", "parse", grammar, input)
	require.NoError(t, err)

	var tree ebnf.Node
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	assert.Equal(t, "[ x ]", tree.Text)
	assert.Equal(t, ebnf.Span{Start: 1, End: 6}, tree.Span)

	// flags override the file
	_, _, err = run(t, "--config", cfg, "ebnf", "parse", grammar, input, "--skip-space=false")
	assert.Error(t, err)
}

func TestBencodeDecode(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.benc", "d4:spaml1:a1:bee")
	b := writeFile(t, dir, "b.benc", "i42e")

	out, _, err := run(t, "bencode", "decode", a, "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"spam": ["a", "b"]}`, out)

	out, _, err = run(t, "bencode", "decode", a, b)
	require.NoError(t, err)
	var both map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &both))
	assert.Equal(t, map[string]any{"spam": []any{"a", "b"}}, both[a])
	assert.Equal(t, 42, both[b])

	bad := writeFile(t, dir, "bad.benc", "i42")
	_, _, err = run(t, "bencode", "decode", a, bad)
	assert.ErrorContains(t, err, "bad.benc")

	_, _, err = run(t, "bencode", "decode", a, "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestTorrentInfo(t *testing.T) {
	data, err := bencode.EncodeBytes(map[string]any{
		"announce": "http://tracker.example/announce",
		"info": map[string]any{
			"name":         "album",
			"piece length": int64(16384),
			"pieces":       strings.Repeat("x", 40),
			"files": []any{
				map[string]any{"length": int64(100), "path": []any{"cd1", "01.flac"}},
			},
		},
	})
	require.NoError(t, err)
	path := writeFile(t, t.TempDir(), "album.torrent", string(data))

	out, _, err := run(t, "torrent", "info", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Announce: http://tracker.example/announce")
	assert.Contains(t, out, "Name: album\nSize: 100\nPiece Length: 16384\nPieces: 2\n")
	assert.Contains(t, out, "  cd1/01.flac (100)\n")
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)

	dir := t.TempDir()
	_, err = loadConfig(writeFile(t, dir, "bad.yaml", "format: [json"))
	assert.Error(t, err)

	_, err = loadConfig(writeFile(t, dir, "xml.yaml", "format: xml"))
	assert.ErrorContains(t, err, "unknown format")

	cfg, err = loadConfig(writeFile(t, dir, "ok.yaml", "verbosity: 2\nebnf:\n  skipSpace: true\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Verbosity)
	assert.Equal(t, "yaml", cfg.Format)
	assert.True(t, cfg.Ebnf.SkipSpace)
}
