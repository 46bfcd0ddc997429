package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// convert runs the command on input and returns stdout and stderr.
func convert(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, strings.NewReader(input), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestConvert(t *testing.T) {
	f := func(name, input, expected string, args ...string) {
		t.Helper()
		t.Run(name, func(t *testing.T) {
			out, _, err := convert(t, input, args...)
			require.NoError(t, err)
			assert.Equal(t, expected, out)
		})
	}

	f("text", " a   b #c\n  d", " a   b #c\n  d")
	f("strip", " a   b #c\n  d", "a b\nd", "--strip")
	f("base64", "a b #c\n d", "Base64|77u/YSBiICNjCiBk|\n", "--to", "base64")
	f("from_base64", "Base64|77u/YSBiICNjCiBk|\n", "a b #c\n d", "--from", "base64")
	f("binary", "a b\n-", "BWSV1\x07a\x07b\x01\x03", "--to", "binary")
	f("binary_no_preamble", "a", "\x07a", "--to", "binary", "--no-preamble")
	f("legacy", "a b\n-", "BW1a\xfeb\xff\xfd", "--to", "binary", "--legacy")
	f("from_binary", "BWSV1\x07a\x07b\x01\x03", "a b\n-", "--from", "binary")
	f("from_legacy", "BW1a\xfeb\xff\xfd", "a b\n-", "--from", "binary")
	f("from_bare_binary", "\x07a", "a", "--from", "binary", "--no-preamble")
	f("encoding", "a", "\xfe\xff\x00a", "--encoding", "utf16")
	f("json", "a -\n\nb", "[\n  [\n    \"a\",\n    null\n  ],\n  [],\n  [\n    \"b\"\n  ]\n]\n", "--to", "json")
}

func TestConvertCBOR(t *testing.T) {
	out, _, err := convert(t, "a - \"\"\nb", "--to", "cbor")
	require.NoError(t, err)

	var rows [][]*string
	require.NoError(t, cbor.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	require.Len(t, rows[0], 3)
	assert.Equal(t, "a", *rows[0][0])
	assert.Nil(t, rows[0][1])
	assert.Equal(t, "", *rows[0][2])
	assert.Equal(t, "b", *rows[1][0])
}

func TestConvertFiles(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wsv")
	out := filepath.Join(dir, "out.bin")
	require.NoError(t, os.WriteFile(in, []byte("x \"y z\"\n"), 0o644))

	stdout, _, err := convert(t, "", "--to", "binary", "-o", out, in)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "BWSV1\x07x\x0By z\x01", string(b))

	stdout, _, err = convert(t, "", "--from", "binary", out)
	require.NoError(t, err)
	assert.Equal(t, "x \"y z\"\n", stdout)
}

func TestConvertErrors(t *testing.T) {
	f := func(name, input, msg string, args ...string) {
		t.Helper()
		t.Run(name, func(t *testing.T) {
			_, _, err := convert(t, input, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), msg)
		})
	}

	f("unknown_from", "a", `unknown input format "xml"`, "--from", "xml")
	f("unknown_to", "a", `unknown output format "yaml"`, "--to", "yaml")
	f("unknown_encoding", "a", `unknown encoding "latin1"`, "--encoding", "latin1")
	f("legacy_no_preamble", "a", "--legacy cannot be combined with --no-preamble", "--legacy", "--no-preamble", "--to", "binary")
	f("parse_error", "a\n\"b", "-: string not closed (2, 3)")
	f("binary_preamble", "a b", "missing or wrong binary wsv preamble", "--from", "binary")
	f("base64", "TWFu", "invalid base64 string", "--from", "base64")
	f("missing_file", "", "no such file", filepath.Join(t.TempDir(), "missing.wsv"))
	f("extra_argument", "", "unexpected argument: b", "a", "b")
	f("unknown_flag", "", "unknown flag: --bogus", "--bogus")
}

func TestVersionAndHelp(t *testing.T) {
	out, _, err := convert(t, "", "--version")
	require.NoError(t, err)
	assert.Equal(t, "wsv "+version+"\n", out)

	out, stderr, err := convert(t, "", "--help")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "Usage: wsv [flags] [file]")
	assert.Contains(t, stderr, "--no-preamble")
}

func TestVerbose(t *testing.T) {
	_, stderr, err := convert(t, "a b\nc", "--verbose", "--to", "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "msg=\"parsed document\" lines=2 encoding=utf-8")
	assert.Contains(t, stderr, "msg=\"wrote output\" format=json")

	_, stderr, err = convert(t, "a b\nc")
	require.NoError(t, err)
	assert.Empty(t, stderr)
}
