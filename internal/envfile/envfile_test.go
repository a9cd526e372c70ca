// SPDX-License-Identifier: MIT
// Copyright (c) 2026, Digital Hand LLC.

package envfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRead_Basic(t *testing.T) {
	path := writeFile(t, t.TempDir(), "test.env", `# comment
export APP_ROOT="/home/user/app"
BROKER_ADDRESS=tcp://127.0.0.1:61616
export SHARE_DIR='/home/user/shares/'
LOG_DIR="/home/user/logs"

# another comment
`)

	env, err := Read(path, FormatDotenv)
	require.NoError(t, err)

	tests := map[string]string{
		"APP_ROOT":       "/home/user/app",
		"BROKER_ADDRESS": "tcp://127.0.0.1:61616",
		"SHARE_DIR":      "/home/user/shares/",
		"LOG_DIR":        "/home/user/logs",
	}
	for key, want := range tests {
		got, ok := env.Get(key)
		require.True(t, ok, "missing %s", key)
		require.Equal(t, want, got, key)
	}
	require.Equal(t, []string{"APP_ROOT", "BROKER_ADDRESS", "SHARE_DIR", "LOG_DIR"}, env.Keys())
}

func TestRead_EmptyLines(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.env", "\n\n\n")

	env, err := Read(path, FormatDotenv)
	require.NoError(t, err)
	require.Equal(t, 0, env.Len())
}

func TestRead_CommentsOnly(t *testing.T) {
	path := writeFile(t, t.TempDir(), "comments.env", "# just comments\n# nothing else\n")

	env, err := Read(path, FormatDotenv)
	require.NoError(t, err)
	require.Equal(t, 0, env.Len())
}

func TestRead_MissingFileIsEmpty(t *testing.T) {
	env, err := Read(filepath.Join(t.TempDir(), "nope.env"), FormatDotenv)
	require.NoError(t, err)
	require.Equal(t, 0, env.Len())

	env, err = Read("", FormatDotenv)
	require.NoError(t, err)
	require.Equal(t, 0, env.Len())
}

func TestRead_ValueWithEquals(t *testing.T) {
	path := writeFile(t, t.TempDir(), ".env", "URL=http://x?y=z\n")

	env, err := Read(path, FormatDotenv)
	require.NoError(t, err)
	got, _ := env.Get("URL")
	require.Equal(t, "http://x?y=z", got)
}

func TestRead_DuplicateLastWriteWins(t *testing.T) {
	path := writeFile(t, t.TempDir(), ".env", "A=1\nB=2\nA=3\n")

	env, err := Read(path, FormatDotenv)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B"}, env.Keys())
	got, _ := env.Get("A")
	require.Equal(t, "3", got)
	require.Equal(t, []string{"A"}, env.Duplicates())
}

func TestRead_Malformed(t *testing.T) {
	path := writeFile(t, t.TempDir(), ".env", "GOOD=1\nBAD-KEY=2\n")

	_, err := Read(path, FormatDotenv)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), path), "error should name the file: %v", err)
}

func TestRead_InvalidNameIsErrInvalidName(t *testing.T) {
	path := writeFile(t, t.TempDir(), ".env", "A B=1\n")

	_, err := Read(path, FormatDotenv)
	require.ErrorIs(t, err, ErrInvalidName)

	_, err = Parse(strings.NewReader("A B=1\n"), FormatDotenv)
	require.ErrorIs(t, err, ErrInvalidName)
}

func TestParse_MultilineQuotedValue(t *testing.T) {
	env, err := Parse(strings.NewReader("CERT=\"line1\nKEY=notakey\"\nKEY=real\n"), FormatDotenv)
	require.NoError(t, err)
	require.Empty(t, env.Duplicates())
	require.Equal(t, []string{"CERT", "KEY"}, env.Keys())
	key, _ := env.Get("KEY")
	require.Equal(t, "real", key)
	cert, _ := env.Get("CERT")
	require.Equal(t, "line1\nKEY=notakey", cert)
}

func TestParse_MultilineQuotedValueKeepsOrder(t *testing.T) {
	src := "A='x\n# not a comment\nC=in value'\nB=2\nC=3\n"
	env, err := Parse(strings.NewReader(src), FormatDotenv)
	require.NoError(t, err)
	require.Empty(t, env.Duplicates())
	require.Equal(t, []string{"A", "B", "C"}, env.Keys())
}

func TestScanNames_EscapedQuote(t *testing.T) {
	got := scanNames([]byte("A=\"say \\\"hi\\\"\"\nB=2\n"))
	require.Equal(t, []string{"A", "B"}, got)
}

func TestRead_DirectoryIsError(t *testing.T) {
	_, err := Read(t.TempDir(), FormatDotenv)
	require.Error(t, err)
}

func TestParse_Envparse(t *testing.T) {
	env, err := Parse(strings.NewReader("A=1\nB='two words'\n"), FormatEnvparse)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B"}, env.Keys())
	got, _ := env.Get("B")
	require.Equal(t, "two words", got)
}

func TestParse_EnvparseMissingSeparator(t *testing.T) {
	_, err := Parse(strings.NewReader("NOVALUE\n"), FormatEnvparse)
	require.Error(t, err)
}

func TestParse_UnknownFormat(t *testing.T) {
	_, err := Parse(strings.NewReader("A=1\n"), Format("toml"))
	require.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatDotenv, f)

	f, err = ParseFormat(" EnvParse ")
	require.NoError(t, err)
	require.Equal(t, FormatEnvparse, f)

	_, err = ParseFormat("ini")
	require.Error(t, err)
}

func TestValidName(t *testing.T) {
	require.True(t, validName("FOO_BAR"))
	require.True(t, validName("app.port"))
	require.False(t, validName(""))
	require.False(t, validName("A B"))
	require.False(t, validName("A=B"))
	require.False(t, validName("A\nB"))
}

func TestEnv_RangeStopsEarly(t *testing.T) {
	env := New()
	env.Set("A", "1")
	env.Set("B", "2")
	env.Set("C", "3")

	var seen []string
	env.Range(func(name, value string) bool {
		seen = append(seen, name)
		return name != "B"
	})
	require.Equal(t, []string{"A", "B"}, seen)
}

func TestEnv_NilSafe(t *testing.T) {
	var env *Env
	require.Equal(t, 0, env.Len())
	require.Nil(t, env.Keys())
	_, ok := env.Get("A")
	require.False(t, ok)
	env.Range(func(string, string) bool {
		t.Fatal("range on nil env should not call fn")
		return true
	})
}
