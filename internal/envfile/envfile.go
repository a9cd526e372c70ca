// SPDX-License-Identifier: MIT
// Copyright (c) 2026, Digital Hand LLC.

// Package envfile locates and parses .env style files into an ordered
// name/value mapping.
package envfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/hashicorp/go-envparse"
	"github.com/joho/godotenv"
)

// ErrInvalidName is returned when a parsed variable name is empty or
// contains '=' or whitespace.
var ErrInvalidName = errors.New("invalid variable name")

// Format selects the parser used for an env file.
type Format string

const (
	// FormatDotenv follows the common dotenv dialect: comments, export
	// prefixes, quoting and ${VAR} expansion.
	FormatDotenv Format = "dotenv"
	// FormatEnvparse is the stricter shell-like dialect.
	FormatEnvparse Format = "envparse"
)

// ParseFormat maps a user supplied name to a Format. Empty selects dotenv.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FormatDotenv):
		return FormatDotenv, nil
	case string(FormatEnvparse):
		return FormatEnvparse, nil
	default:
		return "", fmt.Errorf("unknown env file format %q (allowed: dotenv, envparse)", s)
	}
}

// Env is an ordered mapping of variable names to values. Names keep the
// position of their first appearance; a later assignment replaces the value.
type Env struct {
	keys   []string
	values map[string]string
	dups   []string
}

// New returns an empty Env.
func New() *Env {
	return &Env{values: map[string]string{}}
}

// Set assigns value to name. A name that is already present keeps its
// position and is recorded as a duplicate.
func (e *Env) Set(name, value string) {
	if _, ok := e.values[name]; ok {
		if !contains(e.dups, name) {
			e.dups = append(e.dups, name)
		}
	} else {
		e.keys = append(e.keys, name)
	}
	e.values[name] = value
}

// Get returns the value for name.
func (e *Env) Get(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	v, ok := e.values[name]
	return v, ok
}

// Keys returns the names in order.
func (e *Env) Keys() []string {
	if e == nil {
		return nil
	}
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}

// Len returns the number of distinct names.
func (e *Env) Len() int {
	if e == nil {
		return 0
	}
	return len(e.keys)
}

// Duplicates returns the names that were assigned more than once.
func (e *Env) Duplicates() []string {
	if e == nil {
		return nil
	}
	out := make([]string, len(e.dups))
	copy(out, e.dups)
	return out
}

// Range calls fn for every entry in order until fn returns false.
func (e *Env) Range(fn func(name, value string) bool) {
	if e == nil {
		return
	}
	for _, k := range e.keys {
		if !fn(k, e.values[k]) {
			return
		}
	}
}

// Read parses the file at path. An empty path or a missing file yields an
// empty Env.
func Read(path string, f Format) (*Env, error) {
	if path == "" {
		return New(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, err
	}
	env, err := parseBytes(data, f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return env, nil
}

// Parse reads r to the end and parses it with the given format.
func Parse(r io.Reader, f Format) (*Env, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parseBytes(data, f)
}

func parseBytes(data []byte, f Format) (*Env, error) {
	var (
		values map[string]string
		err    error
	)
	switch f {
	case "", FormatDotenv:
		values, err = godotenv.UnmarshalBytes(data)
	case FormatEnvparse:
		values, err = envparse.Parse(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unknown env file format %q", f)
	}
	if err != nil {
		return nil, err
	}

	for name := range values {
		if !validName(name) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}

	env := New()
	for _, name := range scanNames(data) {
		if v, ok := values[name]; ok {
			env.Set(name, v)
		}
	}

	// Names the line scan missed go last, sorted.
	var rest []string
	for name := range values {
		if _, ok := env.values[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		env.Set(name, values[name])
	}
	return env, nil
}

// scanNames returns the assigned names in file order, repeating names that
// are assigned more than once. Lines inside an open quoted value are part of
// that value and never assign a name.
func scanNames(data []byte) []string {
	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), len(data)+1)

	var open byte
	for scanner.Scan() {
		raw := scanner.Text()
		if open != 0 {
			if closingQuote(raw, open) >= 0 {
				open = 0
			}
			continue
		}

		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}

		end := strings.IndexAny(line, "=:")
		if end <= 0 {
			continue
		}
		names = append(names, strings.TrimSpace(line[:end]))

		value := strings.TrimSpace(line[end+1:])
		if value != "" && (value[0] == '"' || value[0] == '\'') {
			if closingQuote(value[1:], value[0]) < 0 {
				open = value[0]
			}
		}
	}
	return names
}

// closingQuote returns the index of the first unescaped q in s, or -1.
func closingQuote(s string, q byte) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case q:
			return i
		}
	}
	return -1
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	return strings.IndexFunc(name, func(r rune) bool {
		return r == '=' || unicode.IsSpace(r)
	}) < 0
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
