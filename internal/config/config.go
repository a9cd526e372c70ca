// SPDX-License-Identifier: MIT
// Copyright (c) 2026, Digital Hand LLC.

// Package config loads the optional per-project .dbgenv.yaml file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"

	"github.com/digitalhand/dbgenv/internal/envfile"
)

// FileName is the config file searched for from the working directory up.
const FileName = ".dbgenv.yaml"

// File is the on-disk config schema. Relative paths are resolved against the
// directory holding the config file.
type File struct {
	// EnvFile is an explicit env file path; it disables the upward search.
	EnvFile string `yaml:"envFile"`
	// EnvName is the file name searched for when EnvFile is empty.
	EnvName string `yaml:"envName"`
	Format  string `yaml:"format"`
	// Append layers variables over the debugger's environment instead of
	// replacing it.
	Append bool `yaml:"append"`
	// Debugger is the default command for `dbgenv run`.
	Debugger []string `yaml:"debugger"`

	LLDB struct {
		Output  string   `yaml:"output"`
		Program string   `yaml:"program"`
		Args    []string `yaml:"args"`
	} `yaml:"lldb"`

	// Path is where the file was loaded from; empty for defaults.
	Path string `yaml:"-"`
}

// Default returns the built-in settings.
func Default() *File {
	return &File{
		EnvName: envfile.DefaultName,
		Format:  string(envfile.FormatDotenv),
	}
}

// Load reads the config at path on top of Default.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if _, err := envfile.ParseFormat(cfg.Format); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg.Path = abs
	cfg.EnvFile = resolve(filepath.Dir(abs), cfg.EnvFile)
	cfg.LLDB.Output = resolve(filepath.Dir(abs), cfg.LLDB.Output)
	if cfg.EnvName == "" {
		cfg.EnvName = envfile.DefaultName
	}
	return cfg, nil
}

// Discover searches upward from dir for FileName. It returns Default when
// no config exists.
func Discover(dir string) (*File, error) {
	path, err := envfile.Find(dir, FileName)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Marshal renders cfg as YAML.
func Marshal(cfg *File) ([]byte, error) {
	var b bytes.Buffer
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// Template is the starter config written by `dbgenv config init`.
const Template = `# dbgenv project settings
# Paths are relative to this file.

# envFile: config/dev.env
envName: .env
format: dotenv # dotenv or envparse
append: false

# Default command for "dbgenv run" when none is given after "--".
# debugger: ["dlv", "debug", "./cmd/app"]

lldb:
  # output: .lldbinit-env
  # program: ./target/debug/app
  # args: ["--verbose"]
`
