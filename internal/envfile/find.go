// SPDX-License-Identifier: MIT
// Copyright (c) 2026, Digital Hand LLC.

package envfile

import (
	"errors"
	"os"
	"path/filepath"
)

// DefaultName is the file name searched for when none is configured.
const DefaultName = ".env"

// Locator returns the path of the env file to read, or "" when there is none.
type Locator func() (string, error)

// Find walks from start up to the filesystem root and returns the first
// regular file called name. It returns "" and a nil error when no such file
// exists.
func Find(start, name string) (string, error) {
	if name == "" {
		name = DefaultName
	}
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		start = wd
	}

	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, name)
		st, err := os.Stat(candidate)
		switch {
		case err == nil && !st.IsDir():
			return candidate, nil
		case err != nil && !errors.Is(err, os.ErrNotExist):
			return "", err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// SearchUpward returns a Locator that runs Find from start.
func SearchUpward(start, name string) Locator {
	return func() (string, error) {
		return Find(start, name)
	}
}

// Path returns a Locator for a fixed path.
func Path(p string) Locator {
	return func() (string, error) {
		return p, nil
	}
}

// Load locates the env file and parses it. A Locator that finds nothing
// yields an empty Env and an empty path.
func Load(loc Locator, f Format) (string, *Env, error) {
	if loc == nil {
		return "", New(), nil
	}
	path, err := loc()
	if err != nil {
		return "", nil, err
	}
	env, err := Read(path, f)
	if err != nil {
		return path, nil, err
	}
	return path, env, nil
}
