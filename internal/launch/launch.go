// SPDX-License-Identifier: MIT
// Copyright (c) 2026, Digital Hand LLC.

// Package launch models how a debugger starts the process under debug and
// the targets that own that configuration.
package launch

import (
	"errors"
	"strings"
)

// ErrNoTarget is returned when there is no debug target to configure.
var ErrNoTarget = errors.New("no debug target selected")

// Target is a debug target whose launch configuration can be read and
// replaced. Callers must not retain the LaunchInfo past a single
// read-modify-write.
type Target interface {
	LaunchInfo() (*LaunchInfo, error)
	SetLaunchInfo(info *LaunchInfo) error
}

// LaunchInfo describes how the next debugged process is started.
type LaunchInfo struct {
	Program    string
	Args       []string
	WorkingDir string

	env        []string
	replaceEnv bool
}

// SetEnvironmentEntries replaces the environment entries with a copy of
// entries. When replace is true the entries are the complete environment of
// the process; otherwise they are layered over the inherited environment.
func (li *LaunchInfo) SetEnvironmentEntries(entries []string, replace bool) {
	li.env = make([]string, len(entries))
	copy(li.env, entries)
	li.replaceEnv = replace
}

// EnvironmentEntries returns a copy of the configured entries.
func (li *LaunchInfo) EnvironmentEntries() []string {
	out := make([]string, len(li.env))
	copy(out, li.env)
	return out
}

// ReplacesEnvironment reports whether the entries replace the inherited
// environment.
func (li *LaunchInfo) ReplacesEnvironment() bool {
	return li.replaceEnv
}

// Environ resolves the environment the process will see. The result is
// never nil so an empty replacement clears the environment of an exec'd
// process instead of inheriting it.
func (li *LaunchInfo) Environ(inherited []string) []string {
	if li.replaceEnv {
		return li.EnvironmentEntries()
	}

	return mergeEnv(inherited, li.env)
}

// mergeEnv layers over on top of base. A name already in base keeps its
// position and takes the later value. The result is never nil.
func mergeEnv(base, over []string) []string {
	out := make([]string, 0, len(base)+len(over))
	index := map[string]int{}
	for _, list := range [][]string{base, over} {
		for _, item := range list {
			name := entryName(item)
			if i, ok := index[name]; ok {
				out[i] = item
				continue
			}
			index[name] = len(out)
			out = append(out, item)
		}
	}
	return out
}

// Clone returns a deep copy.
func (li *LaunchInfo) Clone() *LaunchInfo {
	out := *li
	out.Args = append([]string(nil), li.Args...)
	out.env = li.EnvironmentEntries()
	return &out
}

func entryName(entry string) string {
	name, _, _ := strings.Cut(entry, "=")
	return name
}
