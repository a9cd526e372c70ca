// SPDX-License-Identifier: MIT
// Copyright (c) 2026, Digital Hand LLC.

// Package injector installs the variables of an env file as the launch
// environment of a debug target.
//
// An injection is a single linear pass: locate the env file, parse it,
// format each variable as NAME=VALUE and replace the target's environment
// entries with the result. Nothing is cached between calls, so running it
// before every launch picks up edits to the file.
package injector

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/digitalhand/dbgenv/internal/envfile"
	"github.com/digitalhand/dbgenv/internal/launch"
)

// Entries formats env as NAME=VALUE strings in mapping order.
func Entries(env *envfile.Env) []string {
	out := make([]string, 0, env.Len())
	env.Range(func(name, value string) bool {
		out = append(out, name+"="+value)
		return true
	})
	return out
}

// Install replaces the environment entries of t's launch configuration with
// entries. replace controls whether the entries are the whole environment
// or are layered over the inherited one.
func Install(t launch.Target, entries []string, replace bool) error {
	if t == nil {
		return launch.ErrNoTarget
	}
	info, err := t.LaunchInfo()
	if err != nil {
		return fmt.Errorf("failed to get launch info: %w", err)
	}
	if info == nil {
		return fmt.Errorf("target returned no launch info: %w", launch.ErrNoTarget)
	}
	info.SetEnvironmentEntries(entries, replace)
	if err := t.SetLaunchInfo(info); err != nil {
		return fmt.Errorf("failed to set launch info: %w", err)
	}
	return nil
}

// Result describes one injection.
type Result struct {
	// Path is the env file that was read, or "" when none was found.
	Path       string
	Entries    []string
	Duplicates []string
	Replace    bool
}

// Injector runs the locate, parse, format and install pipeline.
type Injector struct {
	// Locate finds the env file. Nil means no file.
	Locate envfile.Locator
	Format envfile.Format
	// Append layers the entries over the inherited environment instead of
	// replacing it.
	Append bool
	Logger zerolog.Logger
}

// New returns an Injector that searches upward from dir for name.
func New(dir, name string) *Injector {
	return &Injector{
		Locate: envfile.SearchUpward(dir, name),
		Format: envfile.FormatDotenv,
		Logger: zerolog.Nop(),
	}
}

// Inject installs the env file's variables into t.
func (in *Injector) Inject(t launch.Target) (*Result, error) {
	path, env, err := envfile.Load(in.Locate, in.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	if path == "" {
		in.Logger.Debug().Msg("no env file found, installing empty environment")
	} else {
		in.Logger.Debug().Str("path", path).Int("count", env.Len()).Msg("loaded env file")
	}

	dups := env.Duplicates()
	if len(dups) > 0 {
		in.Logger.Warn().Str("path", path).Strs("names", dups).Msg("duplicate variables, last value wins")
	}

	res := &Result{
		Path:       path,
		Entries:    Entries(env),
		Duplicates: dups,
		Replace:    !in.Append,
	}
	if err := Install(t, res.Entries, res.Replace); err != nil {
		return nil, err
	}

	in.Logger.Debug().Int("count", len(res.Entries)).Bool("replace", res.Replace).Msg("installed launch environment")
	return res, nil
}
