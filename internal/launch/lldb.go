// SPDX-License-Identifier: MIT
// Copyright (c) 2026, Digital Hand LLC.

package launch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrLineBreak is returned when a value destined for an LLDB script contains
// a line break. LLDB reads one command per line and has no escape that
// restores a newline inside a quoted argument.
var ErrLineBreak = errors.New("value contains a line break")

// ScriptTarget renders its launch configuration as an LLDB command script,
// meant to be loaded with `command source` or `lldb -s`.
type ScriptTarget struct {
	info *LaunchInfo

	// Header lines are written as comments at the top of the script.
	Header []string
}

// NewScriptTarget returns a script target. program may be empty, in which
// case the script only adjusts settings for whatever target LLDB has.
func NewScriptTarget(program string, args ...string) *ScriptTarget {
	return &ScriptTarget{
		info: &LaunchInfo{
			Program: program,
			Args:    append([]string(nil), args...),
		},
	}
}

// LaunchInfo returns a copy of the current launch configuration.
func (t *ScriptTarget) LaunchInfo() (*LaunchInfo, error) {
	if t == nil || t.info == nil {
		return nil, ErrNoTarget
	}
	return t.info.Clone(), nil
}

// SetLaunchInfo installs info as the launch configuration.
func (t *ScriptTarget) SetLaunchInfo(info *LaunchInfo) error {
	if t == nil {
		return ErrNoTarget
	}
	if info == nil {
		return fmt.Errorf("launch info is nil")
	}
	t.info = info.Clone()
	return nil
}

// WriteTo writes the LLDB commands for the launch configuration. It writes
// nothing and returns ErrLineBreak if any value spans lines.
func (t *ScriptTarget) WriteTo(w io.Writer) (int64, error) {
	info, err := t.LaunchInfo()
	if err != nil {
		return 0, err
	}
	if err := checkSingleLine(info); err != nil {
		return 0, err
	}

	var b bytes.Buffer
	for _, h := range t.Header {
		b.WriteString("# ")
		b.WriteString(h)
		b.WriteString("\n")
	}

	if info.Program != "" {
		fmt.Fprintf(&b, "target create %s\n", lldbQuote(info.Program))
	}
	if len(info.Args) > 0 {
		b.WriteString("settings set target.run-args")
		writeQuoted(&b, info.Args)
		b.WriteString("\n")
	}
	if info.WorkingDir != "" {
		fmt.Fprintf(&b, "platform settings -w %s\n", lldbQuote(info.WorkingDir))
	}

	fmt.Fprintf(&b, "settings set target.inherit-env %s\n", strconv.FormatBool(!info.ReplacesEnvironment()))
	b.WriteString("settings clear target.env-vars\n")
	if entries := info.EnvironmentEntries(); len(entries) > 0 {
		b.WriteString("settings set target.env-vars")
		writeQuoted(&b, entries)
		b.WriteString("\n")
	}

	return b.WriteTo(w)
}

func writeQuoted(b *bytes.Buffer, items []string) {
	for _, item := range items {
		b.WriteString(" ")
		b.WriteString(lldbQuote(item))
	}
}

func checkSingleLine(info *LaunchInfo) error {
	values := append([]string{info.Program, info.WorkingDir}, info.Args...)
	for _, v := range values {
		if strings.ContainsAny(v, "\r\n") {
			return fmt.Errorf("%w: %q", ErrLineBreak, v)
		}
	}
	for _, entry := range info.EnvironmentEntries() {
		if strings.ContainsAny(entry, "\r\n") {
			return fmt.Errorf("%w: variable %s", ErrLineBreak, entryName(entry))
		}
	}
	return nil
}

var lldbEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`")

// lldbQuote wraps s in double quotes using LLDB's argument escaping.
func lldbQuote(s string) string {
	return `"` + lldbEscaper.Replace(s) + `"`
}
