// SPDX-License-Identifier: MIT
// Copyright (c) 2026, Digital Hand LLC.

package launch

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// DefaultPassthrough names the variables a debugger keeps from the parent
// environment when the entries replace it. A name ending in "_" matches every
// variable with that prefix.
var DefaultPassthrough = []string{
	"PATH", "HOME", "USER", "LOGNAME", "SHELL", "TERM", "TMPDIR", "LANG", "LC_", "XDG_",
	"GOROOT", "GOPATH", "GOCACHE", "GOMODCACHE", "GOPROXY", "GOFLAGS", "GOTOOLCHAIN",
	"SYSTEMROOT", "SYSTEMDRIVE", "USERPROFILE", "APPDATA", "LOCALAPPDATA", "TEMP", "TMP", "COMSPEC", "PATHEXT",
}

// ExecTarget launches a debugger command as a child process.
type ExecTarget struct {
	info *LaunchInfo

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Inherited is the environment layered under the entries when they do
	// not replace it. Nil means os.Environ().
	Inherited []string

	// Passthrough selects the inherited variables the debugger keeps when the
	// entries replace the environment. The debugger needs PATH and HOME to
	// build or locate the program; dlv and gdb hand the same environment to
	// the debugged process. Nil means DefaultPassthrough, empty means none.
	Passthrough []string
}

// NewExecTarget returns a target that runs program with args, wired to the
// current process's standard streams.
func NewExecTarget(program string, args ...string) *ExecTarget {
	return &ExecTarget{
		info: &LaunchInfo{
			Program: program,
			Args:    append([]string(nil), args...),
		},
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// LaunchInfo returns a copy of the current launch configuration.
func (t *ExecTarget) LaunchInfo() (*LaunchInfo, error) {
	if t == nil || t.info == nil || t.info.Program == "" {
		return nil, ErrNoTarget
	}
	return t.info.Clone(), nil
}

// SetLaunchInfo installs info as the launch configuration.
func (t *ExecTarget) SetLaunchInfo(info *LaunchInfo) error {
	if t == nil {
		return ErrNoTarget
	}
	if info == nil {
		return fmt.Errorf("launch info is nil")
	}
	t.info = info.Clone()
	return nil
}

// Command builds the exec.Cmd for the configured launch.
func (t *ExecTarget) Command(ctx context.Context) (*exec.Cmd, error) {
	info, err := t.LaunchInfo()
	if err != nil {
		return nil, err
	}

	inherited := t.Inherited
	if inherited == nil {
		inherited = os.Environ()
	}

	c := exec.CommandContext(ctx, info.Program, info.Args...)
	c.Dir = info.WorkingDir
	c.Env = info.Environ(inherited)
	if info.ReplacesEnvironment() {
		names := t.Passthrough
		if names == nil {
			names = DefaultPassthrough
		}
		c.Env = mergeEnv(FilterEnv(inherited, names), c.Env)
	}
	c.Stdin = t.Stdin
	c.Stdout = t.Stdout
	c.Stderr = t.Stderr
	return c, nil
}

// Run starts the command and waits for it to exit.
func (t *ExecTarget) Run(ctx context.Context) error {
	c, err := t.Command(ctx)
	if err != nil {
		return err
	}
	if err := c.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", c.Path, err)
	}
	return nil
}

// FilterEnv returns the entries of env whose names are listed in names.
func FilterEnv(env, names []string) []string {
	out := make([]string, 0, len(names))
	for _, item := range env {
		if passes(entryName(item), names) {
			out = append(out, item)
		}
	}
	return out
}

func passes(name string, names []string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
		if strings.HasSuffix(n, "_") && strings.HasPrefix(name, n) {
			return true
		}
	}
	return false
}
