// SPDX-License-Identifier: MIT
// Copyright (c) 2026, Digital Hand LLC.

package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/digitalhand/dbgenv/internal/config"
	"github.com/digitalhand/dbgenv/internal/launch"
)

// resetFlags restores every flag to its default; cobra keeps values between
// Execute calls on the same command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		projectConfig = config.Default()
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func writeProjectFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEnvShow_Raw(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, ".env", "A=1\nURL=http://x?y=z\n")

	out, err := executeCmd(t, "env", "show", "--raw", "--dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	if out != "A=1\nURL=http://x?y=z\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestEnvFind(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "cmd", "app")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	want := writeProjectFile(t, dir, ".env", "A=1\n")

	out, err := executeCmd(t, "env", "find", "--dir", nested)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != want {
		t.Errorf("env find = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestEnvFind_NotFound(t *testing.T) {
	_, err := executeCmd(t, "env", "find", "--dir", t.TempDir(), "--env-name", "dbgenv-cmd-test-missing.env")
	if err == nil {
		t.Error("expected error when no env file exists")
	}
}

func TestRun_DryRunReplaces(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, ".env", "A=1\nB=two words\n")

	out, err := executeCmd(t, "run", "--dry-run", "--strict-env", "--dir", dir, "--", "dlv", "debug", "./cmd/app")
	if err != nil {
		t.Fatal(err)
	}
	want := `env -i A=1 "B=two words" dlv debug ./cmd/app`
	if strings.TrimSpace(out) != want {
		t.Errorf("dry run = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestRun_DryRunKeepsDebuggerVariables(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, ".env", "A=1\nB=two words\n")
	t.Setenv("PATH", "/opt/go/bin")
	t.Setenv("HOME", "/home/dev")
	t.Setenv("DBGENV_TEST_TOKEN", "secret")

	out, err := executeCmd(t, "run", "--dry-run", "--dir", dir, "--", "dlv", "debug", "./cmd/app")
	if err != nil {
		t.Fatal(err)
	}
	line := strings.TrimSpace(out)
	if !strings.HasPrefix(line, "env -i ") {
		t.Errorf("dry run should start with env -i: %q", line)
	}
	for _, want := range []string{" PATH=/opt/go/bin ", " HOME=/home/dev "} {
		if !strings.Contains(line, want) {
			t.Errorf("dry run missing %q: %q", want, line)
		}
	}
	if strings.Contains(line, "DBGENV_TEST_TOKEN") {
		t.Errorf("dry run leaked an unrelated variable: %q", line)
	}
	if !strings.HasSuffix(line, ` A=1 "B=two words" dlv debug ./cmd/app`) {
		t.Errorf("env file entries should come last: %q", line)
	}
}

func TestRun_VerbosePrintsCommand(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, ".env", "A=1\n")

	argv := []string{os.Args[0], "-test.run=^$"}
	out, err := executeCmd(t, append([]string{"run", "-v", "--dir", dir, "--"}, argv...)...)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "      "+formatCommand(argv)+"\n") {
		t.Errorf("expected the debugger command in the output:\n%s", out)
	}
}

func TestRun_DryRunAppendWithCwd(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, ".env", "A=1\n")

	out, err := executeCmd(t, "run", "--dry-run", "--append", "--cwd", "/src", "--dir", dir, "--", "gdb")
	if err != nil {
		t.Fatal(err)
	}
	want := "env -C /src A=1 gdb"
	if strings.TrimSpace(out) != want {
		t.Errorf("dry run = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestRun_MissingEnvFileStillReplaces(t *testing.T) {
	dir := t.TempDir()

	out, err := executeCmd(t, "run", "--dry-run", "--strict-env", "--dir", dir, "--env-name", "dbgenv-cmd-test-missing.env", "--", "dlv", "exec", "./app")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "env -i dlv exec ./app" {
		t.Errorf("unexpected dry run %q", out)
	}
}

func TestRun_NoCommand(t *testing.T) {
	_, err := executeCmd(t, "run", "--dir", t.TempDir())
	if err == nil {
		t.Error("expected error without a debugger command")
	}
}

func TestRun_ConfigDebugger(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, ".env", "A=1\n")
	writeProjectFile(t, dir, config.FileName, "debugger: [\"dlv\", \"exec\", \"./app\"]\nappend: true\n")

	out, err := executeCmd(t, "run", "--dry-run", "--dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "env A=1 dlv exec ./app" {
		t.Errorf("unexpected dry run %q", out)
	}
}

func TestRun_AppendFlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, ".env", "A=1\n")
	writeProjectFile(t, dir, config.FileName, "append: true\n")

	out, err := executeCmd(t, "run", "--dry-run", "--strict-env", "--append=false", "--dir", dir, "--", "gdb")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "env -i A=1 gdb" {
		t.Errorf("unexpected dry run %q", out)
	}
}

func TestRun_MalformedEnvFile(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, ".env", "BAD-KEY=1\n")

	_, err := executeCmd(t, "run", "--dry-run", "--dir", dir, "--", "dlv")
	if err == nil {
		t.Error("expected parse error to propagate")
	}
}

func TestRun_ExplicitEnvFileAndFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeProjectFile(t, dir, "dev.env", "A='x y'\n")

	out, err := executeCmd(t, "run", "--dry-run", "--strict-env", "--env-file", path, "--format", "envparse", "--dir", t.TempDir(), "--", "dlv")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != `env -i "A=x y" dlv` {
		t.Errorf("unexpected dry run %q", out)
	}
}

func TestRun_BadFormat(t *testing.T) {
	_, err := executeCmd(t, "run", "--dry-run", "--format", "ini", "--dir", t.TempDir(), "--", "dlv")
	if err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestLLDB_Stdout(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, ".env", "A=1\nURL=http://x?y=z\n")

	out, err := executeCmd(t, "lldb", "--dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"settings set target.inherit-env false\n",
		"settings clear target.env-vars\n",
		`settings set target.env-vars "A=1" "URL=http://x?y=z"` + "\n",
		"# source: " + filepath.Join(dir, ".env") + "\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("script missing %q:\n%s", want, out)
		}
	}
}

func TestLLDB_OutputFile(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, ".env", "A=1\n")
	output := filepath.Join(dir, "out", ".lldbinit-env")

	if _, err := executeCmd(t, "lldb", "--dir", dir, "-o", output, "--program", "./app", "--", "--port", "8080"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	script := string(data)
	if !strings.Contains(script, `target create "./app"`) {
		t.Errorf("script missing target create:\n%s", script)
	}
	if !strings.Contains(script, `settings set target.run-args "--port" "8080"`) {
		t.Errorf("script missing run-args:\n%s", script)
	}
}

func TestLLDB_MultilineValueFails(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, ".env", "A=1\nCERT=\"line1\nline2\"\n")
	output := filepath.Join(dir, ".lldbinit-env")

	_, err := executeCmd(t, "lldb", "--dir", dir, "-o", output)
	if !errors.Is(err, launch.ErrLineBreak) {
		t.Fatalf("expected ErrLineBreak, got %v", err)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Errorf("no script should be written, stat err = %v", err)
	}
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()

	if _, err := executeCmd(t, "config", "init", "--dir", dir); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(filepath.Join(dir, config.FileName)); err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}

	if _, err := executeCmd(t, "config", "init", "--dir", dir); err == nil {
		t.Error("expected error when config exists without --force")
	}
	if _, err := executeCmd(t, "config", "init", "--dir", dir, "--force"); err != nil {
		t.Errorf("expected --force to overwrite: %v", err)
	}
}

func TestConfigShow(t *testing.T) {
	dir := t.TempDir()
	path := writeProjectFile(t, dir, config.FileName, "envName: .env.local\n")

	out, err := executeCmd(t, "config", "show", "--dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "# source: "+path) {
		t.Errorf("expected source line, got:\n%s", out)
	}
	if !strings.Contains(out, "envName: .env.local") {
		t.Errorf("expected envName, got:\n%s", out)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, ".env", "A=1\nA=2\n")

	if _, err := executeCmd(t, "validate", "--dir", dir); err != nil {
		t.Errorf("duplicates should only warn: %v", err)
	}
	if _, err := executeCmd(t, "validate", "--dir", dir, "--strict"); err == nil {
		t.Error("expected --strict to fail on duplicates")
	}
}

func TestValidate_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, ".env", "BAD-KEY=1\n")

	if _, err := executeCmd(t, "validate", "--dir", dir); err == nil {
		t.Error("expected validate to fail on malformed file")
	}
}

func TestVersion_Short(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()
	Version = "v9.9.9"

	out, err := executeCmd(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "v9.9.9" {
		t.Errorf("version --short = %q", out)
	}
}

func TestVersion_IgnoresMalformedConfig(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, config.FileName, "envFile: [unclosed\n")

	if _, err := executeCmd(t, "version", "--short", "--dir", dir); err != nil {
		t.Errorf("version should not read %s: %v", config.FileName, err)
	}
	if _, err := executeCmd(t, "completion", "bash", "--dir", dir); err != nil {
		t.Errorf("completion should not read %s: %v", config.FileName, err)
	}
	if _, err := executeCmd(t, "env", "show", "--dir", dir); err == nil {
		t.Error("expected env show to fail on the malformed config")
	}
}

func TestDryRunCommand(t *testing.T) {
	got := dryRunCommand([]string{"A=1"}, true, "", []string{"dlv"})
	want := []string{"env", "-i", "A=1", "dlv"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("dryRunCommand() = %v, want %v", got, want)
	}
}
