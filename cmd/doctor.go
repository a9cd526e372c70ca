// SPDX-License-Identifier: MIT
// Copyright (c) 2026, Digital Hand LLC.

package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/digitalhand/dbgenv/internal/config"
	"github.com/digitalhand/dbgenv/internal/envfile"
)

type checkResult struct {
	name     string
	required bool
	ok       bool
	detail   string
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Pre-flight check (env file, config, debuggers)",
	RunE:  runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	results := make([]checkResult, 0)

	if projectConfig.Path != "" {
		results = append(results, checkResult{
			name:   "config",
			ok:     true,
			detail: projectConfig.Path,
		})
	} else {
		results = append(results, checkResult{
			name:   "config",
			detail: "no " + config.FileName + " (optional, using defaults)",
		})
	}

	format, err := envFormat(cmd)
	if err != nil {
		results = append(results, checkResult{name: "format", required: true, detail: err.Error()})
	} else if loc, err := envLocator(cmd); err != nil {
		results = append(results, checkResult{name: "env_file", required: true, detail: err.Error()})
	} else {
		results = append(results, envFileChecks(loc, format, envName(cmd))...)
	}

	found := 0
	for _, tool := range knownDebuggers {
		if path, err := exec.LookPath(tool); err == nil {
			found++
			results = append(results, checkResult{
				name:   "debugger:" + tool,
				ok:     true,
				detail: path,
			})
		} else {
			results = append(results, checkResult{
				name:   "debugger:" + tool,
				detail: "not found in PATH",
			})
		}
	}

	if check, ok := configuredDebuggerCheck(projectConfig.Debugger); ok {
		results = append(results, check)
	}

	printHeader("dbgenv Doctor")
	if wd, err := os.Getwd(); err == nil {
		fmt.Printf("working_dir: %s\n\n", wd)
	}

	passed, warned, failed := 0, 0, 0
	for _, r := range results {
		status := markSuccess()
		if !r.ok && r.required {
			status = markFailure()
			failed++
		} else if !r.ok {
			status = markWarning()
			warned++
		} else {
			passed++
		}
		printStatus(status, r.name, r.detail)
	}

	printSummaryBox(passed, warned, failed)

	if found == 0 {
		fmt.Printf("%s none of %v found; dbgenv run still works with any command\n", markInfo(), knownDebuggers)
	}

	if failed > 0 {
		return fmt.Errorf("doctor found %d required issue(s)", failed)
	}

	fmt.Println("doctor passed")
	return nil
}

// envFileChecks reports whether the env file can be located and parsed.
// A missing file only warns: launches then get an empty environment.
func envFileChecks(loc envfile.Locator, format envfile.Format, name string) []checkResult {
	path, err := loc()
	if err != nil {
		return []checkResult{{name: "env_file", required: true, detail: err.Error()}}
	}
	if path == "" {
		return []checkResult{{name: "env_file", detail: "no " + name + " found (launches get an empty environment)"}}
	}
	if !fileExists(path) {
		return []checkResult{{name: "env_file", required: true, detail: "missing at " + path}}
	}

	results := []checkResult{{name: "env_file", required: true, ok: true, detail: path}}

	env, err := envfile.Read(path, format)
	if err != nil {
		return append(results, checkResult{name: "env_parse", required: true, detail: err.Error()})
	}
	results = append(results, checkResult{
		name:     "env_parse",
		required: true,
		ok:       true,
		detail:   fmt.Sprintf("%d variable(s), %s", env.Len(), format),
	})

	if dups := env.Duplicates(); len(dups) > 0 {
		results = append(results, checkResult{
			name:   "env_duplicates",
			detail: fmt.Sprintf("%v (last value wins)", dups),
		})
	}
	return results
}

// configuredDebuggerCheck is required to pass: `dbgenv run` without
// arguments launches argv.
func configuredDebuggerCheck(argv []string) (checkResult, bool) {
	if len(argv) == 0 {
		return checkResult{}, false
	}
	tool := argv[0]
	check := checkResult{
		name:     "run:" + tool,
		required: true,
		detail:   "configured debugger not found in PATH",
	}
	if path, err := exec.LookPath(tool); err == nil {
		check.ok = true
		check.detail = path
	}
	return check, true
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
