// SPDX-License-Identifier: MIT
// Copyright (c) 2026, Digital Hand LLC.

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/digitalhand/dbgenv/internal/envfile"
)

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "treat warnings (duplicates, empty values) as failures")
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse the env file and report problems",
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	strict, _ := cmd.Flags().GetBool("strict")

	format, err := envFormat(cmd)
	if err != nil {
		return err
	}
	loc, err := envLocator(cmd)
	if err != nil {
		return err
	}
	path, err := loc()
	if err != nil {
		return fmt.Errorf("failed to locate env file: %w", err)
	}

	printHeader("Validate " + envName(cmd))
	if path == "" {
		printStatus(markFailure(), "env_file", "not found")
		return fmt.Errorf("no %s found", envName(cmd))
	}
	if !fileExists(path) {
		printStatus(markFailure(), "env_file", "missing: "+path)
		return fmt.Errorf("env file does not exist: %s", path)
	}
	printStatus(markSuccess(), "env_file", path)
	printStatus(markInfo(), "format", string(format))

	env, err := envfile.Read(path, format)
	if err != nil {
		printStatus(markFailure(), "parse", err.Error())
		return fmt.Errorf("validate failed: %w", err)
	}

	passed, warned, failed := 1, 0, 0
	printStatus(markSuccess(), "parse", fmt.Sprintf("%d variable(s)", env.Len()))
	passed++

	for _, name := range env.Duplicates() {
		value, _ := env.Get(name)
		printStatus(markWarning(), name, "assigned more than once, using "+quoteValue(value))
		warned++
	}

	env.Range(func(name, value string) bool {
		if strings.TrimSpace(value) == "" {
			printStatus(markWarning(), name, "empty value")
			warned++
		}
		return true
	})

	if strict && warned > 0 {
		failed, warned = warned, 0
	}
	printSummaryBox(passed, warned, failed)

	if failed > 0 {
		return fmt.Errorf("validate found %d issue(s)", failed)
	}
	fmt.Println("validate passed")
	return nil
}

func quoteValue(v string) string {
	return fmt.Sprintf("%q", v)
}
