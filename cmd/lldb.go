// SPDX-License-Identifier: MIT
// Copyright (c) 2026, Digital Hand LLC.

package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/digitalhand/dbgenv/internal/launch"
)

func init() {
	rootCmd.AddCommand(lldbCmd)

	lldbCmd.Flags().StringP("output", "o", "", "write the script to a file instead of stdout")
	lldbCmd.Flags().String("program", "", "executable to create the LLDB target for")
	lldbCmd.Flags().Bool("append", false, "keep LLDB's inherited environment and add the variables")
}

var lldbCmd = &cobra.Command{
	Use:   "lldb [flags] [-- run-args...]",
	Short: "Write an LLDB command script that sets the environment",
	Long: `Writes LLDB commands that install the env file's variables as the launch
environment of the current target.

  dbgenv lldb -o .lldbinit-env
  lldb -s .lldbinit-env ./target/debug/app

Arguments after -- become the target's run-args. LLDB has no way to quote a
line break, so a multi-line value is an error here; use dbgenv run instead.`,
	Args: cobra.ArbitraryArgs,
	RunE: runLLDB,
}

func runLLDB(cmd *cobra.Command, args []string) error {
	output := projectConfig.LLDB.Output
	if cmd.Flags().Changed("output") {
		output, _ = cmd.Flags().GetString("output")
	}
	program := projectConfig.LLDB.Program
	if cmd.Flags().Changed("program") {
		program, _ = cmd.Flags().GetString("program")
	}
	runArgs := projectConfig.LLDB.Args
	if len(args) > 0 {
		runArgs = args
	}

	in, err := newInjector(cmd)
	if err != nil {
		return err
	}

	target := launch.NewScriptTarget(program, runArgs...)
	res, err := in.Inject(target)
	if err != nil {
		return err
	}

	target.Header = []string{lldbScriptHeader}
	if res.Path != "" {
		target.Header = append(target.Header, "source: "+res.Path)
	} else {
		target.Header = append(target.Header, "source: none found, environment is empty")
	}

	var script bytes.Buffer
	if _, err := target.WriteTo(&script); err != nil {
		return fmt.Errorf("failed to render lldb script: %w", err)
	}

	if output == "" || output == "-" {
		_, err := script.WriteTo(cmd.OutOrStdout())
		return err
	}
	if err := writeScript(output, &script); err != nil {
		return err
	}
	printStatus(markSuccess(), "lldb_script", output)
	return nil
}

func writeScript(path string, w io.WriterTo) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create script directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := w.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
