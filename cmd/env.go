// SPDX-License-Identifier: MIT
// Copyright (c) 2026, Digital Hand LLC.

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/digitalhand/dbgenv/internal/envfile"
	"github.com/digitalhand/dbgenv/internal/injector"
	"github.com/digitalhand/dbgenv/internal/launch"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.AddCommand(envShowCmd)
	envCmd.AddCommand(envFindCmd)
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Inspect the env file dbgenv would use",
}

// --- env show ---

var envShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the entries that would be installed",
	RunE:  runEnvShow,
}

func init() {
	envShowCmd.Flags().Bool("raw", false, "print bare NAME=VALUE lines")
}

func runEnvShow(cmd *cobra.Command, args []string) error {
	in, err := newInjector(cmd)
	if err != nil {
		return err
	}

	// A script target with no program accepts any launch info, so the
	// injection can run without touching a real debugger.
	target := launch.NewScriptTarget("")
	res, err := in.Inject(target)
	if err != nil {
		return err
	}

	raw, _ := cmd.Flags().GetBool("raw")
	if raw {
		for _, entry := range res.Entries {
			fmt.Fprintln(cmd.OutOrStdout(), entry)
		}
		return nil
	}

	if res.Path == "" {
		printStatus(markWarning(), "env_file", "not found (environment will be empty)")
	} else {
		printStatus(markSuccess(), "env_file", res.Path)
	}
	printStatus(markInfo(), "mode", modeLabel(res.Replace))
	fmt.Println()

	for _, entry := range res.Entries {
		name, value, _ := strings.Cut(entry, "=")
		mark := markSuccess()
		if contains(res.Duplicates, name) {
			mark = markWarning()
		}
		printStatus(mark, name, value)
	}
	return nil
}

// --- env find ---

var envFindCmd = &cobra.Command{
	Use:   "find",
	Short: "Print the env file that would be used",
	RunE:  runEnvFind,
}

func runEnvFind(cmd *cobra.Command, args []string) error {
	loc, err := envLocator(cmd)
	if err != nil {
		return err
	}
	path, err := loc()
	if err != nil {
		return fmt.Errorf("failed to locate env file: %w", err)
	}
	if path == "" {
		return fmt.Errorf("no %s found", envName(cmd))
	}
	if st, statErr := os.Stat(path); statErr != nil || st.IsDir() {
		return fmt.Errorf("env file does not exist: %s", path)
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// --- helpers ---

// newInjector builds the injector from flags, falling back to the project
// config and then to built-in defaults.
func newInjector(cmd *cobra.Command) (*injector.Injector, error) {
	format, err := envFormat(cmd)
	if err != nil {
		return nil, err
	}
	loc, err := envLocator(cmd)
	if err != nil {
		return nil, err
	}

	appendEnv := projectConfig.Append
	if f := cmd.Flags().Lookup("append"); f != nil && f.Changed {
		appendEnv, _ = cmd.Flags().GetBool("append")
	}

	return &injector.Injector{
		Locate: loc,
		Format: format,
		Append: appendEnv,
		Logger: log.Logger,
	}, nil
}

func envFormat(cmd *cobra.Command) (envfile.Format, error) {
	value := projectConfig.Format
	if cmd.Flags().Changed("format") {
		value, _ = cmd.Flags().GetString("format")
	}
	return envfile.ParseFormat(value)
}

func envLocator(cmd *cobra.Command) (envfile.Locator, error) {
	if explicit, _ := cmd.Flags().GetString("env-file"); explicit != "" {
		return envfile.Path(explicit), nil
	}
	if projectConfig.EnvFile != "" {
		return envfile.Path(projectConfig.EnvFile), nil
	}

	dir, err := searchDir(cmd)
	if err != nil {
		return nil, err
	}
	return envfile.SearchUpward(dir, envName(cmd)), nil
}

func envName(cmd *cobra.Command) string {
	if name, _ := cmd.Flags().GetString("env-name"); name != "" {
		return name
	}
	if projectConfig.EnvName != "" {
		return projectConfig.EnvName
	}
	return envfile.DefaultName
}

func searchDir(cmd *cobra.Command) (string, error) {
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		return dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to resolve working dir: %w", err)
	}
	return wd, nil
}

func modeLabel(replace bool) string {
	if replace {
		return "replace (debugger environment is not inherited)"
	}
	return "append (layered over the debugger environment)"
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
