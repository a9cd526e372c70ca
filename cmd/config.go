// SPDX-License-Identifier: MIT
// Copyright (c) 2026, Digital Hand LLC.

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/digitalhand/dbgenv/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage " + config.FileName,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter " + config.FileName,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	RunE:  runConfigShow,
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite config if it already exists")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	dir, err := searchDir(cmd)
	if err != nil {
		return err
	}
	destFile := filepath.Join(dir, config.FileName)

	force, _ := cmd.Flags().GetBool("force")
	if !force {
		if _, err := os.Stat(destFile); err == nil {
			return fmt.Errorf("config already exists: %s (use --force to overwrite)", destFile)
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(destFile, []byte(config.Template), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printStatus(markSuccess(), "config", destFile)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	source := projectConfig.Path
	if source == "" {
		source = "built-in defaults"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "# source: %s\n", source)

	out, err := config.Marshal(projectConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
