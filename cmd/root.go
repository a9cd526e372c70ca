// SPDX-License-Identifier: MIT
// Copyright (c) 2026, Digital Hand LLC.

package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/digitalhand/dbgenv/internal/config"
)

// projectConfig is loaded once per invocation by the root pre-run hook.
var projectConfig = config.Default()

var rootCmd = &cobra.Command{
	Use:           "dbgenv",
	Short:         "Launch debuggers with the project's .env",
	Long:          "dbgenv - launch debuggers with the project's .env (" + resolvedVersion() + ")",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		setupLogging(verbose)
		if skipsProjectConfig(cmd) {
			return nil
		}
		return loadProjectConfig(cmd)
	},
	Run: func(cmd *cobra.Command, args []string) {
		printStyledHelp()
	},
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: false,
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("env-file", "", "explicit env file path (disables upward search)")
	flags.String("env-name", "", "env file name to search for (default \".env\")")
	flags.String("dir", "", "directory to start searching from (default: working directory)")
	flags.String("format", "", "env file dialect: dotenv or envparse")
	flags.String("config", "", "path to "+config.FileName+" (default: searched upward)")
	flags.BoolP("verbose", "v", false, "debug logging")

	// Override help for root only; subcommands get cobra defaults.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd == rootCmd {
			printStyledHelp()
		} else {
			cmd.InitDefaultHelpFlag()
			cobra.CheckErr(cmd.UsageFunc()(cmd))
		}
	})
}

// skipsProjectConfig reports whether cmd runs without loading the project
// config.
func skipsProjectConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "version", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, colorize(colorRed, "error: ")+err.Error())

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

func setupLogging(verbose bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !useColor(),
	})

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func loadProjectConfig(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		projectConfig = cfg
		return nil
	}

	dir, err := searchDir(cmd)
	if err != nil {
		return err
	}
	cfg, err := config.Discover(dir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	projectConfig = cfg
	if cfg.Path != "" {
		log.Debug().Str("path", cfg.Path).Msg("loaded project config")
	}
	return nil
}

func printStyledHelp() {
	groups := []helpGroup{
		{
			title: "Launch",
			commands: []helpEntry{
				{"run -- <cmd> [args]", "Run a debugger with the .env as its environment"},
				{"lldb", "Write an LLDB command script that sets the environment"},
			},
		},
		{
			title: "Inspect",
			commands: []helpEntry{
				{"env show", "Show the entries that would be installed"},
				{"env find", "Print the env file that would be used"},
				{"validate", "Parse the env file and report problems"},
				{"doctor", "Pre-flight check (env file, config, debuggers)"},
			},
		},
		{
			title: "Configuration",
			commands: []helpEntry{
				{"config init", "Write a starter " + config.FileName},
				{"config show", "Print the effective settings"},
			},
		},
		{
			title: "Other",
			commands: []helpEntry{
				{"version", "Print CLI version and build metadata"},
				{"completion", "Generate shell completions"},
			},
		},
	}

	fmt.Printf("dbgenv - launch debuggers with the project's .env (%s)\n", resolvedVersion())
	printGroupedHelp(groups)

	fmt.Println(headerText("Quick Start"))
	fmt.Println("  dbgenv env show")
	fmt.Println("  dbgenv run -- dlv debug ./cmd/app")
	fmt.Println("  dbgenv lldb -o .lldbinit-env && lldb -s .lldbinit-env ./app")
	fmt.Println()
}
