// SPDX-License-Identifier: MIT
// Copyright (c) 2026, Digital Hand LLC.

package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/digitalhand/dbgenv/internal/config"
	"github.com/digitalhand/dbgenv/internal/launch"
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("append", false, "layer variables over the current environment instead of replacing it")
	runCmd.Flags().String("cwd", "", "working directory for the debugger")
	runCmd.Flags().Bool("dry-run", false, "print the command instead of executing")
	runCmd.Flags().Bool("strict-env", false, "give the debugger only the env file's variables (no PATH, HOME, ...)")
}

var runCmd = &cobra.Command{
	Use:   "run [flags] -- <debugger> [args...]",
	Short: "Run a debugger with the .env as its environment",
	Long: `Runs a debugger (or any command) with the variables of the nearest env file.

By default the variables replace the environment. The debugger keeps the
variables it needs to run from the current environment (PATH, HOME, TMPDIR,
TERM, LANG, the XDG_ and LC_ families and the Go toolchain settings); the env
file wins on any name it declares. Use --strict-env to drop those too, or
--append to layer the variables over the whole current environment.

Examples:
  dbgenv run -- dlv debug ./cmd/app
  dbgenv run -- gdb --args ./build/app --port 8080
  dbgenv run --append -- lldb ./target/debug/app`,
	Args: cobra.ArbitraryArgs,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	argv := args
	if len(argv) == 0 {
		argv = projectConfig.Debugger
	}
	if len(argv) == 0 {
		return errors.New("no debugger command given\n  usage: dbgenv run -- dlv debug ./cmd/app\n  or set debugger in " + projectConfigName())
	}

	cwd, _ := cmd.Flags().GetString("cwd")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	strict, _ := cmd.Flags().GetBool("strict-env")
	verbose, _ := cmd.Flags().GetBool("verbose")

	in, err := newInjector(cmd)
	if err != nil {
		return err
	}

	target := launch.NewExecTarget(argv[0], argv[1:]...)
	target.Stdout = cmd.OutOrStdout()
	target.Stderr = cmd.ErrOrStderr()
	if strict {
		target.Passthrough = []string{}
	}
	if cwd != "" {
		info, err := target.LaunchInfo()
		if err != nil {
			return err
		}
		info.WorkingDir = cwd
		if err := target.SetLaunchInfo(info); err != nil {
			return err
		}
	}

	res, err := in.Inject(target)
	if err != nil {
		return err
	}

	if dryRun {
		env := res.Entries
		if res.Replace {
			c, err := target.Command(cmd.Context())
			if err != nil {
				return err
			}
			env = c.Env
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatCommand(dryRunCommand(env, res.Replace, cwd, argv)))
		return nil
	}

	log.Debug().Strs("argv", argv).Str("env_file", res.Path).Msg("starting debugger")
	if verbose {
		printCommand(cmd.ErrOrStderr(), argv)
	}

	// The debugger owns Ctrl-C while it runs; keep it from killing dbgenv
	// before the child has exited. Notify, unlike Ignore, is not inherited
	// across exec.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	defer signal.Stop(sigs)

	return target.Run(cmd.Context())
}

// dryRunCommand renders an env(1) invocation equivalent to the launch. With
// replace set, env is the debugger's complete environment.
func dryRunCommand(entries []string, replace bool, cwd string, argv []string) []string {
	parts := []string{"env"}
	if replace {
		parts = append(parts, "-i")
	}
	if cwd != "" {
		parts = append(parts, "-C", cwd)
	}
	parts = append(parts, entries...)
	return append(parts, argv...)
}

func projectConfigName() string {
	if projectConfig.Path != "" {
		return projectConfig.Path
	}
	return config.FileName
}
