// SPDX-License-Identifier: MIT
// Copyright (c) 2026, Digital Hand LLC.

package cmd

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

// Set at build time, e.g.:
// go build -ldflags "-X github.com/digitalhand/dbgenv/cmd.Version=v0.1.0 -X github.com/digitalhand/dbgenv/cmd.Commit=$(git rev-parse --short HEAD)"
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("short", false, "print only the version number")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print CLI version and build metadata",
	Run: func(cmd *cobra.Command, args []string) {
		if short, _ := cmd.Flags().GetBool("short"); short {
			fmt.Fprintln(cmd.OutOrStdout(), shortVersion())
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "dbgenv %s\n", resolvedVersion())
	},
}

// shortVersion is the version without commit or date.
func shortVersion() string {
	v, _, _ := buildMetadata()
	return v
}

func resolvedVersion() string {
	v, c, d := buildMetadata()

	if c != "" && len(c) > 12 {
		c = c[:12]
	}

	parts := []string{v}
	if c != "" {
		parts = append(parts, c)
	}
	if d != "" {
		parts = append(parts, d)
	}
	return strings.Join(parts, " ")
}

// buildMetadata merges ldflags values with the module build info.
func buildMetadata() (version, commit, date string) {
	v := Version
	c := Commit
	d := Date

	if info, ok := debug.ReadBuildInfo(); ok {
		if (v == "" || v == "dev") && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}

		if c == "" || d == "" {
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					if c == "" {
						c = s.Value
					}
				case "vcs.time":
					if d == "" {
						d = s.Value
					}
				}
			}
		}
	}

	return v, c, d
}
