// SPDX-License-Identifier: MIT
// Copyright (c) 2026, Digital Hand LLC.

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	colorRed    = []color.Attribute{color.FgRed}
	colorGreen  = []color.Attribute{color.FgGreen}
	colorYellow = []color.Attribute{color.FgYellow}
	colorCyan   = []color.Attribute{color.FgCyan}
	colorHeader = []color.Attribute{color.Bold, color.FgCyan}
	colorDim    = []color.Attribute{color.Faint}
)

func useColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}

func colorize(attrs []color.Attribute, text string) string {
	c := color.New(attrs...)
	if useColor() {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(text)
}

func markSuccess() string {
	return colorize(colorGreen, "✓")
}

func markFailure() string {
	return colorize(colorRed, "✗")
}

func markWarning() string {
	return colorize(colorYellow, "!")
}

func markInfo() string {
	return colorize(colorCyan, "•")
}

func headerText(text string) string {
	return colorize(colorHeader, text)
}

func dimText(text string) string {
	return colorize(colorDim, text)
}

func printStatus(mark, name, detail string) {
	fmt.Printf("%s %-24s %s\n", mark, name, detail)
}

func printHeader(title string) {
	fmt.Println(headerText(title))
	fmt.Println(dimText(strings.Repeat("─", len(title))))
}

func printSummaryBox(passed, warned, failed int) {
	total := passed + warned + failed
	parts := []string{
		colorize(colorGreen, fmt.Sprintf("%d passed", passed)),
	}
	if warned > 0 {
		parts = append(parts, colorize(colorYellow, fmt.Sprintf("%d warned", warned)))
	}
	if failed > 0 {
		parts = append(parts, colorize(colorRed, fmt.Sprintf("%d failed", failed)))
	}
	fmt.Printf("\n%s  %s\n", dimText(fmt.Sprintf("[%d checks]", total)), strings.Join(parts, dimText(", ")))
}

func printCommand(w io.Writer, parts []string) {
	fmt.Fprintf(w, "      %s\n", dimText(formatCommand(parts)))
}

func formatCommand(parts []string) string {
	if len(parts) == 0 {
		return ""
	}

	quoted := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || strings.ContainsAny(p, " \t\"'") {
			quoted = append(quoted, fmt.Sprintf("%q", p))
		} else {
			quoted = append(quoted, p)
		}
	}
	return strings.Join(quoted, " ")
}

// helpGroup defines a visual grouping for cobra help output.
type helpGroup struct {
	title    string
	commands []helpEntry
}

type helpEntry struct {
	name string
	desc string
}

func printGroupedHelp(groups []helpGroup) {
	for _, g := range groups {
		fmt.Printf("\n%s\n", headerText(g.title))
		for _, e := range g.commands {
			fmt.Printf("  %-24s %s\n", e.name, dimText(e.desc))
		}
	}
	fmt.Println()
}
