// SPDX-License-Identifier: MIT
// Copyright (c) 2026, Digital Hand LLC.

package cmd

// Debuggers that doctor looks for on PATH. None is required; run accepts
// any command.
var knownDebuggers = []string{
	"dlv",
	"lldb",
	"gdb",
}

// Default header written at the top of generated LLDB scripts.
const lldbScriptHeader = "generated by dbgenv; load with: command source <file>"
