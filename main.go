// SPDX-License-Identifier: MIT
// Copyright (c) 2026, Digital Hand LLC.

package main

import (
	cmd "github.com/digitalhand/dbgenv/cmd"
)

func main() {
	cmd.Execute()
}
