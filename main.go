// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package main is the entry point for the metroline CLI.
package main

import (
	"metroline/cli/cmd"
)

func main() {
	cmd.Execute()
}
