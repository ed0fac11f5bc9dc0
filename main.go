// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Trustdesk.
//
// Usage:
//
//	go run . [flags]
//	./trustdesk [flags]
//
// This launches the Trustdesk TUI. See --help for the subcommands.
package main

import (
	"os"

	"github.com/toeirei/trustdesk/ui/cli"
)

func main() {
	// cobra has already printed the error
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
