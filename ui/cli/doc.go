// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for Trustdesk using Cobra.
// The root command loads configuration, opens client storage and restores a
// remembered session before any subcommand runs. Without a subcommand it
// starts the TUI.
package cli
