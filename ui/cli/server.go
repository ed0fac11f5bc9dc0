// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/toeirei/trustdesk/internal/api"
	"github.com/toeirei/trustdesk/internal/config"
	"github.com/toeirei/trustdesk/internal/i18n"
)

func newMockServerCmd(_ *app) *cobra.Command {
	var addr string
	var rows int

	cmd := &cobra.Command{
		Use:         "mock-server",
		Short:       "Serve a local wallet API with fixture data",
		Long:        `Serves /auth and /trust_relationships for development and demos until interrupted.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSetup: setupConfigOnly},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := api.NewMockServer(api.WithFixtures(api.Fixtures(rows)))
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("mock.listening", addr, api.DemoWallet, api.DemoPassword))
			return srv.Serve(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "Listen address")
	cmd.Flags().IntVar(&rows, "rows", 42, "Number of fixture relationships")
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var system bool
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the effective configuration as YAML",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSetup: setupConfigOnly},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.WriteConfigFile(&a.cfg, system)
			if err != nil {
				return fmt.Errorf("could not write config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("config.written", path))
			return nil
		},
	}
	initCmd.Flags().BoolVar(&system, "system", false, "Write the system-wide file instead of the user file")
	cmd.AddCommand(initCmd)
	return cmd
}
