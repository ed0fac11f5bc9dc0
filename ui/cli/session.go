// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toeirei/trustdesk/internal/dateformat"
	"github.com/toeirei/trustdesk/internal/i18n"
	"golang.org/x/term"
)

func newLoginCmd(a *app) *cobra.Command {
	var wallet, password string
	var remember bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to a wallet",
		Long: `Exchanges wallet credentials for a session token. With --remember the
session is saved to client storage and restored on the next run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				p, err := promptPassword(cmd)
				if err != nil {
					return err
				}
				password = p
			}

			ctx := cmd.Context()
			tok, err := a.client.Authenticate(ctx, wallet, password)
			if err != nil {
				return errors.New(i18n.T("login.failed", err))
			}
			if err := a.session.Login(ctx, tok, remember, nil); err != nil {
				return errors.New(i18n.T("login.failed", err))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, i18n.T("login.success", a.session.Wallet().Name))
			if !remember {
				fmt.Fprintln(out, i18n.T("login.not_remembered"))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&wallet, "wallet", "w", "", "Wallet name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Wallet password (prompted when empty)")
	cmd.Flags().BoolVar(&remember, "remember", false, "Save the session to client storage")
	_ = cmd.MarkFlagRequired("wallet")
	return cmd
}

// promptPassword reads the password without echo from a terminal, or as
// one line from any other input.
func promptPassword(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), i18n.T("login.password")+": ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("could not read password: %w", err)
		}
		defer clear(b)
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("could not read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the current session",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			a.session.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("session.logged_out"))
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the wallet of the current session",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			w := a.session.Wallet()
			if !a.session.IsLoggedIn() || w == nil {
				fmt.Fprintln(out, i18n.T("session.not_logged_in"))
				return
			}
			fmt.Fprintln(out, i18n.T("session.whoami", w.Name, w.ID))
			if w.Expiration != "" {
				fmt.Fprintln(out, i18n.T("session.whoami_expires", dateformat.Format(w.Expiration, dateformat.DatePattern)))
			}
			if w.About != "" {
				fmt.Fprintln(out, w.About)
			}
		},
	}
}
