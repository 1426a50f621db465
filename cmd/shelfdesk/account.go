package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/naveenspark/shelfdesk/internal/session"
)

func newLoginCmd(envOf func() *env) *cobra.Command {
	return &cobra.Command{
		Use:   "login [username]",
		Short: "Sign in and save the session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := envOf()
			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())

			var username string
			if len(args) == 1 {
				username = args[0]
			} else {
				var err error
				if username, err = p.line("username"); err != nil {
					return err
				}
			}
			password, err := p.secret("password")
			if err != nil {
				return err
			}

			e.session.Restore()
			s, err := e.session.Login(cmd.Context(), e.client, username, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			acct := s.Account()
			printf(cmd.OutOrStdout(), "Signed in as %s (%s) until %s\n",
				acct.Username, acct.Role, s.ExpiresAt(e.session.Validity()).Format(time.Kitchen))
			return nil
		},
	}
}

func newLogoutCmd(envOf func() *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := envOf()
			e.session.Restore()
			if e.session.State() != session.StateAuthenticated {
				printf(cmd.OutOrStdout(), "Already signed out.\n")
				return nil
			}
			if err := e.session.Logout(); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Signed out.\n")
			return nil
		},
	}
}

func newWhoamiCmd(envOf func() *env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and its permissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := envOf()
			e.session.Restore()
			s, ok := e.session.Current()
			if !ok {
				return errNotSignedIn
			}
			out := cmd.OutOrStdout()
			acct := s.Account()
			printf(out, "user:        %s\n", acct.Username)
			if name := s.Identity.FullName(); name != "" {
				printf(out, "name:        %s\n", name)
			}
			printf(out, "role:        %s\n", acct.Role)
			printf(out, "permissions: %s\n", strings.Join(acct.Permissions, ", "))
			printf(out, "expires:     %s\n", s.ExpiresAt(e.session.Validity()).Format(time.RFC3339))

			if claims, err := session.InspectCredential(s.Credential); err == nil && !claims.ExpiresAt.IsZero() {
				printf(out, "token exp:   %s\n", claims.ExpiresAt.Format(time.RFC3339))
			}

			var screens []string
			for _, sc := range e.access.Visible(e.session) {
				screens = append(screens, string(sc))
			}
			printf(out, "screens:     %s\n", strings.Join(screens, ", "))
			return nil
		},
	}
}

func newForgotPasswordCmd(envOf func() *env) *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password <email>",
		Short: "Email a password reset link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := envOf()
			if err := e.client.ForgotPassword(cmd.Context(), args[0]); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "If %s is registered, a reset link is on its way.\n", args[0])
			return nil
		},
	}
}

func newResetPasswordCmd(envOf func() *env) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <token>",
		Short: "Choose a new password with a reset token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := envOf()
			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			password, err := p.secret("new password")
			if err != nil {
				return err
			}
			confirm, err := p.secret("repeat password")
			if err != nil {
				return err
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}
			if err := e.client.ResetPassword(cmd.Context(), args[0], password); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Password updated. Sign in with shelfdesk login.\n")
			return nil
		},
	}
}

var errNotSignedIn = errors.New("not signed in: run shelfdesk login")

