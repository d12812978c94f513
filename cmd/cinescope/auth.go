package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mmcdole/cinescope/internal/domain"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd(opts *globalOptions) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login [username]",
		Short: "Log in to the review service",
		Long: `Log in with your review service account. The session is kept until
you log out, and your watchlist is tied to it.

The password is read from --password, or prompted for without echo.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				username, pass, err := readCredentials(cmd, args, password)
				if err != nil {
					return err
				}

				ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.API.Timeout)
				defer cancel()

				if err := a.session.Login(ctx, username, pass); err != nil {
					return describeAuthError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged in as %s\n", a.session.Session().UserName())
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the local watchlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				if !a.session.IsAuthenticated() {
					fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
					return nil
				}
				name := a.session.Session().UserName()
				a.session.Logout()
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged out %s\n", name)
				return nil
			})
		},
	}
}

func newRegisterCmd(opts *globalOptions) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "register [username]",
		Short: "Create a review service account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				username, pass, err := readCredentials(cmd, args, password)
				if err != nil {
					return err
				}

				ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.API.Timeout)
				defer cancel()

				if err := a.api.Register(ctx, username, pass); err != nil {
					return fmt.Errorf("registration failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Registered %s. Log in with: cinescope login %s\n", username, username)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when omitted)")
	return cmd
}

func newWhoamiCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				sess := a.session.Session()
				if !sess.IsAuthenticated {
					fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), sess.UserName())
				return nil
			})
		},
	}
}

// readCredentials takes the username from args or a prompt, and the
// password from the flag or a hidden prompt.
func readCredentials(cmd *cobra.Command, args []string, password string) (string, string, error) {
	in := cmd.InOrStdin()
	out := cmd.OutOrStdout()
	reader := bufio.NewReader(in)

	username := ""
	if len(args) > 0 {
		username = args[0]
	} else {
		fmt.Fprint(out, "Username: ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", "", fmt.Errorf("failed to read username: %w", err)
		}
		username = line
	}
	username = strings.TrimSpace(username)

	if password == "" {
		fmt.Fprint(out, "Password: ")
		pw, err := readPassword(in, reader)
		fmt.Fprintln(out)
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}
		password = pw
	}
	return username, password, nil
}

// readPassword reads without echo from a terminal, or a plain line otherwise
func readPassword(in io.Reader, reader *bufio.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		return string(b), err
	}
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// describeAuthError turns a login failure into a user-facing error
func describeAuthError(err error) error {
	var authErr *domain.AuthError
	switch {
	case errors.Is(err, domain.ErrServerOffline):
		return fmt.Errorf("review service is unreachable")
	case errors.As(err, &authErr) && authErr.Message != "":
		return fmt.Errorf("login failed: %s", authErr.Message)
	default:
		return fmt.Errorf("login failed: %w", err)
	}
}
