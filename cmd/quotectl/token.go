package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quotevault/internal/platform/session"
)

type tokenFlags struct {
	cookie bool
	secure bool
}

func newTokenCmd(root *rootFlags) *cobra.Command {
	var flags tokenFlags

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a freshly signed admin session token",
		Long: "Signs an admin session token with the configured secret " +
			"(ADMIN_PASSWORD, or SESSION_SECRET when login is disabled).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runToken(cmd, root, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.cookie, "cookie", false, "Print the full Set-Cookie header value")
	cmd.Flags().BoolVar(&flags.secure, "secure", false, "Add the Secure attribute to the cookie")

	return cmd
}

func runToken(cmd *cobra.Command, root *rootFlags, flags tokenFlags) error {
	manager, err := sessionManager(root)
	if err != nil {
		return err
	}

	token, err := manager.Issue()
	if err != nil {
		return fmt.Errorf("issuing token: %w", err)
	}

	if flags.cookie {
		fmt.Fprintln(cmd.OutOrStdout(), manager.SetCookie(token, flags.secure))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)

	return nil
}

func newVerifyTokenCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-token <token>",
		Short: "Check a session token's signature and age",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerifyToken(cmd, root, args[0])
		},
	}
}

func runVerifyToken(cmd *cobra.Command, root *rootFlags, token string) error {
	manager, err := sessionManager(root)
	if err != nil {
		return err
	}

	// A pasted Cookie header or name=value pair is accepted too.
	if t := session.TokenFromCookieHeader(token); t != "" {
		token = t
	}

	if err := manager.Verify(token); err != nil {
		if errors.Is(err, session.ErrTokenExpired) {
			return fmt.Errorf("token expired: %w", err)
		}

		return fmt.Errorf("token rejected: %w", err)
	}

	issued, err := manager.IssuedAt(token)
	if err != nil {
		return err
	}

	expires := issued.Add(manager.MaxAge())
	fmt.Fprintf(cmd.OutOrStdout(), "valid: issued %s, expires %s\n",
		issued.UTC().Format(time.RFC3339), expires.UTC().Format(time.RFC3339))

	return nil
}

func sessionManager(root *rootFlags) (*session.Manager, error) {
	cfg, err := loadConfig(root)
	if err != nil {
		return nil, err
	}

	manager := session.NewManager(cfg.Auth.SigningSecret(), session.WithMaxAge(cfg.Auth.SessionMaxAge))
	if !manager.Configured() {
		return nil, errors.New("no signing secret: set ADMIN_PASSWORD or SESSION_SECRET")
	}

	return manager, nil
}
