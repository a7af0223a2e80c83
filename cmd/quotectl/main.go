// Package main provides quotectl, the operator CLI for the quotevault store
// and admin sessions. It reads the same configuration as the service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quotevault/internal/platform/config"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type rootFlags struct {
	profile string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "quotectl",
		Short:         "Operate the quotevault database and admin sessions",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.profile, "profile", "p", config.Profile(),
		"Configuration profile (configs/<profile>.yaml)")

	rootCmd.AddCommand(
		newMigrateCmd(flags),
		newSeedCmd(flags),
		newTokenCmd(flags),
		newVerifyTokenCmd(flags),
	)

	return rootCmd
}

// loadConfig loads and validates the configuration for the selected profile.
func loadConfig(flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
