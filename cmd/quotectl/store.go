package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/jsamuelsen/quotevault/internal/adapters/store"
	"github.com/jsamuelsen/quotevault/internal/platform/logging"
)

// withDB opens the configured database, runs fn and closes the pool.
func withDB(cmd *cobra.Command, flags *rootFlags, fn func(db *gorm.DB, logger *slog.Logger) error) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	// Diagnostics go to stderr so stdout stays scriptable.
	logger := logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  "text",
		Service: "quotectl",
		Version: version,
	}, cmd.ErrOrStderr())

	db, err := store.Open(store.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
		SlowThreshold:   cfg.Database.SlowThreshold,
	}, logger)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := store.Close(db); closeErr != nil {
			logger.Error("database close error", slog.Any("error", closeErr))
		}
	}()

	return fn(db, logger)
}

func newMigrateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the quotes, tags and quote_tags tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd, flags, func(db *gorm.DB, _ *slog.Logger) error {
				if err := store.Migrate(db); err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")

				return nil
			})
		},
	}
}

type seedFlags struct {
	migrate bool
}

func newSeedCmd(root *rootFlags) *cobra.Command {
	var flags seedFlags

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample quotes when the quotes table is empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd, root, func(db *gorm.DB, _ *slog.Logger) error {
				return runSeed(cmd, db, flags)
			})
		},
	}

	cmd.Flags().BoolVar(&flags.migrate, "migrate", true, "Migrate the schema before seeding")

	return cmd
}

func runSeed(cmd *cobra.Command, db *gorm.DB, flags seedFlags) error {
	if flags.migrate {
		if err := store.Migrate(db); err != nil {
			return err
		}
	}

	n, err := store.NewQuoteStore(db).Seed(cmd.Context())
	if err != nil {
		return fmt.Errorf("seeding quotes: %w", err)
	}

	if n == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Quotes table is not empty; nothing seeded.")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d quotes.\n", n)

	return nil
}
