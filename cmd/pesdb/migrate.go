package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/pesdb-crawler/internal/storage/postgres"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Postgres schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(a *app, m *postgres.Migrator) error {
					changed, err := m.Up()
					if err != nil {
						return err
					}
					if !changed {
						a.logger.Info("no migration changes")
						return nil
					}
					a.logger.Info("migrations applied")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations (default 1)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps, err := parseSteps(args)
				if err != nil {
					return err
				}
				return withMigrator(cmd, func(a *app, m *postgres.Migrator) error {
					changed, err := m.Down(steps)
					if err != nil {
						return err
					}
					a.logger.Info("migrations rolled back", zap.Int("steps", steps), zap.Bool("changed", changed))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(_ *app, m *postgres.Migrator) error {
					version, dirty, ok, err := m.Version()
					if err != nil {
						return err
					}
					out := cmd.OutOrStdout()
					if !ok {
						fmt.Fprintln(out, "version: none")
						fmt.Fprintln(out, "dirty: false")
						return nil
					}
					fmt.Fprintf(out, "version: %d\n", version)
					fmt.Fprintf(out, "dirty: %t\n", dirty)
					return nil
				})
			},
		},
	)
	return cmd
}

func withMigrator(cmd *cobra.Command, fn func(*app, *postgres.Migrator) error) error {
	a, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	if err := a.cfg.RequireDatabase(); err != nil {
		return err
	}
	m, err := postgres.NewMigrator(a.cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := m.Close(); cerr != nil {
			a.logger.Warn("close migrator", zap.Error(cerr))
		}
	}()
	return fn(a, m)
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid down steps %q: %w", args[0], err)
	}
	if steps <= 0 {
		return 0, fmt.Errorf("down steps must be > 0")
	}
	return steps, nil
}
