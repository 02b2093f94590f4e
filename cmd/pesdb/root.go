package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	debug      bool
}

// appKeyType is the key for storing the app in the command context.
type appKeyType string

const appKey appKeyType = "app"

// newApp is the application factory. It is a variable so tests can swap it.
var newApp = buildApp

// cli owns the app built for the running subcommand. PersistentPostRun is
// skipped when a command fails, so Close runs from main instead.
type cli struct {
	opts rootOptions
	app  *app
}

func (c *cli) Close() {
	if c.app != nil {
		c.app.Close()
		c.app = nil
	}
}

func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{}
	cmd := &cobra.Command{
		Use:   "pesdb",
		Short: "Crawl pesdb.net players and pesmaster.com leagues into Postgres.",
		Long: `pesdb mirrors the pesdb.net player database and the pesmaster.com
league and team ratings into a relational store. Crawls are resumable and
retry transient failures without limit.`,
		SilenceUsage:  true,
		SilenceErrors: true,

		// Runs before every subcommand: load config, build the logger and run id.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), c.opts)
			if err != nil {
				return fmt.Errorf("initialize application: %w", err)
			}
			c.app = a
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, a))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&c.opts.configPath, "config", "", "config file (YAML); env PESDB_* overrides")
	cmd.PersistentFlags().BoolVar(&c.opts.debug, "debug", false, "log every request, retry and raw HTTP exchange")

	cmd.AddCommand(newPlayersCmd(), newLeaguesCmd(), newMigrateCmd())
	return cmd, c
}

func resolveApp(ctx context.Context) (*app, error) {
	a, ok := ctx.Value(appKey).(*app)
	if !ok || a == nil {
		return nil, errors.New("application services not initialized")
	}
	return a, nil
}
