package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/pesdb-crawler/internal/crawler"
	"github.com/JakeFAU/pesdb-crawler/internal/parser"
)

func newLeaguesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leagues",
		Short: "Crawl pesmaster.com leagues and team ratings",
		Long: `Loads the pesmaster.com league index and the team table of every league.
Leagues and teams already stored are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			return runLeagues(cmd, a)
		},
	}
}

func runLeagues(cmd *cobra.Command, a *app) error {
	ctx := cmd.Context()
	logger := a.logger.Named("leagues")

	st, err := a.openStores(ctx)
	if err != nil {
		return err
	}
	fetcher, err := a.newFetcher(a.cfg.Leagues.BaseURL)
	if err != nil {
		return err
	}
	lc := crawler.NewLeagueCrawler(crawler.LeagueCrawlerConfig{
		Fetcher:   fetcher,
		Parser:    parser.NewPESMaster(),
		Upserter:  crawler.NewUpserter(st.players, st.refs),
		Progress:  a.newProgress(),
		Logger:    logger,
		IndexPath: a.cfg.Leagues.IndexPath,
	})
	stats, err := lc.Run(ctx)
	if err != nil {
		logger.Info("league crawl stopped",
			zap.Int("leagues", stats.Leagues),
			zap.Int("teams", stats.Teams),
			zap.Error(err),
		)
		return err
	}
	return nil
}
