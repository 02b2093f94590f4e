package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/pesdb-crawler/internal/crawler"
	"github.com/JakeFAU/pesdb-crawler/internal/parser"
)

func newPlayersCmd() *cobra.Command {
	var resetCursor bool
	cmd := &cobra.Command{
		Use:   "players",
		Short: "Crawl the pesdb.net player list",
		Long: `Walks the pesdb.net player list starting at the stored page cursor.
Players already in the store are skipped without fetching their detail page.
The cursor advances after every completed page, so an interrupted crawl
resumes where it stopped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			return runPlayers(cmd, a, resetCursor)
		},
	}
	cmd.Flags().BoolVar(&resetCursor, "reset-cursor", false, "start again from page 1")
	return cmd
}

func runPlayers(cmd *cobra.Command, a *app, resetCursor bool) error {
	ctx := cmd.Context()
	logger := a.logger.Named("players")

	st, err := a.openStores(ctx)
	if err != nil {
		return err
	}
	cursor := crawler.NewCursor(st.cursors, a.cfg.Players.CursorKey)
	if resetCursor {
		if err := cursor.Reset(ctx); err != nil {
			return err
		}
		logger.Info("cursor reset", zap.String("key", cursor.Key()))
	}

	fetcher, err := a.newFetcher(a.cfg.Players.BaseURL)
	if err != nil {
		return err
	}
	pc := crawler.NewPlayerCrawler(crawler.PlayerCrawlerConfig{
		Fetcher:  fetcher,
		Parser:   parser.NewPESDB(),
		Upserter: crawler.NewUpserter(st.players, st.refs),
		Cursor:   cursor,
		Progress: a.newProgress(),
		Logger:   logger,
		BasePath: a.cfg.Players.Path,
	})
	stats, err := pc.Run(ctx)
	if err != nil {
		logger.Info("player crawl stopped",
			zap.Int("pages", stats.Pages),
			zap.Int("created", stats.Created),
			zap.Int("skipped", stats.Skipped),
			zap.Error(err),
		)
		return err
	}
	return nil
}
