package crawler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/JakeFAU/pesdb-crawler/internal/metrics"
)

// LeagueRunStats summarizes a league crawl.
type LeagueRunStats struct {
	Leagues        int
	LeaguesCreated int
	Teams          int
	TeamsCreated   int
}

// LeagueCrawler loads the pesmaster league index and the team table of every
// league in one pass. It keeps no cursor; reruns rely on find-or-create.
type LeagueCrawler struct {
	fetcher   Fetcher
	parser    LeagueParser
	upserter  *Upserter
	progress  Progress
	logger    *zap.Logger
	indexPath string
}

// LeagueCrawlerConfig carries the collaborators of a LeagueCrawler.
type LeagueCrawlerConfig struct {
	Fetcher  Fetcher
	Parser   LeagueParser
	Upserter *Upserter
	Progress Progress
	Logger   *zap.Logger
	// IndexPath is the league index path, e.g. "/pes-2019/".
	IndexPath string
}

// NewLeagueCrawler wires a LeagueCrawler.
func NewLeagueCrawler(cfg LeagueCrawlerConfig) *LeagueCrawler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	progress := cfg.Progress
	if progress == nil {
		progress = NopProgress{}
	}
	indexPath := cfg.IndexPath
	if indexPath == "" {
		indexPath = "/pes-2019/"
	}
	return &LeagueCrawler{
		fetcher:   cfg.Fetcher,
		parser:    cfg.Parser,
		upserter:  cfg.Upserter,
		progress:  progress,
		logger:    logger,
		indexPath: indexPath,
	}
}

// Run fetches the league index and stores each league with its teams.
func (c *LeagueCrawler) Run(ctx context.Context) (LeagueRunStats, error) {
	var stats LeagueRunStats
	body, err := c.fetcher.Fetch(ctx, c.indexPath)
	if err != nil {
		return stats, err
	}
	rows, err := c.parser.ParseLeagueList(body)
	if err != nil {
		return stats, fmt.Errorf("league index: %w", err)
	}
	metrics.ObservePage("leagues")

	c.progress.Reset(len(rows), "Leagues")
	for _, row := range rows {
		c.progress.Describe("Loading " + row.Name)
		league, created, err := c.upserter.SaveLeague(ctx, row)
		if err != nil {
			return stats, err
		}
		stats.Leagues++
		if created {
			stats.LeaguesCreated++
		}
		if err := c.loadTeams(ctx, league, &stats); err != nil {
			return stats, err
		}
		c.progress.Advance()
	}
	c.progress.Finish()

	c.logger.Info("league crawl finished",
		zap.Int("leagues", stats.Leagues),
		zap.Int("leagues_created", stats.LeaguesCreated),
		zap.Int("teams", stats.Teams),
		zap.Int("teams_created", stats.TeamsCreated),
	)
	return stats, nil
}

func (c *LeagueCrawler) loadTeams(ctx context.Context, league League, stats *LeagueRunStats) error {
	body, err := c.fetcher.Fetch(ctx, league.URI)
	if err != nil {
		return err
	}
	rows, err := c.parser.ParseTeamTable(body)
	if err != nil {
		return fmt.Errorf("league %d team table: %w", league.ID, err)
	}
	metrics.ObservePage("leagues")
	for _, row := range rows {
		_, created, err := c.upserter.SaveTeam(ctx, league.ID, row)
		if err != nil {
			return err
		}
		stats.Teams++
		if created {
			stats.TeamsCreated++
		}
	}
	c.logger.Debug("league teams stored",
		zap.Int64("league_id", league.ID),
		zap.Int("teams", len(rows)),
	)
	return nil
}
