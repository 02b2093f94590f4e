package crawler

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/JakeFAU/pesdb-crawler/internal/metrics"
)

// PlayerRunStats summarizes a player crawl.
type PlayerRunStats struct {
	Pages   int
	Created int
	Skipped int
}

// PlayerCrawler walks the pesdb player list page by page, starting at the
// durable cursor, and stores every player that is not yet known.
type PlayerCrawler struct {
	fetcher  Fetcher
	parser   PlayerParser
	upserter *Upserter
	cursor   *Cursor
	progress Progress
	logger   *zap.Logger
	basePath string
}

// PlayerCrawlerConfig carries the collaborators of a PlayerCrawler.
type PlayerCrawlerConfig struct {
	Fetcher  Fetcher
	Parser   PlayerParser
	Upserter *Upserter
	Cursor   *Cursor
	Progress Progress
	Logger   *zap.Logger
	// BasePath is the list and detail path, e.g. "/pes2019/".
	BasePath string
}

// NewPlayerCrawler wires a PlayerCrawler.
func NewPlayerCrawler(cfg PlayerCrawlerConfig) *PlayerCrawler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	progress := cfg.Progress
	if progress == nil {
		progress = NopProgress{}
	}
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/pes2019/"
	}
	return &PlayerCrawler{
		fetcher:  cfg.Fetcher,
		parser:   cfg.Parser,
		upserter: cfg.Upserter,
		cursor:   cfg.Cursor,
		progress: progress,
		logger:   logger,
		basePath: basePath,
	}
}

// Run processes list pages until the page it just finished is at or beyond
// the last page reported by that page. The cursor is advanced after every
// page, so a rerun resumes from the first unfinished page.
func (c *PlayerCrawler) Run(ctx context.Context) (PlayerRunStats, error) {
	var stats PlayerRunStats
	for {
		page, err := c.cursor.Current(ctx)
		if err != nil {
			return stats, err
		}
		lastPage, err := c.processPage(ctx, page, &stats)
		if err != nil {
			return stats, err
		}
		if _, err := c.cursor.Advance(ctx); err != nil {
			return stats, err
		}
		stats.Pages++
		metrics.ObservePage("players")
		if page >= lastPage {
			break
		}
	}
	c.logger.Info("player crawl finished",
		zap.Int("pages", stats.Pages),
		zap.Int("created", stats.Created),
		zap.Int("skipped", stats.Skipped),
	)
	return stats, nil
}

func (c *PlayerCrawler) processPage(ctx context.Context, page int, stats *PlayerRunStats) (int, error) {
	c.progress.Reset(0, fmt.Sprintf("Page %d", page))
	c.progress.Describe("Loading player list")
	body, err := c.fetcher.Fetch(ctx, c.listPath(page))
	if err != nil {
		return 0, err
	}
	list, err := c.parser.ParsePlayerList(body)
	if err != nil {
		return 0, fmt.Errorf("player list page %d: %w", page, err)
	}
	c.logger.Info("processing player list page",
		zap.Int("page", page),
		zap.Int("last_page", list.LastPage),
		zap.Int("rows", len(list.Rows)),
	)
	c.progress.Reset(len(list.Rows), fmt.Sprintf("Page %d/%d", page, list.LastPage))

	for _, row := range list.Rows {
		created, err := c.processPlayer(ctx, row)
		if err != nil {
			return 0, err
		}
		if created {
			stats.Created++
		} else {
			stats.Skipped++
		}
		c.progress.Advance()
	}
	c.progress.Finish()
	return list.LastPage, nil
}

func (c *PlayerCrawler) processPlayer(ctx context.Context, row PlayerRow) (bool, error) {
	exists, err := c.upserter.PlayerExists(ctx, row.ID)
	if err != nil {
		return false, err
	}
	if exists {
		c.logger.Debug("player already stored", zap.Int64("player_id", row.ID))
		return false, nil
	}
	c.progress.Describe("Loading player - " + row.Name)
	body, err := c.fetcher.Fetch(ctx, c.detailPath(row.ID))
	if err != nil {
		return false, err
	}
	detail, err := c.parser.ParsePlayerDetail(row.ID, body)
	if err != nil {
		return false, fmt.Errorf("player %d: %w", row.ID, err)
	}
	created, err := c.upserter.SavePlayer(ctx, detail)
	if err != nil {
		return false, err
	}
	c.logger.Debug("player stored",
		zap.Int64("player_id", row.ID),
		zap.String("name", detail.Player.Name),
	)
	return created, nil
}

func (c *PlayerCrawler) listPath(page int) string {
	return c.basePath + "?" + url.Values{"page": {strconv.Itoa(page)}}.Encode()
}

func (c *PlayerCrawler) detailPath(id int64) string {
	return c.basePath + "?" + url.Values{"id": {strconv.FormatInt(id, 10)}}.Encode()
}
