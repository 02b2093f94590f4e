package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/JakeFAU/pesdb-crawler/internal/crawler"
	"github.com/JakeFAU/pesdb-crawler/internal/store"
)

// Each find-or-create inserts with ON CONFLICT DO NOTHING RETURNING. When the
// natural key already exists no row is returned and the stored row is read
// back unchanged.

// FindOrCreateClub looks up a club by name, creating it with its league when absent.
func (s *Store) FindOrCreateClub(ctx context.Context, club crawler.Club) (crawler.Club, bool, error) {
	var out crawler.Club
	err := s.pool.QueryRow(ctx, `
INSERT INTO clubs (name, league) VALUES ($1, $2)
ON CONFLICT (name) DO NOTHING
RETURNING id, name, league`, club.Name, club.League).Scan(&out.ID, &out.Name, &out.League)
	if err == nil {
		return out, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return crawler.Club{}, false, fmt.Errorf("insert club: %w", err)
	}
	err = s.pool.QueryRow(ctx, `SELECT id, name, league FROM clubs WHERE name = $1`, club.Name).
		Scan(&out.ID, &out.Name, &out.League)
	if err != nil {
		return crawler.Club{}, false, fmt.Errorf("select club: %w", notFound(err))
	}
	return out, false, nil
}

// FindOrCreateNation looks up a nation by name, creating it with its region when absent.
func (s *Store) FindOrCreateNation(ctx context.Context, nation crawler.Nation) (crawler.Nation, bool, error) {
	var (
		out    crawler.Nation
		region string
	)
	err := s.pool.QueryRow(ctx, `
INSERT INTO nations (name, region) VALUES ($1, $2::nation_region)
ON CONFLICT (name) DO NOTHING
RETURNING id, name, region::text`, nation.Name, string(nation.Region)).Scan(&out.ID, &out.Name, &region)
	if err == nil {
		out.Region = crawler.Region(region)
		return out, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return crawler.Nation{}, false, fmt.Errorf("insert nation: %w", err)
	}
	err = s.pool.QueryRow(ctx, `SELECT id, name, region::text FROM nations WHERE name = $1`, nation.Name).
		Scan(&out.ID, &out.Name, &region)
	if err != nil {
		return crawler.Nation{}, false, fmt.Errorf("select nation: %w", notFound(err))
	}
	out.Region = crawler.Region(region)
	return out, false, nil
}

// FindOrCreateLeague looks up a league by id, creating it when absent.
func (s *Store) FindOrCreateLeague(ctx context.Context, league crawler.League) (crawler.League, bool, error) {
	var out crawler.League
	err := s.pool.QueryRow(ctx, `
INSERT INTO leagues (id, name, uri) VALUES ($1, $2, $3)
ON CONFLICT (id) DO NOTHING
RETURNING id, name, uri`, league.ID, league.Name, league.URI).Scan(&out.ID, &out.Name, &out.URI)
	if err == nil {
		return out, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return crawler.League{}, false, fmt.Errorf("insert league: %w", err)
	}
	err = s.pool.QueryRow(ctx, `SELECT id, name, uri FROM leagues WHERE id = $1`, league.ID).
		Scan(&out.ID, &out.Name, &out.URI)
	if err != nil {
		return crawler.League{}, false, fmt.Errorf("select league: %w", notFound(err))
	}
	return out, false, nil
}

// FindOrCreateTeam looks up a team by id, creating it when absent.
func (s *Store) FindOrCreateTeam(ctx context.Context, team crawler.Team) (crawler.Team, bool, error) {
	var out crawler.Team
	scan := func(row pgx.Row) error {
		return row.Scan(
			&out.ID, &out.LeagueID, &out.Name, &out.URI,
			&out.Stats.Overall, &out.Stats.Defense, &out.Stats.Midfield,
			&out.Stats.Forward, &out.Stats.Physical, &out.Stats.Speed,
		)
	}
	err := scan(s.pool.QueryRow(ctx, `
INSERT INTO teams (id, league_id, name, uri, ovr, def, mid, fwd, phy, spd)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO NOTHING
RETURNING id, league_id, name, uri, ovr, def, mid, fwd, phy, spd`,
		team.ID, team.LeagueID, team.Name, team.URI,
		team.Stats.Overall, team.Stats.Defense, team.Stats.Midfield,
		team.Stats.Forward, team.Stats.Physical, team.Stats.Speed,
	))
	if err == nil {
		return out, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return crawler.Team{}, false, fmt.Errorf("insert team: %w", err)
	}
	err = scan(s.pool.QueryRow(ctx, `
SELECT id, league_id, name, uri, ovr, def, mid, fwd, phy, spd
FROM teams WHERE id = $1`, team.ID))
	if err != nil {
		return crawler.Team{}, false, fmt.Errorf("select team: %w", notFound(err))
	}
	return out, false, nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}
