package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JakeFAU/pesdb-crawler/internal/crawler"
)

// PlayerExists reports whether a player row with id exists.
func (s *Store) PlayerExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM players WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query player %d: %w", id, err)
	}
	return exists, nil
}

// CreatePlayer inserts the player unless a row with the same id exists. It
// reports whether a row was inserted.
func (s *Store) CreatePlayer(ctx context.Context, p crawler.Player) (bool, error) {
	positionsJSON, err := json.Marshal(p.PositionsAll)
	if err != nil {
		return false, fmt.Errorf("marshal positions: %w", err)
	}
	abilitiesJSON, err := json.Marshal(p.Abilities)
	if err != nil {
		return false, fmt.Errorf("marshal abilities: %w", err)
	}
	abilitiesAllJSON, err := json.Marshal(p.AbilitiesAll)
	if err != nil {
		return false, fmt.Errorf("marshal abilities_all: %w", err)
	}
	stylesJSON, err := json.Marshal(playingStyles(p.PlayingStyles))
	if err != nil {
		return false, fmt.Errorf("marshal playing styles: %w", err)
	}

	query := `
INSERT INTO players (
	id,
	name,
	club_team,
	club_number,
	nationality,
	height,
	weight,
	age,
	foot,
	position,
	positions_all,
	overall_rating,
	abilities,
	max_level,
	overall_at_max_level,
	abilities_all,
	playing_styles
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17
)
ON CONFLICT (id) DO NOTHING`

	args := []any{
		p.ID,
		p.Name,
		p.ClubName,
		p.ClubNumber,
		p.Nationality,
		p.Height,
		p.Weight,
		p.Age,
		string(p.Foot),
		string(p.Position),
		positionsJSON,
		p.OverallRating,
		abilitiesJSON,
		p.MaxLevel,
		p.OverallAtMaxLevel,
		abilitiesAllJSON,
		stylesJSON,
	}
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert player %d: %w", p.ID, err)
	}
	return tag.RowsAffected() == 1, nil
}

func playingStyles(styles []string) []string {
	if styles == nil {
		return []string{}
	}
	return styles
}
