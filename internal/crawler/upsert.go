package crawler

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/JakeFAU/pesdb-crawler/internal/metrics"
)

// Upserter writes parsed rows through the persistence interfaces. Writes run
// on a non-cancelable context so an interrupt never leaves a write half done.
type Upserter struct {
	players PlayerStore
	refs    ReferenceStore
}

// NewUpserter wires an Upserter.
func NewUpserter(players PlayerStore, refs ReferenceStore) *Upserter {
	return &Upserter{players: players, refs: refs}
}

// PlayerExists reports whether the player id is already stored.
func (u *Upserter) PlayerExists(ctx context.Context, id int64) (bool, error) {
	exists, err := u.players.PlayerExists(context.WithoutCancel(ctx), id)
	if err != nil {
		return false, fmt.Errorf("check player %d: %w", id, err)
	}
	return exists, nil
}

// SavePlayer resolves the nation and club of a parsed detail page and then
// creates the player. It reports whether the player row was inserted.
func (u *Upserter) SavePlayer(ctx context.Context, detail PlayerDetail) (bool, error) {
	ctx = context.WithoutCancel(ctx)

	_, created, err := u.refs.FindOrCreateNation(ctx, detail.Nation)
	if err != nil {
		return false, fmt.Errorf("save nation %q: %w", detail.Nation.Name, err)
	}
	metrics.ObserveRecord("nation", created)

	if detail.Club != nil {
		_, created, err = u.refs.FindOrCreateClub(ctx, *detail.Club)
		if err != nil {
			return false, fmt.Errorf("save club %q: %w", detail.Club.Name, err)
		}
		metrics.ObserveRecord("club", created)
	}

	created, err = u.players.CreatePlayer(ctx, detail.Player)
	if err != nil {
		return false, fmt.Errorf("save player %d: %w", detail.Player.ID, err)
	}
	metrics.ObserveRecord("player", created)
	return created, nil
}

// SaveLeague finds or creates the league behind an index row.
func (u *Upserter) SaveLeague(ctx context.Context, row LeagueRow) (League, bool, error) {
	id, err := IDFromURI(row.Href)
	if err != nil {
		return League{}, false, err
	}
	league, created, err := u.refs.FindOrCreateLeague(context.WithoutCancel(ctx), League{
		ID:   id,
		Name: row.Name,
		URI:  row.Href,
	})
	if err != nil {
		return League{}, false, fmt.Errorf("save league %d: %w", id, err)
	}
	metrics.ObserveRecord("league", created)
	return league, created, nil
}

// SaveTeam finds or creates the team behind a team table row.
func (u *Upserter) SaveTeam(ctx context.Context, leagueID int64, row TeamRow) (Team, bool, error) {
	id, err := IDFromURI(row.Href)
	if err != nil {
		return Team{}, false, err
	}
	team, created, err := u.refs.FindOrCreateTeam(context.WithoutCancel(ctx), Team{
		ID:       id,
		LeagueID: leagueID,
		Name:     row.Name,
		URI:      row.Href,
		Stats:    row.Stats,
	})
	if err != nil {
		return Team{}, false, fmt.Errorf("save team %d: %w", id, err)
	}
	metrics.ObserveRecord("team", created)
	return team, created, nil
}

// IDFromURI derives an entity id from the last path segment of a URI.
func IDFromURI(uri string) (int64, error) {
	segment := path.Base(strings.TrimRight(strings.TrimSpace(uri), "/"))
	id, err := strconv.ParseInt(segment, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("derive id from %q: %w", uri, err)
	}
	return id, nil
}
