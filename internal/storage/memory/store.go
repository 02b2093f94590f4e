// Package memory provides an in-memory implementation of the crawler stores
// for dry runs and tests. Nothing is persisted across processes.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/JakeFAU/pesdb-crawler/internal/crawler"
	"github.com/JakeFAU/pesdb-crawler/internal/store"
)

// Store keeps players, reference entities and cursors in maps.
type Store struct {
	mu      sync.RWMutex
	players map[int64]crawler.Player
	clubs   map[string]crawler.Club
	nations map[string]crawler.Nation
	leagues map[int64]crawler.League
	teams   map[int64]crawler.Team
	cursors map[string]int

	nextClubID   int64
	nextNationID int64
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		players: make(map[int64]crawler.Player),
		clubs:   make(map[string]crawler.Club),
		nations: make(map[string]crawler.Nation),
		leagues: make(map[int64]crawler.League),
		teams:   make(map[int64]crawler.Team),
		cursors: make(map[string]int),
	}
}

// PlayerExists reports whether id has been stored.
func (s *Store) PlayerExists(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.players[id]
	return ok, nil
}

// CreatePlayer stores p unless its id is already present.
func (s *Store) CreatePlayer(_ context.Context, p crawler.Player) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[p.ID]; ok {
		return false, nil
	}
	s.players[p.ID] = p
	return true, nil
}

// Player returns a stored player.
func (s *Store) Player(id int64) (crawler.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		return crawler.Player{}, fmt.Errorf("player %d: %w", id, store.ErrNotFound)
	}
	return p, nil
}

// FindOrCreateClub keys clubs by name. The first league seen for a club wins.
func (s *Store) FindOrCreateClub(_ context.Context, c crawler.Club) (crawler.Club, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.clubs[c.Name]; ok {
		return existing, false, nil
	}
	s.nextClubID++
	c.ID = s.nextClubID
	s.clubs[c.Name] = c
	return c, true, nil
}

// FindOrCreateNation keys nations by name. The first region seen wins.
func (s *Store) FindOrCreateNation(_ context.Context, n crawler.Nation) (crawler.Nation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.nations[n.Name]; ok {
		return existing, false, nil
	}
	s.nextNationID++
	n.ID = s.nextNationID
	s.nations[n.Name] = n
	return n, true, nil
}

// FindOrCreateLeague keys leagues by their site id.
func (s *Store) FindOrCreateLeague(_ context.Context, l crawler.League) (crawler.League, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.leagues[l.ID]; ok {
		return existing, false, nil
	}
	s.leagues[l.ID] = l
	return l, true, nil
}

// FindOrCreateTeam keys teams by their site id. The owning league must exist.
func (s *Store) FindOrCreateTeam(_ context.Context, t crawler.Team) (crawler.Team, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.teams[t.ID]; ok {
		return existing, false, nil
	}
	if _, ok := s.leagues[t.LeagueID]; !ok {
		return crawler.Team{}, false, fmt.Errorf("league %d: %w", t.LeagueID, store.ErrNotFound)
	}
	s.teams[t.ID] = t
	return t, true, nil
}

// Teams returns the teams of a league ordered by id.
func (s *Store) Teams(leagueID int64) []crawler.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []crawler.Team
	for _, t := range s.teams {
		if t.LeagueID == leagueID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Counts returns the number of stored players, clubs, nations, leagues and teams.
func (s *Store) Counts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]int{
		"player": len(s.players),
		"club":   len(s.clubs),
		"nation": len(s.nations),
		"league": len(s.leagues),
		"team":   len(s.teams),
	}
}

// GetOrInit returns the cursor value, storing def when the key is new.
func (s *Store) GetOrInit(_ context.Context, key string, def int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.cursors[key]
	if !ok {
		s.cursors[key] = def
		return def, nil
	}
	return v, nil
}

// Increment adds one to an existing cursor.
func (s *Store) Increment(_ context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.cursors[key]
	if !ok {
		return 0, fmt.Errorf("cursor %q: %w", key, store.ErrNotFound)
	}
	v++
	s.cursors[key] = v
	return v, nil
}

// Set overwrites the cursor value.
func (s *Store) Set(_ context.Context, key string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors[key] = value
	return nil
}
