package crawler

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// fakeClock records requested sleeps without blocking.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

func (c *fakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

type getResult struct {
	body []byte
	err  error
}

// scriptedGetter replays queued results and records requested paths.
type scriptedGetter struct {
	results []getResult
	paths   []string
}

func (g *scriptedGetter) Get(_ context.Context, path string) (FetchResponse, error) {
	g.paths = append(g.paths, path)
	if len(g.results) == 0 {
		return FetchResponse{StatusCode: 200, Body: []byte("default")}, nil
	}
	next := g.results[0]
	g.results = g.results[1:]
	if next.err != nil {
		return FetchResponse{}, next.err
	}
	return FetchResponse{StatusCode: 200, Body: next.body}, nil
}

// mapFetcher serves bodies by path and records every fetch.
type mapFetcher struct {
	pages   map[string][]byte
	fetched []string
	errs    map[string]error
}

func (f *mapFetcher) Fetch(_ context.Context, path string) ([]byte, error) {
	f.fetched = append(f.fetched, path)
	if err, ok := f.errs[path]; ok {
		return nil, err
	}
	return f.pages[path], nil
}

// MockPlayerParser is a mock implementation of the PlayerParser interface.
type MockPlayerParser struct {
	mock.Mock
}

func (m *MockPlayerParser) ParsePlayerList(body []byte) (PlayerListPage, error) {
	args := m.Called(string(body))
	return args.Get(0).(PlayerListPage), args.Error(1)
}

func (m *MockPlayerParser) ParsePlayerDetail(id int64, body []byte) (PlayerDetail, error) {
	args := m.Called(id, string(body))
	return args.Get(0).(PlayerDetail), args.Error(1)
}

// MockLeagueParser is a mock implementation of the LeagueParser interface.
type MockLeagueParser struct {
	mock.Mock
}

func (m *MockLeagueParser) ParseLeagueList(body []byte) ([]LeagueRow, error) {
	args := m.Called(string(body))
	return args.Get(0).([]LeagueRow), args.Error(1)
}

func (m *MockLeagueParser) ParseTeamTable(body []byte) ([]TeamRow, error) {
	args := m.Called(string(body))
	return args.Get(0).([]TeamRow), args.Error(1)
}

// memStore keeps players, references and cursors in maps.
type memStore struct {
	mu       sync.Mutex
	players  map[int64]Player
	clubs    map[string]Club
	nations  map[string]Nation
	leagues  map[int64]League
	teams    map[int64]Team
	cursors  map[string]int
	nextID   int64
	creates  int
	existsQ  []int64
	cursorOp []string
}

func newMemStore() *memStore {
	return &memStore{
		players: map[int64]Player{},
		clubs:   map[string]Club{},
		nations: map[string]Nation{},
		leagues: map[int64]League{},
		teams:   map[int64]Team{},
		cursors: map[string]int{},
	}
}

func (s *memStore) PlayerExists(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.existsQ = append(s.existsQ, id)
	_, ok := s.players[id]
	return ok, nil
}

func (s *memStore) CreatePlayer(_ context.Context, p Player) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[p.ID]; ok {
		return false, nil
	}
	s.players[p.ID] = p
	s.creates++
	return true, nil
}

func (s *memStore) FindOrCreateClub(_ context.Context, c Club) (Club, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.clubs[c.Name]; ok {
		return existing, false, nil
	}
	s.nextID++
	c.ID = s.nextID
	s.clubs[c.Name] = c
	return c, true, nil
}

func (s *memStore) FindOrCreateNation(_ context.Context, n Nation) (Nation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.nations[n.Name]; ok {
		return existing, false, nil
	}
	s.nextID++
	n.ID = s.nextID
	s.nations[n.Name] = n
	return n, true, nil
}

func (s *memStore) FindOrCreateLeague(_ context.Context, l League) (League, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.leagues[l.ID]; ok {
		return existing, false, nil
	}
	s.leagues[l.ID] = l
	return l, true, nil
}

func (s *memStore) FindOrCreateTeam(_ context.Context, t Team) (Team, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.teams[t.ID]; ok {
		return existing, false, nil
	}
	s.teams[t.ID] = t
	return t, true, nil
}

func (s *memStore) GetOrInit(_ context.Context, key string, def int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursorOp = append(s.cursorOp, "get")
	v, ok := s.cursors[key]
	if !ok {
		s.cursors[key] = def
		return def, nil
	}
	return v, nil
}

func (s *memStore) Increment(_ context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursorOp = append(s.cursorOp, "inc")
	s.cursors[key]++
	return s.cursors[key], nil
}

func (s *memStore) Set(_ context.Context, key string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursorOp = append(s.cursorOp, "set")
	s.cursors[key] = value
	return nil
}
