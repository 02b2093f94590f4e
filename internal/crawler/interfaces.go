package crawler

import (
	"context"
	"time"
)

// Getter performs a single GET attempt against a fixed origin. It does not
// retry; failures are classified by the caller.
type Getter interface {
	Get(ctx context.Context, path string) (FetchResponse, error)
}

// Fetcher returns the body for a path, hiding retries from the caller.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// Clock returns the current time and blocks for backoff pauses (useful for testing).
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

// IDGenerator produces run IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}

// PlayerParser turns pesdb pages into typed rows.
type PlayerParser interface {
	ParsePlayerList(body []byte) (PlayerListPage, error)
	ParsePlayerDetail(id int64, body []byte) (PlayerDetail, error)
}

// LeagueParser turns pesmaster pages into typed rows.
type LeagueParser interface {
	ParseLeagueList(body []byte) ([]LeagueRow, error)
	ParseTeamTable(body []byte) ([]TeamRow, error)
}

// PlayerStore persists players. CreatePlayer never overwrites an existing row
// and reports whether a row was inserted.
type PlayerStore interface {
	PlayerExists(ctx context.Context, id int64) (bool, error)
	CreatePlayer(ctx context.Context, player Player) (bool, error)
}

// ReferenceStore looks up reference entities by natural key and creates them
// when absent. Existing rows are returned untouched.
type ReferenceStore interface {
	FindOrCreateClub(ctx context.Context, club Club) (Club, bool, error)
	FindOrCreateNation(ctx context.Context, nation Nation) (Nation, bool, error)
	FindOrCreateLeague(ctx context.Context, league League) (League, bool, error)
	FindOrCreateTeam(ctx context.Context, team Team) (Team, bool, error)
}

// CursorStore keeps named integer counters.
type CursorStore interface {
	// GetOrInit returns the stored value, writing def first if the key is absent.
	GetOrInit(ctx context.Context, key string, def int) (int, error)
	// Increment atomically adds one and returns the new value.
	Increment(ctx context.Context, key string) (int, error)
	// Set overwrites the value.
	Set(ctx context.Context, key string, value int) error
}

// Progress renders crawl progress for an operator.
type Progress interface {
	Reset(total int, title string)
	Describe(msg string)
	Advance()
	Finish()
}

// FetchResponse is the result returned by a Getter implementation.
type FetchResponse struct {
	URL        string
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

// NopProgress discards progress updates.
type NopProgress struct{}

// Reset implements Progress.
func (NopProgress) Reset(int, string) {}

// Describe implements Progress.
func (NopProgress) Describe(string) {}

// Advance implements Progress.
func (NopProgress) Advance() {}

// Finish implements Progress.
func (NopProgress) Finish() {}
