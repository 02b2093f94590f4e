package crawler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLeagueCrawlerIsIdempotent(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	leagueURI := "https://www.pesmaster.com/premier-league/pes-2019/league/39/"
	fetcher := &mapFetcher{pages: map[string][]byte{
		"/pes-2019/": []byte("index"),
		leagueURI:    []byte("teams"),
	}}
	parser := &MockLeagueParser{}
	parser.On("ParseLeagueList", "index").Return([]LeagueRow{{Href: leagueURI, Name: "Premier League"}}, nil)
	parser.On("ParseTeamTable", "teams").Return([]TeamRow{
		{Href: "/arsenal/pes-2019/team/101/", Name: "Arsenal", Stats: TeamStats{80, 78, 81, 82, 75, 79}},
		{Href: "/chelsea/pes-2019/team/102/", Name: "Chelsea", Stats: TeamStats{81, 80, 80, 79, 77, 76}},
	}, nil)

	crawler := NewLeagueCrawler(LeagueCrawlerConfig{
		Fetcher:   fetcher,
		Parser:    parser,
		Upserter:  NewUpserter(st, st),
		Logger:    zap.NewNop(),
		IndexPath: "/pes-2019/",
	})

	first, err := crawler.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, LeagueRunStats{Leagues: 1, LeaguesCreated: 1, Teams: 2, TeamsCreated: 2}, first)

	second, err := crawler.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, LeagueRunStats{Leagues: 1, Teams: 2}, second)

	require.Len(t, st.leagues, 1)
	require.Len(t, st.teams, 2)
	require.Equal(t, League{ID: 39, Name: "Premier League", URI: leagueURI}, st.leagues[39])
	require.Equal(t, int64(39), st.teams[101].LeagueID)
	require.Equal(t, 80, st.teams[101].Stats.Overall)
}

func TestLeagueCrawlerKeepsFirstAttributesOnRerun(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	leagueURI := "/premier-league/pes-2019/league/39/"
	firstStats := TeamStats{Overall: 80, Defense: 78, Midfield: 81, Forward: 82, Physical: 75, Speed: 79}
	run := func(leagueName string, stats TeamStats) LeagueRunStats {
		t.Helper()
		fetcher := &mapFetcher{pages: map[string][]byte{
			"/pes-2019/": []byte("index"),
			leagueURI:    []byte("teams"),
		}}
		parser := &MockLeagueParser{}
		parser.On("ParseLeagueList", "index").Return([]LeagueRow{{Href: leagueURI, Name: leagueName}}, nil)
		parser.On("ParseTeamTable", "teams").Return([]TeamRow{
			{Href: "/arsenal/pes-2019/team/101/", Name: "Arsenal", Stats: stats},
		}, nil)
		got, err := NewLeagueCrawler(LeagueCrawlerConfig{
			Fetcher:   fetcher,
			Parser:    parser,
			Upserter:  NewUpserter(st, st),
			IndexPath: "/pes-2019/",
		}).Run(context.Background())
		require.NoError(t, err)
		return got
	}

	run("English League", firstStats)
	second := run("Premier League Renamed", TeamStats{Overall: 60, Defense: 60, Midfield: 60, Forward: 60, Physical: 60, Speed: 60})

	require.Equal(t, LeagueRunStats{Leagues: 1, Teams: 1}, second)
	require.Equal(t, "English League", st.leagues[39].Name)
	require.Equal(t, firstStats, st.teams[101].Stats)
}

func TestLeagueCrawlerRejectsNonNumericID(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	fetcher := &mapFetcher{pages: map[string][]byte{"/pes-2019/": []byte("index")}}
	parser := &MockLeagueParser{}
	parser.On("ParseLeagueList", "index").Return([]LeagueRow{{Href: "/league/abc/", Name: "Broken"}}, nil)

	_, err := NewLeagueCrawler(LeagueCrawlerConfig{
		Fetcher:  fetcher,
		Parser:   parser,
		Upserter: NewUpserter(st, st),
	}).Run(context.Background())
	require.Error(t, err)
	require.Empty(t, st.leagues)
}

func TestIDFromURI(t *testing.T) {
	t.Parallel()

	id, err := IDFromURI("https://www.pesmaster.com/la-liga/pes-2019/league/12/")
	require.NoError(t, err)
	require.Equal(t, int64(12), id)

	id, err = IDFromURI("/team/77")
	require.NoError(t, err)
	require.Equal(t, int64(77), id)

	_, err = IDFromURI("/team/")
	require.Error(t, err)
}
