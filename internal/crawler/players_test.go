package crawler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func detailFor(id int64, name string, club *Club) PlayerDetail {
	p := Player{ID: id, Name: name, Nationality: "Spain", Foot: FootRight, Position: PositionCF}
	if club != nil {
		clubName := club.Name
		p.ClubName = &clubName
	}
	return PlayerDetail{
		Player: p,
		Club:   club,
		Nation: Nation{Name: "Spain", Region: RegionEurope},
	}
}

func newPlayerCrawler(f Fetcher, parser PlayerParser, st *memStore) *PlayerCrawler {
	return NewPlayerCrawler(PlayerCrawlerConfig{
		Fetcher:  f,
		Parser:   parser,
		Upserter: NewUpserter(st, st),
		Cursor:   NewCursor(st, "page"),
		Logger:   zap.NewNop(),
		BasePath: "/pes2019/",
	})
}

func TestPlayerCrawlerSkipsExistingPlayers(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	st.players[1] = Player{ID: 1, Name: "Stored"}
	fetcher := &mapFetcher{pages: map[string][]byte{
		"/pes2019/?page=1": []byte("list-1"),
		"/pes2019/?id=2":   []byte("detail-2"),
	}}
	parser := &MockPlayerParser{}
	parser.On("ParsePlayerList", "list-1").Return(PlayerListPage{
		LastPage: 1,
		Rows:     []PlayerRow{{ID: 1, Name: "Stored"}, {ID: 2, Name: "New"}},
	}, nil)
	parser.On("ParsePlayerDetail", int64(2), "detail-2").
		Return(detailFor(2, "New", &Club{Name: "FC Test", League: "Liga"}), nil)

	stats, err := newPlayerCrawler(fetcher, parser, st).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, PlayerRunStats{Pages: 1, Created: 1, Skipped: 1}, stats)
	require.NotContains(t, fetcher.fetched, "/pes2019/?id=1")
	require.Equal(t, []string{"/pes2019/?page=1", "/pes2019/?id=2"}, fetcher.fetched)
	require.Equal(t, "Stored", st.players[1].Name)
	require.Equal(t, []int64{1, 2}, st.existsQ)
	require.Equal(t, 1, st.creates)
	require.Contains(t, st.clubs, "FC Test")
	require.Contains(t, st.nations, "Spain")
	parser.AssertNotCalled(t, "ParsePlayerDetail", int64(1), mock.Anything)
}

func TestPlayerCrawlerResumesFromCursor(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	st.cursors["page"] = 3
	fetcher := &mapFetcher{pages: map[string][]byte{
		"/pes2019/?page=3": []byte("list-3"),
		"/pes2019/?page=4": []byte("list-4"),
	}}
	parser := &MockPlayerParser{}
	parser.On("ParsePlayerList", "list-3").Return(PlayerListPage{LastPage: 4}, nil)
	parser.On("ParsePlayerList", "list-4").Return(PlayerListPage{LastPage: 4}, nil)

	stats, err := newPlayerCrawler(fetcher, parser, st).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, stats.Pages)
	require.Equal(t, []string{"/pes2019/?page=3", "/pes2019/?page=4"}, fetcher.fetched)
	require.Equal(t, 5, st.cursors["page"])
}

func TestPlayerCrawlerFollowsLastPageFromEveryListPage(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	fetcher := &mapFetcher{pages: map[string][]byte{
		"/pes2019/?page=1": []byte("list-1"),
		"/pes2019/?page=2": []byte("list-2"),
		"/pes2019/?page=3": []byte("list-3"),
	}}
	parser := &MockPlayerParser{}
	parser.On("ParsePlayerList", "list-1").Return(PlayerListPage{LastPage: 2}, nil)
	parser.On("ParsePlayerList", "list-2").Return(PlayerListPage{LastPage: 3}, nil)
	parser.On("ParsePlayerList", "list-3").Return(PlayerListPage{LastPage: 3}, nil)

	stats, err := newPlayerCrawler(fetcher, parser, st).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, stats.Pages)
	require.Equal(t, []string{"/pes2019/?page=1", "/pes2019/?page=2", "/pes2019/?page=3"}, fetcher.fetched)
	require.Equal(t, 4, st.cursors["page"])
	parser.AssertNumberOfCalls(t, "ParsePlayerList", 3)
}

func TestPlayerCrawlerInitializesCursorToFirstPage(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	fetcher := &mapFetcher{pages: map[string][]byte{"/pes2019/?page=1": []byte("list-1")}}
	parser := &MockPlayerParser{}
	parser.On("ParsePlayerList", "list-1").Return(PlayerListPage{LastPage: 1}, nil)

	_, err := newPlayerCrawler(fetcher, parser, st).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"/pes2019/?page=1"}, fetcher.fetched)
	require.Equal(t, 2, st.cursors["page"])
}

func TestPlayerCrawlerFreeAgentCreatesNoClub(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	fetcher := &mapFetcher{pages: map[string][]byte{
		"/pes2019/?page=1": []byte("list-1"),
		"/pes2019/?id=9":   []byte("detail-9"),
	}}
	parser := &MockPlayerParser{}
	parser.On("ParsePlayerList", "list-1").Return(PlayerListPage{
		LastPage: 1,
		Rows:     []PlayerRow{{ID: 9, Name: "Agent"}},
	}, nil)
	parser.On("ParsePlayerDetail", int64(9), "detail-9").Return(detailFor(9, "Agent", nil), nil)

	_, err := newPlayerCrawler(fetcher, parser, st).Run(context.Background())
	require.NoError(t, err)
	require.Empty(t, st.clubs)
	require.True(t, st.players[9].FreeAgent())
}

func TestPlayerCrawlerStopsOnParseErrorWithoutAdvancing(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	fetcher := &mapFetcher{pages: map[string][]byte{"/pes2019/?page=1": []byte("broken")}}
	parser := &MockPlayerParser{}
	parseErr := errors.New("pagination not found")
	parser.On("ParsePlayerList", "broken").Return(PlayerListPage{}, parseErr)

	_, err := newPlayerCrawler(fetcher, parser, st).Run(context.Background())
	require.ErrorIs(t, err, parseErr)
	require.Equal(t, 1, st.cursors["page"])
}

func TestPlayerCrawlerInterruptKeepsCursor(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	st.cursors["page"] = 2
	fetcher := &mapFetcher{errs: map[string]error{"/pes2019/?page=2": ErrInterrupted}}

	_, err := newPlayerCrawler(fetcher, &MockPlayerParser{}, st).Run(context.Background())
	require.ErrorIs(t, err, ErrInterrupted)
	require.Equal(t, 2, st.cursors["page"])
	require.Equal(t, []string{"get"}, st.cursorOp)
}
