package crawler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCursorDefaultsOnce(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	c := NewCursor(st, "")
	require.Equal(t, DefaultCursorKey, c.Key())

	page, err := c.Current(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, page)

	next, err := c.Advance(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, next)

	page, err = c.Current(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, page)
}

func TestCursorResetAndCanceledAdvance(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	st.cursors["page"] = 40
	c := NewCursor(st, "page")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	next, err := c.Advance(ctx)
	require.NoError(t, err)
	require.Equal(t, 41, next)

	require.NoError(t, c.Reset(context.Background()))
	page, err := c.Current(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, page)
}
