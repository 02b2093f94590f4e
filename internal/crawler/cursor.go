package crawler

import (
	"context"
	"fmt"
)

// DefaultCursorKey names the player list cursor.
const DefaultCursorKey = "page"

// Cursor is the durable page counter of the player crawl. The first read
// initializes it to 1; afterwards it only moves forward through Advance.
type Cursor struct {
	store CursorStore
	key   string
}

// NewCursor binds a Cursor to a key in the store.
func NewCursor(store CursorStore, key string) *Cursor {
	if key == "" {
		key = DefaultCursorKey
	}
	return &Cursor{store: store, key: key}
}

// Key returns the cursor name.
func (c *Cursor) Key() string {
	return c.key
}

// Current returns the page to process next.
func (c *Cursor) Current(ctx context.Context) (int, error) {
	page, err := c.store.GetOrInit(ctx, c.key, 1)
	if err != nil {
		return 0, fmt.Errorf("read cursor %q: %w", c.key, err)
	}
	return page, nil
}

// Advance moves the cursor one page forward and returns the new value.
func (c *Cursor) Advance(ctx context.Context) (int, error) {
	page, err := c.store.Increment(context.WithoutCancel(ctx), c.key)
	if err != nil {
		return 0, fmt.Errorf("advance cursor %q: %w", c.key, err)
	}
	return page, nil
}

// Reset rewinds the cursor to the first page.
func (c *Cursor) Reset(ctx context.Context) error {
	if err := c.store.Set(context.WithoutCancel(ctx), c.key, 1); err != nil {
		return fmt.Errorf("reset cursor %q: %w", c.key, err)
	}
	return nil
}
