package progress

import (
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/JakeFAU/pesdb-crawler/internal/crawler"
)

// Bar is a crawler.Progress backed by a terminal progress bar. Each Reset
// starts a new bar titled with the current page or stage.
type Bar struct {
	mu    sync.Mutex
	w     io.Writer
	title string
	bar   *progressbar.ProgressBar
}

var _ crawler.Progress = (*Bar)(nil)

// NewBar draws to w, or to stderr when w is nil.
func NewBar(w io.Writer) *Bar {
	if w == nil {
		w = os.Stderr
	}
	return &Bar{w: w}
}

// Reset finishes any current bar and starts a new one with total steps. A
// total of zero or less draws a spinner until the next Reset.
func (b *Bar) Reset(total int, title string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.finishLocked()
	b.title = title
	if total <= 0 {
		total = -1
	}
	b.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(b.w),
		progressbar.OptionSetDescription(title),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(b.w, "\n") }),
	)
}

// Describe replaces the message shown after the title.
func (b *Bar) Describe(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bar == nil {
		return
	}
	if b.title == "" {
		b.bar.Describe(msg)
		return
	}
	b.bar.Describe(b.title + " " + msg)
}

// Advance moves the bar one step.
func (b *Bar) Advance() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bar == nil {
		return
	}
	_ = b.bar.Add(1)
}

// Finish completes the current bar.
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.finishLocked()
}

func (b *Bar) finishLocked() {
	if b.bar == nil {
		return
	}
	if !b.bar.IsFinished() {
		_ = b.bar.Finish()
	}
	b.bar = nil
}
