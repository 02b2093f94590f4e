package progress

import (
	"sync"

	"go.uber.org/zap"

	"github.com/JakeFAU/pesdb-crawler/internal/crawler"
)

// Log is a crawler.Progress that writes updates as structured logs. It is
// useful when stderr is not a terminal or the JSON encoder is active.
type Log struct {
	mu     sync.Mutex
	logger *zap.Logger
	title  string
	total  int
	done   int
}

var _ crawler.Progress = (*Log)(nil)

// NewLog wires a zap logger to the progress interface.
func NewLog(logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{logger: logger}
}

// Reset logs the start of a new stage.
func (l *Log) Reset(total int, title string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.title, l.total, l.done = title, total, 0
	l.logger.Info("progress", zap.String("stage", title), zap.Int("total", total))
}

// Describe logs the per-row message at debug level.
func (l *Log) Describe(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Debug("progress", zap.String("stage", l.title), zap.String("msg", msg))
}

// Advance counts one completed step.
func (l *Log) Advance() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.done++
}

// Finish logs the completed count for the stage.
func (l *Log) Finish() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Info("progress done",
		zap.String("stage", l.title),
		zap.Int("done", l.done),
		zap.Int("total", l.total),
	)
}

// Tee forwards every update to each renderer in order.
type Tee []crawler.Progress

var _ crawler.Progress = Tee(nil)

// Reset implements crawler.Progress.
func (t Tee) Reset(total int, title string) {
	for _, p := range t {
		p.Reset(total, title)
	}
}

// Describe implements crawler.Progress.
func (t Tee) Describe(msg string) {
	for _, p := range t {
		p.Describe(msg)
	}
}

// Advance implements crawler.Progress.
func (t Tee) Advance() {
	for _, p := range t {
		p.Advance()
	}
}

// Finish implements crawler.Progress.
func (t Tee) Finish() {
	for _, p := range t {
		p.Finish()
	}
}
