package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Worker is a long-running loop that returns when ctx is done.
type Worker interface {
	Start(ctx context.Context) error
}

// Manager starts and supervises a set of workers.
type Manager struct {
	workers []Worker
}

func NewManager(ws ...Worker) *Manager {
	return &Manager{workers: ws}
}

// Start runs every worker and blocks until all of them have returned.
// The first worker error cancels the others and is returned.
func (m *Manager) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, w := range m.workers {
		w := w
		g.Go(func() error {
			return w.Start(gctx)
		})
	}
	return g.Wait()
}

// periodKey buckets t by the digest frequency.
func periodKey(freq string, t time.Time) string {
	utc := t.UTC()
	switch strings.ToLower(strings.TrimSpace(freq)) {
	case "weekly":
		y, w := utc.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, w)
	default: // daily
		return utc.Format("2006-01-02")
	}
}
