package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"today-i-learned/internal/factstore"
	"today-i-learned/internal/model"
)

// FactSink receives mirrored facts, keeping their ids.
type FactSink interface {
	Put(ctx context.Context, f model.Fact) error
}

// MirrorWorker periodically copies the top facts of the remote table into a
// local sink, typically the Redis store used for offline browsing and digests.
type MirrorWorker struct {
	Source   factstore.Store
	Sink     FactSink
	Interval time.Duration
	Limit    int
	Log      *zap.Logger
}

func (w *MirrorWorker) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 10 * time.Minute
	}
	t := time.NewTicker(w.Interval)
	defer t.Stop()

	// initial run
	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.runOnce(ctx)
		}
	}
}

// runOnce returns how many facts were written.
func (w *MirrorWorker) runOnce(ctx context.Context) int {
	q := factstore.TopQuery("")
	if w.Limit > 0 {
		q.Limit = w.Limit
	}
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	facts, err := w.Source.List(ctx, q)
	if err != nil {
		log.Error("mirror: list failed", zap.Error(err))
		return 0
	}
	stored := 0
	for _, f := range facts {
		if f.ID == "" {
			continue
		}
		if err := w.Sink.Put(ctx, f); err != nil {
			log.Error("mirror: put failed", zap.String("id", f.ID.String()), zap.Error(err))
			continue
		}
		stored++
	}
	log.Info("mirror: completed", zap.Int("fetched", len(facts)), zap.Int("stored", stored))
	return stored
}
