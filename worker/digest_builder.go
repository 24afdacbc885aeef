package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"today-i-learned/internal/ai"
	"today-i-learned/internal/digest"
	"today-i-learned/internal/factstore"
	"today-i-learned/internal/model"
)

// PublishMarker remembers which periods already got a digest.
type PublishMarker interface {
	IsPublished(ctx context.Context, period string) (bool, error)
	MarkPublished(ctx context.Context, period string) error
}

// DigestBuilder writes a markdown digest of the most interesting facts once
// per period.
type DigestBuilder struct {
	Store      factstore.Store
	Marker     PublishMarker // nil disables de-duplication
	Frequency  string        // daily | weekly
	TopN       int
	OutputDir  string
	Interval   time.Duration // how often to evaluate/publish
	Title      string
	Preface    string
	Postscript string
	Language   string
	Summarizer ai.Assistant
	Log        *zap.Logger

	now func() time.Time
}

func (w *DigestBuilder) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 30 * time.Minute
	}
	if err := os.MkdirAll(w.OutputDir, 0o755); err != nil {
		return err
	}
	// run immediately then on interval
	w.runOnce(ctx)

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.runOnce(ctx)
		}
	}
}

func (w *DigestBuilder) logger() *zap.Logger {
	if w.Log == nil {
		return zap.NewNop()
	}
	return w.Log
}

func (w *DigestBuilder) clock() time.Time {
	if w.now != nil {
		return w.now()
	}
	return time.Now()
}

// runOnce publishes the current period's digest unless it exists already.
// It returns the written path, or "" when nothing was written.
func (w *DigestBuilder) runOnce(ctx context.Context) string {
	log := w.logger()
	period := periodKey(w.frequency(), w.clock())
	if w.Marker != nil {
		published, err := w.Marker.IsPublished(ctx, period)
		if err != nil {
			log.Error("builder: check published", zap.Error(err))
			return ""
		}
		if published {
			return ""
		}
	}
	md, err := w.Render(ctx)
	if err != nil {
		log.Error("builder: render", zap.Error(err))
		return ""
	}
	path := filepath.Join(w.OutputDir, w.filename())
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		log.Error("builder: write file", zap.Error(err))
		return ""
	}
	if w.Marker != nil {
		if err := w.Marker.MarkPublished(ctx, period); err != nil {
			log.Error("builder: mark published", zap.Error(err))
		}
	}
	log.Info("builder: published digest", zap.String("path", path), zap.String("period", period))
	return path
}

func (w *DigestBuilder) frequency() string {
	if f := strings.ToLower(strings.TrimSpace(w.Frequency)); f != "" {
		return f
	}
	return "daily"
}

func (w *DigestBuilder) filename() string {
	return fmt.Sprintf("%s-%s.md", w.frequency(), w.clock().UTC().Format("20060102"))
}

// Top returns the TopN most interesting facts, skipping disputed ones.
func (w *DigestBuilder) Top(ctx context.Context) ([]model.Fact, error) {
	if w.Store == nil {
		return nil, errors.New("digest: no store")
	}
	n := w.TopN
	if n <= 0 {
		n = 10
	}
	facts, err := w.Store.List(ctx, factstore.TopQuery(""))
	if err != nil {
		return nil, fmt.Errorf("digest: list facts: %w", err)
	}
	out := make([]model.Fact, 0, n)
	for _, f := range facts {
		if f.IsDisputed() {
			continue
		}
		out = append(out, f)
		if len(out) == n {
			break
		}
	}
	return out, nil
}

// Render builds the digest markdown for the current time.
func (w *DigestBuilder) Render(ctx context.Context) (string, error) {
	facts, err := w.Top(ctx)
	if err != nil {
		return "", err
	}
	now := w.clock()
	title := strings.TrimSpace(w.Title)
	if title == "" {
		title = "Today I learned {.CurrentDate}"
	}
	data := digest.Data{
		Title:      digest.ExpandVars(title, now),
		Slug:       strings.TrimSuffix(w.filename(), ".md"),
		Datetime:   now.UTC().Format("2006-01-02 15:04"),
		Preface:    digest.ExpandVars(w.Preface, now),
		Postscript: digest.ExpandVars(w.Postscript, now),
		Facts:      digest.Items(facts),
	}
	if w.Summarizer != nil && len(facts) > 0 {
		s, err := w.Summarizer.SummarizeFacts(ctx, facts, w.Language)
		if err != nil {
			w.logger().Warn("builder: summary failed", zap.Error(err))
		}
		data.Summary = s
	}
	return digest.Render(data)
}
