package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"today-i-learned/internal/ai"
	"today-i-learned/internal/category"
	"today-i-learned/internal/config"
	"today-i-learned/internal/factlist"
	"today-i-learned/internal/factstore"
	"today-i-learned/internal/form"
	"today-i-learned/internal/model"
	"today-i-learned/internal/redisclient"
	"today-i-learned/internal/storage"
	"today-i-learned/internal/supabase"
	"today-i-learned/internal/view"
)

// demoFacts seed the memory backend so the browser has something to show offline.
var demoFacts = []model.Fact{
	{Text: "React is being developed by Meta (formerly facebook)", Source: "https://opensource.fb.com/", Category: "technology", VotesInteresting: 24, VotesMindblowing: 9, VotesFalse: 4, CreatedYear: 2021},
	{Text: "Millennial dads spend 3 times as much time with their kids than their fathers spent with them. In 1982, 43% of fathers had never changed a diaper. Today, that number is down to 3%", Source: "https://www.mother.ly/parenting/millennial-dads-spend-more-time-with-their-kids", Category: "society", VotesInteresting: 11, VotesMindblowing: 2, CreatedYear: 2019},
	{Text: "Lisbon is the capital of Portugal", Source: "https://en.wikipedia.org/wiki/Lisbon", Category: "society", VotesInteresting: 8, VotesMindblowing: 3, VotesFalse: 1, CreatedYear: 2015},
}

// closer releases whatever a backend holds open.
type closer func()

// newStore builds the configured fact store, wrapped in the list cache when
// a TTL is set.
func newStore(cfg config.Config, log *zap.Logger) (factstore.Store, closer, error) {
	var (
		store factstore.Store
		done  closer = func() {}
	)
	switch strings.ToLower(cfg.Store.Backend) {
	case "supabase":
		if cfg.Supabase.URL == "" {
			return nil, nil, fmt.Errorf("supabase.url is required for the supabase backend")
		}
		store = newSupabase(cfg, log)
	case "redis":
		rdb := redisclient.New(cfg.Redis)
		store = storage.NewRedisStore(rdb)
		done = func() { _ = rdb.Close() }
	case "memory":
		store = factstore.NewMemory(demoFacts...)
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
	if cfg.Store.CacheTTL > 0 {
		store = factstore.NewCached(store, cfg.Store.CacheTTL, log)
	}
	log.Debug("store ready", zap.String("backend", cfg.Store.Backend), zap.Duration("cache_ttl", cfg.Store.CacheTTL))
	return store, done, nil
}

func newSupabase(cfg config.Config, log *zap.Logger) *supabase.Client {
	return supabase.New(supabase.Config{
		URL:               cfg.Supabase.URL,
		APIKey:            cfg.Supabase.APIKey,
		Table:             cfg.Supabase.Table,
		Timeout:           cfg.Supabase.Timeout,
		RequestsPerSecond: cfg.Supabase.RequestsPerSecond,
		Burst:             cfg.Supabase.Burst,
	}, log.Named("supabase"))
}

// newAssistant returns nil when no OpenAI key is configured.
func newAssistant(cfg config.Config, log *zap.Logger) (ai.Assistant, error) {
	if cfg.OpenAI.APIKey == "" {
		return nil, nil
	}
	c, err := ai.NewOpenAI(ai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		BaseURL: cfg.OpenAI.BaseURL,
	}, log.Named("openai"))
	if err != nil {
		return nil, err
	}
	return c, nil
}

// session bundles what the interactive commands share.
type session struct {
	registry *category.Registry
	store    factstore.Store
	list     *factlist.State
	view     *view.View
	close    closer
}

func newSession(cfg config.Config, log *zap.Logger) (*session, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	store, done, err := newStore(cfg, log)
	if err != nil {
		return nil, err
	}
	list := factlist.New(store, reg, factlist.Options{
		Timeout: cfg.Store.LoadTimeout,
		Limit:   cfg.Store.Limit,
		Logger:  log.Named("factlist"),
	})
	v := view.New(reg, list, store, form.New(reg), log.Named("view"))
	return &session{registry: reg, store: store, list: list, view: v, close: done}, nil
}

// fetchAll performs one unfiltered load.
func (s *session) fetchAll(ctx context.Context) ([]model.Fact, error) {
	return s.list.Fetch(ctx, category.All)
}
