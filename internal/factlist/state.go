// Package factlist mirrors the remote fact table in memory and narrows it
// down by category.
package factlist

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"today-i-learned/internal/category"
	"today-i-learned/internal/factstore"
	"today-i-learned/internal/model"
)

// DefaultLoadTimeout bounds a load when none is configured.
const DefaultLoadTimeout = 10 * time.Second

// FetchError reports a failed load. The list keeps its previous contents.
type FetchError struct {
	Category string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("there was a problem getting facts (category %s): %v", e.Category, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// State is the ordered in-memory sequence of facts. Newly created facts are
// prepended; loads replace the whole sequence.
type State struct {
	store    factstore.Store
	registry *category.Registry
	timeout  time.Duration
	limit    int
	log      *zap.Logger

	mu    sync.RWMutex
	facts []model.Fact
}

// Options tunes a State. Zero values pick defaults.
type Options struct {
	Timeout time.Duration
	Limit   int
	Logger  *zap.Logger
}

func New(store factstore.Store, registry *category.Registry, opts Options) *State {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultLoadTimeout
	}
	if opts.Limit <= 0 || opts.Limit > factstore.DefaultLimit {
		opts.Limit = factstore.DefaultLimit
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &State{
		store:    store,
		registry: registry,
		timeout:  opts.Timeout,
		limit:    opts.Limit,
		log:      opts.Logger,
	}
}

// Fetch queries the store without touching the list. "all" sends no
// category predicate. Records with categories outside the registry are
// dropped.
func (s *State) Fetch(ctx context.Context, cat string) ([]model.Fact, error) {
	q := factstore.TopQuery("")
	q.Limit = s.limit
	if cat != category.All && cat != "" {
		if !s.registry.Has(cat) {
			return nil, &FetchError{Category: cat, Err: &category.LookupError{Name: cat}}
		}
		q.Category = cat
	}
	if cat == "" {
		cat = category.All
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	facts, err := s.store.List(ctx, q)
	if err != nil {
		s.log.Warn("load facts failed", zap.String("category", cat), zap.Error(err))
		return nil, &FetchError{Category: cat, Err: err}
	}

	kept := make([]model.Fact, 0, len(facts))
	for _, f := range facts {
		if !s.registry.Has(f.Category) {
			s.log.Warn("dropping fact with unknown category",
				zap.String("id", f.ID.String()), zap.String("category", f.Category))
			continue
		}
		f.Pending = false
		kept = append(kept, f)
	}
	s.log.Info("loaded facts", zap.String("category", cat), zap.Int("count", len(kept)),
		zap.Duration("took", time.Since(start)))
	return kept, nil
}

// Load fetches and, on success, replaces the list.
func (s *State) Load(ctx context.Context, cat string) error {
	facts, err := s.Fetch(ctx, cat)
	if err != nil {
		return err
	}
	s.Replace(facts)
	return nil
}

// Replace swaps the whole sequence.
func (s *State) Replace(facts []model.Fact) {
	cp := make([]model.Fact, len(facts))
	copy(cp, facts)
	s.mu.Lock()
	s.facts = cp
	s.mu.Unlock()
}

// Prepend inserts f at the front.
func (s *State) Prepend(f model.Fact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facts = append([]model.Fact{f}, s.facts...)
}

// Confirm replaces the fact with id pendingID by persisted, keeping its position.
func (s *State) Confirm(pendingID model.FactID, persisted model.Fact) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.facts {
		if s.facts[i].ID == pendingID {
			persisted.Pending = false
			s.facts[i] = persisted
			return true
		}
	}
	return false
}

// Update overwrites the stored copy of f matched by id.
func (s *State) Update(f model.Fact) bool {
	return s.Confirm(f.ID, f)
}

// Remove drops the fact with id.
func (s *State) Remove(id model.FactID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.facts {
		if s.facts[i].ID == id {
			s.facts = append(s.facts[:i:i], s.facts[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the fact with id.
func (s *State) Get(id model.FactID) (model.Fact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.facts {
		if f.ID == id {
			return f, true
		}
	}
	return model.Fact{}, false
}

// Facts returns a copy of the sequence.
func (s *State) Facts() []model.Fact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Fact, len(s.facts))
	copy(out, s.facts)
	return out
}

func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.facts)
}
