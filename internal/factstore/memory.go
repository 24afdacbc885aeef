package factstore

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"today-i-learned/internal/model"
)

// Memory is an in-process Store. It backs tests and the offline demo mode.
type Memory struct {
	mu    sync.Mutex
	facts []model.Fact
	seq   int64
}

// NewMemory returns a store seeded with facts. Seed facts without ids get one.
func NewMemory(seed ...model.Fact) *Memory {
	m := &Memory{}
	for _, f := range seed {
		if f.ID == "" {
			m.seq++
			f.ID = model.FactID(strconv.FormatInt(m.seq, 10))
		}
		f.Pending = false
		m.facts = append(m.facts, f)
	}
	return m
}

func (m *Memory) List(_ context.Context, q Query) ([]model.Fact, error) {
	q = q.Normalize()
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Fact, 0, len(m.facts))
	for _, f := range m.facts {
		if q.Category != "" && f.Category != q.Category {
			continue
		}
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if q.Descending {
			return out[i].VotesInteresting > out[j].VotesInteresting
		}
		return out[i].VotesInteresting < out[j].VotesInteresting
	})
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *Memory) Insert(_ context.Context, f model.Fact) (model.Fact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	f.ID = model.FactID(strconv.FormatInt(m.seq, 10))
	f.Pending = false
	m.facts = append(m.facts, f)
	return f, nil
}

func (m *Memory) Vote(_ context.Context, id model.FactID, kind model.VoteKind) (model.Fact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.facts {
		if m.facts[i].ID != id {
			continue
		}
		if _, err := m.facts[i].AddVote(kind); err != nil {
			return model.Fact{}, err
		}
		return m.facts[i], nil
	}
	return model.Fact{}, ErrNotFound
}
