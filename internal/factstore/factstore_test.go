package factstore

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"today-i-learned/internal/model"
)

type countingStore struct {
	Store
	lists atomic.Int32
}

func (c *countingStore) List(ctx context.Context, q Query) ([]model.Fact, error) {
	c.lists.Add(1)
	return c.Store.List(ctx, q)
}

func seed() *Memory {
	return NewMemory(
		model.Fact{Text: "a", Category: "science", VotesInteresting: 1},
		model.Fact{Text: "b", Category: "history", VotesInteresting: 5},
		model.Fact{Text: "c", Category: "science", VotesInteresting: 3},
	)
}

func TestQueryNormalize(t *testing.T) {
	q := Query{Limit: 5000}.Normalize()
	assert.Equal(t, DefaultLimit, q.Limit)
	assert.Equal(t, OrderVotesInteresting, q.OrderBy)

	assert.Equal(t, Query{Category: "news", OrderBy: OrderVotesInteresting, Descending: true, Limit: DefaultLimit}, TopQuery("news"))
}

func TestMemoryListOrdersAndFilters(t *testing.T) {
	m := seed()
	ctx := context.Background()

	all, err := m.List(ctx, TopQuery(""))
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{all[0].Text, all[1].Text, all[2].Text})

	sci, err := m.List(ctx, TopQuery("science"))
	require.NoError(t, err)
	require.Len(t, sci, 2)
	assert.Equal(t, "c", sci[0].Text)

	capped, err := m.List(ctx, Query{Descending: true, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, capped, 1)
}

func TestMemoryInsertAndVote(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	f, err := m.Insert(ctx, model.Fact{Text: "x", Category: "news", Pending: true})
	require.NoError(t, err)
	assert.Equal(t, model.FactID("1"), f.ID)
	assert.False(t, f.Pending)

	f, err = m.Vote(ctx, f.ID, model.VoteMindblowing)
	require.NoError(t, err)
	assert.Equal(t, 1, f.VotesMindblowing)

	_, err = m.Vote(ctx, "404", model.VoteFalse)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCachedServesRepeatedList(t *testing.T) {
	inner := &countingStore{Store: seed()}
	c := NewCached(inner, time.Minute, nil)
	ctx := context.Background()

	first, err := c.List(ctx, TopQuery(""))
	require.NoError(t, err)
	second, err := c.List(ctx, TopQuery(""))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, inner.lists.Load())

	// Different category is a different key.
	_, err = c.List(ctx, TopQuery("science"))
	require.NoError(t, err)
	assert.EqualValues(t, 2, inner.lists.Load())
}

func TestCachedInvalidatesOnWrite(t *testing.T) {
	inner := &countingStore{Store: seed()}
	c := NewCached(inner, time.Minute, nil)
	ctx := context.Background()

	_, err := c.List(ctx, TopQuery(""))
	require.NoError(t, err)

	_, err = c.Insert(ctx, model.Fact{Text: "d", Category: "news"})
	require.NoError(t, err)

	facts, err := c.List(ctx, TopQuery(""))
	require.NoError(t, err)
	assert.Len(t, facts, 4)
	assert.EqualValues(t, 2, inner.lists.Load())

	_, err = c.Vote(ctx, facts[0].ID, model.VoteInteresting)
	require.NoError(t, err)
	_, err = c.List(ctx, TopQuery(""))
	require.NoError(t, err)
	assert.EqualValues(t, 3, inner.lists.Load())
}

func TestCachedReturnsCopies(t *testing.T) {
	c := NewCached(seed(), time.Minute, nil)
	ctx := context.Background()

	first, err := c.List(ctx, TopQuery(""))
	require.NoError(t, err)
	first[0].Text = "mutated"

	second, err := c.List(ctx, TopQuery(""))
	require.NoError(t, err)
	assert.Equal(t, "b", second[0].Text)
}
