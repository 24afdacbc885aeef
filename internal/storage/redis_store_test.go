package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"today-i-learned/internal/factstore"
	"today-i-learned/internal/model"
)

func newTestStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb)
}

func TestInsertAssignsSequentialIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.Insert(ctx, model.Fact{Text: "a", Category: "science", Pending: true})
	require.NoError(t, err)
	b, err := s.Insert(ctx, model.Fact{Text: "b", Category: "science"})
	require.NoError(t, err)

	assert.Equal(t, model.FactID("1"), a.ID)
	assert.Equal(t, model.FactID("2"), b.ID)
	assert.False(t, a.Pending)
}

func TestListRanksByInterestingAndFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, f := range []model.Fact{
		{ID: "10", Text: "low", Category: "science", VotesInteresting: 1},
		{ID: "11", Text: "high", Category: "history", VotesInteresting: 8},
		{ID: "12", Text: "mid", Category: "science", VotesInteresting: 4},
	} {
		require.NoError(t, s.Put(ctx, f))
	}

	all, err := s.List(ctx, factstore.TopQuery(""))
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"high", "mid", "low"}, []string{all[0].Text, all[1].Text, all[2].Text})

	sci, err := s.List(ctx, factstore.TopQuery("science"))
	require.NoError(t, err)
	require.Len(t, sci, 2)
	assert.Equal(t, "mid", sci[0].Text)

	top, err := s.List(ctx, factstore.Query{Descending: true, Limit: 1})
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "high", top[0].Text)

	empty, err := s.List(ctx, factstore.TopQuery("news"))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestVoteUpdatesCounterAndRank(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, model.Fact{ID: "1", Text: "a", Category: "news", VotesInteresting: 1}))
	require.NoError(t, s.Put(ctx, model.Fact{ID: "2", Text: "b", Category: "news", VotesInteresting: 2}))

	for i := 0; i < 2; i++ {
		_, err := s.Vote(ctx, "1", model.VoteInteresting)
		require.NoError(t, err)
	}
	f, err := s.Vote(ctx, "1", model.VoteFalse)
	require.NoError(t, err)
	assert.Equal(t, 3, f.VotesInteresting)
	assert.Equal(t, 1, f.VotesFalse)

	facts, err := s.List(ctx, factstore.TopQuery("news"))
	require.NoError(t, err)
	assert.Equal(t, model.FactID("1"), facts[0].ID)
}

func TestVoteUnknownFact(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Vote(context.Background(), "nope", model.VoteInteresting)
	assert.True(t, errors.Is(err, factstore.ErrNotFound))
}

func TestPutRequiresID(t *testing.T) {
	s := newTestStore(t)
	assert.Error(t, s.Put(context.Background(), model.Fact{Text: "x"}))
}

func TestPublishedMarker(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ok, err := s.IsPublished(ctx, "2026-10-18")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.MarkPublished(ctx, "2026-10-18"))
	ok, err = s.IsPublished(ctx, "2026-10-18")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInsertAfterPutDoesNotReuseMirroredID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, model.Fact{ID: "1", Text: "mirrored", Category: "science", VotesInteresting: 4}))
	local, err := s.Insert(ctx, model.Fact{Text: "local", Category: "history"})
	require.NoError(t, err)
	assert.Equal(t, model.FactID("2"), local.ID)

	science, err := s.List(ctx, factstore.TopQuery("science"))
	require.NoError(t, err)
	require.Len(t, science, 1)
	assert.Equal(t, "mirrored", science[0].Text)

	all, err := s.List(ctx, factstore.TopQuery(""))
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestInsertSkipsTakenIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, model.Fact{ID: "3", Text: "mirrored", Category: "science"}))
	require.NoError(t, s.rdb.Set(ctx, seqKey, 2, 0).Err())

	local, err := s.Insert(ctx, model.Fact{Text: "local", Category: "news"})
	require.NoError(t, err)
	assert.Equal(t, model.FactID("4"), local.ID)

	got, err := s.List(ctx, factstore.TopQuery("science"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "mirrored", got[0].Text)
}

func TestPutMovesFactBetweenCategoryRankings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, model.Fact{ID: "9", Text: "moved", Category: "science"}))
	require.NoError(t, s.Put(ctx, model.Fact{ID: "9", Text: "moved", Category: "history"}))

	science, err := s.List(ctx, factstore.TopQuery("science"))
	require.NoError(t, err)
	assert.Empty(t, science)

	history, err := s.List(ctx, factstore.TopQuery("history"))
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "history", history[0].Category)

	seq, err := s.rdb.Get(ctx, seqKey).Int64()
	require.NoError(t, err)
	assert.EqualValues(t, 9, seq)
}
