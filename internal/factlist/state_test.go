package factlist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"today-i-learned/internal/category"
	"today-i-learned/internal/factstore"
	"today-i-learned/internal/model"
)

type failingStore struct {
	factstore.Store
	err error
}

func (f failingStore) List(context.Context, factstore.Query) ([]model.Fact, error) {
	return nil, f.err
}

type recordingStore struct {
	factstore.Store
	last factstore.Query
}

func (r *recordingStore) List(ctx context.Context, q factstore.Query) ([]model.Fact, error) {
	r.last = q
	return r.Store.List(ctx, q)
}

type blockingStore struct {
	factstore.Store
}

func (blockingStore) List(ctx context.Context, _ factstore.Query) ([]model.Fact, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func sampleStore() *factstore.Memory {
	return factstore.NewMemory(
		model.Fact{Text: "Octopuses have three hearts.", Category: "science", VotesInteresting: 4},
		model.Fact{Text: "Rome was founded in 753 BC.", Category: "history", VotesInteresting: 9},
		model.Fact{Text: "Lisbon is older than Rome.", Category: "history", VotesInteresting: 2},
		model.Fact{Text: "Orphan record.", Category: "gossip", VotesInteresting: 7},
	)
}

func TestLoadAllSendsNoPredicate(t *testing.T) {
	rec := &recordingStore{Store: sampleStore()}
	s := New(rec, category.Default(), Options{})

	require.NoError(t, s.Load(context.Background(), category.All))
	assert.Equal(t, "", rec.last.Category)
	assert.Equal(t, factstore.OrderVotesInteresting, rec.last.OrderBy)
	assert.True(t, rec.last.Descending)
	assert.Equal(t, 1000, rec.last.Limit)
}

func TestLoadKeepsOnlyRegistryCategories(t *testing.T) {
	reg := category.Default()
	s := New(sampleStore(), reg, Options{})

	require.NoError(t, s.Load(context.Background(), category.All))
	facts := s.Facts()
	require.Len(t, facts, 3)
	for _, f := range facts {
		assert.True(t, reg.Has(f.Category), "unexpected category %q", f.Category)
	}
	assert.Equal(t, "Rome was founded in 753 BC.", facts[0].Text)
}

func TestLoadByCategory(t *testing.T) {
	rec := &recordingStore{Store: sampleStore()}
	s := New(rec, category.Default(), Options{})

	require.NoError(t, s.Load(context.Background(), "history"))
	assert.Equal(t, "history", rec.last.Category)
	assert.Equal(t, 2, s.Len())
}

func TestLoadUnknownCategory(t *testing.T) {
	s := New(sampleStore(), category.Default(), Options{})
	err := s.Load(context.Background(), "gossip")
	require.Error(t, err)
	assert.True(t, errors.Is(err, category.ErrCategoryNotFound))
}

func TestLoadFailureLeavesListUnchanged(t *testing.T) {
	reg := category.Default()
	s := New(sampleStore(), reg, Options{})
	require.NoError(t, s.Load(context.Background(), category.All))
	before := s.Facts()

	boom := errors.New("connection refused")
	s.store = failingStore{err: boom}
	err := s.Load(context.Background(), category.All)
	require.Error(t, err)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, category.All, fe.Category)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, before, s.Facts())
}

func TestLoadTimesOut(t *testing.T) {
	s := New(blockingStore{}, category.Default(), Options{Timeout: 20 * time.Millisecond})

	err := s.Load(context.Background(), category.All)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestPrependConfirmRemove(t *testing.T) {
	s := New(sampleStore(), category.Default(), Options{})
	require.NoError(t, s.Load(context.Background(), category.All))

	pending := model.Fact{ID: "tmp-1", Text: "new", Category: "news", Pending: true}
	s.Prepend(pending)
	assert.Equal(t, pending, s.Facts()[0])
	assert.Equal(t, 4, s.Len())

	ok := s.Confirm("tmp-1", model.Fact{ID: "77", Text: "new", Category: "news", Pending: true})
	require.True(t, ok)
	first := s.Facts()[0]
	assert.Equal(t, model.FactID("77"), first.ID)
	assert.False(t, first.Pending)

	assert.True(t, s.Remove("77"))
	assert.False(t, s.Remove("77"))
	assert.Equal(t, 3, s.Len())

	_, found := s.Get("77")
	assert.False(t, found)
}

func TestFactsReturnsCopy(t *testing.T) {
	s := New(sampleStore(), category.Default(), Options{})
	require.NoError(t, s.Load(context.Background(), category.All))

	facts := s.Facts()
	facts[0].Text = "changed"
	assert.NotEqual(t, "changed", s.Facts()[0].Text)
}
