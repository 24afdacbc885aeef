package factstore

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"today-i-learned/internal/model"
)

// Cached serves repeated List calls from memory until the entries expire or
// a write goes through it.
type Cached struct {
	next  Store
	cache *gocache.Cache
	log   *zap.Logger
}

// NewCached wraps next with a list cache holding entries for ttl.
func NewCached(next Store, ttl time.Duration, log *zap.Logger) *Cached {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cached{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
		log:   log,
	}
}

func cacheKey(q Query) string {
	return fmt.Sprintf("til:v1:list:%s:%s:%t:%d", q.Category, q.OrderBy, q.Descending, q.Limit)
}

func (c *Cached) List(ctx context.Context, q Query) ([]model.Fact, error) {
	q = q.Normalize()
	key := cacheKey(q)
	if v, found := c.cache.Get(key); found {
		c.log.Debug("fact list cache hit", zap.String("key", key))
		return cloneFacts(v.([]model.Fact)), nil
	}
	facts, err := c.next.List(ctx, q)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, cloneFacts(facts))
	return facts, nil
}

func (c *Cached) Insert(ctx context.Context, f model.Fact) (model.Fact, error) {
	out, err := c.next.Insert(ctx, f)
	if err == nil {
		c.cache.Flush()
	}
	return out, err
}

func (c *Cached) Vote(ctx context.Context, id model.FactID, kind model.VoteKind) (model.Fact, error) {
	out, err := c.next.Vote(ctx, id, kind)
	if err == nil {
		c.cache.Flush()
	}
	return out, err
}

// Invalidate drops every cached list.
func (c *Cached) Invalidate() { c.cache.Flush() }

func cloneFacts(in []model.Fact) []model.Fact {
	out := make([]model.Fact, len(in))
	copy(out, in)
	return out
}
