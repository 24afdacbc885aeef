package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"today-i-learned/internal/factstore"
	"today-i-learned/internal/model"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	rdb *redis.Client
}

var _ factstore.Store = (*RedisStore)(nil)

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

const seqKey = "til:seq"

func itemKey(id model.FactID) string {
	return fmt.Sprintf("til:fact:%s", id)
}

func rankKey(category string) string {
	if category == "" {
		return "til:rank:all"
	}
	return fmt.Sprintf("til:rank:cat:%s", category)
}

func publishedKey(period string) string {
	return fmt.Sprintf("til:digest:%s", period)
}

// errIDTaken is returned by write when a new fact's id already exists.
var errIDTaken = errors.New("fact id already taken")

// raiseSeq lifts the id counter to at least ARGV[1], so local inserts never
// reuse an id that arrived through Put.
var raiseSeq = redis.NewScript(`
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
local id = tonumber(ARGV[1])
if id > cur then
	redis.call('SET', KEYS[1], ARGV[1])
end
return 0
`)

// Insert assigns the next free sequence id and stores the fact in the rankings.
func (s *RedisStore) Insert(ctx context.Context, f model.Fact) (model.Fact, error) {
	f.Pending = false
	for i := 0; i < 10; i++ {
		n, err := s.rdb.Incr(ctx, seqKey).Result()
		if err != nil {
			return model.Fact{}, err
		}
		f.ID = model.FactID(strconv.FormatInt(n, 10))
		err = s.write(ctx, f, true)
		if errors.Is(err, errIDTaken) {
			continue
		}
		if err != nil {
			return model.Fact{}, err
		}
		return f, nil
	}
	return model.Fact{}, errors.New("insert fact: no free id")
}

// Put stores or overwrites a fact under its own id. Used when mirroring
// another store, so ids are kept as they are.
func (s *RedisStore) Put(ctx context.Context, f model.Fact) error {
	if f.ID == "" {
		return errors.New("put fact: empty id")
	}
	return s.write(ctx, f, false)
}

// write stores f under optimistic locking. A category change moves the id
// between category rankings. With create set, an existing fact is left alone
// and errIDTaken returned.
func (s *RedisStore) write(ctx context.Context, f model.Fact, create bool) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	key := itemKey(f.ID)
	member := f.ID.String()
	txf := func(tx *redis.Tx) error {
		old, err := tx.Get(ctx, key).Bytes()
		if err != nil && err != redis.Nil {
			return err
		}
		exists := err == nil
		if exists && create {
			return errIDTaken
		}
		var prev model.Fact
		if exists {
			if err := json.Unmarshal(old, &prev); err != nil {
				return fmt.Errorf("fact %s: %w", f.ID, err)
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, 0)
			if exists && prev.Category != f.Category {
				pipe.ZRem(ctx, rankKey(prev.Category), member)
			}
			z := redis.Z{Score: float64(f.VotesInteresting), Member: member}
			pipe.ZAdd(ctx, rankKey(""), z)
			pipe.ZAdd(ctx, rankKey(f.Category), z)
			return nil
		})
		return err
	}
	for i := 0; i < 5; i++ {
		err := s.rdb.Watch(ctx, txf, key)
		if err == redis.TxFailedErr {
			continue
		}
		if err != nil || create {
			return err
		}
		// Insert skips taken ids as well, so a racing insert between the
		// write and this raise cannot clobber the fact.
		if n, perr := strconv.ParseInt(member, 10, 64); perr == nil {
			return raiseSeq.Run(ctx, s.rdb, []string{seqKey}, n).Err()
		}
		return nil
	}
	return fmt.Errorf("write fact %s: too much contention", f.ID)
}

// List retrieves facts ranked by votesInteresting.
func (s *RedisStore) List(ctx context.Context, q factstore.Query) ([]model.Fact, error) {
	q = q.Normalize()
	if q.OrderBy != factstore.OrderVotesInteresting {
		return nil, fmt.Errorf("redis store: unsupported order %q", q.OrderBy)
	}
	key := rankKey(q.Category)
	stop := int64(q.Limit - 1)
	var (
		ids []string
		err error
	)
	if q.Descending {
		ids, err = s.rdb.ZRevRange(ctx, key, 0, stop).Result()
	} else {
		ids, err = s.rdb.ZRange(ctx, key, 0, stop).Result()
	}
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.Fact{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = itemKey(model.FactID(id))
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make([]model.Fact, 0, len(vals))
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			// ranked id without a body; skip it
			continue
		}
		var f model.Fact
		if err := json.Unmarshal([]byte(str), &f); err != nil {
			return nil, fmt.Errorf("decode fact %s: %w", ids[i], err)
		}
		out = append(out, f)
	}
	return out, nil
}

// Vote increments a counter under optimistic locking on the fact key.
func (s *RedisStore) Vote(ctx context.Context, id model.FactID, kind model.VoteKind) (model.Fact, error) {
	key := itemKey(id)
	var updated model.Fact
	txf := func(tx *redis.Tx) error {
		b, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return factstore.ErrNotFound
		}
		if err != nil {
			return err
		}
		var f model.Fact
		if err := json.Unmarshal(b, &f); err != nil {
			return err
		}
		if _, err := f.AddVote(kind); err != nil {
			return err
		}
		nb, err := json.Marshal(f)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, nb, 0)
			if kind == model.VoteInteresting {
				z := redis.Z{Score: float64(f.VotesInteresting), Member: id.String()}
				pipe.ZAdd(ctx, rankKey(""), z)
				pipe.ZAdd(ctx, rankKey(f.Category), z)
			}
			return nil
		})
		updated = f
		return err
	}
	for i := 0; i < 5; i++ {
		err := s.rdb.Watch(ctx, txf, key)
		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			return model.Fact{}, err
		}
		return updated, nil
	}
	return model.Fact{}, fmt.Errorf("vote %s: too much contention", id)
}

func (s *RedisStore) IsPublished(ctx context.Context, period string) (bool, error) {
	res, err := s.rdb.Get(ctx, publishedKey(period)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return res == "1", nil
}

func (s *RedisStore) MarkPublished(ctx context.Context, period string) error {
	return s.rdb.Set(ctx, publishedKey(period), "1", 30*24*time.Hour).Err()
}
