package share

import (
	"time"

	"github.com/go-redis/redis"
)

const (
	entryKeyPrefix = "share:"
	recentKey      = "share:recent"
)

// See https://godoc.org/github.com/go-redis/redis#Options
type RedisConfig struct {
	Network  string
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps entries in redis as JSON strings with an expiry. A capped
// list of IDs tracks the most recent submissions.
type RedisStore struct {
	client    *redis.Client
	expire    time.Duration
	maxRecent int
}

func NewRedisStore(cfg RedisConfig, expire time.Duration, maxRecent int) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Network:  cfg.Network,
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		expire:    expire,
		maxRecent: maxRecent,
	}
}

func (s *RedisStore) Put(e *Entry) (bool, error) {
	if !validID(e.ID) {
		return false, ErrNotFound
	}
	data, err := encodeEntry(e)
	if err != nil {
		return false, err
	}
	created, err := s.client.SetNX(entryKeyPrefix+e.ID, data, s.expire).Result()
	if err != nil {
		return false, err
	}
	if !created {
		return false, nil
	}
	_, err = s.client.TxPipelined(func(p redis.Pipeliner) error {
		p.LPush(recentKey, e.ID)
		p.LTrim(recentKey, 0, int64(s.maxRecent-1))
		return nil
	})
	return true, err
}

func (s *RedisStore) Get(id string) (*Entry, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	data, err := s.client.Get(entryKeyPrefix + id).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return decodeEntry(data)
}

// Recent skips IDs whose entries have expired.
func (s *RedisStore) Recent(n int) ([]*Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	ids, err := s.client.LRange(recentKey, 0, int64(n-1)).Result()
	if err != nil || len(ids) == 0 {
		return nil, err
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = entryKeyPrefix + id
	}
	vals, err := s.client.MGet(keys...).Result()
	if err != nil {
		return nil, err
	}
	var out []*Entry
	for _, v := range vals {
		data, ok := v.(string)
		if !ok {
			continue
		}
		e, err := decodeEntry(data)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
